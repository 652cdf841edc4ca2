package app

import (
	"net/http"

	"gorm.io/gorm"
	"gym-desk-go/internal/config"
	"gym-desk-go/internal/db"
	checkindomain "gym-desk-go/internal/domain/checkin"
	membersdomain "gym-desk-go/internal/domain/members"
	reportsdomain "gym-desk-go/internal/domain/reports"
	checkinrepo "gym-desk-go/internal/repository/postgres/checkin"
	membersrepo "gym-desk-go/internal/repository/postgres/members"
	reportsrepo "gym-desk-go/internal/repository/postgres/reports"
	"gym-desk-go/internal/storage"
	"gym-desk-go/internal/transport/httpserver"
	"gym-desk-go/internal/transport/httpserver/handler"
	"gym-desk-go/pkg/logger"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
}

func New(log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg := config.Load(log)

	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(dbConn); err != nil {
		return nil, err
	}

	receipts, err := storage.NewReceiptStore(cfg.ReceiptsDir)
	if err != nil {
		return nil, err
	}

	membersService := membersdomain.NewService(membersrepo.NewPostgres(dbConn))
	checkinService := checkindomain.NewService(membersService, checkinrepo.NewPostgres(dbConn))
	reportsService := reportsdomain.NewService(
		reportsrepo.NewPostgres(dbConn),
		cfg.Dashboard.ExpiringWindowDays,
		cfg.Dashboard.ExpiredLookbackDays,
	)

	log.Info("app: initializing router")
	handlers := handler.New(membersService, checkinService, reportsService, receipts, cfg, log)
	router := httpserver.NewRouter(cfg, handlers, log)

	log.Info("app: initializing http server")
	srv := httpserver.New(cfg, router)

	return &App{
		cfg:        cfg,
		httpServer: srv,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
