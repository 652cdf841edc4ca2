package handler

import (
	"gym-desk-go/internal/config"
	checkindomain "gym-desk-go/internal/domain/checkin"
	membersdomain "gym-desk-go/internal/domain/members"
	reportsdomain "gym-desk-go/internal/domain/reports"
	"gym-desk-go/internal/storage"
	"gym-desk-go/pkg/logger"
)

type Handlers struct {
	members  *membersdomain.Service
	checkins *checkindomain.Service
	reports  *reportsdomain.Service
	receipts *storage.ReceiptStore
	auth     config.AuthConfig
	recent   int
	log      logger.Logger
}

func New(
	members *membersdomain.Service,
	checkins *checkindomain.Service,
	reports *reportsdomain.Service,
	receipts *storage.ReceiptStore,
	cfg config.Config,
	log logger.Logger,
) *Handlers {
	return &Handlers{
		members:  members,
		checkins: checkins,
		reports:  reports,
		receipts: receipts,
		auth:     cfg.Auth,
		recent:   cfg.Dashboard.RecentCheckIns,
		log:      log,
	}
}
