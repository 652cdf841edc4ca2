package httpserver

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"gym-desk-go/internal/config"
	"gym-desk-go/internal/transport/httpserver/handler"
	authmw "gym-desk-go/internal/transport/httpserver/middleware"
	"gym-desk-go/pkg/logger"
)

func NewRouter(cfg config.Config, handlers *handler.Handlers, log logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         86400,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", handlers.Health)
		r.Post("/auth/login", handlers.Login)

		// Kiosk endpoints stay public; the front desk tablet has no
		// staff session.
		r.Post("/checkin", handlers.SubmitCheckIn)
		r.Get("/checkin/recent", handlers.RecentCheckIns)

		auth := authmw.NewSessionAuth(cfg.Auth, log)
		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware)

			r.Get("/members", handlers.ListMembers)
			r.Post("/members", handlers.CreateMember)
			r.Get("/members/{id}", handlers.GetMember)
			r.Put("/members/{id}", handlers.UpdateMember)
			r.Delete("/members/{id}", handlers.DeleteMember)

			r.Get("/members/{id}/memberships", handlers.ListMemberships)
			r.Post("/members/{id}/memberships", handlers.CreateMembership)

			r.Get("/memberships/{id}/payments", handlers.ListPayments)
			r.Post("/memberships/{id}/payments", handlers.CreatePayment)
			r.Get("/payments/{id}/receipt", handlers.GetReceipt)

			r.Get("/checkins", handlers.CheckInHistory)

			r.Get("/dashboard", handlers.Dashboard)
			r.Get("/export/members", handlers.ExportMembers)
		})
	})

	return r
}
