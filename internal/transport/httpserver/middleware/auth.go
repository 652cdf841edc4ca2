package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"gym-desk-go/internal/config"
	"gym-desk-go/pkg/auth"
	"gym-desk-go/pkg/logger"
)

type contextKey int

const staffEmailKey contextKey = iota

// SessionAuth gates staff-facing routes behind the bearer session token
// issued at login. The check-in kiosk routes stay outside it.
type SessionAuth struct {
	secret string
	log    logger.Logger
}

func NewSessionAuth(cfg config.AuthConfig, log logger.Logger) *SessionAuth {
	return &SessionAuth{secret: cfg.JWTSecret, log: log}
}

func (a *SessionAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		claims, err := auth.ParseSessionToken(strings.TrimSpace(token), a.secret)
		if err != nil {
			a.log.BusinessError("auth: token rejected", err)
			unauthorized(w, "invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), staffEmailKey, claims.Email)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// StaffFromContext returns the authenticated staff email, if any.
func StaffFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(staffEmailKey).(string)
	return email, ok
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]map[string]string{
		"error": {"code": "unauthorized", "message": message},
	})
}
