package handler

import (
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gym-desk-go/pkg/auth"
)

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// Login verifies the staff credential and issues a session token.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if h.auth.StaffPasswordHash == "" ||
		!strings.EqualFold(email, h.auth.StaffEmail) ||
		bcrypt.CompareHashAndPassword([]byte(h.auth.StaffPasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials")
		return
	}

	token, err := auth.NewSessionToken(email, h.auth.JWTSecret, h.auth.SessionTTL)
	if err != nil {
		h.log.InternalError("auth: issue token", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     token,
		ExpiresIn: int64(h.auth.SessionTTL.Seconds()),
	})
}
