package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	membersdomain "gym-desk-go/internal/domain/members"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeDomainError maps domain sentinels onto the error envelope. Unknown
// errors become an opaque 500; the caller logs them.
func (h *Handlers) writeDomainError(w http.ResponseWriter, err error, context string) {
	switch {
	case errors.Is(err, membersdomain.ErrMemberNotFound):
		writeError(w, http.StatusNotFound, "member_not_found", "member not found")
	case errors.Is(err, membersdomain.ErrMembershipNotFound):
		writeError(w, http.StatusNotFound, "membership_not_found", "membership not found")
	case errors.Is(err, membersdomain.ErrPaymentNotFound):
		writeError(w, http.StatusNotFound, "payment_not_found", "payment not found")
	case errors.Is(err, membersdomain.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, "duplicate_email", "email already registered")
	case errors.Is(err, membersdomain.ErrInvalidMembershipType):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid membership type")
	case errors.Is(err, membersdomain.ErrInvalidPaymentMethod):
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid payment method")
	default:
		h.log.InternalError(context, err)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
	}
}
