package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	checkindomain "gym-desk-go/internal/domain/checkin"
	membersdomain "gym-desk-go/internal/domain/members"
)

type checkInRequest struct {
	// Identifier is an email or a 5-character access code.
	Identifier string `json:"identifier"`
}

type checkInResponse struct {
	Admitted       bool   `json:"admitted"`
	MemberName     string `json:"member_name"`
	MembershipType string `json:"membership_type,omitempty"`
	EndDate        string `json:"end_date,omitempty"`
	DaysRemaining  int    `json:"days_remaining,omitempty"`
	Reason         string `json:"reason,omitempty"`
	DaysOverdue    int    `json:"days_overdue,omitempty"`
	Reactivated    bool   `json:"reactivated,omitempty"`
	Deactivated    bool   `json:"deactivated,omitempty"`
}

type checkInItemResponse struct {
	ID          string    `json:"id"`
	MemberID    string    `json:"member_id"`
	MemberName  string    `json:"member_name"`
	CheckedInAt time.Time `json:"checked_in_at"`
}

func toCheckInItemResponse(record checkindomain.EventRecord) checkInItemResponse {
	return checkInItemResponse{
		ID:          record.ID,
		MemberID:    record.MemberID,
		MemberName:  record.MemberName,
		CheckedInAt: record.CheckedInAt,
	}
}

// SubmitCheckIn is the public kiosk endpoint.
func (h *Handlers) SubmitCheckIn(w http.ResponseWriter, r *http.Request) {
	var req checkInRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if strings.TrimSpace(req.Identifier) == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "identifier is required")
		return
	}

	decision, err := h.checkins.CheckIn(r.Context(), req.Identifier)
	if err != nil {
		// An unknown identifier is a user-facing message on the kiosk,
		// not a system failure.
		if errors.Is(err, membersdomain.ErrMemberNotFound) {
			writeError(w, http.StatusNotFound, "member_not_found", "no member matches that email or access code")
			return
		}
		h.writeDomainError(w, err, "checkin: submit")
		return
	}

	response := checkInResponse{
		Admitted:    decision.Admitted,
		MemberName:  decision.MemberName,
		Reactivated: decision.Reactivated,
		Deactivated: decision.Deactivated,
	}
	if decision.Admitted {
		response.MembershipType = string(decision.MembershipType)
		response.EndDate = decision.EndDate.Format("2006-01-02")
		response.DaysRemaining = decision.DaysRemaining
	} else {
		response.Reason = string(decision.Reason)
		response.DaysOverdue = decision.DaysOverdue
	}

	writeJSON(w, http.StatusOK, response)
}

// RecentCheckIns feeds the kiosk's last-entries panel.
func (h *Handlers) RecentCheckIns(w http.ResponseWriter, r *http.Request) {
	limit, err := parseIntParam(r.URL.Query().Get("limit"), h.recent)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}

	records, err := h.checkins.Recent(r.Context(), limit)
	if err != nil {
		h.writeDomainError(w, err, "checkin: recent")
		return
	}

	items := make([]checkInItemResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toCheckInItemResponse(record))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

// CheckInHistory is the staff-facing filterable history.
func (h *Handlers) CheckInHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	from, err := parseDateParam(query.Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid from date")
		return
	}
	to, err := parseDateParam(query.Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid to date")
		return
	}
	limit, err := parseIntParam(query.Get("limit"), 100)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid limit")
		return
	}
	offset, err := parseIntParam(query.Get("offset"), 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid offset")
		return
	}

	filter := checkindomain.HistoryFilter{
		From:     from,
		MemberID: strings.TrimSpace(query.Get("member_id")),
		Limit:    limit,
		Offset:   offset,
	}
	if to != nil {
		// Filter dates are inclusive; the repository bound is exclusive.
		end := to.AddDate(0, 0, 1)
		filter.To = &end
	}

	records, total, err := h.checkins.History(r.Context(), filter)
	if err != nil {
		h.writeDomainError(w, err, "checkin: history")
		return
	}

	items := make([]checkInItemResponse, 0, len(records))
	for _, record := range records {
		items = append(items, toCheckInItemResponse(record))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": total})
}
