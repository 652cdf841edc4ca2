package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	membersdomain "gym-desk-go/internal/domain/members"
)

type createMembershipRequest struct {
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	Cost      string `json:"cost"`
}

type membershipResponse struct {
	ID        string `json:"id"`
	MemberID  string `json:"member_id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Cost      string `json:"cost"`
	Paid      bool   `json:"paid"`
}

func toMembershipResponse(membership membersdomain.Membership) membershipResponse {
	return membershipResponse{
		ID:        membership.ID,
		MemberID:  membership.MemberID,
		Type:      string(membership.Type),
		StartDate: membersdomain.DateOnly(membership.StartDate).Format("2006-01-02"),
		EndDate:   membersdomain.DateOnly(membership.EndDate).Format("2006-01-02"),
		Cost:      membership.Cost.StringFixed(2),
		Paid:      membership.Paid,
	}
}

func (h *Handlers) CreateMembership(w http.ResponseWriter, r *http.Request) {
	var req createMembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	startDate, err := parseDateRequired(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid start date")
		return
	}
	cost, err := parseDecimalRequired(req.Cost)
	if err != nil || cost.IsNegative() {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid cost")
		return
	}

	membership, err := h.members.CreateMembership(r.Context(), membersdomain.CreateMembershipInput{
		MemberID:  chi.URLParam(r, "id"),
		Type:      req.Type,
		StartDate: startDate,
		Cost:      cost,
	})
	if err != nil {
		h.writeDomainError(w, err, "memberships: create")
		return
	}

	writeJSON(w, http.StatusCreated, toMembershipResponse(*membership))
}

func (h *Handlers) ListMemberships(w http.ResponseWriter, r *http.Request) {
	memberships, err := h.members.Memberships(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, err, "memberships: list")
		return
	}

	items := make([]membershipResponse, 0, len(memberships))
	for _, membership := range memberships {
		items = append(items, toMembershipResponse(membership))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items, "total": len(items)})
}
