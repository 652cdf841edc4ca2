package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	membersdomain "gym-desk-go/internal/domain/members"
)

type createMemberRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
}

type memberResponse struct {
	ID           string    `json:"id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	AccessCode   string    `json:"access_code"`
	Active       bool      `json:"active"`
	RegisteredAt time.Time `json:"registered_at"`
}

type memberOverviewResponse struct {
	memberResponse
	MembershipType *string `json:"membership_type,omitempty"`
	ExpiresAt      *string `json:"expires_at,omitempty"`
	DaysRemaining  int     `json:"days_remaining"`
	DaysOverdue    int     `json:"days_overdue"`
	HasValid       bool    `json:"has_valid_membership"`
}

type memberListResponse struct {
	Items []memberOverviewResponse `json:"items"`
	Total int                      `json:"total"`
}

type memberDetailResponse struct {
	memberResponse
	Memberships   []membershipResponse  `json:"memberships"`
	RecentEntries []checkInItemResponse `json:"recent_entries"`
}

func toMemberResponse(member membersdomain.Member) memberResponse {
	return memberResponse{
		ID:           member.ID,
		FirstName:    member.FirstName,
		LastName:     member.LastName,
		Phone:        member.Phone,
		Email:        member.Email,
		AccessCode:   member.AccessCode,
		Active:       member.Active,
		RegisteredAt: member.RegisteredAt,
	}
}

func toMemberOverviewResponse(overview membersdomain.MemberOverview) memberOverviewResponse {
	response := memberOverviewResponse{
		memberResponse: toMemberResponse(overview.Member),
		DaysRemaining:  overview.DaysRemaining,
		DaysOverdue:    overview.DaysOverdue,
		HasValid:       overview.HasValid,
	}
	if overview.MembershipType != nil {
		value := string(*overview.MembershipType)
		response.MembershipType = &value
	}
	if overview.ExpiresAt != nil {
		value := overview.ExpiresAt.Format("2006-01-02")
		response.ExpiresAt = &value
	}
	return response
}

func (h *Handlers) ListMembers(w http.ResponseWriter, r *http.Request) {
	overviews, err := h.members.ListOverview(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "members: list")
		return
	}

	items := make([]memberOverviewResponse, 0, len(overviews))
	for _, overview := range overviews {
		items = append(items, toMemberOverviewResponse(overview))
	}
	writeJSON(w, http.StatusOK, memberListResponse{Items: items, Total: len(items)})
}

func (h *Handlers) CreateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := validateMemberRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", message)
		return
	}

	member, err := h.members.CreateMember(r.Context(), membersdomain.CreateMemberInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.writeDomainError(w, err, "members: create")
		return
	}

	writeJSON(w, http.StatusCreated, toMemberResponse(*member))
}

func (h *Handlers) GetMember(w http.ResponseWriter, r *http.Request) {
	memberID := chi.URLParam(r, "id")

	// Detail views are a defined resync trigger point.
	status, err := h.members.SyncStatus(r.Context(), memberID)
	if err != nil {
		h.writeDomainError(w, err, "members: get")
		return
	}

	memberships, err := h.members.Memberships(r.Context(), memberID)
	if err != nil {
		h.writeDomainError(w, err, "members: get memberships")
		return
	}

	entries, _, err := h.checkins.HistoryForMember(r.Context(), memberID, h.recent)
	if err != nil {
		h.writeDomainError(w, err, "members: get entries")
		return
	}

	detail := memberDetailResponse{
		memberResponse: toMemberResponse(*status.Member),
		Memberships:    make([]membershipResponse, 0, len(memberships)),
		RecentEntries:  make([]checkInItemResponse, 0, len(entries)),
	}
	for _, membership := range memberships {
		detail.Memberships = append(detail.Memberships, toMembershipResponse(membership))
	}
	for _, entry := range entries {
		detail.RecentEntries = append(detail.RecentEntries, toCheckInItemResponse(entry))
	}

	writeJSON(w, http.StatusOK, detail)
}

func (h *Handlers) UpdateMember(w http.ResponseWriter, r *http.Request) {
	var req createMemberRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}
	if message, ok := validateMemberRequest(req); !ok {
		writeError(w, http.StatusBadRequest, "invalid_request", message)
		return
	}

	member, err := h.members.UpdateMember(r.Context(), membersdomain.UpdateMemberInput{
		ID:        chi.URLParam(r, "id"),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	})
	if err != nil {
		h.writeDomainError(w, err, "members: update")
		return
	}

	writeJSON(w, http.StatusOK, toMemberResponse(*member))
}

func (h *Handlers) DeleteMember(w http.ResponseWriter, r *http.Request) {
	if err := h.members.DeleteMember(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, err, "members: delete")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func validateMemberRequest(req createMemberRequest) (string, bool) {
	if strings.TrimSpace(req.FirstName) == "" {
		return "first name is required", false
	}
	if strings.TrimSpace(req.LastName) == "" {
		return "last name is required", false
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return "a valid email is required", false
	}
	return "", true
}
