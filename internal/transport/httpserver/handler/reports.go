package handler

import "net/http"

type dashboardResponse struct {
	TotalMembers     int64                  `json:"total_members"`
	ActiveMembers    int64                  `json:"active_members"`
	ValidMemberships int64                  `json:"valid_memberships"`
	MonthPayments    string                 `json:"month_payments"`
	TodayCheckIns    int64                  `json:"today_check_ins"`
	ExpiringSoon     []expiringItemResponse `json:"expiring_soon"`
	RecentlyExpired  []expiredItemResponse  `json:"recently_expired"`
}

type expiringItemResponse struct {
	MembershipID  string `json:"membership_id"`
	MemberID      string `json:"member_id"`
	MemberName    string `json:"member_name"`
	Type          string `json:"type"`
	EndDate       string `json:"end_date"`
	DaysRemaining int    `json:"days_remaining"`
}

type expiredItemResponse struct {
	MembershipID string `json:"membership_id"`
	MemberID     string `json:"member_id"`
	MemberName   string `json:"member_name"`
	Type         string `json:"type"`
	EndDate      string `json:"end_date"`
	DaysOverdue  int    `json:"days_overdue"`
}

func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.reports.Dashboard(r.Context())
	if err != nil {
		h.writeDomainError(w, err, "reports: dashboard")
		return
	}

	response := dashboardResponse{
		TotalMembers:     dashboard.TotalMembers,
		ActiveMembers:    dashboard.ActiveMembers,
		ValidMemberships: dashboard.ValidMemberships,
		MonthPayments:    dashboard.MonthPayments.StringFixed(2),
		TodayCheckIns:    dashboard.TodayCheckIns,
		ExpiringSoon:     make([]expiringItemResponse, 0, len(dashboard.ExpiringSoon)),
		RecentlyExpired:  make([]expiredItemResponse, 0, len(dashboard.RecentlyExpired)),
	}
	for _, item := range dashboard.ExpiringSoon {
		response.ExpiringSoon = append(response.ExpiringSoon, expiringItemResponse{
			MembershipID:  item.MembershipID,
			MemberID:      item.MemberID,
			MemberName:    item.MemberName,
			Type:          string(item.Type),
			EndDate:       item.EndDate.Format("2006-01-02"),
			DaysRemaining: item.DaysRemaining,
		})
	}
	for _, item := range dashboard.RecentlyExpired {
		response.RecentlyExpired = append(response.RecentlyExpired, expiredItemResponse{
			MembershipID: item.MembershipID,
			MemberID:     item.MemberID,
			MemberName:   item.MemberName,
			Type:         string(item.Type),
			EndDate:      item.EndDate.Format("2006-01-02"),
			DaysOverdue:  item.DaysOverdue,
		})
	}

	writeJSON(w, http.StatusOK, response)
}

// ExportMembers streams the member table as a CSV attachment.
func (h *Handlers) ExportMembers(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="members.csv"`)

	if err := h.reports.ExportMembersCSV(r.Context(), w); err != nil {
		// Headers may already be written; log and abort the stream.
		h.log.InternalError("reports: export members", err)
	}
}
