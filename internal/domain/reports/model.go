package reports

import (
	"time"

	"github.com/shopspring/decimal"
	"gym-desk-go/internal/domain/members"
)

// Dashboard is the front-desk summary as of one day.
type Dashboard struct {
	TotalMembers     int64
	ActiveMembers    int64
	ValidMemberships int64
	MonthPayments    decimal.Decimal
	TodayCheckIns    int64
	ExpiringSoon     []ExpiringMembership
	RecentlyExpired  []ExpiredMembership
}

// ExpiringMembership is a paid membership ending within the warning window.
type ExpiringMembership struct {
	MembershipID  string
	MemberID      string
	MemberName    string
	Type          members.MembershipType
	EndDate       time.Time
	DaysRemaining int
}

// ExpiredMembership is a paid membership that ended within the lookback
// window.
type ExpiredMembership struct {
	MembershipID string
	MemberID     string
	MemberName   string
	Type         members.MembershipType
	EndDate      time.Time
	DaysOverdue  int
}

// MemberRow is one line of the member-table export.
type MemberRow struct {
	FirstName    string
	LastName     string
	Phone        string
	Email        string
	RegisteredAt time.Time
	Active       bool
}
