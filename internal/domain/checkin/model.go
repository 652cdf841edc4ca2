package checkin

import (
	"time"

	"gym-desk-go/internal/domain/members"
)

// Event is an append-only record of a member walking through the door.
type Event struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	MemberID    string    `gorm:"type:uuid;index;not null"`
	CheckedInAt time.Time `gorm:"index;not null"`
}

func (Event) TableName() string { return "check_in_events" }

// EventRecord joins an event with the member's display name for history
// and kiosk views.
type EventRecord struct {
	Event
	MemberName string
}

type DenyReason string

const (
	ReasonExpired        DenyReason = "expired"
	ReasonPendingPayment DenyReason = "pending payment"
	ReasonNoMembership   DenyReason = "never registered for a plan"
	ReasonNotStarted     DenyReason = "not started yet"
)

// Decision is the gate's verdict for one check-in attempt.
type Decision struct {
	Admitted   bool
	MemberID   string
	MemberName string

	// Admit details
	MembershipType members.MembershipType
	StartDate      time.Time
	EndDate        time.Time
	DaysRemaining  int

	// Deny details
	Reason      DenyReason
	DaysOverdue int

	// Flag transitions performed by the resync.
	Reactivated bool
	Deactivated bool

	// Event is set only on admit.
	Event *Event
}

// HistoryFilter narrows the check-in history listing.
type HistoryFilter struct {
	From     *time.Time
	To       *time.Time
	MemberID string
	Limit    int
	Offset   int
}
