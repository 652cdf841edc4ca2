package members

import (
	"time"

	"github.com/shopspring/decimal"
)

// Member is the root entity. Active is derived from the membership set but
// stored so list views read it without recomputing; SyncStatus is the only
// writer.
type Member struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Phone        string    `gorm:"size:20;not null"`
	Email        string    `gorm:"uniqueIndex;not null"`
	AccessCode   string    `gorm:"size:5;index;not null"`
	Active       bool      `gorm:"not null;default:false"`
	RegisteredAt time.Time `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// MembershipType is a closed enumeration. Unknown values are rejected at
// parse time; there is no fallback arm.
type MembershipType string

const (
	TypeWeekly  MembershipType = "weekly"
	TypeMonthly MembershipType = "monthly"
	TypeAnnual  MembershipType = "annual"
	TypeSingle  MembershipType = "single"
)

type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
)

// Membership is a time-boxed plan purchase. EndDate is computed once from
// StartDate and Type at creation and stored.
type Membership struct {
	ID        string          `gorm:"type:uuid;primaryKey"`
	MemberID  string          `gorm:"type:uuid;index;not null"`
	Type      MembershipType  `gorm:"size:20;not null"`
	StartDate time.Time       `gorm:"type:date;not null"`
	EndDate   time.Time       `gorm:"type:date;not null"`
	Cost      decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Paid      bool            `gorm:"not null;default:false"`
	CreatedAt time.Time       `gorm:"autoCreateTime"`
}

// Payment records money taken at the desk. Creating one is the sole path
// by which its membership becomes paid.
type Payment struct {
	ID           string          `gorm:"type:uuid;primaryKey"`
	MembershipID string          `gorm:"type:uuid;index;not null"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
	Method       PaymentMethod   `gorm:"size:20;not null"`
	ReceiptPath  string          `gorm:"type:text;not null;default:''"`
	PaidAt       time.Time       `gorm:"index;not null"`
}

// Status is the result of a SyncStatus rescan of one member.
type Status struct {
	Member *Member
	// Valid is the currently valid membership, most recently started
	// first; nil when the member has none.
	Valid *Membership
	// Latest is the most recent membership by end date regardless of
	// payment state; LatestPaid restricts that to paid ones.
	Latest     *Membership
	LatestPaid *Membership
	// Changed reports whether the stored active flag was rewritten.
	Changed bool
}

type CreateMemberInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type UpdateMemberInput struct {
	ID        string
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

type CreateMembershipInput struct {
	MemberID  string
	Type      string
	StartDate time.Time
	Cost      decimal.Decimal
}

type RecordPaymentInput struct {
	MembershipID string
	Amount       decimal.Decimal
	Method       string
	ReceiptPath  string
}

// MemberOverview enriches a member row with the validity facts the list
// view shows.
type MemberOverview struct {
	Member
	MembershipType *MembershipType
	ExpiresAt      *time.Time
	DaysRemaining  int
	DaysOverdue    int
	HasValid       bool
}
