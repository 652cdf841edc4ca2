package members

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	// Member operations
	CreateMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	GetMemberByID(ctx context.Context, id string) (*Member, error)
	GetMemberByEmail(ctx context.Context, email string) (*Member, error)
	// GetMemberByAccessCode returns the most recently registered holder of
	// the code; codes are not guaranteed unique.
	GetMemberByAccessCode(ctx context.Context, code string) (*Member, error)
	ListMembers(ctx context.Context) ([]Member, error)
	DeleteMember(ctx context.Context, id string) (bool, error)
	SetMemberActive(ctx context.Context, id string, active bool) error

	// Membership operations
	CreateMembership(ctx context.Context, membership *Membership) error
	GetMembershipByID(ctx context.Context, id string) (*Membership, error)
	// ListMemberships returns the member's memberships ordered by
	// start_date desc, id desc; SyncStatus relies on this tie-break order.
	ListMemberships(ctx context.Context, memberID string) ([]Membership, error)
	SetMembershipPaid(ctx context.Context, id string, paid bool) error

	// Payment operations
	CreatePayment(ctx context.Context, payment *Payment) error
	GetPaymentByID(ctx context.Context, id string) (*Payment, error)
	ListPayments(ctx context.Context, membershipID string) ([]Payment, error)
}
