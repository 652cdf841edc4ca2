package reports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Repository interface {
	CountMembers(ctx context.Context) (int64, error)
	CountActiveMembers(ctx context.Context) (int64, error)
	CountValidMemberships(ctx context.Context, today time.Time) (int64, error)
	SumPaymentsBetween(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	CountCheckInsBetween(ctx context.Context, from, to time.Time) (int64, error)
	// ListExpiringBetween returns paid memberships with today <= end_date <= until.
	ListExpiringBetween(ctx context.Context, today, until time.Time) ([]ExpiringMembership, error)
	// ListExpiredBetween returns paid memberships with since <= end_date < today.
	ListExpiredBetween(ctx context.Context, since, today time.Time) ([]ExpiredMembership, error)
	ListMemberRows(ctx context.Context) ([]MemberRow, error)
}
