package members

import (
	"fmt"
	"time"
)

// ParseMembershipType validates the closed enumeration. Unknown values
// fail loudly instead of degrading to a same-day membership.
func ParseMembershipType(value string) (MembershipType, error) {
	switch MembershipType(value) {
	case TypeWeekly, TypeMonthly, TypeAnnual, TypeSingle:
		return MembershipType(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidMembershipType, value)
	}
}

func ParsePaymentMethod(value string) (PaymentMethod, error) {
	switch PaymentMethod(value) {
	case MethodCash, MethodCard, MethodTransfer:
		return PaymentMethod(value), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, value)
	}
}

// EndDate computes the stored expiry for a membership starting on start.
// Single visits expire the same day.
func EndDate(start time.Time, membershipType MembershipType) time.Time {
	start = DateOnly(start)
	switch membershipType {
	case TypeWeekly:
		return start.AddDate(0, 0, 7)
	case TypeMonthly:
		return start.AddDate(0, 0, 30)
	case TypeAnnual:
		return start.AddDate(0, 0, 365)
	default:
		return start
	}
}

// DateOnly truncates a timestamp to its UTC calendar date. All validity
// comparisons are at date granularity with both boundaries inclusive.
func DateOnly(t time.Time) time.Time {
	year, month, day := t.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// IsValid reports whether the membership is paid and date-current.
func (m Membership) IsValid(today time.Time) bool {
	today = DateOnly(today)
	return m.Paid && !today.Before(DateOnly(m.StartDate)) && !today.After(DateOnly(m.EndDate))
}

// DaysRemaining is the number of days until expiry, never negative.
func (m Membership) DaysRemaining(today time.Time) int {
	days := int(DateOnly(m.EndDate).Sub(DateOnly(today)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue reports whether the end date has passed. Payment state is
// deliberately not consulted here; callers combine it with Paid.
func (m Membership) IsOverdue(today time.Time) bool {
	return DateOnly(m.EndDate).Before(DateOnly(today))
}

// DaysOverdue is the number of days since expiry, zero when current.
func (m Membership) DaysOverdue(today time.Time) int {
	days := int(DateOnly(today).Sub(DateOnly(m.EndDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
