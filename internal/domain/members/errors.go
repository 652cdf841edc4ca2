package members

import "errors"

var (
	ErrMemberNotFound        = errors.New("member not found")
	ErrMembershipNotFound    = errors.New("membership not found")
	ErrPaymentNotFound       = errors.New("payment not found")
	ErrDuplicateEmail        = errors.New("email already registered")
	ErrInvalidMembershipType = errors.New("invalid membership type")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
)
