package marketerrors

import (
	"errors"
	"fmt"
	"strings"
)

// Repository-level errors
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("record conflicts with existing data")
	ErrNoBids     = errors.New("no bids found for listing")
	ErrUserNoBids = errors.New("user has not placed any bids")
)

// validation errors
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrInvalidType  = errors.New("invalid field type")
	ErrInvalidValue = errors.New("invalid field value")
)

// bidding errors
var (
	ErrInvalidBid        = errors.New("invalid bid")
	ErrBidTooLow         = errors.New("bid amount too low")
	ErrNotAuction        = errors.New("listing is not an auction")
	ErrListingClosed     = errors.New("listing is not active")
	ErrAuctionNotRunning = errors.New("auction is not running")
)

// auth errors
var (
	ErrUnauthorized       = errors.New("authentication required")
	ErrForbidden          = errors.New("operation not permitted")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInactiveUser       = errors.New("account is deactivated")
	ErrSessionExpired     = errors.New("session expired")
)

// backup errors
var (
	ErrNoBackup        = errors.New("no backup available")
	ErrDatabasePresent = errors.New("database file already exists")
)

// FieldTypeError reports a field that is missing, unknown, or holds a value of the wrong type.
// An empty Expected marks an unknown field.
type FieldTypeError struct {
	Entity   string
	Field    string
	Expected string
	Actual   string
}

func (e *FieldTypeError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s.%s: unknown field", e.Entity, e.Field)
	}
	return fmt.Sprintf("%s.%s: expected %s, got %s", e.Entity, e.Field, e.Expected, e.Actual)
}

func (e *FieldTypeError) Unwrap() error { return ErrInvalidType }

// FieldValueError reports a field whose value is outside the accepted set or range
type FieldValueError struct {
	Entity  string
	Field   string
	Value   any
	Allowed []string
}

func (e *FieldValueError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("%s.%s: invalid value %v", e.Entity, e.Field, e.Value)
	}
	return fmt.Sprintf("%s.%s: invalid value %v (allowed: %s)", e.Entity, e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *FieldValueError) Unwrap() error { return ErrInvalidValue }

// ReadOnlyFieldError reports a client payload that sets a field only the store maintains
type ReadOnlyFieldError struct {
	Entity string
	Field  string
}

func (e *ReadOnlyFieldError) Error() string {
	return fmt.Sprintf("%s.%s: field is read-only", e.Entity, e.Field)
}

func (e *ReadOnlyFieldError) Unwrap() error { return ErrInvalidInput }

// IsValidation reports whether err came from input validation
func IsValidation(err error) bool {
	return errors.Is(err, ErrInvalidInput) || errors.Is(err, ErrInvalidType) || errors.Is(err, ErrInvalidValue)
}
