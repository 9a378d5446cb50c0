package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness conflict in a store.
	ErrAlreadyExists = errors.New("already exists")

	ErrValidation           = errors.New("validation failed")
	ErrMissingRecipient     = errors.New("selected client has no email address")
	ErrQuotaExceeded        = errors.New("client limit reached")
	ErrDuplicateAccount     = errors.New("an account with this email already exists")
	ErrAuthenticationFailed = errors.New("invalid email or password")
	ErrOutOfRange           = errors.New("item index out of range")

	ErrInvalidTemplate    = errors.New("unknown template")
	ErrInvalidPaymentMode = errors.New("unknown payment display mode")
	ErrUnknownField       = errors.New("unknown field")
	ErrUnknownFlag        = errors.New("unknown display flag")
)

// ValidationError carries every rule an invoice violates, not just the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	if len(e.Problems) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + strings.Join(e.Problems, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
