package repository

import (
	"errors"
	"fmt"
)

// Sentinel errors for binary checks via errors.Is.
var (
	ErrNotFound            = errors.New("record not found")
	ErrForbidden           = errors.New("actor has no standing to act on this resource")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInvalidState        = errors.New("operation not valid in current transaction state")
	ErrAlreadyComplete     = errors.New("transaction already complete")
	ErrEmailTaken          = errors.New("email already registered")
)

// ValidationError reports a malformed field, rejected before any mutation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
