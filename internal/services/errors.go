package services

import "errors"

// Sentinel errors the handler layer maps onto HTTP statuses. Conflict and
// InvalidState both surface as 400 for compatibility with existing clients.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("Not authorized")
	ErrUnauthorized = errors.New("authorization denied")
	ErrBadCreds     = errors.New("Invalid credentials")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
)

// DomainError attaches a user-facing message to one of the sentinels.
type DomainError struct {
	Kind    error
	Message string
}

func (e *DomainError) Error() string { return e.Message }
func (e *DomainError) Unwrap() error { return e.Kind }

func notFound(msg string) error     { return &DomainError{Kind: ErrNotFound, Message: msg} }
func forbidden() error              { return &DomainError{Kind: ErrForbidden, Message: "Not authorized"} }
func conflict(msg string) error     { return &DomainError{Kind: ErrConflict, Message: msg} }
func invalidState(msg string) error { return &DomainError{Kind: ErrInvalidState, Message: msg} }
