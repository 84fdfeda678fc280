package types

import "net/http"

type ErrorKind string

const (
	ErrValidation   ErrorKind = "validation"
	ErrNotFound     ErrorKind = "not_found"
	ErrUnauthorized ErrorKind = "unauthorized"
	ErrConflict     ErrorKind = "conflict"
	ErrState        ErrorKind = "invalid_state"
	ErrArithmetic   ErrorKind = "arithmetic"
)

// DomainError carries the failure class alongside the message so
// handlers can map lifecycle and accounting failures to status codes
// without string matching.
type DomainError struct {
	Kind    ErrorKind
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(kind ErrorKind, message string) *DomainError {
	return &DomainError{Kind: kind, Message: message}
}

func (e *DomainError) HTTPStatus() int {
	switch e.Kind {
	case ErrValidation:
		return http.StatusBadRequest
	case ErrNotFound:
		return http.StatusNotFound
	case ErrUnauthorized:
		return http.StatusForbidden
	case ErrConflict:
		return http.StatusConflict
	case ErrState:
		return http.StatusUnprocessableEntity
	case ErrArithmetic:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}
