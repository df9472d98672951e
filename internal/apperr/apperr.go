// Package apperr defines the failure kinds surfaced by services and mapped to HTTP statuses.
package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a failure
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindPermissionDenied    Kind = "permission_denied"
	KindDuplicateConstraint Kind = "duplicate"
	KindAlreadyInState      Kind = "already_in_state"
	KindInvalidTarget       Kind = "invalid_target"
	KindValidation          Kind = "validation"
	KindUnauthenticated     Kind = "unauthenticated"
	KindRateLimited         Kind = "rate_limited"
	KindInternal            Kind = "internal"
)

// Error is a structured rejection carrying its kind and an optional cause
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New creates an error of the given kind
func New(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

func NotFound(message string) *Error {
	return New(KindNotFound, message, nil)
}

func PermissionDenied(message string) *Error {
	return New(KindPermissionDenied, message, nil)
}

func Duplicate(message string, err error) *Error {
	return New(KindDuplicateConstraint, message, err)
}

func AlreadyInState(message string) *Error {
	return New(KindAlreadyInState, message, nil)
}

func InvalidTarget(message string) *Error {
	return New(KindInvalidTarget, message, nil)
}

func Validation(message string) *Error {
	return New(KindValidation, message, nil)
}

func Unauthenticated(message string) *Error {
	return New(KindUnauthenticated, message, nil)
}

func RateLimited(message string) *Error {
	return New(KindRateLimited, message, nil)
}

// Internal wraps an unexpected failure; its message is never shown to clients
func Internal(message string, err error) *Error {
	return New(KindInternal, message, err)
}

// KindOf returns the kind of the first *Error in err's chain, or KindInternal
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// MessageOf returns the public message of err. Internal errors get a generic message.
func MessageOf(err error) string {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "internal server error"
}
