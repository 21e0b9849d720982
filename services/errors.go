package services

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. Routes map kinds to HTTP statuses;
// services never write HTTP responses themselves.
type Kind string

const (
	KindNotFound            Kind = "not_found"
	KindValidation          Kind = "validation"
	KindConflict            Kind = "conflict"
	KindForbiddenTransition Kind = "forbidden_transition"
	KindForbidden           Kind = "forbidden"
	KindUnauthenticated     Kind = "unauthenticated"
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func NotFoundError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func ConflictError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenTransitionError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbiddenTransition, Message: fmt.Sprintf(format, args...)}
}

func ForbiddenError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func UnauthenticatedError(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthenticated, Message: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind from err, or "" when err is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return ""
}
