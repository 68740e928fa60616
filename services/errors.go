package services

import (
	"errors"
	"fmt"
)

// Kind classifies workflow failures
type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindCapacity
	KindAuth
	KindAuthorization
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindCapacity:
		return "capacity"
	case KindAuth:
		return "auth"
	case KindAuthorization:
		return "authorization"
	case KindNotFound:
		return "not_found"
	}
	return "internal"
}

// Error is a classified workflow failure. Anything else returned by a service is internal.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(kind Kind, format string, args ...interface{}) *Error {
	if len(args) == 0 {
		return &Error{Kind: kind, Message: format}
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func ValidationError(format string, args ...interface{}) *Error {
	return newError(KindValidation, format, args...)
}

func ConflictError(format string, args ...interface{}) *Error {
	return newError(KindConflict, format, args...)
}

func CapacityError(format string, args ...interface{}) *Error {
	return newError(KindCapacity, format, args...)
}

func AuthError(format string, args ...interface{}) *Error {
	return newError(KindAuth, format, args...)
}

func AuthorizationError(format string, args ...interface{}) *Error {
	return newError(KindAuthorization, format, args...)
}

func NotFoundError(format string, args ...interface{}) *Error {
	return newError(KindNotFound, format, args...)
}

// KindOf returns the kind of a classified error, or 0 for internal errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// IsKind reports whether err is a classified error of the given kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// resultLabel is the metrics label for an operation outcome
func resultLabel(err error) string {
	if err == nil {
		return "ok"
	}
	return KindOf(err).String()
}
