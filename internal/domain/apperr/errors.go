// Package apperr defines the error kinds every record service returns.
//
// Services build *Error values (directly or through package-level
// sentinels) so callers can branch on Kind, and transports can attach the
// offending field or onboarding step to the response.
package apperr

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound             Kind = "not_found"
	KindValidation           Kind = "validation_failed"
	KindDuplicate            Kind = "duplicate_violation"
	KindInvariant            Kind = "invariant_violation"
	KindOnboardingIncomplete Kind = "onboarding_incomplete"
	KindConflict             Kind = "concurrency_conflict"
	KindInvalidState         Kind = "invalid_state"
)

// Infrastructure facts returned by stores. Services translate them into
// domain errors.
var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record version conflict")
)

// ErrEmployeeNotFound is returned by every service addressed with an
// unknown employee.
var ErrEmployeeNotFound = NotFound("employee_not_found", "employee not found")

type Error struct {
	Kind        Kind
	Code        string
	Message     string
	Field       string
	MissingStep string
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by code, or by kind when the target has no code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Code != "" {
		return e.Code == t.Code
	}
	return e.Kind == t.Kind
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// WithField returns a copy of e attributed to field.
func (e *Error) WithField(field string) *Error {
	cp := *e
	cp.Field = field
	return &cp
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

func Validation(field, message string) *Error {
	return &Error{Kind: KindValidation, Code: "validation_failed", Field: field, Message: message}
}

func NotFound(code, message string) *Error {
	return New(KindNotFound, code, message)
}

func Incomplete(step string) *Error {
	return &Error{
		Kind:        KindOnboardingIncomplete,
		Code:        "onboarding_incomplete",
		Message:     "onboarding step not completed: " + step,
		MissingStep: step,
	}
}

func Conflict(cause error) *Error {
	return &Error{Kind: KindConflict, Code: "concurrency_conflict", Message: "record was modified concurrently", Err: cause}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
