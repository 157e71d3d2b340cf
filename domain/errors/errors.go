// Package errors provides the error types that cross the addon boundary.
// All error types support error unwrapping via errors.As() and errors.Is().
package errors

import (
	stdErrors "errors"
	"fmt"

	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Kind tags a BoundaryError with the host error class it maps to.
type Kind string

const (
	// KindTypeError marks a call-shape violation (wrong arity or argument kind).
	KindTypeError Kind = "TypeError"

	// KindError marks a domain violation such as an out-of-range input.
	KindError Kind = "Error"
)

// Messages relied upon by hosts. They must not change.
const (
	MsgWrongArgumentCount = "Wrong number of arguments"
	MsgWrongArguments     = "Wrong arguments"
	MsgNonPositiveN       = "N must larger than 0"
)

// BoundaryError is a failure crossing the boundary. It is usable both as a
// returned error (synchronous path) and as a delivered value (async paths).
type BoundaryError struct {
	Kind    Kind
	Message string
}

// Error renders the stable "<Kind>: <message>" form.
func (e *BoundaryError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

// Is matches another BoundaryError with the same kind and message.
func (e *BoundaryError) Is(target error) bool {
	t, ok := target.(*BoundaryError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// ToErrorDetail implements DetailedError.
func (e *BoundaryError) ToErrorDetail() *entities.ErrorDetail {
	return entities.NewErrorDetail(string(e.Kind), e.Message)
}

// NewTypeError creates a shape error.
func NewTypeError(message string) *BoundaryError {
	return &BoundaryError{Kind: KindTypeError, Message: message}
}

// NewError creates a domain error.
func NewError(message string) *BoundaryError {
	return &BoundaryError{Kind: KindError, Message: message}
}

// WrongArgumentCount is raised when a call supplies the wrong number of arguments.
func WrongArgumentCount() *BoundaryError {
	return NewTypeError(MsgWrongArgumentCount)
}

// WrongArguments is raised when an argument has the wrong kind.
func WrongArguments() *BoundaryError {
	return NewTypeError(MsgWrongArguments)
}

// NonPositiveN is raised when an operation requiring N > 0 receives N <= 0.
func NonPositiveN() *BoundaryError {
	return NewError(MsgNonPositiveN)
}

// AsBoundaryError extracts a BoundaryError from an error chain.
func AsBoundaryError(err error) (*BoundaryError, bool) {
	var be *BoundaryError
	if stdErrors.As(err, &be) {
		return be, true
	}
	return nil, false
}

// IsTypeError reports whether err is a BoundaryError of kind TypeError.
func IsTypeError(err error) bool {
	be, ok := AsBoundaryError(err)
	return ok && be.Kind == KindTypeError
}

// IsDomainError reports whether err is a BoundaryError of kind Error.
func IsDomainError(err error) bool {
	be, ok := AsBoundaryError(err)
	return ok && be.Kind == KindError
}

// DetailedError is an interface for custom error types that can convert themselves
// to a structured ErrorDetail.
type DetailedError interface {
	error
	ToErrorDetail() *entities.ErrorDetail
}

// ToErrorDetail converts a Go error to the structured ErrorDetail wire form.
func ToErrorDetail(err error) *entities.ErrorDetail {
	if err == nil {
		return nil
	}

	var e *entities.ErrorDetail
	if stdErrors.As(err, &e) {
		return e
	}

	var de DetailedError
	if stdErrors.As(err, &de) {
		return de.ToErrorDetail()
	}

	return entities.NewErrorDetail(entities.ErrorTypeInternal, err.Error())
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Err   error
	Field string
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("config validation failed for field '%s': %v", e.Field, e.Err)
	}
	return fmt.Sprintf("config validation failed: %v", e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// ToErrorDetail implements DetailedError.
func (e *ConfigError) ToErrorDetail() *entities.ErrorDetail {
	detail := entities.NewErrorDetail(entities.ErrorTypeConfig, e.Error())
	detail.Code = e.Field
	return detail
}
