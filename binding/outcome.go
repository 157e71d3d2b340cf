package binding

import (
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// Outcome is the resolved state of one invocation: a success value or a
// BoundaryError, never both.
type Outcome struct {
	value any
	err   *errors.BoundaryError
}

// Success creates a successful Outcome.
func Success(value any) Outcome {
	return Outcome{value: value}
}

// Failure creates a failed Outcome. A nil error is treated as an unknown failure
// so that a failure outcome always carries an error.
func Failure(err *errors.BoundaryError) Outcome {
	if err == nil {
		err = errors.NewError("unknown failure")
	}
	return Outcome{err: err}
}

// FromResult folds a native (value, error) pair into an Outcome.
// Errors that are not BoundaryErrors become generic Error failures.
func FromResult(value any, err error) Outcome {
	if err == nil {
		return Success(value)
	}
	if be, ok := errors.AsBoundaryError(err); ok {
		return Failure(be)
	}
	return Failure(errors.NewError(err.Error()))
}

// OK reports whether the outcome is a success.
func (o Outcome) OK() bool {
	return o.err == nil
}

// Value returns the success value, or nil for a failure.
func (o Outcome) Value() any {
	return o.value
}

// Err returns the failure as an error, or nil for a success.
func (o Outcome) Err() error {
	if o.err == nil {
		return nil
	}
	return o.err
}

// BoundaryError returns the failure, or nil for a success.
func (o Outcome) BoundaryError() *errors.BoundaryError {
	return o.err
}

// Unpack returns the outcome in Go's (value, error) form.
func (o Outcome) Unpack() (any, error) {
	return o.value, o.Err()
}
