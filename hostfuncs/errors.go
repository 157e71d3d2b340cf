package hostfuncs

import (
	"encoding/json"
	"fmt"
)

// ErrorResponse is a host-level failure returned to the guest as JSON in
// place of a CallResponse, so the guest never traps on a bad call.
// Operation failures (TypeError, Error) are CallResponses, not ErrorResponses.
type ErrorResponse struct {
	// Error is the machine-readable kind, e.g. "VALIDATION_ERROR".
	Error string `json:"error"`

	Message string `json:"message"`

	// Code mirrors the closest HTTP status.
	Code int `json:"code"`
}

// ToJSON serializes the response. It returns nil only if marshaling fails.
func (e ErrorResponse) ToJSON() []byte {
	data, err := json.Marshal(e)
	if err != nil {
		return nil
	}
	return data
}

// NewValidationError reports an undecodable or oversized request.
func NewValidationError(message string) ErrorResponse {
	return ErrorResponse{Error: "VALIDATION_ERROR", Message: message, Code: 400}
}

// NewNotFoundError reports an unknown host function.
func NewNotFoundError(name string) ErrorResponse {
	return ErrorResponse{Error: "NOT_FOUND", Message: "unknown host function: " + name, Code: 404}
}

// NewInternalError reports an unexpected host failure.
func NewInternalError(message string) ErrorResponse {
	return ErrorResponse{Error: "INTERNAL_ERROR", Message: message, Code: 500}
}

// NewPanicError reports a recovered panic.
func NewPanicError(panicValue any) ErrorResponse {
	var msg string
	switch v := panicValue.(type) {
	case error:
		msg = v.Error()
	case string:
		msg = v
	default:
		msg = fmt.Sprintf("%v", v)
	}
	return NewInternalError("panic: " + msg)
}
