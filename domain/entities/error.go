package entities

import "fmt"

// Error types carried by ErrorDetail.Type.
const (
	ErrorTypeTypeError = "TypeError"
	ErrorTypeError     = "Error"
	ErrorTypeConfig    = "config"
	ErrorTypeInternal  = "internal"
)

// ErrorDetail is the wire form of a failed call, as seen by WASM guests.
type ErrorDetail struct {
	// Message is the text a host would see as err.message.
	Message string `json:"message"`

	// Type is one of the ErrorType constants.
	Type string `json:"type"`

	// Code names the offending input where one exists, e.g. a config field.
	Code string `json:"code,omitempty"`
}

// Error renders "<Type>: <message>" so a decoded detail prints the same as
// the error it was built from. Internal errors print the bare message.
func (e *ErrorDetail) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if e.Type != "" && e.Type != ErrorTypeInternal {
		msg = e.Type + ": " + msg
	}
	if e.Code != "" {
		msg = fmt.Sprintf("%s [%s]", msg, e.Code)
	}
	return msg
}

// NewErrorDetail creates an ErrorDetail.
func NewErrorDetail(errorType, message string) *ErrorDetail {
	return &ErrorDetail{Type: errorType, Message: message}
}
