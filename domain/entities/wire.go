package entities

// CallRequest is the JSON wire form of a call made by a WASM guest.
type CallRequest struct {
	Args []any `json:"args"`
}

// CallResponse is the JSON wire form of a call outcome.
// Exactly one of Value and Error is set.
type CallResponse struct {
	Value any          `json:"value,omitempty"`
	Error *ErrorDetail `json:"error,omitempty"`
}

// IsError reports whether the response carries a failure.
func (r CallResponse) IsError() bool {
	return r.Error != nil
}
