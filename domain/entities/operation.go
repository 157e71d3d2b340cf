package entities

// ParamKind is the declared kind of an operation parameter.
type ParamKind string

const (
	// ParamNumber accepts any host number; it is coerced to int32.
	ParamNumber ParamKind = "number"

	// ParamFunction accepts a host function used as an error-first callback.
	ParamFunction ParamKind = "function"
)

// ReturnKind is the declared shape of an operation's success value.
type ReturnKind string

const (
	ReturnScalar     ReturnKind = "scalar"
	ReturnRecordList ReturnKind = "record-list"
)

// DeliveryMode is the convention by which an outcome reaches the caller.
type DeliveryMode string

const (
	// ModeSync returns the value, or raises the error, from the call itself.
	ModeSync DeliveryMode = "sync"

	// ModeCallback invokes a trailing (error, value) callback exactly once.
	ModeCallback DeliveryMode = "callback"

	// ModePromise returns a deferred handle that settles exactly once.
	ModePromise DeliveryMode = "promise"
)

// Operation describes a named native function exposed to the host.
type Operation struct {
	Name    string       `json:"name"`
	Params  []ParamKind  `json:"params"`
	Returns ReturnKind   `json:"returns"`
	Mode    DeliveryMode `json:"mode"`
}

// Arity returns the number of arguments the operation requires.
func (o Operation) Arity() int {
	return len(o.Params)
}

// ValueParams returns the parameters that carry data, dropping callbacks.
// Callers that receive the outcome as a return value (e.g. WASM guests) pass
// only these.
func (o Operation) ValueParams() []ParamKind {
	out := make([]ParamKind, 0, len(o.Params))
	for _, p := range o.Params {
		if p != ParamFunction {
			out = append(out, p)
		}
	}
	return out
}
