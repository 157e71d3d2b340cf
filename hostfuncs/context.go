package hostfuncs

import (
	"context"

	"github.com/google/uuid"
)

// HostContext is the context handed to a ByteHandler by the registry.
// It carries the invoked function name, a per-call ID and request-scoped
// values set by middleware.
type HostContext interface {
	context.Context

	// FunctionName returns the name of the invoked host function.
	FunctionName() string

	// CallID identifies this invocation in logs.
	CallID() string

	// SetValue stores a request-scoped value on this context in place.
	SetValue(key, value any)

	// GetValue retrieves a value stored with SetValue.
	GetValue(key any) (value any, ok bool)
}

type hostContext struct {
	context.Context
	values   map[any]any
	funcName string
	callID   string
}

// NewHostContext creates a HostContext for one invocation of funcName.
func NewHostContext(ctx context.Context, funcName string) HostContext {
	return &hostContext{
		Context:  ctx,
		funcName: funcName,
		callID:   uuid.NewString(),
		values:   make(map[any]any),
	}
}

func (c *hostContext) FunctionName() string {
	return c.funcName
}

func (c *hostContext) CallID() string {
	return c.callID
}

func (c *hostContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *hostContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// HostContextFrom returns ctx if it already is a HostContext, or wraps it in
// a new one for funcName.
func HostContextFrom(ctx context.Context, funcName string) HostContext {
	if hc, ok := ctx.(HostContext); ok {
		return hc
	}
	return NewHostContext(ctx, funcName)
}
