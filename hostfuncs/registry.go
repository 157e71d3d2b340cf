package hostfuncs

import (
	"context"
	"fmt"
	"sort"
)

// DefaultMaxRequestSize caps a request read from guest memory (1MB).
const DefaultMaxRequestSize = 1 * 1024 * 1024

// HandlerRegistry is an immutable set of named host functions.
// Lookups need no locking because nothing changes after NewRegistry.
type HandlerRegistry struct {
	handlers map[string]ByteHandler
	names    []string // sorted
}

type registryBuilder struct {
	handlers   map[string]ByteHandler
	middleware []Middleware
	errors     []error
}

// NewRegistry builds a HandlerRegistry. Registering a name twice, or an
// empty name, is an error.
//
//	registry, err := hostfuncs.NewRegistry(
//	    hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware()),
//	    hostfuncs.WithBundle(hostfuncs.AddonBundle(mod)),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{handlers: make(map[string]ByteHandler)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	reg := &HandlerRegistry{
		handlers: make(map[string]ByteHandler, len(b.handlers)),
		names:    make([]string, 0, len(b.handlers)),
	}
	for name, handler := range b.handlers {
		// Wrap in reverse so the first middleware is outermost.
		for i := len(b.middleware) - 1; i >= 0; i-- {
			handler = b.middleware[i](handler)
		}
		reg.handlers[name] = handler
		reg.names = append(reg.names, name)
	}
	sort.Strings(reg.names)
	return reg, nil
}

// Invoke calls the named handler with payload. An unknown name yields a
// NOT_FOUND response, not an error.
func (r *HandlerRegistry) Invoke(ctx context.Context, name string, payload []byte) ([]byte, error) {
	handler, ok := r.handlers[name]
	if !ok {
		return NewNotFoundError(name).ToJSON(), nil
	}
	return handler(HostContextFrom(ctx, name), payload)
}

// Has reports whether name is registered.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns the registered names in sorted order.
func (r *HandlerRegistry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

func (b *registryBuilder) addHandler(name string, handler ByteHandler) {
	switch {
	case name == "":
		b.errors = append(b.errors, fmt.Errorf("handler name cannot be empty"))
	case b.handlers[name] != nil:
		b.errors = append(b.errors, fmt.Errorf("duplicate handler name: %q", name))
	default:
		b.handlers[name] = handler
	}
}

// WithByteHandler registers a raw ByteHandler.
func WithByteHandler(name string, handler ByteHandler) RegistryOption {
	return func(b *registryBuilder) {
		b.addHandler(name, handler)
	}
}

// WithHandler registers a typed host function wrapped by NewJSONHandler.
func WithHandler[Req any, Resp any](name string, fn HostFunc[Req, Resp]) RegistryOption {
	return func(b *registryBuilder) {
		b.addHandler(name, NewJSONHandler(fn))
	}
}

// WithBundle registers every handler of bundle.
func WithBundle(bundle HostFuncBundle) RegistryOption {
	return func(b *registryBuilder) {
		for name, handler := range bundle.Handlers() {
			b.addHandler(name, handler)
		}
	}
}

// WithMiddleware appends middleware. Middleware applies to every handler,
// whatever the option order.
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
