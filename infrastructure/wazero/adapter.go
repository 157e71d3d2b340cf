package wazero

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"

	"github.com/winsoft666/node-addon-sample/hostfuncs"
)

// DefaultModuleName is the host module guests import the operations from.
const DefaultModuleName = "addon_host"

// AdapterConfig holds configuration for the wazero adapter.
type AdapterConfig struct {
	// ModuleName is the host module name (default: DefaultModuleName).
	ModuleName string

	// MaxRequestSize limits the size of incoming requests from guest memory.
	// Default is 1MB.
	MaxRequestSize uint32

	// CustomHandlers are exported alongside the registry with their own
	// signatures, e.g. log_message which returns nothing.
	CustomHandlers []CustomHandler

	// Logger reports ABI failures. Default is slog.Default().
	Logger *slog.Logger
}

// CustomHandler is a host function outside the packed request/response shape.
type CustomHandler struct {
	// Name is the exported function name.
	Name string

	// Handler is the wazero GoModuleFunc implementation.
	Handler api.GoModuleFunc

	// ParamTypes are the WASM parameter types.
	ParamTypes []api.ValueType

	// ResultTypes are the WASM result types.
	ResultTypes []api.ValueType
}

// AdapterOption configures the adapter.
type AdapterOption func(*AdapterConfig)

// WithModuleName sets the host module name.
func WithModuleName(name string) AdapterOption {
	return func(c *AdapterConfig) {
		c.ModuleName = name
	}
}

// WithMaxRequestSize sets the maximum request size from guest memory.
func WithMaxRequestSize(size uint32) AdapterOption {
	return func(c *AdapterConfig) {
		c.MaxRequestSize = size
	}
}

// WithCustomHandler adds a custom wazero handler.
func WithCustomHandler(h CustomHandler) AdapterOption {
	return func(c *AdapterConfig) {
		c.CustomHandlers = append(c.CustomHandlers, h)
	}
}

// WithLogger sets the logger for ABI failures.
func WithLogger(logger *slog.Logger) AdapterOption {
	return func(c *AdapterConfig) {
		c.Logger = logger
	}
}

func defaultAdapterConfig() AdapterConfig {
	return AdapterConfig{
		ModuleName:     DefaultModuleName,
		MaxRequestSize: hostfuncs.DefaultMaxRequestSize,
	}
}

// RegisterWithRuntime instantiates a host module exporting every handler of
// registry, plus any custom handlers.
func RegisterWithRuntime(ctx context.Context, runtime wazero.Runtime, registry *hostfuncs.HandlerRegistry, opts ...AdapterOption) error {
	cfg := defaultAdapterConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	builder := runtime.NewHostModuleBuilder(cfg.ModuleName)
	for _, name := range registry.Names() {
		call := registryCall{registry: registry, name: name, maxRequestSize: cfg.MaxRequestSize, logger: cfg.Logger}
		builder.NewFunctionBuilder().
			WithGoModuleFunction(api.GoModuleFunc(call.handle), []api.ValueType{api.ValueTypeI64}, []api.ValueType{api.ValueTypeI64}).
			Export(name)
	}
	for _, ch := range cfg.CustomHandlers {
		builder.NewFunctionBuilder().
			WithGoModuleFunction(ch.Handler, ch.ParamTypes, ch.ResultTypes).
			Export(ch.Name)
	}

	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("failed to instantiate host module %q: %w", cfg.ModuleName, err)
	}
	return nil
}

type registryCall struct {
	registry       *hostfuncs.HandlerRegistry
	logger         *slog.Logger
	name           string
	maxRequestSize uint32
}

// handle reads the request from guest memory, invokes the handler and writes
// the response back. Host failures become ErrorResponse JSON, never traps.
func (c registryCall) handle(ctx context.Context, mod api.Module, stack []uint64) {
	guest := GuestName(ctx, mod)

	request, err := ReadPacked(mod, stack[0], c.maxRequestSize)
	if err != nil {
		c.logger.ErrorContext(ctx, "wazero: "+err.Error(), "function", c.name, "guest", guest)
		stack[0] = c.writeResponse(ctx, mod, hostfuncs.NewValidationError(err.Error()).ToJSON())
		return
	}

	response, err := c.registry.Invoke(ctx, c.name, request)
	if err != nil {
		c.logger.ErrorContext(ctx, "wazero: handler invocation failed", "function", c.name, "guest", guest, "error", err)
		response = hostfuncs.NewInternalError(err.Error()).ToJSON()
	}
	stack[0] = c.writeResponse(ctx, mod, response)
}

func (c registryCall) writeResponse(ctx context.Context, mod api.Module, data []byte) uint64 {
	packed, err := WriteGuest(ctx, mod, data)
	if err != nil {
		c.logger.ErrorContext(ctx, "wazero: "+err.Error(), "function", c.name)
		return 0
	}
	return packed
}

// ReadPacked copies the bytes addressed by a packed pointer/length from guest
// memory. Requests above maxSize are rejected.
func ReadPacked(mod api.Module, packed uint64, maxSize uint32) ([]byte, error) {
	ptr, length := unpackPtrLen(packed)
	if maxSize > 0 && length > maxSize {
		return nil, fmt.Errorf("request size %d exceeds maximum %d bytes", length, maxSize)
	}
	data, ok := mod.Memory().Read(ptr, length)
	if !ok {
		return nil, fmt.Errorf("failed to read %d bytes at %#x from guest memory", length, ptr)
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// WriteGuest copies data into memory obtained from the guest's "allocate"
// export and returns its packed pointer/length.
func WriteGuest(ctx context.Context, mod api.Module, data []byte) (uint64, error) {
	allocateFn := mod.ExportedFunction("allocate")
	if allocateFn == nil {
		return 0, fmt.Errorf("guest module missing 'allocate' export")
	}

	results, err := allocateFn.Call(ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to call guest allocate: %w", err)
	}
	if len(results) == 0 {
		return 0, fmt.Errorf("guest allocate returned no results")
	}
	ptr := uint32(results[0]) //nolint:gosec // G115: WASM32 pointers are always 32-bit

	if !mod.Memory().Write(ptr, data) {
		return 0, fmt.Errorf("failed to write %d bytes to guest memory", len(data))
	}
	return packPtrLen(ptr, uint32(len(data))), nil //nolint:gosec // G115: bounded by guest memory
}

// packPtrLen packs a pointer (upper 32 bits) and length (lower 32 bits).
func packPtrLen(ptr, length uint32) uint64 {
	return (uint64(ptr) << 32) | uint64(length)
}

func unpackPtrLen(packed uint64) (ptr, length uint32) {
	ptr = uint32(packed >> 32)           //nolint:gosec // G115: packed format stores 32-bit values
	length = uint32(packed & 0xFFFFFFFF) //nolint:gosec // G115: packed format stores 32-bit values
	return ptr, length
}
