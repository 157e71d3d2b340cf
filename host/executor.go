package host

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/hostfuncs"
	wazeroadapter "github.com/winsoft666/node-addon-sample/infrastructure/wazero"
	addonlog "github.com/winsoft666/node-addon-sample/log"
)

// LogMessageFunc is the one-way host function guests log through.
const LogMessageFunc = "log_message"

// Executor manages a wazero runtime exporting the addon to guests.
type Executor struct {
	runtime    wazero.Runtime
	registry   *hostfuncs.HandlerRegistry
	addon      *addon.Module
	logger     *slog.Logger
	moduleName string
}

// NewExecutor creates a runtime and instantiates the host module.
func NewExecutor(ctx context.Context, opts ...Option) (*Executor, error) {
	e := &Executor{moduleName: wazeroadapter.DefaultModuleName}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	if e.registry == nil {
		if e.addon == nil {
			mod, err := addon.New(addon.WithLogger(e.logger))
			if err != nil {
				return nil, fmt.Errorf("failed to create addon: %w", err)
			}
			e.addon = mod
		}
		reg, err := hostfuncs.NewRegistry(
			hostfuncs.WithMiddleware(hostfuncs.PanicRecoveryMiddleware(), hostfuncs.LoggingMiddleware(e.logger)),
			hostfuncs.WithBundle(hostfuncs.AddonBundle(e.addon)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create addon registry: %w", err)
		}
		e.registry = reg
	}

	rt := wazero.NewRuntime(ctx)
	wasi_snapshot_preview1.MustInstantiate(ctx, rt)
	e.runtime = rt

	err := wazeroadapter.RegisterWithRuntime(ctx, rt, e.registry,
		wazeroadapter.WithModuleName(e.moduleName),
		wazeroadapter.WithLogger(e.logger),
		wazeroadapter.WithCustomHandler(wazeroadapter.CustomHandler{
			Name:       LogMessageFunc,
			Handler:    e.logMessage,
			ParamTypes: []api.ValueType{api.ValueTypeI64},
		}),
	)
	if err != nil {
		_ = rt.Close(ctx)
		return nil, fmt.Errorf("failed to register host functions: %w", err)
	}
	return e, nil
}

// Registry returns the exported host functions.
func (e *Executor) Registry() *hostfuncs.HandlerRegistry {
	return e.registry
}

// Close releases the runtime and every guest loaded into it.
func (e *Executor) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}

// LoadGuestFile reads and instantiates the guest at path.
func (e *Executor) LoadGuestFile(ctx context.Context, path string) (*GuestInstance, error) {
	wasmBytes, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guest %s: %w", path, err)
	}
	return e.LoadGuest(ctx, path, wasmBytes)
}

// LoadGuest instantiates a guest module under name. Reactor guests are
// initialized through their "_initialize" export when present.
func (e *Executor) LoadGuest(ctx context.Context, name string, wasmBytes []byte) (*GuestInstance, error) {
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions("_initialize").
		WithStdout(os.Stdout).
		WithStderr(os.Stderr)

	mod, err := e.runtime.InstantiateWithConfig(ctx, wasmBytes, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate guest %s: %w", name, err)
	}
	if mod.ExportedFunction("allocate") == nil {
		_ = mod.Close(ctx)
		return nil, fmt.Errorf("guest %s does not export 'allocate'", name)
	}
	return &GuestInstance{module: mod}, nil
}

// logMessage implements log_message: a LogMessageWire JSON document replayed
// into the host logger.
func (e *Executor) logMessage(ctx context.Context, mod api.Module, stack []uint64) {
	guest := wazeroadapter.GuestName(ctx, mod)

	payload, err := wazeroadapter.ReadPacked(mod, stack[0], hostfuncs.DefaultMaxRequestSize)
	if err != nil {
		e.logger.ErrorContext(ctx, "host: failed to read guest log message", "guest", guest, "error", err)
		return
	}

	var msg addonlog.LogMessageWire
	if err := json.Unmarshal(payload, &msg); err != nil {
		e.logger.WarnContext(ctx, "host: malformed guest log message", "guest", guest, "payload", string(payload))
		return
	}
	addonlog.Replay(ctx, e.logger, guest, msg)
}

// GuestInstance is an instantiated guest.
type GuestInstance struct {
	module api.Module
}

// Name returns the guest's module name.
func (g *GuestInstance) Name() string {
	return g.module.Name()
}

// Close releases the guest.
func (g *GuestInstance) Close(ctx context.Context) error {
	return g.module.Close(ctx)
}

// Call passes request to the (i64) -> i64 export and returns the bytes it
// answers with.
func (g *GuestInstance) Call(ctx context.Context, export string, request []byte) ([]byte, error) {
	results, err := g.call(ctx, export, request)
	if err != nil {
		return nil, err
	}
	if len(results) == 0 || results[0] == 0 {
		return nil, fmt.Errorf("null response from %s", export)
	}
	return wazeroadapter.ReadPacked(g.module, results[0], 0)
}

// Send passes payload to the (i64) -> () export.
func (g *GuestInstance) Send(ctx context.Context, export string, payload []byte) error {
	_, err := g.call(ctx, export, payload)
	return err
}

// wireResponse covers both response shapes a host function writes back: a
// CallResponse, whose "error" is an object, and a host-level ErrorResponse,
// whose "error" is a string kind with a sibling "message".
type wireResponse struct {
	Value   json.RawMessage `json:"value"`
	Error   json.RawMessage `json:"error"`
	Message string          `json:"message"`
}

// CallOperation sends args as a CallRequest to export and decodes the
// CallResponse. A host-level ErrorResponse is returned as an error.
func (g *GuestInstance) CallOperation(ctx context.Context, export string, args ...any) (entities.CallResponse, error) {
	if args == nil {
		args = []any{}
	}
	req, err := json.Marshal(entities.CallRequest{Args: args})
	if err != nil {
		return entities.CallResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	data, err := g.Call(ctx, export, req)
	if err != nil {
		return entities.CallResponse{}, err
	}

	var wire wireResponse
	if err := json.Unmarshal(data, &wire); err != nil {
		return entities.CallResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	var resp entities.CallResponse
	switch errField := bytes.TrimSpace(wire.Error); {
	case len(errField) == 0 || bytes.Equal(errField, []byte("null")):
		if len(wire.Value) > 0 {
			if err := json.Unmarshal(wire.Value, &resp.Value); err != nil {
				return entities.CallResponse{}, fmt.Errorf("failed to decode response value: %w", err)
			}
		}
	case errField[0] == '"':
		var kind string
		if err := json.Unmarshal(errField, &kind); err != nil {
			return entities.CallResponse{}, fmt.Errorf("failed to decode host error: %w", err)
		}
		return entities.CallResponse{}, fmt.Errorf("%s: %s", kind, wire.Message)
	case errField[0] == '{':
		resp.Error = &entities.ErrorDetail{}
		if err := json.Unmarshal(errField, resp.Error); err != nil {
			return entities.CallResponse{}, fmt.Errorf("failed to decode response error: %w", err)
		}
	default:
		return entities.CallResponse{}, fmt.Errorf("unexpected error field in response: %s", errField)
	}
	return resp, nil
}

func (g *GuestInstance) call(ctx context.Context, export string, payload []byte) ([]uint64, error) {
	fn := g.module.ExportedFunction(export)
	if fn == nil {
		return nil, fmt.Errorf("export %q not found", export)
	}

	packed, err := wazeroadapter.WriteGuest(ctx, g.module, payload)
	if err != nil {
		return nil, err
	}
	results, err := fn.Call(ctx, packed)
	if err != nil {
		return nil, fmt.Errorf("failed to call %s: %w", export, err)
	}
	return results, nil
}
