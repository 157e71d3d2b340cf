package host

import (
	"log/slog"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/hostfuncs"
)

// Option configures an Executor.
type Option func(*Executor)

// WithHostFunctions uses registry as the exported host functions instead of
// the addon bundle.
func WithHostFunctions(registry *hostfuncs.HandlerRegistry) Option {
	return func(e *Executor) {
		e.registry = registry
	}
}

// WithAddon exports the operations of mod. Without it (or
// WithHostFunctions) a Module with the default configuration is used.
func WithAddon(mod *addon.Module) Option {
	return func(e *Executor) {
		e.addon = mod
	}
}

// WithLogger sets the logger receiving host and guest log records.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) {
		e.logger = logger
	}
}

// WithModuleName overrides the host module name guests import from.
func WithModuleName(name string) Option {
	return func(e *Executor) {
		e.moduleName = name
	}
}
