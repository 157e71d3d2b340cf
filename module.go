package addon

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/winsoft666/node-addon-sample/application/config"
	"github.com/winsoft666/node-addon-sample/application/schema"
	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/domain/errors"
	"github.com/winsoft666/node-addon-sample/domain/ports"
	"github.com/winsoft666/node-addon-sample/infrastructure/filelist"
	addonlog "github.com/winsoft666/node-addon-sample/log"
)

// Module is a loaded instance of the addon: the operation table bound to its
// native implementations, plus the event loop on which asynchronous results
// are delivered.
//
// Synchronous operations may be called from any goroutine. Callbacks and
// promise continuations run on the goroutine that calls Run.
type Module struct {
	cfg      config.Config
	logger   *slog.Logger
	lister   ports.FileLister
	loop     *binding.Loop
	bindings map[string]binding.Binding
}

// Option configures a Module.
type Option func(*moduleOptions)

type moduleOptions struct {
	cfg    *config.Config
	logger *slog.Logger
	lister ports.FileLister
}

// WithConfig sets the runtime configuration. The default is config.Default().
func WithConfig(cfg config.Config) Option {
	return func(o *moduleOptions) {
		o.cfg = &cfg
	}
}

// WithLogger sets the logger. The default writes text to stderr at the
// configured log level.
func WithLogger(logger *slog.Logger) Option {
	return func(o *moduleOptions) {
		o.logger = logger
	}
}

// WithFileLister replaces the source of GetFileList.
func WithFileLister(lister ports.FileLister) Option {
	return func(o *moduleOptions) {
		o.lister = lister
	}
}

// New creates a Module.
func New(opts ...Option) (*Module, error) {
	var o moduleOptions
	for _, opt := range opts {
		opt(&o)
	}

	cfg := config.Default()
	if o.cfg != nil {
		cfg = *o.cfg
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := o.logger
	if logger == nil {
		level, _ := addonlog.ParseLevel(cfg.LogLevel)
		logger = addonlog.New(os.Stderr, addonlog.WithLevel(level))
	}

	lister := o.lister
	if lister == nil {
		lister = filelist.NewStaticLister(cfg.FileRoot, cfg.FileCount)
	}

	m := &Module{
		cfg:    cfg,
		logger: logger,
		lister: lister,
		loop:   binding.NewLoop(binding.WithMaxWorkers(cfg.MaxWorkers), binding.WithLogger(logger)),
	}
	m.bindings = m.buildBindings()
	return m, nil
}

// Config returns the module's configuration.
func (m *Module) Config() config.Config {
	return m.cfg
}

// Logger returns the module's logger.
func (m *Module) Logger() *slog.Logger {
	return m.logger
}

// Loop returns the event loop on which asynchronous results are delivered.
func (m *Module) Loop() *binding.Loop {
	return m.loop
}

// Operations returns the exported operation table sorted by name.
func (m *Module) Operations() []entities.Operation {
	return Operations()
}

// Binding returns the binding of the named operation.
func (m *Module) Binding(name string) (binding.Binding, bool) {
	b, ok := m.bindings[name]
	return b, ok
}

// Run delivers asynchronous results until every issued call has delivered
// or ctx ends.
func (m *Module) Run(ctx context.Context) error {
	return m.loop.Run(ctx)
}

// Add returns the int32 sum of two numbers.
func (m *Module) Add(args ...any) (any, error) {
	return m.bindings[OpAdd].Call(args...)
}

// GetFileList returns the file listing as an ordered list of records.
func (m *Module) GetFileList(args ...any) (any, error) {
	return m.bindings[OpGetFileList].Call(args...)
}

// GetPower10 computes n^10 and passes it to the trailing callback.
func (m *Module) GetPower10(args ...any) error {
	return m.bindings[OpGetPower10].CallWithCallback(m.loop, args...)
}

// GetPower20 computes n^20 and settles the returned Promise with it.
func (m *Module) GetPower20(args ...any) (*binding.Promise, error) {
	return m.bindings[OpGetPower20].CallAsync(m.loop, args...)
}

// GetPower30 computes n^30 on a dedicated goroutine and passes it to the
// trailing callback.
func (m *Module) GetPower30(args ...any) error {
	return m.bindings[OpGetPower30].CallWithCallback(m.loop, args...)
}

// Call invokes an operation by name using its declared delivery mode.
// Synchronous operations return their value, promise operations return a
// *binding.Promise and callback operations return nil.
func (m *Module) Call(name string, args ...any) (any, error) {
	b, ok := m.bindings[name]
	if !ok {
		return nil, fmt.Errorf("unknown operation %q", name)
	}

	switch b.Op.Mode {
	case entities.ModeCallback:
		return nil, b.CallWithCallback(m.loop, args...)
	case entities.ModePromise:
		return b.CallAsync(m.loop, args...)
	default:
		return b.Call(args...)
	}
}

// Invoke computes an operation on the calling goroutine and returns its
// outcome, whatever the declared delivery mode. args carries data
// parameters only; callback parameters are omitted.
func (m *Module) Invoke(name string, args []any) binding.Outcome {
	b, ok := m.bindings[name]
	if !ok {
		return binding.Failure(errors.NewError(fmt.Sprintf("unknown operation %q", name)))
	}
	return b.Invoke(args)
}

// Describe returns the operation table with the JSON Schemas of the wire
// request and response.
func (m *Module) Describe() (Description, error) {
	req, err := schema.GenerateSchema(entities.CallRequest{})
	if err != nil {
		return Description{}, fmt.Errorf("failed to generate request schema: %w", err)
	}
	resp, err := schema.GenerateSchema(entities.CallResponse{})
	if err != nil {
		return Description{}, fmt.Errorf("failed to generate response schema: %w", err)
	}

	ops := m.Operations()
	infos := make([]OperationInfo, 0, len(ops))
	for _, op := range ops {
		infos = append(infos, OperationInfo{
			Operation:      op,
			Arity:          op.Arity(),
			RequestSchema:  req,
			ResponseSchema: resp,
		})
	}
	return Description{Name: "addon", Version: Version, Operations: infos}, nil
}
