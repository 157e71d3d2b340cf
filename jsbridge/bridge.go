package jsbridge

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dop251/goja"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Bridge exposes an addon.Module to a goja runtime.
//
// A Bridge is not safe for concurrent use: the runtime, and every callback
// and promise continuation, runs on the goroutine calling RunScript.
type Bridge struct {
	rt      *goja.Runtime
	mod     *addon.Module
	exports *goja.Object
	assert  *goja.Object

	stdout io.Writer
	stderr io.Writer

	unhandled []*goja.Promise
}

// Option configures a Bridge.
type Option func(*Bridge)

// WithRuntime binds into an existing runtime instead of a new one.
func WithRuntime(rt *goja.Runtime) Option {
	return func(b *Bridge) {
		b.rt = rt
	}
}

// WithStdout sets where console.log writes. Default is os.Stdout.
func WithStdout(w io.Writer) Option {
	return func(b *Bridge) {
		b.stdout = w
	}
}

// WithStderr sets where console.error writes. Default is os.Stderr.
func WithStderr(w io.Writer) Option {
	return func(b *Bridge) {
		b.stderr = w
	}
}

// New creates a Bridge and builds the exports object of mod.
func New(mod *addon.Module, opts ...Option) *Bridge {
	b := &Bridge{mod: mod, stdout: os.Stdout, stderr: os.Stderr}
	for _, opt := range opts {
		opt(b)
	}
	if b.rt == nil {
		b.rt = goja.New()
	}

	b.exports = b.rt.NewObject()
	for _, op := range mod.Operations() {
		_ = b.exports.Set(op.Name, b.operation(op))
	}
	b.assert = b.assertModule()
	b.rt.SetPromiseRejectionTracker(b.trackRejection)
	return b
}

// Runtime returns the underlying runtime.
func (b *Bridge) Runtime() *goja.Runtime {
	return b.rt
}

// Exports returns the object holding the operations.
func (b *Bridge) Exports() *goja.Object {
	return b.exports
}

// Install defines the exports as the global name (skipped when empty) along
// with require and console.
func (b *Bridge) Install(name string) error {
	if name != "" {
		if err := b.rt.Set(name, b.exports); err != nil {
			return fmt.Errorf("failed to set global %q: %w", name, err)
		}
	}
	if err := b.rt.Set("require", b.require); err != nil {
		return fmt.Errorf("failed to set require: %w", err)
	}

	console := b.rt.NewObject()
	_ = console.Set("log", b.printer(func() io.Writer { return b.stdout }))
	_ = console.Set("info", b.printer(func() io.Writer { return b.stdout }))
	_ = console.Set("error", b.printer(func() io.Writer { return b.stderr }))
	_ = console.Set("warn", b.printer(func() io.Writer { return b.stderr }))
	if err := b.rt.Set("console", console); err != nil {
		return fmt.Errorf("failed to set console: %w", err)
	}
	return nil
}

// RunScript runs src, then delivers asynchronous results until every call
// the script issued (directly or from callbacks) has delivered.
//
// It fails on an uncaught exception in the script body or a callback, on a
// promise rejection left unhandled, and when ctx ends first.
func (b *Bridge) RunScript(ctx context.Context, name, src string) error {
	b.rt.ClearInterrupt()
	stop := context.AfterFunc(ctx, func() {
		b.rt.Interrupt(ctx.Err())
	})
	defer stop()

	if _, err := b.rt.RunScript(name, src); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if err := b.mod.Run(ctx); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return b.takeUnhandled()
}

// operation builds the script function for op, dispatching on its
// delivery mode. Shape errors are thrown.
func (b *Bridge) operation(op entities.Operation) func(goja.FunctionCall) goja.Value {
	bnd, _ := b.mod.Binding(op.Name)

	return func(call goja.FunctionCall) goja.Value {
		args := b.toGoArgs(call.Arguments)

		switch op.Mode {
		case entities.ModeCallback:
			if err := bnd.CallWithCallback(b.mod.Loop(), args...); err != nil {
				panic(b.errorValue(err))
			}
			return goja.Undefined()

		case entities.ModePromise:
			p, err := bnd.CallAsync(b.mod.Loop(), args...)
			if err != nil {
				panic(b.errorValue(err))
			}
			return b.promise(p)

		default:
			v, err := bnd.Call(args...)
			if err != nil {
				panic(b.errorValue(err))
			}
			return b.toJS(v)
		}
	}
}

// promise mirrors p as a script Promise. Settling runs the script's
// reactions immediately, on the loop goroutine.
func (b *Bridge) promise(p *binding.Promise) goja.Value {
	jsPromise, resolve, reject := b.rt.NewPromise()
	p.Then(func(v any) {
		resolve(b.toJS(v))
	}).Catch(func(err error) {
		reject(b.errorValue(err))
	})
	return b.rt.ToValue(jsPromise)
}

func (b *Bridge) trackRejection(p *goja.Promise, op goja.PromiseRejectionOperation) {
	switch op {
	case goja.PromiseRejectionReject:
		b.unhandled = append(b.unhandled, p)
	case goja.PromiseRejectionHandle:
		for i, u := range b.unhandled {
			if u == p {
				b.unhandled = append(b.unhandled[:i], b.unhandled[i+1:]...)
				break
			}
		}
	}
}

func (b *Bridge) takeUnhandled() error {
	var errs []error
	for _, p := range b.unhandled {
		errs = append(errs, fmt.Errorf("unhandled promise rejection: %s", p.Result().String()))
	}
	b.unhandled = nil
	return errors.Join(errs...)
}

func (b *Bridge) require(call goja.FunctionCall) goja.Value {
	switch id := call.Argument(0).String(); id {
	case "assert":
		return b.assert
	case "bindings":
		// require("bindings")("<name>.node") loads the addon.
		return b.rt.ToValue(func(goja.FunctionCall) goja.Value { return b.exports })
	default:
		panic(b.errorValue(fmt.Errorf("Cannot find module '%s'", id)))
	}
}

func (b *Bridge) printer(out func() io.Writer) func(goja.FunctionCall) goja.Value {
	return func(call goja.FunctionCall) goja.Value {
		parts := make([]string, len(call.Arguments))
		for i, a := range call.Arguments {
			parts[i] = a.String()
		}
		fmt.Fprintln(out(), strings.Join(parts, " "))
		return goja.Undefined()
	}
}
