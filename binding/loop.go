package binding

import (
	"context"
	stdErrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
)

// Loop is the host execution context. Asynchronous work runs on worker
// goroutines; its delivery is posted here and executed by the one goroutine
// running Run, so the host never observes concurrent deliveries.
type Loop struct {
	mu   sync.Mutex
	jobs []func() error
	wake chan struct{}

	inflight atomic.Int64
	workers  chan struct{} // nil when unbounded
	logger   *slog.Logger

	// errs is only touched by the goroutine running Run.
	errs []error
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithMaxWorkers bounds the number of pooled computations running at once.
// Zero or less means unbounded.
func WithMaxWorkers(n int) LoopOption {
	return func(l *Loop) {
		if n > 0 {
			l.workers = make(chan struct{}, n)
		} else {
			l.workers = nil
		}
	}
}

// WithLogger sets the logger used for delivery diagnostics.
func WithLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates a Loop with the given options.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:   make(chan struct{}, 1),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Go runs work on a pooled worker goroutine and posts deliver with its outcome.
// deliver runs exactly once, on the loop.
func (l *Loop) Go(work func() Outcome, deliver func(Outcome) error) {
	l.schedule(false, work, deliver)
}

// Spawn is like Go but runs work on a dedicated goroutine that does not count
// against the worker bound.
func (l *Loop) Spawn(work func() Outcome, deliver func(Outcome) error) {
	l.schedule(true, work, deliver)
}

func (l *Loop) schedule(dedicated bool, work func() Outcome, deliver func(Outcome) error) {
	l.inflight.Add(1)
	go func() {
		out := l.runWork(dedicated, work)
		l.Post(func() error {
			l.inflight.Add(-1)
			return deliver(out)
		})
	}()
}

func (l *Loop) runWork(dedicated bool, work func() Outcome) (out Outcome) {
	if !dedicated && l.workers != nil {
		l.workers <- struct{}{}
		defer func() { <-l.workers }()
	}
	defer func() {
		if r := recover(); r != nil {
			out = FromResult(nil, fmt.Errorf("native computation panicked: %v", r))
		}
	}()
	return work()
}

// Post queues fn to run on the loop. It is safe to call from any goroutine.
func (l *Loop) Post(fn func() error) {
	l.mu.Lock()
	l.jobs = append(l.jobs, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of asynchronous calls that have not delivered yet.
func (l *Loop) Pending() int {
	return int(l.inflight.Load())
}

// Run executes queued deliveries on the calling goroutine until every
// asynchronous call has delivered and the queue is empty, or ctx ends.
//
// Errors returned or panics raised by deliveries do not stop the loop; they
// are joined and returned once it drains. A cancelled ctx stops draining only:
// outstanding work still completes and stays queued for the next Run.
func (l *Loop) Run(ctx context.Context) error {
	for {
		if job, ok := l.pop(); ok {
			l.exec(job)
			continue
		}
		if l.inflight.Load() == 0 {
			errs := l.errs
			l.errs = nil
			return stdErrors.Join(errs...)
		}
		select {
		case <-l.wake:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Loop) pop() (func() error, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.jobs) == 0 {
		return nil, false
	}
	job := l.jobs[0]
	l.jobs[0] = nil
	l.jobs = l.jobs[1:]
	return job, true
}

func (l *Loop) exec(job func() error) {
	defer func() {
		if r := recover(); r != nil {
			l.fail(fmt.Errorf("delivery panicked: %v", r))
		}
	}()
	if err := job(); err != nil {
		l.fail(err)
	}
}

func (l *Loop) fail(err error) {
	l.logger.Debug("binding: delivery failed", "error", err)
	l.errs = append(l.errs, err)
}
