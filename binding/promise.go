package binding

// PromiseState is the settlement state of a Promise.
type PromiseState int

const (
	PromisePending PromiseState = iota
	PromiseFulfilled
	PromiseRejected
)

func (s PromiseState) String() string {
	switch s {
	case PromiseFulfilled:
		return "fulfilled"
	case PromiseRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// Promise is the deferred handle returned by the promise adapter.
// It settles exactly once. Continuations run on the loop, each as its own job.
//
// A Promise belongs to the host context: register continuations and inspect
// its state only from the goroutine that runs the loop (or before Run starts).
type Promise struct {
	loop    *Loop
	state   PromiseState
	outcome Outcome

	onSuccess []func(any)
	onFailure []func(error)
}

// Then registers a continuation for the success value. A nil fn is ignored.
func (p *Promise) Then(fn func(value any)) *Promise {
	if fn == nil {
		return p
	}
	switch p.state {
	case PromisePending:
		p.onSuccess = append(p.onSuccess, fn)
	case PromiseFulfilled:
		v := p.outcome.Value()
		p.loop.Post(func() error {
			fn(v)
			return nil
		})
	}
	return p
}

// Catch registers a continuation for the failure.
// A rejected Promise without one is not an error; it just stays rejected.
// A nil fn is ignored.
func (p *Promise) Catch(fn func(err error)) *Promise {
	if fn == nil {
		return p
	}
	switch p.state {
	case PromisePending:
		p.onFailure = append(p.onFailure, fn)
	case PromiseRejected:
		err := p.outcome.Err()
		p.loop.Post(func() error {
			fn(err)
			return nil
		})
	}
	return p
}

// State returns the current settlement state.
func (p *Promise) State() PromiseState {
	return p.state
}

// Value returns the fulfilled value, or nil.
func (p *Promise) Value() any {
	return p.outcome.Value()
}

// Err returns the rejection, or nil.
func (p *Promise) Err() error {
	return p.outcome.Err()
}

func (p *Promise) settle(o Outcome) error {
	if p.state != PromisePending {
		return nil
	}
	p.outcome = o

	if o.OK() {
		p.state = PromiseFulfilled
		v := o.Value()
		for _, fn := range p.onSuccess {
			p.loop.Post(func() error {
				fn(v)
				return nil
			})
		}
	} else {
		p.state = PromiseRejected
		err := o.Err()
		if len(p.onFailure) == 0 {
			p.loop.logger.Debug("binding: promise rejected without a failure continuation", "error", err)
		}
		for _, fn := range p.onFailure {
			p.loop.Post(func() error {
				fn(err)
				return nil
			})
		}
	}

	p.onSuccess, p.onFailure = nil, nil
	return nil
}

// CallAsync is the promise adapter. Shape errors are returned immediately;
// otherwise it returns a pending Promise that settles on the loop.
func (b Binding) CallAsync(loop *Loop, args ...any) (*Promise, error) {
	coerced, err := Validate(b.Op.Params, args)
	if err != nil {
		return nil, err
	}

	p := &Promise{loop: loop}
	work := func() Outcome { return b.compute(coerced) }
	if b.Dedicated {
		loop.Spawn(work, p.settle)
	} else {
		loop.Go(work, p.settle)
	}
	return p, nil
}
