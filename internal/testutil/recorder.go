package testutil

import "sync"

// Delivery is one observed callback invocation.
type Delivery struct {
	Err   error
	Value any
}

// CallbackRecorder records error-first callback invocations.
type CallbackRecorder struct {
	mu         sync.Mutex
	deliveries []Delivery
}

// Callback returns a callback that records each invocation.
func (r *CallbackRecorder) Callback() func(error, any) {
	return func(err error, value any) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.deliveries = append(r.deliveries, Delivery{Err: err, Value: value})
	}
}

// Deliveries returns a copy of the recorded invocations in order.
func (r *CallbackRecorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// Count returns the number of recorded invocations.
func (r *CallbackRecorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.deliveries)
}
