package binding

import (
	"fmt"

	"github.com/winsoft666/node-addon-sample/domain/entities"
)

// Native computes an operation's result from validated, coerced arguments.
// Callback arguments are not passed; only data parameters are.
type Native func(args []any) (any, error)

// Binding couples an operation descriptor with its native implementation.
type Binding struct {
	Op entities.Operation
	Fn Native

	// Dedicated runs asynchronous work on its own goroutine instead of the
	// loop's worker pool.
	Dedicated bool
}

// Invoke validates args against the operation's data parameters and computes
// the outcome on the calling goroutine. Shape errors become failure outcomes.
// It serves callers that receive every outcome as a return value.
func (b Binding) Invoke(args []any) Outcome {
	coerced, err := Validate(b.Op.ValueParams(), args)
	if err != nil {
		return FromResult(nil, err)
	}
	return b.compute(coerced)
}

// compute runs the native function on the data arguments and marshals its result.
func (b Binding) compute(args []any) (out Outcome) {
	values := make([]any, 0, len(args))
	for _, a := range args {
		if _, ok := a.(Callback); ok {
			continue
		}
		values = append(values, a)
	}

	defer func() {
		if r := recover(); r != nil {
			out = FromResult(nil, fmt.Errorf("%s panicked: %v", b.Op.Name, r))
		}
	}()

	v, err := b.Fn(values)
	if err != nil {
		return FromResult(nil, err)
	}
	return Success(Marshal(v))
}
