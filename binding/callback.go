package binding

import (
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// CallWithCallback is the callback adapter. Shape errors are returned
// immediately. Otherwise the computation is scheduled on loop and the trailing
// callback is invoked exactly once on the loop goroutine: with (nil, value) on
// success or (BoundaryError, nil) on failure.
func (b Binding) CallWithCallback(loop *Loop, args ...any) error {
	coerced, err := Validate(b.Op.Params, args)
	if err != nil {
		return err
	}

	var cb Callback
	if len(coerced) > 0 {
		cb, _ = coerced[len(coerced)-1].(Callback)
	}
	if cb == nil {
		return errors.WrongArguments()
	}

	work := func() Outcome { return b.compute(coerced) }
	deliver := func(o Outcome) error {
		if o.OK() {
			return cb(nil, o.Value())
		}
		return cb(o.Err(), nil)
	}

	if b.Dedicated {
		loop.Spawn(work, deliver)
	} else {
		loop.Go(work, deliver)
	}
	return nil
}
