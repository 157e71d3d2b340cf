package binding

import (
	"encoding/json"
	"math"

	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// Callback receives an asynchronous outcome in error-first form: exactly one of
// err and value is non-nil. A returned error is reported by Loop.Run.
type Callback func(err error, value any) error

// Validate checks args against the declared params and returns a coerced copy:
// numbers become int32 and functions become Callback.
//
// A count mismatch fails with TypeError "Wrong number of arguments"; a kind
// mismatch fails with TypeError "Wrong arguments".
func Validate(params []entities.ParamKind, args []any) ([]any, error) {
	if len(args) != len(params) {
		return nil, errors.WrongArgumentCount()
	}

	out := make([]any, len(args))
	for i, p := range params {
		switch p {
		case entities.ParamNumber:
			n, ok := ToInt32(args[i])
			if !ok {
				return nil, errors.WrongArguments()
			}
			out[i] = n
		case entities.ParamFunction:
			cb, ok := AsCallback(args[i])
			if !ok {
				return nil, errors.WrongArguments()
			}
			out[i] = cb
		default:
			return nil, errors.WrongArguments()
		}
	}
	return out, nil
}

// ToInt32 converts a host number to int32 the way hosts coerce numbers to
// 32-bit integers: truncation toward zero, modulo 2^32, NaN and ±Inf as 0.
func ToInt32(v any) (int32, bool) {
	switch n := v.(type) {
	case int:
		return int32(uint32(n)), true
	case int8:
		return int32(n), true
	case int16:
		return int32(n), true
	case int32:
		return n, true
	case int64:
		return int32(uint32(n)), true
	case uint:
		return int32(uint32(n)), true
	case uint8:
		return int32(n), true
	case uint16:
		return int32(n), true
	case uint32:
		return int32(n), true
	case uint64:
		return int32(uint32(n)), true
	case float32:
		return floatToInt32(float64(n)), true
	case float64:
		return floatToInt32(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt32(f), true
	default:
		return 0, false
	}
}

func floatToInt32(f float64) int32 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	m := math.Mod(math.Trunc(f), 1<<32)
	if m < 0 {
		m += 1 << 32
	}
	return int32(uint32(m))
}

// AsCallback accepts the function shapes a host may pass as a callback.
func AsCallback(v any) (Callback, bool) {
	switch f := v.(type) {
	case Callback:
		return f, f != nil
	case func(error, any) error:
		return Callback(f), f != nil
	case func(error, any):
		if f == nil {
			return nil, false
		}
		return func(err error, value any) error {
			f(err, value)
			return nil
		}, true
	default:
		return nil, false
	}
}
