package jsbridge

import (
	"github.com/dop251/goja"

	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// toGo converts a script value into the dynamic argument form the binding
// validates. Functions become callbacks invoked in the error-first style.
func (b *Bridge) toGo(v goja.Value) any {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil
	}
	if fn, ok := goja.AssertFunction(v); ok {
		return binding.Callback(func(err error, value any) error {
			// (null, value) on success, (error, null) on failure.
			errArg, valueArg := goja.Value(goja.Null()), goja.Value(goja.Null())
			if err != nil {
				errArg = b.errorValue(err)
			} else if value != nil {
				valueArg = b.toJS(value)
			}
			_, callErr := fn(goja.Undefined(), errArg, valueArg)
			return callErr
		})
	}
	return v.Export()
}

func (b *Bridge) toGoArgs(args []goja.Value) []any {
	out := make([]any, len(args))
	for i, a := range args {
		out[i] = b.toGo(a)
	}
	return out
}

// toJS converts a marshaled result into a script value. Records become
// plain objects with their fields in order.
func (b *Bridge) toJS(v any) goja.Value {
	switch val := v.(type) {
	case nil:
		return goja.Undefined()
	case goja.Value:
		return val
	case error:
		return b.errorValue(val)
	case binding.Record:
		obj := b.rt.NewObject()
		for pair := val.Oldest(); pair != nil; pair = pair.Next() {
			_ = obj.Set(pair.Key, b.toJS(pair.Value))
		}
		return obj
	case []any:
		items := make([]any, len(val))
		for i, item := range val {
			items[i] = b.toJS(item)
		}
		return b.rt.NewArray(items...)
	default:
		return b.rt.ToValue(val)
	}
}

// errorValue builds the script error object for err: a TypeError for shape
// errors, an Error otherwise.
func (b *Bridge) errorValue(err error) *goja.Object {
	if errors.IsTypeError(err) {
		be, _ := errors.AsBoundaryError(err)
		return b.rt.NewTypeError("%s", be.Message)
	}

	msg := err.Error()
	if be, ok := errors.AsBoundaryError(err); ok {
		msg = be.Message
	}
	obj, newErr := b.rt.New(b.rt.Get("Error"), b.rt.ToValue(msg))
	if newErr != nil {
		return b.rt.NewGoError(err)
	}
	return obj
}
