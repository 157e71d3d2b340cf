package jsbridge

import (
	"fmt"

	"github.com/dop251/goja"
)

// assertModule implements the subset of Node's assert module scripts use:
// assert(value[, message]), assert.ok, assert.equal and assert.strictEqual.
func (b *Bridge) assertModule() *goja.Object {
	ok := func(call goja.FunctionCall) goja.Value {
		if !call.Argument(0).ToBoolean() {
			b.assertionFailed(call.Argument(1), "The expression evaluated to a falsy value")
		}
		return goja.Undefined()
	}

	obj := b.rt.ToValue(ok).ToObject(b.rt)
	_ = obj.Set("ok", ok)
	_ = obj.Set("equal", func(call goja.FunctionCall) goja.Value {
		actual, expected := call.Argument(0), call.Argument(1)
		if !actual.Equals(expected) {
			b.assertionFailed(call.Argument(2), fmt.Sprintf("%s == %s", actual, expected))
		}
		return goja.Undefined()
	})
	_ = obj.Set("strictEqual", func(call goja.FunctionCall) goja.Value {
		actual, expected := call.Argument(0), call.Argument(1)
		if !actual.StrictEquals(expected) {
			b.assertionFailed(call.Argument(2), fmt.Sprintf("Expected values to be strictly equal: %s !== %s", actual, expected))
		}
		return goja.Undefined()
	})
	return obj
}

// assertionFailed throws an AssertionError with message, or def when no
// message was given.
func (b *Bridge) assertionFailed(message goja.Value, def string) {
	text := def
	if message != nil && !goja.IsUndefined(message) {
		text = message.String()
	}
	obj, err := b.rt.New(b.rt.Get("Error"), b.rt.ToValue(text))
	if err != nil {
		panic(b.rt.NewGoError(err))
	}
	_ = obj.Set("name", "AssertionError")
	_ = obj.Set("code", "ERR_ASSERTION")
	panic(obj)
}
