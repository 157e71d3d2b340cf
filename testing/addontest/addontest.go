// Package addontest provides a table-driven harness for addon operations.
package addontest

import (
	"context"
	"reflect"
	"testing"
	"time"

	addon "github.com/winsoft666/node-addon-sample"
	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// DefaultTimeout bounds the event loop run of each case.
const DefaultTimeout = 10 * time.Second

// TestCase is one call of an operation.
type TestCase struct {
	Name string
	Op   string

	// Args are the data arguments. For callback operations the harness
	// appends the callback.
	Args []any

	Validate func(t *testing.T, o binding.Outcome)
}

// RunOperationTests calls each case through its operation's declared
// delivery mode and hands the single outcome to Validate. A case that
// delivers more or less than once fails.
func RunOperationTests(t *testing.T, mod *addon.Module, tests []TestCase) {
	t.Helper()

	for _, tc := range tests {
		t.Run(tc.Name, func(t *testing.T) {
			outcomes := call(t, mod, tc)
			if len(outcomes) != 1 {
				t.Fatalf("%s delivered %d outcomes, want exactly 1", tc.Op, len(outcomes))
			}
			if tc.Validate != nil {
				tc.Validate(t, outcomes[0])
			}
		})
	}
}

func call(t *testing.T, mod *addon.Module, tc TestCase) []binding.Outcome {
	t.Helper()

	b, ok := mod.Binding(tc.Op)
	if !ok {
		t.Fatalf("unknown operation %q", tc.Op)
	}

	var outcomes []binding.Outcome
	record := func(v any, err error) {
		outcomes = append(outcomes, binding.FromResult(v, err))
	}

	args := append([]any(nil), tc.Args...)
	switch b.Op.Mode {
	case entities.ModeCallback:
		args = append(args, func(err error, v any) { record(v, err) })
		if err := b.CallWithCallback(mod.Loop(), args...); err != nil {
			record(nil, err)
		}
	case entities.ModePromise:
		p, err := b.CallAsync(mod.Loop(), args...)
		if err != nil {
			record(nil, err)
			break
		}
		p.Then(func(v any) { record(v, nil) }).Catch(func(err error) { record(nil, err) })
	default:
		record(b.Call(args...))
	}

	ctx, cancel := context.WithTimeout(context.Background(), DefaultTimeout)
	defer cancel()
	if err := mod.Run(ctx); err != nil {
		t.Fatalf("event loop: %v", err)
	}
	return outcomes
}

// AssertSuccess asserts the outcome is a success.
func AssertSuccess(t *testing.T, o binding.Outcome) {
	t.Helper()
	if !o.OK() {
		t.Errorf("expected success, got %v", o.Err())
	}
}

// AssertTypeError asserts the outcome is a TypeError with message.
func AssertTypeError(t *testing.T, o binding.Outcome, message string) {
	t.Helper()
	assertFailure(t, o, errors.KindTypeError, message)
}

// AssertDomainError asserts the outcome is an Error with message.
func AssertDomainError(t *testing.T, o binding.Outcome, message string) {
	t.Helper()
	assertFailure(t, o, errors.KindError, message)
}

func assertFailure(t *testing.T, o binding.Outcome, kind errors.Kind, message string) {
	t.Helper()
	be := o.BoundaryError()
	if be == nil {
		t.Errorf("expected %s %q, got success %v", kind, message, o.Value())
		return
	}
	if be.Kind != kind || be.Message != message {
		t.Errorf("expected %s: %s, got %v", kind, message, be)
	}
}

// AssertValue asserts the outcome succeeded with expected. Numbers compare
// by value whatever their Go type.
func AssertValue(t *testing.T, o binding.Outcome, expected any) {
	t.Helper()
	if !o.OK() {
		t.Errorf("expected %v, got %v", expected, o.Err())
		return
	}

	val := o.Value()
	if expectedNum, ok := toFloat64(expected); ok {
		if actualNum, ok := toFloat64(val); ok {
			if expectedNum != actualNum {
				t.Errorf("expected %v, got %v", expected, val)
			}
			return
		}
	}
	if !reflect.DeepEqual(val, expected) {
		t.Errorf("expected %v, got %v", expected, val)
	}
}

// AssertRecordField asserts element index of a record-list outcome has
// field key equal to expected.
func AssertRecordField(t *testing.T, o binding.Outcome, index int, key string, expected any) {
	t.Helper()
	list, ok := o.Value().([]any)
	if !ok || index >= len(list) {
		t.Errorf("expected a record list with element %d, got %v", index, o.Value())
		return
	}
	rec, ok := list[index].(binding.Record)
	if !ok {
		t.Errorf("element %d is %T, not a record", index, list[index])
		return
	}
	val, ok := rec.Get(key)
	if !ok {
		t.Errorf("element %d: missing field %q", index, key)
		return
	}
	AssertValue(t, binding.Success(val), expected)
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
