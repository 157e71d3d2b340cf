package hostfuncs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/winsoft666/node-addon-sample/binding"
	"github.com/winsoft666/node-addon-sample/domain/entities"
	"github.com/winsoft666/node-addon-sample/domain/errors"
)

// HostFunc is a typed host function.
type HostFunc[Req any, Resp any] func(context.Context, Req) Resp

// ByteHandler accepts a JSON request and returns a JSON response.
// It is what WASM runtimes bind to.
type ByteHandler func(context.Context, []byte) ([]byte, error)

// Invoker runs addon operations by name and returns their outcome.
// *addon.Module implements it.
type Invoker interface {
	Invoke(name string, args []any) binding.Outcome
	Operations() []entities.Operation
}

// NewJSONHandler wraps a typed HostFunc into a ByteHandler.
// A request that cannot be decoded yields a VALIDATION_ERROR response.
func NewJSONHandler[Req any, Resp any](fn HostFunc[Req, Resp]) ByteHandler {
	return func(ctx context.Context, payload []byte) ([]byte, error) {
		var req Req
		if err := decodeRequest(payload, &req); err != nil {
			return NewValidationError(err.Error()).ToJSON(), nil
		}

		resp := fn(ctx, req)

		respBytes, err := json.Marshal(resp)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return respBytes, nil
	}
}

// NewOperationHandler returns the handler of one addon operation.
// The request carries data arguments only; for callback and promise
// operations the outcome is the response.
func NewOperationHandler(inv Invoker, name string) ByteHandler {
	return NewJSONHandler(func(_ context.Context, req entities.CallRequest) entities.CallResponse {
		return ToCallResponse(inv.Invoke(name, req.Args))
	})
}

// ToCallResponse converts an outcome to its wire form.
func ToCallResponse(o binding.Outcome) entities.CallResponse {
	if o.OK() {
		return entities.CallResponse{Value: o.Value()}
	}
	return entities.CallResponse{Error: errors.ToErrorDetail(o.Err())}
}

// decodeRequest decodes payload into v, keeping numbers exact.
// An empty payload decodes as the zero request.
func decodeRequest(payload []byte, v any) error {
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("failed to unmarshal request: %w", err)
	}
	return nil
}
