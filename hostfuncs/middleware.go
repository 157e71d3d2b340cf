package hostfuncs

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a ByteHandler. The first registered middleware is the
// outermost layer.
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption configures a HandlerRegistry under construction.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware turns a panicking handler into an INTERNAL_ERROR
// response instead of a trap in the guest.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware logs each invocation at debug level with its function
// name, call ID and duration. Handler errors are logged at error level.
// Failed outcomes are responses, not handler errors, and are not logged.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			funcName, callID := "unknown", ""
			if hc, ok := ctx.(HostContext); ok {
				funcName = hc.FunctionName()
				callID = hc.CallID()
			}

			logger.DebugContext(ctx, "invoking host function", "function", funcName, "call_id", callID)
			start := time.Now()
			resp, err := next(ctx, payload)
			if err != nil {
				logger.ErrorContext(ctx, "host function failed", "function", funcName, "call_id", callID, "error", err)
				return resp, err
			}
			logger.DebugContext(ctx, "host function completed",
				"function", funcName, "call_id", callID, "duration", time.Since(start))
			return resp, nil
		}
	}
}
