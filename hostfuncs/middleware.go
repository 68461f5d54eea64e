package hostfuncs

import (
	"context"
	"log/slog"
	"time"
)

// Middleware is a function that wraps a ByteHandler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps first, onion model).
type Middleware func(next ByteHandler) ByteHandler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware returns a middleware that catches panics and converts
// them to structured ErrorResponse JSON instead of crashing the host.
func PanicRecoveryMiddleware() Middleware {
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					resp = NewPanicError(r).ToJSON()
					err = nil // Return JSON error, not Go error
				}
			}()
			return next(ctx, payload)
		}
	}
}

// LoggingMiddleware returns a middleware that logs every invocation with its
// command name, duration and outcome. Failure envelopes are logged at warn.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next ByteHandler) ByteHandler {
		return func(ctx context.Context, payload []byte) ([]byte, error) {
			name := CommandNameFrom(ctx)
			start := time.Now()

			resp, err := next(ctx, payload)

			attrs := []any{"command", name, "duration", time.Since(start)}
			switch {
			case err != nil:
				logger.ErrorContext(ctx, "command failed", append(attrs, "error", err)...)
			default:
				if e, ok := ParseErrorResponse(resp); ok {
					logger.WarnContext(ctx, "command returned error",
						append(attrs, "kind", e.Error, "message", e.Message)...)
				} else {
					logger.DebugContext(ctx, "command completed", append(attrs, "bytes", len(resp))...)
				}
			}
			return resp, err
		}
	}
}
