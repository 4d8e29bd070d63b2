package generation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAttemptsExhausted is returned when every attempt either failed or
// produced output rejected by the validation predicate.
var ErrAttemptsExhausted = errors.New("generation attempts exhausted")

// Policy bounds a generation call: at most MaxAttempts invocations, each
// checked against a validation predicate. When AcceptLast is set, exhausting
// the attempts returns the last raw result instead of failing — used for
// best-effort constraints like the title length limit.
type Policy struct {
	MaxAttempts int
	AcceptLast  bool
}

// Retry invokes gen until valid accepts the result or the policy's attempt
// budget is spent. Every attempt is logged for diagnosis; no state persists
// between independent calls.
func Retry[T any](ctx context.Context, logger *slog.Logger, p Policy, op string, gen func(context.Context) (T, error), valid func(T) bool) (T, error) {
	var last T
	var lastErr error
	haveLast := false

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			var zero T
			return zero, ctx.Err()
		default:
		}

		result, err := gen(ctx)
		if err != nil {
			lastErr = err
			logger.Warn("generation attempt failed",
				slog.String("operation", op),
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", p.MaxAttempts),
				slog.String("error", err.Error()),
			)
			continue
		}

		if valid(result) {
			return result, nil
		}

		last = result
		haveLast = true
		logger.Warn("generation attempt rejected by validation",
			slog.String("operation", op),
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", p.MaxAttempts),
		)
	}

	if p.AcceptLast && haveLast {
		logger.Warn("accepting last raw result after exhausting attempts",
			slog.String("operation", op),
			slog.Int("max_attempts", p.MaxAttempts),
		)
		return last, nil
	}

	var zero T
	if lastErr != nil {
		return zero, fmt.Errorf("%w (%s): %v", ErrAttemptsExhausted, op, lastErr)
	}
	return zero, fmt.Errorf("%w (%s)", ErrAttemptsExhausted, op)
}
