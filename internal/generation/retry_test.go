package generation

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry(t *testing.T) {
	logger := slog.Default()
	ctx := context.Background()

	t.Run("first valid result returned", func(t *testing.T) {
		calls := 0
		got, err := Retry(ctx, logger, Policy{MaxAttempts: 3}, "op",
			func(context.Context) (string, error) {
				calls++
				return "ok", nil
			},
			func(s string) bool { return true },
		)
		require.NoError(t, err)
		assert.Equal(t, "ok", got)
		assert.Equal(t, 1, calls)
	})

	t.Run("invalid results retried until valid", func(t *testing.T) {
		calls := 0
		got, err := Retry(ctx, logger, Policy{MaxAttempts: 3}, "op",
			func(context.Context) (int, error) {
				calls++
				return calls, nil
			},
			func(n int) bool { return n >= 3 },
		)
		require.NoError(t, err)
		assert.Equal(t, 3, got)
	})

	t.Run("exhaustion returns error by default", func(t *testing.T) {
		_, err := Retry(ctx, logger, Policy{MaxAttempts: 2}, "op",
			func(context.Context) (string, error) { return "too long", nil },
			func(string) bool { return false },
		)
		assert.ErrorIs(t, err, ErrAttemptsExhausted)
	})

	t.Run("accept last returns raw result on exhaustion", func(t *testing.T) {
		got, err := Retry(ctx, logger, Policy{MaxAttempts: 2, AcceptLast: true}, "op",
			func(context.Context) (string, error) { return "over-length title", nil },
			func(string) bool { return false },
		)
		require.NoError(t, err)
		assert.Equal(t, "over-length title", got)
	})

	t.Run("accept last without any result still errors", func(t *testing.T) {
		_, err := Retry(ctx, logger, Policy{MaxAttempts: 2, AcceptLast: true}, "op",
			func(context.Context) (string, error) { return "", errors.New("backend down") },
			func(string) bool { return true },
		)
		assert.ErrorIs(t, err, ErrAttemptsExhausted)
	})

	t.Run("generation errors count against attempts", func(t *testing.T) {
		calls := 0
		_, err := Retry(ctx, logger, Policy{MaxAttempts: 3}, "op",
			func(context.Context) (string, error) {
				calls++
				return "", errors.New("boom")
			},
			func(string) bool { return true },
		)
		assert.ErrorIs(t, err, ErrAttemptsExhausted)
		assert.Equal(t, 3, calls)
	})

	t.Run("cancelled context stops attempts", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := Retry(cancelled, logger, Policy{MaxAttempts: 3}, "op",
			func(context.Context) (string, error) { return "x", nil },
			func(string) bool { return true },
		)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
