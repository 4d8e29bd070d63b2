package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingRunner struct {
	calls atomic.Int32
	block chan struct{}
}

func (r *countingRunner) Run(ctx context.Context) error {
	r.calls.Add(1)
	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}
	return nil
}

func TestScheduler(t *testing.T) {
	t.Run("invalid cron expression rejected", func(t *testing.T) {
		s := New(&countingRunner{}, nil)
		err := s.Start(context.Background(), "not a cron spec")
		assert.Error(t, err)
	})

	t.Run("valid expression accepted", func(t *testing.T) {
		s := New(&countingRunner{}, nil)
		require.NoError(t, s.Start(context.Background(), "0 6 * * *"))
		s.Stop()
	})

	t.Run("tick skipped while campaign in flight", func(t *testing.T) {
		runner := &countingRunner{block: make(chan struct{})}
		s := New(runner, nil)
		s.ctx, s.cancel = context.WithCancel(context.Background())
		defer s.cancel()

		go s.tick()
		require.Eventually(t, func() bool {
			return runner.calls.Load() == 1
		}, time.Second, 10*time.Millisecond)

		// Second tick overlaps the blocked first one and must be skipped.
		s.tick()
		assert.Equal(t, int32(1), runner.calls.Load())

		close(runner.block)
		require.Eventually(t, func() bool {
			s.tick()
			return runner.calls.Load() >= 2
		}, time.Second, 10*time.Millisecond)
	})
}
