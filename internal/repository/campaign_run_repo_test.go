package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/database"
	"github.com/Levilaell/script-post-ai/internal/models"
)

func newTestRepo(t *testing.T) *CampaignRunRepository {
	t.Helper()

	db, err := database.New(config.DatabaseConfig{
		Driver:          "sqlite",
		DSN:             "file::memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "silent",
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, db.Migrate())
	return NewCampaignRunRepository(db)
}

func newRun(runID string) *models.CampaignRun {
	return &models.CampaignRun{
		RunID:     runID,
		Theme:     "christmas decor ideas",
		Requested: 3,
		Status:    models.RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

func TestCampaignRunRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("create and fetch run", func(t *testing.T) {
		repo := newTestRepo(t)

		run := newRun("run-1")
		require.NoError(t, repo.CreateRun(ctx, run))
		assert.False(t, run.ID.IsZero())

		got, err := repo.GetByRunID(ctx, "run-1")
		require.NoError(t, err)
		assert.Equal(t, run.ID, got.ID)
		assert.Equal(t, "christmas decor ideas", got.Theme)
		assert.Equal(t, models.RunStatusRunning, got.Status)
	})

	t.Run("update run to completed", func(t *testing.T) {
		repo := newTestRepo(t)

		run := newRun("run-2")
		require.NoError(t, repo.CreateRun(ctx, run))

		finished := time.Now().UTC()
		run.Status = models.RunStatusCompleted
		run.Completed = 3
		run.PinsPublished = 2
		run.FinishedAt = &finished
		require.NoError(t, repo.UpdateRun(ctx, run))

		got, err := repo.GetByRunID(ctx, "run-2")
		require.NoError(t, err)
		assert.Equal(t, models.RunStatusCompleted, got.Status)
		assert.Equal(t, 3, got.Completed)
		assert.Equal(t, 2, got.PinsPublished)
		require.NotNil(t, got.FinishedAt)
	})

	t.Run("iterations returned in sequence order", func(t *testing.T) {
		repo := newTestRepo(t)

		run := newRun("run-3")
		require.NoError(t, repo.CreateRun(ctx, run))

		for _, seq := range []int{2, 1, 3} {
			require.NoError(t, repo.AddIteration(ctx, &models.IterationRecord{
				CampaignRunID: run.ID,
				Sequence:      seq,
				Title:         fmt.Sprintf("title %d", seq),
				Status:        models.IterationStatusPublished,
				PinPublished:  true,
			}))
		}

		recs, err := repo.Iterations(ctx, run.ID)
		require.NoError(t, err)
		require.Len(t, recs, 3)
		assert.Equal(t, 1, recs[0].Sequence)
		assert.Equal(t, 3, recs[2].Sequence)
	})

	t.Run("recent runs newest first", func(t *testing.T) {
		repo := newTestRepo(t)

		old := newRun("run-old")
		old.StartedAt = time.Now().Add(-time.Hour).UTC()
		require.NoError(t, repo.CreateRun(ctx, old))

		recent := newRun("run-recent")
		require.NoError(t, repo.CreateRun(ctx, recent))

		runs, err := repo.RecentRuns(ctx, 10)
		require.NoError(t, err)
		require.Len(t, runs, 2)
		assert.Equal(t, "run-recent", runs[0].RunID)
	})

	t.Run("unknown run id errors", func(t *testing.T) {
		repo := newTestRepo(t)
		_, err := repo.GetByRunID(ctx, "missing")
		assert.Error(t, err)
	})
}
