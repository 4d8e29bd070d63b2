package database

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Levilaell/script-post-ai/internal/config"
)

func TestNew(t *testing.T) {
	t.Run("sqlite opens and migrates", func(t *testing.T) {
		db, err := New(config.DatabaseConfig{
			Driver:          "sqlite",
			DSN:             "file::memory:",
			MaxOpenConns:    1,
			MaxIdleConns:    1,
			ConnMaxLifetime: time.Hour,
			LogLevel:        "silent",
		}, nil)
		require.NoError(t, err)
		defer db.Close()

		require.NoError(t, db.Migrate())
		assert.NoError(t, db.Ping(context.Background()))
	})

	t.Run("unsupported driver rejected", func(t *testing.T) {
		_, err := New(config.DatabaseConfig{Driver: "oracle"}, nil)
		assert.ErrorContains(t, err, "unsupported database driver")
	})
}

func TestGetDialector_SQLitePragmas(t *testing.T) {
	t.Run("pragmas appended to bare dsn", func(t *testing.T) {
		d, err := getDialector(config.DatabaseConfig{Driver: "sqlite", DSN: "postbot.db"})
		require.NoError(t, err)

		dialector, ok := d.(*sqlite.Dialector)
		require.True(t, ok)
		assert.Contains(t, dialector.DSN, "postbot.db?")
		assert.Contains(t, dialector.DSN, "_pragma=journal_mode(WAL)")
		assert.Contains(t, dialector.DSN, "_pragma=busy_timeout(30000)")
	})

	t.Run("existing query string extended", func(t *testing.T) {
		d, err := getDialector(config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:?cache=shared"})
		require.NoError(t, err)

		dialector := d.(*sqlite.Dialector)
		assert.Contains(t, dialector.DSN, "cache=shared&_pragma=")
	})
}
