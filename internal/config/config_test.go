package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg, err := Load("")
	if err != nil {
		panic(err)
	}
	cfg.Campaign.Theme = "christmas decor ideas"
	cfg.Generation.APIKey = "sk-test"
	cfg.Imaging.APIKey = "img-test"
	cfg.Storage.PublicBaseURL = "https://www.example.com"
	cfg.CMS.BaseURL = "https://cms.example.com/api"
	cfg.CMS.Token = "token"
	cfg.Pinterest.Email = "bot@example.com"
	cfg.Pinterest.Password = "hunter2"
	return cfg
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 1, cfg.Campaign.Iterations)
	assert.Equal(t, 100, cfg.Generation.TitleMaxLength)
	assert.Equal(t, 2, cfg.Generation.TitleAttempts)
	assert.Equal(t, 3, cfg.Generation.IdeaAttempts)
	assert.Equal(t, 45, cfg.Generation.IdeaMinWords)
	assert.Equal(t, 155, cfg.Generation.DescriptionLimit)
	assert.Equal(t, 768, cfg.Imaging.Width)
	assert.Equal(t, 1280, cfg.Imaging.Height)
	assert.Equal(t, 4, cfg.Imaging.Steps)
	assert.Equal(t, 30*time.Second, cfg.Browser.ElementWait)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.Browser.Headless)
	assert.False(t, cfg.Transfer.Enabled)
}

func TestLoad_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "postbot.yaml")
	content := `
campaign:
  theme: living room decor ideas
  iterations: 24
  pacing_min: 2s
  pacing_max: 3s
generation:
  model: gpt-4o-mini
browser:
  headless: false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "living room decor ideas", cfg.Campaign.Theme)
	assert.Equal(t, 24, cfg.Campaign.Iterations)
	assert.Equal(t, 2*time.Second, cfg.Campaign.PacingMin)
	assert.False(t, cfg.Browser.Headless)
	// Unset values keep defaults.
	assert.Equal(t, 100, cfg.Generation.TitleMaxLength)
}

func TestLoad_MissingFileIsError(t *testing.T) {
	_, err := Load("/nonexistent/postbot.yaml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("valid config passes", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing theme", func(t *testing.T) {
		cfg := validConfig()
		cfg.Campaign.Theme = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero iterations", func(t *testing.T) {
		cfg := validConfig()
		cfg.Campaign.Iterations = 0
		assert.Error(t, cfg.Validate())
	})

	t.Run("inverted pacing bounds", func(t *testing.T) {
		cfg := validConfig()
		cfg.Campaign.PacingMin = 5 * time.Second
		cfg.Campaign.PacingMax = 2 * time.Second
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing generation key", func(t *testing.T) {
		cfg := validConfig()
		cfg.Generation.APIKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing pinterest credentials", func(t *testing.T) {
		cfg := validConfig()
		cfg.Pinterest.Password = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("transfer enabled without host", func(t *testing.T) {
		cfg := validConfig()
		cfg.Transfer.Enabled = true
		cfg.Transfer.User = "root"
		assert.Error(t, cfg.Validate())
	})

	t.Run("unsupported database driver", func(t *testing.T) {
		cfg := validConfig()
		cfg.Database.Driver = "oracle"
		assert.Error(t, cfg.Validate())
	})
}
