// Package config provides configuration management for postbot using Viper.
// It supports configuration from files, environment variables, and defaults.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Default configuration values.
const (
	defaultIterations        = 1
	defaultTitleMaxLength    = 100
	defaultTitleAttempts     = 2
	defaultIdeaAttempts      = 3
	defaultIdeaMinWords      = 45
	defaultDescriptionLimit  = 155
	defaultChatModel         = "gpt-4o-mini"
	defaultChatBaseURL       = "https://api.openai.com/v1"
	defaultImageEndpoint     = "https://api.getimg.ai/v1/flux-schnell/text-to-image"
	defaultImageWidth        = 768
	defaultImageHeight       = 1280
	defaultImageSteps        = 4
	defaultJPEGQuality       = 80
	defaultHTTPTimeout       = 60 * time.Second
	defaultRetryAttempts     = 3
	defaultRetryDelay        = 1 * time.Second
	defaultElementWait       = 30 * time.Second
	defaultPacingMin         = 4 * time.Second
	defaultPacingMax         = 5 * time.Second
	defaultLoginURL          = "https://www.pinterest.com/login/"
	defaultMaxOpenConns      = 6
	defaultMaxIdleConns      = 3
	defaultConnMaxLifetime   = time.Hour
	defaultSlugMaxLength     = 50
	defaultFilenameMaxLength = 93
)

// Config holds all configuration for the application.
type Config struct {
	Campaign   CampaignConfig   `mapstructure:"campaign"`
	Generation GenerationConfig `mapstructure:"generation"`
	Imaging    ImagingConfig    `mapstructure:"imaging"`
	Storage    StorageConfig    `mapstructure:"storage"`
	Transfer   TransferConfig   `mapstructure:"transfer"`
	CMS        CMSConfig        `mapstructure:"cms"`
	Pinterest  PinterestConfig  `mapstructure:"pinterest"`
	Browser    BrowserConfig    `mapstructure:"browser"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// CampaignConfig describes the campaign to run.
type CampaignConfig struct {
	// Theme is the content theme, e.g. "christmas decor ideas".
	Theme string `mapstructure:"theme"`
	// Iterations is the number of posts to generate and publish.
	Iterations int `mapstructure:"iterations"`
	// PacingMin/PacingMax bound the randomized pause between iterations.
	PacingMin time.Duration `mapstructure:"pacing_min"`
	PacingMax time.Duration `mapstructure:"pacing_max"`
}

// GenerationConfig holds text-generation backend configuration.
type GenerationConfig struct {
	BaseURL string `mapstructure:"base_url"`
	APIKey  string `mapstructure:"api_key" masq:"secret"`
	Model   string `mapstructure:"model"`

	// TitleMaxLength is the hard display limit for generated titles.
	TitleMaxLength int `mapstructure:"title_max_length"`
	// TitleAttempts bounds title regeneration on over-length output.
	TitleAttempts int `mapstructure:"title_attempts"`
	// IdeaAttempts bounds per-idea regeneration on parse/validation failure.
	IdeaAttempts int `mapstructure:"idea_attempts"`
	// IdeaMinWords is the minimum accepted description word count.
	IdeaMinWords int `mapstructure:"idea_min_words"`
	// DescriptionLimit is the display budget for the main description.
	DescriptionLimit int `mapstructure:"description_limit"`
}

// ImagingConfig holds image-generation backend configuration.
type ImagingConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key" masq:"secret"`
	Width       int    `mapstructure:"width"`
	Height      int    `mapstructure:"height"`
	Steps       int    `mapstructure:"steps"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// StorageConfig holds local media storage configuration.
type StorageConfig struct {
	// MediaDir is the local root for generated images. Images land in
	// MediaDir/images and MediaDir/featured_images.
	MediaDir string `mapstructure:"media_dir"`
	// ScreenshotDir receives diagnostic screenshots from failed UI stages.
	ScreenshotDir string `mapstructure:"screenshot_dir"`
	// PublicBaseURL is the host prefix under which MediaDir is served, e.g.
	// "https://www.example.com". Image URLs embedded in posts are built from it.
	PublicBaseURL string `mapstructure:"public_base_url"`
	// FilenameMaxLength caps sanitized image file names.
	FilenameMaxLength int `mapstructure:"filename_max_length"`
}

// TransferConfig holds SFTP mirror upload configuration.
type TransferConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Host       string `mapstructure:"host"`
	Port       int    `mapstructure:"port"`
	User       string `mapstructure:"user"`
	Password   string `mapstructure:"password" masq:"secret"`
	RemoteRoot string `mapstructure:"remote_root"`
}

// CMSConfig holds content-management backend configuration.
type CMSConfig struct {
	// BaseURL is the API root, e.g. "https://www.example.com/api".
	BaseURL string `mapstructure:"base_url"`
	Token   string `mapstructure:"token" masq:"secret"`
	// SlugMaxLength caps generated post slugs.
	SlugMaxLength int `mapstructure:"slug_max_length"`
}

// PinterestConfig holds credentials and endpoints for pin publishing.
type PinterestConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password" masq:"secret"`
	LoginURL string `mapstructure:"login_url"`
}

// BrowserConfig holds browser session configuration.
type BrowserConfig struct {
	Headless bool `mapstructure:"headless"`
	// ElementWait is the bounded wait applied to every UI element lookup.
	ElementWait  time.Duration `mapstructure:"element_wait"`
	WindowWidth  int           `mapstructure:"window_width"`
	WindowHeight int           `mapstructure:"window_height"`
}

// DatabaseConfig holds run-ledger database configuration.
type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"` // sqlite, postgres, mysql
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	LogLevel        string        `mapstructure:"log_level"` // silent, error, warn, info
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`  // debug, info, warn, error
	Format     string `mapstructure:"format"` // json, text
	AddSource  bool   `mapstructure:"add_source"`
	TimeFormat string `mapstructure:"time_format"`
}

// SetDefaults registers default values on the given viper instance.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("campaign.iterations", defaultIterations)
	v.SetDefault("campaign.pacing_min", defaultPacingMin)
	v.SetDefault("campaign.pacing_max", defaultPacingMax)

	v.SetDefault("generation.base_url", defaultChatBaseURL)
	v.SetDefault("generation.model", defaultChatModel)
	v.SetDefault("generation.title_max_length", defaultTitleMaxLength)
	v.SetDefault("generation.title_attempts", defaultTitleAttempts)
	v.SetDefault("generation.idea_attempts", defaultIdeaAttempts)
	v.SetDefault("generation.idea_min_words", defaultIdeaMinWords)
	v.SetDefault("generation.description_limit", defaultDescriptionLimit)

	v.SetDefault("imaging.endpoint", defaultImageEndpoint)
	v.SetDefault("imaging.width", defaultImageWidth)
	v.SetDefault("imaging.height", defaultImageHeight)
	v.SetDefault("imaging.steps", defaultImageSteps)
	v.SetDefault("imaging.jpeg_quality", defaultJPEGQuality)

	v.SetDefault("storage.media_dir", "media")
	v.SetDefault("storage.screenshot_dir", "screenshots")
	v.SetDefault("storage.filename_max_length", defaultFilenameMaxLength)

	v.SetDefault("transfer.enabled", false)
	v.SetDefault("transfer.port", 22)
	v.SetDefault("transfer.remote_root", "/srv/media")

	v.SetDefault("cms.slug_max_length", defaultSlugMaxLength)

	v.SetDefault("pinterest.login_url", defaultLoginURL)

	v.SetDefault("browser.headless", true)
	v.SetDefault("browser.element_wait", defaultElementWait)
	v.SetDefault("browser.window_width", 1920)
	v.SetDefault("browser.window_height", 1080)

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "postbot.db")
	v.SetDefault("database.max_open_conns", defaultMaxOpenConns)
	v.SetDefault("database.max_idle_conns", defaultMaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", defaultConnMaxLifetime)
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Load reads configuration from the optional file path plus environment
// variables, applying defaults for everything unset.
func Load(path string) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/postbot")
		v.SetConfigType("yaml")
		v.SetConfigName("postbot")
	}

	v.SetEnvPrefix("POSTBOT")
	v.SetEnvKeyReplacer(newEnvReplacer())
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the configuration for missing credentials and nonsensical
// bounds. It is called once at startup before any component is constructed.
func (c *Config) Validate() error {
	if c.Campaign.Theme == "" {
		return errors.New("campaign.theme is required")
	}
	if c.Campaign.Iterations < 1 {
		return fmt.Errorf("campaign.iterations must be >= 1, got %d", c.Campaign.Iterations)
	}
	if c.Campaign.PacingMax < c.Campaign.PacingMin {
		return errors.New("campaign.pacing_max must be >= campaign.pacing_min")
	}
	if c.Generation.APIKey == "" {
		return errors.New("generation.api_key is required")
	}
	if c.Generation.TitleAttempts < 1 || c.Generation.IdeaAttempts < 1 {
		return errors.New("generation attempt counts must be >= 1")
	}
	if c.Imaging.APIKey == "" {
		return errors.New("imaging.api_key is required")
	}
	if c.Storage.PublicBaseURL == "" {
		return errors.New("storage.public_base_url is required")
	}
	if c.CMS.BaseURL == "" {
		return errors.New("cms.base_url is required")
	}
	if c.CMS.Token == "" {
		return errors.New("cms.token is required")
	}
	if c.Pinterest.Email == "" || c.Pinterest.Password == "" {
		return errors.New("pinterest.email and pinterest.password are required")
	}
	if c.Browser.ElementWait <= 0 {
		return errors.New("browser.element_wait must be positive")
	}
	if c.Transfer.Enabled {
		if c.Transfer.Host == "" || c.Transfer.User == "" {
			return errors.New("transfer.host and transfer.user are required when transfer is enabled")
		}
	}
	switch c.Database.Driver {
	case "sqlite", "postgres", "mysql":
	default:
		return fmt.Errorf("unsupported database driver: %s", c.Database.Driver)
	}
	return nil
}
