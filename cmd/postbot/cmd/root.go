// Package cmd implements the CLI commands for postbot.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/Levilaell/script-post-ai/internal/config"
	"github.com/Levilaell/script-post-ai/internal/observability"
	"github.com/Levilaell/script-post-ai/internal/version"
)

// cfgFile holds the config file path from the CLI flag.
var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "postbot",
	Short:   "Automated themed-content publishing pipeline",
	Version: version.Short(),
	Long: `postbot generates themed blog content with a text-generation backend,
renders one image per idea, publishes the assembled post to the CMS, and
promotes it with a pin on the social platform.

A campaign runs a fixed number of iterations against one theme; each
iteration produces one post and one pin.`,
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("executing root command: %w", err)
	}
	return nil
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return initLogging()
	}

	// These flags are not bound to viper: Changed() gates the override so
	// the priority stays CLI flag > env var > config > default.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./postbot.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "json", "log format (text, json)")
}

// initConfig wires defaults, the optional config file, and environment
// variables into the global viper instance.
func initConfig() {
	config.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/postbot")
		viper.SetConfigType("yaml")
		viper.SetConfigName("postbot")
	}

	viper.SetEnvPrefix("POSTBOT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig unmarshals the resolved configuration and validates it.
func loadConfig() (*config.Config, error) {
	var cfg config.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// explicitString returns the flag's value only when the user set it.
func explicitString(fs *pflag.FlagSet, name string) (string, bool) {
	if !fs.Changed(name) {
		return "", false
	}
	v, _ := fs.GetString(name)
	return v, true
}

// initLogging configures the default slog logger with redaction applied.
func initLogging() error {
	level := viper.GetString("logging.level")
	format := viper.GetString("logging.format")

	if v, ok := explicitString(rootCmd.PersistentFlags(), "log-level"); ok {
		level = v
	}
	if v, ok := explicitString(rootCmd.PersistentFlags(), "log-format"); ok {
		format = v
	}

	logger := observability.NewLogger(config.LoggingConfig{
		Level:      level,
		Format:     format,
		AddSource:  viper.GetBool("logging.add_source"),
		TimeFormat: viper.GetString("logging.time_format"),
	})
	observability.SetDefault(logger)
	return nil
}
