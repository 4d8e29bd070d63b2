package cmd

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Levilaell/script-post-ai/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration management commands",
}

var configDumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Dump the default configuration",
	Long: `Dump the default configuration values in YAML format.

Redirect the output to a file to create a configuration template:

  postbot config dump > postbot.yaml

Environment variables use the POSTBOT_ prefix with underscores for
nesting. Example: campaign.theme -> POSTBOT_CAMPAIGN_THEME`,
	RunE: runConfigDump,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configDumpCmd)
}

func runConfigDump(_ *cobra.Command, _ []string) error {
	v := viper.New()
	config.SetDefaults(v)

	var cfg config.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("unmarshaling defaults: %w", err)
	}

	out, err := yaml.Marshal(toMap(cfg))
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

// toMap converts a config struct to a map keyed by mapstructure tags, with
// durations rendered in their human-readable form.
func toMap(v any) map[string]any {
	result := make(map[string]any)
	val := reflect.ValueOf(v)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		key := typ.Field(i).Tag.Get("mapstructure")
		if key == "" {
			key = typ.Field(i).Name
		}

		switch value := field.Interface().(type) {
		case time.Duration:
			result[key] = value.String()
		default:
			if field.Kind() == reflect.Struct {
				result[key] = toMap(field.Interface())
			} else {
				result[key] = field.Interface()
			}
		}
	}
	return result
}
