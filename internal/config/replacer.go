package config

import "strings"

// newEnvReplacer maps nested config keys to environment variable form,
// e.g. "campaign.pacing_min" -> "CAMPAIGN_PACING_MIN".
func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}
