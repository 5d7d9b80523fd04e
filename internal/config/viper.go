package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// SetDefaults registers every field of Default() with v so that flags, env
// and config files only need to override what they change.
func SetDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("columns", d.Columns)
	v.SetDefault("rows", d.Rows)
	v.SetDefault("time_limit_seconds", d.TimeLimitSeconds)
	v.SetDefault("match_delay_ms", d.MatchDelayMillis)
	v.SetDefault("tick_rate", d.TickRate)
	v.SetDefault("max_presences", d.MaxPresences)
	v.SetDefault("width", d.Width)
	v.SetDefault("height", d.Height)
	v.SetDefault("receipt_secret", d.ReceiptSecret)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("theme.background_color", d.Theme.BackgroundColor)
	v.SetDefault("theme.card_background_color", d.Theme.CardBackgroundColor)
	v.SetDefault("theme.card_text_color", d.Theme.CardTextColor)
	v.SetDefault("theme.font", d.Theme.Font)

	v.SetEnvPrefix(strings.TrimSuffix(EnvPrefix, "_"))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// FromViper reads an optional config file and unmarshals the merged result.
func FromViper(v *viper.Viper, configFile string) (*GameConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configFile, err)
		}
	}

	c := Default()
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}
