package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"matchgrid/internal/domain"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

// EnvPrefix namespaces every runtime environment key read by FromEnv.
const EnvPrefix = "MATCHGRID_"

// ErrInvalidConfig is returned for any configuration that fails validation.
var ErrInvalidConfig = errors.New("invalid game config")

// Theme carries presentation-only settings forwarded to render surfaces.
type Theme struct {
	BackgroundColor     string `json:"background_color" mapstructure:"background_color" env:"BACKGROUND_COLOR"`
	CardBackgroundColor string `json:"card_background_color" mapstructure:"card_background_color" env:"CARD_BACKGROUND_COLOR"`
	CardTextColor       string `json:"card_text_color" mapstructure:"card_text_color" env:"CARD_TEXT_COLOR"`
	Font                string `json:"font" mapstructure:"font" env:"FONT"`
}

// GameConfig holds the settings for one memory game.
type GameConfig struct {
	Columns          int `json:"columns" mapstructure:"columns" env:"COLUMNS" validate:"gt=0"`
	Rows             int `json:"rows" mapstructure:"rows" env:"ROWS" validate:"gt=0"`
	TimeLimitSeconds int `json:"time_limit_seconds" mapstructure:"time_limit_seconds" env:"TIME_LIMIT_SECONDS" validate:"gt=0"`
	MatchDelayMillis int `json:"match_delay_ms" mapstructure:"match_delay_ms" env:"MATCH_DELAY_MS" validate:"gt=0"`

	// TickRate is the Nakama match loop frequency; the runtime accepts 1..60.
	TickRate int `json:"tick_rate" mapstructure:"tick_rate" env:"TICK_RATE" validate:"gte=1,lte=60"`
	// MaxPresences bounds the owner plus spectators in one match.
	MaxPresences int `json:"max_presences" mapstructure:"max_presences" env:"MAX_PRESENCES" validate:"gte=1"`

	// Width and Height are layout hints in pixels; 0 lets the client decide.
	Width  int `json:"width" mapstructure:"width" env:"WIDTH" validate:"gte=0"`
	Height int `json:"height" mapstructure:"height" env:"HEIGHT" validate:"gte=0"`

	// ReceiptSecret signs game-result receipts. Empty disables receipts.
	ReceiptSecret string `json:"receipt_secret" mapstructure:"receipt_secret" env:"RECEIPT_SECRET" validate:"omitempty,min=16"`

	LogLevel string `json:"log_level" mapstructure:"log_level" env:"LOG_LEVEL" validate:"oneof=debug info warn error"`

	Theme Theme `json:"theme" mapstructure:"theme" envPrefix:"THEME_"`
}

// Default returns the stock 4x4, 60 second game.
func Default() *GameConfig {
	return &GameConfig{
		Columns:          4,
		Rows:             4,
		TimeLimitSeconds: 60,
		MatchDelayMillis: int(domain.DefaultMatchDelay / time.Millisecond),
		TickRate:         10,
		MaxPresences:     4,
		Width:            500,
		Height:           400,
		LogLevel:         "info",
		Theme: Theme{
			BackgroundColor:     "#f0f0f0",
			CardBackgroundColor: "#ccc",
			CardTextColor:       "black",
			Font:                "Arial, sans-serif",
		},
	}
}

// MatchDelay returns the evaluation delay as a duration.
func (c *GameConfig) MatchDelay() time.Duration {
	return time.Duration(c.MatchDelayMillis) * time.Millisecond
}

// CardCount is rows*columns.
func (c *GameConfig) CardCount() int {
	return c.Rows * c.Columns
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks field ranges and that the grid holds an even number of cards.
func (c *GameConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.CardCount()%2 != 0 {
		return fmt.Errorf("%w: %w (%dx%d)", ErrInvalidConfig, domain.ErrOddCardCount, c.Rows, c.Columns)
	}
	return nil
}

// Load reads a JSON config file on top of the defaults.
func Load(path string) (*GameConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read game config: %w", err)
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// FromEnv overlays MATCHGRID_* keys from a runtime environment map, such as
// the one Nakama exposes under runtime.RUNTIME_CTX_ENV.
func FromEnv(base *GameConfig, environment map[string]string) (*GameConfig, error) {
	c := *base
	if err := env.ParseWithOptions(&c, env.Options{
		Environment: environment,
		Prefix:      EnvPrefix,
	}); err != nil {
		return nil, fmt.Errorf("failed to parse game config from env: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// paramKeys are the only match-create parameters a client may set.
var paramKeys = map[string]bool{
	"rows":               true,
	"columns":            true,
	"time_limit_seconds": true,
	"match_delay_ms":     true,
}

// FromParams overlays match-create parameters. Unknown keys are dropped.
// Values arrive as decoded JSON (numbers are float64), so they are
// round-tripped through encoding/json.
func FromParams(base *GameConfig, params map[string]interface{}) (*GameConfig, error) {
	c := *base
	allowed := make(map[string]interface{}, len(params))
	for k, v := range params {
		if paramKeys[k] {
			allowed[k] = v
		}
	}
	if len(allowed) > 0 {
		data, err := json.Marshal(allowed)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal match params: %w", err)
		}
		if err := json.Unmarshal(data, &c); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Params renders the game-shaping fields as match-create parameters.
func (c *GameConfig) Params() map[string]interface{} {
	return map[string]interface{}{
		"rows":               c.Rows,
		"columns":            c.Columns,
		"time_limit_seconds": c.TimeLimitSeconds,
		"match_delay_ms":     c.MatchDelayMillis,
	}
}
