package bot

import (
	"fmt"
	"math/rand"
	"strings"
)

// BotLevel selects a strategy.
type BotLevel int

const (
	BotLevelGood BotLevel = iota + 1
	BotLevelSmart
	BotLevelGod
)

// ParseLevel maps a level name to a BotLevel.
func ParseLevel(name string) (BotLevel, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "good":
		return BotLevelGood, nil
	case "smart":
		return BotLevelSmart, nil
	case "god":
		return BotLevelGod, nil
	default:
		return 0, fmt.Errorf("unknown bot level: %q", name)
	}
}

// NewBrain creates a new AI brain based on the specified level.
func NewBrain(level BotLevel, rng *rand.Rand) (Brain, error) {
	t, ok := DefaultTuning[level]
	if !ok {
		return nil, fmt.Errorf("unknown bot level: %d", level)
	}
	return newMemoryBot(t.Recall, rng), nil
}
