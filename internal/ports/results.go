package ports

import (
	"context"
	"time"
)

// GameResult is the outcome of one finished memory game.
type GameResult struct {
	UserID           string    `json:"user_id"`
	GameID           string    `json:"game_id"`
	MatchID          string    `json:"match_id,omitempty"`
	Won              bool      `json:"won"`
	RemainingSeconds int       `json:"remaining_seconds"`
	SecondsUsed      int       `json:"elapsed"`
	Rows             int       `json:"rows"`
	Columns          int       `json:"columns"`
	Receipt          string    `json:"receipt,omitempty"`
	EndedAt          time.Time `json:"ended_at"`
}

// ResultStore persists finished game results.
type ResultStore interface {
	// SaveResult records a result for result.UserID. Saving the same game
	// twice overwrites the earlier record.
	SaveResult(ctx context.Context, result GameResult) error
}
