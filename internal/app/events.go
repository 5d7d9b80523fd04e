package app

import "matchgrid/internal/domain"

// EventKind identifies emitted game events for render surfaces.
type EventKind string

const (
	EventGameStarted     EventKind = "game_started"
	EventCardRevealed    EventKind = "card_revealed"
	EventInputLocked     EventKind = "input_locked"
	EventPairMatched     EventKind = "pair_matched"
	EventPairMismatched  EventKind = "pair_mismatched"
	EventInputUnlocked   EventKind = "input_unlocked"
	EventTimerTicked     EventKind = "timer_ticked"
	EventGamePaused      EventKind = "game_paused"
	EventGameResumed     EventKind = "game_resumed"
	EventGameEnded       EventKind = "game_ended"
	EventGameReset       EventKind = "game_reset"
	EventRestartDeclined EventKind = "restart_declined"
)

// Event is a state change the render surface should reflect.
type Event struct {
	Kind    EventKind
	Payload any
}

type GameStartedPayload struct {
	GameID           string
	Rows             int
	Columns          int
	TimeLimitSeconds int
	Cards            []domain.CardView
}

type CardRevealedPayload struct {
	Index    int
	Identity domain.Identity
}

type InputLockedPayload struct {
	First  int
	Second int
}

type PairMatchedPayload struct {
	First        int
	Second       int
	Identity     domain.Identity
	MatchedPairs int
	TotalPairs   int
}

type PairMismatchedPayload struct {
	First  int
	Second int
}

type InputUnlockedPayload struct{}

type TimerTickedPayload struct {
	RemainingSeconds int
}

type GamePausedPayload struct {
	RemainingSeconds int
}

type GameResumedPayload struct {
	RemainingSeconds int
}

type GameEndedPayload struct {
	GameID           string
	Won              bool
	RemainingSeconds int
	SecondsUsed      int
	MatchedPairs     int
	TotalPairs       int
	Rows             int
	Columns          int
	// Receipt is filled in by adapters that sign results.
	Receipt string
}

type GameResetPayload struct {
	PreviousGameID string
	GameID         string
}

type RestartDeclinedPayload struct {
	GameID string
}
