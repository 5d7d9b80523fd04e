package domain

// Phase represents the lifecycle stage of a memory game.
type Phase string

const (
	// PhaseIdle is the state before a game starts and after a confirmed restart.
	PhaseIdle Phase = "idle"
	// PhaseRunning is the active state where cards can be revealed and the timer ticks.
	PhaseRunning Phase = "running"
	// PhasePaused is the state while the player's focus is away from the play surface.
	PhasePaused Phase = "paused"
	// PhaseEnded is the state after a win or a timeout.
	PhaseEnded Phase = "ended"
)

// RevealState tracks how many cards are face up awaiting a match decision.
type RevealState string

const (
	// RevealIdle means no card is face up.
	RevealIdle RevealState = "idle"
	// RevealOne means one card is face up and a second may be picked.
	RevealOne RevealState = "one_revealed"
	// RevealEvaluating means two cards are face up and input is locked until the match delay passes.
	RevealEvaluating RevealState = "evaluating"
)

// Identity is the pairing key shared by exactly two cards.
type Identity int

// Card is a single cell of the grid.
type Card struct {
	Index    int
	Identity Identity
	Revealed bool
	Matched  bool
}

// Selectable reports whether the card may still be turned face up.
func (c Card) Selectable() bool {
	return !c.Revealed && !c.Matched
}

// Game holds authoritative state for one memory game instance.
type Game struct {
	ID      string
	Rows    int
	Columns int
	Cards   []Card

	// Revealed lists indices of face-up, unmatched cards (at most two).
	Revealed []int

	TimeLimitSeconds int
	RemainingSeconds int

	Phase       Phase
	InputLocked bool
	Won         bool
}

// RevealState derives the reveal sub-state from the face-up cards.
func (g *Game) RevealState() RevealState {
	switch len(g.Revealed) {
	case 0:
		return RevealIdle
	case 1:
		return RevealOne
	default:
		return RevealEvaluating
	}
}
