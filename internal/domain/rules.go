package domain

import (
	"fmt"
	"math/rand"
)

// NewGame builds an idle game with a freshly shuffled deck.
func NewGame(id string, rows, columns, timeLimitSeconds int, rng *rand.Rand) (*Game, error) {
	deck, err := NewDeck(rows, columns, rng)
	if err != nil {
		return nil, err
	}
	if timeLimitSeconds <= 0 {
		return nil, fmt.Errorf("time limit must be positive, got %d", timeLimitSeconds)
	}
	return &Game{
		ID:               id,
		Rows:             rows,
		Columns:          columns,
		Cards:            deck,
		Revealed:         make([]int, 0, cardsPerIdentity),
		TimeLimitSeconds: timeLimitSeconds,
		RemainingSeconds: timeLimitSeconds,
		Phase:            PhaseIdle,
	}, nil
}

// Start moves an idle game into the running phase.
func (g *Game) Start() bool {
	if g.Phase != PhaseIdle {
		return false
	}
	g.Phase = PhaseRunning
	g.InputLocked = false
	return true
}

// Reveal turns the card at index face up. It returns false when the
// selection is ignored: not running, input locked, out of range, or the
// card is already face up or matched. Revealing the second card locks input
// until EvaluatePair runs.
func (g *Game) Reveal(index int) bool {
	if g.Phase != PhaseRunning || g.InputLocked {
		return false
	}
	if index < 0 || index >= len(g.Cards) {
		return false
	}
	if !g.Cards[index].Selectable() || len(g.Revealed) >= cardsPerIdentity {
		return false
	}

	g.Cards[index].Revealed = true
	g.Revealed = append(g.Revealed, index)
	if len(g.Revealed) == cardsPerIdentity {
		g.InputLocked = true
	}
	return true
}

// PairResult describes the outcome of a match evaluation.
type PairResult struct {
	First   int
	Second  int
	Matched bool
}

// EvaluatePair resolves the two face-up cards: equal identities become
// matched, others flip back. Input is unlocked unless the game has ended.
// ok is false when no pair is waiting.
func (g *Game) EvaluatePair() (res PairResult, ok bool) {
	if len(g.Revealed) != cardsPerIdentity {
		return PairResult{}, false
	}
	first, second := &g.Cards[g.Revealed[0]], &g.Cards[g.Revealed[1]]
	res = PairResult{First: first.Index, Second: second.Index, Matched: first.Identity == second.Identity}

	first.Revealed, second.Revealed = false, false
	if res.Matched {
		first.Matched, second.Matched = true, true
	}
	g.Revealed = g.Revealed[:0]
	if g.Phase != PhaseEnded {
		g.InputLocked = false
	}
	return res, true
}

// Tick decrements the countdown while running and reports whether time ran out.
func (g *Game) Tick() (expired bool) {
	if g.Phase != PhaseRunning || g.RemainingSeconds <= 0 {
		return false
	}
	g.RemainingSeconds--
	return g.RemainingSeconds == 0
}

// Pause freezes a running game.
func (g *Game) Pause() bool {
	if g.Phase != PhaseRunning {
		return false
	}
	g.Phase = PhasePaused
	return true
}

// Resume continues a paused game from the frozen countdown.
func (g *Game) Resume() bool {
	if g.Phase != PhasePaused {
		return false
	}
	g.Phase = PhaseRunning
	return true
}

// End finishes the game and locks every card.
func (g *Game) End(won bool) bool {
	if g.Phase == PhaseEnded || g.Phase == PhaseIdle {
		return false
	}
	g.Phase = PhaseEnded
	g.Won = won
	g.InputLocked = true
	return true
}
