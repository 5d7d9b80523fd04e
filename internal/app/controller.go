package app

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"matchgrid/internal/config"
	"matchgrid/internal/domain"
	"matchgrid/internal/schedule"

	"github.com/rs/xid"
)

var (
	ErrAlreadyStarted = errors.New("game already started")
	ErrNotEnded       = errors.New("game not ended")
)

// Scheduler is the deferred-callback facility the controller runs on.
// *schedule.Scheduler satisfies it.
type Scheduler interface {
	Now() time.Duration
	After(delay time.Duration, fn func()) schedule.TaskID
	Cancel(id schedule.TaskID) bool
	AdvanceTo(now time.Duration) int
}

// Snapshot is a read-only view of the current game for render surfaces.
type Snapshot struct {
	GameID           string
	Phase            domain.Phase
	Reveal           domain.RevealState
	Rows             int
	Columns          int
	TimeLimitSeconds int
	RemainingSeconds int
	InputLocked      bool
	Won              bool
	MatchedPairs     int
	TotalPairs       int
	Cards            []domain.CardView
}

// Controller owns one memory game: deck, reveal/match state machine,
// countdown and lifecycle. All methods must be called from a single
// goroutine; timer work happens inside Advance.
type Controller struct {
	cfg   config.GameConfig
	sched Scheduler
	rng   *rand.Rand
	newID func() string

	game *domain.Game

	tickTask schedule.TaskID
	evalTask schedule.TaskID

	out []Event
}

// NewController validates cfg and prepares an idle game. rng may be nil to
// use a time-seeded default.
func NewController(cfg *config.GameConfig, sched Scheduler, rng *rand.Rand) (*Controller, error) {
	if cfg == nil || sched == nil {
		return nil, fmt.Errorf("controller requires config and scheduler")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	c := &Controller{
		cfg:   *cfg,
		sched: sched,
		rng:   rng,
		newID: func() string { return xid.New().String() },
	}
	if err := c.reset(); err != nil {
		return nil, err
	}
	return c, nil
}

// Config returns the settings the controller was built with.
func (c *Controller) Config() config.GameConfig {
	return c.cfg
}

// Phase returns the current lifecycle phase.
func (c *Controller) Phase() domain.Phase {
	return c.game.Phase
}

// GameID identifies the active game; it changes on every restart.
func (c *Controller) GameID() string {
	return c.game.ID
}

// Snapshot captures the current game state.
func (c *Controller) Snapshot() Snapshot {
	g := c.game
	return Snapshot{
		GameID:           g.ID,
		Phase:            g.Phase,
		Reveal:           g.RevealState(),
		Rows:             g.Rows,
		Columns:          g.Columns,
		TimeLimitSeconds: g.TimeLimitSeconds,
		RemainingSeconds: g.RemainingSeconds,
		InputLocked:      g.InputLocked,
		Won:              g.Won,
		MatchedPairs:     g.MatchedPairs(),
		TotalPairs:       g.PairCount(),
		Cards:            domain.BuildCardViews(g),
	}
}

// Start begins an idle game: cards face down, full time, timer ticking.
func (c *Controller) Start() ([]Event, error) {
	if !c.game.Start() {
		return nil, fmt.Errorf("%w: phase %s", ErrAlreadyStarted, c.game.Phase)
	}
	c.emit(EventGameStarted, GameStartedPayload{
		GameID:           c.game.ID,
		Rows:             c.game.Rows,
		Columns:          c.game.Columns,
		TimeLimitSeconds: c.game.TimeLimitSeconds,
		Cards:            domain.BuildCardViews(c.game),
	})
	c.scheduleTick()
	return c.flush(), nil
}

// Reveal handles a card selection. Ignored selections produce no events.
func (c *Controller) Reveal(index int) []Event {
	g := c.game
	if !g.Reveal(index) {
		return nil
	}
	c.emit(EventCardRevealed, CardRevealedPayload{Index: index, Identity: g.Cards[index].Identity})

	if g.RevealState() == domain.RevealEvaluating {
		c.emit(EventInputLocked, InputLockedPayload{First: g.Revealed[0], Second: g.Revealed[1]})
		gameID := g.ID
		c.evalTask = c.sched.After(c.cfg.MatchDelay(), func() { c.evaluate(gameID) })
	}
	return c.flush()
}

// FocusLost pauses a running game.
func (c *Controller) FocusLost() []Event {
	if !c.game.Pause() {
		return nil
	}
	c.cancelTick()
	c.emit(EventGamePaused, GamePausedPayload{RemainingSeconds: c.game.RemainingSeconds})
	return c.flush()
}

// FocusGained resumes a paused game with a fresh one-second tick.
func (c *Controller) FocusGained() []Event {
	if !c.game.Resume() {
		return nil
	}
	c.emit(EventGameResumed, GameResumedPayload{RemainingSeconds: c.game.RemainingSeconds})
	c.scheduleTick()
	return c.flush()
}

// Restart replaces an ended game with a fresh running one when confirmed.
// Declining leaves the ended game in place.
func (c *Controller) Restart(confirmed bool) ([]Event, error) {
	if c.game.Phase != domain.PhaseEnded {
		return nil, fmt.Errorf("%w: phase %s", ErrNotEnded, c.game.Phase)
	}
	if !confirmed {
		c.emit(EventRestartDeclined, RestartDeclinedPayload{GameID: c.game.ID})
		return c.flush(), nil
	}

	previous := c.game.ID
	if err := c.reset(); err != nil {
		return nil, err
	}
	c.emit(EventGameReset, GameResetPayload{PreviousGameID: previous, GameID: c.game.ID})
	return c.Start()
}

// Advance moves the controller's clock to now and returns the events
// produced by timers that fell due.
func (c *Controller) Advance(now time.Duration) []Event {
	c.sched.AdvanceTo(now)
	return c.flush()
}

func (c *Controller) reset() error {
	c.cancelTick()
	c.cancelEval()
	g, err := domain.NewGame(c.newID(), c.cfg.Rows, c.cfg.Columns, c.cfg.TimeLimitSeconds, c.rng)
	if err != nil {
		return fmt.Errorf("failed to build game: %w", err)
	}
	c.game = g
	return nil
}

func (c *Controller) evaluate(gameID string) {
	c.evalTask = 0
	g := c.game
	// A callback from a discarded or finished game must not touch the current one.
	if g.ID != gameID || g.Phase == domain.PhaseEnded {
		return
	}

	res, ok := g.EvaluatePair()
	if !ok {
		return
	}
	if res.Matched {
		c.emit(EventPairMatched, PairMatchedPayload{
			First:        res.First,
			Second:       res.Second,
			Identity:     g.Cards[res.First].Identity,
			MatchedPairs: g.MatchedPairs(),
			TotalPairs:   g.PairCount(),
		})
	} else {
		c.emit(EventPairMismatched, PairMismatchedPayload{First: res.First, Second: res.Second})
	}
	c.emit(EventInputUnlocked, InputUnlockedPayload{})

	if g.AllMatched() {
		c.end(true)
	}
}

func (c *Controller) scheduleTick() {
	gameID := c.game.ID
	c.tickTask = c.sched.After(domain.TickInterval, func() { c.tick(gameID) })
}

func (c *Controller) tick(gameID string) {
	c.tickTask = 0
	g := c.game
	if g.ID != gameID || g.Phase != domain.PhaseRunning {
		return
	}

	expired := g.Tick()
	c.emit(EventTimerTicked, TimerTickedPayload{RemainingSeconds: g.RemainingSeconds})
	if expired {
		c.end(false)
		return
	}
	c.scheduleTick()
}

func (c *Controller) end(won bool) {
	g := c.game
	if !g.End(won) {
		return
	}
	c.cancelTick()
	c.cancelEval()
	c.emit(EventGameEnded, GameEndedPayload{
		GameID:           g.ID,
		Won:              won,
		RemainingSeconds: g.RemainingSeconds,
		SecondsUsed:      g.SecondsUsed(),
		MatchedPairs:     g.MatchedPairs(),
		TotalPairs:       g.PairCount(),
		Rows:             g.Rows,
		Columns:          g.Columns,
	})
}

func (c *Controller) cancelTick() {
	if c.tickTask != 0 {
		c.sched.Cancel(c.tickTask)
		c.tickTask = 0
	}
}

func (c *Controller) cancelEval() {
	if c.evalTask != 0 {
		c.sched.Cancel(c.evalTask)
		c.evalTask = 0
	}
}

func (c *Controller) emit(kind EventKind, payload any) {
	c.out = append(c.out, Event{Kind: kind, Payload: payload})
}

func (c *Controller) flush() []Event {
	out := c.out
	c.out = nil
	return out
}
