package app

import (
	"math/rand"
	"testing"
	"time"

	"matchgrid/internal/config"
	"matchgrid/internal/domain"
	"matchgrid/internal/schedule"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestController(t *testing.T, rows, columns, limit int, ids ...domain.Identity) *Controller {
	t.Helper()
	cfg := config.Default()
	cfg.Rows = rows
	cfg.Columns = columns
	cfg.TimeLimitSeconds = limit

	c, err := NewController(cfg, schedule.New(), rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	for i, id := range ids {
		c.game.Cards[i].Identity = id
	}
	return c
}

func kinds(events []Event) []EventKind {
	out := make([]EventKind, len(events))
	for i, e := range events {
		out[i] = e.Kind
	}
	return out
}

func ms(n int) time.Duration { return time.Duration(n) * time.Millisecond }

func TestNewControllerRejectsOddGrid(t *testing.T) {
	cfg := config.Default()
	cfg.Rows, cfg.Columns = 3, 3
	_, err := NewController(cfg, schedule.New(), nil)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
	require.ErrorIs(t, err, domain.ErrOddCardCount)

	_, err = NewController(nil, schedule.New(), nil)
	require.Error(t, err)
}

func TestStartEmitsHiddenBoard(t *testing.T) {
	c := newTestController(t, 2, 2, 60)
	assert.Equal(t, domain.PhaseIdle, c.Phase())

	events, err := c.Start()
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventGameStarted}, kinds(events))

	p := events[0].Payload.(GameStartedPayload)
	assert.Equal(t, c.GameID(), p.GameID)
	assert.Equal(t, 60, p.TimeLimitSeconds)
	require.Len(t, p.Cards, 4)
	for _, v := range p.Cards {
		assert.Equal(t, domain.CardStateHidden, v.State)
		assert.Nil(t, v.Identity)
	}

	_, err = c.Start()
	require.ErrorIs(t, err, ErrAlreadyStarted)
}

func TestRevealBeforeStartIgnored(t *testing.T) {
	c := newTestController(t, 2, 2, 60)
	assert.Empty(t, c.Reveal(0))
	assert.Empty(t, c.Snapshot().Cards[0].Identity)
}

func TestMatchAndWin(t *testing.T) {
	c := newTestController(t, 2, 2, 60, 1, 2, 1, 2)
	_, err := c.Start()
	require.NoError(t, err)
	assert.Empty(t, c.Advance(ms(500)))

	events := c.Reveal(0)
	require.Equal(t, []EventKind{EventCardRevealed}, kinds(events))
	assert.Equal(t, domain.Identity(1), events[0].Payload.(CardRevealedPayload).Identity)

	events = c.Reveal(2)
	require.Equal(t, []EventKind{EventCardRevealed, EventInputLocked}, kinds(events))
	assert.Equal(t, InputLockedPayload{First: 0, Second: 2}, events[1].Payload)
	assert.True(t, c.Snapshot().InputLocked)

	// Locked: the third selection is dropped.
	assert.Empty(t, c.Reveal(1))

	events = c.Advance(ms(1500))
	require.Equal(t, []EventKind{EventTimerTicked, EventPairMatched, EventInputUnlocked}, kinds(events))
	matched := events[1].Payload.(PairMatchedPayload)
	assert.Equal(t, 1, matched.MatchedPairs)
	assert.Equal(t, 2, matched.TotalPairs)

	snap := c.Snapshot()
	assert.False(t, snap.InputLocked)
	assert.Equal(t, domain.CardStateMatched, snap.Cards[0].State)
	assert.Equal(t, domain.CardStateMatched, snap.Cards[2].State)

	// Matched cards cannot be selected again.
	assert.Empty(t, c.Reveal(0))

	c.Reveal(1)
	c.Reveal(3)
	events = c.Advance(ms(2500))
	require.Equal(t, []EventKind{
		EventTimerTicked, EventPairMatched, EventInputUnlocked, EventGameEnded,
	}, kinds(events))

	ended := events[3].Payload.(GameEndedPayload)
	assert.True(t, ended.Won)
	assert.Equal(t, 58, ended.RemainingSeconds)
	assert.Equal(t, 2, ended.SecondsUsed)
	assert.Equal(t, domain.PhaseEnded, c.Phase())

	// No more ticks once ended.
	assert.Empty(t, c.Advance(10*time.Second))
}

func TestMismatchFlipsBack(t *testing.T) {
	c := newTestController(t, 2, 2, 60, 1, 2, 1, 2)
	_, err := c.Start()
	require.NoError(t, err)
	c.Advance(ms(100))

	c.Reveal(0)
	c.Reveal(1)
	events := c.Advance(ms(1000))
	require.Equal(t, []EventKind{EventTimerTicked}, kinds(events))

	events = c.Advance(ms(1100))
	require.Equal(t, []EventKind{EventPairMismatched, EventInputUnlocked}, kinds(events))
	assert.Equal(t, PairMismatchedPayload{First: 0, Second: 1}, events[0].Payload)

	snap := c.Snapshot()
	assert.Equal(t, domain.RevealIdle, snap.Reveal)
	for _, v := range snap.Cards {
		assert.Equal(t, domain.CardStateHidden, v.State)
	}
	assert.Equal(t, domain.PhaseRunning, c.Phase())
}

func TestTimeoutLoses(t *testing.T) {
	c := newTestController(t, 2, 2, 3, 1, 2, 1, 2)
	_, err := c.Start()
	require.NoError(t, err)

	events := c.Advance(3 * time.Second)
	require.Equal(t, []EventKind{
		EventTimerTicked, EventTimerTicked, EventTimerTicked, EventGameEnded,
	}, kinds(events))
	assert.Equal(t, TimerTickedPayload{RemainingSeconds: 2}, events[0].Payload)
	assert.Equal(t, TimerTickedPayload{RemainingSeconds: 0}, events[2].Payload)

	ended := events[3].Payload.(GameEndedPayload)
	assert.False(t, ended.Won)
	assert.Equal(t, 0, ended.RemainingSeconds)
	assert.Equal(t, 3, ended.SecondsUsed)

	assert.Empty(t, c.Reveal(0))
	assert.Empty(t, c.Advance(10*time.Second))
}

func TestPendingEvaluationDroppedWhenTimeRunsOut(t *testing.T) {
	c := newTestController(t, 2, 2, 1, 1, 2, 1, 2)
	_, err := c.Start()
	require.NoError(t, err)

	c.Reveal(0)
	c.Reveal(2)
	events := c.Advance(5 * time.Second)
	require.Equal(t, []EventKind{EventTimerTicked, EventGameEnded}, kinds(events))
	assert.False(t, events[1].Payload.(GameEndedPayload).Won)
	assert.Equal(t, 0, c.Snapshot().MatchedPairs)
}

func TestPauseFreezesCountdown(t *testing.T) {
	c := newTestController(t, 2, 2, 60)
	_, err := c.Start()
	require.NoError(t, err)
	c.Advance(time.Second)

	events := c.FocusLost()
	require.Equal(t, []EventKind{EventGamePaused}, kinds(events))
	assert.Equal(t, GamePausedPayload{RemainingSeconds: 59}, events[0].Payload)
	assert.Empty(t, c.FocusLost(), "second pause is a no-op")

	assert.Empty(t, c.Advance(11*time.Second))
	assert.Empty(t, c.Reveal(0), "no reveals while paused")
	assert.Equal(t, 59, c.Snapshot().RemainingSeconds)

	events = c.FocusGained()
	require.Equal(t, []EventKind{EventGameResumed}, kinds(events))
	assert.Empty(t, c.FocusGained(), "second resume is a no-op")

	assert.Empty(t, c.Advance(ms(11999)))
	events = c.Advance(12 * time.Second)
	require.Equal(t, []EventKind{EventTimerTicked}, kinds(events))
	assert.Equal(t, TimerTickedPayload{RemainingSeconds: 58}, events[0].Payload)
}

func TestFocusIgnoredOutsideRunningGame(t *testing.T) {
	c := newTestController(t, 2, 2, 1)
	assert.Empty(t, c.FocusLost())
	assert.Empty(t, c.FocusGained())

	_, err := c.Start()
	require.NoError(t, err)
	c.Advance(time.Second)
	require.Equal(t, domain.PhaseEnded, c.Phase())
	assert.Empty(t, c.FocusLost())
}

func TestEvaluationCompletesWhilePaused(t *testing.T) {
	c := newTestController(t, 1, 2, 60, 4, 4)
	_, err := c.Start()
	require.NoError(t, err)

	c.Reveal(0)
	c.Reveal(1)
	c.FocusLost()

	events := c.Advance(time.Second)
	require.Equal(t, []EventKind{EventPairMatched, EventInputUnlocked, EventGameEnded}, kinds(events))
	assert.True(t, events[2].Payload.(GameEndedPayload).Won)
	assert.Empty(t, c.FocusGained())
}

func TestRestart(t *testing.T) {
	c := newTestController(t, 2, 2, 1)

	_, err := c.Restart(true)
	require.ErrorIs(t, err, ErrNotEnded)

	_, err = c.Start()
	require.NoError(t, err)
	_, err = c.Restart(true)
	require.ErrorIs(t, err, ErrNotEnded)

	c.Advance(time.Second)
	require.Equal(t, domain.PhaseEnded, c.Phase())
	first := c.GameID()

	events, err := c.Restart(false)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventRestartDeclined}, kinds(events))
	assert.Equal(t, first, c.GameID())
	assert.Equal(t, domain.PhaseEnded, c.Phase())

	events, err = c.Restart(true)
	require.NoError(t, err)
	require.Equal(t, []EventKind{EventGameReset, EventGameStarted}, kinds(events))
	reset := events[0].Payload.(GameResetPayload)
	assert.Equal(t, first, reset.PreviousGameID)
	assert.NotEqual(t, first, c.GameID())
	assert.Equal(t, reset.GameID, c.GameID())

	snap := c.Snapshot()
	assert.Equal(t, domain.PhaseRunning, snap.Phase)
	assert.Equal(t, 1, snap.RemainingSeconds)
	assert.Equal(t, 0, snap.MatchedPairs)

	// The new game ticks from a full second after restart.
	events = c.Advance(2 * time.Second)
	require.Equal(t, []EventKind{EventTimerTicked, EventGameEnded}, kinds(events))
}

func TestRestartReshufflesPairs(t *testing.T) {
	c := newTestController(t, 4, 4, 1)
	_, err := c.Start()
	require.NoError(t, err)
	c.Advance(time.Second)

	_, err = c.Restart(true)
	require.NoError(t, err)
	for id, n := range domain.IdentityCounts(c.game.Cards) {
		assert.Equal(t, 2, n, "identity %d", id)
	}
	assert.Len(t, domain.IdentityCounts(c.game.Cards), 8)
}
