package bot

import (
	"matchgrid/internal/app"
	"matchgrid/internal/domain"
)

// Agent represents an autonomous player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent for its next card. It declines while the game is not
// accepting selections.
func (a *Agent) Play(snap app.Snapshot) (int, bool) {
	if snap.Phase != domain.PhaseRunning || snap.InputLocked {
		return 0, false
	}
	return a.Strategy.NextReveal(snap)
}

// OnGameEvents notifies the agent of game events in order.
func (a *Agent) OnGameEvents(events []app.Event) {
	for _, ev := range events {
		a.Strategy.OnEvent(ev)
	}
}
