// Package terminal plays a memory game on a text terminal: one goroutine
// owns the controller and multiplexes input lines with a wall-clock ticker.
package terminal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"matchgrid/internal/app"
	"matchgrid/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// Driver runs one controller against a renderer.
type Driver struct {
	Controller *app.Controller
	Renderer   *Renderer
	Logger     runtime.Logger

	// Ticks wakes the loop so timers fire without input; nil disables it.
	Ticks <-chan time.Time
	// Elapsed reports the controller clock.
	Elapsed func() time.Duration
	// RedrawTicks redraws on every countdown tick.
	RedrawTicks bool

	// Bot, when set, picks cards on ticks at most once per BotDelay.
	Bot         *bot.Agent
	BotDelay    time.Duration
	lastBotMove time.Duration
}

// Run starts a game and processes input until quit, decline, EOF or ctx end.
func (d *Driver) Run(ctx context.Context, lines <-chan string) error {
	events, err := d.Controller.Start()
	if err != nil {
		return err
	}
	d.show(events)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-d.Ticks:
			now := d.Elapsed()
			d.advance(now)
			d.botTurn(now)
		case line, ok := <-lines:
			if !ok {
				d.Logger.Debug("Driver: input closed")
				return nil
			}
			quit, err := d.step(line, d.Elapsed())
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		}
	}
}

func (d *Driver) advance(now time.Duration) {
	d.show(d.Controller.Advance(now))
}

// step brings timers up to now then applies one line of input.
func (d *Driver) step(line string, now time.Duration) (quit bool, err error) {
	d.advance(now)

	cmd, err := ParseCommand(line)
	if err != nil {
		d.Logger.Debug("Driver: %v", err)
		d.frame(fmt.Sprintf("Unknown input %q.", line))
		return false, nil
	}

	c := d.Controller
	switch cmd.Kind {
	case CmdQuit:
		d.Logger.Info("Driver: quit in game %s (phase %s)", c.GameID(), c.Phase())
		return true, nil
	case CmdReveal:
		events := c.Reveal(cmd.Index)
		if len(events) == 0 {
			d.Logger.Debug("Driver: reveal %d ignored", cmd.Index)
		}
		d.show(events)
	case CmdPause:
		d.show(c.FocusLost())
	case CmdResume:
		d.show(c.FocusGained())
	case CmdAnswer:
		events, err := c.Restart(cmd.Confirmed)
		if errors.Is(err, app.ErrNotEnded) {
			d.frame("The game is still on.")
			return false, nil
		}
		if err != nil {
			return false, err
		}
		d.show(events)
		if !cmd.Confirmed {
			return true, nil
		}
	}
	return false, nil
}

func (d *Driver) botTurn(now time.Duration) {
	if d.Bot == nil || now-d.lastBotMove < d.BotDelay {
		return
	}
	idx, ok := d.Bot.Play(d.Controller.Snapshot())
	if !ok {
		return
	}
	d.lastBotMove = now
	d.Logger.Debug("Driver: %s reveals card %d", d.Bot.Name, idx+1)
	d.show(d.Controller.Reveal(idx))
}

func (d *Driver) show(events []app.Event) {
	if len(events) == 0 {
		return
	}
	if d.Bot != nil {
		d.Bot.OnGameEvents(events)
	}
	for _, ev := range events {
		if p, ok := ev.Payload.(app.GameEndedPayload); ok {
			d.Logger.WithField("game", p.GameID).Info("Driver: game ended won=%t remaining=%ds", p.Won, p.RemainingSeconds)
		}
	}
	message := Describe(events)
	if message == "" && !d.RedrawTicks {
		return
	}
	d.frame(message)
}

func (d *Driver) frame(message string) {
	d.Renderer.Frame(d.Controller.Snapshot(), message)
}
