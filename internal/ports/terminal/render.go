package terminal

import (
	"fmt"
	"io"
	"strings"

	"matchgrid/internal/app"
	"matchgrid/internal/domain"
)

const (
	ansiClear = "\033[2J\033[H"
	ansiBold  = "\033[1m"
	ansiReset = "\033[0m"

	faceDown = "##"
)

// Renderer draws the board as text. With ansi set each frame clears the
// screen; otherwise frames are appended, which suits pipes and tests.
type Renderer struct {
	w    io.Writer
	ansi bool
}

func NewRenderer(w io.Writer, ansi bool) *Renderer {
	return &Renderer{w: w, ansi: ansi}
}

// Frame writes the board for snap followed by message and a prompt.
func (r *Renderer) Frame(snap app.Snapshot, message string) {
	var b strings.Builder
	if r.ansi {
		b.WriteString(ansiClear)
		b.WriteString(ansiBold)
	}
	fmt.Fprintf(&b, "matchgrid %dx%d  time %ds  pairs %d/%d  %s\n",
		snap.Rows, snap.Columns, snap.RemainingSeconds, snap.MatchedPairs, snap.TotalPairs, snap.Phase)
	if r.ansi {
		b.WriteString(ansiReset)
	}

	for row := 0; row < snap.Rows; row++ {
		for col := 0; col < snap.Columns; col++ {
			i := row*snap.Columns + col
			if i >= len(snap.Cards) {
				break
			}
			if col > 0 {
				b.WriteString("  ")
			}
			fmt.Fprintf(&b, "%3d[%2s]", i+1, Face(snap.Cards[i]))
		}
		b.WriteByte('\n')
	}

	if message != "" {
		b.WriteString(message)
		b.WriteByte('\n')
	}
	b.WriteString(prompt(snap.Phase))
	io.WriteString(r.w, b.String())
}

// Face is the two-character text for a card.
func Face(v domain.CardView) string {
	switch v.State {
	case domain.CardStateMatched:
		return ""
	case domain.CardStateRevealed:
		if v.Identity != nil {
			return fmt.Sprintf("%d", *v.Identity)
		}
	}
	return faceDown
}

func prompt(phase domain.Phase) string {
	switch phase {
	case domain.PhaseEnded:
		return "Do you want to play again? [y/n] "
	case domain.PhasePaused:
		return "paused, c to continue > "
	default:
		return "card number, p pause, q quit > "
	}
}

// Describe summarizes a batch of events as one status line. Timer ticks
// alone produce an empty string.
func Describe(events []app.Event) string {
	var parts []string
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.GameStartedPayload:
			parts = append(parts, fmt.Sprintf("New game: find %d pairs in %ds.", len(p.Cards)/2, p.TimeLimitSeconds))
		case app.CardRevealedPayload:
			parts = append(parts, fmt.Sprintf("Card %d shows %d.", p.Index+1, p.Identity))
		case app.PairMatchedPayload:
			parts = append(parts, fmt.Sprintf("Match! %d/%d pairs.", p.MatchedPairs, p.TotalPairs))
		case app.PairMismatchedPayload:
			parts = append(parts, "No match.")
		case app.GamePausedPayload:
			parts = append(parts, "Paused.")
		case app.GameResumedPayload:
			parts = append(parts, "Resumed.")
		case app.GameEndedPayload:
			if p.Won {
				parts = append(parts, fmt.Sprintf("You won with %ds left!", p.RemainingSeconds))
			} else {
				parts = append(parts, "Time's up! You lost.")
			}
		case app.RestartDeclinedPayload:
			parts = append(parts, "Thanks for playing.")
		}
	}
	return strings.Join(parts, " ")
}
