package bot

import (
	"matchgrid/internal/app"
)

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	// NextReveal picks the card to turn over next. ok is false when nothing
	// is selectable.
	NextReveal(snap app.Snapshot) (index int, ok bool)
	// OnEvent lets the brain learn from cards turned over.
	OnEvent(ev app.Event)
}
