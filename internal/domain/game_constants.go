package domain

import "time"

const (
	// DefaultMatchDelay is how long two revealed cards stay face up before evaluation.
	DefaultMatchDelay = 1000 * time.Millisecond

	// TickInterval is the countdown resolution.
	TickInterval = time.Second

	// cardsPerIdentity is fixed: every identity is a pair.
	cardsPerIdentity = 2
)
