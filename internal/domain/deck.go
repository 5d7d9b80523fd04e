package domain

import (
	"errors"
	"fmt"
	"math/rand"
)

var (
	ErrInvalidDimensions = errors.New("rows and columns must be positive")
	ErrOddCardCount      = errors.New("card count must be even")
)

// NewDeck returns rows*columns cards whose identities are a uniform random
// permutation of {1,1,2,2,...,n,n}. Indices follow grid order.
func NewDeck(rows, columns int, rng *rand.Rand) ([]Card, error) {
	if rows <= 0 || columns <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, rows, columns)
	}
	total := rows * columns
	if total%cardsPerIdentity != 0 {
		return nil, fmt.Errorf("%w: %dx%d gives %d cards", ErrOddCardCount, rows, columns, total)
	}

	identities := make([]Identity, 0, total)
	for id := 1; id <= total/cardsPerIdentity; id++ {
		identities = append(identities, Identity(id), Identity(id))
	}
	ShuffleIdentities(identities, rng)

	deck := make([]Card, total)
	for i, id := range identities {
		deck[i] = Card{Index: i, Identity: id}
	}
	return deck, nil
}

// ShuffleIdentities permutes ids in place (Fisher-Yates).
func ShuffleIdentities(ids []Identity, rng *rand.Rand) {
	rng.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
}
