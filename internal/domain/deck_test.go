package domain

import (
	"errors"
	"math/rand"
	"testing"
)

func TestNewDeck(t *testing.T) {
	tests := []struct {
		name    string
		rows    int
		columns int
		wantErr error
	}{
		{name: "2x2", rows: 2, columns: 2},
		{name: "4x4", rows: 4, columns: 4},
		{name: "3x4", rows: 3, columns: 4},
		{name: "1x2", rows: 1, columns: 2},
		{name: "odd card count", rows: 3, columns: 3, wantErr: ErrOddCardCount},
		{name: "zero rows", rows: 0, columns: 4, wantErr: ErrInvalidDimensions},
		{name: "negative columns", rows: 2, columns: -2, wantErr: ErrInvalidDimensions},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deck, err := NewDeck(tt.rows, tt.columns, rand.New(rand.NewSource(1)))
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewDeck() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDeck() unexpected error: %v", err)
			}

			total := tt.rows * tt.columns
			if len(deck) != total {
				t.Fatalf("deck size = %d, want %d", len(deck), total)
			}
			for i, c := range deck {
				if c.Index != i {
					t.Fatalf("card[%d].Index = %d", i, c.Index)
				}
				if c.Revealed || c.Matched {
					t.Fatalf("card[%d] should start face down", i)
				}
			}

			counts := IdentityCounts(deck)
			if len(counts) != total/2 {
				t.Fatalf("distinct identities = %d, want %d", len(counts), total/2)
			}
			for id, n := range counts {
				if id < 1 || int(id) > total/2 {
					t.Fatalf("identity %d out of range [1,%d]", id, total/2)
				}
				if n != 2 {
					t.Fatalf("identity %d appears %d times, want 2", id, n)
				}
			}
		})
	}
}

func TestNewDeckAlwaysPairsAcrossSeeds(t *testing.T) {
	for seed := int64(0); seed < 200; seed++ {
		deck, err := NewDeck(4, 6, rand.New(rand.NewSource(seed)))
		if err != nil {
			t.Fatalf("seed %d: %v", seed, err)
		}
		for id, n := range IdentityCounts(deck) {
			if n != 2 {
				t.Fatalf("seed %d: identity %d appears %d times", seed, id, n)
			}
		}
	}
}

func TestShuffleIdentitiesIsUniformEnough(t *testing.T) {
	// Position 0 of a 4-card deck {1,1,2,2} should hold identity 1 about half the time.
	rng := rand.New(rand.NewSource(7))
	const rounds = 4000
	ones := 0
	for i := 0; i < rounds; i++ {
		ids := []Identity{1, 1, 2, 2}
		ShuffleIdentities(ids, rng)
		if ids[0] == 1 {
			ones++
		}
	}
	if ones < rounds*45/100 || ones > rounds*55/100 {
		t.Fatalf("identity 1 landed first %d/%d times, expected roughly half", ones, rounds)
	}
}
