package bot

import (
	"math/rand"

	"matchgrid/internal/app"
	"matchgrid/internal/domain"
)

// memoryBot plays from what it remembers of revealed cards and guesses
// among unseen cards otherwise.
type memoryBot struct {
	recall float64
	rng    *rand.Rand
	seen   map[int]domain.Identity
}

func newMemoryBot(recall float64, rng *rand.Rand) *memoryBot {
	return &memoryBot{recall: recall, rng: rng, seen: make(map[int]domain.Identity)}
}

func (b *memoryBot) OnEvent(ev app.Event) {
	switch p := ev.Payload.(type) {
	case app.GameStartedPayload, app.GameResetPayload:
		clear(b.seen)
	case app.CardRevealedPayload:
		if b.recall >= 1 || b.rng.Float64() < b.recall {
			b.seen[p.Index] = p.Identity
		}
	case app.PairMatchedPayload:
		delete(b.seen, p.First)
		delete(b.seen, p.Second)
	}
}

func (b *memoryBot) NextReveal(snap app.Snapshot) (int, bool) {
	var hidden, unseen []int
	faceUp := -1
	for _, c := range snap.Cards {
		switch c.State {
		case domain.CardStateHidden:
			hidden = append(hidden, c.Index)
			if _, ok := b.seen[c.Index]; !ok {
				unseen = append(unseen, c.Index)
			}
		case domain.CardStateRevealed:
			faceUp = c.Index
		}
	}
	if len(hidden) == 0 {
		return 0, false
	}

	if faceUp >= 0 {
		// Complete the pair if its partner is remembered.
		if id := snap.Cards[faceUp].Identity; id != nil {
			for _, i := range hidden {
				if known, ok := b.seen[i]; ok && known == *id {
					return i, true
				}
			}
		}
	} else if i, ok := b.knownPair(hidden); ok {
		return i, true
	}

	if len(unseen) > 0 {
		return unseen[b.rng.Intn(len(unseen))], true
	}
	return hidden[b.rng.Intn(len(hidden))], true
}

// knownPair returns the lowest hidden index whose partner is also remembered.
func (b *memoryBot) knownPair(hidden []int) (int, bool) {
	first := make(map[domain.Identity]int)
	for _, i := range hidden {
		id, ok := b.seen[i]
		if !ok {
			continue
		}
		if j, dup := first[id]; dup {
			return j, true
		}
		first[id] = i
	}
	return 0, false
}
