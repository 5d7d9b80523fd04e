package domain

// Card view states as seen by a render surface.
const (
	CardStateHidden   = "hidden"
	CardStateRevealed = "revealed"
	CardStateMatched  = "matched"
)

// CardView is the render-facing projection of a card. Face-down cards never
// carry their identity.
type CardView struct {
	Index    int       `json:"index"`
	State    string    `json:"state"`
	Identity *Identity `json:"identity,omitempty"`
}

// ViewOf projects a single card.
func ViewOf(c Card) CardView {
	v := CardView{Index: c.Index, State: CardStateHidden}
	switch {
	case c.Matched:
		v.State = CardStateMatched
	case c.Revealed:
		v.State = CardStateRevealed
	default:
		return v
	}
	id := c.Identity
	v.Identity = &id
	return v
}

// BuildCardViews projects every card in grid order.
func BuildCardViews(g *Game) []CardView {
	views := make([]CardView, len(g.Cards))
	for i, c := range g.Cards {
		views[i] = ViewOf(c)
	}
	return views
}

// PairCount returns the number of identities in play.
func (g *Game) PairCount() int {
	return len(g.Cards) / cardsPerIdentity
}

// MatchedPairs counts pairs already removed from play.
func (g *Game) MatchedPairs() int {
	n := 0
	for _, c := range g.Cards {
		if c.Matched {
			n++
		}
	}
	return n / cardsPerIdentity
}

// AllMatched reports the win condition.
func (g *Game) AllMatched() bool {
	for _, c := range g.Cards {
		if !c.Matched {
			return false
		}
	}
	return len(g.Cards) > 0
}

// SecondsUsed is the portion of the time limit consumed so far.
func (g *Game) SecondsUsed() int {
	return g.TimeLimitSeconds - g.RemainingSeconds
}

// IdentityCounts tallies how many cards carry each identity.
func IdentityCounts(cards []Card) map[Identity]int {
	counts := make(map[Identity]int)
	for _, c := range cards {
		counts[c.Identity]++
	}
	return counts
}
