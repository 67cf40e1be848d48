package game

import (
	rand "math/rand/v2"

	"github.com/google/uuid"

	"github.com/jim-kask/project-xeri/internal/card"
)

// StressRules implements the two-player real-time variant: no turn order,
// play onto either center pile when the rank differs by exactly one.
type StressRules struct{}

func (StressRules) Kind() Kind      { return KindStress }
func (StressRules) MinPlayers() int { return 2 }
func (StressRules) MaxPlayers() int { return 2 }

// Deal shuffles a fresh Ace-low deck, draws the two center cards first and
// then splits the remaining fifty alternately between the two seats.
// Dealing centers first keeps the 52-card partition exact.
func (StressRules) Deal(t *Table, rng *rand.Rand) {
	deck := card.NewStressDeck(rng)
	deck.Shuffle()
	t.Deck = deck
	t.Center = deck.PopN(2)
	for deck.Len() > 0 {
		for _, p := range t.Players {
			c, ok := deck.Pop()
			if !ok {
				break
			}
			p.Hand = append(p.Hand, c)
		}
	}
	t.Winner = uuid.Nil
	t.Started = true
}

// Apply resolves a play or draw for p. A play is legal iff the named card is
// in p's hand and its rank differs from the target center card by exactly
// one; there is no wraparound, Ace and King are never adjacent. Rejections
// mutate nothing.
func (StressRules) Apply(t *Table, p *Player, mv Move) Outcome {
	if !t.Started {
		return Outcome{}
	}

	if mv.Draw {
		if t.Deck == nil || t.Deck.Len() < 2 {
			return Outcome{NoDraw: true}
		}
		t.Center = t.Deck.PopN(2)
		return Outcome{Applied: true}
	}

	if mv.Card == nil || mv.Pile < 0 || mv.Pile >= len(t.Center) {
		return Outcome{}
	}
	idx := -1
	for i, c := range p.Hand {
		if c == *mv.Card {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Outcome{}
	}
	diff := int(p.Hand[idx].Rank) - int(t.Center[mv.Pile].Rank)
	if diff != 1 && diff != -1 {
		return Outcome{}
	}

	t.Center[mv.Pile] = p.Hand[idx]
	p.Hand = append(p.Hand[:idx], p.Hand[idx+1:]...)

	out := Outcome{Applied: true}
	if len(p.Hand) == 0 {
		t.Winner = p.ID
		t.Started = false
		out.HasWinner = true
		out.Winner = p.ID
	}
	return out
}
