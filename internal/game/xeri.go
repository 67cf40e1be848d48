package game

import (
	rand "math/rand/v2"

	"github.com/jim-kask/project-xeri/internal/card"
)

const (
	xeriHandSize = 6
	xeriPileSeed = 4
)

// XeriRules implements the Ξερή variant: up to four seats, strict turn
// order, rank-match capture against the top of a shared pile.
type XeriRules struct{}

func (XeriRules) Kind() Kind      { return KindXeri }
func (XeriRules) MinPlayers() int { return 2 }
func (XeriRules) MaxPlayers() int { return 4 }

// Deal shuffles a fresh Ace-high deck, seeds the shared pile with four
// face-up cards and gives every seated player six.
func (XeriRules) Deal(t *Table, rng *rand.Rand) {
	deck := card.NewXeriDeck(rng)
	deck.Shuffle()
	t.Deck = deck
	t.Pile = deck.PopN(xeriPileSeed)
	for _, p := range t.Players {
		p.Hand = deck.PopN(xeriHandSize)
	}
	t.TurnIdx = 0
	t.Started = true
}

// Apply plays the card at mv.HandIndex for p. A matching rank against the
// pile top captures: score grows by the pile size plus the played card and
// the pile clears. Out-of-turn, out-of-range and pre-start moves are
// silently dropped so a rejected action can never leak into pushed state.
func (XeriRules) Apply(t *Table, p *Player, mv Move) Outcome {
	if !t.Started || mv.Draw {
		return Outcome{}
	}
	if t.Players[t.TurnIdx] != p {
		return Outcome{}
	}
	if mv.HandIndex < 0 || mv.HandIndex >= len(p.Hand) {
		return Outcome{}
	}

	played := p.Hand[mv.HandIndex]
	p.Hand = append(p.Hand[:mv.HandIndex], p.Hand[mv.HandIndex+1:]...)

	out := Outcome{Applied: true}
	if n := len(t.Pile); n > 0 && played.Rank == t.Pile[n-1].Rank {
		p.Score += n + 1
		t.Pile = nil
		out.Captured = true
	} else {
		t.Pile = append(t.Pile, played)
	}

	if t.allHandsEmpty() {
		if t.Deck.Len() >= xeriHandSize*len(t.Players) {
			for _, pl := range t.Players {
				pl.Hand = t.Deck.PopN(xeriHandSize)
			}
		} else {
			// Deck exhausted: back to the lobby for a fresh ready cycle.
			t.Started = false
			for _, pl := range t.Players {
				pl.Ready = false
			}
			out.RoundEnded = true
		}
	}

	if t.Started {
		t.TurnIdx = (t.TurnIdx + 1) % len(t.Players)
	}
	return out
}
