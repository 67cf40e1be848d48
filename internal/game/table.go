package game

import (
	"sync"

	"github.com/google/uuid"

	"github.com/jim-kask/project-xeri/internal/card"
)

// Kind identifies which rule set a table plays.
type Kind string

const (
	KindXeri   Kind = "xeri"
	KindStress Kind = "stress"
)

// Valid reports whether k names a known rule set.
func (k Kind) Valid() bool {
	return k == KindXeri || k == KindStress
}

// Player is one seat at a table. A player is identified by a stable ID for
// the lifetime of the seat; the display name is what rejoin matches on.
type Player struct {
	ID    uuid.UUID
	Name  string
	Hand  []card.Card
	Ready bool
	Score int
}

// Table is one game instance plus its seats. All mutation happens under mu,
// one lock per room, so unrelated rooms progress concurrently while actions
// within a room serialize.
type Table struct {
	ID       string
	Name     string
	Game     Kind
	Password string

	Players []*Player
	Started bool
	TurnIdx int         // Xeri only: index into Players
	Pile    []card.Card // Xeri: shared discard pile
	Center  []card.Card // Stress: two face-up center cards once dealt
	Deck    *card.Deck
	Winner  uuid.UUID // Stress: set when a hand empties

	mu sync.Mutex
}

// seat returns the player holding id, or nil.
func (t *Table) seat(id uuid.UUID) *Player {
	for _, p := range t.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// seatByName returns the player with the given display name, or nil.
func (t *Table) seatByName(name string) *Player {
	for _, p := range t.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// reset returns the table to a fresh unstarted state. Seats are kept but
// hands, scores, ready flags and shared piles are wiped; the deck is empty
// until the next deal.
func (t *Table) reset() {
	t.Started = false
	t.TurnIdx = 0
	t.Pile = nil
	t.Center = nil
	t.Deck = nil
	t.Winner = uuid.Nil
	for _, p := range t.Players {
		p.Hand = nil
		p.Ready = false
		p.Score = 0
	}
}

// allHandsEmpty reports whether every seated player has played out their hand.
func (t *Table) allHandsEmpty() bool {
	for _, p := range t.Players {
		if len(p.Hand) > 0 {
			return false
		}
	}
	return true
}

// CardCount returns deck + hands + shared pile cards. While Started is true
// this must equal 52: the deal partitions the full card set and moves only
// shuffle cards between the partitions.
func (t *Table) CardCount() int {
	n := len(t.Pile) + len(t.Center)
	if t.Deck != nil {
		n += t.Deck.Len()
	}
	for _, p := range t.Players {
		n += len(p.Hand)
	}
	return n
}
