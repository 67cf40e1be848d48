package game

import (
	rand "math/rand/v2"

	"github.com/google/uuid"

	"github.com/jim-kask/project-xeri/internal/card"
)

// Move is a single player action. Xeri identifies the played card by hand
// position; Stress names the card and a target center slot. Draw requests
// fresh center cards (Stress only).
type Move struct {
	HandIndex int
	Card      *card.Card
	Pile      int
	Draw      bool
}

// Outcome reports what a move did. A move that was rejected for any reason
// leaves Applied false and the table untouched.
type Outcome struct {
	Applied    bool
	Captured   bool      // Xeri: pile taken, score awarded
	RoundEnded bool      // Xeri: deck too thin to redeal, table back to lobby
	HasWinner  bool      // Stress: a hand reached zero
	Winner     uuid.UUID // Stress: the winning seat
	NoDraw     bool      // Stress: draw requested with fewer than 2 deck cards
}

// Rules is the capability a table's Kind selects. Both variants share the
// same contract shape; the gateway and registry never branch on the game.
type Rules interface {
	Kind() Kind
	MinPlayers() int
	MaxPlayers() int
	// Deal builds and shuffles a fresh deck with rng and distributes it.
	// Callers only invoke Deal once the seat/ready precondition holds.
	Deal(t *Table, rng *rand.Rand)
	// Apply validates and performs mv for p. Malformed moves are no-ops.
	Apply(t *Table, p *Player, mv Move) Outcome
}

var ruleSets = map[Kind]Rules{
	KindXeri:   XeriRules{},
	KindStress: StressRules{},
}

// RulesFor returns the rule set for a kind. Kind is validated at the
// boundary, so a miss here is a programming error.
func RulesFor(k Kind) Rules {
	return ruleSets[k]
}
