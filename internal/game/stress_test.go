package game

import (
	"testing"

	"github.com/google/uuid"

	"github.com/jim-kask/project-xeri/internal/card"
	"github.com/jim-kask/project-xeri/internal/randutil"
)

func newStressTable() *Table {
	return &Table{
		ID:   "s1",
		Name: "s1",
		Game: KindStress,
		Players: []*Player{
			{ID: uuid.New(), Name: "alice"},
			{ID: uuid.New(), Name: "bob"},
		},
	}
}

func TestStressDeal(t *testing.T) {
	tbl := newStressTable()
	StressRules{}.Deal(tbl, randutil.New(42))

	if !tbl.Started {
		t.Fatal("table not started after deal")
	}
	if len(tbl.Center) != 2 {
		t.Fatalf("dealt %d center cards, want 2", len(tbl.Center))
	}
	for i, p := range tbl.Players {
		if len(p.Hand) != 25 {
			t.Errorf("player %d holds %d cards, want 25", i, len(p.Hand))
		}
	}
	if !tbl.Deck.Empty() {
		t.Errorf("deck should be fully dealt, %d left", tbl.Deck.Len())
	}
	if tbl.CardCount() != 52 {
		t.Errorf("deal lost cards, total %d", tbl.CardCount())
	}
}

func TestStressAdjacency(t *testing.T) {
	cases := []struct {
		name   string
		held   card.Rank
		center card.Rank
		legal  bool
	}{
		{"one above", 8, 7, true},
		{"one below", 6, 7, true},
		{"same rank", 7, 7, false},
		{"two apart", 9, 7, false},
		{"ace below two", 1, 2, true},
		{"king below queen", 13, 12, true},
		{"ace on king never wraps", 1, 13, false},
		{"king on ace never wraps", 13, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tbl := newStressTable()
			tbl.Started = true
			tbl.Center = []card.Card{card.New(tc.center, card.Spades), card.New(5, card.Hearts)}
			p := tbl.Players[0]
			held := card.New(tc.held, card.Clubs)
			p.Hand = []card.Card{held, card.New(10, card.Diamonds)}
			tbl.Players[1].Hand = []card.Card{card.New(4, card.Spades)}

			out := StressRules{}.Apply(tbl, p, Move{Card: &held, Pile: 0})
			if out.Applied != tc.legal {
				t.Fatalf("%s on %s: applied=%v, want %v", held, tbl.Center[0], out.Applied, tc.legal)
			}
			if tc.legal {
				if tbl.Center[0] != held {
					t.Errorf("center not replaced: %v", tbl.Center[0])
				}
				if len(p.Hand) != 1 {
					t.Errorf("hand should shrink to 1, has %d", len(p.Hand))
				}
			} else {
				if len(p.Hand) != 2 {
					t.Errorf("rejected play mutated the hand")
				}
			}
		})
	}
}

func TestStressRejections(t *testing.T) {
	tbl := newStressTable()
	tbl.Started = true
	tbl.Center = []card.Card{card.New(7, card.Spades), card.New(3, card.Hearts)}
	p := tbl.Players[0]
	held := card.New(8, card.Clubs)
	p.Hand = []card.Card{held}

	t.Run("card not in hand", func(t *testing.T) {
		ghost := card.New(8, card.Spades)
		if out := (StressRules{}).Apply(tbl, p, Move{Card: &ghost, Pile: 0}); out.Applied {
			t.Error("played a card the seat does not hold")
		}
	})

	t.Run("bad pile index", func(t *testing.T) {
		for _, pile := range []int{-1, 2} {
			if out := (StressRules{}).Apply(tbl, p, Move{Card: &held, Pile: pile}); out.Applied {
				t.Errorf("pile %d accepted", pile)
			}
		}
	})

	t.Run("nil card", func(t *testing.T) {
		if out := (StressRules{}).Apply(tbl, p, Move{Pile: 0}); out.Applied {
			t.Error("move without a card accepted")
		}
	})

	t.Run("not started", func(t *testing.T) {
		tbl.Started = false
		if out := (StressRules{}).Apply(tbl, p, Move{Card: &held, Pile: 0}); out.Applied {
			t.Error("move accepted before start")
		}
		tbl.Started = true
	})
}

func TestStressDraw(t *testing.T) {
	tbl := newStressTable()
	StressRules{}.Deal(tbl, randutil.New(42))

	// The full deck is dealt out, so a draw request cannot be honoured.
	out := StressRules{}.Apply(tbl, tbl.Players[0], Move{Draw: true})
	if out.Applied || !out.NoDraw {
		t.Fatalf("draw on empty deck: %+v", out)
	}
	if len(tbl.Center) != 2 {
		t.Error("failed draw replaced the centers")
	}
}

func TestStressWinner(t *testing.T) {
	tbl := newStressTable()
	tbl.Started = true
	tbl.Center = []card.Card{card.New(7, card.Spades), card.New(3, card.Hearts)}
	p := tbl.Players[0]
	last := card.New(6, card.Clubs)
	p.Hand = []card.Card{last}
	tbl.Players[1].Hand = []card.Card{card.New(10, card.Diamonds)}

	out := StressRules{}.Apply(tbl, p, Move{Card: &last, Pile: 0})
	if !out.Applied || !out.HasWinner {
		t.Fatalf("emptying play should win: %+v", out)
	}
	if out.Winner != p.ID || tbl.Winner != p.ID {
		t.Errorf("winner = %v, want %v", tbl.Winner, p.ID)
	}
	if tbl.Started {
		t.Error("game should stop once a hand empties")
	}

	// No further plays once the game is over.
	other := tbl.Players[1]
	held := other.Hand[0]
	if out := (StressRules{}).Apply(tbl, other, Move{Card: &held, Pile: 0}); out.Applied {
		t.Error("move accepted after the game ended")
	}
}
