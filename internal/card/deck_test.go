package card

import (
	"testing"

	"github.com/jim-kask/project-xeri/internal/randutil"
)

func rankBounds(d *Deck) (lo, hi Rank) {
	lo, hi = 99, 0
	for _, c := range d.cards {
		if c.Rank < lo {
			lo = c.Rank
		}
		if c.Rank > hi {
			hi = c.Rank
		}
	}
	return lo, hi
}

func TestDeckDomains(t *testing.T) {
	rng := randutil.New(42)

	xeri := NewXeriDeck(rng)
	if xeri.Len() != 52 {
		t.Fatalf("xeri deck has %d cards, want 52", xeri.Len())
	}
	if lo, hi := rankBounds(xeri); lo != 2 || hi != 14 {
		t.Errorf("xeri ranks span %d..%d, want 2..14", lo, hi)
	}

	stress := NewStressDeck(rng)
	if stress.Len() != 52 {
		t.Fatalf("stress deck has %d cards, want 52", stress.Len())
	}
	if lo, hi := rankBounds(stress); lo != 1 || hi != 13 {
		t.Errorf("stress ranks span %d..%d, want 1..13", lo, hi)
	}
}

func TestDeckUniqueCards(t *testing.T) {
	d := NewXeriDeck(randutil.New(1))
	d.Shuffle()
	seen := make(map[Card]bool, 52)
	for {
		c, ok := d.Pop()
		if !ok {
			break
		}
		if seen[c] {
			t.Fatalf("duplicate card %v", c)
		}
		seen[c] = true
	}
	if len(seen) != 52 {
		t.Errorf("popped %d distinct cards, want 52", len(seen))
	}
}

func TestShuffleDeterministicForSeed(t *testing.T) {
	a := NewStressDeck(randutil.New(7))
	b := NewStressDeck(randutil.New(7))
	a.Shuffle()
	b.Shuffle()
	for i := range a.cards {
		if a.cards[i] != b.cards[i] {
			t.Fatalf("decks diverge at %d: %v vs %v", i, a.cards[i], b.cards[i])
		}
	}
}

func TestPopN(t *testing.T) {
	d := NewXeriDeck(randutil.New(3))
	hand := d.PopN(6)
	if len(hand) != 6 {
		t.Errorf("PopN(6) returned %d cards", len(hand))
	}
	if d.Len() != 46 {
		t.Errorf("deck has %d cards after deal, want 46", d.Len())
	}

	rest := d.PopN(100)
	if len(rest) != 46 {
		t.Errorf("overdraw returned %d cards, want the remaining 46", len(rest))
	}
	if !d.Empty() {
		t.Error("deck should be empty after overdraw")
	}
	if _, ok := d.Pop(); ok {
		t.Error("Pop on empty deck should report !ok")
	}
}
