package card

import rand "math/rand/v2"

// Deck is an ordered pile of cards consumed from the top only.
type Deck struct {
	cards []Card
	rng   *rand.Rand
}

// NewXeriDeck creates a 52-card deck with the Xeri rank domain (2..14,
// Ace high).
func NewXeriDeck(rng *rand.Rand) *Deck {
	return build(rng, 2, 14)
}

// NewStressDeck creates a 52-card deck with the Stress rank domain (1..13,
// Ace low). The two domains must not be unified: adjacency in Stress relies
// on Ace sitting at the bottom of the ladder.
func NewStressDeck(rng *rand.Rand) *Deck {
	return build(rng, 1, 13)
}

func build(rng *rand.Rand, lo, hi Rank) *Deck {
	d := &Deck{
		cards: make([]Card, 0, 52),
		rng:   rng,
	}
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := lo; rank <= hi; rank++ {
			d.cards = append(d.cards, New(rank, suit))
		}
	}
	return d
}

// Shuffle randomizes the order of cards in the deck
func (d *Deck) Shuffle() {
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Pop removes and returns the top card from the deck
func (d *Deck) Pop() (Card, bool) {
	if len(d.cards) == 0 {
		return Card{}, false
	}
	c := d.cards[len(d.cards)-1]
	d.cards = d.cards[:len(d.cards)-1]
	return c, true
}

// PopN deals n cards from the deck, or fewer if the deck runs out
func (d *Deck) PopN(n int) []Card {
	if n > len(d.cards) {
		n = len(d.cards)
	}
	cards := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		c, ok := d.Pop()
		if !ok {
			break
		}
		cards = append(cards, c)
	}
	return cards
}

// Len returns the number of cards left in the deck
func (d *Deck) Len() int {
	return len(d.cards)
}

// Empty returns true if the deck has no cards left
func (d *Deck) Empty() bool {
	return len(d.cards) == 0
}
