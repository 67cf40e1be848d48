package card

import (
	"encoding/json"
	"fmt"
)

// Suit represents a card suit
type Suit int

const (
	Spades Suit = iota
	Hearts
	Diamonds
	Clubs
)

var suitLetters = map[Suit]string{
	Spades:   "S",
	Hearts:   "H",
	Diamonds: "D",
	Clubs:    "C",
}

// String returns the string representation of a suit
func (s Suit) String() string {
	switch s {
	case Spades:
		return "♠"
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	default:
		return "?"
	}
}

// Letter returns the single-letter wire form of the suit (S, H, D, C).
func (s Suit) Letter() string {
	if l, ok := suitLetters[s]; ok {
		return l
	}
	return "?"
}

// MarshalJSON encodes the suit as its single-letter form.
func (s Suit) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Letter())
}

// UnmarshalJSON decodes a single-letter suit.
func (s *Suit) UnmarshalJSON(data []byte) error {
	var letter string
	if err := json.Unmarshal(data, &letter); err != nil {
		return err
	}
	for suit, l := range suitLetters {
		if l == letter {
			*s = suit
			return nil
		}
	}
	return fmt.Errorf("unknown suit %q", letter)
}

// Rank represents a card rank. The numeric domain depends on the game:
// Xeri ranks run 2..14 (Ace high), Stress ranks run 1..13 (Ace low).
type Rank int

// String returns the display form of a rank, valid for both rank domains.
func (r Rank) String() string {
	switch r {
	case 1, 14:
		return "A"
	case 11:
		return "J"
	case 12:
		return "Q"
	case 13:
		return "K"
	default:
		if r >= 2 && r <= 10 {
			return fmt.Sprintf("%d", int(r))
		}
		return "?"
	}
}

// Card represents a playing card
type Card struct {
	Rank Rank `json:"rank"`
	Suit Suit `json:"suit"`
}

// New creates a new card
func New(rank Rank, suit Suit) Card {
	return Card{Rank: rank, Suit: suit}
}

// String returns the string representation of a card (e.g., "7♥")
func (c Card) String() string {
	return fmt.Sprintf("%s%s", c.Rank, c.Suit)
}
