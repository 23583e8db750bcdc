package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Suit is one of the four card suits.
type Suit string

const (
	Spades   Suit = "spades"
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
)

// Suits lists the suits in deck order.
var Suits = []Suit{Spades, Hearts, Diamonds, Clubs}

// Valid reports whether s is one of the four suits.
func (s Suit) Valid() bool {
	switch s {
	case Spades, Hearts, Diamonds, Clubs:
		return true
	}
	return false
}

func (s Suit) letter() string {
	switch s {
	case Spades:
		return "S"
	case Hearts:
		return "H"
	case Diamonds:
		return "D"
	case Clubs:
		return "C"
	}
	return "?"
}

func suitFromLetter(l string) (Suit, bool) {
	switch l {
	case "S":
		return Spades, true
	case "H":
		return Hearts, true
	case "D":
		return Diamonds, true
	case "C":
		return Clubs, true
	}
	return "", false
}

// Rank is a card rank. Eights are not part of the Fish deck.
type Rank int

const (
	Two   Rank = 2
	Three Rank = 3
	Four  Rank = 4
	Five  Rank = 5
	Six   Rank = 6
	Seven Rank = 7
	Nine  Rank = 9
	Ten   Rank = 10
	Jack  Rank = 11
	Queen Rank = 12
	King  Rank = 13
	Ace   Rank = 14
)

// Ranks lists the 12 ranks in play, low half first.
var Ranks = []Rank{Two, Three, Four, Five, Six, Seven, Nine, Ten, Jack, Queen, King, Ace}

// Valid reports whether r is one of the 12 ranks in play.
func (r Rank) Valid() bool {
	return r >= Two && r <= Ace && r != 8
}

// Low reports whether r belongs to the low half of its suit (2..7).
func (r Rank) Low() bool {
	return r <= Seven
}

func (r Rank) String() string {
	switch r {
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	case Ace:
		return "A"
	}
	return strconv.Itoa(int(r))
}

func rankFromString(s string) (Rank, bool) {
	switch s {
	case "J":
		return Jack, true
	case "Q":
		return Queen, true
	case "K":
		return King, true
	case "A":
		return Ace, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	r := Rank(n)
	if !r.Valid() || strconv.Itoa(n) != s {
		return 0, false
	}
	return r, true
}

// Card is a single card of the 48-card Fish deck.
type Card struct {
	Suit Suit
	Rank Rank
}

// Valid reports whether the card exists in the deck.
func (c Card) Valid() bool {
	return c.Suit.Valid() && c.Rank.Valid()
}

// HalfSuit returns the half-suit the card belongs to.
func (c Card) HalfSuit() HalfSuit {
	return HalfSuitOf(c.Suit, c.Rank)
}

// String returns the card key, e.g. "2S", "10H", "QD".
func (c Card) String() string {
	return c.Rank.String() + c.Suit.letter()
}

// ParseCard parses a card key produced by Card.String.
func ParseCard(s string) (Card, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card %q", s)
	}
	suit, ok := suitFromLetter(s[len(s)-1:])
	if !ok {
		return Card{}, fmt.Errorf("invalid card suit in %q", s)
	}
	rank, ok := rankFromString(s[:len(s)-1])
	if !ok {
		return Card{}, fmt.Errorf("invalid card rank in %q", s)
	}
	return Card{Suit: suit, Rank: rank}, nil
}

// MarshalText encodes the card as its key.
func (c Card) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("cannot encode invalid card %v/%d", c.Suit, c.Rank)
	}
	return []byte(c.String()), nil
}

// UnmarshalText decodes a card key.
func (c *Card) UnmarshalText(b []byte) error {
	parsed, err := ParseCard(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
