package domain

import "fmt"

// HalfSuit identifies one of the 8 scoring groups, e.g. "low-spades".
type HalfSuit string

// HalfSuitCount is the number of half-suits in the deck.
const HalfSuitCount = 8

// HalfSuitOf returns the half-suit a suit/rank pair belongs to.
func HalfSuitOf(suit Suit, rank Rank) HalfSuit {
	if rank.Low() {
		return HalfSuit("low-" + string(suit))
	}
	return HalfSuit("high-" + string(suit))
}

// AllHalfSuits returns the 8 half-suits in deck order.
func AllHalfSuits() []HalfSuit {
	out := make([]HalfSuit, 0, HalfSuitCount)
	for _, s := range Suits {
		out = append(out, HalfSuitOf(s, Two), HalfSuitOf(s, Ace))
	}
	return out
}

// Valid reports whether h names one of the 8 half-suits.
func (h HalfSuit) Valid() bool {
	_, _, err := h.parts()
	return err == nil
}

func (h HalfSuit) parts() (Suit, bool, error) {
	s := string(h)
	switch {
	case len(s) > 4 && s[:4] == "low-":
		suit := Suit(s[4:])
		if suit.Valid() {
			return suit, true, nil
		}
	case len(s) > 5 && s[:5] == "high-":
		suit := Suit(s[5:])
		if suit.Valid() {
			return suit, false, nil
		}
	}
	return "", false, fmt.Errorf("unknown half-suit %q", s)
}

// Cards returns the 6 cards of the half-suit, or nil for an unknown id.
func (h HalfSuit) Cards() []Card {
	suit, low, err := h.parts()
	if err != nil {
		return nil
	}
	ranks := Ranks[6:]
	if low {
		ranks = Ranks[:6]
	}
	out := make([]Card, 0, len(ranks))
	for _, r := range ranks {
		out = append(out, Card{Suit: suit, Rank: r})
	}
	return out
}

// Contains reports whether the card belongs to h.
func (h HalfSuit) Contains(c Card) bool {
	return c.Valid() && c.HalfSuit() == h
}
