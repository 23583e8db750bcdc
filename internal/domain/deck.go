package domain

import "sort"

// DeckSize is the number of cards in a Fish deck (52 minus the four eights).
const DeckSize = 48

// NewDeck returns the 48-card deck ordered by half-suit.
func NewDeck() []Card {
	deck := make([]Card, 0, DeckSize)
	for _, h := range AllHalfSuits() {
		deck = append(deck, h.Cards()...)
	}
	return deck
}

// HandHasCard reports whether the hand holds the card.
func HandHasCard(hand []Card, card Card) bool {
	for _, c := range hand {
		if c == card {
			return true
		}
	}
	return false
}

// HandHasHalfSuit reports whether the hand holds at least one card of the half-suit.
func HandHasHalfSuit(hand []Card, h HalfSuit) bool {
	for _, c := range hand {
		if c.HalfSuit() == h {
			return true
		}
	}
	return false
}

// RemoveCards removes the specified cards from a hand and returns the updated hand.
func RemoveCards(hand []Card, toRemove ...Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	drop := make(map[Card]struct{}, len(toRemove))
	for _, card := range toRemove {
		drop[card] = struct{}{}
	}

	updated := make([]Card, 0, len(hand))
	for _, card := range hand {
		if _, ok := drop[card]; ok {
			continue
		}
		updated = append(updated, card)
	}
	return updated
}

// RemoveHalfSuit strips every card of the half-suit from the hand.
func RemoveHalfSuit(hand []Card, h HalfSuit) []Card {
	return RemoveCards(hand, h.Cards()...)
}

// SortHand orders a hand by half-suit then rank.
func SortHand(cards []Card) {
	sort.Slice(cards, func(i, j int) bool {
		return cardOrder(cards[i]) < cardOrder(cards[j])
	})
}

func cardOrder(c Card) int {
	suit := 0
	for i, s := range Suits {
		if s == c.Suit {
			suit = i
			break
		}
	}
	return suit*100 + int(c.Rank)
}
