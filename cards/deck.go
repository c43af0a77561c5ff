package cards

import (
	"fmt"
	"math/rand"
)

// Stack represents an ordered pile of cards. The top of the pile is the
// end of the slice.
type Stack []Card

// NewDeck creates one standard 52-card deck, stamping the wild flag on
// cards of the given wild rank. deckIndex is baked into each card id so
// the same rank and suit from different decks stay distinct.
func NewDeck(wild Rank, deckIndex int) Stack {
	deck := make(Stack, 0, 52)
	for _, suit := range Suits {
		for _, rank := range RankOrder {
			deck = append(deck, Card{
				ID:     fmt.Sprintf("%s-%s-%d", rank, suit, deckIndex),
				Suit:   suit,
				Rank:   rank,
				IsWild: rank == wild,
			})
		}
	}
	return deck
}

// NewShoe combines numDecks decks into one stack
func NewShoe(numDecks int, wild Rank) Stack {
	var cards Stack
	for i := 0; i < numDecks; i++ {
		cards = append(cards, NewDeck(wild, i)...)
	}
	return cards
}

// Shuffle reorders the stack in place using the provided RNG
func (s Stack) Shuffle(r *rand.Rand) {
	r.Shuffle(len(s), func(i, j int) {
		s[i], s[j] = s[j], s[i]
	})
}

// Top returns the top card without removing it
func (s Stack) Top() (Card, bool) {
	if len(s) == 0 {
		return Card{}, false
	}
	return s[len(s)-1], true
}

// DealCard deals the top card from the stack and returns the card and the
// remaining stack
func DealCard(stack Stack) (Card, Stack) {
	if len(stack) == 0 {
		return Card{}, nil
	}
	card := stack[len(stack)-1]
	return card, stack[:len(stack)-1]
}

// DealCards deals count cards and returns them with the remaining stack
func DealCards(stack Stack, count int) (Stack, Stack) {
	if count > len(stack) {
		count = len(stack)
	}

	dealt := make(Stack, 0, count)
	for i := 0; i < count; i++ {
		var card Card
		card, stack = DealCard(stack)
		dealt = append(dealt, card)
	}
	return dealt, stack
}
