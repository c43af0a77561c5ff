package cards

import (
	"fmt"
	"unicode/utf8"
)

// Suit represents a card suit
type Suit string

const (
	Hearts   Suit = "hearts"
	Diamonds Suit = "diamonds"
	Clubs    Suit = "clubs"
	Spades   Suit = "spades"
)

// Suits lists the four suits in deck construction order
var Suits = []Suit{Hearts, Diamonds, Clubs, Spades}

// Symbol returns the display symbol for the suit
func (s Suit) Symbol() string {
	switch s {
	case Hearts:
		return "♥"
	case Diamonds:
		return "♦"
	case Clubs:
		return "♣"
	case Spades:
		return "♠"
	}
	return "?"
}

// Rank represents a card rank
type Rank string

const (
	Ace   Rank = "ace"
	Two   Rank = "two"
	Three Rank = "three"
	Four  Rank = "four"
	Five  Rank = "five"
	Six   Rank = "six"
	Seven Rank = "seven"
	Eight Rank = "eight"
	Nine  Rank = "nine"
	Ten   Rank = "ten"
	Jack  Rank = "jack"
	Queen Rank = "queen"
	King  Rank = "king"
)

// RankOrder fixes the rank positions used for runs. Ace is low.
var RankOrder = []Rank{Ace, Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King}

// Position returns the rank's index in RankOrder, or -1 for an unknown rank
func (r Rank) Position() int {
	for i, rank := range RankOrder {
		if rank == r {
			return i
		}
	}
	return -1
}

// PenaltyValue returns the points the rank contributes when left unmatched
// at the end of a round: ace 15, two through nine face value, ten and
// court cards 10.
func (r Rank) PenaltyValue() int {
	switch r {
	case Ace:
		return 15
	case Ten, Jack, Queen, King:
		return 10
	default:
		return r.Position() + 1
	}
}

// Symbol returns the short display symbol for the rank
func (r Rank) Symbol() string {
	switch r {
	case Ace:
		return "A"
	case Ten:
		return "10"
	case Jack:
		return "J"
	case Queen:
		return "Q"
	case King:
		return "K"
	default:
		return fmt.Sprintf("%d", r.Position()+1)
	}
}

// WildRankForRound returns the wild rank for a round: round 1 plays threes
// wild, round 2 fours, up to round 11 playing kings wild. Rounds outside
// 1..11 have no wild rank.
func WildRankForRound(round int) Rank {
	if round < 1 || round+1 >= len(RankOrder) {
		return ""
	}
	return RankOrder[round+1]
}

// DecksForPlayers returns how many decks are shuffled together for a
// player count: one for up to 3 players, two for 4 or 5, three beyond.
func DecksForPlayers(players int) int {
	switch {
	case players <= 3:
		return 1
	case players <= 5:
		return 2
	default:
		return 3
	}
}

// Card represents a playing card. ID is unique within one game so that
// two physical copies of the same rank and suit from different decks
// remain distinct entities.
type Card struct {
	ID     string `json:"id"`
	Suit   Suit   `json:"suit"`
	Rank   Rank   `json:"rank"`
	IsWild bool   `json:"is_wild"`
}

// String returns the string representation of a card, e.g. "7♥".
// A card carrying the wild flag is marked with a trailing asterisk.
func (c Card) String() string {
	s := c.Rank.Symbol() + c.Suit.Symbol()
	if c.IsWild {
		s += "*"
	}
	return s
}

// IsWildFor reports whether the card plays as a wild for the given wild
// rank. The flag is stamped at deck construction; the rank comparison
// also covers cards built by hand.
func (c Card) IsWildFor(wild Rank) bool {
	return c.IsWild || (wild != "" && c.Rank == wild)
}

// CardFromString creates a card from a shorthand representation
// e.g., "10♠" or "10s" or "10S" -> Card{Suit: Spades, Rank: Ten}
// A trailing "*" marks the card wild, e.g. "7d*".
func CardFromString(s string) (Card, error) {
	var wild bool
	if len(s) > 0 && s[len(s)-1] == '*' {
		wild = true
		s = s[:len(s)-1]
	}

	if len(s) < 2 {
		return Card{}, fmt.Errorf("invalid card shorthand: %s", s)
	}

	// Suit symbols are multi-byte runes, so split on the last rune rather
	// than the last byte.
	_, suitLen := utf8.DecodeLastRuneInString(s)

	var suit Suit
	switch s[len(s)-suitLen:] {
	case "♠", "s", "S":
		suit = Spades
	case "♥", "h", "H":
		suit = Hearts
	case "♦", "d", "D":
		suit = Diamonds
	case "♣", "c", "C":
		suit = Clubs
	default:
		return Card{}, fmt.Errorf("invalid card suit: %s", s[len(s)-suitLen:])
	}

	var rank Rank
	switch s[:len(s)-suitLen] {
	case "A":
		rank = Ace
	case "K":
		rank = King
	case "Q":
		rank = Queen
	case "J":
		rank = Jack
	case "10":
		rank = Ten
	case "9":
		rank = Nine
	case "8":
		rank = Eight
	case "7":
		rank = Seven
	case "6":
		rank = Six
	case "5":
		rank = Five
	case "4":
		rank = Four
	case "3":
		rank = Three
	case "2":
		rank = Two
	default:
		return Card{}, fmt.Errorf("invalid card rank: %s", s[:len(s)-suitLen])
	}

	id := fmt.Sprintf("%s-%s", rank, suit)
	return Card{ID: id, Suit: suit, Rank: rank, IsWild: wild}, nil
}
