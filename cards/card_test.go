package cards

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCardFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Card
		wantErr bool
	}{
		// Valid cards with different suit notations
		{"Ace of Spades Unicode", "A♠", Card{ID: "ace-spades", Suit: Spades, Rank: Ace}, false},
		{"Ace of Spades lowercase", "As", Card{ID: "ace-spades", Suit: Spades, Rank: Ace}, false},
		{"Ace of Spades uppercase", "AS", Card{ID: "ace-spades", Suit: Spades, Rank: Ace}, false},
		{"Ten of Hearts Unicode", "10♥", Card{ID: "ten-hearts", Suit: Hearts, Rank: Ten}, false},
		{"Ten of Hearts lowercase", "10h", Card{ID: "ten-hearts", Suit: Hearts, Rank: Ten}, false},
		{"Queen of Diamonds Unicode", "Q♦", Card{ID: "queen-diamonds", Suit: Diamonds, Rank: Queen}, false},
		{"Two of Clubs lowercase", "2c", Card{ID: "two-clubs", Suit: Clubs, Rank: Two}, false},

		// All ranks for a single suit
		{"King of Hearts", "Kh", Card{ID: "king-hearts", Suit: Hearts, Rank: King}, false},
		{"Jack of Hearts", "Jh", Card{ID: "jack-hearts", Suit: Hearts, Rank: Jack}, false},
		{"Nine of Hearts", "9h", Card{ID: "nine-hearts", Suit: Hearts, Rank: Nine}, false},
		{"Eight of Hearts", "8h", Card{ID: "eight-hearts", Suit: Hearts, Rank: Eight}, false},
		{"Seven of Hearts", "7h", Card{ID: "seven-hearts", Suit: Hearts, Rank: Seven}, false},
		{"Six of Hearts", "6h", Card{ID: "six-hearts", Suit: Hearts, Rank: Six}, false},
		{"Five of Hearts", "5h", Card{ID: "five-hearts", Suit: Hearts, Rank: Five}, false},
		{"Four of Hearts", "4h", Card{ID: "four-hearts", Suit: Hearts, Rank: Four}, false},
		{"Three of Hearts", "3h", Card{ID: "three-hearts", Suit: Hearts, Rank: Three}, false},

		// Wild flag suffix
		{"Wild seven of diamonds", "7d*", Card{ID: "seven-diamonds", Suit: Diamonds, Rank: Seven, IsWild: true}, false},
		{"Wild three Unicode", "3♣*", Card{ID: "three-clubs", Suit: Clubs, Rank: Three, IsWild: true}, false},

		// Invalid inputs
		{"Too short input", "A", Card{}, true},
		{"Empty input", "", Card{}, true},
		{"Bare asterisk", "*", Card{}, true},
		{"Invalid suit", "10X", Card{}, true},
		{"Invalid rank", "11S", Card{}, true},
		{"Invalid format", "XX", Card{}, true},
		{"Reverse order", "♠A", Card{}, true},
		{"Input with trailing space", "AS ", Card{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CardFromString(tt.input)
			if tt.wantErr {
				require.Error(t, err, "CardFromString(%q) should return an error", tt.input)
			} else {
				require.NoError(t, err, "CardFromString(%q) should not return an error", tt.input)
				require.Equal(t, tt.want, got, "CardFromString(%q) should return the correct card", tt.input)
			}
		})
	}
}

func TestRankPosition(t *testing.T) {
	require.Equal(t, 0, Ace.Position(), "ace is low")
	require.Equal(t, 1, Two.Position())
	require.Equal(t, 12, King.Position())
	require.Equal(t, -1, Rank("joker").Position())
}

func TestPenaltyValues(t *testing.T) {
	tests := []struct {
		rank Rank
		want int
	}{
		{Ace, 15},
		{Two, 2},
		{Three, 3},
		{Four, 4},
		{Five, 5},
		{Six, 6},
		{Seven, 7},
		{Eight, 8},
		{Nine, 9},
		{Ten, 10},
		{Jack, 10},
		{Queen, 10},
		{King, 10},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, tt.rank.PenaltyValue(), "penalty of %s", tt.rank)
	}
}

func TestWildRankForRound(t *testing.T) {
	tests := []struct {
		round int
		want  Rank
	}{
		{1, Three},
		{2, Four},
		{3, Five},
		{4, Six},
		{5, Seven},
		{6, Eight},
		{7, Nine},
		{8, Ten},
		{9, Jack},
		{10, Queen},
		{11, King},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, WildRankForRound(tt.round), "wild rank for round %d", tt.round)
	}

	require.Equal(t, Rank(""), WildRankForRound(0))
	require.Equal(t, Rank(""), WildRankForRound(12))
}

func TestDecksForPlayers(t *testing.T) {
	tests := []struct {
		players int
		want    int
	}{
		{2, 1},
		{3, 1},
		{4, 2},
		{5, 2},
		{6, 3},
		{8, 3},
	}

	for _, tt := range tests {
		require.Equal(t, tt.want, DecksForPlayers(tt.players), "%d players", tt.players)
	}
}

func TestIsWildFor(t *testing.T) {
	flagged := Card{ID: "three-hearts-0", Suit: Hearts, Rank: Three, IsWild: true}
	require.True(t, flagged.IsWildFor(Three))
	require.True(t, flagged.IsWildFor(Seven), "flag alone makes a card wild")

	plain := Card{ID: "seven-diamonds-0", Suit: Diamonds, Rank: Seven}
	require.True(t, plain.IsWildFor(Seven), "rank match alone makes a card wild")
	require.False(t, plain.IsWildFor(Three))
	require.False(t, plain.IsWildFor(""))
}

func TestCardString(t *testing.T) {
	card, err := CardFromString("7h")
	require.NoError(t, err)
	require.Equal(t, "7♥", card.String())

	wild, err := CardFromString("3d*")
	require.NoError(t, err)
	require.Equal(t, "3♦*", wild.String())
}
