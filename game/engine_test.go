package game

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lazharichir/threethirteen/cards"
)

func seats(ids ...string) []Player {
	players := make([]Player, 0, len(ids))
	for _, id := range ids {
		players = append(players, Player{ID: id, Name: "Player " + id})
	}
	return players
}

// playingGame builds a round-1 game in a known position: threes wild,
// the first listed player to move, draw phase.
func playingGame(players []PlayerState, drawPile, discardPile cards.Stack) *GameState {
	return &GameState{
		RoomID:             "room-1",
		Phase:              Phase_Playing,
		TurnPhase:          TurnPhase_Draw,
		Players:            players,
		DealerIndex:        len(players) - 1,
		CurrentPlayerIndex: 0,
		DrawPile:           drawPile,
		DiscardPile:        discardPile,
		RoundNumber:        1,
		WildRank:           cards.Three,
		LastRoundResults:   []RoundResult{},
	}
}

func TestNewGame(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	g, err := NewGame("room-3", seats("a", "b"), rng)
	require.NoError(t, err)

	assert.Equal(t, "room-3", g.RoomID)
	assert.Equal(t, 1, g.RoundNumber)
	assert.Equal(t, cards.Three, g.WildRank)
	assert.Equal(t, Phase_Playing, g.Phase)
	assert.Equal(t, TurnPhase_Draw, g.TurnPhase)
	assert.Equal(t, 0, g.DealerIndex)
	assert.Equal(t, 1, g.CurrentPlayerIndex, "play starts left of the dealer")

	for _, p := range g.Players {
		assert.Len(t, p.Hand, 3, "round 1 deals 3 cards")
		assert.False(t, p.HasGoneOut)
		assert.Zero(t, p.RoundScore)
	}
	assert.Len(t, g.DiscardPile, 1, "one card flipped as the initial discard")
	assert.Len(t, g.DrawPile, 52-2*3-1)
	assert.Equal(t, 52, g.CardCount(), "two players play a single deck")
}

func TestNewGameDeckSizes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	g, err := NewGame("room-1", seats("a", "b", "c", "d", "e", "f"), rng)
	require.NoError(t, err)
	assert.Equal(t, 3*52, g.CardCount(), "six players play three decks")

	g, err = NewGame("room-1", seats("a", "b", "c", "d"), rng)
	require.NoError(t, err)
	assert.Equal(t, 2*52, g.CardCount(), "four players play two decks")
}

func TestNewGameDeterministic(t *testing.T) {
	g1, err := NewGame("room-1", seats("a", "b"), rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	g2, err := NewGame("room-1", seats("a", "b"), rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	require.Equal(t, g1.Players, g2.Players)
	require.Equal(t, g1.DrawPile, g2.DrawPile)
	require.Equal(t, g1.DiscardPile, g2.DiscardPile)
}

func TestNewGamePlayerBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))

	_, err := NewGame("room-1", seats("a"), rng)
	assert.EqualError(t, err, "need at least 2 players")

	_, err = NewGame("room-1", seats("a", "b", "c", "d", "e", "f", "g", "h", "i"), rng)
	assert.EqualError(t, err, "cannot seat more than 8 players")
}

func TestGoOutFlowTwoPlayers(t *testing.T) {
	// Alice holds a complete set; Bob holds junk.
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "4s", "Ks"), handOf(t, "9d"))

	total := g.CardCount()

	// Alice draws the king and goes out by discarding it
	require.NoError(t, g.DrawFromPile("player-a"))
	assert.Equal(t, total, g.CardCount())
	drawn := g.Players[0].Hand[3]
	assert.Equal(t, cards.King, drawn.Rank)

	require.NoError(t, g.GoOut("player-a", drawn.ID))
	assert.Equal(t, Phase_FinalTurns, g.Phase)
	assert.Equal(t, "player-a", g.GoneOutPlayerID)
	assert.Equal(t, 1, g.FinalTurnsRemaining)
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, TurnPhase_Draw, g.TurnPhase)
	assert.True(t, g.Players[0].HasGoneOut)
	assert.Equal(t, total, g.CardCount())

	// Bob takes his one final turn
	require.NoError(t, g.DrawFromPile("player-b"))
	lastDrawn := g.Players[1].Hand[3]
	require.NoError(t, g.DiscardCard("player-b", lastDrawn.ID))

	// The window closed: the round is scored
	assert.Equal(t, Phase_Scoring, g.Phase)
	assert.Equal(t, total, g.CardCount())
	assert.Equal(t, 0, g.Players[0].RoundScore)
	assert.Equal(t, 16, g.Players[1].RoundScore, "2+5+9 left in hand")
	assert.Equal(t, 16, g.Players[1].CumulativeScore)

	require.Len(t, g.LastRoundResults, 2)
	assert.Equal(t, "player-a", g.LastRoundResults[0].PlayerID)
	assert.Equal(t, 0, g.LastRoundResults[0].RoundPoints)
	assert.Empty(t, g.LastRoundResults[0].PenaltyCards)
	assert.Equal(t, 16, g.LastRoundResults[1].RoundPoints)
	assert.Len(t, g.LastRoundResults[1].PenaltyCards, 3)
}

func TestGoOutSkipsFinishedPlayers(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
		{ID: "player-c", Name: "Cara", Hand: handOf(t, "Jh", "Qd", "Kc")},
	}, handOf(t, "6s", "5s", "Ks"), handOf(t, "9d"))

	require.NoError(t, g.DrawFromPile("player-a"))
	require.NoError(t, g.GoOut("player-a", g.Players[0].Hand[3].ID))
	assert.Equal(t, 2, g.FinalTurnsRemaining)

	// Two final turns follow; the seat pointer must never revisit Alice
	require.NoError(t, g.DrawFromPile("player-b"))
	require.NoError(t, g.DiscardCard("player-b", g.Players[1].Hand[3].ID))
	assert.Equal(t, Phase_FinalTurns, g.Phase)
	assert.Equal(t, 1, g.FinalTurnsRemaining)
	assert.Equal(t, 2, g.CurrentPlayerIndex, "Alice is skipped")
	assert.False(t, g.CurrentPlayer().HasGoneOut)

	require.NoError(t, g.DrawFromPile("player-c"))
	require.NoError(t, g.DiscardCard("player-c", g.Players[2].Hand[3].ID))
	assert.Equal(t, Phase_Scoring, g.Phase)
	assert.Equal(t, 0, g.FinalTurnsRemaining)
}

func TestGoOutDuringFinalTurns(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "9h", "9d", "9c")},
	}, handOf(t, "Js", "Ks"), handOf(t, "4d"))

	require.NoError(t, g.DrawFromPile("player-a"))
	require.NoError(t, g.GoOut("player-a", g.Players[0].Hand[3].ID))
	require.Equal(t, Phase_FinalTurns, g.Phase)

	// Bob goes out on his final turn too
	require.NoError(t, g.DrawFromPile("player-b"))
	require.NoError(t, g.GoOut("player-b", g.Players[1].Hand[3].ID))

	assert.Equal(t, Phase_Scoring, g.Phase)
	assert.Equal(t, "player-a", g.GoneOutPlayerID, "first out keeps the credit")
	assert.True(t, g.Players[1].HasGoneOut)
	assert.Equal(t, 0, g.Players[0].RoundScore)
	assert.Equal(t, 0, g.Players[1].RoundScore)
}

func TestGoOutRefusedWithPenaltyLeft(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "2c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "Ks"), handOf(t, "9d"))

	require.NoError(t, g.DrawFromPile("player-a"))
	drawn := g.Players[0].Hand[3]

	handBefore := make(cards.Stack, len(g.Players[0].Hand))
	copy(handBefore, g.Players[0].Hand)

	err := g.GoOut("player-a", drawn.ID)
	assert.EqualError(t, err, "cannot go out: hand has 16 penalty points")

	// The refusal left everything in place
	assert.Equal(t, Phase_Playing, g.Phase)
	assert.Equal(t, TurnPhase_Discard, g.TurnPhase)
	assert.Equal(t, handBefore, g.Players[0].Hand)
	assert.False(t, g.Players[0].HasGoneOut)
}

func TestTurnValidation(t *testing.T) {
	fresh := func() *GameState {
		return playingGame([]PlayerState{
			{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "2c")},
			{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
		}, handOf(t, "Ks", "Qs"), handOf(t, "9d"))
	}

	t.Run("draw out of turn", func(t *testing.T) {
		g := fresh()
		assert.EqualError(t, g.DrawFromPile("player-b"), "not your turn")
	})

	t.Run("unknown player", func(t *testing.T) {
		g := fresh()
		assert.EqualError(t, g.DrawFromPile("ghost"), "unknown player")
	})

	t.Run("second draw in one turn", func(t *testing.T) {
		g := fresh()
		require.NoError(t, g.DrawFromPile("player-a"))
		assert.EqualError(t, g.DrawFromPile("player-a"), "cannot draw now")
	})

	t.Run("discard before drawing", func(t *testing.T) {
		g := fresh()
		assert.EqualError(t, g.DiscardCard("player-a", g.Players[0].Hand[0].ID), "cannot discard now")
	})

	t.Run("discard a card not held", func(t *testing.T) {
		g := fresh()
		require.NoError(t, g.DrawFromPile("player-a"))
		assert.EqualError(t, g.DiscardCard("player-a", "no-such-card"), "card not in hand")
	})

	t.Run("draw from empty draw pile", func(t *testing.T) {
		g := fresh()
		g.DrawPile = cards.Stack{}
		assert.EqualError(t, g.DrawFromPile("player-a"), "draw pile is empty")
	})

	t.Run("draw from empty discard pile", func(t *testing.T) {
		g := fresh()
		g.DiscardPile = cards.Stack{}
		assert.EqualError(t, g.DrawFromDiscard("player-a"), "discard pile is empty")
	})

	t.Run("no moves while scoring", func(t *testing.T) {
		g := fresh()
		g.Phase = Phase_Scoring
		assert.EqualError(t, g.DrawFromPile("player-a"), "game is not accepting moves")
	})
}

func TestDrawFromDiscard(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "2c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "Ks"), handOf(t, "4d", "9d"))

	total := g.CardCount()

	require.NoError(t, g.DrawFromDiscard("player-a"))
	assert.Equal(t, cards.Nine, g.Players[0].Hand[3].Rank, "top of the discard pile")
	assert.Len(t, g.DiscardPile, 1)
	assert.Equal(t, TurnPhase_Discard, g.TurnPhase)
	assert.Equal(t, total, g.CardCount())
}

func TestAdvanceToNextRound(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "Ks"), handOf(t, "9d"))
	g.Phase = Phase_Scoring
	g.Players[1].CumulativeScore = 16
	g.NextRoundConfirmed = []string{"player-a", "player-b"}

	rng := rand.New(rand.NewSource(5))
	require.NoError(t, g.AdvanceToNextRound(rng))

	assert.Equal(t, 2, g.RoundNumber)
	assert.Equal(t, cards.Four, g.WildRank, "round 2 plays fours wild")
	assert.Equal(t, Phase_Playing, g.Phase)
	assert.Equal(t, TurnPhase_Draw, g.TurnPhase)
	assert.Equal(t, 0, g.DealerIndex, "deal rotates left")
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Empty(t, g.NextRoundConfirmed)
	assert.Empty(t, g.GoneOutPlayerID)
	assert.Empty(t, g.LastRoundResults)

	for _, p := range g.Players {
		assert.Len(t, p.Hand, 4, "round 2 deals 4 cards")
		assert.False(t, p.HasGoneOut)
		assert.Zero(t, p.RoundScore)
	}
	assert.Equal(t, 16, g.Players[1].CumulativeScore, "cumulative scores carry over")
	assert.Equal(t, 52, g.CardCount())
}

func TestAdvanceToNextRoundGuard(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "Ks"), handOf(t, "9d"))

	rng := rand.New(rand.NewSource(5))
	assert.EqualError(t, g.AdvanceToNextRound(rng), "round is not over")
}

func TestGameFinishesAfterLastRound(t *testing.T) {
	g := playingGame([]PlayerState{
		{ID: "player-a", Name: "Alice", Hand: handOf(t, "7h", "7d", "7c")},
		{ID: "player-b", Name: "Bob", Hand: handOf(t, "2h", "5d", "9c")},
	}, handOf(t, "Ks"), handOf(t, "9d"))
	g.RoundNumber = MaxRound
	g.WildRank = cards.WildRankForRound(MaxRound)
	g.Phase = Phase_Scoring
	g.NextRoundConfirmed = []string{"player-a", "player-b"}

	rng := rand.New(rand.NewSource(5))
	require.NoError(t, g.AdvanceToNextRound(rng))

	assert.Equal(t, Phase_Finished, g.Phase)
	assert.Equal(t, MaxRound, g.RoundNumber)
	assert.Empty(t, g.NextRoundConfirmed)
}

func TestCardCountInvariantAcrossActions(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g, err := NewGame("room-1", seats("a", "b", "c"), rng)
	require.NoError(t, err)

	total := g.CardCount()

	// Walk a full circle of draws and discards
	for i := 0; i < len(g.Players); i++ {
		current := g.CurrentPlayer()
		require.NoError(t, g.DrawFromPile(current.ID))
		assert.Equal(t, total, g.CardCount())
		require.NoError(t, g.DiscardCard(current.ID, current.Hand[len(current.Hand)-1].ID))
		assert.Equal(t, total, g.CardCount())
	}

	assert.Equal(t, Phase_Playing, g.Phase)
	assert.Equal(t, TurnPhase_Draw, g.TurnPhase)
	assert.Equal(t, 1, g.CurrentPlayerIndex, "back to the first seat after a full circle")
}
