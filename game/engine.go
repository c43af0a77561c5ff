package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/lazharichir/threethirteen/cards"
)

// MinPlayers and MaxPlayers bound the seat count of one game
const (
	MinPlayers = 2
	MaxPlayers = 8
)

// NewGame seats the given players in order and deals round 1. The seating
// order is the caller's responsibility; all shuffling runs through rng.
func NewGame(roomID string, players []Player, rng *rand.Rand) (*GameState, error) {
	if len(players) < MinPlayers {
		return nil, fmt.Errorf("need at least %d players", MinPlayers)
	}
	if len(players) > MaxPlayers {
		return nil, fmt.Errorf("cannot seat more than %d players", MaxPlayers)
	}

	g := &GameState{
		RoomID:      roomID,
		Players:     make([]PlayerState, 0, len(players)),
		RoundNumber: 1,
	}
	for _, p := range players {
		g.Players = append(g.Players, PlayerState{ID: p.ID, Name: p.Name})
	}

	g.DealerIndex = 0
	g.CurrentPlayerIndex = (g.DealerIndex + 1) % len(g.Players)
	g.dealRound(rng)

	return g, nil
}

// dealRound rebuilds the shoe for the current round (the wild rank changes
// every round), deals each player their hand, flips the initial discard
// and resets the per-round flags.
func (g *GameState) dealRound(rng *rand.Rand) {
	g.WildRank = cards.WildRankForRound(g.RoundNumber)

	shoe := cards.NewShoe(cards.DecksForPlayers(len(g.Players)), g.WildRank)
	shoe.Shuffle(rng)

	handSize := CardsForRound(g.RoundNumber)
	for i := range g.Players {
		p := &g.Players[i]
		p.Hand, shoe = cards.DealCards(shoe, handSize)
		p.RoundScore = 0
		p.HasGoneOut = false
	}

	var first cards.Card
	first, shoe = cards.DealCard(shoe)
	g.DiscardPile = cards.Stack{first}
	g.DrawPile = shoe

	g.Phase = Phase_Playing
	g.TurnPhase = TurnPhase_Draw
	g.GoneOutPlayerID = ""
	g.FinalTurnsRemaining = 0
	g.LastRoundResults = []RoundResult{}
}

// DrawFromPile moves the top of the draw pile into the caller's hand
func (g *GameState) DrawFromPile(playerID string) error {
	if err := g.validateTurn(playerID, TurnPhase_Draw); err != nil {
		return err
	}
	if len(g.DrawPile) == 0 {
		return errors.New("draw pile is empty")
	}

	var card cards.Card
	card, g.DrawPile = cards.DealCard(g.DrawPile)
	player := g.CurrentPlayer()
	player.Hand = append(player.Hand, card)
	g.TurnPhase = TurnPhase_Discard
	return nil
}

// DrawFromDiscard moves the top of the discard pile into the caller's hand
func (g *GameState) DrawFromDiscard(playerID string) error {
	if err := g.validateTurn(playerID, TurnPhase_Draw); err != nil {
		return err
	}
	if len(g.DiscardPile) == 0 {
		return errors.New("discard pile is empty")
	}

	var card cards.Card
	card, g.DiscardPile = cards.DealCard(g.DiscardPile)
	player := g.CurrentPlayer()
	player.Hand = append(player.Hand, card)
	g.TurnPhase = TurnPhase_Discard
	return nil
}

// DiscardCard removes the card from the caller's hand onto the discard
// pile and advances the turn
func (g *GameState) DiscardCard(playerID string, cardID string) error {
	if err := g.validateTurn(playerID, TurnPhase_Discard); err != nil {
		return err
	}

	player := g.CurrentPlayer()
	card, ok := removeCard(&player.Hand, cardID)
	if !ok {
		return errors.New("card not in hand")
	}

	g.DiscardPile = append(g.DiscardPile, card)
	g.advanceTurn()
	return nil
}

// GoOut discards the given card and ends the caller's round, provided the
// rest of the hand partitions into combinations with zero penalty. The
// first player to go out opens the final-turn window; going out during
// someone else's window just locks in a zero score.
func (g *GameState) GoOut(playerID string, cardID string) error {
	if err := g.validateTurn(playerID, TurnPhase_Discard); err != nil {
		return err
	}

	player := g.CurrentPlayer()
	idx := indexOfCard(player.Hand, cardID)
	if idx < 0 {
		return errors.New("card not in hand")
	}

	remaining := make(cards.Stack, 0, len(player.Hand)-1)
	remaining = append(remaining, player.Hand[:idx]...)
	remaining = append(remaining, player.Hand[idx+1:]...)
	if pts := ScoreHand(remaining, g.WildRank); pts > 0 {
		return fmt.Errorf("cannot go out: hand has %d penalty points", pts)
	}

	card := player.Hand[idx]
	player.Hand = remaining
	g.DiscardPile = append(g.DiscardPile, card)
	player.HasGoneOut = true

	if g.Phase == Phase_Playing {
		g.GoneOutPlayerID = player.ID
		g.Phase = Phase_FinalTurns
		g.FinalTurnsRemaining = len(g.Players) - 1
		g.CurrentPlayerIndex = g.nextIndexSkippingGoneOut()
		g.TurnPhase = TurnPhase_Draw
		return nil
	}

	// Going out during final turns consumes the turn like a normal discard
	g.advanceTurn()
	return nil
}

// AdvanceToNextRound moves a scored game into the next round, or finishes
// it after round 11. The confirmation set empties either way.
func (g *GameState) AdvanceToNextRound(rng *rand.Rand) error {
	if g.Phase != Phase_Scoring && g.Phase != Phase_Finished {
		return errors.New("round is not over")
	}

	g.NextRoundConfirmed = []string{}

	if g.RoundNumber >= MaxRound {
		g.Phase = Phase_Finished
		return nil
	}

	g.RoundNumber++
	g.DealerIndex = (g.DealerIndex + 1) % len(g.Players)
	g.CurrentPlayerIndex = (g.DealerIndex + 1) % len(g.Players)
	g.dealRound(rng)
	return nil
}

// validateTurn runs the shared preconditions of every turn action
func (g *GameState) validateTurn(playerID string, want TurnPhase) error {
	if g.Phase != Phase_Playing && g.Phase != Phase_FinalTurns {
		return errors.New("game is not accepting moves")
	}
	if g.PlayerByID(playerID) == nil {
		return errors.New("unknown player")
	}
	current := g.CurrentPlayer()
	if current == nil || current.ID != playerID {
		return errors.New("not your turn")
	}
	if g.TurnPhase != want {
		if want == TurnPhase_Draw {
			return errors.New("cannot draw now")
		}
		return errors.New("cannot discard now")
	}
	return nil
}

// advanceTurn hands the turn to the next player after a discard. During
// final turns it first consumes one turn from the window, moving the game
// into scoring when the window closes, and never lands on a player who
// has gone out.
func (g *GameState) advanceTurn() {
	switch g.Phase {
	case Phase_Playing:
		g.CurrentPlayerIndex = (g.CurrentPlayerIndex + 1) % len(g.Players)
	case Phase_FinalTurns:
		g.FinalTurnsRemaining--
		if g.FinalTurnsRemaining <= 0 {
			g.Phase = Phase_Scoring
			g.computeRoundResults()
		} else {
			g.CurrentPlayerIndex = g.nextIndexSkippingGoneOut()
		}
	}
	g.TurnPhase = TurnPhase_Draw
}

// nextIndexSkippingGoneOut returns the next seat index that still plays
func (g *GameState) nextIndexSkippingGoneOut() int {
	idx := g.CurrentPlayerIndex
	for i := 0; i < len(g.Players); i++ {
		idx = (idx + 1) % len(g.Players)
		if !g.Players[idx].HasGoneOut {
			return idx
		}
	}
	return g.CurrentPlayerIndex
}

// computeRoundResults scores every hand at the end of a round. Players
// who went out score zero; everyone else pays the best partition of
// their hand. Cumulative scores only ever grow.
func (g *GameState) computeRoundResults() {
	results := make([]RoundResult, 0, len(g.Players))
	for i := range g.Players {
		p := &g.Players[i]

		points := 0
		unmatched := cards.Stack{}
		if !p.HasGoneOut {
			points, unmatched = BestPartition(p.Hand, g.WildRank)
		}

		p.RoundScore = points
		p.CumulativeScore += points
		results = append(results, RoundResult{
			PlayerID:        p.ID,
			PlayerName:      p.Name,
			RoundPoints:     points,
			CumulativeScore: p.CumulativeScore,
			PenaltyCards:    unmatched,
		})
	}
	g.LastRoundResults = results
}

func indexOfCard(hand cards.Stack, cardID string) int {
	for i, c := range hand {
		if c.ID == cardID {
			return i
		}
	}
	return -1
}

func removeCard(hand *cards.Stack, cardID string) (cards.Card, bool) {
	idx := indexOfCard(*hand, cardID)
	if idx < 0 {
		return cards.Card{}, false
	}
	card := (*hand)[idx]
	*hand = append((*hand)[:idx], (*hand)[idx+1:]...)
	return card, true
}
