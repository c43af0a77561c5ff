package game

import (
	"github.com/lazharichir/threethirteen/cards"
)

// MaxRound is the last round of a game. Round sizes grow with the round
// number: round 1 deals 3 cards, round 11 deals 13.
const MaxRound = 11

// CardsForRound returns the hand size dealt in a round
func CardsForRound(round int) int {
	return round + 2
}

type Phase string

const (
	Phase_Playing    Phase = "playing"
	Phase_FinalTurns Phase = "final_turns"
	Phase_Scoring    Phase = "scoring"
	Phase_Finished   Phase = "finished"
)

type TurnPhase string

const (
	TurnPhase_Draw    TurnPhase = "draw"
	TurnPhase_Discard TurnPhase = "discard"
)

// Player identifies a seated player
type Player struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlayerState is one player's standing within a game
type PlayerState struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Hand            cards.Stack `json:"hand"`
	RoundScore      int         `json:"round_score"`
	CumulativeScore int         `json:"cumulative_score"`
	HasGoneOut      bool        `json:"has_gone_out"`
}

// RoundResult records one player's outcome for a finished round
type RoundResult struct {
	PlayerID        string      `json:"player_id"`
	PlayerName      string      `json:"player_name"`
	RoundPoints     int         `json:"round_points"`
	CumulativeScore int         `json:"cumulative_score"`
	PenaltyCards    cards.Stack `json:"penalty_cards"`
}

// GameState is the authoritative state of one game in one room
type GameState struct {
	RoomID              string        `json:"room_id"`
	Phase               Phase         `json:"phase"`
	TurnPhase           TurnPhase     `json:"turn_phase"`
	Players             []PlayerState `json:"players"`
	DealerIndex         int           `json:"dealer_index"`
	CurrentPlayerIndex  int           `json:"current_player_index"`
	DrawPile            cards.Stack   `json:"draw_pile"`
	DiscardPile         cards.Stack   `json:"discard_pile"`
	RoundNumber         int           `json:"round_number"`
	WildRank            cards.Rank    `json:"wild_rank"`
	GoneOutPlayerID     string        `json:"gone_out_player_id"`
	FinalTurnsRemaining int           `json:"final_turns_remaining"`
	LastRoundResults    []RoundResult `json:"last_round_results"`
	NextRoundConfirmed  []string      `json:"next_round_confirmed_by"`
}

// CurrentPlayer returns the player whose turn it is, or nil when the
// index is out of range
func (g *GameState) CurrentPlayer() *PlayerState {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return &g.Players[g.CurrentPlayerIndex]
}

// PlayerByID returns the player with the given id, or nil
func (g *GameState) PlayerByID(id string) *PlayerState {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

// HasConfirmedNextRound reports whether the player already confirmed the
// round hand-off
func (g *GameState) HasConfirmedNextRound(playerID string) bool {
	for _, id := range g.NextRoundConfirmed {
		if id == playerID {
			return true
		}
	}
	return false
}

// CardCount totals the cards across the draw pile, the discard pile and
// every hand. It stays constant within a round.
func (g *GameState) CardCount() int {
	count := len(g.DrawPile) + len(g.DiscardPile)
	for i := range g.Players {
		count += len(g.Players[i].Hand)
	}
	return count
}
