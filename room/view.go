package room

import (
	"github.com/lazharichir/threethirteen/cards"
	"github.com/lazharichir/threethirteen/game"
)

// PlayerView is one seat as a specific viewer sees it. Only the viewer's
// own hand is disclosed; everyone else's collapses to a count.
type PlayerView struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Hand            cards.Stack `json:"hand"`
	HandCount       int         `json:"hand_count"`
	RoundScore      int         `json:"round_score"`
	CumulativeScore int         `json:"cumulative_score"`
	HasGoneOut      bool        `json:"has_gone_out"`
}

// GameView is the per-viewer projection of a game. The draw pile travels
// as a count only; the discard pile passes through whole so clients can
// render its top card.
type GameView struct {
	RoomID              string             `json:"room_id"`
	Phase               game.Phase         `json:"phase"`
	TurnPhase           game.TurnPhase     `json:"turn_phase"`
	Players             []PlayerView       `json:"players"`
	DealerIndex         int                `json:"dealer_index"`
	CurrentPlayerIndex  int                `json:"current_player_index"`
	DrawPile            cards.Stack        `json:"draw_pile"`
	DrawPileCount       int                `json:"draw_pile_count"`
	DiscardPile         cards.Stack        `json:"discard_pile"`
	RoundNumber         int                `json:"round_number"`
	WildRank            cards.Rank         `json:"wild_rank"`
	GoneOutPlayerID     string             `json:"gone_out_player_id"`
	FinalTurnsRemaining int                `json:"final_turns_remaining"`
	LastRoundResults    []game.RoundResult `json:"last_round_results"`
	NextRoundConfirmed  []string           `json:"next_round_confirmed_by"`
}

// BuildGameView projects the authoritative state for one viewer by field
// rewriting. The input state is not modified.
func BuildGameView(gs *game.GameState, viewerID string) GameView {
	view := GameView{
		RoomID:              gs.RoomID,
		Phase:               gs.Phase,
		TurnPhase:           gs.TurnPhase,
		Players:             make([]PlayerView, 0, len(gs.Players)),
		DealerIndex:         gs.DealerIndex,
		CurrentPlayerIndex:  gs.CurrentPlayerIndex,
		DrawPile:            cards.Stack{},
		DrawPileCount:       len(gs.DrawPile),
		DiscardPile:         gs.DiscardPile,
		RoundNumber:         gs.RoundNumber,
		WildRank:            gs.WildRank,
		GoneOutPlayerID:     gs.GoneOutPlayerID,
		FinalTurnsRemaining: gs.FinalTurnsRemaining,
		LastRoundResults:    gs.LastRoundResults,
		NextRoundConfirmed:  gs.NextRoundConfirmed,
	}

	for _, p := range gs.Players {
		pv := PlayerView{
			ID:              p.ID,
			Name:            p.Name,
			Hand:            cards.Stack{},
			HandCount:       len(p.Hand),
			RoundScore:      p.RoundScore,
			CumulativeScore: p.CumulativeScore,
			HasGoneOut:      p.HasGoneOut,
		}
		if p.ID == viewerID {
			pv.Hand = p.Hand
		}
		view.Players = append(view.Players, pv)
	}

	return view
}
