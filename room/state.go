package room

import (
	"strings"

	"github.com/lazharichir/threethirteen/game"
)

// MinPlayers and MaxPlayers bound how many participants a room holds.
// They mirror the seat limits of the rules engine.
const (
	MinPlayers = 2
	MaxPlayers = 8
)

type Status string

const (
	Status_Empty     Status = "empty"
	Status_Gathering Status = "gathering"
	Status_InGame    Status = "in_game"
)

// LobbyPlayer is a named entrant waiting for the game to start.
type LobbyPlayer struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RoomState is one room's authoritative state. Participants are clients
// with a socket or reserved seat; lobby players are the subset that has
// submitted a display name.
type RoomState struct {
	RoomID       string          `json:"room_id"`
	RoomName     string          `json:"room_name"`
	Status       Status          `json:"status"`
	PlayerCount  int             `json:"player_count"`
	PlayerIDs    []string        `json:"player_ids"`
	LobbyPlayers []LobbyPlayer   `json:"lobby_players"`
	Game         *game.GameState `json:"game_state,omitempty"`
	MaxPlayers   int             `json:"max_players"`
	MinPlayers   int             `json:"min_players"`
}

func newRoomState(id, name string) *RoomState {
	return &RoomState{
		RoomID:       id,
		RoomName:     name,
		Status:       Status_Empty,
		PlayerIDs:    []string{},
		LobbyPlayers: []LobbyPlayer{},
		MaxPlayers:   MaxPlayers,
		MinPlayers:   MinPlayers,
	}
}

// Snapshot returns a copy safe to hand to clients and watchers. The live
// game state is stripped: hands travel only inside per-viewer game_state
// messages, never in room snapshots.
func (r *RoomState) Snapshot() RoomState {
	snap := *r
	snap.Game = nil
	snap.PlayerIDs = append([]string{}, r.PlayerIDs...)
	snap.LobbyPlayers = append([]LobbyPlayer{}, r.LobbyPlayers...)
	return snap
}

// HasParticipant reports whether the player holds a seat in the room
func (r *RoomState) HasParticipant(playerID string) bool {
	for _, id := range r.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

func (r *RoomState) removeParticipant(playerID string) {
	for i, id := range r.PlayerIDs {
		if id == playerID {
			r.PlayerIDs = append(r.PlayerIDs[:i], r.PlayerIDs[i+1:]...)
			break
		}
	}
	r.PlayerCount = len(r.PlayerIDs)
}

// lobbyPlayer returns the named entry for the player, or nil
func (r *RoomState) lobbyPlayer(playerID string) *LobbyPlayer {
	for i := range r.LobbyPlayers {
		if r.LobbyPlayers[i].ID == playerID {
			return &r.LobbyPlayers[i]
		}
	}
	return nil
}

func (r *RoomState) removeLobbyPlayer(playerID string) {
	kept := r.LobbyPlayers[:0]
	for _, p := range r.LobbyPlayers {
		if p.ID != playerID {
			kept = append(kept, p)
		}
	}
	r.LobbyPlayers = kept
}

// trimName normalises a submitted display name
func trimName(name string) string {
	return strings.TrimSpace(name)
}
