package room

import "github.com/lazharichir/threethirteen/game"

// Outbound message payloads. Every payload carries its type string so
// clients can switch on it; field names follow the wire format.

type RoomsUpdate struct {
	Type  string      `json:"type"`
	Rooms []RoomState `json:"rooms"`
}

type RoomUpdate struct {
	Type string    `json:"type"`
	Room RoomState `json:"room"`
}

type LobbyUpdate struct {
	Type    string        `json:"type"`
	RoomID  string        `json:"room_id"`
	Players []LobbyPlayer `json:"players"`
	Status  Status        `json:"status"`
}

type GameStarting struct {
	Type    string        `json:"type"`
	RoomID  string        `json:"room_id"`
	Players []LobbyPlayer `json:"players"`
}

type GameStateMessage struct {
	Type string   `json:"type"`
	Game GameView `json:"game"`
}

type PlayerWentOutMessage struct {
	Type                string `json:"type"`
	PlayerID            string `json:"player_id"`
	PlayerName          string `json:"player_name"`
	FinalTurnsRemaining int    `json:"final_turns_remaining"`
}

type RoundOver struct {
	Type        string             `json:"type"`
	RoundNumber int                `json:"round_number"`
	Results     []game.RoundResult `json:"results"`
}

type LeaderboardEntry struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

type GameFinished struct {
	Type        string             `json:"type"`
	Leaderboard []LeaderboardEntry `json:"leaderboard"`
}

type LobbyReset struct {
	Type   string `json:"type"`
	RoomID string `json:"room_id"`
}

type ErrorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// NewError wraps a validation or engine failure for the offending client
func NewError(message string) ErrorMessage {
	return ErrorMessage{Type: "error", Message: message}
}

func newLobbyUpdate(r *RoomState) LobbyUpdate {
	return LobbyUpdate{
		Type:    "lobby_update",
		RoomID:  r.RoomID,
		Players: append([]LobbyPlayer{}, r.LobbyPlayers...),
		Status:  r.Status,
	}
}

func newGameStateMessage(gs *game.GameState, viewerID string) GameStateMessage {
	return GameStateMessage{Type: "game_state", Game: BuildGameView(gs, viewerID)}
}
