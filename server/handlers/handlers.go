package handlers

import (
	"encoding/json"
	"log"

	"github.com/lazharichir/threethirteen/room"
)

// Router dispatches inbound room-channel messages to the coordinator.
// Refusals travel back to the sender as error messages; unknown or
// malformed messages are logged and dropped.
type Router struct {
	manager *room.Manager
}

// NewRouter creates a new message router
func NewRouter(manager *room.Manager) *Router {
	return &Router{manager: manager}
}

type joinLobbyMessage struct {
	PlayerName string `json:"player_name"`
}

type drawCardMessage struct {
	Source string `json:"source"`
}

type discardCardMessage struct {
	CardID string `json:"card_id"`
}

type goOutMessage struct {
	CardID string `json:"card_id"`
}

// HandleMessage processes one inbound message from a player's channel
func (r *Router) HandleMessage(roomID, playerID string, conn room.Conn, message []byte) {
	// First determine the message type
	var base struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(message, &base); err != nil {
		log.Printf("Malformed message from %s: %v", playerID, err)
		return
	}

	var err error
	switch base.Type {
	case "join_lobby":
		var msg joinLobbyMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Malformed join_lobby from %s: %v", playerID, err)
			return
		}
		err = r.manager.JoinLobby(roomID, playerID, msg.PlayerName)

	case "leave_lobby":
		r.manager.LeaveLobby(roomID, playerID)

	case "start_game":
		err = r.manager.StartGame(roomID)

	case "end_game":
		r.manager.EndGame(roomID)

	case "draw_card":
		var msg drawCardMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Malformed draw_card from %s: %v", playerID, err)
			return
		}
		if msg.Source == "" {
			msg.Source = "pile"
		}
		err = r.manager.DrawCard(roomID, playerID, msg.Source)

	case "discard_card":
		var msg discardCardMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Malformed discard_card from %s: %v", playerID, err)
			return
		}
		err = r.manager.DiscardCard(roomID, playerID, msg.CardID)

	case "go_out":
		var msg goOutMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Malformed go_out from %s: %v", playerID, err)
			return
		}
		err = r.manager.GoOut(roomID, playerID, msg.CardID)

	case "next_round":
		err = r.manager.NextRound(roomID, playerID)

	default:
		log.Println("unknown message type", base.Type)
		return
	}

	if err != nil {
		if sendErr := conn.Send(room.NewError(err.Error())); sendErr != nil {
			log.Printf("Failed to send error to %s: %v", playerID, sendErr)
		}
	}
}
