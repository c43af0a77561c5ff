package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/lazharichir/threethirteen/room"
	"github.com/lazharichir/threethirteen/server/connection"
	"github.com/lazharichir/threethirteen/server/handlers"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // In production, implement proper origin checks
	},
}

// Server exposes the room manager over HTTP and WebSocket
type Server struct {
	manager *room.Manager
	router  *handlers.Router
}

// NewServer creates a new game server around a room manager
func NewServer(manager *room.Manager) *Server {
	return &Server{
		manager: manager,
		router:  handlers.NewRouter(manager),
	}
}

// healthResponse is the payload of the health endpoint
type healthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// corsMiddleware adds CORS headers to all responses
func corsMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Set CORS headers
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// Handle preflight requests
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		// Call the next handler
		next(w, r)
	}
}

// Start begins the server on the specified port
func (s *Server) Start(port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", corsMiddleware(s.handleHealth))
	mux.HandleFunc("/api/rooms", corsMiddleware(s.handleGetRooms))
	mux.HandleFunc("/ws/lobby", s.handleLobbySocket)
	mux.HandleFunc("/ws/{room_id}", s.handleRoomSocket)

	log.Printf("Starting server on port %s", port)
	return http.ListenAndServe("0.0.0.0:"+port, mux)
}

// handleHealth reports server liveness
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:  "healthy",
		Message: "Three-Thirteen Game Server",
	})
}

// handleGetRooms returns the current list of rooms
func (s *Server) handleGetRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.manager.Rooms())
}

// handleLobbySocket serves clients watching the room list
func (s *Server) handleLobbySocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	watcherID := uuid.NewString()
	log.Printf("Lobby watcher connected: %s from %s", watcherID, r.RemoteAddr)

	client := connection.NewClient(watcherID, "", conn)
	go client.WritePump()

	// Registration immediately queues the current rooms snapshot
	s.manager.RegisterWatcher(watcherID, client)

	go client.ReadPump(func(message []byte) {
		// Watchers only listen
	}, func() {
		s.manager.UnregisterWatcher(watcherID)
		log.Printf("Lobby watcher disconnected: %s", watcherID)
	})
}

// handleRoomSocket serves players inside a specific room
func (s *Server) handleRoomSocket(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("room_id")
	playerID := r.URL.Query().Get("player_id")
	if playerID == "" {
		playerID = uuid.NewString()
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("Error upgrading to WebSocket: %v", err)
		return
	}

	client := connection.NewClient(playerID, roomID, conn)

	if err := s.manager.JoinRoom(roomID, playerID, client); err != nil {
		// The pumps never started, so write the refusal synchronously
		conn.WriteJSON(room.NewError(err.Error()))
		conn.Close()
		return
	}

	log.Printf("Client connected: %s in %s", playerID, roomID)

	go client.WritePump()

	// Late joiners see the current waiting list without waiting for the
	// next change
	s.manager.SendLobbyState(roomID, client)

	go client.ReadPump(func(message []byte) {
		s.router.HandleMessage(roomID, playerID, client, message)
	}, func() {
		s.manager.LeaveRoom(roomID, playerID)
		log.Printf("Client disconnected: %s from %s", playerID, roomID)
	})
}
