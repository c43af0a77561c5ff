package room

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"sync"

	"github.com/lazharichir/threethirteen/game"
)

// NumRooms is the fixed room population. Rooms are created at startup
// and never destroyed.
const NumRooms = 10

const eventLogCapacity = 1000

// Manager owns the fixed set of rooms, every live connection, and the
// in-game action flow. One mutex serialises all mutation: public methods
// lock and delegate to unlocked internals so cleanup paths triggered
// mid-broadcast run under the already-held lock.
type Manager struct {
	mutex sync.Mutex

	rooms     map[string]*RoomState
	roomOrder []string

	// Connections inside a specific room: room id → player id → conn
	conns map[string]map[string]Conn
	// Clients on the room-list screen
	watchers map[string]Conn
	// Reverse map for cleanup on unexpected disconnect
	playerRoom map[string]string

	rng *rand.Rand

	eventHandlers []EventHandler
	eventLog      *EventLog
}

// NewManager creates the manager with its fixed rooms. All shuffling
// (decks, seating order) flows through rng.
func NewManager(rng *rand.Rand) *Manager {
	m := &Manager{
		rooms:      make(map[string]*RoomState),
		conns:      make(map[string]map[string]Conn),
		watchers:   make(map[string]Conn),
		playerRoom: make(map[string]string),
		rng:        rng,
		eventLog:   NewEventLog(eventLogCapacity),
	}

	for i := 1; i <= NumRooms; i++ {
		roomID := fmt.Sprintf("room-%d", i)
		m.rooms[roomID] = newRoomState(roomID, fmt.Sprintf("Room %d", i))
		m.conns[roomID] = make(map[string]Conn)
		m.roomOrder = append(m.roomOrder, roomID)
	}

	return m
}

// OnEvent registers a handler for domain events. Handlers run
// synchronously on the mutating goroutine and must not call back into
// the manager.
func (m *Manager) OnEvent(handler EventHandler) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.eventHandlers = append(m.eventHandlers, handler)
}

// Events returns the recorded event history, oldest first
func (m *Manager) Events() []Event {
	return m.eventLog.Events()
}

// Rooms returns client-safe snapshots of all rooms in creation order
func (m *Manager) Rooms() []RoomState {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.roomSnapshots()
}

// RegisterWatcher adds a client on the room-list screen and immediately
// sends it the current snapshot.
func (m *Manager) RegisterWatcher(watcherID string, conn Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.watchers[watcherID] = conn
	_ = conn.Send(RoomsUpdate{Type: "rooms_update", Rooms: m.roomSnapshots()})
}

// UnregisterWatcher drops a watcher. Unknown ids are silently accepted.
func (m *Manager) UnregisterWatcher(watcherID string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.watchers, watcherID)
}

// JoinRoom attaches a player connection to a room. While a game runs the
// room only accepts its own players back (replacing their channel and
// replaying the current state); otherwise joining reserves a seat.
func (m *Manager) JoinRoom(roomID, playerID string, conn Conn) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return errors.New("Room does not exist.")
	}

	if room.Status == Status_InGame {
		if room.HasParticipant(playerID) || room.lobbyPlayer(playerID) != nil {
			// Reconnect: replace the channel and replay the current
			// state so the client doesn't miss broadcasts that fired
			// before its socket opened. Room state is untouched.
			m.conns[roomID][playerID] = conn
			m.playerRoom[playerID] = roomID
			if room.Game != nil {
				_ = conn.Send(newGameStateMessage(room.Game, playerID))
			}
			return nil
		}
		return errors.New("A game is already in progress in this room.")
	}

	if room.HasParticipant(playerID) {
		// Duplicate connect (e.g. a client remounting): refresh the
		// channel only.
		m.conns[roomID][playerID] = conn
		m.playerRoom[playerID] = roomID
		return nil
	}

	if room.PlayerCount >= room.MaxPlayers {
		return errors.New("Room is full.")
	}

	m.conns[roomID][playerID] = conn
	m.playerRoom[playerID] = roomID

	room.PlayerIDs = append(room.PlayerIDs, playerID)
	room.PlayerCount = len(room.PlayerIDs)
	m.setStatus(room, Status_Gathering)

	m.broadcastRoomUpdate(room)
	return nil
}

// LeaveRoom detaches a player connection. During a game only the
// connection goes away; seats, lobby names and status are preserved so
// the player can reconnect. EndGame owns that cleanup.
func (m *Manager) LeaveRoom(roomID, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	return m.leaveRoom(roomID, playerID)
}

func (m *Manager) leaveRoom(roomID, playerID string) bool {
	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	delete(m.conns[roomID], playerID)
	delete(m.playerRoom, playerID)

	if room.Status == Status_InGame {
		// The lobby still sees the connection count change
		m.broadcastRoomsToWatchers()
		return true
	}

	room.removeParticipant(playerID)
	room.removeLobbyPlayer(playerID)

	if room.PlayerCount == 0 {
		m.setStatus(room, Status_Empty)
	} else {
		m.setStatus(room, Status_Gathering)
	}

	m.broadcastRoomUpdate(room)
	m.broadcastLobbyUpdate(room)
	return true
}

// JoinLobby records a player's display name in the room's waiting list.
// Joining twice renames in place.
func (m *Manager) JoinLobby(roomID, playerID, playerName string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return errors.New("Room does not exist.")
	}
	if room.Status == Status_InGame {
		return errors.New("A game is already in progress in this room.")
	}

	name := trimName(playerName)
	if name == "" {
		return errors.New("Player name must not be empty.")
	}

	if existing := room.lobbyPlayer(playerID); existing != nil {
		existing.Name = name
	} else {
		room.LobbyPlayers = append(room.LobbyPlayers, LobbyPlayer{ID: playerID, Name: name})
	}

	m.playerRoom[playerID] = roomID
	m.broadcastLobbyUpdate(room)
	return nil
}

// LeaveLobby removes a player's named entry from the waiting list
func (m *Manager) LeaveLobby(roomID, playerID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	room.removeLobbyPlayer(playerID)
	delete(m.playerRoom, playerID)
	m.broadcastLobbyUpdate(room)
	return true
}

// StartGame deals round 1 for the room's named lobby players, seated in
// a fresh shuffled order.
func (m *Manager) StartGame(roomID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return errors.New("Room does not exist.")
	}
	if room.Status == Status_InGame {
		return errors.New("Game already in progress.")
	}
	if len(room.LobbyPlayers) < MinPlayers {
		return errors.New("Need at least 2 players to start.")
	}

	seating := make([]game.Player, 0, len(room.LobbyPlayers))
	for _, p := range room.LobbyPlayers {
		seating = append(seating, game.Player{ID: p.ID, Name: p.Name})
	}
	m.rng.Shuffle(len(seating), func(i, j int) {
		seating[i], seating[j] = seating[j], seating[i]
	})

	gs, err := game.NewGame(roomID, seating, m.rng)
	if err != nil {
		return err
	}

	m.setStatus(room, Status_InGame)
	room.Game = gs

	seated := make([]LobbyPlayer, 0, len(seating))
	for _, p := range seating {
		seated = append(seated, LobbyPlayer{ID: p.ID, Name: p.Name})
	}
	m.emitEvent(GameStarted{RoomID: roomID, Players: seated})

	// Clients must see game_starting before their first game_state
	m.broadcastToRoom(roomID, GameStarting{Type: "game_starting", RoomID: roomID, Players: seated})
	m.broadcastGameState(roomID)
	m.broadcastRoomsToWatchers()
	return nil
}

// DrawCard draws from the pile or the discard for the current player.
// source is "pile" or "discard".
func (m *Manager) DrawCard(roomID, playerID, source string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := m.liveGame(roomID)
	if room == nil {
		return errors.New("No active game.")
	}

	var err error
	if source == "discard" {
		err = room.Game.DrawFromDiscard(playerID)
	} else {
		err = room.Game.DrawFromPile(playerID)
	}
	if err != nil {
		return err
	}

	m.broadcastGameState(roomID)
	return nil
}

// DiscardCard discards for the current player and advances the turn
func (m *Manager) DiscardCard(roomID, playerID, cardID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := m.liveGame(roomID)
	if room == nil {
		return errors.New("No active game.")
	}

	if err := room.Game.DiscardCard(playerID, cardID); err != nil {
		return err
	}

	m.broadcastGameState(roomID)
	if room.Game.Phase == game.Phase_Scoring {
		m.broadcastRoundOver(room)
	}
	return nil
}

// GoOut lays the caller's hand down. The go-out notification is sent
// before the state that reflects it so clients can show both together.
func (m *Manager) GoOut(roomID, playerID, cardID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := m.liveGame(roomID)
	if room == nil {
		return errors.New("No active game.")
	}

	if err := room.Game.GoOut(playerID, cardID); err != nil {
		return err
	}

	player := room.Game.PlayerByID(playerID)
	m.emitEvent(PlayerWentOut{
		RoomID:              roomID,
		PlayerID:            playerID,
		PlayerName:          player.Name,
		FinalTurnsRemaining: room.Game.FinalTurnsRemaining,
	})
	m.broadcastToRoom(roomID, PlayerWentOutMessage{
		Type:                "player_went_out",
		PlayerID:            playerID,
		PlayerName:          player.Name,
		FinalTurnsRemaining: room.Game.FinalTurnsRemaining,
	})

	m.broadcastGameState(roomID)
	if room.Game.Phase == game.Phase_Scoring {
		m.broadcastRoundOver(room)
	}
	return nil
}

// NextRound records one player's confirmation to continue. The round
// advances only once every seated player has confirmed; repeated clicks
// are no-ops.
func (m *Manager) NextRound(roomID, playerID string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room := m.liveGame(roomID)
	if room == nil {
		return errors.New("No active game.")
	}

	gs := room.Game
	if gs.Phase != game.Phase_Scoring && gs.Phase != game.Phase_Finished {
		return errors.New("Round is not over yet.")
	}
	if gs.PlayerByID(playerID) == nil {
		// Only seated players count towards the confirmation set
		return errors.New("unknown player")
	}

	if gs.HasConfirmedNextRound(playerID) {
		return nil
	}
	gs.NextRoundConfirmed = append(gs.NextRoundConfirmed, playerID)

	for _, p := range gs.Players {
		if !gs.HasConfirmedNextRound(p.ID) {
			// Someone is still on the results screen; show everyone
			// who has confirmed so far.
			m.broadcastGameState(roomID)
			return nil
		}
	}

	if err := gs.AdvanceToNextRound(m.rng); err != nil {
		return err
	}

	if gs.Phase == game.Phase_Finished {
		m.broadcastGameFinished(room)
		return nil
	}

	m.broadcastGameState(roomID)
	return nil
}

// EndGame resets a room to empty after a game. Every connection gets a
// lobby_reset sent directly instead of through the broadcast-with-cleanup
// path, because a failed send there would invoke leaveRoom against the
// state being torn down.
func (m *Manager) EndGame(roomID string) bool {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return false
	}

	snapshot := make(map[string]Conn, len(m.conns[roomID]))
	for playerID, conn := range m.conns[roomID] {
		snapshot[playerID] = conn
	}
	for _, conn := range snapshot {
		// A dead client is being cleared anyway
		_ = conn.Send(LobbyReset{Type: "lobby_reset", RoomID: roomID})
	}

	if room.Game != nil {
		m.emitEvent(GameEnded{RoomID: roomID, Leaderboard: leaderboard(room.Game)})
	}

	m.setStatus(room, Status_Empty)
	room.PlayerIDs = []string{}
	room.LobbyPlayers = []LobbyPlayer{}
	room.PlayerCount = 0
	room.Game = nil
	m.conns[roomID] = make(map[string]Conn)
	for playerID, mapped := range m.playerRoom {
		if mapped == roomID {
			delete(m.playerRoom, playerID)
		}
	}

	m.broadcastRoomsToWatchers()
	return true
}

// SendLobbyState replays the current waiting list to a single connection
// so late joiners see it without waiting for the next change.
func (m *Manager) SendLobbyState(roomID string, conn Conn) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	room, ok := m.rooms[roomID]
	if !ok {
		return
	}
	_ = conn.Send(newLobbyUpdate(room))
}

// liveGame returns the room if it exists and has a game in progress
func (m *Manager) liveGame(roomID string) *RoomState {
	room, ok := m.rooms[roomID]
	if !ok || room.Game == nil {
		return nil
	}
	return room
}

// setStatus transitions a room's status, emitting an event on change
func (m *Manager) setStatus(room *RoomState, to Status) {
	if room.Status == to {
		return
	}
	from := room.Status
	room.Status = to
	m.emitEvent(RoomStatusChanged{RoomID: room.RoomID, From: from, To: to})
}

func (m *Manager) emitEvent(event Event) {
	m.eventLog.Append(event)
	for _, handler := range m.eventHandlers {
		handler(event)
	}
}

func (m *Manager) roomSnapshots() []RoomState {
	rooms := make([]RoomState, 0, len(m.roomOrder))
	for _, roomID := range m.roomOrder {
		rooms = append(rooms, m.rooms[roomID].Snapshot())
	}
	return rooms
}

func leaderboard(gs *game.GameState) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(gs.Players))
	for _, p := range gs.Players {
		entries = append(entries, LeaderboardEntry{ID: p.ID, Name: p.Name, Score: p.CumulativeScore})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score < entries[j].Score
	})
	return entries
}

// --- Broadcast helpers (callers hold the lock) ---

// broadcastToRoom sends a message to every connection in a room,
// cleaning up after peers whose send fails. A failed send means the
// peer is gone: those targets are collected during the loop and left
// out of the room after it, so one dead client never blocks siblings.
// Returns how many sends succeeded.
func (m *Manager) broadcastToRoom(roomID string, message any) int {
	targets, ok := m.conns[roomID]
	if !ok {
		return 0
	}

	snapshot := make(map[string]Conn, len(targets))
	for playerID, conn := range targets {
		snapshot[playerID] = conn
	}

	sent := 0
	var failed []string
	for playerID, conn := range snapshot {
		if err := conn.Send(message); err != nil {
			failed = append(failed, playerID)
			continue
		}
		sent++
	}
	for _, playerID := range failed {
		m.leaveRoom(roomID, playerID)
	}
	return sent
}

// broadcastGameState sends each connected player their personalised view
func (m *Manager) broadcastGameState(roomID string) {
	room := m.liveGame(roomID)
	if room == nil {
		return
	}

	snapshot := make(map[string]Conn, len(m.conns[roomID]))
	for playerID, conn := range m.conns[roomID] {
		snapshot[playerID] = conn
	}

	var failed []string
	for playerID, conn := range snapshot {
		if err := conn.Send(newGameStateMessage(room.Game, playerID)); err != nil {
			failed = append(failed, playerID)
		}
	}
	for _, playerID := range failed {
		m.leaveRoom(roomID, playerID)
	}
}

func (m *Manager) broadcastRoundOver(room *RoomState) {
	if room.Game == nil {
		return
	}
	m.emitEvent(RoundEnded{
		RoomID:      room.RoomID,
		RoundNumber: room.Game.RoundNumber,
		Results:     room.Game.LastRoundResults,
	})
	m.broadcastToRoom(room.RoomID, RoundOver{
		Type:        "round_over",
		RoundNumber: room.Game.RoundNumber,
		Results:     room.Game.LastRoundResults,
	})
}

func (m *Manager) broadcastGameFinished(room *RoomState) {
	if room.Game == nil {
		return
	}
	board := leaderboard(room.Game)
	m.emitEvent(GameEnded{RoomID: room.RoomID, Leaderboard: board})
	m.broadcastToRoom(room.RoomID, GameFinished{Type: "game_finished", Leaderboard: board})
}

// broadcastRoomUpdate pushes the full room list to every watcher and a
// targeted room_state to clients inside the affected room.
func (m *Manager) broadcastRoomUpdate(room *RoomState) {
	m.broadcastRoomsToWatchers()
	m.broadcastToRoom(room.RoomID, RoomUpdate{Type: "room_state", Room: room.Snapshot()})
}

// broadcastRoomsToWatchers snapshots the room list once and fans it out.
// Watchers whose send fails are dropped; they hold no room state, so no
// further cleanup applies.
func (m *Manager) broadcastRoomsToWatchers() {
	payload := RoomsUpdate{Type: "rooms_update", Rooms: m.roomSnapshots()}

	snapshot := make(map[string]Conn, len(m.watchers))
	for watcherID, conn := range m.watchers {
		snapshot[watcherID] = conn
	}

	var failed []string
	for watcherID, conn := range snapshot {
		if err := conn.Send(payload); err != nil {
			failed = append(failed, watcherID)
		}
	}
	for _, watcherID := range failed {
		delete(m.watchers, watcherID)
	}
}

func (m *Manager) broadcastLobbyUpdate(room *RoomState) {
	m.broadcastToRoom(room.RoomID, newLobbyUpdate(room))
}
