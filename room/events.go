package room

import (
	"reflect"
	"sync"

	"github.com/lazharichir/threethirteen/game"
)

// Event is a domain event published by the manager after a state
// transition. Events are observational: nothing in the room lifecycle
// depends on who listens.
type Event interface {
	Name() string
}

type EventHandler func(event Event)

type RoomStatusChanged struct {
	RoomID string
	From   Status
	To     Status
}

func (e RoomStatusChanged) Name() string { return "ROOM_STATUS_CHANGED" }

type GameStarted struct {
	RoomID  string
	Players []LobbyPlayer
}

func (e GameStarted) Name() string { return "GAME_STARTED" }

type PlayerWentOut struct {
	RoomID              string
	PlayerID            string
	PlayerName          string
	FinalTurnsRemaining int
}

func (e PlayerWentOut) Name() string { return "PLAYER_WENT_OUT" }

type RoundEnded struct {
	RoomID      string
	RoundNumber int
	Results     []game.RoundResult
}

func (e RoundEnded) Name() string { return "ROUND_ENDED" }

type GameEnded struct {
	RoomID      string
	Leaderboard []LeaderboardEntry
}

func (e GameEnded) Name() string { return "GAME_ENDED" }

// ExtractRoomID pulls the RoomID field out of an event via reflection
func ExtractRoomID(event Event) string {
	val := reflect.ValueOf(event)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return ""
	}
	field := val.FieldByName("RoomID")
	if field.IsValid() && field.Kind() == reflect.String {
		return field.String()
	}
	return ""
}

// EventLog is a capped in-memory record of published events, oldest
// first. When the cap is exceeded the oldest entries fall off.
type EventLog struct {
	mutex    sync.RWMutex
	events   []Event
	capacity int
}

func NewEventLog(capacity int) *EventLog {
	return &EventLog{capacity: capacity}
}

// Append records an event, trimming the log to capacity
func (l *EventLog) Append(event Event) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	l.events = append(l.events, event)
	if len(l.events) > l.capacity {
		l.events = l.events[len(l.events)-l.capacity:]
	}
}

// Events returns a copy of the recorded events
func (l *EventLog) Events() []Event {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	result := make([]Event, len(l.events))
	copy(result, l.events)
	return result
}

// EventsForRoom returns the recorded events carrying the given room id
func (l *EventLog) EventsForRoom(roomID string) []Event {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	var result []Event
	for _, e := range l.events {
		if ExtractRoomID(e) == roomID {
			result = append(result, e)
		}
	}
	return result
}
