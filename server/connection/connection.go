package connection

import (
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/gorilla/websocket"
)

const sendBufferSize = 256

// Client represents a connected peer: a player inside a room or a
// watcher on the room list. Outbound messages go through a buffered
// queue drained by the write pump, so senders never block on a slow
// socket.
type Client struct {
	ID     string
	RoomID string // empty for watchers

	conn *websocket.Conn
	send chan []byte

	closeOnce sync.Once
	closed    chan struct{}
}

// NewClient wraps an upgraded WebSocket connection
func NewClient(id, roomID string, conn *websocket.Conn) *Client {
	return &Client{
		ID:     id,
		RoomID: roomID,
		conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		closed: make(chan struct{}),
	}
}

// Send marshals v and queues it for the write pump. It never blocks: a
// closed client or a full queue returns an error, and the coordinator
// treats any send error as a dead peer.
func (c *Client) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case <-c.closed:
		return errors.New("client closed")
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return errors.New("send buffer full")
	}
}

// Close signals both pumps to stop. Safe to call more than once.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.closed)
	})
}

// ReadPump reads messages off the socket and hands them to handle,
// returning when the socket dies. cleanup runs exactly once on the way
// out, before the socket is torn down.
func (c *Client) ReadPump(handle func(message []byte), cleanup func()) {
	defer func() {
		cleanup()
		c.Close()
		c.conn.Close()
	}()

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("Read error for client %s: %v", c.ID, err)
			}
			return
		}
		handle(message)
	}
}

// WritePump drains the send queue onto the socket
func (c *Client) WritePump() {
	defer c.conn.Close()

	for {
		select {
		case message := <-c.send:
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("Write error for client %s: %v", c.ID, err)
				return
			}
		case <-c.closed:
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
