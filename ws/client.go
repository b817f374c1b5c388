package ws

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var (
	pongWait = 10 * time.Second

	pingInterval = (pongWait * 8) / 10
)

const egressBuffer = 32

// Client is one websocket session: the player id it authenticated as and
// the room it is currently bound to, if any.
type Client struct {
	ID       string
	SocketID string
	Username string

	manager    *Manager
	connection *websocket.Conn
	egress     chan Event
	done       chan struct{}
	closeOnce  sync.Once

	mu       sync.Mutex
	roomCode string
}

func NewClient(id, username string, conn *websocket.Conn, m *Manager) *Client {
	return &Client{
		ID:         id,
		SocketID:   uuid.NewString(),
		Username:   username,
		manager:    m,
		connection: conn,
		egress:     make(chan Event, egressBuffer),
		done:       make(chan struct{}),
	}
}

func (c *Client) RoomCode() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.roomCode
}

func (c *Client) setRoomCode(code string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomCode = code
}

// Emit implements game.Emitter. It never blocks: a slow consumer drops
// frames instead of stalling the room's tick loop.
func (c *Client) Emit(event string, payload any) {
	data, err := json.Marshal(payload)

	if err != nil {
		log.Printf("err marshalling %v payload for client %v: %v", event, c.ID, err)
		return
	}

	select {
	case c.egress <- Event{Type: event, Payload: data}:
	default:
		log.Printf("egress full, dropping %v event for client %v", event, c.ID)
	}
}

func (c *Client) readMessages() {
	defer c.close()

	if err := c.connection.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		log.Println(err)
		return
	}

	c.connection.SetPongHandler(c.pongHandler)

	for {
		_, payload, err := c.connection.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				log.Println("unexpected closure of socket connection:", err)
			}
			return
		}

		var evt Event
		if err := json.Unmarshal(payload, &evt); err != nil {
			log.Printf("dropping malformed message from client %v: %v", c.ID, err)
			continue
		}

		if err := c.manager.routeEvents(evt, c); err != nil {
			log.Printf("dropping %v event from client %v: %v", evt.Type, c.ID, err)
		}
	}
}

func (c *Client) writeMessages() {
	ticker := time.NewTicker(pingInterval)

	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case event := <-c.egress:
			message, err := json.Marshal(event)

			if err != nil {
				log.Printf("err marshalling event %v to message for client %v", event.Type, c.ID)
				continue
			}

			if err := c.connection.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Println("write error:", err)
				return
			}
		case <-ticker.C:
			if err := c.connection.WriteMessage(websocket.PingMessage, []byte{}); err != nil {
				log.Println("cannot send ping message:", err)
				return
			}
		case <-c.done:
			c.connection.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}

// close tears the session down exactly once: the manager unbinds the room
// (triggering removePlayer) and closes the socket, which also unblocks the
// other pump.
func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.manager.removeClient(c)
	})
}

func (c *Client) pongHandler(pongMsg string) error {
	return c.connection.SetReadDeadline(time.Now().Add(pongWait))
}
