package ws

import "encoding/json"

// Event is the wire envelope for both directions.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type EventHandler = func(e Event, c *Client) error

// Inbound event types.
const (
	EventCreateRoom = "createRoom"
	EventJoinRoom   = "joinRoom"
	EventStartGame  = "startGame"
	EventMove       = "move"
)

// Outbound event types scoped to a single connection. Room-wide
// broadcasts (playersUpdate, gameState, ...) are named in the game
// package.
const (
	EventConnected   = "connected"
	EventRoomCreated = "roomCreated"
	EventJoined      = "joined"
	EventError       = "error"
)

type ConnectedPayload struct {
	PlayerID string `json:"playerId"`
}

type JoinRoomPayload struct {
	RoomCode string `json:"roomCode" validate:"required,len=6,alphanum"`
}

type MovePayload struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type RoomCreatedPayload struct {
	RoomCode string `json:"roomCode"`
	IsHost   bool   `json:"isHost"`
}

type JoinedPayload struct {
	Success  bool   `json:"success"`
	RoomCode string `json:"roomCode,omitempty"`
	IsHost   bool   `json:"isHost"`
	Reason   string `json:"reason,omitempty"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
