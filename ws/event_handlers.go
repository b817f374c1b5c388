package ws

import (
	"encoding/json"
	"errors"

	"github.com/judgegodwins/snake-server/game"
)

// CreateRoomHandler registers a fresh room with the requester as host.
// Ignored while the client is already bound to a room.
func CreateRoomHandler(e Event, c *Client) error {
	if c.RoomCode() != "" {
		return nil
	}

	room, err := c.manager.registry.CreateRoom(c.ID, c)

	if err != nil {
		return err
	}

	c.setRoomCode(room.Code())

	c.Emit(EventRoomCreated, RoomCreatedPayload{RoomCode: room.Code(), IsHost: true})
	c.Emit(EventJoined, JoinedPayload{Success: true, RoomCode: room.Code(), IsHost: true})
	room.AnnouncePlayers()

	return nil
}

// JoinRoomHandler binds the client to an existing room. Failures answer
// the requester only, with the reason the client displays.
func JoinRoomHandler(e Event, c *Client) error {
	if c.RoomCode() != "" {
		return nil
	}

	var payload JoinRoomPayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return err
	}

	if err := c.manager.validate.Struct(payload); err != nil {
		c.Emit(EventJoined, JoinedPayload{Success: false, Reason: game.ErrRoomNotFound.Error()})
		return nil
	}

	room, err := c.manager.registry.Join(payload.RoomCode, c.ID, c)

	if err != nil {
		c.Emit(EventJoined, JoinedPayload{Success: false, Reason: err.Error()})
		return nil
	}

	c.setRoomCode(room.Code())
	c.Emit(EventJoined, JoinedPayload{Success: true, RoomCode: room.Code(), IsHost: room.HostID() == c.ID})
	room.AnnouncePlayers()

	return nil
}

// StartGameHandler starts the bound room's match. Only the non-host
// rejection is surfaced; other start failures are dropped.
func StartGameHandler(e Event, c *Client) error {
	code := c.RoomCode()
	if code == "" {
		return nil
	}

	room, ok := c.manager.registry.Get(code)
	if !ok {
		return nil
	}

	if err := room.Start(c.ID); err != nil {
		if errors.Is(err, game.ErrNotHost) {
			c.Emit(EventError, ErrorPayload{Message: err.Error()})
		}
	}

	return nil
}

// MoveHandler forwards a direction change. Anything but a unit cardinal
// vector is dropped before the room sees it.
func MoveHandler(e Event, c *Client) error {
	code := c.RoomCode()
	if code == "" {
		return nil
	}

	var payload MovePayload
	if err := json.Unmarshal(e.Payload, &payload); err != nil {
		return err
	}

	if payload.X*payload.X+payload.Y*payload.Y != 1 {
		return nil
	}

	if room, ok := c.manager.registry.Get(code); ok {
		room.UpdateDirection(c.ID, game.Vec{X: payload.X, Y: payload.Y})
	}

	return nil
}
