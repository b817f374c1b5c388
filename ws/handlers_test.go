package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/judgegodwins/snake-server/game"
	"github.com/judgegodwins/snake-server/http_utils"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()

	c := NewClient(uuid.NewString(), "judge", nil, testManager)
	testManager.addClient(c)
	return c
}

func drain(c *Client) []Event {
	var events []Event
	for {
		select {
		case e := <-c.egress:
			events = append(events, e)
		default:
			return events
		}
	}
}

func findEvent(events []Event, typ string) (Event, bool) {
	for _, e := range events {
		if e.Type == typ {
			return e, true
		}
	}
	return Event{}, false
}

func decodePayload[T any](t *testing.T, e Event) T {
	t.Helper()

	var v T
	require.NoError(t, json.Unmarshal(e.Payload, &v))
	return v
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func createRoom(t *testing.T, c *Client) string {
	t.Helper()

	require.NoError(t, CreateRoomHandler(Event{Type: EventCreateRoom}, c))

	code := c.RoomCode()
	require.Len(t, code, game.CodeLength)

	t.Cleanup(func() {
		testManager.registry.Leave(code, c.ID)
	})

	return code
}

func TestCreateRoomFlow(t *testing.T) {
	c := newTestClient(t)
	code := createRoom(t, c)

	events := drain(c)

	created, ok := findEvent(events, EventRoomCreated)
	require.True(t, ok)
	require.Equal(t, RoomCreatedPayload{RoomCode: code, IsHost: true}, decodePayload[RoomCreatedPayload](t, created))

	joined, ok := findEvent(events, EventJoined)
	require.True(t, ok)
	require.Equal(t, JoinedPayload{Success: true, RoomCode: code, IsHost: true}, decodePayload[JoinedPayload](t, joined))

	update, ok := findEvent(events, game.EventPlayersUpdate)
	require.True(t, ok)
	require.Equal(t, game.PlayersUpdatePayload{PlayerCount: 1, MaxPlayers: game.MaxPlayers, RoomCode: code}, decodePayload[game.PlayersUpdatePayload](t, update))

	// a second createRoom while bound is a no-op
	require.NoError(t, CreateRoomHandler(Event{Type: EventCreateRoom}, c))
	require.Equal(t, code, c.RoomCode())
}

func TestJoinAndStartScenario(t *testing.T) {
	host := newTestClient(t)
	guest := newTestClient(t)

	code := createRoom(t, host)
	drain(host)

	err := JoinRoomHandler(Event{
		Type:    EventJoinRoom,
		Payload: mustJSON(t, JoinRoomPayload{RoomCode: code}),
	}, guest)
	require.NoError(t, err)
	require.Equal(t, code, guest.RoomCode())

	t.Cleanup(func() {
		testManager.registry.Leave(code, guest.ID)
	})

	guestEvents := drain(guest)

	joined, ok := findEvent(guestEvents, EventJoined)
	require.True(t, ok)
	require.Equal(t, JoinedPayload{Success: true, RoomCode: code, IsHost: false}, decodePayload[JoinedPayload](t, joined))

	update, ok := findEvent(guestEvents, game.EventPlayersUpdate)
	require.True(t, ok)
	require.Equal(t, game.PlayersUpdatePayload{PlayerCount: 2, MaxPlayers: game.MaxPlayers, RoomCode: code}, decodePayload[game.PlayersUpdatePayload](t, update))

	update, ok = findEvent(drain(host), game.EventPlayersUpdate)
	require.True(t, ok)
	require.Equal(t, 2, decodePayload[game.PlayersUpdatePayload](t, update).PlayerCount)

	// a non-host start is answered with an error event only
	require.NoError(t, StartGameHandler(Event{Type: EventStartGame}, guest))

	guestEvents = drain(guest)
	errEvent, ok := findEvent(guestEvents, EventError)
	require.True(t, ok)
	require.Equal(t, ErrorPayload{Message: game.ErrNotHost.Error()}, decodePayload[ErrorPayload](t, errEvent))
	_, ok = findEvent(guestEvents, game.EventGameStarted)
	require.False(t, ok)

	require.NoError(t, StartGameHandler(Event{Type: EventStartGame}, host))

	room, ok := testManager.registry.Get(code)
	require.True(t, ok)
	t.Cleanup(room.Stop)

	_, ok = findEvent(drain(host), game.EventGameStarted)
	require.True(t, ok)
	_, ok = findEvent(drain(guest), game.EventGameStarted)
	require.True(t, ok)
}

func TestJoinRoomNotFound(t *testing.T) {
	c := newTestClient(t)

	err := JoinRoomHandler(Event{
		Type:    EventJoinRoom,
		Payload: mustJSON(t, JoinRoomPayload{RoomCode: "ZZZZZZ"}),
	}, c)
	require.NoError(t, err)
	require.Empty(t, c.RoomCode())

	joined, ok := findEvent(drain(c), EventJoined)
	require.True(t, ok)

	payload := decodePayload[JoinedPayload](t, joined)
	require.False(t, payload.Success)
	require.Equal(t, "Room not found", payload.Reason)
}

func TestJoinRoomInvalidCode(t *testing.T) {
	c := newTestClient(t)

	err := JoinRoomHandler(Event{
		Type:    EventJoinRoom,
		Payload: mustJSON(t, JoinRoomPayload{RoomCode: "ab"}),
	}, c)
	require.NoError(t, err)

	joined, ok := findEvent(drain(c), EventJoined)
	require.True(t, ok)
	require.False(t, decodePayload[JoinedPayload](t, joined).Success)
}

func TestJoinRoomFull(t *testing.T) {
	host := newTestClient(t)
	code := createRoom(t, host)

	for i := 0; i < game.MaxPlayers-1; i++ {
		guest := newTestClient(t)
		require.NoError(t, JoinRoomHandler(Event{
			Type:    EventJoinRoom,
			Payload: mustJSON(t, JoinRoomPayload{RoomCode: code}),
		}, guest))
		require.Equal(t, code, guest.RoomCode())

		t.Cleanup(func() {
			testManager.registry.Leave(code, guest.ID)
		})
	}

	late := newTestClient(t)
	require.NoError(t, JoinRoomHandler(Event{
		Type:    EventJoinRoom,
		Payload: mustJSON(t, JoinRoomPayload{RoomCode: code}),
	}, late))
	require.Empty(t, late.RoomCode())

	joined, ok := findEvent(drain(late), EventJoined)
	require.True(t, ok)

	payload := decodePayload[JoinedPayload](t, joined)
	require.False(t, payload.Success)
	require.Equal(t, "Room is full", payload.Reason)
}

func TestMoveHandlerDropsInvalidVectors(t *testing.T) {
	c := newTestClient(t)
	createRoom(t, c)

	// not a unit vector
	require.NoError(t, MoveHandler(Event{
		Type:    EventMove,
		Payload: mustJSON(t, MovePayload{X: 2, Y: 0}),
	}, c))

	// diagonal
	require.NoError(t, MoveHandler(Event{
		Type:    EventMove,
		Payload: mustJSON(t, MovePayload{X: 1, Y: 1}),
	}, c))

	// malformed payload is reported to the dispatcher, not the peer
	require.Error(t, MoveHandler(Event{
		Type:    EventMove,
		Payload: json.RawMessage(`"up"`),
	}, c))

	require.NoError(t, MoveHandler(Event{
		Type:    EventMove,
		Payload: mustJSON(t, MovePayload{X: 0, Y: 1}),
	}, c))
}

func TestMoveWhileUnboundIgnored(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, MoveHandler(Event{
		Type:    EventMove,
		Payload: mustJSON(t, MovePayload{X: 0, Y: 1}),
	}, c))
	require.Empty(t, drain(c))
}

func TestRouteEventsUnknownType(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, testManager.routeEvents(Event{Type: "teleport"}, c))
	require.Empty(t, drain(c))
}

func TestSessionHandler(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(`{"username":"judge"}`))
	rec := httptest.NewRecorder()

	testManager.SessionHandler(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		http_utils.BaseResponse
		Data map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.Equal(t, "judge", resp.Data["username"])
	require.NotEmpty(t, resp.Data["token"])

	// the token id is the player id the socket authenticates as
	payload, err := testManager.tokenMaker.VerifyToken(resp.Data["token"])
	require.NoError(t, err)
	require.Equal(t, resp.Data["id"], payload.ID.String())
	require.Equal(t, "judge", payload.Username)
}

func TestSessionHandlerRejectsBadBodies(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"missing username", `{}`},
		{"username too short", `{"username":"j"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/session", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			testManager.SessionHandler(rec, req)
			require.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDisconnectCleansUpRoom(t *testing.T) {
	c := newTestClient(t)

	require.NoError(t, CreateRoomHandler(Event{Type: EventCreateRoom}, c))
	code := c.RoomCode()
	require.NotEmpty(t, code)

	testManager.removeClient(c)

	require.Empty(t, c.RoomCode())
	_, ok := testManager.registry.Get(code)
	require.False(t, ok, "empty room should be deleted on disconnect")
}
