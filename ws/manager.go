package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"reflect"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
	"github.com/judgegodwins/snake-server/game"
	"github.com/judgegodwins/snake-server/http_utils"
	"github.com/judgegodwins/snake-server/token"
)

// Manager owns the set of live connections and the inbound dispatch
// table, and gates the websocket handshake with session tokens.
type Manager struct {
	registry   *game.Registry
	tokenMaker token.Maker
	validate   *validator.Validate
	upgrader   websocket.Upgrader
	clients    map[string]*Client
	handlers   map[string]EventHandler
	sync.RWMutex
}

func NewManager(maker token.Maker, registry *game.Registry, allowedOrigin string) *Manager {
	m := &Manager{
		registry:   registry,
		tokenMaker: maker,
		validate:   validator.New(),
		clients:    make(map[string]*Client),
		handlers:   make(map[string]EventHandler),
	}

	m.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return origin == "" || allowedOrigin == "*" || origin == allowedOrigin
		},
	}

	m.setupEventHandlers()
	return m
}

func (m *Manager) setupEventHandlers() {
	m.handlers[EventCreateRoom] = CreateRoomHandler
	m.handlers[EventJoinRoom] = JoinRoomHandler
	m.handlers[EventStartGame] = StartGameHandler
	m.handlers[EventMove] = MoveHandler
}

// routeEvents dispatches an inbound event. Unknown types are dropped.
func (m *Manager) routeEvents(e Event, c *Client) error {
	handler, ok := m.handlers[e.Type]
	if !ok {
		log.Printf("no handler for %q event from client %v", e.Type, c.ID)
		return nil
	}

	return handler(e, c)
}

func (m *Manager) addClient(client *Client) {
	m.Lock()
	defer m.Unlock()

	m.clients[client.SocketID] = client
}

// removeClient leaves the bound room before closing the socket, so a
// disconnect always runs the room cleanup path (host promotion, empty
// room deletion).
func (m *Manager) removeClient(client *Client) {
	if code := client.RoomCode(); code != "" {
		m.registry.Leave(code, client.ID)
		client.setRoomCode("")
	}

	m.Lock()
	defer m.Unlock()

	if _, ok := m.clients[client.SocketID]; ok {
		if client.connection != nil {
			client.connection.Close()
		}
		delete(m.clients, client.SocketID)
	}
}

type sessionRequest struct {
	Username string `json:"username" validate:"required,min=2,max=20"`
}

// SessionHandler issues the token a client presents on the websocket
// handshake. The token id becomes the player id.
func (m *Manager) SessionHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var data sessionRequest
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		http_utils.SendResponse(w, http.StatusBadRequest, http_utils.NewBaseResponse(false, "invalid body, username required"))
		return
	}

	if vErr := http_utils.ValidateStruct(m.validate, data); !reflect.ValueOf(vErr).IsZero() {
		http_utils.SendResponse(w, http.StatusBadRequest, vErr)
		return
	}

	tok, payload, err := m.tokenMaker.CreateToken(data.Username, 24*time.Hour)

	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	http_utils.SendResponse(w, http.StatusOK, http_utils.DataResponse{
		BaseResponse: http_utils.NewBaseResponse(true, "session created"),
		Data: map[string]string{
			"id":       payload.ID.String(),
			"username": payload.Username,
			"token":    tok,
		},
	})
}

func (m *Manager) ServeWS(w http.ResponseWriter, r *http.Request) {
	tok := r.URL.Query().Get("token")

	if tok == "" {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	payload, err := m.tokenMaker.VerifyToken(tok)

	if err != nil {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	conn, err := m.upgrader.Upgrade(w, r, nil)

	if err != nil {
		log.Println(err)
		return
	}

	client := NewClient(payload.ID.String(), payload.Username, conn, m)
	m.addClient(client)

	log.Println("player connected:", client.ID)

	client.Emit(EventConnected, ConnectedPayload{PlayerID: client.ID})

	go client.readMessages()
	go client.writeMessages()
}
