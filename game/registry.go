package game

import (
	"errors"
	"log"
	"strings"
	"sync"
	"time"
)

var ErrRoomNotFound = errors.New("Room not found")

// Registry maps room codes to live rooms. It is the only structure shared
// across rooms; creation, lookup and the sweep serialize on its mutex, so
// two concurrent creates can never collide on a generated code.
type Registry struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	stopCh chan struct{}
	wg     sync.WaitGroup
}

func NewRegistry() *Registry {
	reg := &Registry{
		rooms:  make(map[string]*Room),
		stopCh: make(chan struct{}),
	}

	reg.wg.Add(1)
	go reg.sweepLoop()

	return reg
}

// CreateRoom registers a room under a fresh code and joins the creator as
// its host.
func (reg *Registry) CreateRoom(playerID string, conn Emitter) (*Room, error) {
	reg.mu.Lock()

	var code string
	for {
		code = randomCode()
		if _, taken := reg.rooms[code]; !taken {
			break
		}
	}

	room := NewRoom(code)
	reg.rooms[code] = room
	reg.mu.Unlock()

	if err := room.AddPlayer(playerID, conn); err != nil {
		// cannot happen on a fresh room; never leave a phantom entry
		reg.mu.Lock()
		delete(reg.rooms, code)
		reg.mu.Unlock()
		return nil, err
	}

	log.Printf("room created: %v by %v", code, playerID)
	return room, nil
}

// Join adds a player to the room behind code. Codes are case-insensitive.
func (reg *Registry) Join(code, playerID string, conn Emitter) (*Room, error) {
	room, ok := reg.Get(strings.ToUpper(code))
	if !ok {
		return nil, ErrRoomNotFound
	}

	if err := room.AddPlayer(playerID, conn); err != nil {
		return nil, err
	}

	log.Printf("player %v joined room %v", playerID, room.Code())
	return room, nil
}

// Leave removes a player from their room, deleting the room once it is
// empty and re-announcing the roster otherwise.
func (reg *Registry) Leave(code, playerID string) {
	room, ok := reg.Get(code)
	if !ok {
		return
	}

	if room.RemovePlayer(playerID) {
		reg.mu.Lock()
		delete(reg.rooms, code)
		reg.mu.Unlock()
		log.Printf("deleted empty room: %v", code)
		return
	}

	room.AnnouncePlayers()
}

func (reg *Registry) Get(code string) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	room, ok := reg.rooms[code]
	return room, ok
}

func (reg *Registry) Len() int {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	return len(reg.rooms)
}

func (reg *Registry) sweepLoop() {
	defer reg.wg.Done()

	ticker := time.NewTicker(SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			reg.Sweep()
		case <-reg.stopCh:
			return
		}
	}
}

// Sweep evicts rooms that are empty or older than MaxRoomAge, so
// abandoned rooms cannot accumulate.
func (reg *Registry) Sweep() {
	now := time.Now()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for code, room := range reg.rooms {
		if room.PlayerCount() == 0 || now.Sub(room.createdAt) > MaxRoomAge {
			room.Stop()
			delete(reg.rooms, code)
			log.Printf("deleted empty/old room: %v", code)
		}
	}
}

// Close stops the sweep goroutine and tears down every room.
func (reg *Registry) Close() {
	close(reg.stopCh)
	reg.wg.Wait()

	reg.mu.Lock()
	defer reg.mu.Unlock()

	for code, room := range reg.rooms {
		room.Stop()
		delete(reg.rooms, code)
	}
}
