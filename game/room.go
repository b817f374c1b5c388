package game

import (
	"errors"
	"sync"
	"time"

	"github.com/samber/lo"
)

// Join and start failures surfaced to the requesting connection. The
// messages are the exact strings the client displays.
var (
	ErrRoomFull       = errors.New("Room is full")
	ErrGameInProgress = errors.New("Game already in progress")
	ErrAlreadyInRoom  = errors.New("Already in this room")
	ErrNotHost        = errors.New("Only the host can start the game")
)

type State int

const (
	StateLobby State = iota
	StateActive
	StateEnded
)

// Room owns one match: players, food and every pending timer. A single
// mutex serializes ticks, timer callbacks, joins/leaves and direction
// updates; rooms are independent of each other.
//
// The tick loop is self-rescheduling: each tick arms the next one with a
// delay recomputed from current boost state. Timer callbacks re-check the
// room state after locking, so a canceled room's late-firing timer
// mutates nothing.
type Room struct {
	code      string
	createdAt time.Time

	mu          sync.Mutex
	state       State
	hostID      string
	players     map[string]*Player
	order       []string // join order; drives host promotion, slots and tie-breaks
	food        []*Food
	specialFood *Food
	startedAt   time.Time
	endsAt      time.Time

	tickTimer     *time.Timer
	foodTimer     *time.Timer
	specialTimer  *time.Timer
	deadlineTimer *time.Timer
	resetTimer    *time.Timer
	foodExpiry    map[string]*time.Timer
}

func NewRoom(code string) *Room {
	return &Room{
		code:       code,
		createdAt:  time.Now(),
		players:    make(map[string]*Player),
		foodExpiry: make(map[string]*time.Timer),
	}
}

func (r *Room) Code() string {
	return r.code
}

func (r *Room) HostID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hostID
}

func (r *Room) PlayerCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// AddPlayer joins a connection to the room. The first player becomes
// host. Rejected while a match is running or when the room is full.
func (r *Room) AddPlayer(id string, conn Emitter) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == StateActive {
		return ErrGameInProgress
	}
	if len(r.players) >= MaxPlayers {
		return ErrRoomFull
	}
	if _, ok := r.players[id]; ok {
		return ErrAlreadyInRoom
	}

	used := lo.Map(lo.Values(r.players), func(p *Player, _ int) string { return p.color })
	color, _ := lo.Find(colorPalette[:], func(c string) bool { return !lo.Contains(used, c) })

	start := startPositions[len(r.players)]
	p := &Player{
		id:        id,
		conn:      conn,
		snake:     []Vec{start},
		direction: initialDirection,
		color:     color,
		alive:     true,
		startPos:  start,
	}

	r.players[id] = p
	r.order = append(r.order, id)

	if len(r.players) == 1 {
		r.hostID = id
	}

	return nil
}

// RemovePlayer drops a player and reports whether the room is now empty;
// the registry deletes empty rooms. When the host leaves, the earliest
// joined survivor is promoted and everyone is told.
func (r *Room) RemovePlayer(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.players[id]; !ok {
		return false
	}

	delete(r.players, id)
	r.order = lo.Without(r.order, id)

	if len(r.players) == 0 {
		r.stopLocked()
		return true
	}

	if id == r.hostID {
		r.hostID = r.order[0]
		r.broadcastLocked(EventHostChanged, HostChangedPayload{NewHostID: r.hostID})
	}

	return false
}

// AnnouncePlayers broadcasts the current roster to everyone in the room.
func (r *Room) AnnouncePlayers() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(EventPlayersUpdate, PlayersUpdatePayload{
		PlayerCount: len(r.players),
		MaxPlayers:  MaxPlayers,
		RoomCode:    r.code,
	})
}

// Start begins the match: host-only, lobby-only. It seeds the board,
// schedules the spawn cycles and the match deadline, and arms the first
// tick.
func (r *Room) Start(requesterID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if requesterID != r.hostID {
		return ErrNotHost
	}
	if r.state != StateLobby || len(r.players) == 0 {
		return ErrGameInProgress
	}

	now := time.Now()
	r.state = StateActive
	r.startedAt = now
	r.endsAt = now.Add(GameDuration)

	r.spawnFoodLocked()
	r.foodTimer = time.AfterFunc(FoodSpawnInterval, r.foodLoop)
	r.specialTimer = time.AfterFunc(SpecialFoodSpawnInterval, r.specialFoodLoop)
	r.deadlineTimer = time.AfterFunc(GameDuration, r.deadline)

	r.broadcastLocked(EventGameStarted, struct{}{})

	r.tickTimer = time.AfterFunc(r.tickIntervalLocked(), r.tick)
	return nil
}

// UpdateDirection replaces the pending direction for the next tick.
// Dropped when the player is absent or dead, the room inactive, or the
// vector is the exact reverse of the current heading.
func (r *Room) UpdateDirection(id string, dir Vec) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}

	p, ok := r.players[id]
	if !ok || !p.alive {
		return
	}

	if dir.X == -p.direction.X && dir.Y == -p.direction.Y {
		return
	}

	p.direction = dir
}

// Stop cancels every pending timer, clears the board and returns all
// players to their initial state. Safe to call at any point in the
// lifecycle, including registry teardown.
func (r *Room) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopLocked()
}

func (r *Room) stopLocked() {
	for _, t := range []*time.Timer{r.tickTimer, r.foodTimer, r.specialTimer, r.deadlineTimer, r.resetTimer} {
		if t != nil {
			t.Stop()
		}
	}
	r.tickTimer, r.foodTimer, r.specialTimer, r.deadlineTimer, r.resetTimer = nil, nil, nil, nil, nil

	for id, t := range r.foodExpiry {
		t.Stop()
		delete(r.foodExpiry, id)
	}

	r.food = nil
	r.specialFood = nil
	r.startedAt, r.endsAt = time.Time{}, time.Time{}

	for _, p := range r.players {
		p.reset()
	}

	r.state = StateLobby
}

func (r *Room) deadline() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}
	r.endGameLocked()
}

func (r *Room) tick() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}

	if r.advanceLocked() {
		r.tickTimer = time.AfterFunc(r.tickIntervalLocked(), r.tick)
	}
}

// advanceLocked runs one simulation step, then either ends the match or
// broadcasts a snapshot. Reports whether the match is still running.
func (r *Room) advanceLocked() bool {
	r.stepLocked()

	alive := lo.CountBy(lo.Values(r.players), func(p *Player) bool { return p.alive })
	if alive == 0 || (alive <= 1 && len(r.players) > 1) {
		r.endGameLocked()
		return false
	}

	r.broadcastLocked(EventGameState, r.snapshotLocked())
	return true
}

// stepLocked advances every living snake by one cell, in join order so
// results are deterministic. A snake dies on walls, its own body or any
// living opponent's body; otherwise it moves, eating whatever its new
// head landed on.
func (r *Room) stepLocked() {
	now := time.Now()

	for _, id := range r.order {
		p := r.players[id]
		if !p.alive {
			continue
		}

		head := p.snake[0].add(p.direction.scale(GridSize))

		if head.X < 0 || head.X >= GameWidth || head.Y < 0 || head.Y >= GameHeight {
			p.alive = false
			continue
		}
		if p.occupies(head) {
			p.alive = false
			continue
		}
		collided := false
		for _, otherID := range r.order {
			other := r.players[otherID]
			if otherID != id && other.alive && other.occupies(head) {
				collided = true
				break
			}
		}
		if collided {
			p.alive = false
			continue
		}

		p.snake = append([]Vec{head}, p.snake...)

		ate := false
		kept := r.food[:0]
		for _, f := range r.food {
			if f.Pos == head {
				ate = true
				p.score++
				r.cancelExpiryLocked(f.ID)
				continue
			}
			kept = append(kept, f)
		}
		r.food = kept

		if r.specialFood != nil && r.specialFood.Pos == head {
			ate = true
			p.score += 2
			p.boostUntil = now.Add(SpeedBoostDuration)
			r.cancelExpiryLocked(r.specialFood.ID)
			r.specialFood = nil
		}

		if !ate {
			p.snake = p.snake[:len(p.snake)-1]
		}
	}
}

// endGameLocked picks the winner (longest living snake, ties to the
// earliest joined), broadcasts the final scores and schedules the
// post-game reset back to the lobby.
func (r *Room) endGameLocked() {
	r.state = StateEnded

	var winner *Player
	for _, id := range r.order {
		p := r.players[id]
		if p.alive && (winner == nil || len(p.snake) > len(winner.snake)) {
			winner = p
		}
	}

	var winnerID *string
	if winner != nil {
		winnerID = &winner.id
	}

	r.broadcastLocked(EventGameEnd, EndPayload{
		Winner: winnerID,
		FinalScores: lo.Map(r.order, func(id string, _ int) FinalScore {
			p := r.players[id]
			return FinalScore{ID: p.id, Score: len(p.snake), Alive: p.alive}
		}),
	})

	r.resetTimer = time.AfterFunc(ResetDelay, r.Stop)
}

func (r *Room) tickIntervalLocked() time.Duration {
	now := time.Now()
	for _, p := range r.players {
		if p.alive && p.boostUntil.After(now) {
			return BoostTickInterval
		}
	}
	return BaseTickInterval
}

func (r *Room) broadcastLocked(event string, payload any) {
	for _, id := range r.order {
		r.players[id].conn.Emit(event, payload)
	}
}

func (r *Room) snapshotLocked() StatePayload {
	now := time.Now()

	timeLeft := r.endsAt.Sub(now).Milliseconds()
	if timeLeft < 0 {
		timeLeft = 0
	}

	state := StatePayload{
		Players: lo.Map(r.order, func(id string, _ int) PlayerState {
			p := r.players[id]
			return PlayerState{
				ID:         p.id,
				Snake:      p.snake,
				Color:      p.color,
				Alive:      p.alive,
				Score:      len(p.snake),
				SpeedBoost: p.boostUntil.After(now),
			}
		}),
		Food: lo.Map(r.food, func(f *Food, _ int) FoodState {
			return foodState(f)
		}),
		TimeLeft: timeLeft,
	}

	if r.specialFood != nil {
		s := foodState(r.specialFood)
		state.SpecialFood = &s
	}

	return state
}

func foodState(f *Food) FoodState {
	return FoodState{ID: f.ID, X: f.Pos.X, Y: f.Pos.Y, SpawnTime: f.SpawnedAt.UnixMilli()}
}

func (r *Room) cancelExpiryLocked(id string) {
	if t, ok := r.foodExpiry[id]; ok {
		t.Stop()
		delete(r.foodExpiry, id)
	}
}
