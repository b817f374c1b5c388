package game

import "time"

// Vec is a grid-aligned point or a unit direction, in board pixels.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (v Vec) add(o Vec) Vec {
	return Vec{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec) scale(n int) Vec {
	return Vec{X: v.X * n, Y: v.Y * n}
}

// Emitter is the outbound half of a client connection. Rooms broadcast
// through it while holding their lock, so implementations must not block.
type Emitter interface {
	Emit(event string, payload any)
}

// Player is owned exclusively by its Room; every field is guarded by the
// room lock.
type Player struct {
	id         string
	conn       Emitter
	snake      []Vec // head first
	direction  Vec
	color      string
	alive      bool
	boostUntil time.Time
	score      int
	startPos   Vec
}

func (p *Player) occupies(pos Vec) bool {
	for _, s := range p.snake {
		if s == pos {
			return true
		}
	}
	return false
}

func (p *Player) reset() {
	p.snake = []Vec{p.startPos}
	p.direction = initialDirection
	p.alive = true
	p.boostUntil = time.Time{}
	p.score = 0
}

type Food struct {
	ID        string
	Pos       Vec
	SpawnedAt time.Time
}
