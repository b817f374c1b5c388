package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// foodLoop is the self-rescheduling ordinary spawn cycle.
func (r *Room) foodLoop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}

	r.spawnFoodLocked()
	r.foodTimer = time.AfterFunc(FoodSpawnInterval, r.foodLoop)
}

func (r *Room) specialFoodLoop() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != StateActive {
		return
	}

	r.spawnSpecialFoodLocked()
	r.specialTimer = time.AfterFunc(SpecialFoodSpawnInterval, r.specialFoodLoop)
}

// spawnFoodLocked tops the board up to a target sampled uniformly from
// [MinFoodTarget, MaxFoodTarget]. Placement rejects cells occupied by any
// snake segment, living or dead. Attempts are capped so a crowded board
// cannot spin the timer goroutine.
func (r *Room) spawnFoodLocked() {
	target := MinFoodTarget + rand.Intn(MaxFoodTarget-MinFoodTarget+1)

	for attempts := 0; len(r.food) < target && attempts < maxSpawnAttempts; attempts++ {
		pos := randomCell()
		if r.occupiedLocked(pos) {
			continue
		}

		f := &Food{ID: uuid.NewString(), Pos: pos, SpawnedAt: time.Now()}
		r.food = append(r.food, f)
		r.foodExpiry[f.ID] = time.AfterFunc(FoodLifetime, func() {
			r.expireFood(f.ID)
		})
	}
}

// spawnSpecialFoodLocked places the special item only when none is
// present. A single occupied roll waits for the next interval.
func (r *Room) spawnSpecialFoodLocked() {
	if r.specialFood != nil {
		return
	}

	pos := randomCell()
	if r.occupiedLocked(pos) {
		return
	}

	f := &Food{ID: uuid.NewString(), Pos: pos, SpawnedAt: time.Now()}
	r.specialFood = f
	r.foodExpiry[f.ID] = time.AfterFunc(FoodLifetime, func() {
		r.expireSpecialFood(f.ID)
	})
}

func (r *Room) expireFood(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.foodExpiry, id)
	r.food = lo.Reject(r.food, func(f *Food, _ int) bool { return f.ID == id })
}

// expireSpecialFood clears the slot only while the id still matches: a
// stale timer outliving an early consumption is a no-op.
func (r *Room) expireSpecialFood(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.foodExpiry, id)
	if r.specialFood != nil && r.specialFood.ID == id {
		r.specialFood = nil
	}
}

func (r *Room) occupiedLocked(pos Vec) bool {
	for _, p := range r.players {
		if p.occupies(pos) {
			return true
		}
	}
	return false
}

func randomCell() Vec {
	return Vec{
		X: rand.Intn(GameWidth/GridSize) * GridSize,
		Y: rand.Intn(GameHeight/GridSize) * GridSize,
	}
}
