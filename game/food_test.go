package game

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSpawnFoodWithinTargetRange(t *testing.T) {
	r, _ := newTestRoom(t, "p1", "p2")
	activate(r)

	r.mu.Lock()
	r.spawnFoodLocked()
	count := len(r.food)

	for _, f := range r.food {
		require.Zero(t, f.Pos.X%GridSize)
		require.Zero(t, f.Pos.Y%GridSize)
		require.False(t, r.occupiedLocked(f.Pos), "food spawned on a snake segment")
		require.NotEmpty(t, f.ID)
		require.Contains(t, r.foodExpiry, f.ID)
	}
	r.mu.Unlock()

	require.GreaterOrEqual(t, count, MinFoodTarget)
	require.LessOrEqual(t, count, MaxFoodTarget)

	// a second cycle never exceeds the maximum
	r.mu.Lock()
	r.spawnFoodLocked()
	count = len(r.food)
	r.mu.Unlock()
	require.LessOrEqual(t, count, MaxFoodTarget)
}

func TestSpecialFoodSingleton(t *testing.T) {
	r, _ := newTestRoom(t, "p1")
	activate(r)

	r.mu.Lock()
	for i := 0; i < 10; i++ {
		r.spawnSpecialFoodLocked()
	}
	first := r.specialFood
	r.mu.Unlock()

	if first == nil {
		t.Skip("every roll landed on an occupied cell")
	}

	r.mu.Lock()
	r.spawnSpecialFoodLocked()
	require.Same(t, first, r.specialFood)
	r.mu.Unlock()
}

func TestExpireFoodByID(t *testing.T) {
	r, _ := newTestRoom(t, "p1")
	activate(r)

	r.mu.Lock()
	r.food = append(r.food,
		&Food{ID: "f1", Pos: Vec{X: 200, Y: 200}, SpawnedAt: time.Now()},
		&Food{ID: "f2", Pos: Vec{X: 220, Y: 200}, SpawnedAt: time.Now()},
	)
	r.mu.Unlock()

	r.expireFood("f1")

	r.mu.Lock()
	require.Len(t, r.food, 1)
	require.Equal(t, "f2", r.food[0].ID)
	r.mu.Unlock()
}

func TestExpireSpecialFoodStaleTimerIsNoop(t *testing.T) {
	r, _ := newTestRoom(t, "p1")
	activate(r)

	r.mu.Lock()
	r.specialFood = &Food{ID: "s2", Pos: Vec{X: 300, Y: 300}, SpawnedAt: time.Now()}
	r.mu.Unlock()

	// a timer left over from a consumed earlier instance
	r.expireSpecialFood("s1")

	r.mu.Lock()
	require.NotNil(t, r.specialFood)
	r.mu.Unlock()

	r.expireSpecialFood("s2")

	r.mu.Lock()
	require.Nil(t, r.specialFood)
	r.mu.Unlock()
}

func TestRandomCellAlignment(t *testing.T) {
	for i := 0; i < 100; i++ {
		pos := randomCell()
		require.Zero(t, pos.X%GridSize)
		require.Zero(t, pos.Y%GridSize)
		require.GreaterOrEqual(t, pos.X, 0)
		require.Less(t, pos.X, GameWidth)
		require.GreaterOrEqual(t, pos.Y, 0)
		require.Less(t, pos.Y, GameHeight)
	}
}
