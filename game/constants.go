package game

import "time"

// Board geometry and match rules. These mirror what the bundled browser
// client renders and are not runtime-configurable.
const (
	GameWidth  = 800
	GameHeight = 600
	GridSize   = 20

	MaxPlayers = 4

	GameDuration             = 10 * time.Minute
	FoodSpawnInterval        = 10 * time.Second
	SpecialFoodSpawnInterval = 30 * time.Second
	FoodLifetime             = 10 * time.Second
	SpeedBoostDuration       = 5 * time.Second
	ResetDelay               = 5 * time.Second

	BaseTickInterval  = 150 * time.Millisecond
	BoostTickInterval = 75 * time.Millisecond

	MinFoodTarget = 3
	MaxFoodTarget = 5

	// Spawn placement retries per cycle before giving up until the next one.
	maxSpawnAttempts = 64

	CodeLength   = 6
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	SweepInterval = 30 * time.Minute
	MaxRoomAge    = time.Hour
)

var colorPalette = [MaxPlayers]string{"#ff0000", "#00ff00", "#0000ff", "#ffff00"}

// One start corner per join slot.
var startPositions = [MaxPlayers]Vec{
	{X: 100, Y: 100},
	{X: 700, Y: 100},
	{X: 100, Y: 500},
	{X: 700, Y: 500},
}

var initialDirection = Vec{X: 1, Y: 0}
