package game

// Event names for broadcasts originated by a room.
const (
	EventPlayersUpdate = "playersUpdate"
	EventHostChanged   = "hostChanged"
	EventGameStarted   = "gameStarted"
	EventGameState     = "gameState"
	EventGameEnd       = "gameEnd"
)

type PlayersUpdatePayload struct {
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	RoomCode    string `json:"roomCode"`
}

type HostChangedPayload struct {
	NewHostID string `json:"newHostId"`
}

type PlayerState struct {
	ID         string `json:"id"`
	Snake      []Vec  `json:"snake"`
	Color      string `json:"color"`
	Alive      bool   `json:"alive"`
	Score      int    `json:"score"`
	SpeedBoost bool   `json:"speedBoost"`
}

type FoodState struct {
	ID        string `json:"id"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
	SpawnTime int64  `json:"spawnTime"`
}

type StatePayload struct {
	Players     []PlayerState `json:"players"`
	Food        []FoodState   `json:"food"`
	SpecialFood *FoodState    `json:"specialFood"`
	TimeLeft    int64         `json:"timeLeft"`
}

type FinalScore struct {
	ID    string `json:"id"`
	Score int    `json:"score"`
	Alive bool   `json:"alive"`
}

type EndPayload struct {
	Winner      *string      `json:"winner"`
	FinalScores []FinalScore `json:"finalScores"`
}
