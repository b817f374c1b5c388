package token

import "time"

// Maker creates and verifies session tokens handed to websocket clients.
type Maker interface {
	CreateToken(username string, duration time.Duration) (string, *Payload, error)
	VerifyToken(token string) (*Payload, error)
}
