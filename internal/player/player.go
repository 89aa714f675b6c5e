package player

import (
	"time"

	"ctchen222/tictactoe/internal/game"
)

//go:generate mockgen -source=player.go -destination=mock/connection_mock.go -package=mock

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	Close() error
}

type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Player represents a participant in a room. A human in two-player mode plays both marks.
type Player struct {
	ID       string
	RoomID   string
	Conn     Connection
	Mark     game.PlayerMark
	IsBot    bool
	Status   Status
	LastSeen time.Time
}

// NewPlayer creates a connected player.
func NewPlayer(id string, conn Connection) *Player {
	return &Player{
		ID:       id,
		Conn:     conn,
		Status:   StatusConnected,
		LastSeen: time.Now(),
	}
}

// CanPlay reports whether the player may place a mark for the given turn.
func (p *Player) CanPlay(turn game.PlayerMark, mode game.Mode) bool {
	if !p.IsBot && mode == game.ModeTwoPlayer {
		return true
	}
	return p.Mark == turn
}
