package proto

import "ctchen222/tictactoe/internal/game"

// Client message types
const (
	TypeMove       = "move"
	TypeRestart    = "restart"
	TypeToggleMode = "toggle_mode"
)

// Server message types
const (
	TypeAssignment = "assignment"
	TypeUpdate     = "update"
	TypeError      = "error"
)

// ClientToServerMessage represents a message from the client to the server.
type ClientToServerMessage struct {
	Type     string `json:"type" validate:"required,oneof=move restart toggle_mode"`
	Position *int   `json:"position,omitempty" validate:"required_if=Type move,omitempty,min=0,max=8"`
}

// ServerToClientMessage represents a message from the server to the client.
type ServerToClientMessage struct {
	Type   string            `json:"type" validate:"required"`
	Reason string            `json:"reason,omitempty"`
	Board  []game.PlayerMark `json:"board,omitempty"`
	Next   game.PlayerMark   `json:"next,omitempty"`
	Winner game.PlayerMark   `json:"winner,omitempty"`
	Draw   bool              `json:"draw,omitempty"`
	Mode   game.Mode         `json:"mode,omitempty"`
	Status string            `json:"status,omitempty"`
}

// PlayerAssignmentMessage informs a player of their assigned mark.
type PlayerAssignmentMessage struct {
	Type     string          `json:"type"`
	PlayerID string          `json:"playerId,omitempty"`
	Mark     game.PlayerMark `json:"mark"`
}

// NewUpdate builds the state message broadcast after every change to g.
func NewUpdate(g *game.Game) *ServerToClientMessage {
	return &ServerToClientMessage{
		Type:   TypeUpdate,
		Board:  g.Board.Cells(),
		Next:   g.CurrentTurn,
		Winner: g.Winner,
		Draw:   g.IsDraw,
		Mode:   g.Mode,
		Status: g.Status(),
	}
}

// Over reports whether the update describes a finished game.
func (m *ServerToClientMessage) Over() bool {
	return m.Winner != game.None || m.Draw
}
