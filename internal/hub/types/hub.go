package types

import (
	"context"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/player"
)

// RegistrationRequest represents a request to register a player.
type RegistrationRequest struct {
	Player *player.Player
	Mode   game.Mode
	Ctx    context.Context
}

// PlayerMove is a raw client message queued for a room.
type PlayerMove struct {
	Player  *player.Player
	Message []byte
}
