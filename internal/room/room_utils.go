package room

import (
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
)

// AddPlayer adds a player to the room.
func (r *Room) AddPlayer(p *player.Player) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.RoomID = r.ID
	r.Players = append(r.Players, p)
}

// IncomingMoves returns the channel for incoming player moves.
func (r *Room) IncomingMoves() chan<- *types.PlayerMove {
	return r.incomingMoves
}

func (r *Room) hasPlayerLocked(p *player.Player) bool {
	for _, other := range r.Players {
		if other == p {
			return true
		}
	}
	return false
}

func (r *Room) botLocked() *player.Player {
	for _, p := range r.Players {
		if p.IsBot {
			return p
		}
	}
	return nil
}

func (r *Room) removePlayerLocked(id string) {
	for i, p := range r.Players {
		if p.ID == id {
			r.Players = append(r.Players[:i], r.Players[i+1:]...)
			return
		}
	}
}
