package room

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
)

const (
	heartbeatInterval = 10 * time.Second
)

var tracer = otel.Tracer("room")

// BotFactory creates the player that takes O when the room is in bot mode.
type BotFactory func(incomingMoves chan<- *types.PlayerMove) *player.Player

// Room owns the canonical game for one browser session and applies every move to it.
type Room struct {
	ID            string
	Game          *game.Game
	Players       []*player.Player
	mu            sync.Mutex
	incomingMoves chan *types.PlayerMove
	newBot        BotFactory
	Done          chan struct{}
	closeOnce     sync.Once
}

// NewRoom creates a new game room.
func NewRoom(id string, mode game.Mode, newBot BotFactory) *Room {
	return &Room{
		ID:            id,
		Game:          game.NewGame(mode),
		Players:       make([]*player.Player, 0, 2),
		incomingMoves: make(chan *types.PlayerMove, 10),
		newBot:        newBot,
		Done:          make(chan struct{}),
	}
}

// Start sends the opening state and launches the read pumps and the game loop.
// Players whose connection drops are sent to unregisterPlayer.
func (r *Room) Start(ctx context.Context, unregisterPlayer chan<- *player.Player) {
	r.open(ctx)

	r.mu.Lock()
	for _, p := range r.Players {
		if !p.IsBot {
			go r.ReadPump(p, unregisterPlayer)
		}
	}
	r.mu.Unlock()

	go r.run()
}

// open seats the bot if needed and tells every player the starting position.
func (r *Room) open(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.open")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.syncBotLocked(ctx)
	r.sendAssignmentsLocked(ctx)
	r.broadcastLocked(ctx, proto.NewUpdate(r.Game))
	slog.InfoContext(ctx, "Room opened", "room.id", r.ID, "game.mode", r.Game.Mode)
}

// run is the main game loop for the room.
func (r *Room) run() {
	pingTicker := time.NewTicker(heartbeatInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-r.Done:
			slog.Info("Room run goroutine stopping.", "room.id", r.ID)
			return

		case move := <-r.incomingMoves:
			r.HandleMessage(move.Player, move.Message)

		case <-pingTicker.C:
			r.mu.Lock()
			for _, p := range r.Players {
				if p.IsBot || p.Status != player.StatusConnected {
					continue
				}
				if err := p.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					slog.Warn("Failed to send ping to player, assuming disconnect", "player.id", p.ID, "error", err)
				}
			}
			r.mu.Unlock()
		}
	}
}

// Close stops the game loop and closes every connection. It is safe to call more than once.
func (r *Room) Close() {
	r.closeOnce.Do(func() {
		close(r.Done)

		r.mu.Lock()
		defer r.mu.Unlock()
		for _, p := range r.Players {
			if p.Conn == nil {
				continue
			}
			if err := p.Conn.Close(); err != nil {
				slog.Warn("Failed to close player connection", "player.id", p.ID, "room.id", r.ID, "error", err)
			}
		}
	})
}
