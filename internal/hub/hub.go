package hub

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/room"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("hub")

// Hub creates one room per connected browser and tears it down when the browser leaves.
type Hub struct {
	rooms      map[string]*room.Room
	register   chan *types.RegistrationRequest
	unregister chan *player.Player
	newBot     room.BotFactory
}

// NewHub creates a new hub. Bots wait thinkDelay before answering a move.
func NewHub(thinkDelay time.Duration) *Hub {
	return &Hub{
		rooms:      make(map[string]*room.Room),
		register:   make(chan *types.RegistrationRequest),
		unregister: make(chan *player.Player),
		newBot: func(incomingMoves chan<- *types.PlayerMove) *player.Player {
			return bot.NewBotPlayer(incomingMoves, thinkDelay)
		},
	}
}

// Run serves registrations until ctx is cancelled, then closes every room.
func (h *Hub) Run(ctx context.Context) {
	slog.InfoContext(ctx, "Hub started")
	for {
		select {
		case <-ctx.Done():
			for id, r := range h.rooms {
				r.Close()
				delete(h.rooms, id)
			}
			slog.Info("Hub stopped")
			return

		case req := <-h.register:
			h.handleRegistration(req)

		case p := <-h.unregister:
			h.handleUnregister(p)
		}
	}
}

func (h *Hub) handleRegistration(req *types.RegistrationRequest) {
	ctx := req.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, span := tracer.Start(ctx, "hub.handleRegistration", trace.WithAttributes(
		attribute.String("player.id", req.Player.ID),
		attribute.String("game.mode", string(req.Mode)),
	))
	defer span.End()

	roomID := uuid.New().String()
	span.SetAttributes(attribute.String("room.id", roomID))

	newRoom := room.NewRoom(roomID, req.Mode, h.newBot)
	newRoom.AddPlayer(req.Player)
	h.rooms[roomID] = newRoom

	newRoom.Start(ctx, h.unregister)
	slog.InfoContext(ctx, "Room created", "room.id", roomID, "player.id", req.Player.ID, "game.mode", req.Mode)
}

func (h *Hub) handleUnregister(p *player.Player) {
	r, ok := h.rooms[p.RoomID]
	if !ok {
		slog.Warn("Unregister for unknown room", "player.id", p.ID, "room.id", p.RoomID)
		return
	}
	r.Close()
	delete(h.rooms, p.RoomID)
	slog.Info("Room closed after player left", "room.id", p.RoomID, "player.id", p.ID)
}

// Register returns the register channel.
func (h *Hub) Register() chan<- *types.RegistrationRequest {
	return h.register
}

// Unregister returns the unregister channel.
func (h *Hub) Unregister() chan<- *player.Player {
	return h.unregister
}
