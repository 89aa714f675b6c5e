package room

import (
	"context"
	"log/slog"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// syncBotLocked seats a bot as O in bot mode, removes it otherwise, and
// gives the human X in bot mode or both marks in two-player mode.
func (r *Room) syncBotLocked(ctx context.Context) {
	bot := r.botLocked()

	switch {
	case r.Game.Mode == game.ModeBot && bot == nil:
		bot = r.newBot(r.incomingMoves)
		bot.RoomID = r.ID
		bot.Mark = game.PlayerO
		r.Players = append(r.Players, bot)
		slog.InfoContext(ctx, "Bot joined room", "room.id", r.ID, "player.id", bot.ID)

	case r.Game.Mode != game.ModeBot && bot != nil:
		r.dropBotLocked(ctx, bot.ID)
	}

	for _, p := range r.Players {
		if p.IsBot {
			continue
		}
		if r.Game.Mode == game.ModeBot {
			p.Mark = game.PlayerX
		} else {
			p.Mark = game.None
		}
	}
}

// dropBotLocked closes the bot's connection so a pending move is discarded.
func (r *Room) dropBotLocked(ctx context.Context, id string) {
	for _, p := range r.Players {
		if p.ID == id && p.Conn != nil {
			if err := p.Conn.Close(); err != nil {
				slog.WarnContext(ctx, "Failed to close bot connection", "player.id", id, "error", err)
			}
		}
	}
	r.removePlayerLocked(id)
	slog.InfoContext(ctx, "Bot left room", "room.id", r.ID, "player.id", id)
}

func (r *Room) sendAssignmentsLocked(ctx context.Context) {
	for _, p := range r.Players {
		r.sendLocked(ctx, p, &proto.PlayerAssignmentMessage{
			Type:     proto.TypeAssignment,
			PlayerID: p.ID,
			Mark:     p.Mark,
		})
	}
}

// resetGameLocked starts a fresh game. A bot is replaced so that a move it
// computed for the old board can never land on the new one.
func (r *Room) resetGameLocked(ctx context.Context) {
	ctx, span := tracer.Start(ctx, "room.resetGame", trace.WithAttributes(
		attribute.String("room.id", r.ID),
		attribute.String("game.mode", string(r.Game.Mode)),
	))
	defer span.End()

	if bot := r.botLocked(); bot != nil {
		r.dropBotLocked(ctx, bot.ID)
	}
	r.syncBotLocked(ctx)
	r.sendAssignmentsLocked(ctx)
	r.broadcastLocked(ctx, proto.NewUpdate(r.Game))
}
