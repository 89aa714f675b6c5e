package room

import (
	"context"
	"encoding/json"
	"log/slog"

	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/validator"
	"ctchen222/tictactoe/pkg/proto"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// HandleMessage handles a message from a player. It acts as a dispatcher.
func (r *Room) HandleMessage(p *player.Player, rawMessage []byte) {
	ctx, span := tracer.Start(context.Background(), "room.HandleMessage", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	// A bot replaced by a restart or a mode switch may still deliver a move.
	if !r.hasPlayerLocked(p) {
		slog.WarnContext(ctx, "ignoring message from player no longer in room", "player.id", p.ID, "room.id", r.ID)
		span.SetStatus(codes.Error, "Message from departed player")
		return
	}
	if p.Status == player.StatusDisconnected {
		slog.WarnContext(ctx, "ignoring message from disconnected player", "player.id", p.ID)
		span.SetStatus(codes.Error, "Message from disconnected player")
		return
	}

	var message proto.ClientToServerMessage
	if err := json.Unmarshal(rawMessage, &message); err != nil {
		slog.ErrorContext(ctx, "error unmarshalling message", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Error unmarshalling message")
		r.sendErrorLocked(ctx, p, "malformed message")
		return
	}

	if err := validator.GetValidator().Struct(message); err != nil {
		slog.WarnContext(ctx, "invalid message from player", "player.id", p.ID, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid message format")
		r.sendErrorLocked(ctx, p, "invalid message")
		return
	}

	span.SetAttributes(attribute.String("message.type", message.Type))

	switch message.Type {
	case proto.TypeMove:
		r.handleMove(ctx, p, &message)
	case proto.TypeRestart:
		r.handleRestart(ctx, p)
	case proto.TypeToggleMode:
		r.handleToggleMode(ctx, p)
	}
}

// handleMove applies a player's move to the canonical game.
func (r *Room) handleMove(ctx context.Context, p *player.Player, message *proto.ClientToServerMessage) {
	ctx, moveSpan := tracer.Start(ctx, "room.handleMove", trace.WithAttributes(
		attribute.String("player.id", p.ID),
		attribute.String("room.id", r.ID),
		attribute.Int("move.index", *message.Position),
		attribute.String("move.mark", string(r.Game.CurrentTurn)),
	))
	defer moveSpan.End()

	if !p.CanPlay(r.Game.CurrentTurn, r.Game.Mode) {
		slog.WarnContext(ctx, "player moved out of turn", "player.id", p.ID, "turn", r.Game.CurrentTurn)
		moveSpan.SetStatus(codes.Error, "Not player's turn")
		r.sendErrorLocked(ctx, p, "not your turn")
		return
	}

	mark := r.Game.CurrentTurn
	if err := r.Game.Move(*message.Position); err != nil {
		slog.WarnContext(ctx, "invalid move from player", "player.id", p.ID, "error", err)
		moveSpan.SetAttributes(attribute.Bool("move.valid", false))
		moveSpan.RecordError(err)
		moveSpan.SetStatus(codes.Error, "Invalid move")
		r.sendErrorLocked(ctx, p, err.Error())
		return
	}
	moveSpan.SetAttributes(attribute.Bool("move.valid", true))

	slog.InfoContext(ctx, "move applied", "room.id", r.ID, "player.id", p.ID, "mark", mark, "index", *message.Position)
	if r.Game.Over() {
		slog.InfoContext(ctx, "game over", "room.id", r.ID, "status", r.Game.Status())
	}
	r.broadcastLocked(ctx, proto.NewUpdate(r.Game))
}

// handleRestart starts a new game in the current mode.
func (r *Room) handleRestart(ctx context.Context, p *player.Player) {
	if p.IsBot {
		return
	}
	slog.InfoContext(ctx, "Player restarted the game", "player.id", p.ID, "room.id", r.ID)
	r.Game.Reset()
	r.resetGameLocked(ctx)
}

// handleToggleMode switches between two-player and bot play, starting a new game.
func (r *Room) handleToggleMode(ctx context.Context, p *player.Player) {
	if p.IsBot {
		return
	}
	mode := r.Game.ToggleMode()
	slog.InfoContext(ctx, "Player switched mode", "player.id", p.ID, "room.id", r.ID, "game.mode", mode)
	r.resetGameLocked(ctx)
}
