package bot

import (
	"context"
	"log/slog"
	"time"

	"ctchen222/tictactoe/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("bot")
	meter  = otel.Meter("bot")

	searchDuration, _ = meter.Float64Histogram("bot.search.duration",
		metric.WithDescription("Time spent in one minimax search"),
		metric.WithUnit("ms"),
	)
	searchNodes, _ = meter.Int64Counter("bot.search.nodes",
		metric.WithDescription("Positions visited by the minimax search"),
	)
)

// MoveCalculator picks the cell the bot plays next.
type MoveCalculator interface {
	CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark) (int, error)
}

// BotMoveCalculator implements MoveCalculator with the exhaustive minimax search.
type BotMoveCalculator struct{}

// CalculateNextMove runs the search and records its cost.
func (c *BotMoveCalculator) CalculateNextMove(ctx context.Context, board game.Board, mark game.PlayerMark) (int, error) {
	ctx, span := tracer.Start(ctx, "bot.CalculateNextMove", trace.WithAttributes(
		attribute.String("bot.mark", string(mark)),
		attribute.Int("board.empty_cells", len(game.EmptyCells(board))),
	))
	defer span.End()

	start := time.Now()
	result, nodes, err := Search(board, mark)
	if err != nil {
		slog.WarnContext(ctx, "bot asked to move on a finished board", "mark", mark, "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search precondition failed")
		return NoIndex, err
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000
	attrs := metric.WithAttributes(attribute.String("bot.mark", string(mark)))
	searchDuration.Record(ctx, elapsed, attrs)
	searchNodes.Add(ctx, int64(nodes), attrs)

	span.SetAttributes(
		attribute.Int("move.index", result.Index),
		attribute.Int("move.score", result.Score),
		attribute.Int("search.nodes", nodes),
	)
	slog.DebugContext(ctx, "bot chose move", "mark", mark, "index", result.Index, "score", result.Score, "nodes", nodes)
	return result.Index, nil
}
