package service

import (
	"context"
	"log/slog"

	"ctchen222/tictactoe/internal/api/models"
	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("api/service")

// EngineService answers position queries without a running game.
type EngineService interface {
	BestMove(ctx context.Context, req *models.BestMoveRequest) (*models.BestMoveResponse, error)
	Evaluate(ctx context.Context, req *models.BoardRequest) (*models.EvaluateResponse, error)
}

type engineService struct{}

// NewEngineService creates a new EngineService.
func NewEngineService() EngineService {
	return &engineService{}
}

// BestMove runs the full search for the requested mover.
// Bad input fails with game.ErrInvalidBoard, game.ErrInvalidMark or bot.ErrInvalidMark;
// a finished position fails with bot.ErrGameOver.
func (s *engineService) BestMove(ctx context.Context, req *models.BestMoveRequest) (*models.BestMoveResponse, error) {
	ctx, span := tracer.Start(ctx, "service.BestMove", trace.WithAttributes(
		attribute.String("move.mark", req.Mark),
	))
	defer span.End()

	board, err := game.ParseBoard(req.Board)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid board")
		return nil, err
	}
	mark, err := game.ParseMark(req.Mark)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid mark")
		return nil, err
	}

	result, nodes, err := bot.Search(board, mark)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Search failed")
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("move.index", result.Index),
		attribute.Int("search.score", result.Score),
		attribute.Int("search.nodes", nodes),
	)
	slog.DebugContext(ctx, "best move computed", "mark", mark, "index", result.Index, "score", result.Score, "nodes", nodes)

	return &models.BestMoveResponse{
		Index: result.Index,
		Score: result.Score,
		Mark:  mark,
		Nodes: nodes,
	}, nil
}

// Evaluate reports the static state of a position.
func (s *engineService) Evaluate(ctx context.Context, req *models.BoardRequest) (*models.EvaluateResponse, error) {
	_, span := tracer.Start(ctx, "service.Evaluate")
	defer span.End()

	board, err := game.ParseBoard(req.Board)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid board")
		return nil, err
	}

	return &models.EvaluateResponse{
		Board:      board.String(),
		Winner:     game.Winner(board),
		Draw:       game.IsDraw(board),
		Full:       game.IsFull(board),
		EmptyCells: game.EmptyCells(board),
	}, nil
}
