package bot

import (
	"errors"

	"ctchen222/tictactoe/internal/game"
)

// Scores are always from O's point of view; the bot plays O.
const (
	ScoreLoss = -10
	ScoreDraw = 0
	ScoreWin  = 10

	// NoIndex marks a leaf evaluation that carries only a score.
	NoIndex = -1
)

var (
	ErrGameOver    = errors.New("board is already decided or full")
	ErrInvalidMark = errors.New("mark to move must be X or O")
)

// SearchResult is the move chosen at one level of the search and its score.
type SearchResult struct {
	Index int `json:"index"`
	Score int `json:"score"`
}

// Minimax searches every continuation of board with markToMove placing next.
// O maximises and X minimises. On equal scores the lowest index wins.
// The caller must ensure the board is not already decided or full.
func Minimax(board game.Board, markToMove game.PlayerMark) SearchResult {
	var nodes int
	return minimax(board, markToMove, &nodes)
}

func minimax(board game.Board, markToMove game.PlayerMark, nodes *int) SearchResult {
	*nodes++

	if game.IsWinner(board, game.PlayerX) {
		return SearchResult{Index: NoIndex, Score: ScoreLoss}
	}
	if game.IsWinner(board, game.PlayerO) {
		return SearchResult{Index: NoIndex, Score: ScoreWin}
	}
	empty := game.EmptyCells(board)
	if len(empty) == 0 {
		return SearchResult{Index: NoIndex, Score: ScoreDraw}
	}

	next := game.Opponent(markToMove)
	best := SearchResult{Index: NoIndex}
	for _, idx := range empty {
		child := board
		child[idx] = markToMove
		score := minimax(child, next, nodes).Score

		if best.Index == NoIndex ||
			(markToMove == game.PlayerO && score > best.Score) ||
			(markToMove == game.PlayerX && score < best.Score) {
			best = SearchResult{Index: idx, Score: score}
		}
	}
	return best
}

// Search validates the position, runs the search and reports how many nodes it visited.
func Search(board game.Board, markToMove game.PlayerMark) (SearchResult, int, error) {
	if markToMove != game.PlayerX && markToMove != game.PlayerO {
		return SearchResult{Index: NoIndex}, 0, ErrInvalidMark
	}
	if game.Winner(board) != game.None || game.IsFull(board) {
		return SearchResult{Index: NoIndex}, 0, ErrGameOver
	}

	var nodes int
	result := minimax(board, markToMove, &nodes)
	return result, nodes, nil
}

// BestMove returns the index of the optimal cell for markToMove.
func BestMove(board game.Board, markToMove game.PlayerMark) (int, error) {
	result, _, err := Search(board, markToMove)
	if err != nil {
		return NoIndex, err
	}
	return result.Index, nil
}
