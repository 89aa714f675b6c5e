package models

import "ctchen222/tictactoe/internal/game"

// BoardRequest carries a position as nine cells in row-major order: "X", "O" or "".
type BoardRequest struct {
	Board []string `json:"board" binding:"required,len=9,dive,mark"`
}

// BestMoveRequest asks the engine for the mover's best cell.
type BestMoveRequest struct {
	BoardRequest
	Mark string `json:"mark" binding:"required,oneof=X O x o"`
}

// BestMoveResponse is the engine's choice and its score from O's point of view.
type BestMoveResponse struct {
	Index int             `json:"index"`
	Score int             `json:"score"`
	Mark  game.PlayerMark `json:"mark"`
	Nodes int             `json:"nodes"`
}

// EvaluateResponse describes a position without searching it.
type EvaluateResponse struct {
	Board      string          `json:"board"`
	Winner     game.PlayerMark `json:"winner"`
	Draw       bool            `json:"draw"`
	Full       bool            `json:"full"`
	EmptyCells []int           `json:"empty_cells"`
}
