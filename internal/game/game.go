package game

import (
	"errors"
	"fmt"
)

// Mode selects who plays O.
type Mode string

const (
	ModeTwoPlayer Mode = "human"
	ModeBot       Mode = "bot"
)

var (
	ErrGameFinished = errors.New("game already finished")
	ErrInvalidCell  = errors.New("invalid cell")
	ErrCellOccupied = errors.New("cell already occupied")
	ErrInvalidMode  = errors.New("invalid mode")
)

// ParseMode converts a query or config value into a Mode. Empty means two-player.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModeTwoPlayer:
		return ModeTwoPlayer, nil
	case ModeBot:
		return ModeBot, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

// Game is the canonical state of one match. X always moves first.
type Game struct {
	Board       Board
	CurrentTurn PlayerMark
	Winner      PlayerMark
	IsDraw      bool
	Mode        Mode
}

func NewGame(mode Mode) *Game {
	return &Game{
		Board:       Board{},
		CurrentTurn: PlayerX,
		Winner:      None,
		Mode:        mode,
	}
}

// Move places the current player's mark at index and passes the turn unless the game ended.
func (g *Game) Move(index int) error {
	if g.Over() {
		return ErrGameFinished
	}
	if index < CellMin || index > CellMax {
		return fmt.Errorf("%w: %d", ErrInvalidCell, index)
	}
	if g.Board[index] != None {
		return fmt.Errorf("%w: %d", ErrCellOccupied, index)
	}

	g.Board[index] = g.CurrentTurn

	if IsWinner(g.Board, g.CurrentTurn) {
		g.Winner = g.CurrentTurn
		return nil
	}
	if IsFull(g.Board) {
		g.IsDraw = true
		return nil
	}

	g.CurrentTurn = Opponent(g.CurrentTurn)
	return nil
}

// Over reports whether the game has a winner or ended in a draw.
func (g *Game) Over() bool {
	return g.Winner != None || g.IsDraw
}

// Reset clears the board and gives the first move back to X. The mode is kept.
func (g *Game) Reset() {
	g.Board = Board{}
	g.CurrentTurn = PlayerX
	g.Winner = None
	g.IsDraw = false
}

// ToggleMode switches between two-player and bot play and starts a fresh game.
func (g *Game) ToggleMode() Mode {
	if g.Mode == ModeBot {
		g.Mode = ModeTwoPlayer
	} else {
		g.Mode = ModeBot
	}
	g.Reset()
	return g.Mode
}

// Snapshot returns a copy of the board that callers may modify freely.
func (g *Game) Snapshot() Board {
	return g.Board
}

// Status is the text shown above or over the board.
func (g *Game) Status() string {
	switch {
	case g.Winner != None:
		return fmt.Sprintf("%s - Wins!", g.Winner)
	case g.IsDraw:
		return "Draw!"
	}
	return fmt.Sprintf("%s's Turn", g.CurrentTurn)
}
