package game

import (
	"errors"
	"fmt"
	"strings"
)

// PlayerMark represents the mark of a player (X, O) or an empty cell.
type PlayerMark string

const (
	None    PlayerMark = ""
	PlayerX PlayerMark = "X"
	PlayerO PlayerMark = "O"
)

// Board boundaries
const (
	CellMin   = 0 // First index of the board
	CellMax   = 8 // Last index of the board
	CellCount = 9
)

var (
	ErrInvalidMark  = errors.New("invalid mark")
	ErrInvalidBoard = errors.New("invalid board")
)

// Board is the 3x3 grid stored row-major. Index 0 is the top-left cell.
type Board [CellCount]PlayerMark

// Lines lists the 8 index triples that win the game: rows, columns, diagonals.
var Lines = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// IsWinner reports whether mark occupies all three cells of any line.
func IsWinner(board Board, mark PlayerMark) bool {
	if mark == None {
		return false
	}
	for _, line := range Lines {
		if board[line[0]] == mark && board[line[1]] == mark && board[line[2]] == mark {
			return true
		}
	}
	return false
}

// EmptyCells returns the indices of the empty cells in ascending order.
func EmptyCells(board Board) []int {
	cells := make([]int, 0, CellCount)
	for i, mark := range board {
		if mark == None {
			cells = append(cells, i)
		}
	}
	return cells
}

// IsFull reports whether every cell is occupied.
func IsFull(board Board) bool {
	return len(EmptyCells(board)) == 0
}

// IsDraw reports whether the board is full and nobody has a line.
func IsDraw(board Board) bool {
	return IsFull(board) && !IsWinner(board, PlayerX) && !IsWinner(board, PlayerO)
}

// Winner returns the mark that owns a complete line, or None.
func Winner(board Board) PlayerMark {
	switch {
	case IsWinner(board, PlayerX):
		return PlayerX
	case IsWinner(board, PlayerO):
		return PlayerO
	}
	return None
}

// Opponent returns the other player's mark.
func Opponent(mark PlayerMark) PlayerMark {
	if mark == PlayerX {
		return PlayerO
	}
	return PlayerX
}

// ParseMark converts wire text into a PlayerMark. Empty text is an empty cell.
func ParseMark(s string) (PlayerMark, error) {
	switch PlayerMark(strings.ToUpper(strings.TrimSpace(s))) {
	case None:
		return None, nil
	case PlayerX:
		return PlayerX, nil
	case PlayerO:
		return PlayerO, nil
	}
	return None, fmt.Errorf("%w: %q", ErrInvalidMark, s)
}

// ParseBoard builds a Board from exactly nine cell strings.
func ParseBoard(cells []string) (Board, error) {
	var board Board
	if len(cells) != CellCount {
		return board, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, CellCount, len(cells))
	}
	for i, s := range cells {
		mark, err := ParseMark(s)
		if err != nil {
			return board, fmt.Errorf("cell %d: %w", i, err)
		}
		board[i] = mark
	}
	return board, nil
}

// BoardFromSlice copies a wire board into a Board.
func BoardFromSlice(cells []PlayerMark) (Board, error) {
	var board Board
	if len(cells) != CellCount {
		return board, fmt.Errorf("%w: want %d cells, got %d", ErrInvalidBoard, CellCount, len(cells))
	}
	copy(board[:], cells)
	return board, nil
}

// Cells converts the board to a slice for the wire.
func (b Board) Cells() []PlayerMark {
	cells := make([]PlayerMark, CellCount)
	copy(cells, b[:])
	return cells
}

func (b Board) String() string {
	var sb strings.Builder
	for i, mark := range b {
		if mark == None {
			sb.WriteByte('.')
		} else {
			sb.WriteString(string(mark))
		}
		if i%3 == 2 && i != CellMax {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
