package game

import (
	"slices"
	"testing"
)

const (
	X = PlayerX
	O = PlayerO
	e = None
)

func TestIsWinner(t *testing.T) {
	tests := []struct {
		name  string
		board Board
		mark  PlayerMark
		want  bool
	}{
		{
			name:  "Empty board",
			board: Board{},
			mark:  X,
			want:  false,
		},
		{
			name:  "Empty mark never wins",
			board: Board{},
			mark:  None,
			want:  false,
		},
		{
			name:  "No winner - partial board",
			board: Board{X, e, e, e, O, e, e, e, e},
			mark:  X,
			want:  false,
		},
		{
			name:  "X wins - second column",
			board: Board{O, X, e, e, X, O, e, X, e},
			mark:  X,
			want:  true,
		},
		{
			name:  "O does not own X's line",
			board: Board{O, X, e, e, X, O, e, X, e},
			mark:  O,
			want:  false,
		},
		{
			name:  "O wins - anti-diagonal",
			board: Board{X, X, O, e, O, e, O, e, X},
			mark:  O,
			want:  true,
		},
		{
			name:  "Two lines for the same mark",
			board: Board{X, X, X, O, X, O, O, O, X},
			mark:  X,
			want:  true,
		},
		{
			name:  "Full board with no line",
			board: Board{X, O, X, X, O, O, O, X, X},
			mark:  X,
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsWinner(tt.board, tt.mark); got != tt.want {
				t.Errorf("IsWinner() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsWinnerEveryLine(t *testing.T) {
	for _, line := range Lines {
		var board Board
		for _, i := range line {
			board[i] = X
		}
		// Fill two O cells off the line so the board is reachable.
		placed := 0
		for i := range board {
			if board[i] == None && placed < 2 {
				board[i] = O
				placed++
			}
		}
		if !IsWinner(board, X) {
			t.Errorf("line %v: expected X to win on\n%s", line, board)
		}
		if IsWinner(board, O) {
			t.Errorf("line %v: O should not win on\n%s", line, board)
		}
	}
}

func TestEmptyCellsAndIsFull(t *testing.T) {
	tests := []struct {
		name      string
		board     Board
		wantEmpty []int
		wantFull  bool
	}{
		{
			name:      "Empty board is not full",
			board:     Board{},
			wantEmpty: []int{0, 1, 2, 3, 4, 5, 6, 7, 8},
			wantFull:  false,
		},
		{
			name:      "Partial board lists remaining cells in order",
			board:     Board{X, e, e, e, O, e, e, e, X},
			wantEmpty: []int{1, 2, 3, 5, 6, 7},
			wantFull:  false,
		},
		{
			name:      "Full board is full",
			board:     Board{X, O, X, X, O, O, O, X, X},
			wantEmpty: []int{},
			wantFull:  true,
		},
		{
			name:      "Full board with winner is full",
			board:     Board{X, X, X, O, O, X, O, X, O},
			wantEmpty: []int{},
			wantFull:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EmptyCells(tt.board); !slices.Equal(got, tt.wantEmpty) {
				t.Errorf("EmptyCells() got = %v, want %v", got, tt.wantEmpty)
			}
			if got := IsFull(tt.board); got != tt.wantFull {
				t.Errorf("IsFull() got = %v, want %v", got, tt.wantFull)
			}
		})
	}
}

func TestIsDrawAndWinner(t *testing.T) {
	tests := []struct {
		name       string
		board      Board
		wantDraw   bool
		wantWinner PlayerMark
	}{
		{"Empty board", Board{}, false, None},
		{"Full board without a line", Board{X, O, X, X, O, O, O, X, X}, true, None},
		{"Full board won by X", Board{X, X, X, O, O, X, O, X, O}, false, X},
		{"Open board won by O", Board{X, X, e, O, O, O, X, e, e}, false, O},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDraw(tt.board); got != tt.wantDraw {
				t.Errorf("IsDraw() got = %v, want %v", got, tt.wantDraw)
			}
			if got := Winner(tt.board); got != tt.wantWinner {
				t.Errorf("Winner() got = %q, want %q", got, tt.wantWinner)
			}
		})
	}
}

func TestParseBoard(t *testing.T) {
	board, err := ParseBoard([]string{"x", "O", "", " ", "X", "o", "", "", ""})
	if err != nil {
		t.Fatalf("ParseBoard() unexpected error: %v", err)
	}
	want := Board{X, O, e, e, X, O, e, e, e}
	if board != want {
		t.Errorf("ParseBoard() got = %v, want %v", board, want)
	}

	if _, err := ParseBoard([]string{"X"}); err == nil {
		t.Error("ParseBoard() expected an error for a short board")
	}
	if _, err := ParseBoard([]string{"X", "Z", "", "", "", "", "", "", ""}); err == nil {
		t.Error("ParseBoard() expected an error for an unknown mark")
	}
}

func TestBoardString(t *testing.T) {
	board := Board{X, e, e, e, O, e, e, e, X}
	want := "X..\n.O.\n..X"
	if got := board.String(); got != want {
		t.Errorf("String() got = %q, want %q", got, want)
	}
}
