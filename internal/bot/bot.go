package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/google/uuid"
)

// BotConnection simulates a websocket connection for a bot player.
// It implements the player.Connection interface.
type BotConnection struct {
	playerID      string
	player        *player.Player
	incomingMoves chan<- *types.PlayerMove
	calculator    MoveCalculator
	thinkDelay    time.Duration

	mu     sync.Mutex
	mark   game.PlayerMark // Stores the bot's mark
	closed chan struct{}
	once   sync.Once
}

// NewBotConnection creates a new connection for a bot. Moves are queued on incomingMoves.
func NewBotConnection(playerID string, p *player.Player, incomingMoves chan<- *types.PlayerMove, calculator MoveCalculator, thinkDelay time.Duration) *BotConnection {
	if calculator == nil {
		calculator = &BotMoveCalculator{}
	}
	return &BotConnection{
		playerID:      playerID,
		player:        p,
		incomingMoves: incomingMoves,
		calculator:    calculator,
		thinkDelay:    thinkDelay,
		closed:        make(chan struct{}),
	}
}

// WriteMessage is called by the room to send game state to the bot.
// It never blocks: the search runs on its own goroutine.
func (bc *BotConnection) WriteMessage(messageType int, data []byte) error {
	var envelope struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return err
	}

	switch envelope.Type {
	case proto.TypeAssignment:
		var msg proto.PlayerAssignmentMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}
		bc.mu.Lock()
		bc.mark = msg.Mark
		bc.mu.Unlock()
		slog.Info("Bot assigned mark", "player.id", bc.playerID, "mark", msg.Mark)

	case proto.TypeUpdate:
		var msg proto.ServerToClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			return err
		}

		mark := bc.Mark()
		// The bot only acts if it has a mark, it's its turn, and the game is still live
		if mark == game.None || msg.Next != mark || msg.Over() {
			return nil
		}

		board, err := game.BoardFromSlice(msg.Board)
		if err != nil {
			return err
		}
		go bc.play(board, mark)
	}

	return nil
}

func (bc *BotConnection) play(board game.Board, mark game.PlayerMark) {
	ctx := context.Background()
	slog.InfoContext(ctx, "Bot is thinking...", "player.id", bc.playerID, "mark", mark)

	// Pacing only: the search itself is instant on a 3x3 board.
	select {
	case <-time.After(bc.thinkDelay):
	case <-bc.closed:
		return
	}

	index, err := bc.calculator.CalculateNextMove(ctx, board, mark)
	if err != nil {
		slog.ErrorContext(ctx, "Bot could not calculate a move", "player.id", bc.playerID, "error", err)
		return
	}

	position := index
	moveBytes, err := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeMove, Position: &position})
	if err != nil {
		slog.ErrorContext(ctx, "Bot could not marshal move", "player.id", bc.playerID, "error", err)
		return
	}

	select {
	case bc.incomingMoves <- &types.PlayerMove{Player: bc.player, Message: moveBytes}:
	case <-bc.closed:
	}
}

// Mark returns the mark the room assigned to the bot.
func (bc *BotConnection) Mark() game.PlayerMark {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	return bc.mark
}

// ReadMessage has nothing to read: bot moves go straight to the room.
func (bc *BotConnection) ReadMessage() (int, []byte, error) {
	return 0, nil, io.EOF
}

// Close stops any pending move.
func (bc *BotConnection) Close() error {
	bc.once.Do(func() { close(bc.closed) })
	return nil
}

// NewBotPlayer creates a new player instance that is a bot.
func NewBotPlayer(incomingMoves chan<- *types.PlayerMove, thinkDelay time.Duration) *player.Player {
	botID := "bot-" + uuid.New().String()[:8]
	p := player.NewPlayer(botID, nil)
	p.IsBot = true
	p.Conn = NewBotConnection(botID, p, incomingMoves, &BotMoveCalculator{}, thinkDelay)
	return p
}
