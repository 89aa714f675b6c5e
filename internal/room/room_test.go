package room

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"ctchen222/tictactoe/internal/bot"
	"ctchen222/tictactoe/internal/game"
	"ctchen222/tictactoe/internal/hub/types"
	"ctchen222/tictactoe/internal/player"
	"ctchen222/tictactoe/internal/player/mock"
	"ctchen222/tictactoe/pkg/proto"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// recorder collects everything the room writes to one connection.
type recorder struct {
	mu       sync.Mutex
	messages [][]byte
}

func (r *recorder) write(_ int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, data)
	return nil
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = nil
}

func (r *recorder) types() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, m := range r.messages {
		var envelope struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal(m, &envelope)
		out = append(out, envelope.Type)
	}
	return out
}

func (r *recorder) last(t *testing.T) proto.ServerToClientMessage {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	require.NotEmpty(t, r.messages)
	var msg proto.ServerToClientMessage
	require.NoError(t, json.Unmarshal(r.messages[len(r.messages)-1], &msg))
	return msg
}

func newHuman(t *testing.T) (*player.Player, *recorder) {
	t.Helper()
	ctrl := gomock.NewController(t)
	conn := mock.NewMockConnection(ctrl)
	rec := &recorder{}
	conn.EXPECT().WriteMessage(websocket.TextMessage, gomock.Any()).DoAndReturn(rec.write).AnyTimes()
	conn.EXPECT().Close().Return(nil).AnyTimes()
	return player.NewPlayer("human", conn), rec
}

func botFactory(incomingMoves chan<- *types.PlayerMove) *player.Player {
	return bot.NewBotPlayer(incomingMoves, 0)
}

func moveMsg(i int) []byte {
	data, _ := json.Marshal(proto.ClientToServerMessage{Type: proto.TypeMove, Position: &i})
	return data
}

func typeMsg(typ string) []byte {
	data, _ := json.Marshal(proto.ClientToServerMessage{Type: typ})
	return data
}

func newOpenRoom(t *testing.T, mode game.Mode) (*Room, *player.Player, *recorder) {
	t.Helper()
	human, rec := newHuman(t)
	r := NewRoom("room-1", mode, botFactory)
	r.AddPlayer(human)
	r.open(context.Background())
	t.Cleanup(r.Close)
	return r, human, rec
}

func nextBotMove(t *testing.T, r *Room) *types.PlayerMove {
	t.Helper()
	select {
	case move := <-r.incomingMoves:
		require.True(t, move.Player.IsBot)
		return move
	case <-time.After(2 * time.Second):
		t.Fatal("Bot did not make a move within the expected time")
	}
	return nil
}

func TestRoom_OpenInBotMode(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeBot)

	require.Len(t, r.Players, 2)
	assert.Equal(t, game.PlayerX, human.Mark)
	assert.Equal(t, "room-1", human.RoomID)
	assert.Equal(t, game.PlayerO, r.botLocked().Mark)

	assert.Equal(t, []string{proto.TypeAssignment, proto.TypeUpdate}, rec.types())
	update := rec.last(t)
	assert.Equal(t, game.PlayerX, update.Next)
	assert.Equal(t, game.ModeBot, update.Mode)
	assert.Equal(t, "X's Turn", update.Status)
	assert.Len(t, update.Board, game.CellCount)
}

func TestRoom_BotAnswersHumanMove(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeBot)

	r.HandleMessage(human, moveMsg(0))
	update := rec.last(t)
	assert.Equal(t, game.PlayerX, update.Board[0])
	assert.Equal(t, game.PlayerO, update.Next)

	move := nextBotMove(t, r)
	r.HandleMessage(move.Player, move.Message)

	update = rec.last(t)
	assert.Equal(t, game.PlayerX, update.Next)
	want, err := bot.BestMove(game.Board{game.PlayerX}, game.PlayerO)
	require.NoError(t, err)
	assert.Equal(t, game.PlayerO, update.Board[want])
	assert.Equal(t, game.PlayerO, r.Game.Board[want])
}

func TestRoom_HumanCannotMoveForTheBot(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeBot)

	r.HandleMessage(human, moveMsg(4))
	nextBotMove(t, r) // discard: the human tries to move again first

	r.HandleMessage(human, moveMsg(0))
	msg := rec.last(t)
	assert.Equal(t, proto.TypeError, msg.Type)
	assert.Equal(t, "not your turn", msg.Reason)
	assert.Equal(t, game.None, r.Game.Board[0])
}

func TestRoom_TwoPlayerHotSeat(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeTwoPlayer)
	require.Len(t, r.Players, 1)
	assert.Equal(t, game.None, human.Mark)

	// X: 0 1 2, O: 3 4
	for _, idx := range []int{0, 3, 1, 4, 2} {
		r.HandleMessage(human, moveMsg(idx))
	}

	update := rec.last(t)
	assert.Equal(t, proto.TypeUpdate, update.Type)
	assert.Equal(t, game.PlayerX, update.Winner)
	assert.Equal(t, "X - Wins!", update.Status)

	r.HandleMessage(human, moveMsg(5))
	msg := rec.last(t)
	assert.Equal(t, proto.TypeError, msg.Type)
	assert.Contains(t, msg.Reason, game.ErrGameFinished.Error())
}

func TestRoom_InvalidMessages(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeTwoPlayer)

	tests := []struct {
		name    string
		message []byte
		reason  string
	}{
		{"malformed json", []byte("{"), "malformed message"},
		{"unknown type", typeMsg("rematch"), "invalid message"},
		{"move without a position", typeMsg(proto.TypeMove), "invalid message"},
		{"move off the board", []byte(`{"type":"move","position":12}`), "invalid message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r.HandleMessage(human, tt.message)
			msg := rec.last(t)
			assert.Equal(t, proto.TypeError, msg.Type)
			assert.Equal(t, tt.reason, msg.Reason)
		})
	}

	r.HandleMessage(human, moveMsg(4))
	r.HandleMessage(human, moveMsg(4))
	msg := rec.last(t)
	assert.Equal(t, proto.TypeError, msg.Type)
	assert.Contains(t, msg.Reason, game.ErrCellOccupied.Error())
}

func TestRoom_ToggleMode(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeTwoPlayer)
	r.HandleMessage(human, moveMsg(4))

	rec.reset()
	r.HandleMessage(human, typeMsg(proto.TypeToggleMode))

	assert.Equal(t, game.ModeBot, r.Game.Mode)
	assert.Equal(t, game.Board{}, r.Game.Board)
	require.Len(t, r.Players, 2)
	assert.Equal(t, game.PlayerX, human.Mark)
	assert.Equal(t, []string{proto.TypeAssignment, proto.TypeUpdate}, rec.types())

	r.HandleMessage(human, typeMsg(proto.TypeToggleMode))
	assert.Equal(t, game.ModeTwoPlayer, r.Game.Mode)
	require.Len(t, r.Players, 1)
	assert.Nil(t, r.botLocked())
	assert.Equal(t, game.None, human.Mark)
}

func TestRoom_RestartDiscardsStaleBotMoves(t *testing.T) {
	r, human, rec := newOpenRoom(t, game.ModeBot)
	oldBot := r.botLocked()

	r.HandleMessage(human, moveMsg(4))
	stale := nextBotMove(t, r)

	r.HandleMessage(human, typeMsg(proto.TypeRestart))
	assert.Equal(t, game.Board{}, r.Game.Board)
	assert.Equal(t, game.ModeBot, r.Game.Mode)
	newBot := r.botLocked()
	require.NotNil(t, newBot)
	assert.NotEqual(t, oldBot.ID, newBot.ID)

	r.HandleMessage(human, moveMsg(0))
	rec.reset()
	r.HandleMessage(stale.Player, stale.Message)
	assert.Empty(t, rec.types(), "stale bot move must be ignored")
	assert.Equal(t, game.PlayerO, r.Game.CurrentTurn)

	fresh := nextBotMove(t, r)
	assert.Same(t, newBot, fresh.Player)
	r.HandleMessage(fresh.Player, fresh.Message)
	assert.Equal(t, game.PlayerX, r.Game.CurrentTurn)
}

func TestRoom_BotCannotRestartOrToggle(t *testing.T) {
	r, _, _ := newOpenRoom(t, game.ModeBot)
	b := r.botLocked()

	r.HandleMessage(b, typeMsg(proto.TypeToggleMode))
	r.HandleMessage(b, typeMsg(proto.TypeRestart))

	assert.Equal(t, game.ModeBot, r.Game.Mode)
	assert.Same(t, b, r.botLocked())
}

func TestRoom_Close(t *testing.T) {
	ctrl := gomock.NewController(t)
	conn := mock.NewMockConnection(ctrl)
	conn.EXPECT().WriteMessage(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	conn.EXPECT().Close().Return(nil).Times(1)

	r := NewRoom("room-2", game.ModeTwoPlayer, botFactory)
	r.AddPlayer(player.NewPlayer("human", conn))
	r.open(context.Background())

	r.Close()
	r.Close()

	select {
	case <-r.Done:
	default:
		t.Fatal("Done should be closed")
	}
}
