package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/policy"
	"github.com/benbeisheim/raychess-backend/internal/testutil"
)

func newService() (*GameService, *GameManager) {
	gm := NewGameManager(Settings{MaxPlies: model.DefaultMaxPlies, MatchmakingInterval: 10 * time.Millisecond, BotSeed: 1})
	return NewGameService(gm), gm
}

func TestCreateAndJoinGame(t *testing.T) {
	svc, gm := newService()

	gameID, err := svc.CreateGame("")
	testutil.AssertNoError(t, err)

	side, err := svc.JoinGame(gameID, "alice")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, side, model.White)
	side, err = svc.JoinGame(gameID, "bob")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, side, model.Black)
	_, err = svc.JoinGame(gameID, "carol")
	testutil.AssertErrorIs(t, err, model.ErrGameFull)

	testutil.AssertErrorIs(t, svc.HandleMove(gameID, "bob", model.WSMove{From: model.SquareAt(4, 6), To: model.SquareAt(4, 4)}), model.ErrNotYourTurn)
	testutil.AssertNoError(t, svc.HandleMove(gameID, "alice", model.WSMove{From: model.SquareAt(4, 1), To: model.SquareAt(4, 3)}))

	moves, err := svc.GetLegalMoves(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(moves), 20)

	state, err := svc.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.FEN, "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq")

	testutil.AssertNoError(t, svc.Resign(gameID, "bob"))
	state, _ = svc.GetGameState(gameID)
	testutil.AssertEqual(t, state.Outcome, model.WhiteWon)

	_, err = gm.CreateGame(gameID)
	testutil.AssertErrorIs(t, err, ErrGameExists)
}

func TestUnknownGame(t *testing.T) {
	svc, _ := newService()
	_, err := svc.GetGameState("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	_, err = svc.JoinGame("missing", "alice")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	testutil.AssertErrorIs(t, svc.Resign("missing", "alice"), ErrGameNotFound)
	testutil.AssertErrorIs(t, svc.HandleMove("missing", "alice", model.WSMove{}), ErrGameNotFound)
}

func TestCreateGameFromFEN(t *testing.T) {
	svc, _ := newService()
	gameID, err := svc.CreateGame("4k3/8/8/8/8/8/8/R3K3 w Q -")
	testutil.AssertNoError(t, err)
	state, err := svc.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.FEN, "4k3/8/8/8/8/8/8/R3K3 w Q")

	_, err = svc.CreateGame("not a position")
	testutil.AssertErrorIs(t, err, model.ErrInvalidFEN)
}

func TestBotGame(t *testing.T) {
	svc, _ := newService()

	gameID, err := svc.CreateBotGame("alice", "random", model.Black, "")
	testutil.AssertNoError(t, err)
	state, err := svc.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.Plies, 1, "white bot moved first")
	testutil.AssertEqual(t, state.Players.White.Bot, "random")
	testutil.AssertEqual(t, state.Players.Black.ID, "alice")

	move := state.LegalMoves[0]
	testutil.AssertNoError(t, svc.HandleMove(gameID, "alice", model.WSMove{From: move.From, To: move.To, Promotion: move.Promotion}))
	state, _ = svc.GetGameState(gameID)
	testutil.AssertEqual(t, state.Plies, 3, "bot answered")
	testutil.AssertEqual(t, state.ToMove, model.Black)
}

func TestBotGameMates(t *testing.T) {
	svc, _ := newService()
	gameID, err := svc.CreateBotGame("alice", "greedy", model.Black, "6k1/5ppp/8/8/8/8/8/R5K1 w - -")
	testutil.AssertNoError(t, err)
	state, _ := svc.GetGameState(gameID)
	testutil.AssertEqual(t, state.Outcome, model.WhiteWon)
	testutil.AssertEqual(t, state.Method, model.Checkmate)
}

func TestBotGameUnknownPolicy(t *testing.T) {
	svc, _ := newService()
	_, err := svc.CreateBotGame("alice", "oracle", model.White, "")
	testutil.AssertErrorIs(t, err, policy.ErrUnknownPolicy)
}

func TestMatchmakingPending(t *testing.T) {
	svc, gm := newService()
	testutil.AssertNoError(t, svc.JoinMatchmaking("alice"))
	testutil.AssertErrorIs(t, svc.JoinMatchmaking("alice"), model.ErrPlayerQueued)
	testutil.AssertNoError(t, svc.JoinMatchmaking("bob"))

	gm.processMatchmaking()

	alice, ok := svc.MatchStatus("alice")
	testutil.AssertTrue(t, ok)
	bob, ok := svc.MatchStatus("bob")
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, alice.GameID, bob.GameID)
	testutil.AssertEqual(t, alice.Color, model.White)
	testutil.AssertEqual(t, bob.Color, model.Black)

	_, ok = svc.MatchStatus("alice")
	testutil.AssertFalse(t, ok, "status is delivered once")

	state, err := svc.GetGameState(alice.GameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, state.Players.White.ID, "alice")
	testutil.AssertEqual(t, state.Players.Black.ID, "bob")
}

func TestMatchmakingChannel(t *testing.T) {
	svc, gm := newService()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go gm.Run(ctx)

	aliceCh := make(chan string, 1)
	bobCh := make(chan string, 1)
	testutil.AssertNoError(t, svc.JoinMatchmaking("alice"))
	svc.RegisterMatchmakingChannel("alice", aliceCh)
	testutil.AssertNoError(t, svc.JoinMatchmaking("bob"))
	svc.RegisterMatchmakingChannel("bob", bobCh)

	var events []model.MatchFoundEvent
	for _, ch := range []chan string{aliceCh, bobCh} {
		select {
		case payload := <-ch:
			var event model.MatchFoundEvent
			testutil.AssertNoError(t, json.Unmarshal([]byte(payload), &event))
			events = append(events, event)
		case <-time.After(5 * time.Second):
			t.Fatal("no match found")
		}
	}
	testutil.AssertEqual(t, events[0].GameID, events[1].GameID)
	testutil.AssertEqual(t, events[0].Color, model.White)
	testutil.AssertEqual(t, events[1].Color, model.Black)
}

func TestMatchmakingLeave(t *testing.T) {
	svc, gm := newService()
	ch := make(chan string, 1)
	testutil.AssertNoError(t, svc.JoinMatchmaking("alice"))
	svc.RegisterMatchmakingChannel("alice", ch)
	svc.UnregisterMatchmakingChannel("alice", ch)
	testutil.AssertEqual(t, gm.queue.Size(), 0)
}
