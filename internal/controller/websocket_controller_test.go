package controller

import (
	"encoding/json"
	"net"
	"net/http"
	"testing"
	"time"

	gws "github.com/gorilla/websocket"

	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/service"
	"github.com/benbeisheim/raychess-backend/internal/testutil"
	"github.com/benbeisheim/raychess-backend/internal/ws"
)

// serve runs the app on a loopback port and returns a dialer for it.
func serve(t *testing.T) (*service.GameService, func(path, player string) *gws.Conn) {
	t.Helper()
	app, svc := newTestApp(t)
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	testutil.AssertNoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })

	dial := func(path, player string) *gws.Conn {
		t.Helper()
		header := http.Header{"Origin": {"http://localhost:5173"}}
		conn, _, err := gws.DefaultDialer.Dial("ws://"+ln.Addr().String()+path+"?playerId="+player, header)
		testutil.AssertNoError(t, err, "dial %s", path)
		t.Cleanup(func() { conn.Close() })
		return conn
	}
	return svc, dial
}

func readMessage(t *testing.T, conn *gws.Conn) ws.Message {
	t.Helper()
	testutil.AssertNoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var msg ws.Message
	testutil.AssertNoError(t, conn.ReadJSON(&msg))
	return msg
}

func readState(t *testing.T, conn *gws.Conn) model.GameState {
	t.Helper()
	msg := readMessage(t, conn)
	testutil.AssertEqual(t, msg.Type, ws.MessageTypeGameState)
	var state model.GameState
	testutil.AssertNoError(t, json.Unmarshal(msg.Payload, &state))
	return state
}

func TestWebSocketGame(t *testing.T) {
	svc, dial := serve(t)

	gameID, err := svc.CreateGame("")
	testutil.AssertNoError(t, err)
	_, err = svc.JoinGame(gameID, "alice")
	testutil.AssertNoError(t, err)
	conn := dial("/ws/game/"+gameID, "alice")

	state := readState(t, conn)
	testutil.AssertEqual(t, state.ID, gameID)
	testutil.AssertEqual(t, state.Plies, 0)

	move := ws.Message{Type: ws.MessageTypeMove, Payload: json.RawMessage(`{"from":"e2","to":"e4"}`)}
	testutil.AssertNoError(t, conn.WriteJSON(move))
	state = readState(t, conn)
	testutil.AssertEqual(t, state.Plies, 1)
	testutil.AssertEqual(t, state.ToMove, model.Black)

	testutil.AssertNoError(t, conn.WriteJSON(move))
	msg := readMessage(t, conn)
	testutil.AssertEqual(t, msg.Type, ws.MessageTypeError)

	testutil.AssertNoError(t, conn.WriteJSON(ws.Message{Type: ws.MessageTypeResign}))
	state = readState(t, conn)
	testutil.AssertEqual(t, state.Outcome, model.BlackWon)
}

func TestWebSocketMatchmaking(t *testing.T) {
	_, dial := serve(t)

	alice := dial("/ws/matchmaking", "alice")
	bob := dial("/ws/matchmaking", "bob")

	var events []model.MatchFoundEvent
	for _, conn := range []*gws.Conn{alice, bob} {
		msg := readMessage(t, conn)
		testutil.AssertEqual(t, msg.Type, ws.MessageTypeMatchFound)
		var event model.MatchFoundEvent
		testutil.AssertNoError(t, json.Unmarshal(msg.Payload, &event))
		events = append(events, event)
	}
	testutil.AssertEqual(t, events[0].GameID, events[1].GameID)
	testutil.AssertTrue(t, events[0].Color != events[1].Color, "players get opposite colours")
}

func TestWebSocketRequiresUpgrade(t *testing.T) {
	app, _ := newTestApp(t)
	testutil.AssertEqual(t, call(t, app, http.MethodGet, "/ws/matchmaking", "alice", "", nil), 426)
}
