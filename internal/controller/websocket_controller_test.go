package controller

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/benbeisheim/plychess/internal/service"
	"github.com/benbeisheim/plychess/internal/ws"
	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v2"
)

const testOrigin = "http://localhost:5173"

// serve runs app on a loopback listener and returns its address.
func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	go app.Listener(ln)
	t.Cleanup(func() {
		app.ShutdownWithTimeout(2 * time.Second)
	})
	return ln.Addr().String()
}

func dial(t *testing.T, addr, gameID, playerID string) *websocket.Conn {
	t.Helper()
	url := "ws://" + addr + "/ws/game/" + gameID + "?playerId=" + playerID
	conn, _, err := websocket.DefaultDialer.Dial(url, http.Header{"Origin": {testOrigin}})
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, msgType ws.MessageType, payload any) {
	t.Helper()
	msg := ws.Message{Type: msgType}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		msg.Payload = data
	}
	if err := conn.WriteJSON(msg); err != nil {
		t.Fatalf("write %s: %v", msgType, err)
	}
}

// readUntil reads messages until match accepts one, skipping the rest.
func readUntil(t *testing.T, conn *websocket.Conn, what string, match func(ws.Message) bool) ws.Message {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for {
		conn.SetReadDeadline(deadline)
		var msg ws.Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("waiting for %s: %v", what, err)
		}
		if match(msg) {
			return msg
		}
	}
}

func stateWithHistory(t *testing.T, n int) func(ws.Message) bool {
	return func(msg ws.Message) bool {
		if msg.Type != ws.MessageTypeGameState {
			return false
		}
		var state service.GameState
		if err := json.Unmarshal(msg.Payload, &state); err != nil {
			t.Fatalf("decode state: %v", err)
		}
		return len(state.MoveHistory) == n
	}
}

func errorContaining(t *testing.T, text string) func(ws.Message) bool {
	return func(msg ws.Message) bool {
		if msg.Type != ws.MessageTypeError {
			return false
		}
		var payload ws.ErrorPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			t.Fatalf("decode error payload: %v", err)
		}
		return strings.Contains(payload.Error, text)
	}
}

func TestWebSocketMoveUndoAndErrors(t *testing.T) {
	app := newTestApp()
	gameID := createGame(t, app, `{"color":"white"}`)
	conn := dial(t, serve(t, app), gameID, testPlayer)

	readUntil(t, conn, "initial state", stateWithHistory(t, 0))

	send(t, conn, ws.MessageTypeMove, ws.MovePayload{Move: "e2e4"})
	readUntil(t, conn, "state after e2e4", stateWithHistory(t, 2))

	send(t, conn, ws.MessageTypeMove, ws.MovePayload{Move: "e4e6"})
	readUntil(t, conn, "illegal move error", errorContaining(t, "illegal move"))

	send(t, conn, ws.MessageTypeMove, ws.MovePayload{Move: "e4"})
	readUntil(t, conn, "malformed move error", errorContaining(t, "malformed"))

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, "malformed envelope error", errorContaining(t, "malformed message"))

	send(t, conn, "resign", nil)
	readUntil(t, conn, "unknown type error", errorContaining(t, "unknown message type"))

	send(t, conn, ws.MessageTypeUndo, nil)
	readUntil(t, conn, "state after undo", stateWithHistory(t, 0))

	send(t, conn, ws.MessageTypeUndo, nil)
	readUntil(t, conn, "empty undo error", errorContaining(t, "no move to undo"))
}

func TestWebSocketRejectsStranger(t *testing.T) {
	app := newTestApp()
	gameID := createGame(t, app, `{"color":"white"}`)
	conn := dial(t, serve(t, app), gameID, "intruder")

	readUntil(t, conn, "not a participant error", errorContaining(t, "player not in game"))
}

func TestWebSocketDuplicateKeepsFirstConnection(t *testing.T) {
	app := newTestApp()
	gameID := createGame(t, app, `{"color":"white"}`)
	addr := serve(t, app)

	first := dial(t, addr, gameID, testPlayer)
	readUntil(t, first, "initial state", stateWithHistory(t, 0))

	second := dial(t, addr, gameID, testPlayer)
	readUntil(t, second, "duplicate connection error", errorContaining(t, "already connected"))
	second.SetReadDeadline(time.Now().Add(3 * time.Second))
	if _, _, err := second.ReadMessage(); err == nil {
		t.Fatalf("duplicate connection stayed open")
	}

	send(t, first, ws.MessageTypeMove, ws.MovePayload{Move: "d2d4"})
	readUntil(t, first, "state on the first connection", stateWithHistory(t, 2))
}
