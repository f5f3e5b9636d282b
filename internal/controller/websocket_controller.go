package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/raychess-backend/internal/middleware"
	"github.com/benbeisheim/raychess-backend/internal/model"
	"github.com/benbeisheim/raychess-backend/internal/service"
	"github.com/benbeisheim/raychess-backend/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// lockedConn serialises writes; broadcasts and replies may come from
// different goroutines.
type lockedConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (l *lockedConn) WriteJSON(v interface{}) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.WriteJSON(v)
}

func (l *lockedConn) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.conn.Close()
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &lockedConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Warnf("failed to register connection of player %s to game %s: %v", playerID, gameID, err)
		if errors.Is(err, model.ErrConnected) {
			conn.mu.Lock()
			_ = c.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, "Connection already exists"))
			conn.mu.Unlock()
		} else {
			_ = conn.WriteJSON(ws.NewError(err.Error()))
		}
		conn.Close()
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error on game %s: %v", gameID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Debugf("parse error on game %s: %v", gameID, err)
			_ = conn.WriteJSON(ws.NewError(err.Error()))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			log.Debugf("handle error on game %s: %v", gameID, err)
			_ = conn.WriteJSON(ws.NewError(err.Error()))
		}
	}
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.WSMove
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return err
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypeResign:
		return wsc.gameService.Resign(gameID, playerID)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// HandleMatchmaking queues the player and holds the socket open until a
// match is found, then sends it and closes.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	defer c.Close()

	if event, ok := wsc.gameService.MatchStatus(playerID); ok {
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(mustMarshal(event))}); err != nil {
			log.Warnf("failed to send match to player %s: %v", playerID, err)
		}
		return
	}

	// Buffered so the manager can hand over an already made match at once.
	ch := make(chan string, 1)
	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrPlayerQueued) {
		_ = c.WriteJSON(ws.NewError(err.Error()))
		return
	}
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		if err := c.WriteJSON(ws.Message{Type: ws.MessageTypeMatchFound, Payload: json.RawMessage(event)}); err != nil {
			log.Warnf("failed to send match to player %s: %v", playerID, err)
		}
	case <-closed:
		log.Debugf("player %s left matchmaking", playerID)
	}
}

func mustMarshal(v interface{}) []byte {
	payload, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return payload
}
