package controller

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/plychess/internal/service"
	"github.com/benbeisheim/plychess/internal/ws"
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

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	// Extract game ID and player ID from context
	gameID, _ := c.Locals("wsGameID").(string)
	playerID, _ := c.Locals("wsPlayerID").(string)

	// Register this connection with the game. A refused connection was never
	// registered, so it must not unregister on the way out.
	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		log.Warnf("failed to register connection for game %s: %v", gameID, err)
		wsc.sendError(c, gameID, err.Error())
		c.WriteMessage(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, err.Error()),
		)
		c.Close()
		return
	}

	// Start message handling loop
	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("read error on game %s: %v", gameID, err)
			break
		}

		// Handle different types of WebSocket messages
		if messageType == websocket.TextMessage {
			var msg ws.Message
			if err := json.Unmarshal(message, &msg); err != nil {
				wsc.sendError(c, gameID, "malformed message")
				continue
			}

			if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
				if service.IsClientError(err) {
					log.Debugf("game %s: rejected %s from %s: %v", gameID, msg.Type, playerID, err)
				} else {
					log.Errorf("game %s: %s from %s failed: %v", gameID, msg.Type, playerID, err)
				}
				wsc.sendError(c, gameID, err.Error())
			}
		}
	}

	// Clean up when connection closes
	wsc.gameService.UnregisterConnection(gameID, playerID, c)
}

// Handle different types of incoming messages
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move payload: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move.Move)

	case ws.MessageTypeUndo:
		return wsc.gameService.HandleUndo(gameID, playerID)

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// Helper method to send error messages
func (wsc *WebSocketController) sendError(c *websocket.Conn, gameID string, errorMsg string) {
	if err := wsc.gameService.SendError(gameID, c, errorMsg); err != nil {
		log.Debugf("failed to send error: %v", err)
	}
}
