package service

import (
	"fmt"

	"github.com/benbeisheim/plychess/internal/model"
	"github.com/benbeisheim/plychess/internal/notation"
	"github.com/benbeisheim/plychess/internal/ws"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a session for playerID. An empty fen means the initial
// position. If the engine has the first move it plays it before returning.
func (gs *GameService) CreateGame(playerID string, color string, fen string) (string, model.Color, error) {
	board := model.NewGame()
	if fen != "" {
		var err error
		if board, err = notation.ParseFEN(fen); err != nil {
			return "", "", err
		}
	}

	gameID := uuid.New().String()
	game, err := gs.gameManager.CreateGame(gameID, playerID, color, board)
	if err != nil {
		return "", "", fmt.Errorf("failed to create game: %w", err)
	}
	if err := game.Start(); err != nil {
		gs.gameManager.DeleteGame(gameID)
		return "", "", fmt.Errorf("failed to start game: %w", err)
	}

	return gameID, game.humanColor, nil
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) GetLegalMoves(gameID string) ([]string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return nil, err
	}
	return game.LegalMoves(), nil
}

func (gs *GameService) GetBoard(gameID string) ([8][8]model.Piece, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return [8][8]model.Piece{}, err
	}
	return game.Board(), nil
}

func (gs *GameService) GetFEN(gameID string) (string, error) {
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return "", err
	}
	return game.FEN(), nil
}

func (gs *GameService) HandleMove(gameID string, playerID string, move string) error {
	return gs.gameManager.MakeMove(gameID, playerID, move)
}

func (gs *GameService) HandleUndo(gameID string, playerID string) error {
	return gs.gameManager.Undo(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendError reports text to conn, serialized with the game's broadcasts when
// the game exists.
func (gs *GameService) SendError(gameID string, conn *websocket.Conn, text string) error {
	msg := ws.NewErrorMessage(text)
	game, err := gs.gameManager.GetGame(gameID)
	if err != nil {
		return conn.WriteJSON(msg)
	}
	return game.Send(conn, msg)
}
