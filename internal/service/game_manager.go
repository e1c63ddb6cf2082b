// service/game_manager.go
package service

import (
	"fmt"
	"sync"

	"github.com/benbeisheim/plychess/internal/model"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
	"golang.org/x/exp/rand"
)

// GameManager owns every live session. Each game gets its own shuffler,
// seeded from the manager's source, since a *rand.Rand is not safe to share.
type GameManager struct {
	games map[string]*Game
	rules model.Rules
	eval  *model.Evaluator
	seeds *rand.Rand
	mu    sync.RWMutex
}

func NewGameManager(rules model.Rules, seed uint64) *GameManager {
	return &GameManager{
		games: make(map[string]*Game),
		rules: rules,
		eval:  model.NewEvaluator(model.DefaultPieceValues()),
		seeds: rand.New(rand.NewSource(seed)),
	}
}

// pickColor resolves "random" with the manager's source. Callers hold gm.mu.
func (gm *GameManager) pickColor(color string) (model.Color, error) {
	switch color {
	case "", string(model.White):
		return model.White, nil
	case string(model.Black):
		return model.Black, nil
	case "random":
		if gm.seeds.Intn(2) == 0 {
			return model.White, nil
		}
		return model.Black, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
}

func (gm *GameManager) CreateGame(gameID string, playerID string, color string, board *model.BoardState) (*Game, error) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if _, exists := gm.games[gameID]; exists {
		return nil, ErrGameExists
	}
	human, err := gm.pickColor(color)
	if err != nil {
		return nil, err
	}

	shuffler := rand.New(rand.NewSource(gm.seeds.Uint64()))
	selector := model.NewSelector(gm.rules, gm.eval, shuffler)
	game := NewGame(gameID, playerID, human, board, gm.rules, selector)
	gm.games[gameID] = game
	log.Infof("game %s created for player %s playing %s", gameID, playerID, human)
	return game, nil
}

func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	game, exists := gm.games[gameID]
	if !exists {
		return nil, ErrGameNotFound
	}

	return game, nil
}

func (gm *GameManager) DeleteGame(gameID string) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	delete(gm.games, gameID)
}

func (gm *GameManager) GameCount() int {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	return len(gm.games)
}

func (gm *GameManager) GetGameState(gameID string) (GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}

	return game.GetState(), nil
}

func (gm *GameManager) MakeMove(gameID string, playerID string, move string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.MakeMove(playerID, move)
}

func (gm *GameManager) Undo(gameID string, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}

	return game.Undo(playerID)
}

func (gm *GameManager) RegisterConnection(gameID string, playerID string, conn *websocket.Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.IsPlayerInGame(playerID) {
		return ErrNotParticipant
	}

	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID string, playerID string, conn *websocket.Conn) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return
	}

	game.UnregisterConnection(playerID, conn)
}
