package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/benbeisheim/plychess/internal/model"
	"github.com/benbeisheim/plychess/internal/notation"
	"github.com/benbeisheim/plychess/internal/ws"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"
)

// The connections for a specific game
type GameConnections struct {
	connections map[string]*websocket.Conn // playerID -> connection
	mu          sync.RWMutex
	writeMu     sync.Mutex // a conn allows one concurrent writer
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]*websocket.Conn),
	}
}

// Game is one human-versus-engine session. The board has a single mutator:
// every read or write goes through mu.
type Game struct {
	ID          string
	mu          sync.Mutex
	board       *model.BoardState
	rules       model.Rules
	selector    *model.Selector
	humanID     string
	humanColor  model.Color
	connections *GameConnections
}

func NewGame(id string, playerID string, color model.Color, board *model.BoardState, rules model.Rules, selector *model.Selector) *Game {
	return &Game{
		ID:          id,
		board:       board,
		rules:       rules,
		selector:    selector,
		humanID:     playerID,
		humanColor:  color,
		connections: NewGameConnections(),
	}
}

func (g *Game) GetState() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()

	return newGameState(g.ID, g.board, g.rules, g.humanColor)
}

// Board returns a copy of the grid.
func (g *Game) Board() [8][8]model.Piece {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.board.Grid()
}

func (g *Game) LegalMoves() []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return notation.FormatMoves(g.rules.LegalMoves(g.board))
}

func (g *Game) FEN() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return notation.FEN(g.board)
}

func (g *Game) IsPlayerInGame(playerID string) bool {
	return playerID != "" && playerID == g.humanID
}

// Start lets the engine open when it has the first move.
func (g *Game) Start() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.engineReply(); err != nil {
		return err
	}
	go g.broadcastState()
	return nil
}

// MakeMove validates the player's move text against the legal moves, plays
// it and lets the engine answer.
func (g *Game) MakeMove(playerID string, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.IsPlayerInGame(playerID) {
		return ErrNotParticipant
	}
	legalMoves := g.rules.LegalMoves(g.board)
	if len(legalMoves) == 0 {
		return ErrGameOver
	}
	if g.board.ToMove() != g.humanColor {
		return ErrNotYourTurn
	}

	coords, err := notation.ParseMove(text)
	if err != nil {
		return err
	}
	move, ok := notation.Match(legalMoves, coords)
	if !ok {
		return fmt.Errorf("%w: %s", ErrIllegalMove, text)
	}
	g.board.Apply(move)
	log.Infof("game %s: player %s played %s", g.ID, playerID, move)

	if err := g.engineReply(); err != nil {
		return err
	}
	go g.broadcastState()
	return nil
}

// engineReply plays the engine's move if it is the engine's turn and the
// game is not over. Callers hold g.mu.
func (g *Game) engineReply() error {
	if g.board.ToMove() == g.humanColor {
		return nil
	}
	legalMoves := g.rules.LegalMoves(g.board)
	if len(legalMoves) == 0 {
		log.Infof("game %s: %s after %d plies", g.ID, g.rules.Status(g.board), g.board.HistoryLen())
		return nil
	}
	move, err := g.selector.SelectMove(g.board, legalMoves)
	if err != nil {
		return fmt.Errorf("engine move: %w", err)
	}
	g.board.Apply(move)
	log.Infof("game %s: engine played %s", g.ID, move)
	return nil
}

// Undo takes back plies until the player's own last move is undone, so it
// is the player's turn again.
func (g *Game) Undo(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.IsPlayerInGame(playerID) {
		return ErrNotParticipant
	}
	if !g.humanHasMoved() {
		return model.ErrEmptyHistory
	}
	for {
		move, err := g.board.Undo()
		if err != nil {
			return err
		}
		if move.Piece.Color == g.humanColor {
			break
		}
	}
	log.Infof("game %s: player %s took back to ply %d", g.ID, playerID, g.board.HistoryLen())
	go g.broadcastState()
	return nil
}

func (g *Game) humanHasMoved() bool {
	for _, entry := range g.board.History() {
		if entry.Move.Piece.Color == g.humanColor {
			return true
		}
	}
	return false
}

// RegisterConnection adds conn as the player's live connection. A player
// keeps one connection per game; a second one is refused with
// ErrAlreadyConnected and left for the caller to close.
func (g *Game) RegisterConnection(playerID string, conn *websocket.Conn) error {
	g.connections.mu.Lock()
	if existing, exists := g.connections.connections[playerID]; exists {
		g.connections.mu.Unlock()
		log.Infof("game %s: refused connection %p for player %s, %p is live", g.ID, conn, playerID, existing)
		return ErrAlreadyConnected
	}

	g.connections.connections[playerID] = conn
	g.connections.mu.Unlock()
	log.Infof("game %s: registered connection %p for player %s", g.ID, conn, playerID)

	// Send initial state...
	go g.broadcastState()
	return nil
}

// UnregisterConnection drops conn if it is still the player's registered
// connection.
func (g *Game) UnregisterConnection(playerID string, conn *websocket.Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if g.connections.connections[playerID] == conn {
		log.Infof("game %s: unregistering connection %p for player %s", g.ID, conn, playerID)
		delete(g.connections.connections, playerID)
	}
}

// broadcastState pushes the current state to every connection of the game.
func (g *Game) broadcastState() {
	state := g.GetState()
	payload, err := json.Marshal(state)
	if err != nil {
		log.Errorf("game %s: failed to marshal state: %v", g.ID, err)
		return
	}

	// Get a snapshot of connections under the connections mutex
	g.connections.mu.RLock()
	activeConnections := make(map[string]*websocket.Conn, len(g.connections.connections))
	for playerID, conn := range g.connections.connections {
		activeConnections[playerID] = conn
	}
	g.connections.mu.RUnlock()

	// Now broadcast to each connection without holding any locks
	for playerID, conn := range activeConnections {
		if err := g.Send(conn, ws.Message{
			Type:    ws.MessageTypeGameState,
			Payload: json.RawMessage(payload),
		}); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			g.connections.mu.Lock()
			if g.connections.connections[playerID] == conn {
				delete(g.connections.connections, playerID)
			}
			g.connections.mu.Unlock()
		}
	}
}

// Send writes msg to conn, serialized with the game's broadcasts.
func (g *Game) Send(conn *websocket.Conn, msg ws.Message) error {
	g.connections.writeMu.Lock()
	defer g.connections.writeMu.Unlock()

	return conn.WriteJSON(msg)
}

// IsClientError reports whether err was caused by the request rather than the server.
func IsClientError(err error) bool {
	for _, target := range []error{
		ErrNotParticipant, ErrNotYourTurn, ErrGameOver, ErrIllegalMove, ErrInvalidColor, ErrAlreadyConnected,
		notation.ErrMalformedMove, notation.ErrInvalidFEN, model.ErrEmptyHistory,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
