package service

import (
	"github.com/benbeisheim/plychess/internal/model"
	"github.com/benbeisheim/plychess/internal/notation"
)

// GameState is the client-facing snapshot of a game.
type GameState struct {
	ID              string               `json:"id"`
	Board           [][]*model.Piece     `json:"board"`
	ToMove          model.Color          `json:"toMove"`
	HumanColor      model.Color          `json:"humanColor"`
	Status          model.GameStatus     `json:"status"`
	Winner          *model.Color         `json:"winner"` // nil unless checkmate
	IsCheck         bool                 `json:"isCheck"`
	Castling        model.CastlingRights `json:"castling"`
	EnPassantTarget *string              `json:"enPassantTarget"`
	LegalMoves      []string             `json:"legalMoves"`
	MoveHistory     []string             `json:"moveHistory"`
	LastMove        *string              `json:"lastMove"`
	FEN             string               `json:"fen"`
}

func newGameState(id string, b *model.BoardState, rules model.Rules, human model.Color) GameState {
	grid := b.Grid()
	board := make([][]*model.Piece, 8)
	for row := range grid {
		board[row] = make([]*model.Piece, 8)
		for col := range grid[row] {
			if p := grid[row][col]; !p.IsEmpty() {
				board[row][col] = &p
			}
		}
	}

	history := b.History()
	moveHistory := make([]string, 0, len(history))
	for _, entry := range history {
		moveHistory = append(moveHistory, entry.Move.String())
	}

	legal := rules.LegalMoves(b)
	state := GameState{
		ID:          id,
		Board:       board,
		ToMove:      b.ToMove(),
		HumanColor:  human,
		Status:      model.Playing,
		IsCheck:     model.IsInCheck(b),
		Castling:    b.Castling(),
		LegalMoves:  notation.FormatMoves(legal),
		MoveHistory: moveHistory,
		FEN:         notation.FEN(b),
	}
	if len(legal) == 0 {
		state.Status = model.Stalemate
		if state.IsCheck {
			state.Status = model.Checkmate
			winner := b.ToMove().Opponent()
			state.Winner = &winner
		}
	}
	if ep := b.EnPassant(); ep.Valid {
		target := ep.Square.String()
		state.EnPassantTarget = &target
	}
	if last, ok := b.LastMove(); ok {
		text := last.String()
		state.LastMove = &text
	}
	return state
}
