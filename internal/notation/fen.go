package notation

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/plychess/internal/model"
	"github.com/notnil/chess"
)

var (
	toModelType = map[chess.PieceType]model.PieceType{
		chess.King:   model.King,
		chess.Queen:  model.Queen,
		chess.Rook:   model.Rook,
		chess.Bishop: model.Bishop,
		chess.Knight: model.Knight,
		chess.Pawn:   model.Pawn,
	}
	toChessType = map[model.PieceType]chess.PieceType{
		model.King:   chess.King,
		model.Queen:  chess.Queen,
		model.Rook:   chess.Rook,
		model.Bishop: chess.Bishop,
		model.Knight: chess.Knight,
		model.Pawn:   chess.Pawn,
	}
)

// StartFEN is the standard initial position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

func toModelSquare(sq chess.Square) model.Square {
	return model.Square{Row: 7 - int(sq.Rank()), Col: int(sq.File())}
}

func toChessSquare(sq model.Square) chess.Square {
	return chess.NewSquare(chess.File(sq.Col), chess.Rank(7-sq.Row))
}

// ParseFEN builds a board from a FEN string. Move counters are ignored.
func ParseFEN(fen string) (*model.BoardState, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	pos := chess.NewGame(opt).Position()

	var grid [8][8]model.Piece
	for sq, piece := range pos.Board().SquareMap() {
		pieceType, ok := toModelType[piece.Type()]
		if !ok {
			continue
		}
		color := model.White
		if piece.Color() == chess.Black {
			color = model.Black
		}
		s := toModelSquare(sq)
		grid[s.Row][s.Col] = model.Piece{Type: pieceType, Color: color}
	}

	toMove := model.White
	if pos.Turn() == chess.Black {
		toMove = model.Black
	}
	cr := pos.CastleRights()
	rights := model.CastlingRights{
		WhiteKingside:  cr.CanCastle(chess.White, chess.KingSide),
		WhiteQueenside: cr.CanCastle(chess.White, chess.QueenSide),
		BlackKingside:  cr.CanCastle(chess.Black, chess.KingSide),
		BlackQueenside: cr.CanCastle(chess.Black, chess.QueenSide),
	}
	var ep model.EnPassantTarget
	if sq := pos.EnPassantSquare(); sq != chess.NoSquare {
		ep = model.EnPassantTarget{Square: toModelSquare(sq), Valid: true}
	}

	b, err := model.NewPosition(grid, toMove, rights, ep)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFEN, err)
	}
	return b, nil
}

// FEN encodes the board. The halfmove clock is not tracked and is always 0;
// the fullmove number counts from the start of the board's own history.
func FEN(b *model.BoardState) string {
	squares := make(map[chess.Square]chess.Piece)
	grid := b.Grid()
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := grid[row][col]
			if p.IsEmpty() {
				continue
			}
			color := chess.White
			if p.Color == model.Black {
				color = chess.Black
			}
			squares[toChessSquare(model.Square{Row: row, Col: col})] = chess.NewPiece(toChessType[p.Type], color)
		}
	}

	turn := "w"
	if b.ToMove() == model.Black {
		turn = "b"
	}

	var castling strings.Builder
	rights := b.Castling()
	for _, r := range []struct {
		held   bool
		letter string
	}{
		{rights.WhiteKingside, "K"},
		{rights.WhiteQueenside, "Q"},
		{rights.BlackKingside, "k"},
		{rights.BlackQueenside, "q"},
	} {
		if r.held {
			castling.WriteString(r.letter)
		}
	}
	if castling.Len() == 0 {
		castling.WriteString("-")
	}

	ep := "-"
	if target := b.EnPassant(); target.Valid {
		ep = target.Square.String()
	}

	fullmove := 1 + b.HistoryLen()/2
	return fmt.Sprintf("%s %s %s %s 0 %d", chess.NewBoard(squares).String(), turn, castling.String(), ep, fullmove)
}
