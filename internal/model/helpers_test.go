package model

import (
	"testing"
)

var letterTypes = map[byte]PieceType{
	'K': King, 'Q': Queen, 'R': Rook, 'B': Bishop, 'N': Knight, 'P': Pawn,
}

// sq parses a coordinate such as "e4".
func sq(t *testing.T, coord string) Square {
	t.Helper()
	if len(coord) != 2 {
		t.Fatalf("bad coordinate %q", coord)
	}
	s := Square{Row: 8 - int(coord[1]-'0'), Col: int(coord[0] - 'a')}
	if !s.OnBoard() {
		t.Fatalf("bad coordinate %q", coord)
	}
	return s
}

// mustPosition builds a board from placements like "Ke1" (white) or "ke8" (black).
func mustPosition(t *testing.T, toMove Color, rights CastlingRights, placements ...string) *BoardState {
	t.Helper()
	var grid [8][8]Piece
	for _, placement := range placements {
		letter := placement[0]
		color := White
		if letter >= 'a' {
			color = Black
			letter -= 'a' - 'A'
		}
		pieceType, ok := letterTypes[letter]
		if !ok {
			t.Fatalf("bad placement %q", placement)
		}
		s := sq(t, placement[1:])
		grid[s.Row][s.Col] = Piece{Type: pieceType, Color: color}
	}
	b, err := NewPosition(grid, toMove, rights, EnPassantTarget{})
	if err != nil {
		t.Fatalf("NewPosition: %v", err)
	}
	return b
}

// play applies coordinate moves in order, each of which must be legal.
func play(t *testing.T, b *BoardState, coords ...string) {
	t.Helper()
	for _, coord := range coords {
		b.Apply(findMove(t, b, coord))
	}
}

func findMove(t *testing.T, b *BoardState, coord string) Move {
	t.Helper()
	for _, move := range AllPromotions().LegalMoves(b) {
		if move.String() == coord {
			return move
		}
	}
	t.Fatalf("move %s not legal; legal moves: %v", coord, moveStrings(LegalMoves(b)))
	return Move{}
}

func hasMove(moves []Move, coord string) bool {
	for _, move := range moves {
		if move.String() == coord {
			return true
		}
	}
	return false
}

func moveStrings(moves []Move) []string {
	out := make([]string, len(moves))
	for i, move := range moves {
		out[i] = move.String()
	}
	return out
}

func movesFrom(moves []Move, from Square) []Move {
	var out []Move
	for _, move := range moves {
		if move.From == from {
			out = append(out, move)
		}
	}
	return out
}

type snapshot struct {
	grid      [8][8]Piece
	toMove    Color
	whiteKing Square
	blackKing Square
	castling  CastlingRights
	enPassant EnPassantTarget
	history   int
}

func snap(b *BoardState) snapshot {
	return snapshot{
		grid:      b.grid,
		toMove:    b.toMove,
		whiteKing: b.whiteKing,
		blackKing: b.blackKing,
		castling:  b.castling,
		enPassant: b.enPassant,
		history:   len(b.history),
	}
}
