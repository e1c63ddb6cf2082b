package model

import "fmt"

type PieceType string

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	case Pawn:
		return "P"
	}
	return ""
}

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opponent() Color {
	if c == White {
		return Black
	}
	return White
}

// Piece is a value; the zero Piece is an empty square.
type Piece struct {
	Type  PieceType `json:"type"`
	Color Color     `json:"color"`
}

var NoPiece = Piece{}

func (p Piece) IsEmpty() bool {
	return p.Type == ""
}

// Letter returns the piece's letter, upper case for white and lower case for black.
func (p Piece) Letter() string {
	l := p.Type.getPieceNotation()
	if l == "" {
		return ""
	}
	if p.Color == Black {
		return string(l[0] + ('a' - 'A'))
	}
	return l
}

// Square addresses the grid. Row 0 is rank 8, col 0 is file a.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) OnBoard() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) Add(d Direction) Square {
	return Square{Row: s.Row + d.DRow, Col: s.Col + d.DCol}
}

func (s Square) String() string {
	return fmt.Sprintf("%c%d", s.Col+'a', 8-s.Row)
}

type Direction struct {
	DRow int `json:"dRow"`
	DCol int `json:"dCol"`
}

func (d Direction) Reverse() Direction {
	return Direction{DRow: -d.DRow, DCol: -d.DCol}
}

func (d Direction) isDiagonal() bool {
	return d.DRow != 0 && d.DCol != 0
}

type CastlingRights struct {
	WhiteKingside  bool `json:"whiteKingside"`
	WhiteQueenside bool `json:"whiteQueenside"`
	BlackKingside  bool `json:"blackKingside"`
	BlackQueenside bool `json:"blackQueenside"`
}

func AllCastlingRights() CastlingRights {
	return CastlingRights{WhiteKingside: true, WhiteQueenside: true, BlackKingside: true, BlackQueenside: true}
}

func (c CastlingRights) Kingside(color Color) bool {
	if color == White {
		return c.WhiteKingside
	}
	return c.BlackKingside
}

func (c CastlingRights) Queenside(color Color) bool {
	if color == White {
		return c.WhiteQueenside
	}
	return c.BlackQueenside
}

func (c *CastlingRights) clear(color Color, kingside bool) {
	switch {
	case color == White && kingside:
		c.WhiteKingside = false
	case color == White:
		c.WhiteQueenside = false
	case kingside:
		c.BlackKingside = false
	default:
		c.BlackQueenside = false
	}
}

// EnPassantTarget is the square a pawn passed over on the previous move.
type EnPassantTarget struct {
	Square Square `json:"square"`
	Valid  bool   `json:"valid"`
}

type BoardState struct {
	grid      [8][8]Piece
	toMove    Color
	whiteKing Square
	blackKing Square
	castling  CastlingRights
	enPassant EnPassantTarget
	history   []HistoryEntry
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGame returns the standard initial position with white to move.
func NewGame() *BoardState {
	board := &BoardState{
		toMove:    White,
		whiteKing: Square{Row: 7, Col: 4},
		blackKing: Square{Row: 0, Col: 4},
		castling:  AllCastlingRights(),
		history:   make([]HistoryEntry, 0),
	}
	for col := 0; col < 8; col++ {
		board.grid[0][col] = Piece{Type: backRank[col], Color: Black}
		board.grid[1][col] = Piece{Type: Pawn, Color: Black}
		board.grid[6][col] = Piece{Type: Pawn, Color: White}
		board.grid[7][col] = Piece{Type: backRank[col], Color: White}
	}
	return board
}

// NewPosition builds a board from an arbitrary grid. Castling rights whose
// king or rook is off its home square are dropped, as is an en-passant target
// that no double pawn advance could have produced.
func NewPosition(grid [8][8]Piece, toMove Color, rights CastlingRights, ep EnPassantTarget) (*BoardState, error) {
	if toMove != White && toMove != Black {
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidPosition, toMove)
	}
	board := &BoardState{
		grid:     grid,
		toMove:   toMove,
		castling: rights,
		history:  make([]HistoryEntry, 0),
	}
	kings := map[Color][]Square{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := grid[row][col]
			if p.Type == King {
				kings[p.Color] = append(kings[p.Color], Square{Row: row, Col: col})
			}
		}
	}
	for _, color := range []Color{White, Black} {
		if len(kings[color]) != 1 {
			return nil, fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, len(kings[color]), color)
		}
	}
	board.whiteKing = kings[White][0]
	board.blackKing = kings[Black][0]

	for _, color := range []Color{White, Black} {
		row := homeRow(color)
		king := Piece{Type: King, Color: color}
		rook := Piece{Type: Rook, Color: color}
		if grid[row][4] != king || grid[row][7] != rook {
			board.castling.clear(color, true)
		}
		if grid[row][4] != king || grid[row][0] != rook {
			board.castling.clear(color, false)
		}
	}

	if ep.Valid && board.plausibleEnPassant(ep.Square) {
		board.enPassant = ep
	}
	return board, nil
}

// plausibleEnPassant reports whether the opponent's pawn sits just past sq
// with both sq and its origin square empty.
func (b *BoardState) plausibleEnPassant(sq Square) bool {
	if !sq.OnBoard() {
		return false
	}
	mover := b.toMove.Opponent()
	fwd := pawnForward(mover)
	pawn := sq.Add(Direction{DRow: fwd})
	origin := sq.Add(Direction{DRow: -fwd})
	if !pawn.OnBoard() || !origin.OnBoard() {
		return false
	}
	return b.PieceAt(pawn) == Piece{Type: Pawn, Color: mover} &&
		b.PieceAt(sq).IsEmpty() && b.PieceAt(origin).IsEmpty()
}

func homeRow(color Color) int {
	if color == White {
		return 7
	}
	return 0
}

func (b *BoardState) PieceAt(sq Square) Piece {
	return b.grid[sq.Row][sq.Col]
}

func (b *BoardState) ToMove() Color {
	return b.toMove
}

func (b *BoardState) KingSquare(color Color) Square {
	if color == White {
		return b.whiteKing
	}
	return b.blackKing
}

func (b *BoardState) Castling() CastlingRights {
	return b.castling
}

func (b *BoardState) EnPassant() EnPassantTarget {
	return b.enPassant
}

func (b *BoardState) HistoryLen() int {
	return len(b.history)
}

// History returns a copy of the applied moves, oldest first.
func (b *BoardState) History() []HistoryEntry {
	out := make([]HistoryEntry, len(b.history))
	copy(out, b.history)
	return out
}

func (b *BoardState) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1].Move, true
}

// Grid returns a copy of the raw 8x8 grid for renderers.
func (b *BoardState) Grid() [8][8]Piece {
	return b.grid
}

// Clone returns an independent copy, history included.
func (b *BoardState) Clone() *BoardState {
	c := *b
	c.history = make([]HistoryEntry, len(b.history))
	copy(c.history, b.history)
	return &c
}

// Validate checks the single-king invariant and the king caches.
func (b *BoardState) Validate() error {
	counts := map[Color]int{}
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			if p := b.grid[row][col]; p.Type == King {
				counts[p.Color]++
			}
		}
	}
	for _, color := range []Color{White, Black} {
		if counts[color] != 1 {
			return fmt.Errorf("%w: %d %s kings", ErrInvalidPosition, counts[color], color)
		}
		if b.PieceAt(b.KingSquare(color)) != (Piece{Type: King, Color: color}) {
			return fmt.Errorf("%w: %s king cache points at %s", ErrInvalidPosition, color, b.KingSquare(color))
		}
	}
	return nil
}

func (b *BoardState) setKingSquare(color Color, sq Square) {
	if color == White {
		b.whiteKing = sq
	} else {
		b.blackKing = sq
	}
}

func (b *BoardState) set(sq Square, p Piece) {
	b.grid[sq.Row][sq.Col] = p
}

func (b *BoardState) switchTurn() {
	b.toMove = b.toMove.Opponent()
}
