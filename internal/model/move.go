package model

import "strings"

// Move is immutable once generated. Captured is the piece that stood on To;
// an en-passant capture removes a pawn from a different square and leaves
// Captured empty.
type Move struct {
	From      Square    `json:"from"`
	To        Square    `json:"to"`
	Piece     Piece     `json:"piece"`
	Captured  Piece     `json:"captured"`
	EnPassant bool      `json:"enPassant"`
	Castle    bool      `json:"castle"`
	Promotion PieceType `json:"promotion,omitempty"`
}

func (m Move) IsPromotion() bool {
	return m.Promotion != ""
}

func (m Move) IsCapture() bool {
	return m.EnPassant || !m.Captured.IsEmpty()
}

// Equal compares the squares and the flags that tell otherwise identical moves apart.
func (m Move) Equal(o Move) bool {
	return m.From == o.From && m.To == o.To &&
		m.EnPassant == o.EnPassant && m.Castle == o.Castle && m.Promotion == o.Promotion
}

// enPassantVictim is the square of the pawn removed by an en-passant capture.
func (m Move) enPassantVictim() Square {
	return Square{Row: m.From.Row, Col: m.To.Col}
}

// String renders the move as coordinates, e.g. e2e4 or e7e8q.
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.IsPromotion() {
		s += strings.ToLower(m.Promotion.getPieceNotation())
	}
	return s
}

// HistoryEntry records a move with the rights and en-passant target that
// were in effect before it, so undo restores them verbatim.
type HistoryEntry struct {
	Move      Move            `json:"move"`
	Castling  CastlingRights  `json:"castling"`
	EnPassant EnPassantTarget `json:"enPassant"`
}
