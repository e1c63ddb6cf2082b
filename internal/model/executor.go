package model

// Apply plays move on the board. It does not check legality: callers pass
// members of LegalMoves.
func (b *BoardState) Apply(move Move) {
	b.history = append(b.history, HistoryEntry{
		Move:      move,
		Castling:  b.castling,
		EnPassant: b.enPassant,
	})

	placed := move.Piece
	if move.IsPromotion() {
		placed = Piece{Type: move.Promotion, Color: move.Piece.Color}
	}
	b.set(move.From, NoPiece)
	b.set(move.To, placed)

	if move.EnPassant {
		b.set(move.enPassantVictim(), NoPiece)
	}
	if move.Piece.Type == King {
		b.setKingSquare(move.Piece.Color, move.To)
	}
	if move.Castle {
		rookFrom, rookTo := castleRookSquares(move)
		b.set(rookTo, b.PieceAt(rookFrom))
		b.set(rookFrom, NoPiece)
	}

	if move.Piece.Type == Pawn && abs(move.To.Row-move.From.Row) == 2 {
		b.enPassant = EnPassantTarget{
			Square: Square{Row: (move.From.Row + move.To.Row) / 2, Col: move.From.Col},
			Valid:  true,
		}
	} else {
		b.enPassant = EnPassantTarget{}
	}

	b.updateCastlingRights(move)
	b.switchTurn()
}

// Undo takes back the last applied move and returns it.
func (b *BoardState) Undo() (Move, error) {
	if len(b.history) == 0 {
		return Move{}, ErrEmptyHistory
	}
	entry := b.history[len(b.history)-1]
	b.history = b.history[:len(b.history)-1]
	move := entry.Move

	b.set(move.From, move.Piece)
	b.set(move.To, move.Captured)
	if move.EnPassant {
		b.set(move.enPassantVictim(), Piece{Type: Pawn, Color: move.Piece.Color.Opponent()})
	}
	if move.Castle {
		rookFrom, rookTo := castleRookSquares(move)
		b.set(rookFrom, b.PieceAt(rookTo))
		b.set(rookTo, NoPiece)
	}
	if move.Piece.Type == King {
		b.setKingSquare(move.Piece.Color, move.From)
	}

	b.castling = entry.Castling
	b.enPassant = entry.EnPassant
	b.switchTurn()
	return move, nil
}

// mustUndo is for internal apply/undo pairs, where an empty history means
// the pairing itself is broken.
func (b *BoardState) mustUndo() {
	if _, err := b.Undo(); err != nil {
		panic("model: unbalanced apply/undo: " + err.Error())
	}
}

func castleRookSquares(move Move) (from, to Square) {
	row := move.From.Row
	if move.To.Col == 6 {
		return Square{Row: row, Col: 7}, Square{Row: row, Col: 5}
	}
	return Square{Row: row, Col: 0}, Square{Row: row, Col: 3}
}

// updateCastlingRights only ever clears rights. Undo restores them from history.
func (b *BoardState) updateCastlingRights(move Move) {
	color := move.Piece.Color
	switch move.Piece.Type {
	case King:
		b.castling.clear(color, true)
		b.castling.clear(color, false)
	case Rook:
		b.clearRookRight(color, move.From)
	}
	if move.Captured.Type == Rook {
		b.clearRookRight(move.Captured.Color, move.To)
	}
}

func (b *BoardState) clearRookRight(color Color, sq Square) {
	if sq.Row != homeRow(color) {
		return
	}
	switch sq.Col {
	case 0:
		b.castling.clear(color, false)
	case 7:
		b.castling.clear(color, true)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
