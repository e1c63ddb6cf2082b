package model

// Rules configures move generation. Promotions lists the pieces a pawn may
// promote to; each becomes its own move.
type Rules struct {
	Promotions []PieceType
}

// StandardRules auto-promotes to a queen.
func StandardRules() Rules {
	return Rules{Promotions: []PieceType{Queen}}
}

// AllPromotions allows under-promotion.
func AllPromotions() Rules {
	return Rules{Promotions: []PieceType{Queen, Rook, Bishop, Knight}}
}

func (r Rules) promotions() []PieceType {
	if len(r.Promotions) == 0 {
		return []PieceType{Queen}
	}
	return r.Promotions
}

// LegalMoves returns the legal moves for the side to move under StandardRules.
func LegalMoves(b *BoardState) []Move {
	return StandardRules().LegalMoves(b)
}

// PseudoLegalMoves generates candidate moves for the side to move. Pinned
// pieces are already held to their pin axis and king moves are validated,
// but moves that ignore a check are still present.
func (r Rules) PseudoLegalMoves(b *BoardState) []Move {
	return r.pseudoLegalMoves(b, ScanKingThreats(b, b.toMove))
}

// LegalMoves filters the pseudo-legal moves by the current check state.
func (r Rules) LegalMoves(b *BoardState) []Move {
	threats := ScanKingThreats(b, b.toMove)
	moves := r.pseudoLegalMoves(b, threats)
	if !threats.InCheck {
		return moves
	}

	legalMoves := moves[:0]
	if len(threats.Checks) > 1 {
		for _, move := range moves {
			if move.Piece.Type == King {
				legalMoves = append(legalMoves, move)
			}
		}
		return legalMoves
	}

	resolving := checkResolutions(b.KingSquare(b.toMove), threats.Checks[0])
	for _, move := range moves {
		// king moves and en-passant captures were validated when generated
		if move.Piece.Type == King || move.EnPassant || resolving[move.To] {
			legalMoves = append(legalMoves, move)
		}
	}
	return legalMoves
}

// checkResolutions returns the squares a non-king move may land on to answer
// a single check: the checker's square and, for a slider, the squares between.
func checkResolutions(kingSq Square, check Check) map[Square]bool {
	squares := map[Square]bool{check.Square: true}
	if check.Dir == (Direction{}) {
		return squares
	}
	for sq := kingSq.Add(check.Dir); sq != check.Square && sq.OnBoard(); sq = sq.Add(check.Dir) {
		squares[sq] = true
	}
	return squares
}

func (r Rules) pseudoLegalMoves(b *BoardState, threats KingThreats) []Move {
	moves := make([]Move, 0, 48)
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			piece := b.grid[row][col]
			if piece.IsEmpty() || piece.Color != b.toMove {
				continue
			}
			sq := Square{Row: row, Col: col}
			pinDir, pinned := threats.pinOf(sq)
			allowed := func(dir Direction) bool {
				return !pinned || dir == pinDir || dir == pinDir.Reverse()
			}
			switch piece.Type {
			case Pawn:
				moves = r.pawnMoves(b, sq, piece, allowed, moves)
			case Knight:
				if !pinned {
					moves = knightMoves(b, sq, piece, moves)
				}
			case Bishop:
				moves = slidingMoves(b, sq, piece, bishopDirs, allowed, moves)
			case Rook:
				moves = slidingMoves(b, sq, piece, rookDirs, allowed, moves)
			case Queen:
				moves = slidingMoves(b, sq, piece, kingDirs, allowed, moves)
			case King:
				moves = kingMoves(b, sq, piece, moves)
				if !threats.InCheck {
					moves = castleMoves(b, sq, piece, moves)
				}
			}
		}
	}
	return moves
}

func (r Rules) pawnMoves(b *BoardState, from Square, pawn Piece, allowed func(Direction) bool, moves []Move) []Move {
	fwd := pawnForward(pawn.Color)
	startRow := homeRow(pawn.Color) + fwd

	advance := Direction{DRow: fwd}
	one := from.Add(advance)
	if one.OnBoard() && b.PieceAt(one).IsEmpty() && allowed(advance) {
		moves = r.appendPawnMove(Move{From: from, To: one, Piece: pawn}, moves)
		two := one.Add(advance)
		if from.Row == startRow && b.PieceAt(two).IsEmpty() {
			moves = append(moves, Move{From: from, To: two, Piece: pawn})
		}
	}

	for _, dc := range []int{-1, 1} {
		dir := Direction{DRow: fwd, DCol: dc}
		target := from.Add(dir)
		if !target.OnBoard() || !allowed(dir) {
			continue
		}
		occupant := b.PieceAt(target)
		switch {
		case !occupant.IsEmpty() && occupant.Color != pawn.Color:
			moves = r.appendPawnMove(Move{From: from, To: target, Piece: pawn, Captured: occupant}, moves)
		case occupant.IsEmpty() && b.enPassant.Valid && b.enPassant.Square == target:
			move := Move{From: from, To: target, Piece: pawn, EnPassant: true}
			if leavesKingSafe(b, move) {
				moves = append(moves, move)
			}
		}
	}
	return moves
}

// appendPawnMove expands a move onto the last rank into one move per promotion piece.
func (r Rules) appendPawnMove(move Move, moves []Move) []Move {
	if move.To.Row != homeRow(move.Piece.Color.Opponent()) {
		return append(moves, move)
	}
	for _, promotion := range r.promotions() {
		move.Promotion = promotion
		moves = append(moves, move)
	}
	return moves
}

func knightMoves(b *BoardState, from Square, knight Piece, moves []Move) []Move {
	for _, dir := range knightDirs {
		target := from.Add(dir)
		if !target.OnBoard() {
			continue
		}
		occupant := b.PieceAt(target)
		if occupant.IsEmpty() || occupant.Color != knight.Color {
			moves = append(moves, Move{From: from, To: target, Piece: knight, Captured: occupant})
		}
	}
	return moves
}

func slidingMoves(b *BoardState, from Square, piece Piece, dirs []Direction, allowed func(Direction) bool, moves []Move) []Move {
	for _, dir := range dirs {
		if !allowed(dir) {
			continue
		}
		for target := from.Add(dir); target.OnBoard(); target = target.Add(dir) {
			occupant := b.PieceAt(target)
			if occupant.IsEmpty() {
				moves = append(moves, Move{From: from, To: target, Piece: piece})
				continue
			}
			if occupant.Color != piece.Color {
				moves = append(moves, Move{From: from, To: target, Piece: piece, Captured: occupant})
			}
			break
		}
	}
	return moves
}

func kingMoves(b *BoardState, from Square, king Piece, moves []Move) []Move {
	for _, dir := range kingDirs {
		target := from.Add(dir)
		if !target.OnBoard() {
			continue
		}
		occupant := b.PieceAt(target)
		if !occupant.IsEmpty() && occupant.Color == king.Color {
			continue
		}
		if kingSafeAt(b, from, target) {
			moves = append(moves, Move{From: from, To: target, Piece: king, Captured: occupant})
		}
	}
	return moves
}

// kingSafeAt relocates the king from from to to, asks whether it is attacked
// there, and always puts the board back.
func kingSafeAt(b *BoardState, from, to Square) bool {
	king := b.PieceAt(from)
	captured := b.PieceAt(to)
	b.set(from, NoPiece)
	b.set(to, king)
	b.setKingSquare(king.Color, to)
	defer func() {
		b.set(to, captured)
		b.set(from, king)
		b.setKingSquare(king.Color, from)
	}()
	return !IsSquareAttacked(b, to, king.Color.Opponent())
}

// leavesKingSafe applies move, tests the mover's king and undoes it.
func leavesKingSafe(b *BoardState, move Move) bool {
	mover := move.Piece.Color
	b.Apply(move)
	defer b.mustUndo()
	return !IsSquareAttacked(b, b.KingSquare(mover), mover.Opponent())
}

// castleMoves assumes the king is not in check; the caller has established that.
func castleMoves(b *BoardState, from Square, king Piece, moves []Move) []Move {
	row := homeRow(king.Color)
	if from != (Square{Row: row, Col: 4}) {
		return moves
	}
	rook := Piece{Type: Rook, Color: king.Color}
	enemy := king.Color.Opponent()
	empty := func(cols ...int) bool {
		for _, col := range cols {
			if !b.grid[row][col].IsEmpty() {
				return false
			}
		}
		return true
	}
	safe := func(cols ...int) bool {
		for _, col := range cols {
			if IsSquareAttacked(b, Square{Row: row, Col: col}, enemy) {
				return false
			}
		}
		return true
	}

	if b.castling.Kingside(king.Color) && b.grid[row][7] == rook && empty(5, 6) && safe(5, 6) {
		moves = append(moves, Move{From: from, To: Square{Row: row, Col: 6}, Piece: king, Castle: true})
	}
	// b-file must be empty, but the king never crosses it
	if b.castling.Queenside(king.Color) && b.grid[row][0] == rook && empty(1, 2, 3) && safe(3, 2) {
		moves = append(moves, Move{From: from, To: Square{Row: row, Col: 2}, Piece: king, Castle: true})
	}
	return moves
}

type GameStatus string

const (
	Playing   GameStatus = "playing"
	Checkmate GameStatus = "checkmate"
	Stalemate GameStatus = "stalemate"
)

// Status classifies the position for the side to move.
func (r Rules) Status(b *BoardState) GameStatus {
	if len(r.LegalMoves(b)) > 0 {
		return Playing
	}
	if IsInCheck(b) {
		return Checkmate
	}
	return Stalemate
}

func Status(b *BoardState) GameStatus {
	return StandardRules().Status(b)
}

// Perft counts the leaf nodes of the legal move tree to the given depth.
func Perft(b *BoardState, rules Rules, depth int) uint64 {
	if depth <= 0 {
		return 1
	}
	moves := rules.LegalMoves(b)
	if depth == 1 {
		return uint64(len(moves))
	}
	var nodes uint64
	for _, move := range moves {
		b.Apply(move)
		nodes += Perft(b, rules, depth-1)
		b.mustUndo()
	}
	return nodes
}
