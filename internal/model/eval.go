package model

// PieceValues maps piece types to material values.
type PieceValues map[PieceType]int

func DefaultPieceValues() PieceValues {
	return PieceValues{
		Pawn:   1,
		Knight: 3,
		Bishop: 3,
		Rook:   5,
		Queen:  10,
		King:   0,
	}
}

// Evaluator scores material from white's point of view. Its value table is
// copied at construction and never changes afterwards.
type Evaluator struct {
	values PieceValues
}

func NewEvaluator(values PieceValues) *Evaluator {
	own := make(PieceValues, len(values))
	for pieceType, value := range values {
		own[pieceType] = value
	}
	return &Evaluator{values: own}
}

func (e *Evaluator) Value(t PieceType) int {
	return e.values[t]
}

// MaterialScore sums white material minus black material.
func (e *Evaluator) MaterialScore(b *BoardState) int {
	score := 0
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.grid[row][col]
			switch p.Color {
			case White:
				score += e.values[p.Type]
			case Black:
				score -= e.values[p.Type]
			}
		}
	}
	return score
}
