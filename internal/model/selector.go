package model

// MateScore outranks any material balance.
const MateScore = 1000

// Shuffler orders candidate moves before the search. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// Selector picks a move by a single ply of lookahead: for every candidate it
// looks at each opponent reply and scores the resulting material, assuming
// the opponent picks the reply that is worst for the mover. It does not
// recurse further and keeps no state between calls.
type Selector struct {
	rules    Rules
	eval     *Evaluator
	shuffler Shuffler
}

// NewSelector builds a selector. A nil shuffler searches candidates in the
// order given, which makes the choice deterministic.
func NewSelector(rules Rules, eval *Evaluator, shuffler Shuffler) *Selector {
	return &Selector{rules: rules, eval: eval, shuffler: shuffler}
}

// SelectMove returns the candidate whose worst-case reply leaves the mover
// with the best material. Ties go to the earliest candidate in search order.
// The board is used for apply/undo pairs and is left as it was found.
func (s *Selector) SelectMove(b *BoardState, moves []Move) (Move, error) {
	if len(moves) == 0 {
		return Move{}, ErrNoMoves
	}
	candidates := make([]Move, len(moves))
	copy(candidates, moves)
	if s.shuffler != nil {
		s.shuffler.Shuffle(len(candidates), func(i, j int) {
			candidates[i], candidates[j] = candidates[j], candidates[i]
		})
	}

	sign := 1
	if b.toMove == Black {
		sign = -1
	}
	best := candidates[0]
	bestScore := -MateScore - 1
	for _, candidate := range candidates {
		b.Apply(candidate)
		score := s.worstReply(b, sign)
		b.mustUndo()
		if score > bestScore {
			best, bestScore = candidate, score
		}
	}
	return best, nil
}

// worstReply returns the lowest mover-relative score the opponent, now to
// move, can reach with one reply.
func (s *Selector) worstReply(b *BoardState, sign int) int {
	replies := s.rules.LegalMoves(b)
	if len(replies) == 0 {
		if IsInCheck(b) {
			return MateScore
		}
		return 0
	}
	worst := MateScore
	for _, reply := range replies {
		b.Apply(reply)
		if score := sign * s.eval.MaterialScore(b); score < worst {
			worst = score
		}
		b.mustUndo()
	}
	return worst
}
