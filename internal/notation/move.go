// Package notation translates between text and the rules core: coordinate
// move strings, FEN, and an ASCII board.
package notation

import (
	"fmt"
	"strings"

	"github.com/benbeisheim/plychess/internal/model"
	"golang.org/x/exp/slices"
)

// Coordinates is a parsed move string. Promotion is empty unless the text
// carried a fifth character.
type Coordinates struct {
	From      model.Square
	To        model.Square
	Promotion model.PieceType
}

var promotionLetters = map[byte]model.PieceType{
	'q': model.Queen,
	'r': model.Rook,
	'b': model.Bishop,
	'n': model.Knight,
}

// ParseSquare maps "a1".."h8" to grid coordinates: file a-h is col 0-7 and
// rank 1-8 is row 7-0.
func ParseSquare(text string) (model.Square, error) {
	if len(text) != 2 {
		return model.Square{}, fmt.Errorf("%w: square %q", ErrMalformedMove, text)
	}
	file, rank := text[0], text[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return model.Square{}, fmt.Errorf("%w: square %q", ErrMalformedMove, text)
	}
	return model.Square{Row: int('8' - rank), Col: int(file - 'a')}, nil
}

// ParseMove reads <file><rank><file><rank>, optionally followed by a
// promotion letter (q, r, b or n).
func ParseMove(text string) (Coordinates, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if len(text) != 4 && len(text) != 5 {
		return Coordinates{}, fmt.Errorf("%w: %q", ErrMalformedMove, text)
	}
	from, err := ParseSquare(text[0:2])
	if err != nil {
		return Coordinates{}, err
	}
	to, err := ParseSquare(text[2:4])
	if err != nil {
		return Coordinates{}, err
	}
	c := Coordinates{From: from, To: to}
	if len(text) == 5 {
		promotion, ok := promotionLetters[text[4]]
		if !ok {
			return Coordinates{}, fmt.Errorf("%w: promotion %q", ErrMalformedMove, text[4:])
		}
		c.Promotion = promotion
	}
	return c, nil
}

// Match finds the legal move the coordinates describe. Without an explicit
// promotion letter a promoting move resolves to a queen.
func Match(moves []model.Move, c Coordinates) (model.Move, bool) {
	promotion := c.Promotion
	i := slices.IndexFunc(moves, func(m model.Move) bool {
		if m.From != c.From || m.To != c.To {
			return false
		}
		if !m.IsPromotion() {
			return promotion == ""
		}
		return m.Promotion == promotion || (promotion == "" && m.Promotion == model.Queen)
	})
	if i < 0 {
		return model.Move{}, false
	}
	return moves[i], true
}

// FormatMoves renders moves as coordinate strings, sorted.
func FormatMoves(moves []model.Move) []string {
	out := make([]string, 0, len(moves))
	for _, m := range moves {
		out = append(out, m.String())
	}
	slices.Sort(out)
	return out
}
