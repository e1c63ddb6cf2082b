package notation

import (
	"strings"

	"github.com/benbeisheim/plychess/internal/model"
)

// Render draws the grid with rank 8 at the top. White pieces are upper case,
// black pieces lower case and empty squares are dots.
func Render(grid [8][8]model.Piece) string {
	var sb strings.Builder
	sb.WriteString("\n  a b c d e f g h\n")
	sb.WriteString(" +-----------------+\n")
	for row := 0; row < 8; row++ {
		rank := string(rune('8' - row))
		sb.WriteString(rank + "| ")
		for col := 0; col < 8; col++ {
			piece := grid[row][col]
			if piece.IsEmpty() {
				sb.WriteString(". ")
				continue
			}
			sb.WriteString(piece.Letter() + " ")
		}
		sb.WriteString("|" + rank + "\n")
	}
	sb.WriteString(" +-----------------+\n")
	sb.WriteString("  a b c d e f g h\n")
	return sb.String()
}
