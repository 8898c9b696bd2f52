package game

import (
	"fmt"
	"strings"
)

// ParseBoard builds a board from rows of 'X', 'O' and '.' characters, top row
// first. The board has no placement history: X is to move when both sides have
// the same number of stones, O otherwise.
func ParseBoard(rows ...string) (*Board, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("parse board: no cells")
	}

	b := NewBoard(len(rows[0]), len(rows))
	counts := [2]int{}
	for y, row := range rows {
		if len(row) != b.width {
			return nil, fmt.Errorf("parse board: row %d has %d cells, want %d", y, len(row), b.width)
		}
		for x, c := range row {
			var cell Cell
			switch c {
			case '.':
				continue
			case 'X':
				cell = X
			case 'O':
				cell = O
			default:
				return nil, fmt.Errorf("parse board: unexpected %q at (%d, %d)", c, x, y)
			}
			b.grid[b.index(x, y)] = cell
			b.stones++
			counts[playerOf(cell)]++
		}
	}

	if counts[PlayerX] != counts[PlayerO] {
		b.player = PlayerO
	}
	b.scanBounds()
	b.result = result{}
	b.forced = nil
	return b, nil
}

func (b *Board) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			sb.WriteString(b.At(x, y).String())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
