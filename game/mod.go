package game

// WinLength is the number of stones in a row needed to win.
const WinLength = 5

type Cell uint8

const (
	Empty Cell = iota
	X
	O
)

func (c Cell) opposite() Cell {
	switch c {
	case X:
		return O
	case O:
		return X
	default:
		return Empty
	}
}

func (c Cell) String() string {
	switch c {
	case X:
		return "X"
	case O:
		return "O"
	default:
		return "."
	}
}

type Player uint8

const (
	PlayerX Player = iota // Moves first
	PlayerO
)

func (p Player) Cell() Cell {
	if p == PlayerX {
		return X
	}
	return O
}

func (p Player) Next() Player {
	return 1 - p
}

func (p Player) String() string {
	return p.Cell().String()
}

// Move is a zero-based (column, row) coordinate on the board.
type Move struct {
	X int
	Y int
}
