package game

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

func placeAll(t *testing.T, b *Board, moves ...Move) {
	t.Helper()
	for _, m := range moves {
		require.NoError(t, b.Place(m), "Move %v should be legal", m)
	}
}

func TestPlace(t *testing.T) {
	t.Run("out of bounds leaves the board unchanged", func(t *testing.T) {
		b := NewBoard(5, 5)
		placeAll(t, b, Move{1, 1})
		before := b.String()

		for _, m := range []Move{{-1, 0}, {5, 0}, {0, 5}, {0, -1}, {7, 7}} {
			err := b.Place(m)

			require.ErrorIs(t, err, ErrOutOfBounds, "Move %v should be out of bounds", m)
			require.Equal(t, before, b.String(), "Grid should not change")
			require.Equal(t, PlayerO, b.Player(), "Player to move should not change")
		}
	})

	t.Run("occupied cell", func(t *testing.T) {
		b := NewBoard(5, 5)
		placeAll(t, b, Move{2, 3})

		err := b.Place(Move{2, 3})

		require.ErrorIs(t, err, ErrOccupied)
		var placingErr *PlacingError
		require.ErrorAs(t, err, &placingErr)
		require.Equal(t, Move{2, 3}, placingErr.Move)
		require.Equal(t, X, b.At(2, 3), "Stone should not be replaced")
	})

	t.Run("players alternate", func(t *testing.T) {
		b := NewBoard(5, 5)
		for n := 0; n < 25; n++ {
			require.Equal(t, n%2 == 0, b.Player() == PlayerX, "X should be to move iff %d placements is even", n)
			placeAll(t, b, Move{n % 5, n / 5})
		}
	})

	t.Run("records the last placement", func(t *testing.T) {
		b := NewBoard(5, 5)
		_, ok := b.LastPlacement()
		require.False(t, ok)

		placeAll(t, b, Move{4, 0})

		last, ok := b.LastPlacement()
		require.True(t, ok)
		require.Equal(t, Move{4, 0}, last)
	})

	t.Run("bounding box grows with placements", func(t *testing.T) {
		b := NewBoard(15, 15)
		minX, minY, maxX, maxY := b.Bounds()
		require.Equal(t, []int{0, 0, 14, 14}, []int{minX, minY, maxX, maxY}, "Empty board spans the whole grid")

		placeAll(t, b, Move{7, 6})
		minX, minY, maxX, maxY = b.Bounds()
		require.Equal(t, []int{7, 6, 7, 6}, []int{minX, minY, maxX, maxY}, "First stone collapses the box")

		placeAll(t, b, Move{3, 9}, Move{10, 2})
		minX, minY, maxX, maxY = b.Bounds()
		require.Equal(t, []int{3, 2, 10, 9}, []int{minX, minY, maxX, maxY})
	})

	t.Run("clone is independent", func(t *testing.T) {
		b := NewBoard(5, 5)
		placeAll(t, b, Move{0, 0})

		c := b.Clone()
		placeAll(t, c, Move{1, 1})

		require.Equal(t, Empty, b.At(1, 1), "Original should not see the clone's stone")
		require.Equal(t, PlayerO, b.Player())
		require.Equal(t, O, c.At(1, 1))
	})
}

func TestUtility(t *testing.T) {
	t.Run("vertical five wins on the winning placement", func(t *testing.T) {
		b := NewBoard(19, 19)
		placeAll(t, b,
			Move{2, 2}, Move{3, 2},
			Move{2, 3}, Move{4, 2},
			Move{2, 4}, Move{4, 3},
			Move{2, 5}, Move{5, 4},
		)
		_, ok := b.Utility(PlayerX)
		require.False(t, ok, "Game should not be over before the fifth stone")

		placeAll(t, b, Move{2, 6})

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
		u, _ = b.Utility(PlayerO)
		require.Equal(t, 0.0, u)
	})

	t.Run("diagonal five blocked on one end wins", func(t *testing.T) {
		b := NewBoard(19, 19)
		placeAll(t, b,
			Move{7, 2}, Move{7, 3},
			Move{8, 3}, Move{8, 4},
			Move{11, 6}, Move{7, 4},
			Move{10, 5}, Move{6, 1},
			Move{9, 4},
		)

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
	})

	t.Run("five between the edge and the opponent does not win", func(t *testing.T) {
		b := NewBoard(19, 19)
		placeAll(t, b,
			Move{1, 6}, Move{0, 7},
			Move{2, 8}, Move{1, 7},
			Move{2, 6}, Move{2, 7},
			Move{3, 6}, Move{3, 7},
			Move{5, 7}, Move{4, 7},
		)

		_, ok := b.Utility(PlayerX)
		require.False(t, ok)
	})

	t.Run("five spanning the board edge to edge does not win", func(t *testing.T) {
		b, err := ParseBoard("XXXXX", "OOOO.", ".....", ".....", ".....")
		require.NoError(t, err)

		_, ok := b.Utility(PlayerX)
		require.False(t, ok, "Both board edges block the five")
	})

	t.Run("parsed five with one open end wins", func(t *testing.T) {
		b, err := ParseBoard("XXXXX..", "OOOO...", ".......", ".......", ".......")
		require.NoError(t, err)

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
		u, _ = b.Utility(PlayerO)
		require.Equal(t, 0.0, u)
	})

	t.Run("unrelated last placement", func(t *testing.T) {
		b := NewBoard(19, 19)
		placeAll(t, b,
			Move{11, 10}, Move{11, 11},
			Move{12, 11}, Move{12, 10},
			Move{10, 12}, Move{13, 9},
			Move{16, 6}, Move{14, 8},
			Move{15, 8}, Move{15, 17},
		)

		_, ok := b.Utility(PlayerX)
		require.False(t, ok)
	})

	t.Run("five blocked by the opponent on both ends does not win", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b,
			Move{1, 5}, Move{0, 5},
			Move{2, 5}, Move{6, 5},
			Move{3, 5}, Move{10, 10},
			Move{4, 5}, Move{10, 11},
			Move{5, 5},
		)

		_, ok := b.Utility(PlayerX)
		require.False(t, ok)
	})

	t.Run("five blocked by the opponent on one end wins", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b,
			Move{1, 5}, Move{0, 5},
			Move{2, 5}, Move{12, 12},
			Move{3, 5}, Move{10, 10},
			Move{4, 5}, Move{10, 11},
			Move{5, 5},
		)

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
	})

	t.Run("overline blocked on both ends wins", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b,
			Move{1, 5}, Move{0, 5},
			Move{2, 5}, Move{7, 5},
			Move{3, 5}, Move{10, 10},
			Move{5, 5}, Move{10, 11},
			Move{6, 5}, Move{10, 12},
		)
		_, ok := b.Utility(PlayerX)
		require.False(t, ok)

		placeAll(t, b, Move{4, 5})

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
	})

	t.Run("win is kept after further placements", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b,
			Move{0, 0}, Move{0, 1},
			Move{1, 0}, Move{1, 1},
			Move{2, 0}, Move{2, 1},
			Move{3, 0}, Move{3, 1},
			Move{4, 0},
		)
		u, ok := b.Utility(PlayerO)
		require.True(t, ok)
		require.Equal(t, 0.0, u)

		placeAll(t, b, Move{9, 9})

		u, ok = b.Utility(PlayerO)
		require.True(t, ok, "A decided game stays decided")
		require.Equal(t, 0.0, u)
	})

	t.Run("full board without a five is a draw", func(t *testing.T) {
		rows := make([]string, 10)
		for y := range rows {
			row := make([]byte, 10)
			for x := range row {
				// Runs never exceed two stones in any direction
				if ((x+2*y)/2)%2 == 0 {
					row[x] = 'X'
				} else {
					row[x] = 'O'
				}
			}
			rows[y] = string(row)
		}
		b, err := ParseBoard(rows...)
		require.NoError(t, err)

		for _, p := range []Player{PlayerX, PlayerO} {
			u, ok := b.Utility(p)
			require.True(t, ok)
			require.Equal(t, 0.5, u)
		}
	})

	t.Run("board without history is scanned for a winner", func(t *testing.T) {
		b, err := ParseBoard(
			"........",
			".O......",
			"..O.X...",
			"...OX...",
			"....X...",
			"..X.XO..",
			"....X...",
			"........",
		)
		require.NoError(t, err)

		u, ok := b.Utility(PlayerX)
		require.True(t, ok)
		require.Equal(t, 1.0, u)
	})

	t.Run("utility is binary or a draw", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for i := 0; i < 5; i++ {
			b := NewBoard(9, 9)
			for {
				if _, ok := b.Utility(PlayerX); ok {
					break
				}
				require.NoError(t, b.PlaceRandom(rng))
			}
			u, _ := b.Utility(PlayerX)
			require.Contains(t, []float64{0, 0.5, 1}, u)
		}
	})
}

func TestActions(t *testing.T) {
	t.Run("empty board offers every cell", func(t *testing.T) {
		b := NewBoard(6, 4)

		require.Len(t, b.Actions(nil), 24)
	})

	t.Run("cells around the stones in row-major order", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b, Move{7, 7})

		require.Equal(t, []Move{
			{6, 6}, {7, 6}, {8, 6},
			{6, 7}, {8, 7},
			{6, 8}, {7, 8}, {8, 8},
		}, b.Actions(nil))
	})

	t.Run("expanded box is clipped to the board", func(t *testing.T) {
		b := NewBoard(15, 15)
		placeAll(t, b, Move{0, 0})

		require.Equal(t, []Move{{1, 0}, {0, 1}, {1, 1}}, b.Actions(nil))
	})

	t.Run("open three forces the defender", func(t *testing.T) {
		b := openThreeBoard(t)

		require.Equal(t, []Move{{9, 7}, {8, 7}, {4, 7}, {3, 7}}, b.Actions(nil),
			"Defender should only be offered the flanking cells")
		require.Equal(t, []Move{{4, 7}, {8, 7}}, b.ForcedMoves(PlayerX, nil))
		require.True(t, b.AreThereThreats(nil), "Both sides have forced moves")
	})

	t.Run("playing a forced move recomputes the forced sets", func(t *testing.T) {
		b := openThreeBoard(t)
		require.NotEmpty(t, b.Actions(nil))

		placeAll(t, b, Move{8, 7})

		require.Empty(t, b.ForcedMoves(PlayerX, nil))
		require.Len(t, b.Actions(nil), 84, "Blocked three leaves the bounding box moves")
	})

	t.Run("ignoring a forced move keeps the forced sets", func(t *testing.T) {
		b := openThreeBoard(t)
		require.NotEmpty(t, b.Actions(nil))

		placeAll(t, b, Move{12, 12})

		require.Equal(t, []Move{{4, 7}, {8, 7}}, b.Actions(nil))
	})
}

// openThreeBoard returns a board where X just completed an open three on row 7
// and O is to move.
func openThreeBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard(15, 15)
	placeAll(t, b,
		Move{5, 7}, Move{5, 0},
		Move{6, 7}, Move{0, 0},
		Move{7, 7},
	)
	return b
}

func TestPlaceRandom(t *testing.T) {
	t.Run("full board", func(t *testing.T) {
		b, err := ParseBoard("XO", "OX")
		require.NoError(t, err)

		err = b.PlaceRandom(rand.New(rand.NewSource(1)))

		require.ErrorIs(t, err, ErrFullBoard)
	})

	t.Run("places legal moves", func(t *testing.T) {
		rng := rand.New(rand.NewSource(42))
		b := NewBoard(15, 15)
		for n := 1; n <= 30; n++ {
			require.NoError(t, b.PlaceRandom(rng))

			last, ok := b.LastPlacement()
			require.True(t, ok)
			require.True(t, b.InBounds(last))
			require.NotEqual(t, Empty, b.At(last.X, last.Y))
			require.Equal(t, n, b.stones)
		}
	})

	t.Run("prefers cells next to stones", func(t *testing.T) {
		rng := rand.New(rand.NewSource(3))
		adjacent := 0
		for i := 0; i < 200; i++ {
			b := NewBoard(15, 15)
			placeAll(t, b, Move{7, 7})
			// Widen the box so isolated cells outnumber the neighbours 20 to 1
			b.minX, b.minY, b.maxX, b.maxY = 2, 2, 12, 12

			require.NoError(t, b.PlaceRandom(rng))

			last, _ := b.LastPlacement()
			if abs(last.X-7) <= 1 && abs(last.Y-7) <= 1 {
				adjacent++
			}
		}
		require.Greater(t, adjacent, 30, "Isolated cells should mostly be rejected")
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func TestParseBoard(t *testing.T) {
	t.Run("round trips through String", func(t *testing.T) {
		rows := []string{"X..", ".O.", "..X"}
		b, err := ParseBoard(rows...)
		require.NoError(t, err)

		require.Equal(t, "X..\n.O.\n..X\n", b.String())
		require.Equal(t, PlayerO, b.Player(), "X has one more stone")
		minX, minY, maxX, maxY := b.Bounds()
		require.Equal(t, []int{0, 0, 2, 2}, []int{minX, minY, maxX, maxY})
		_, ok := b.LastPlacement()
		require.False(t, ok)
	})

	t.Run("rejects ragged rows", func(t *testing.T) {
		_, err := ParseBoard("X..", "..")
		require.Error(t, err)
	})

	t.Run("rejects unknown cells", func(t *testing.T) {
		_, err := ParseBoard("X?.")
		require.Error(t, err)
	})
}
