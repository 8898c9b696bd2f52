package game

// Score of a run of stones indexed by its length. Single stones and runs longer
// than four score nothing.
var runWeights = [...]int{0, 0, 2, 3, 4}

func runWeight(length int) int {
	if length < len(runWeights) {
		return runWeights[length]
	}
	return 0
}

// Heuristic estimates player's share of the position between 0 and 1 from the
// runs of stones each side has along every row, column and diagonal. A
// position where neither side has a scoring run evaluates to 0.5.
func (b *Board) Heuristic(player Player) float64 {
	var scores [2]int
	for _, d := range directions {
		for y := 0; y < b.height; y++ {
			for x := 0; x < b.width; x++ {
				// Lines start on the first cell whose predecessor is off the board
				if b.inBounds(x-d.X, y-d.Y) {
					continue
				}
				b.scoreLine(x, y, d, &scores)
			}
		}
	}

	own, other := scores[player], scores[player.Next()]
	if own+other == 0 {
		return 0.5
	}
	return float64(own) / float64(own+other)
}

// scoreLine adds the weight of every maximal single-colour run on the line
// starting at (x, y) and stepping by d.
func (b *Board) scoreLine(x, y int, d Move, scores *[2]int) {
	run, colour := 0, Empty
	flush := func() {
		if colour != Empty {
			scores[playerOf(colour)] += runWeight(run)
		}
	}

	for ; b.inBounds(x, y); x, y = x+d.X, y+d.Y {
		c := b.grid[b.index(x, y)]
		if c == colour {
			run++
			continue
		}
		flush()
		colour, run = c, 1
	}
	flush()
}
