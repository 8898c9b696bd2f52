package game

import (
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

// Probability that PlaceRandom rejects a candidate with no neighbouring stones
const isolatedRejection = 0.9

// Line directions: horizontal, vertical, diagonal, anti-diagonal
var directions = [4]Move{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

type outcome uint8

const (
	notTerminated outcome = iota
	draw
	xWins
	oWins
)

func winner(c Cell) outcome {
	if c == X {
		return xWins
	}
	return oWins
}

// result memoizes the game outcome. The zero value means not yet computed.
type result struct {
	known   bool
	outcome outcome
}

func (r result) terminal() bool {
	return r.known && r.outcome != notTerminated
}

func (r result) utility(player Player) (float64, bool) {
	switch {
	case !r.terminal():
		return 0, false
	case r.outcome == draw:
		return 0.5, true
	case (r.outcome == xWins) == (player == PlayerX):
		return 1, true
	default:
		return 0, true
	}
}

// forcedSet holds the forced moves of each player, indexed by Player.
// A forcedSet is never modified once attached to a board, so clones share it.
type forcedSet struct {
	moves [2][]Move
}

func (f *forcedSet) without(m Move) *forcedSet {
	next := &forcedSet{}
	for p, moves := range f.moves {
		next.moves[p] = slices.DeleteFunc(slices.Clone(moves), func(o Move) bool { return o == m })
	}
	return next
}

type Board struct {
	width  int
	height int
	grid   []Cell // Row-major, indexed by y*width+x
	stones int
	player Player

	last    Move
	hasLast bool

	minX, minY, maxX, maxY int
	defaultBound           bool // Bounds still span the whole (empty) board

	result  result
	forced  *forcedSet // nil until computed from the last placement
	matcher *Matcher
}

type BoardOption func(b *Board)

// WithMatcher sets the pattern shapes used to extract forced moves.
func WithMatcher(matcher *Matcher) BoardOption {
	return func(b *Board) {
		if matcher != nil {
			b.matcher = matcher
		}
	}
}

func NewBoard(width, height int, options ...BoardOption) *Board {
	if width < 1 || height < 1 {
		panic("board dimensions must be positive")
	}
	b := &Board{ // Default values
		width:        width,
		height:       height,
		grid:         make([]Cell, width*height),
		player:       PlayerX,
		maxX:         width - 1,
		maxY:         height - 1,
		defaultBound: true,
		result:       result{known: true, outcome: notTerminated},
		forced:       &forcedSet{},
		matcher:      DefaultMatcher(),
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Clone returns a deep copy that can be mutated independently.
func (b *Board) Clone() *Board {
	c := *b
	c.grid = slices.Clone(b.grid)
	return &c
}

func (b *Board) Width() int {
	return b.width
}

func (b *Board) Height() int {
	return b.height
}

// Player returns the player to move.
func (b *Board) Player() Player {
	return b.player
}

func (b *Board) At(x, y int) Cell {
	return b.grid[b.index(x, y)]
}

func (b *Board) InBounds(m Move) bool {
	return b.inBounds(m.X, m.Y)
}

func (b *Board) LastPlacement() (Move, bool) {
	return b.last, b.hasLast
}

// Bounds returns the smallest rectangle containing every stone, or the whole
// board while it is empty.
func (b *Board) Bounds() (minX, minY, maxX, maxY int) {
	return b.minX, b.minY, b.maxX, b.maxY
}

func (b *Board) Empty() bool {
	return b.stones == 0
}

// Stones returns the number of stones on the board.
func (b *Board) Stones() int {
	return b.stones
}

func (b *Board) index(x, y int) int {
	return y*b.width + x
}

func (b *Board) inBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

func (b *Board) full() bool {
	return b.stones == len(b.grid)
}

// Place puts a stone of the player to move on m and passes the turn.
func (b *Board) Place(m Move) error {
	if !b.InBounds(m) {
		return &PlacingError{Kind: ErrOutOfBounds, Move: m}
	}
	i := b.index(m.X, m.Y)
	if b.grid[i] != Empty {
		return &PlacingError{Kind: ErrOccupied, Move: m}
	}

	b.grid[i] = b.player.Cell()
	b.stones++
	b.invalidateForced(m)
	b.player = b.player.Next()
	b.last, b.hasLast = m, true
	b.updateBounds(m)

	if !b.result.terminal() {
		b.result = result{}
	}
	return nil
}

// invalidateForced drops the forced cache when the mover had no forced moves
// or played one of them, and otherwise only removes the taken cell.
func (b *Board) invalidateForced(m Move) {
	if b.forced == nil {
		return
	}
	own := b.forced.moves[b.player]
	if len(own) == 0 || slices.Contains(own, m) {
		b.forced = nil
		return
	}
	// The mover ignored its forced moves: keep both sets minus the taken cell
	b.forced = b.forced.without(m)
}

func (b *Board) updateBounds(m Move) {
	if b.defaultBound {
		b.minX, b.minY, b.maxX, b.maxY = m.X, m.Y, m.X, m.Y
		b.defaultBound = false
		return
	}
	b.minX = min(b.minX, m.X)
	b.minY = min(b.minY, m.Y)
	b.maxX = max(b.maxX, m.X)
	b.maxY = max(b.maxY, m.Y)
}

// scanBounds recomputes the bounding box from the grid, for boards built
// without a placement history.
func (b *Board) scanBounds() {
	b.minX, b.minY, b.maxX, b.maxY = 0, 0, b.width-1, b.height-1
	b.defaultBound = true
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.grid[b.index(x, y)] != Empty {
				b.updateBounds(Move{X: x, Y: y})
			}
		}
	}
}

// PlaceRandom places a stone on a random legal move, mostly avoiding cells
// that have no neighbouring stone.
func (b *Board) PlaceRandom(rng *rand.Rand) error {
	actions := b.Actions(rng)
	if len(actions) == 0 {
		return &PlacingError{Kind: ErrFullBoard}
	}
	for {
		m := actions[rng.Intn(len(actions))]
		if b.isolated(m) && rng.Float64() < isolatedRejection {
			continue
		}
		return b.Place(m)
	}
}

// isolated reports whether all 8 neighbours of m are on the board and empty.
func (b *Board) isolated(m Move) bool {
	empty := 0
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			x, y := m.X+dx, m.Y+dy
			if (dx == 0 && dy == 0) || !b.inBounds(x, y) {
				continue
			}
			if b.grid[b.index(x, y)] == Empty {
				empty++
			}
		}
	}
	return empty == 8
}

// Utility returns the game result from player's perspective: 1 for a win, 0
// for a loss and 0.5 for a draw. ok is false while the game is not over.
func (b *Board) Utility(player Player) (utility float64, ok bool) {
	return b.gameResult().utility(player)
}

func (b *Board) gameResult() result {
	if !b.result.known {
		b.result = result{known: true, outcome: b.computeOutcome()}
	}
	return b.result
}

func (b *Board) computeOutcome() outcome {
	if b.full() {
		return draw
	}
	if b.hasLast {
		if b.winsAt(b.last.X, b.last.Y) {
			return winner(b.At(b.last.X, b.last.Y))
		}
		return notTerminated
	}

	// No history: every stone is a candidate
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			if b.At(x, y) != Empty && b.winsAt(x, y) {
				return winner(b.At(x, y))
			}
		}
	}
	return notTerminated
}

// winsAt reports whether the stone on (x, y) is part of a winning run. Exactly
// five in a row blocked on both ends does not win; six or more always does.
func (b *Board) winsAt(x, y int) bool {
	v := b.At(x, y)
	for _, d := range directions {
		forward, forwardBlocked := b.countRay(x, y, d.X, d.Y, v)
		backward, backwardBlocked := b.countRay(x, y, -d.X, -d.Y, v)
		count := forward + backward + 1
		if (count == WinLength && !(forwardBlocked && backwardBlocked)) || count > WinLength {
			return true
		}
	}
	return false
}

// countRay counts up to WinLength stones of v stepping away from (x, y). The
// ray is blocked when it stops on the opponent or on the board edge.
func (b *Board) countRay(x, y, dx, dy int, v Cell) (count int, blocked bool) {
	for step := 1; step <= WinLength; step++ {
		cx, cy := x+step*dx, y+step*dy
		if !b.inBounds(cx, cy) {
			return count, true
		}
		c := b.grid[b.index(cx, cy)]
		if c != v {
			return count, c == v.opposite()
		}
		count++
	}
	return count, false
}

// Actions returns the forced moves of the player to move if there are any,
// otherwise every empty cell within one step of the stones' bounding box.
// rng samples the pattern shapes; nil tests every shape.
func (b *Board) Actions(rng *rand.Rand) []Move {
	if forced := b.forcedSets(rng).moves[b.player]; len(forced) > 0 {
		return slices.Clone(forced)
	}

	left, up := max(b.minX-1, 0), max(b.minY-1, 0)
	right, down := min(b.maxX+1, b.width-1), min(b.maxY+1, b.height-1)
	moves := make([]Move, 0, (right-left+1)*(down-up+1))
	for y := up; y <= down; y++ {
		for x := left; x <= right; x++ {
			if b.grid[b.index(x, y)] == Empty {
				moves = append(moves, Move{X: x, Y: y})
			}
		}
	}
	return moves
}

// AreThereThreats reports whether both players have forced moves.
func (b *Board) AreThereThreats(rng *rand.Rand) bool {
	f := b.forcedSets(rng)
	return len(f.moves[PlayerX]) > 0 && len(f.moves[PlayerO]) > 0
}

// ForcedMoves returns player's forced moves.
func (b *Board) ForcedMoves(player Player, rng *rand.Rand) []Move {
	return slices.Clone(b.forcedSets(rng).moves[player])
}

func (b *Board) forcedSets(rng *rand.Rand) *forcedSet {
	if b.forced != nil {
		return b.forced
	}

	f := &forcedSet{}
	if b.hasLast {
		windows := b.windowsAt(b.last)
		for _, target := range [...]Cell{X, O} {
			attacker := playerOf(target)
			for _, window := range windows {
				atk, def := b.matcher.match(window, target, rng)
				f.moves[attacker] = appendUnique(f.moves[attacker], atk...)
				f.moves[attacker.Next()] = appendUnique(f.moves[attacker.Next()], def...)
			}
		}
	}
	b.forced = f
	return f
}

// windowsAt returns the cells within windowRadius of m along each direction,
// clipped to the board.
func (b *Board) windowsAt(m Move) [4][]windowCell {
	var windows [4][]windowCell
	for i, d := range directions {
		window := make([]windowCell, 0, 2*windowRadius+1)
		for t := -windowRadius; t <= windowRadius; t++ {
			x, y := m.X+t*d.X, m.Y+t*d.Y
			if b.inBounds(x, y) {
				window = append(window, windowCell{cell: b.At(x, y), move: Move{X: x, Y: y}})
			}
		}
		windows[i] = window
	}
	return windows
}

func playerOf(c Cell) Player {
	if c == O {
		return PlayerO
	}
	return PlayerX
}

func appendUnique(moves []Move, more ...Move) []Move {
	for _, m := range more {
		if !slices.Contains(moves, m) {
			moves = append(moves, m)
		}
	}
	return moves
}
