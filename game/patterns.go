package game

import "golang.org/x/exp/rand"

// Cells on each side of the last placement inspected for threat shapes
const windowRadius = 6

type windowCell struct {
	cell Cell
	move Move
}

// pattern is a threat shape read along one line. targets marks the cells that
// must hold the attacker's stones; every other cell must be empty. attacker
// and defender mark the cells each side is forced to play.
type pattern struct {
	name     string
	targets  []bool
	attacker []bool
	defender []bool
	rate     float64 // Probability the shape is tested at a window offset
}

// newPattern builds a pattern from templates where any character other than
// '.' sets the flag for that position.
func newPattern(name, targets, attacker, defender string, rate float64) pattern {
	if len(targets) != len(attacker) || len(targets) != len(defender) {
		panic("pattern templates differ in length: " + name)
	}
	return pattern{
		name:     name,
		targets:  mask(targets),
		attacker: mask(attacker),
		defender: mask(defender),
		rate:     rate,
	}
}

func mask(template string) []bool {
	flags := make([]bool, len(template))
	for i, c := range template {
		flags[i] = c != '.'
	}
	return flags
}

var (
	openThree   = newPattern("open three", "..XXX...", ".....*..", "**...**.", 0.5)
	fourOneSide = newPattern("four", "..XXXX", ".*....", "**....", 1)
	splitFourA  = newPattern("split four a", ".X.XXX", "..*...", "*.*...", 1)
	splitFourB  = newPattern("split four b", ".XX.XX", "...*..", "*..*..", 1)
	splitFourC  = newPattern("split four c", ".XXX.X", "....*.", "*...*.", 1)
	openFour    = newPattern("open four", ".XXXX.", "*....*", "*....*", 1)
)

// Matcher extracts forced moves from lines of cells. A Matcher is immutable and
// shared between board clones.
type Matcher struct {
	patterns []pattern
}

var (
	defaultMatcher  = &Matcher{patterns: []pattern{openThree, fourOneSide, openFour}}
	extendedMatcher = &Matcher{patterns: []pattern{openThree, fourOneSide, splitFourA, splitFourB, splitFourC, openFour}}
)

// DefaultMatcher recognises open threes, fours with one open end and open fours.
func DefaultMatcher() *Matcher {
	return defaultMatcher
}

// ExtendedMatcher also recognises fours with a gap.
func ExtendedMatcher() *Matcher {
	return extendedMatcher
}

// match tests every shape at every offset of window for target's stones. The
// first shape matching at an offset decides the forced cells for that offset.
// A nil rng tests every shape regardless of its rate.
func (m *Matcher) match(window []windowCell, target Cell, rng *rand.Rand) (attacker, defender []Move) {
	opposite := target.opposite()
	for i := range window {
		for _, p := range m.patterns {
			if p.rate < 1 && rng != nil && rng.Float64() >= p.rate {
				continue
			}
			segment, ok := p.matchAt(window, i, target, opposite)
			if !ok {
				continue
			}
			for k, wc := range segment {
				if p.attacker[k] {
					attacker = append(attacker, wc.move)
				}
				if p.defender[k] {
					defender = append(defender, wc.move)
				}
			}
			break
		}
	}
	return attacker, defender
}

// matchAt returns the window cells at offset i ordered like the template, read
// forward or reversed, if the shape is present there.
func (p pattern) matchAt(window []windowCell, i int, target, opposite Cell) ([]windowCell, bool) {
	n := len(p.targets)
	if i+n > len(window) {
		return nil, false
	}
	segment := window[i : i+n]
	forward, backward := true, true
	for k, wc := range segment {
		if wc.cell == opposite {
			return nil, false
		}
		forward = forward && (wc.cell == target) == p.targets[k]
		backward = backward && (segment[n-1-k].cell == target) == p.targets[k]
	}
	switch {
	case forward:
		return segment, true
	case backward:
		reversed := make([]windowCell, n)
		for k := range segment {
			reversed[k] = segment[n-1-k]
		}
		return reversed, true
	default:
		return nil, false
	}
}
