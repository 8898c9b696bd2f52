// meta/meta.go
package meta

import (
	"math"
	"time"
)

// WIDTH and HEIGHT define the default board size.
const WIDTH = 15
const HEIGHT = 15

// BATCH_SIZE defines the number of playouts simulated in parallel per episode.
const BATCH_SIZE = 16

// CUTOFF defines the number of random moves after which a playout is scored
// by the heuristic.
const CUTOFF = 82

// HEURISTIC_WEIGHT scales the heuristic score of a cut off playout.
const HEURISTIC_WEIGHT = 0.1

// EXPLORATION defines the UCB1 exploration constant.
const EXPLORATION = math.Sqrt2

// THREAT_BIAS is the probability a child with threats on both sides gets a
// selection bonus of up to THREAT_SPREAD.
const THREAT_BIAS = 0.5
const THREAT_SPREAD = 0.25

// MAX_TIME_LIMIT and MIN_TIME_LIMIT bound the search time of a move.
const MAX_TIME_LIMIT = 20 * time.Second
const MIN_TIME_LIMIT = 50 * time.Millisecond
