package metrics

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	BatchSize    int // Rollouts per simulation
	Cutoff       int
	Duration     time.Duration
	Episodes     int // Select-expand-simulate-backpropagate iterations
	Playouts     int
	FullPlayouts int // Playouts that reached the end of the game
	IsTreeReset  bool
}

type MoveMetric struct {
	Step   int
	Player string
	SearchMetric
}

type GameMetric struct {
	Winner     string // "X", "O" or "draw"
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
}

type Collector interface {
	Start(batchSize, cutoff int)
	SetTreeReset(value bool)
	AddEpisode()
	AddPlayouts(n int)
	AddFullPlayout()
	Complete() SearchMetric
}

type collector struct {
	batchSize    int
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int32
	playouts     atomic.Int32
	fullPlayouts atomic.Int32
	isTreeReset  atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) SetTreeReset(value bool) {
	m.isTreeReset.Store(value)
}

// Start resets the counters of the previous search. The tree reset flag is
// kept since it is set when the root moves, before the next search starts.
func (m *collector) Start(batchSize, cutoff int) {
	m.startTime = time.Now()
	m.batchSize = batchSize
	m.cutoff = cutoff
	m.episodes.Store(0)
	m.playouts.Store(0)
	m.fullPlayouts.Store(0)
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddPlayouts(n int) {
	m.playouts.Add(int32(n))
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		BatchSize:    m.batchSize,
		Cutoff:       m.cutoff,
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		Playouts:     int(m.playouts.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		IsTreeReset:  m.isTreeReset.Load(),
	}
}

// dummyCollector only counts playouts, which the search reports in its log
// line whether or not metrics are enabled.
type dummyCollector struct {
	playouts atomic.Int32
}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(batchSize, cutoff int) { m.playouts.Store(0) }
func (m *dummyCollector) SetTreeReset(value bool)     {}
func (m *dummyCollector) AddEpisode()                 {}
func (m *dummyCollector) AddPlayouts(n int)           { m.playouts.Add(int32(n)) }
func (m *dummyCollector) AddFullPlayout()             {}
func (m *dummyCollector) Complete() SearchMetric {
	return SearchMetric{Playouts: int(m.playouts.Load())}
}
