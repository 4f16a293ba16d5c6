package pagesearch

import "time"

// OperatorStats holds the counters of one operator.
type OperatorStats struct {
	Name       string
	Generated  uint64
	Duplicates uint64
	Time       time.Duration
}

// HeuristicStats holds the counters of one heuristic.
type HeuristicStats struct {
	Name  string
	Calls uint64
	Time  time.Duration
}

// Stats is a snapshot of search statistics, accumulated since the last Start.
//
// Generated counts every state that entered the run, the initial state
// included, so Generated == Expanded + Duplicates + FrontierSize.
type Stats struct {
	RunID string

	Expanded   uint64
	Generated  uint64
	Duplicates uint64

	Operators  []OperatorStats
	Heuristics []HeuristicStats

	OperatorTime  time.Duration
	HeuristicTime time.Duration
	HashTime      time.Duration
	DedupTime     time.Duration
	InsertTime    time.Duration

	DuplicateSetSize   int
	FrontierSize       int
	ApproxFrontierSize int64

	// RunTime accumulates wall-clock time across Start and Continue calls.
	RunTime time.Duration
}

// ExpandedPerSecond returns the expansion throughput over RunTime.
func (s Stats) ExpandedPerSecond() float64 {
	if s.RunTime <= 0 {
		return 0
	}
	return float64(s.Expanded) / s.RunTime.Seconds()
}

// CollisionRate returns the fraction of generated states rejected as duplicates.
func (s Stats) CollisionRate() float64 {
	if s.Generated == 0 {
		return 0
	}
	return float64(s.Duplicates) / float64(s.Generated)
}

// counters are the mutable statistics of a run. Workers fill a private
// copy while generating and merge it under the engine lock.
type counters struct {
	expanded   uint64
	generated  uint64
	duplicates uint64

	opGenerated  []uint64
	opDuplicates []uint64
	opTime       []time.Duration
	hCalls       []uint64
	hTime        []time.Duration

	hashTime   time.Duration
	dedupTime  time.Duration
	insertTime time.Duration
}

func newCounters(operators, heuristics int) counters {
	return counters{
		opGenerated:  make([]uint64, operators),
		opDuplicates: make([]uint64, operators),
		opTime:       make([]time.Duration, operators),
		hCalls:       make([]uint64, heuristics),
		hTime:        make([]time.Duration, heuristics),
	}
}

func (c *counters) reset() {
	c.expanded, c.generated, c.duplicates = 0, 0, 0
	clear(c.opGenerated)
	clear(c.opDuplicates)
	clear(c.opTime)
	clear(c.hCalls)
	clear(c.hTime)
	c.hashTime, c.dedupTime, c.insertTime = 0, 0, 0
}

// merge adds o into c and resets o.
func (c *counters) merge(o *counters) {
	c.expanded += o.expanded
	c.generated += o.generated
	c.duplicates += o.duplicates

	for i := range c.opGenerated {
		c.opGenerated[i] += o.opGenerated[i]
		c.opDuplicates[i] += o.opDuplicates[i]
		c.opTime[i] += o.opTime[i]
	}

	for i := range c.hCalls {
		c.hCalls[i] += o.hCalls[i]
		c.hTime[i] += o.hTime[i]
	}

	c.hashTime += o.hashTime
	c.dedupTime += o.dedupTime
	c.insertTime += o.insertTime

	o.reset()
}
