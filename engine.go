package pagesearch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/hupe1980/pagesearch/internal/dedup"
	"github.com/hupe1980/pagesearch/pagetree"
	"github.com/hupe1980/pagesearch/pool"
)

var tracer = otel.Tracer("github.com/hupe1980/pagesearch")

// Stop reasons reported in logs and spans.
const (
	reasonGoal      = "goal"
	reasonExhausted = "frontier exhausted"
	reasonCanceled  = "canceled"
	reasonDeadline  = "time budget"
	reasonCap       = "expanded cap"
)

// Engine runs a best-first search over states of type S.
//
// The frontier keeps one ordered page tree per heuristic; every round pops
// the best state of each ordering. Generated states are deduplicated by
// content hash for the lifetime of a run.
//
// An engine created with New explores on the caller's goroutine; one created
// with NewConcurrent spreads expansions over several workers. Best and Stats
// may be called at any time. Start and Continue must not overlap.
type Engine[S State] struct {
	opts    Options[S]
	workers int
	alloc   pool.Allocator[S]
	logger  *Logger
	metrics MetricsCollector

	mu       sync.Mutex
	cond     *sync.Cond
	frontier *frontier[S]
	seen     *dedup.Set
	best     S
	hasBest  bool
	nextSeq  uint64
	stats    counters
	runTime  time.Duration
	started  bool
	runID    uuid.UUID
	report   rate.Sometimes

	// per call
	running      bool
	callStart    time.Time
	deadline     time.Time
	limit        int
	callExpanded int
	pending      int
	stop         bool
	reason       string
}

// New creates a sequential engine.
func New[S State](optFns ...func(o *Options[S])) (*Engine[S], error) {
	opts := defaultOptions[S]()
	for _, fn := range optFns {
		fn(&opts)
	}

	return newEngine(opts, 1)
}

// NewConcurrent creates an engine that expands states on Options.Workers
// goroutines sharing one frontier.
func NewConcurrent[S State](optFns ...func(o *Options[S])) (*Engine[S], error) {
	opts := defaultOptions[S]()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Workers < 2 {
		return nil, &ErrInvalidWorkers{Workers: opts.Workers}
	}

	return newEngine(opts, opts.Workers)
}

func newEngine[S State](opts Options[S], workers int) (*Engine[S], error) {
	if len(opts.Heuristics) == 0 {
		return nil, ErrNoHeuristics
	}

	if slices.ContainsFunc(opts.Heuristics, func(h Heuristic[S]) bool { return h == nil }) {
		return nil, ErrNilHeuristic
	}

	if slices.ContainsFunc(opts.Operators, func(o Operator[S]) bool { return o == nil }) {
		return nil, ErrNilOperator
	}

	if opts.Pool == nil {
		return nil, ErrNoPool
	}

	f, err := newFrontier[S](len(opts.Heuristics), opts.FanOut)
	if err != nil {
		var fe *pagetree.ErrInvalidFanOut
		if errors.As(err, &fe) {
			return nil, &ErrInvalidFanOut{FanOut: fe.FanOut, cause: err}
		}
		return nil, err
	}

	if opts.Logger == nil {
		opts.Logger = NoopLogger()
	}

	if opts.Metrics == nil {
		opts.Metrics = NoopMetricsCollector{}
	}

	if opts.StatsInterval <= 0 {
		opts.StatsInterval = DefaultStatsInterval
	}

	alloc := opts.Pool
	if workers > 1 {
		alloc = pool.Synchronized(opts.Pool)
	}

	e := &Engine[S]{
		opts:     opts,
		workers:  workers,
		alloc:    alloc,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		frontier: f,
		seen:     dedup.New(),
		stats:    newCounters(len(opts.Operators), len(opts.Heuristics)),
		report:   rate.Sometimes{Interval: opts.StatsInterval},
	}
	e.cond = sync.NewCond(&e.mu)

	return e, nil
}

// Workers returns the number of goroutines used per run.
func (e *Engine[S]) Workers() int { return e.workers }

// Allocator returns the allocator the engine hands to operators. For a
// concurrent engine it is a synchronized view of Options.Pool, and callers
// sharing the pool with a running engine must go through it.
func (e *Engine[S]) Allocator() pool.Allocator[S] { return e.alloc }

// Start clears the previous run, seeds the frontier with initial and
// explores until a goal is expanded or a budget runs out. The engine takes
// ownership of initial.
//
// It returns the goal of least cost among the expanded goals, or false when
// no goal was reached. A returned goal stays valid until the next Start or
// Reset.
func (e *Engine[S]) Start(ctx context.Context, initial S, opts ...RunOption) (S, bool) {
	e.mu.Lock()
	e.resetLocked()
	e.runID = uuid.New()
	e.seedLocked(initial)
	e.started = true
	e.mu.Unlock()

	return e.run(ctx, false, opts)
}

// Continue resumes the last run with its frontier, duplicate set and best
// state intact. It returns false without exploring if Start was never called.
func (e *Engine[S]) Continue(ctx context.Context, opts ...RunOption) (S, bool) {
	e.mu.Lock()
	started := e.started
	e.mu.Unlock()

	if !started {
		e.logger.WarnContext(ctx, "continue ignored", "error", ErrNotStarted)

		var zero S
		return zero, false
	}

	return e.run(ctx, true, opts)
}

// Reset releases every state held by the engine back to the pool and
// forgets the current run.
func (e *Engine[S]) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.resetLocked()
	e.started = false
}

// Best returns the state with the smallest heuristic expanded so far, ties
// broken by smaller cost.
func (e *Engine[S]) Best() (S, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.best, e.hasBest
}

// Stats returns a snapshot of the run statistics.
func (e *Engine[S]) Stats() Stats {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.statsLocked()
}

// Verify checks the structure of every frontier tree.
func (e *Engine[S]) Verify() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.frontier.verify()
}

// Path returns the states from the initial state to goal, following parent
// links. It requires Options.PathTracking.
func (e *Engine[S]) Path(goal S) ([]S, error) {
	if !e.opts.PathTracking {
		return nil, ErrPathTrackingDisabled
	}

	var path []S

	var cur State = goal
	for cur != nil {
		s, ok := cur.(S)
		if !ok {
			return nil, fmt.Errorf("pagesearch: parent of type %T is not a search state", cur)
		}
		path = append(path, s)
		cur = cur.StateBase().Parent
	}

	slices.Reverse(path)

	return path, nil
}

func (e *Engine[S]) resetLocked() {
	e.frontier.clear(e.alloc.Release)

	if e.hasBest && !e.opts.PathTracking {
		e.alloc.Release(e.best)
	}

	var zero S
	e.best = zero
	e.hasBest = false

	e.seen.Reset()
	e.stats.reset()
	e.runTime = 0
	e.nextSeq = 0
}

func (e *Engine[S]) seedLocked(initial S) {
	b := initial.StateBase()
	b.inFlight = false

	e.score(initial, &e.stats)
	e.seen.Add(initial.Hash())
	e.stats.generated++

	b.seq = e.nextSeq
	e.nextSeq++
	e.frontier.push(initial)
}

// run executes one Start or Continue call.
func (e *Engine[S]) run(ctx context.Context, resumed bool, opts []RunOption) (S, bool) {
	rc := runOptions{
		timeBudget:  e.opts.TimeBudget,
		maxExpanded: e.opts.MaxExpanded,
	}
	for _, fn := range opts {
		fn(&rc)
	}

	e.mu.Lock()
	runID := e.runID
	e.mu.Unlock()

	ctx, span := tracer.Start(ctx, "pagesearch.Run",
		trace.WithAttributes(
			attribute.String("pagesearch.run_id", runID.String()),
			attribute.Bool("pagesearch.resumed", resumed),
			attribute.Int("pagesearch.workers", e.workers),
			attribute.Int("pagesearch.heuristics", len(e.opts.Heuristics)),
		),
	)
	defer span.End()

	logger := e.logger.WithRunID(runID)
	start := time.Now()

	e.mu.Lock()
	e.running = true
	e.callStart = start
	e.deadline = time.Time{}
	if rc.timeBudget > 0 && !e.opts.Debug {
		e.deadline = start.Add(rc.timeBudget)
	}
	e.limit = rc.maxExpanded
	e.callExpanded = 0
	e.pending = 0
	e.stop = false
	e.reason = ""
	frontierLen := e.frontier.len()
	e.mu.Unlock()

	logger.LogRunStart(ctx, resumed, e.workers, frontierLen)

	if e.workers == 1 {
		e.runSequential(ctx, logger)
	} else {
		e.runConcurrent(ctx, logger)
	}

	e.mu.Lock()
	elapsed := time.Since(start)
	e.runTime += elapsed
	e.running = false
	stats := e.statsLocked()
	best := e.best
	found := e.hasBest && best.StateBase().IsGoal()
	reason := e.reason
	e.mu.Unlock()

	e.metrics.RecordRun(stats.Expanded, found, elapsed)
	e.metrics.RecordFrontier(stats.FrontierSize)

	if e.opts.Stats {
		logger.LogStats(ctx, stats)
	}
	logger.LogRun(ctx, found, reason, stats)

	span.SetAttributes(
		attribute.String("pagesearch.stop_reason", reason),
		attribute.Bool("pagesearch.found", found),
		attribute.Int64("pagesearch.expanded", int64(stats.Expanded)),
		attribute.Int64("pagesearch.generated", int64(stats.Generated)),
		attribute.Int64("pagesearch.duplicates", int64(stats.Duplicates)),
		attribute.Int("pagesearch.frontier", stats.FrontierSize),
	)
	span.SetStatus(codes.Ok, "")

	if !found {
		var zero S
		return zero, false
	}

	return best, true
}

// awaitWorkLocked blocks until the frontier has a state to pop. It returns
// false once the call must stop. A worker only gives up on an empty frontier
// when no other worker still holds offspring to insert.
func (e *Engine[S]) awaitWorkLocked(ctx context.Context) bool {
	for {
		if e.shouldStopLocked(ctx) {
			return false
		}

		if e.frontier.len() > 0 {
			return true
		}

		if e.pending == 0 {
			e.haltLocked(reasonExhausted)
			return false
		}

		e.cond.Wait()
	}
}

func (e *Engine[S]) shouldStopLocked(ctx context.Context) bool {
	if e.stop {
		return true
	}

	switch {
	case e.hasBest && e.best.StateBase().IsGoal():
		e.haltLocked(reasonGoal)
	case ctx.Err() != nil:
		e.haltLocked(reasonCanceled)
	case !e.deadline.IsZero() && !time.Now().Before(e.deadline):
		e.haltLocked(reasonDeadline)
	case e.limit > 0 && e.callExpanded >= e.limit:
		e.haltLocked(reasonCap)
	}

	return e.stop
}

func (e *Engine[S]) haltLocked(reason string) {
	e.stop = true
	e.reason = reason
	e.cond.Broadcast()
}

// expandLocked accounts for a popped state and updates best.
func (e *Engine[S]) expandLocked(ctx context.Context, logger *Logger, s S) {
	b := s.StateBase()
	b.inFlight = true

	e.stats.expanded++
	e.callExpanded++

	if e.opts.Debug {
		logger.LogExpand(ctx, b.seq, b.Cost, b.heuristic, b.Operator)
	}

	if e.hasBest {
		cur := e.best.StateBase()
		if b.heuristic > cur.heuristic || (b.heuristic == cur.heuristic && b.Cost >= cur.Cost) {
			return
		}

		// A best still being expanded is released by its own retire.
		if !cur.inFlight && !e.opts.PathTracking {
			e.alloc.Release(e.best)
		}
	}

	e.best = s
	e.hasBest = true
}

// retireLocked ends the expansion of s, releasing it unless it is best or
// parents must be kept.
func (e *Engine[S]) retireLocked(s S) {
	b := s.StateBase()
	b.inFlight = false

	if e.opts.PathTracking {
		return
	}

	if e.hasBest && e.best.StateBase() == b {
		return
	}

	e.alloc.Release(s)
}

// offerLocked records a generated child. A child whose hash was seen before
// is released; otherwise it is scored (unless already scored) and inserted
// into every frontier tree. It reports whether the child was admitted.
func (e *Engine[S]) offerLocked(ctx context.Context, logger *Logger, parent *Base, child S, hash uint64, op int, scored bool) bool {
	e.stats.generated++
	e.stats.opGenerated[op]++

	t0 := time.Now()
	fresh := e.seen.Add(hash)
	e.stats.dedupTime += time.Since(t0)

	cb := child.StateBase()

	if e.opts.Debug {
		logger.LogOffspring(ctx, parent.seq, hash, cb.Cost, !fresh)
	}

	if !fresh {
		e.stats.duplicates++
		e.stats.opDuplicates[op]++
		e.alloc.Release(child)
		return false
	}

	if !scored {
		e.score(child, &e.stats)
	}

	cb.seq = e.nextSeq
	cb.inFlight = false
	e.nextSeq++

	t0 = time.Now()
	e.frontier.push(child)
	e.stats.insertTime += time.Since(t0)

	return true
}

// score fills the score vector of s and caches its heuristic.
func (e *Engine[S]) score(s S, c *counters) {
	b := s.StateBase()
	b.Scores = b.Scores[:0]
	b.heuristic = 0

	for i, h := range e.opts.Heuristics {
		t0 := time.Now()
		v := h.Score(s)
		c.hTime[i] += time.Since(t0)
		c.hCalls[i]++

		b.Scores = append(b.Scores, v)
		if i == 0 || v < b.heuristic {
			b.heuristic = v
		}
	}
}

func (e *Engine[S]) reportLocked(ctx context.Context, logger *Logger) {
	if !e.opts.Stats {
		return
	}

	e.report.Do(func() {
		logger.LogStats(ctx, e.statsLocked())
	})
}

func (e *Engine[S]) verifyLocked() {
	if err := e.frontier.verify(); err != nil {
		panic(err)
	}
}

func (e *Engine[S]) statsLocked() Stats {
	c := &e.stats

	s := Stats{
		Expanded:           c.expanded,
		Generated:          c.generated,
		Duplicates:         c.duplicates,
		HashTime:           c.hashTime,
		DedupTime:          c.dedupTime,
		InsertTime:         c.insertTime,
		DuplicateSetSize:   e.seen.Len(),
		FrontierSize:       e.frontier.len(),
		ApproxFrontierSize: int64(c.generated) - int64(c.expanded) - int64(c.duplicates),
		RunTime:            e.runTime,
	}

	if e.started {
		s.RunID = e.runID.String()
	}

	if e.running {
		s.RunTime += time.Since(e.callStart)
	}

	s.Operators = make([]OperatorStats, len(e.opts.Operators))
	for i, op := range e.opts.Operators {
		s.Operators[i] = OperatorStats{
			Name:       op.Name(),
			Generated:  c.opGenerated[i],
			Duplicates: c.opDuplicates[i],
			Time:       c.opTime[i],
		}
		s.OperatorTime += c.opTime[i]
	}

	s.Heuristics = make([]HeuristicStats, len(e.opts.Heuristics))
	for i, h := range e.opts.Heuristics {
		s.Heuristics[i] = HeuristicStats{
			Name:  h.Name(),
			Calls: c.hCalls[i],
			Time:  c.hTime[i],
		}
		s.HeuristicTime += c.hTime[i]
	}

	return s
}
