package pagesearch

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// worker holds the private buffers of one concurrent worker. Everything in
// it is touched without the engine lock.
type worker[S State] struct {
	id     int
	logger *Logger

	popped    []S
	offspring []S
	hashes    []uint64
	ops       []int           // operator index per offspring
	ends      []int           // offspring end offset per popped state
	durations []time.Duration // generation time per popped state
	local     counters
}

// runConcurrent starts the workers and waits for all of them. Worker 0
// starts at once; every further worker waits until the frontier holds a
// state, so no worker spins on an empty frontier at run start.
func (e *Engine[S]) runConcurrent(ctx context.Context, logger *Logger) {
	g, gctx := errgroup.WithContext(ctx)

	launch := func(id int) {
		w := &worker[S]{
			id:     id,
			logger: logger.WithWorker(id),
			local:  newCounters(len(e.opts.Operators), len(e.opts.Heuristics)),
		}

		g.Go(func() error {
			e.work(gctx, w)
			return nil
		})
	}

	launch(0)

	for id := 1; id < e.workers; id++ {
		if !e.waitForFrontier(gctx) {
			break
		}
		launch(id)
	}

	_ = g.Wait()
}

// waitForFrontier polls until the frontier is non-empty. It returns false
// if the run stops first.
func (e *Engine[S]) waitForFrontier(ctx context.Context) bool {
	ticker := time.NewTicker(workerStartPoll)
	defer ticker.Stop()

	for {
		e.mu.Lock()
		ready, stopped := e.frontier.len() > 0, e.stop
		e.mu.Unlock()

		if stopped {
			return false
		}
		if ready {
			return true
		}

		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
		}
	}
}

// work is the loop of one worker. Popping and admission happen under the
// engine lock; operators, hashing and scoring run outside it.
func (e *Engine[S]) work(ctx context.Context, w *worker[S]) {
	for {
		e.mu.Lock()

		if !e.awaitWorkLocked(ctx) {
			e.mu.Unlock()
			return
		}

		e.reportLocked(ctx, w.logger)

		w.popped = e.frontier.popEach(w.popped[:0])
		for _, s := range w.popped {
			e.expandLocked(ctx, w.logger, s)
		}
		e.pending++

		e.mu.Unlock()

		e.generate(w)

		e.mu.Lock()
		e.admitLocked(ctx, w)
		e.pending--
		e.cond.Broadcast()
		e.mu.Unlock()
	}
}

// generate applies every operator to the popped states, then hashes and
// scores the offspring. It runs without the engine lock.
func (e *Engine[S]) generate(w *worker[S]) {
	w.offspring = w.offspring[:0]
	w.hashes = w.hashes[:0]
	w.ops = w.ops[:0]
	w.ends = w.ends[:0]
	w.durations = w.durations[:0]

	for _, s := range w.popped {
		start := time.Now()
		first := len(w.offspring)

		for k, op := range e.opts.Operators {
			t0 := time.Now()
			before := len(w.offspring)
			w.offspring = op.Apply(s, e.alloc, w.offspring)
			w.local.opTime[k] += time.Since(t0)

			for range len(w.offspring) - before {
				w.ops = append(w.ops, k)
			}
		}

		for _, child := range w.offspring[first:] {
			t0 := time.Now()
			w.hashes = append(w.hashes, child.Hash())
			w.local.hashTime += time.Since(t0)

			e.score(child, &w.local)
		}

		w.ends = append(w.ends, len(w.offspring))
		w.durations = append(w.durations, time.Since(start))
	}
}

// admitLocked rejects duplicates, inserts survivors, merges the worker's
// counters and retires the expanded states.
func (e *Engine[S]) admitLocked(ctx context.Context, w *worker[S]) {
	e.stats.merge(&w.local)

	first := 0
	for i, s := range w.popped {
		parent := s.StateBase()
		end := w.ends[i]
		duplicates := 0

		for j := first; j < end; j++ {
			if !e.offerLocked(ctx, w.logger, parent, w.offspring[j], w.hashes[j], w.ops[j], true) {
				duplicates++
			}
		}

		e.retireLocked(s)
		e.metrics.RecordExpansion(end-first, duplicates, w.durations[i])

		first = end
	}

	clear(w.offspring)
	clear(w.popped)

	if e.opts.VerifyFrontier {
		e.verifyLocked()
	}
}
