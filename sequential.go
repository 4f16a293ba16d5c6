package pagesearch

import (
	"context"
	"time"
)

// runSequential explores on the calling goroutine. Each round holds the
// engine lock: pop the best state of every ordering, expand each one and
// insert its surviving offspring.
func (e *Engine[S]) runSequential(ctx context.Context, logger *Logger) {
	var (
		popped    []S
		offspring []S
	)

	for {
		e.mu.Lock()

		if !e.awaitWorkLocked(ctx) {
			e.mu.Unlock()
			return
		}

		e.reportLocked(ctx, logger)

		popped = e.frontier.popEach(popped[:0])
		for _, s := range popped {
			e.expandLocked(ctx, logger, s)
		}

		for _, s := range popped {
			start := time.Now()
			generated, duplicates := 0, 0

			for k, op := range e.opts.Operators {
				t0 := time.Now()
				offspring = op.Apply(s, e.alloc, offspring[:0])
				e.stats.opTime[k] += time.Since(t0)

				for _, child := range offspring {
					t1 := time.Now()
					h := child.Hash()
					e.stats.hashTime += time.Since(t1)

					generated++
					if !e.offerLocked(ctx, logger, s.StateBase(), child, h, k, false) {
						duplicates++
					}
				}

				clear(offspring)
			}

			e.retireLocked(s)
			e.metrics.RecordExpansion(generated, duplicates, time.Since(start))
		}

		clear(popped)

		if e.opts.VerifyFrontier {
			e.verifyLocked()
		}

		e.mu.Unlock()
	}
}
