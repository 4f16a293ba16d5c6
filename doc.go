// Package pagesearch provides a best-first (A*-style) search engine whose
// frontier is kept in page-oriented B*-trees and whose states are recycled
// through an object pool.
//
// # Quick Start
//
// Define a state that embeds pagesearch.Base and hashes its content:
//
//	type Board struct {
//	    pagesearch.Base
//	    cells [9]byte
//	}
//
//	func (b *Board) Hash() uint64 { return xxhash.Sum64(b.cells[:]) }
//
// Then wire operators, heuristics and a pool:
//
//	states := pool.New(func() *Board { return &Board{} })
//	eng, _ := pagesearch.New(func(o *pagesearch.Options[*Board]) {
//	    o.Operators = []pagesearch.Operator[*Board]{slide}
//	    o.Heuristics = []pagesearch.Heuristic[*Board]{manhattan, misplaced}
//	    o.Pool = states
//	})
//
//	goal, ok := eng.Start(ctx, initial, pagesearch.WithTimeBudget(5*time.Second))
//	if !ok {
//	    goal, ok = eng.Continue(ctx) // resume with the preserved frontier
//	}
//
// # Frontier
//
// Every heuristic gets its own ordered tree keyed by cost + score. Each round
// pops the best state of every ordering, so several heuristics steer the
// search at once. A popped state leaves all trees together.
//
// # Duplicates
//
// The content hash of every generated state is recorded for the run. An
// offspring whose hash was already seen is released back to the pool and
// counted as a duplicate.
//
// # Concurrency
//
// NewConcurrent runs several workers over one frontier. Workers pop and
// insert under a single lock and apply operators and heuristics outside it.
// The pool is shared through a synchronized view (see Engine.Allocator).
//
// # Ownership
//
// The engine owns every state it was given or that an operator returned.
// An expanded state goes back to the pool unless it is the current best or
// path tracking is on. Operators must Reset states taken from the allocator.
package pagesearch
