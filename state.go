package pagesearch

import "github.com/hupe1980/pagesearch/pool"

// State is a node of the search graph.
//
// Implementations are pointer types that embed Base:
//
//	type Board struct {
//	    pagesearch.Base
//	    cells [9]byte
//	}
//
//	func (b *Board) Hash() uint64 { return xxhash.Sum64(b.cells[:]) }
type State interface {
	// StateBase returns the engine bookkeeping embedded in the state.
	StateBase() *Base

	// Hash returns a deterministic content hash. Equal states must hash
	// equally; distinct states hashing equally are treated as duplicates.
	Hash() uint64
}

// Base carries the fields the engine needs from every state. Operators set
// Cost, Parent and Operator on offspring; the engine fills in the scores.
type Base struct {
	// Scores holds one heuristic value per configured heuristic.
	Scores []int

	// Cost is the accumulated path cost from the initial state.
	Cost int

	// Parent is the state this one was generated from, nil for the initial
	// state. It is only reliable with path tracking enabled.
	Parent State

	// Operator names the operator that produced this state.
	Operator string

	seq       uint64
	heuristic int
	inFlight  bool
}

// StateBase implements State.
func (b *Base) StateBase() *Base { return b }

// Heuristic returns the smallest score, 0 for a goal.
func (b *Base) Heuristic() int { return b.heuristic }

// Seq returns the insertion sequence number assigned by the engine.
func (b *Base) Seq() uint64 { return b.seq }

// IsGoal reports whether any heuristic scored the state 0.
func (b *Base) IsGoal() bool { return len(b.Scores) > 0 && b.heuristic == 0 }

// Reset clears the bookkeeping so a pooled state can be reused. Operators
// call it on every state obtained from an Allocator.
func (b *Base) Reset() {
	b.Scores = b.Scores[:0]
	b.Cost = 0
	b.Parent = nil
	b.Operator = ""
	b.seq = 0
	b.heuristic = 0
	b.inFlight = false
}

// Operator generates the successors of a state.
type Operator[S State] interface {
	// Name identifies the operator in statistics and logs.
	Name() string

	// Apply appends the offspring of state to offspring and returns it.
	// New states are taken from alloc. The engine owns every returned state.
	Apply(state S, alloc pool.Allocator[S], offspring []S) []S
}

// OperatorFunc adapts a function to the Operator interface.
type OperatorFunc[S State] func(state S, alloc pool.Allocator[S], offspring []S) []S

type namedOperator[S State] struct {
	name string
	fn   OperatorFunc[S]
}

// NewOperator returns an Operator backed by fn.
func NewOperator[S State](name string, fn OperatorFunc[S]) Operator[S] {
	return &namedOperator[S]{name: name, fn: fn}
}

func (o *namedOperator[S]) Name() string { return o.name }

func (o *namedOperator[S]) Apply(state S, alloc pool.Allocator[S], offspring []S) []S {
	return o.fn(state, alloc, offspring)
}

// Heuristic estimates the remaining cost of a state. Scores must be
// non-negative; 0 marks a goal.
type Heuristic[S State] interface {
	Name() string
	Score(state S) int
}

// HeuristicFunc adapts a function to the Heuristic interface.
type HeuristicFunc[S State] func(state S) int

type namedHeuristic[S State] struct {
	name string
	fn   HeuristicFunc[S]
}

// NewHeuristic returns a Heuristic backed by fn.
func NewHeuristic[S State](name string, fn HeuristicFunc[S]) Heuristic[S] {
	return &namedHeuristic[S]{name: name, fn: fn}
}

func (h *namedHeuristic[S]) Name() string { return h.name }

func (h *namedHeuristic[S]) Score(state S) int { return h.fn(state) }
