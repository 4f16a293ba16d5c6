package pagesearch

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHeuristics is returned when an engine is configured without heuristics.
	ErrNoHeuristics = errors.New("pagesearch: at least one heuristic is required")

	// ErrNoPool is returned when an engine is configured without a state pool.
	ErrNoPool = errors.New("pagesearch: state pool is required")

	// ErrNilOperator is returned when the operator list contains nil.
	ErrNilOperator = errors.New("pagesearch: operator must not be nil")

	// ErrNilHeuristic is returned when the heuristic list contains nil.
	ErrNilHeuristic = errors.New("pagesearch: heuristic must not be nil")

	// ErrNotStarted is logged when Continue is called before Start.
	ErrNotStarted = errors.New("pagesearch: search has not been started")

	// ErrPathTrackingDisabled is returned by Path when expanded states are recycled.
	ErrPathTrackingDisabled = errors.New("pagesearch: path tracking is disabled")
)

// ErrInvalidFanOut indicates a frontier page capacity below the minimum.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidFanOut struct {
	FanOut int
	cause  error
}

func (e *ErrInvalidFanOut) Error() string {
	return fmt.Sprintf("invalid fan-out: %d", e.FanOut)
}

func (e *ErrInvalidFanOut) Unwrap() error { return e.cause }

// ErrInvalidWorkers indicates a worker count unusable by the concurrent engine.
//
// The underlying error (if any) can be accessed via errors.Unwrap.
type ErrInvalidWorkers struct {
	Workers int
	cause   error
}

func (e *ErrInvalidWorkers) Error() string {
	return fmt.Sprintf("invalid worker count: %d (minimum 2)", e.Workers)
}

func (e *ErrInvalidWorkers) Unwrap() error { return e.cause }
