package pagesearch

import (
	"time"

	"github.com/hupe1980/pagesearch/pagetree"
	"github.com/hupe1980/pagesearch/pool"
)

const (
	// DefaultFanOut is the default frontier page capacity.
	DefaultFanOut = pagetree.DefaultFanOut

	// DefaultStatsInterval is the default period between stats reports.
	DefaultStatsInterval = time.Second

	// workerStartPoll is how often additional workers re-check the frontier
	// before starting.
	workerStartPoll = 10 * time.Millisecond
)

// Options configures an Engine.
type Options[S State] struct {
	// FanOut is the page capacity of every frontier tree (minimum 3).
	FanOut int

	// Operators generate successors, applied in order.
	Operators []Operator[S]

	// Heuristics score states. One frontier tree is kept per heuristic.
	Heuristics []Heuristic[S]

	// Pool supplies and recycles states.
	Pool pool.Allocator[S]

	// Workers is the number of goroutines used by NewConcurrent (minimum 2).
	// New ignores it.
	Workers int

	// TimeBudget bounds the wall-clock time of one Start or Continue call.
	// Zero or negative means unbounded.
	TimeBudget time.Duration

	// MaxExpanded bounds the states expanded by one Start or Continue call.
	// Zero or negative means unbounded.
	MaxExpanded int

	// Debug logs every expansion and offspring and ignores TimeBudget.
	Debug bool

	// Stats logs a statistics report every StatsInterval and at the end of
	// each run.
	Stats bool

	// StatsInterval is the period between stats reports.
	StatsInterval time.Duration

	// PathTracking keeps expanded states alive so Path can follow parents.
	PathTracking bool

	// VerifyFrontier checks frontier integrity after every admission.
	// It is expensive and meant for tests.
	VerifyFrontier bool

	// Logger receives run, stats and debug logs. Nil uses NoopLogger.
	Logger *Logger

	// Metrics receives operational metrics. Nil uses NoopMetricsCollector.
	Metrics MetricsCollector
}

func defaultOptions[S State]() Options[S] {
	return Options[S]{
		FanOut:        DefaultFanOut,
		Workers:       2,
		StatsInterval: DefaultStatsInterval,
	}
}

type runOptions struct {
	timeBudget  time.Duration
	maxExpanded int
}

// RunOption overrides a budget for a single Start or Continue call.
type RunOption func(*runOptions)

// WithTimeBudget bounds the wall-clock time of the call. Zero or negative
// means unbounded.
func WithTimeBudget(d time.Duration) RunOption {
	return func(o *runOptions) {
		o.timeBudget = d
	}
}

// WithMaxExpanded bounds the number of states expanded by the call. Zero or
// negative means unbounded.
func WithMaxExpanded(n int) RunOption {
	return func(o *runOptions) {
		o.maxExpanded = n
	}
}
