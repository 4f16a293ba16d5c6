package pagesearch

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
// Methods may be called from several workers at once.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    expansions prometheus.Counter
//	    runs       *prometheus.HistogramVec
//	}
//
//	func (p *PrometheusCollector) RecordExpansion(generated, duplicates int, d time.Duration) {
//	    p.expansions.Inc()
//	    // ... record generated, duplicates, duration, etc.
//	}
type MetricsCollector interface {
	// RecordExpansion is called after each expanded state has been admitted.
	// generated counts its offspring, duplicates those rejected, and
	// duration covers operators, hashing and scoring.
	RecordExpansion(generated, duplicates int, duration time.Duration)

	// RecordRun is called at the end of each Start or Continue call.
	RecordRun(expanded uint64, found bool, duration time.Duration)

	// RecordFrontier reports the frontier size at the end of each run.
	RecordFrontier(size int)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordExpansion(int, int, time.Duration) {}
func (NoopMetricsCollector) RecordRun(uint64, bool, time.Duration)   {}
func (NoopMetricsCollector) RecordFrontier(int)                      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ExpansionCount      atomic.Int64
	GeneratedCount      atomic.Int64
	DuplicateCount      atomic.Int64
	ExpansionTotalNanos atomic.Int64
	RunCount            atomic.Int64
	RunsFound           atomic.Int64
	RunTotalNanos       atomic.Int64
	FrontierSize        atomic.Int64
}

// RecordExpansion implements MetricsCollector.
func (b *BasicMetricsCollector) RecordExpansion(generated, duplicates int, duration time.Duration) {
	b.ExpansionCount.Add(1)
	b.GeneratedCount.Add(int64(generated))
	b.DuplicateCount.Add(int64(duplicates))
	b.ExpansionTotalNanos.Add(duration.Nanoseconds())
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(expanded uint64, found bool, duration time.Duration) {
	b.RunCount.Add(1)
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if found {
		b.RunsFound.Add(1)
	}
}

// RecordFrontier implements MetricsCollector.
func (b *BasicMetricsCollector) RecordFrontier(size int) {
	b.FrontierSize.Store(int64(size))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		ExpansionCount:    b.ExpansionCount.Load(),
		GeneratedCount:    b.GeneratedCount.Load(),
		DuplicateCount:    b.DuplicateCount.Load(),
		ExpansionAvgNanos: b.getAvgExpansionNanos(),
		RunCount:          b.RunCount.Load(),
		RunsFound:         b.RunsFound.Load(),
		RunAvgNanos:       b.getAvgRunNanos(),
		FrontierSize:      b.FrontierSize.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgExpansionNanos() int64 {
	count := b.ExpansionCount.Load()
	if count == 0 {
		return 0
	}
	return b.ExpansionTotalNanos.Load() / count
}

func (b *BasicMetricsCollector) getAvgRunNanos() int64 {
	count := b.RunCount.Load()
	if count == 0 {
		return 0
	}
	return b.RunTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ExpansionCount    int64
	GeneratedCount    int64
	DuplicateCount    int64
	ExpansionAvgNanos int64
	RunCount          int64
	RunsFound         int64
	RunAvgNanos       int64
	FrontierSize      int64
}
