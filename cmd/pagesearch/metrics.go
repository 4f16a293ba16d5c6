package main

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/pagesearch"
)

// PrometheusCollector implements pagesearch.MetricsCollector.
type PrometheusCollector struct {
	expansions   prometheus.Counter
	generated    prometheus.Counter
	duplicates   prometheus.Counter
	expandTime   prometheus.Histogram
	runs         *prometheus.CounterVec
	runTime      prometheus.Histogram
	runExpanded  prometheus.Histogram
	frontierSize prometheus.Gauge
}

var _ pagesearch.MetricsCollector = (*PrometheusCollector)(nil)

// NewPrometheusCollector creates the collector and registers it with reg.
func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		expansions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagesearch_expansions_total",
			Help: "Total states expanded",
		}),
		generated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagesearch_generated_total",
			Help: "Total offspring generated by operators",
		}),
		duplicates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagesearch_duplicates_total",
			Help: "Total offspring rejected as duplicates",
		}),
		expandTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagesearch_expansion_duration_seconds",
			Help:    "Time spent generating, hashing and scoring the offspring of one state",
			Buckets: prometheus.ExponentialBuckets(1e-7, 4, 10),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagesearch_runs_total",
			Help: "Total Start and Continue calls",
		}, []string{"found"}),
		runTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagesearch_run_duration_seconds",
			Help:    "Wall-clock time of one Start or Continue call",
			Buckets: prometheus.DefBuckets,
		}),
		runExpanded: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagesearch_run_expanded",
			Help:    "States expanded since Start, observed at the end of each call",
			Buckets: prometheus.ExponentialBuckets(1, 4, 12),
		}),
		frontierSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pagesearch_frontier_size",
			Help: "Frontier size at the end of the last call",
		}),
	}

	reg.MustRegister(
		c.expansions,
		c.generated,
		c.duplicates,
		c.expandTime,
		c.runs,
		c.runTime,
		c.runExpanded,
		c.frontierSize,
	)

	return c
}

func (c *PrometheusCollector) RecordExpansion(generated, duplicates int, d time.Duration) {
	c.expansions.Inc()
	c.generated.Add(float64(generated))
	c.duplicates.Add(float64(duplicates))
	c.expandTime.Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordRun(expanded uint64, found bool, d time.Duration) {
	c.runs.WithLabelValues(strconv.FormatBool(found)).Inc()
	c.runTime.Observe(d.Seconds())
	c.runExpanded.Observe(float64(expanded))
}

func (c *PrometheusCollector) RecordFrontier(size int) {
	c.frontierSize.Set(float64(size))
}
