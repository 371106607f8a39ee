package odtree

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus.
type MetricsCollector interface {
	// RecordFit is called after each fit. duration is the total time taken,
	// err is nil if successful.
	RecordFit(duration time.Duration, err error)

	// RecordPredict is called after each prediction batch. count is the
	// number of rows predicted.
	RecordPredict(count int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordFit(time.Duration, error)   {}
func (NoopMetricsCollector) RecordPredict(int, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	FitCount          atomic.Int64
	FitErrors         atomic.Int64
	FitTotalNanos     atomic.Int64
	PredictCount      atomic.Int64
	PredictTotalNanos atomic.Int64
}

func (c *BasicMetricsCollector) RecordFit(duration time.Duration, err error) {
	c.FitCount.Add(1)
	c.FitTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		c.FitErrors.Add(1)
	}
}

func (c *BasicMetricsCollector) RecordPredict(count int, duration time.Duration) {
	c.PredictCount.Add(int64(count))
	c.PredictTotalNanos.Add(duration.Nanoseconds())
}
