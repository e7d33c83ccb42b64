package colorclass

import (
	"sync/atomic"
	"time"
)

// MetricsCollector receives one record per clustering call. Implement it
// to forward classification metrics to a monitoring system.
type MetricsCollector interface {
	// RecordCluster is called after each Cluster call. colors is the
	// number of distinct quantized colors, stats describes the K-means
	// run, and err is nil on success.
	RecordCluster(k, colors int, stats Stats, duration time.Duration, err error)
}

// NoopMetricsCollector discards all metrics.
type NoopMetricsCollector struct{}

// RecordCluster implements MetricsCollector.
func (NoopMetricsCollector) RecordCluster(int, int, Stats, time.Duration, error) {}

// BasicMetricsCollector keeps in-memory counters. It is safe for
// concurrent use.
type BasicMetricsCollector struct {
	Calls         atomic.Int64
	Errors        atomic.Int64
	Unconverged   atomic.Int64
	Passes        atomic.Int64
	Reassignments atomic.Int64
	Colors        atomic.Int64
	TotalNanos    atomic.Int64
}

// RecordCluster implements MetricsCollector.
func (b *BasicMetricsCollector) RecordCluster(k, colors int, stats Stats, duration time.Duration, err error) {
	b.Calls.Add(1)
	b.TotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.Errors.Add(1)
		return
	}
	if !stats.Converged {
		b.Unconverged.Add(1)
	}
	b.Passes.Add(int64(stats.Passes))
	b.Reassignments.Add(int64(stats.Reassignments))
	b.Colors.Add(int64(colors))
}

// BasicMetricsStats is a point-in-time copy of BasicMetricsCollector.
type BasicMetricsStats struct {
	Calls         int64
	Errors        int64
	Unconverged   int64
	Passes        int64
	Reassignments int64
	Colors        int64
	AvgDuration   time.Duration
}

// GetStats returns a snapshot of the counters.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		Calls:         b.Calls.Load(),
		Errors:        b.Errors.Load(),
		Unconverged:   b.Unconverged.Load(),
		Passes:        b.Passes.Load(),
		Reassignments: b.Reassignments.Load(),
		Colors:        b.Colors.Load(),
	}
	if s.Calls > 0 {
		s.AvgDuration = time.Duration(b.TotalNanos.Load() / s.Calls)
	}
	return s
}
