package utils

import (
	"sync/atomic"
	"time"
)

// PlatformMetrics tracks outbound Discord API calls.
type PlatformMetrics struct {
	TotalRequests  int64
	FailedRequests int64
	MaxLatency     int64 // in milliseconds
	latencySum     int64
}

// PlatformStats is a point-in-time copy of PlatformMetrics for the dashboard.
type PlatformStats struct {
	TotalRequests    int64 `json:"totalRequests"`
	FailedRequests   int64 `json:"failedRequests"`
	AverageLatencyMS int64 `json:"averageLatencyMs"`
	MaxLatencyMS     int64 `json:"maxLatencyMs"`
}

// Track records one call that started at start and ended with err.
func (m *PlatformMetrics) Track(start time.Time, err error) {
	latency := time.Since(start).Milliseconds()
	atomic.AddInt64(&m.TotalRequests, 1)
	atomic.AddInt64(&m.latencySum, latency)
	if err != nil {
		atomic.AddInt64(&m.FailedRequests, 1)
	}
	for {
		current := atomic.LoadInt64(&m.MaxLatency)
		if latency <= current || atomic.CompareAndSwapInt64(&m.MaxLatency, current, latency) {
			return
		}
	}
}

// Snapshot returns the current counters.
func (m *PlatformMetrics) Snapshot() PlatformStats {
	total := atomic.LoadInt64(&m.TotalRequests)
	stats := PlatformStats{
		TotalRequests:  total,
		FailedRequests: atomic.LoadInt64(&m.FailedRequests),
		MaxLatencyMS:   atomic.LoadInt64(&m.MaxLatency),
	}
	if total > 0 {
		stats.AverageLatencyMS = atomic.LoadInt64(&m.latencySum) / total
	}
	return stats
}
