package tread

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// Monitor collects engine counters. All methods are safe for concurrent
// workers; readers pull snapshots, nothing is pushed.
type Monitor struct {
	documents    atomic.Int64
	tokens       atomic.Int64
	highTokens   atomic.Int64
	lowTokens    atomic.Int64
	failOpens    atomic.Int64
	hits         atomic.Int64
	misses       atomic.Int64
	evictions    atomic.Int64
	latencyNanos atomic.Int64
}

// NewMonitor returns a zeroed Monitor.
func NewMonitor() *Monitor { return &Monitor{} }

// Stats is a point-in-time snapshot of the monitor.
type Stats struct {
	Documents       int64         `json:"documents"`
	TokensProcessed int64         `json:"tokens_processed"`
	HighPathTokens  int64         `json:"high_path_tokens"`
	LowPathTokens   int64         `json:"low_path_tokens"`
	FailOpens       int64         `json:"fail_opens"`
	CacheHits       int64         `json:"cache_hits"`
	CacheMisses     int64         `json:"cache_misses"`
	CacheEvictions  int64         `json:"cache_evictions"`
	AvgLatency      time.Duration `json:"avg_latency_ns"`
}

// ObserveDocument records one routed document and its latency.
func (m *Monitor) ObserveDocument(result *RoutingResult, elapsed time.Duration) {
	m.documents.Add(1)
	m.tokens.Add(int64(result.TokenCount))
	high := int64(result.HighTokens())
	m.highTokens.Add(high)
	m.lowTokens.Add(int64(result.TokenCount) - high)
	if result.FailOpen {
		m.failOpens.Add(1)
	}
	m.latencyNanos.Add(int64(elapsed))
}

// Cache recorder hooks, called by the routing cache.

func (m *Monitor) Hit()   { m.hits.Add(1) }
func (m *Monitor) Miss()  { m.misses.Add(1) }
func (m *Monitor) Evict() { m.evictions.Add(1) }

// Snapshot returns current counter values.
func (m *Monitor) Snapshot() Stats {
	s := Stats{
		Documents:       m.documents.Load(),
		TokensProcessed: m.tokens.Load(),
		HighPathTokens:  m.highTokens.Load(),
		LowPathTokens:   m.lowTokens.Load(),
		FailOpens:       m.failOpens.Load(),
		CacheHits:       m.hits.Load(),
		CacheMisses:     m.misses.Load(),
		CacheEvictions:  m.evictions.Load(),
	}
	if s.Documents > 0 {
		s.AvgLatency = time.Duration(m.latencyNanos.Load() / s.Documents)
	}
	return s
}

// Reset zeroes every counter.
func (m *Monitor) Reset() {
	m.documents.Store(0)
	m.tokens.Store(0)
	m.highTokens.Store(0)
	m.lowTokens.Store(0)
	m.failOpens.Store(0)
	m.hits.Store(0)
	m.misses.Store(0)
	m.evictions.Store(0)
	m.latencyNanos.Store(0)
}

// HitRate returns cache hits over total lookups, 0 when idle.
func (s Stats) HitRate() float64 {
	total := s.CacheHits + s.CacheMisses
	if total == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(total)
}

// Report renders a human-readable summary for the CLI.
func (s Stats) Report() string {
	var b strings.Builder
	fmt.Fprintf(&b, "documents:        %d\n", s.Documents)
	fmt.Fprintf(&b, "tokens processed: %d (high: %d, low: %d)\n", s.TokensProcessed, s.HighPathTokens, s.LowPathTokens)
	fmt.Fprintf(&b, "fail-open:        %d\n", s.FailOpens)
	fmt.Fprintf(&b, "cache:            %d hits, %d misses, %d evictions (%.1f%% hit rate)\n",
		s.CacheHits, s.CacheMisses, s.CacheEvictions, s.HitRate()*100)
	fmt.Fprintf(&b, "avg latency:      %s\n", s.AvgLatency)
	return b.String()
}
