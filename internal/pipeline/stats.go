package pipeline

import (
	"slices"
	"sync"
	"time"
)

// processedDoc is one finished document inside the stats window.
type processedDoc struct {
	at         time.Time
	durationMs int64
	headings   int
}

// StatsSnapshot is a point-in-time aggregate of per-document processing.
type StatsSnapshot struct {
	Count    int     `json:"count"`
	Headings int     `json:"headings"`
	MinMs    int64   `json:"min_ms"`
	MaxMs    int64   `json:"max_ms"`
	AvgMs    float64 `json:"avg_ms"`
	P50Ms    float64 `json:"p50_ms"`
	P95Ms    float64 `json:"p95_ms"`
	P99Ms    float64 `json:"p99_ms"`
}

// Stats aggregates the documents processed within a rolling window.
type Stats struct {
	mu     sync.Mutex
	docs   []processedDoc
	window time.Duration
}

// NewStats keeps documents for window; a non-positive window means one hour.
func NewStats(window time.Duration) *Stats {
	if window <= 0 {
		window = time.Hour
	}
	return &Stats{
		docs:   make([]processedDoc, 0, 256),
		window: window,
	}
}

// Record adds one processed document with its processing time and the number
// of headings found.
func (s *Stats) Record(durationMs int64, headings int) {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.expireLocked(now)
	s.docs = append(s.docs, processedDoc{
		at:         now,
		durationMs: max(durationMs, 0),
		headings:   headings,
	})
}

// Snapshot aggregates the documents still inside the window.
func (s *Stats) Snapshot() StatsSnapshot {
	now := time.Now()

	s.mu.Lock()
	s.expireLocked(now)
	docs := slices.Clone(s.docs)
	s.mu.Unlock()

	if len(docs) == 0 {
		return StatsSnapshot{}
	}

	durations := make([]int64, len(docs))
	var total int64
	snap := StatsSnapshot{Count: len(docs)}
	for i, d := range docs {
		durations[i] = d.durationMs
		total += d.durationMs
		snap.Headings += d.headings
	}
	slices.Sort(durations)

	snap.MinMs = durations[0]
	snap.MaxMs = durations[len(durations)-1]
	snap.AvgMs = float64(total) / float64(len(durations))
	snap.P50Ms = durationPercentile(durations, 50)
	snap.P95Ms = durationPercentile(durations, 95)
	snap.P99Ms = durationPercentile(durations, 99)
	return snap
}

// expireLocked forgets documents that finished before the window began.
func (s *Stats) expireLocked(now time.Time) {
	cutoff := now.Add(-s.window)
	s.docs = slices.DeleteFunc(s.docs, func(d processedDoc) bool {
		return d.at.Before(cutoff)
	})
}

// durationPercentile interpolates the pct-th percentile of the sorted
// per-document processing times.
func durationPercentile(sorted []int64, pct float64) float64 {
	n := len(sorted)
	switch {
	case n == 0:
		return 0
	case pct <= 0:
		return float64(sorted[0])
	case pct >= 100:
		return float64(sorted[n-1])
	}

	rank := float64(n-1) * pct / 100
	i := int(rank)
	if i+1 >= n {
		return float64(sorted[i])
	}
	frac := rank - float64(i)
	return float64(sorted[i]) + frac*float64(sorted[i+1]-sorted[i])
}
