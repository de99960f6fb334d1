package metrics

import (
	"sync"
	"time"
)

type sourceStats struct {
	calls           int
	errors          int
	lastCallLatency time.Duration
}

// Recorder captures lightweight, in-memory metrics about pipeline activity.
// It is intentionally simple so it can be swapped for a real backend later.
type Recorder struct {
	mu    sync.Mutex
	stats map[string]*sourceStats

	cacheHits      int
	cacheMisses    int
	enrichBatches  int
	enrichFailures int
	fallbacks      int
	rateLimitWaits int

	otel *otelInstruments
}

func NewRecorder() *Recorder {
	return newRecorder(nil)
}

func newRecorder(otel *otelInstruments) *Recorder {
	return &Recorder{
		stats: make(map[string]*sourceStats),
		otel:  otel,
	}
}

// RecordUpstreamAttempt increments counters for an upstream call and stores the last observed latency.
func (r *Recorder) RecordUpstreamAttempt(source string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(source)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordUpstreamAttempt(source, duration, err)
	}
}

// RecordCacheRead tracks a cache lookup outcome.
func (r *Recorder) RecordCacheRead(hit bool) {
	if r == nil {
		return
	}

	r.mu.Lock()
	if hit {
		r.cacheHits++
	} else {
		r.cacheMisses++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordCacheRead(hit)
	}
}

// RecordEnrichBatch tracks one summarization batch and whether it failed.
func (r *Recorder) RecordEnrichBatch(duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.enrichBatches++
	if err != nil {
		r.enrichFailures++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordEnrichBatch(duration, err)
	}
}

// RecordFallback tracks a game that received a deterministic fallback summary.
func (r *Recorder) RecordFallback() {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.fallbacks++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordFallback()
	}
}

// RecordRateLimitWait tracks a recap call that had to wait for window capacity.
func (r *Recorder) RecordRateLimitWait(waited time.Duration) {
	if r == nil {
		return
	}

	r.mu.Lock()
	r.rateLimitWaits++
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordRateLimitWait(waited)
	}
}

// RecordModelCall tracks one generative-model invocation by model name.
func (r *Recorder) RecordModelCall(model string, duration time.Duration, err error) {
	if r == nil {
		return
	}

	r.mu.Lock()
	stats := r.ensureStatsLocked(SourceGemini)
	stats.calls++
	stats.lastCallLatency = duration
	if err != nil {
		stats.errors++
	}
	r.mu.Unlock()

	if r.otel != nil {
		r.otel.recordModelCall(model, duration, err)
	}
}

// RecordHTTPRequest tracks basic HTTP metrics.
func (r *Recorder) RecordHTTPRequest(method, path string, status int, duration time.Duration) {
	if r == nil || r.otel == nil {
		return
	}
	r.otel.recordHTTPRequest(method, path, status, duration)
}

// Snapshot is a copy of the current stats for one upstream source.
type Snapshot struct {
	Calls           int
	Errors          int
	LastCallLatency time.Duration
}

func (r *Recorder) Snapshot(source string) Snapshot {
	if r == nil {
		return Snapshot{}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if stats, ok := r.stats[source]; ok && stats != nil {
		return Snapshot{
			Calls:           stats.calls,
			Errors:          stats.errors,
			LastCallLatency: stats.lastCallLatency,
		}
	}
	return Snapshot{}
}

// CacheHits returns the total recorded cache hits.
func (r *Recorder) CacheHits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheHits
}

// CacheMisses returns the total recorded cache misses.
func (r *Recorder) CacheMisses() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cacheMisses
}

// EnrichBatches returns the total recorded summarization batches.
func (r *Recorder) EnrichBatches() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enrichBatches
}

// Fallbacks returns the total games that fell back to templated summaries.
func (r *Recorder) Fallbacks() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fallbacks
}

// RateLimitWaits returns the total recap calls delayed by the limiter.
func (r *Recorder) RateLimitWaits() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rateLimitWaits
}

func (r *Recorder) ensureStatsLocked(source string) *sourceStats {
	stats, ok := r.stats[source]
	if !ok {
		stats = &sourceStats{}
		r.stats[source] = stats
	}
	return stats
}
