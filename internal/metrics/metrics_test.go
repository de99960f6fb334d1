package metrics

import (
	"errors"
	"testing"
	"time"
)

func TestRecorderUpstreamAttempts(t *testing.T) {
	rec := NewRecorder()

	rec.RecordUpstreamAttempt(SourceSchedule, 50*time.Millisecond, nil)
	rec.RecordUpstreamAttempt(SourceSchedule, 75*time.Millisecond, errors.New("boom"))
	rec.RecordUpstreamAttempt(SourceDetail, 10*time.Millisecond, nil)

	snap := rec.Snapshot(SourceSchedule)
	if snap.Calls != 2 {
		t.Fatalf("expected 2 schedule calls, got %d", snap.Calls)
	}
	if snap.Errors != 1 {
		t.Fatalf("expected 1 schedule error, got %d", snap.Errors)
	}
	if snap.LastCallLatency != 75*time.Millisecond {
		t.Fatalf("expected last latency 75ms, got %v", snap.LastCallLatency)
	}

	if got := rec.Snapshot(SourceDetail).Calls; got != 1 {
		t.Fatalf("expected 1 detail call, got %d", got)
	}
}

func TestRecorderCacheCounters(t *testing.T) {
	rec := NewRecorder()

	rec.RecordCacheRead(true)
	rec.RecordCacheRead(true)
	rec.RecordCacheRead(false)

	if rec.CacheHits() != 2 {
		t.Fatalf("expected 2 hits, got %d", rec.CacheHits())
	}
	if rec.CacheMisses() != 1 {
		t.Fatalf("expected 1 miss, got %d", rec.CacheMisses())
	}
}

func TestRecorderEnrichmentCounters(t *testing.T) {
	rec := NewRecorder()

	rec.RecordEnrichBatch(time.Second, nil)
	rec.RecordEnrichBatch(time.Second, errors.New("malformed"))
	rec.RecordFallback()
	rec.RecordFallback()
	rec.RecordFallback()

	if rec.EnrichBatches() != 2 {
		t.Fatalf("expected 2 batches, got %d", rec.EnrichBatches())
	}
	if rec.Fallbacks() != 3 {
		t.Fatalf("expected 3 fallbacks, got %d", rec.Fallbacks())
	}
}

func TestRecorderRateLimitWaits(t *testing.T) {
	rec := NewRecorder()
	rec.RecordRateLimitWait(2 * time.Second)
	if rec.RateLimitWaits() != 1 {
		t.Fatalf("expected 1 wait, got %d", rec.RateLimitWaits())
	}
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder

	rec.RecordUpstreamAttempt(SourceSchedule, 0, nil)
	rec.RecordCacheRead(true)
	rec.RecordEnrichBatch(0, nil)
	rec.RecordFallback()
	rec.RecordRateLimitWait(0)
	rec.RecordModelCall("gemini-1.5-pro", 0, nil)
	rec.RecordHTTPRequest("GET", "/games", 200, 0)

	if got := rec.Snapshot(SourceSchedule); got != (Snapshot{}) {
		t.Fatalf("expected zero snapshot, got %+v", got)
	}
}
