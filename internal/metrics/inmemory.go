package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	URLsCreated             uint64
	URLsReused              uint64
	DedupCacheHits          uint64
	DedupCacheMisses        uint64
	Redirects               uint64
	RedirectsNotFound       uint64
	RedirectDurationCount   uint64
	RedirectDurationTotalNs int64
}

// InMemoryRecorder stores metrics in memory for tests.
type InMemoryRecorder struct {
	urlsCreated             uint64
	urlsReused              uint64
	dedupCacheHits          uint64
	dedupCacheMisses        uint64
	redirects               uint64
	redirectsNotFound       uint64
	redirectDurationCount   uint64
	redirectDurationTotalNs int64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		URLsCreated:             atomic.LoadUint64(&m.urlsCreated),
		URLsReused:              atomic.LoadUint64(&m.urlsReused),
		DedupCacheHits:          atomic.LoadUint64(&m.dedupCacheHits),
		DedupCacheMisses:        atomic.LoadUint64(&m.dedupCacheMisses),
		Redirects:               atomic.LoadUint64(&m.redirects),
		RedirectsNotFound:       atomic.LoadUint64(&m.redirectsNotFound),
		RedirectDurationCount:   atomic.LoadUint64(&m.redirectDurationCount),
		RedirectDurationTotalNs: atomic.LoadInt64(&m.redirectDurationTotalNs),
	}
}

// IncURLCreated increments the created-record counter.
func (m *InMemoryRecorder) IncURLCreated() {
	atomic.AddUint64(&m.urlsCreated, 1)
}

// IncURLReused increments the idempotent-shorten counter.
func (m *InMemoryRecorder) IncURLReused() {
	atomic.AddUint64(&m.urlsReused, 1)
}

// IncDedupCacheHit increments the dedup cache hit counter.
func (m *InMemoryRecorder) IncDedupCacheHit() {
	atomic.AddUint64(&m.dedupCacheHits, 1)
}

// IncDedupCacheMiss increments the dedup cache miss counter.
func (m *InMemoryRecorder) IncDedupCacheMiss() {
	atomic.AddUint64(&m.dedupCacheMisses, 1)
}

// IncRedirect increments the successful redirect counter.
func (m *InMemoryRecorder) IncRedirect() {
	atomic.AddUint64(&m.redirects, 1)
}

// IncRedirectNotFound increments the unknown-code counter.
func (m *InMemoryRecorder) IncRedirectNotFound() {
	atomic.AddUint64(&m.redirectsNotFound, 1)
}

// ObserveRedirectDuration records redirect duration.
func (m *InMemoryRecorder) ObserveRedirectDuration(duration time.Duration) {
	atomic.AddUint64(&m.redirectDurationCount, 1)
	atomic.AddInt64(&m.redirectDurationTotalNs, duration.Nanoseconds())
}
