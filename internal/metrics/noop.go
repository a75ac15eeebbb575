package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncURLCreated is a no-op.
func (n *NoopRecorder) IncURLCreated() {}

// IncURLReused is a no-op.
func (n *NoopRecorder) IncURLReused() {}

// IncDedupCacheHit is a no-op.
func (n *NoopRecorder) IncDedupCacheHit() {}

// IncDedupCacheMiss is a no-op.
func (n *NoopRecorder) IncDedupCacheMiss() {}

// IncRedirect is a no-op.
func (n *NoopRecorder) IncRedirect() {}

// IncRedirectNotFound is a no-op.
func (n *NoopRecorder) IncRedirectNotFound() {}

// ObserveRedirectDuration is a no-op.
func (n *NoopRecorder) ObserveRedirectDuration(duration time.Duration) {}
