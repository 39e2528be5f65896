package metrics

import "time"

// NoopRecorder implements Recorder with no-op methods.
type NoopRecorder struct{}

// NewNoop returns a Recorder that discards all metrics.
func NewNoop() Recorder {
	return &NoopRecorder{}
}

// IncCacheHit is a no-op.
func (n *NoopRecorder) IncCacheHit(kind string) {}

// IncCacheMiss is a no-op.
func (n *NoopRecorder) IncCacheMiss(kind string) {}

// IncCacheWriteError is a no-op.
func (n *NoopRecorder) IncCacheWriteError() {}

// ObserveUpstreamRequest is a no-op.
func (n *NoopRecorder) ObserveUpstreamRequest(statusCode int, duration time.Duration) {}

// IncUpstreamRetry is a no-op.
func (n *NoopRecorder) IncUpstreamRetry() {}
