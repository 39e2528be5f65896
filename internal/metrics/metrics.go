// Package metrics provides lightweight hooks for instrumentation.
package metrics

import "time"

// Lookup kinds used as the cache metric label.
const (
	KindUser = "user"
	KindList = "list"
)

// Recorder captures metric events for the application.
// Implementations can expose these to Prometheus, StatsD, etc.
type Recorder interface {
	// Cache metrics, labelled by lookup kind
	IncCacheHit(kind string)
	IncCacheMiss(kind string)
	IncCacheWriteError()

	// Upstream API metrics
	ObserveUpstreamRequest(statusCode int, duration time.Duration) // statusCode 0 on transport error
	IncUpstreamRetry()
}

// Snapshotter exposes a snapshot of current metrics.
type Snapshotter interface {
	Snapshot() Snapshot
}
