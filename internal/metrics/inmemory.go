package metrics

import (
	"sync/atomic"
	"time"
)

// Snapshot captures current in-memory counters.
type Snapshot struct {
	UserCacheHits           uint64
	UserCacheMisses         uint64
	ListCacheHits           uint64
	ListCacheMisses         uint64
	CacheWriteErrors        uint64
	UpstreamRequests        uint64
	UpstreamErrors          uint64 // non-2xx or transport failure
	UpstreamDurationTotalNs int64
	UpstreamRetries         uint64
}

// InMemoryRecorder keeps counters in memory. It backs the /metrics endpoint
// and is used by tests.
type InMemoryRecorder struct {
	userCacheHits           uint64
	userCacheMisses         uint64
	listCacheHits           uint64
	listCacheMisses         uint64
	cacheWriteErrors        uint64
	upstreamRequests        uint64
	upstreamErrors          uint64
	upstreamDurationTotalNs int64
	upstreamRetries         uint64
}

// NewInMemory returns a Recorder that stores counters in memory.
func NewInMemory() *InMemoryRecorder {
	return &InMemoryRecorder{}
}

// Snapshot returns a copy of the counters.
func (m *InMemoryRecorder) Snapshot() Snapshot {
	return Snapshot{
		UserCacheHits:           atomic.LoadUint64(&m.userCacheHits),
		UserCacheMisses:         atomic.LoadUint64(&m.userCacheMisses),
		ListCacheHits:           atomic.LoadUint64(&m.listCacheHits),
		ListCacheMisses:         atomic.LoadUint64(&m.listCacheMisses),
		CacheWriteErrors:        atomic.LoadUint64(&m.cacheWriteErrors),
		UpstreamRequests:        atomic.LoadUint64(&m.upstreamRequests),
		UpstreamErrors:          atomic.LoadUint64(&m.upstreamErrors),
		UpstreamDurationTotalNs: atomic.LoadInt64(&m.upstreamDurationTotalNs),
		UpstreamRetries:         atomic.LoadUint64(&m.upstreamRetries),
	}
}

// IncCacheHit increments the hit counter for kind.
func (m *InMemoryRecorder) IncCacheHit(kind string) {
	if kind == KindList {
		atomic.AddUint64(&m.listCacheHits, 1)
		return
	}
	atomic.AddUint64(&m.userCacheHits, 1)
}

// IncCacheMiss increments the miss counter for kind.
func (m *InMemoryRecorder) IncCacheMiss(kind string) {
	if kind == KindList {
		atomic.AddUint64(&m.listCacheMisses, 1)
		return
	}
	atomic.AddUint64(&m.userCacheMisses, 1)
}

// IncCacheWriteError increments the cache write failure counter.
func (m *InMemoryRecorder) IncCacheWriteError() {
	atomic.AddUint64(&m.cacheWriteErrors, 1)
}

// ObserveUpstreamRequest records one outbound attempt.
func (m *InMemoryRecorder) ObserveUpstreamRequest(statusCode int, duration time.Duration) {
	atomic.AddUint64(&m.upstreamRequests, 1)
	atomic.AddInt64(&m.upstreamDurationTotalNs, duration.Nanoseconds())
	if statusCode < 200 || statusCode >= 300 {
		atomic.AddUint64(&m.upstreamErrors, 1)
	}
}

// IncUpstreamRetry increments the retry counter.
func (m *InMemoryRecorder) IncUpstreamRetry() {
	atomic.AddUint64(&m.upstreamRetries, 1)
}
