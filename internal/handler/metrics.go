package handler

import (
	"fmt"
	"net/http"

	"github.com/raftlab/userdir/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "userdir_cache_hits_total{kind=\"user\"} %d\n", snap.UserCacheHits)
	writeMetric(w, "userdir_cache_hits_total{kind=\"list\"} %d\n", snap.ListCacheHits)
	writeMetric(w, "userdir_cache_misses_total{kind=\"user\"} %d\n", snap.UserCacheMisses)
	writeMetric(w, "userdir_cache_misses_total{kind=\"list\"} %d\n", snap.ListCacheMisses)
	writeMetric(w, "userdir_cache_write_errors_total %d\n", snap.CacheWriteErrors)

	writeMetric(w, "userdir_upstream_requests_total %d\n", snap.UpstreamRequests)
	writeMetric(w, "userdir_upstream_errors_total %d\n", snap.UpstreamErrors)
	writeMetric(w, "userdir_upstream_retries_total %d\n", snap.UpstreamRetries)
	writeMetric(w, "userdir_upstream_duration_seconds_count %d\n", snap.UpstreamRequests)
	writeMetric(w, "userdir_upstream_duration_seconds_sum %.6f\n", float64(snap.UpstreamDurationTotalNs)/1e9)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
