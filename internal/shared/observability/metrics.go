// # internal/shared/observability/metrics.go
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics definitions
var (
	ExtractionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mainseq_extraction_seconds",
		Help:    "Time spent extracting structural metrics from a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	AnalysisDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "mainseq_analysis_seconds",
		Help:    "Time spent on pipeline stages.",
		Buckets: prometheus.DefBuckets,
	}, []string{"stage"})

	FilesAnalyzed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "mainseq_files_analyzed",
		Help: "Number of files in the last completed analysis run.",
	})

	ZoneFiles = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "mainseq_zone_files",
		Help: "Files per design zone in the last completed run.",
	}, []string{"zone"})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mainseq_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	RescansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mainseq_rescans_total",
		Help: "Total number of full re-analyses triggered by watch mode.",
	})

	ContentCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mainseq_content_cache_hits_total",
		Help: "Watch-mode rescans skipped because file content was unchanged.",
	})

	SnapshotWritesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "mainseq_snapshot_writes_total",
		Help: "Total number of run snapshots persisted to history.",
	})
)

// ObserveStage records one pipeline stage duration.
func ObserveStage(stage string, start time.Time) {
	AnalysisDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// ServeMetrics exposes the Prometheus endpoint on addr. It blocks, so
// callers run it in a goroutine.
func ServeMetrics(addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(addr, mux)
}
