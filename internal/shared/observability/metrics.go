package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics definitions
var (
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "skiplint_parse_seconds",
		Help:    "Time spent parsing a source file.",
		Buckets: prometheus.DefBuckets,
	}, []string{"language"})

	FilesLinted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skiplint_files_total",
		Help: "Files processed, by outcome (ok, syntax_error, error).",
	}, []string{"outcome"})

	DiagnosticsReported = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skiplint_diagnostics_total",
		Help: "Diagnostics produced, by code.",
	}, []string{"code"})

	SkippedTargets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skiplint_skipped_targets_total",
		Help: "Annotated members ignored because the target was not a simple name.",
	})

	RunDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skiplint_run_seconds",
		Help:    "Wall time of a complete lint run.",
		Buckets: prometheus.DefBuckets,
	})

	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skiplint_watcher_events_total",
		Help: "Total number of file system events received by the watcher.",
	})

	WatcherRescansThrottled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skiplint_watcher_rescans_throttled_total",
		Help: "Rescans delayed by the rescan rate limit.",
	})
)
