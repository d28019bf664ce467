package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics
var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_clipper_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_clipper_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_clipper_http_requests_in_flight",
			Help: "Number of HTTP requests currently being processed",
		},
	)
)

// Transcoding job metrics
var (
	JobsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_clipper_jobs_total",
			Help: "Total number of transcoding jobs by kind and outcome",
		},
		[]string{"kind", "status"},
	)

	JobDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_clipper_job_duration_seconds",
			Help:    "Transcoding job duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"kind"},
	)

	JobsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_clipper_jobs_active",
			Help: "Number of transcoding jobs currently running",
		},
	)

	NormalizeDegraded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_clipper_normalize_degraded_total",
			Help: "Normalize jobs that fell back to the raw downloaded file",
		},
	)
)

// Download metrics
var (
	DownloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_clipper_downloads_total",
			Help: "Total number of URL downloads by source and outcome",
		},
		[]string{"source", "status"},
	)

	DownloadToolAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_clipper_download_tool_attempts_total",
			Help: "Platform download attempts per external tool and outcome",
		},
		[]string{"tool", "status"},
	)

	DownloadDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_clipper_download_duration_seconds",
			Help:    "URL download duration in seconds",
			Buckets: []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		},
		[]string{"source"},
	)
)

// Session metrics
var (
	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_clipper_sessions_active",
			Help: "Number of live client sessions",
		},
	)

	SessionFilesReclaimed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_clipper_session_files_reclaimed_total",
			Help: "Scratch files deleted by session cleanup",
		},
	)

	SessionSweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_clipper_session_sweep_duration_seconds",
			Help:    "Duration of periodic session sweeps in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
	)
)

// Progress stream metrics
var (
	ProgressSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "media_clipper_progress_subscribers",
			Help: "Number of open progress event streams",
		},
	)
)
