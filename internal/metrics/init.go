package metrics

// InitializeMetrics pre-populates the expected label combinations so that
// every metric is exported from the first Prometheus scrape.
// Call this once at startup after metric registration.
func InitializeMetrics() {
	for _, kind := range []string{"trim", "extract", "normalize"} {
		JobsTotal.WithLabelValues(kind, "success")
		JobsTotal.WithLabelValues(kind, "error")
		JobDuration.WithLabelValues(kind)
	}

	for _, source := range []string{"youtube", "direct"} {
		DownloadsTotal.WithLabelValues(source, "success")
		DownloadsTotal.WithLabelValues(source, "error")
		DownloadDuration.WithLabelValues(source)
	}

	for _, tool := range []string{"yt-dlp", "youtube-dl"} {
		DownloadToolAttempts.WithLabelValues(tool, "success")
		DownloadToolAttempts.WithLabelValues(tool, "error")
		DownloadToolAttempts.WithLabelValues(tool, "unavailable")
	}
}
