package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"media-clipper/internal/command"
	"media-clipper/internal/download"
	"media-clipper/internal/handlers"
	"media-clipper/internal/logging"
	"media-clipper/internal/metrics"
	"media-clipper/internal/middleware"
	"media-clipper/internal/session"
	"media-clipper/internal/startup"
	"media-clipper/internal/tasks"
	"media-clipper/internal/transcoder"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	startTime := time.Now()

	// Load configuration
	config, err := startup.LoadConfig()
	if err != nil {
		logging.Fatal("Configuration error: %v", err)
	}

	metrics.InitializeMetrics()

	// Wire the core components
	registry := session.NewRegistry(config.SessionTimeout)
	tracker := tasks.NewTracker()
	runner := command.NewExecRunner()
	orch := transcoder.New(runner, tracker, config.UploadDir, config.MaxJobs, config.DegradeOnNormalizeFailure)
	pipeline := download.NewPipeline(runner, orch, config.UploadDir)

	// Reclaim abandoned session files periodically
	sweepStop := startSweeper(registry, config.SweepInterval)

	// Initialize handlers
	h := handlers.New(registry, tracker, orch, pipeline, config)

	// Setup router
	router := setupRouter(h, config)
	startup.LogHTTPRoutes(router)

	// Apply metrics middleware
	meteredHandler := middleware.Metrics(middleware.DefaultMetricsConfig())(router)

	// Apply logging middleware
	loggingConfig := middleware.DefaultLoggingConfig()
	loggingConfig.LogStaticFiles = config.LogStaticFiles
	loggedHandler := middleware.Logger(loggingConfig)(meteredHandler)

	// Apply CORS middleware
	handler := middleware.CORS()(loggedHandler)

	// Create server
	srv := &http.Server{
		Addr:         ":" + config.Port,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE and long downloads
		IdleTimeout:  60 * time.Second,
	}

	// Dedicated metrics listener, when configured
	if config.MetricsEnabled && config.MetricsPort != "" {
		go serveMetrics(config.MetricsPort)
	}

	// Start graceful shutdown handler
	go handleShutdown(srv, registry, sweepStop)

	// Start server
	logging.Info("Listening on :%s (started in %s)", config.Port, time.Since(startTime).Round(time.Millisecond))
	if err := srv.ListenAndServe(); err != http.ErrServerClosed {
		logging.Fatal("Server error: %v", err)
	}
}

func setupRouter(h *handlers.Handlers, config *startup.Config) *mux.Router {
	r := mux.NewRouter()

	// Health check and version routes
	r.HandleFunc("/health", h.HealthCheck).Methods("GET")
	r.HandleFunc("/healthz", h.HealthCheck).Methods("GET")
	r.HandleFunc("/livez", h.LivenessCheck).Methods("GET", "HEAD")
	r.HandleFunc("/readyz", h.ReadinessCheck).Methods("GET")
	r.HandleFunc("/version", h.GetVersion).Methods("GET")

	if config.MetricsEnabled && config.MetricsPort == "" {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/upload", h.Upload).Methods("POST")
	api.HandleFunc("/download-url", h.DownloadURL).Methods("POST")
	api.HandleFunc("/trim", h.Trim).Methods("POST")
	api.HandleFunc("/extract-frames", h.ExtractFrames).Methods("POST")
	api.HandleFunc("/progress/{taskId}", h.Progress).Methods("GET")
	api.HandleFunc("/heartbeat", h.Heartbeat).Methods("POST")
	api.HandleFunc("/cleanup", h.Cleanup).Methods("POST")

	// Scratch files are served straight off disk so trimmed clips and
	// extracted frames can be played back or downloaded by the client.
	uploads := http.StripPrefix("/uploads/", http.FileServer(http.Dir(config.UploadDir)))
	r.PathPrefix("/uploads/").Handler(uploads).Methods("GET", "HEAD")

	return r
}

// startSweeper runs the periodic expired-session sweep until the
// returned channel is closed.
func startSweeper(registry *session.Registry, interval time.Duration) chan struct{} {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				registry.Sweep(time.Now())
			case <-stop:
				return
			}
		}
	}()
	return stop
}

func serveMetrics(port string) {
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.Handler())

	logging.Info("Metrics listening on :%s", port)
	if err := http.ListenAndServe(":"+port, metricsMux); err != nil {
		logging.Error("Metrics server error: %v", err)
	}
}

func handleShutdown(srv *http.Server, registry *session.Registry, sweepStop chan struct{}) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan

	logging.Info("Received %s, shutting down", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	close(sweepStop)

	if err := srv.Shutdown(ctx); err != nil {
		logging.Warn("Server shutdown error: %v", err)
	}

	// Scratch files have no value past the process lifetime.
	registry.CleanupAll()

	logging.Info("Shutdown complete")
}
