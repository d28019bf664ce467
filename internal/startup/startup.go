package startup

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"media-clipper/internal/logging"
	"media-clipper/internal/workers"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information.
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// ToolStatus records which external binaries were found on PATH at
// startup. Missing tools are not fatal; requests needing them fail
// with actionable errors instead.
type ToolStatus struct {
	FFmpeg    bool `json:"ffmpeg"`
	FFprobe   bool `json:"ffprobe"`
	YtDlp     bool `json:"ytDlp"`
	YoutubeDl bool `json:"youtubeDl"`
}

// Config holds all application configuration.
type Config struct {
	UploadDir      string
	Port           string
	MetricsPort    string
	MetricsEnabled bool
	SessionTimeout time.Duration
	SweepInterval  time.Duration
	MaxJobs        int
	LogStaticFiles bool

	// DegradeOnNormalizeFailure keeps a raw platform download when
	// normalization fails instead of failing the whole pipeline.
	DegradeOnNormalizeFailure bool

	Tools ToolStatus
}

// LoadConfig loads and validates configuration from environment variables.
func LoadConfig() (*Config, error) {
	printBanner()

	logging.Info("------------------------------------------------------------")
	logging.Info("CONFIGURATION")
	logging.Info("------------------------------------------------------------")

	uploadDir := getEnv("UPLOAD_DIR", "./uploads")
	port := getEnv("PORT", "3001")
	metricsPort := getEnv("METRICS_PORT", "")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)
	sessionTimeout := getEnvDuration("SESSION_TIMEOUT", 5*time.Minute)
	sweepInterval := getEnvDuration("SWEEP_INTERVAL", time.Minute)
	maxJobs := getEnvInt("MAX_JOBS", workers.ForCPU(8))
	logStaticFiles := getEnvBool("LOG_STATIC_FILES", false)
	degrade := getEnvBool("DEGRADE_ON_NORMALIZE_FAILURE", true)

	logging.Info("  UPLOAD_DIR:                    %s", uploadDir)
	logging.Info("  PORT:                          %s", port)
	logging.Info("  METRICS_PORT:                  %s", orDash(metricsPort))
	logging.Info("  METRICS_ENABLED:               %v", metricsEnabled)
	logging.Info("  SESSION_TIMEOUT:               %s", sessionTimeout)
	logging.Info("  SWEEP_INTERVAL:                %s", sweepInterval)
	logging.Info("  MAX_JOBS:                      %d", maxJobs)
	logging.Info("  DEGRADE_ON_NORMALIZE_FAILURE:  %v", degrade)
	logging.Info("  LOG_LEVEL:                     %s", logging.GetLevel())

	uploadDir, err := filepath.Abs(uploadDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve upload directory path: %w", err)
	}
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := probeWritable(uploadDir); err != nil {
		return nil, fmt.Errorf("upload directory is not writable: %w", err)
	}
	logging.Info("  Upload directory (absolute):   %s", uploadDir)

	return &Config{
		UploadDir:                 uploadDir,
		Port:                      port,
		MetricsPort:               metricsPort,
		MetricsEnabled:            metricsEnabled,
		SessionTimeout:            sessionTimeout,
		SweepInterval:             sweepInterval,
		MaxJobs:                   maxJobs,
		LogStaticFiles:            logStaticFiles,
		DegradeOnNormalizeFailure: degrade,
		Tools:                     ProbeTools(),
	}, nil
}

// ProbeTools checks PATH for every external binary the service can use
// and logs install hints for the missing ones.
func ProbeTools() ToolStatus {
	status := ToolStatus{
		FFmpeg:    toolOnPath("ffmpeg"),
		FFprobe:   toolOnPath("ffprobe"),
		YtDlp:     toolOnPath("yt-dlp"),
		YoutubeDl: toolOnPath("youtube-dl"),
	}

	logging.Info("------------------------------------------------------------")
	logging.Info("EXTERNAL TOOLS")
	logging.Info("------------------------------------------------------------")
	logFound("ffmpeg", status.FFmpeg)
	logFound("ffprobe", status.FFprobe)
	logFound("yt-dlp", status.YtDlp)
	logFound("youtube-dl", status.YoutubeDl)

	if !status.FFmpeg || !status.FFprobe {
		logging.Warn("ffmpeg/ffprobe missing: trimming, frame extraction and URL normalization will fail")
	}
	if !status.YtDlp && !status.YoutubeDl {
		logging.Warn("no platform download tool found; install with: pip install yt-dlp")
	}

	return status
}

func toolOnPath(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}

func logFound(name string, found bool) {
	if found {
		logging.Info("  %-12s found", name)
	} else {
		logging.Warn("  %-12s NOT FOUND", name)
	}
}

// probeWritable writes and removes a sentinel file.
func probeWritable(dir string) error {
	probe := filepath.Join(dir, ".write-probe")
	if err := os.WriteFile(probe, []byte("probe"), 0o644); err != nil {
		return err
	}
	return os.Remove(probe)
}

func printBanner() {
	logging.Info("============================================================")
	logging.Info("  media-clipper %s (%s)", Version, Commit)
	logging.Info("  %s %s/%s", GoVersion, runtime.GOOS, runtime.GOARCH)
	logging.Info("============================================================")
}

// LogHTTPRoutes walks the router and logs every registered route.
func LogHTTPRoutes(router *mux.Router) {
	logging.Info("------------------------------------------------------------")
	logging.Info("HTTP ROUTES")
	logging.Info("------------------------------------------------------------")

	err := router.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, err := route.GetPathTemplate()
		if err != nil {
			return nil //nolint:nilerr // subrouters without templates are expected
		}
		methods, err := route.GetMethods()
		if err != nil {
			logging.Info("  ALL     %s", path)
			return nil
		}
		for _, method := range methods {
			logging.Info("  %-7s %s", method, path)
		}
		return nil
	})
	if err != nil {
		logging.Warn("failed to walk routes: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		logging.Warn("  Invalid %s=%q, using default: %v", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logging.Warn("  Invalid %s=%q, using default: %s", key, value, fallback)
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		logging.Warn("  Invalid %s=%q, using default: %d", key, value, fallback)
		return fallback
	}
	return parsed
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
