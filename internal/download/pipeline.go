package download

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"media-clipper/internal/command"
	"media-clipper/internal/logging"
	"media-clipper/internal/metrics"
)

// Source classifies where a URL points.
type Source string

const (
	// SourceYouTube marks URLs on known video-platform domains, fetched
	// through the external tool chain.
	SourceYouTube Source = "youtube"
	// SourceDirect marks plain file URLs, streamed over HTTP.
	SourceDirect Source = "direct"
)

// maxRedirects caps how many 3xx hops a direct download will follow.
const maxRedirects = 5

// qualitySelector bounds platform downloads to 720p; frame extraction
// and trimming never need more.
const qualitySelector = "best[height<=720]"

// Result is a successfully resolved local asset. The caller owns the
// file and must register it with the session registry before replying.
type Result struct {
	Filename string
	Path     string
	Source   Source
}

// Normalizer re-encodes a downloaded container into the
// browser-compatible profile. Satisfied by transcoder.Orchestrator.
type Normalizer interface {
	Normalize(ctx context.Context, rawPath, outputPath string) error
}

// tool is one entry in the ordered platform-download fallback chain.
type tool struct {
	name   string
	invoke func(ctx context.Context, rawURL, rawPath string) error
}

// Pipeline resolves a remote URL into a local media asset.
type Pipeline struct {
	runner     command.Runner
	normalizer Normalizer
	uploadDir  string
	client     *http.Client
	chain      []tool
}

// NewPipeline builds a pipeline writing assets into uploadDir. The
// platform tool chain is yt-dlp first, then youtube-dl as the legacy
// fallback, tried strictly in order.
func NewPipeline(runner command.Runner, normalizer Normalizer, uploadDir string) *Pipeline {
	p := &Pipeline{
		runner:     runner,
		normalizer: normalizer,
		uploadDir:  uploadDir,
		client: &http.Client{
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= maxRedirects {
					return fmt.Errorf("stopped after %d redirects", maxRedirects)
				}
				return nil
			},
		},
	}
	p.chain = []tool{
		{name: "yt-dlp", invoke: p.toolInvoker("yt-dlp")},
		{name: "youtube-dl", invoke: p.toolInvoker("youtube-dl")},
	}
	return p
}

// Classify determines the source kind of a URL by hostname pattern.
func Classify(rawURL string) (Source, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", &InvalidURLError{URL: rawURL, Err: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &InvalidURLError{URL: rawURL, Err: errors.New("unsupported scheme")}
	}

	host := parsed.Hostname()
	if strings.Contains(host, "youtube.com") || strings.Contains(host, "youtu.be") {
		return SourceYouTube, nil
	}
	return SourceDirect, nil
}

// Fetch resolves rawURL into a local asset, classifying it first and
// then running either the direct HTTP path or the tool fallback chain.
func (p *Pipeline) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	source, err := Classify(rawURL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	var result *Result
	if source == SourceYouTube {
		result, err = p.fetchPlatform(ctx, rawURL)
	} else {
		result, err = p.fetchDirect(ctx, rawURL)
	}

	metrics.DownloadDuration.WithLabelValues(string(source)).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues(string(source), "error").Inc()
		return nil, err
	}
	metrics.DownloadsTotal.WithLabelValues(string(source), "success").Inc()
	return result, nil
}

// fetchDirect streams the URL to a local file. Direct downloads are
// assumed already container-compatible and skip normalization.
func (p *Pipeline) fetchDirect(ctx context.Context, rawURL string) (*Result, error) {
	filename := fmt.Sprintf("download-%d.mp4", time.Now().UnixMilli())
	path := filepath.Join(p.uploadDir, filename)

	if err := p.streamToFile(ctx, rawURL, path); err != nil {
		// Never leave a partial file behind.
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			logging.Warn("failed to remove partial download %s: %v", path, rmErr)
		}
		return nil, &Error{URL: rawURL, Err: err}
	}

	return &Result{Filename: filename, Path: path, Source: SourceDirect}, nil
}

func (p *Pipeline) streamToFile(ctx context.Context, rawURL, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Debug("failed to close response body for %s: %v", rawURL, err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}

	_, copyErr := io.Copy(file, resp.Body)
	closeErr := file.Close()
	if copyErr != nil {
		return copyErr
	}
	return closeErr
}

// fetchPlatform walks the tool chain in priority order; the first
// success wins and tools are never raced in parallel. The raw download
// is normalized into the final output slot and then deleted.
func (p *Pipeline) fetchPlatform(ctx context.Context, rawURL string) (*Result, error) {
	now := time.Now().UnixMilli()
	rawPath := filepath.Join(p.uploadDir, fmt.Sprintf("yt-raw-%d.mp4", now))
	filename := fmt.Sprintf("yt-%d.mp4", now)
	outputPath := filepath.Join(p.uploadDir, filename)

	downloaded := false
	for _, t := range p.chain {
		err := t.invoke(ctx, rawURL, rawPath)
		if err == nil {
			metrics.DownloadToolAttempts.WithLabelValues(t.name, "success").Inc()
			downloaded = true
			break
		}

		if command.IsToolUnavailable(err) {
			metrics.DownloadToolAttempts.WithLabelValues(t.name, "unavailable").Inc()
			logging.Info("%s not available, trying next tool", t.name)
		} else {
			metrics.DownloadToolAttempts.WithLabelValues(t.name, "error").Inc()
			logging.Warn("%s failed: %v", t.name, err)
		}
		removeIfExists(rawPath)
	}

	if !downloaded {
		return nil, &NoToolError{Hint: InstallHint}
	}

	if err := p.normalizer.Normalize(ctx, rawPath, outputPath); err != nil {
		removeIfExists(rawPath)
		return nil, err
	}

	// The degrade policy may already have renamed raw into the output
	// slot; a missing raw file here is normal.
	removeIfExists(rawPath)

	return &Result{Filename: filename, Path: outputPath, Source: SourceYouTube}, nil
}

func (p *Pipeline) toolInvoker(program string) func(ctx context.Context, rawURL, rawPath string) error {
	return func(ctx context.Context, rawURL, rawPath string) error {
		_, err := p.runner.Run(ctx, command.Spec{
			Program: program,
			Args: []string{
				"-f", qualitySelector,
				"-o", rawPath,
				"--no-playlist",
				rawURL,
			},
		})
		return err
	}
}

func removeIfExists(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logging.Warn("failed to remove %s: %v", path, err)
	}
}
