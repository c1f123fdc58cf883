package source

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// DownloaderOptions configures the bulk dataset downloader.
type DownloaderOptions struct {
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
	// RequestsPerSecond throttles against the upstream host. Zero means
	// the default of 2 rps.
	RequestsPerSecond float64
}

// Downloader fetches a bulk ESG dataset over HTTP with retry and rate
// limiting, writing it to the local data directory for later loads.
type Downloader struct {
	client  *http.Client
	limiter *rate.Limiter
	opts    DownloaderOptions
}

// NewDownloader creates a Downloader with sane defaults filled in.
func NewDownloader(opts DownloaderOptions) *Downloader {
	if opts.Timeout == 0 {
		opts.Timeout = 60 * time.Second
	}
	if opts.MaxRetries == 0 {
		opts.MaxRetries = 3
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "esg-explorer/1.0"
	}
	rps := opts.RequestsPerSecond
	if rps == 0 {
		rps = 2
	}
	return &Downloader{
		client:  &http.Client{Timeout: opts.Timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		opts:    opts,
	}
}

// Download fetches url into destPath, creating parent directories as
// needed. Transient failures retry with linear backoff; a response that
// never succeeds surfaces as an UnavailableError so callers can fall back.
func (d *Downloader) Download(ctx context.Context, url, destPath string) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return eris.Wrap(err, "download: create data dir")
	}

	var lastErr error
	for attempt := 0; attempt < d.opts.MaxRetries; attempt++ {
		if err := d.limiter.Wait(ctx); err != nil {
			return eris.Wrap(err, "download: rate limiter wait")
		}

		if err := d.fetchOnce(ctx, url, destPath); err != nil {
			lastErr = err
			zap.L().Warn("download failed, retrying",
				zap.String("url", url),
				zap.Int("attempt", attempt+1),
				zap.Error(err),
			)
			select {
			case <-ctx.Done():
				return eris.Wrap(ctx.Err(), "download: cancelled")
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
			continue
		}

		zap.L().Info("dataset downloaded",
			zap.String("url", url),
			zap.String("dest", destPath),
		)
		return nil
	}

	return &UnavailableError{Kind: KindFile, Locator: url, Err: lastErr}
}

func (d *Downloader) fetchOnce(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return eris.Wrap(err, "download: build request")
	}
	req.Header.Set("User-Agent", d.opts.UserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return eris.Wrap(err, "download: request")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eris.Errorf("download: unexpected status %d", resp.StatusCode)
	}

	tmp := destPath + ".partial"
	f, err := os.Create(tmp)
	if err != nil {
		return eris.Wrap(err, "download: create temp file")
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(tmp)
		return eris.Wrap(err, "download: write body")
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return eris.Wrap(err, "download: close temp file")
	}

	return os.Rename(tmp, destPath)
}
