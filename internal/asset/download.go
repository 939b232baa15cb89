package asset

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/psantana5/encoder-quality/internal/logging"
	"github.com/psantana5/encoder-quality/internal/retry"
)

// Downloader fetches the source files of an asset list into the resources
// directory, a bounded number at a time.
type Downloader struct {
	// Jobs is the number of parallel downloads. Values below 1 mean 1.
	Jobs int
	// Retries is how many times a failed transfer is retried with backoff.
	Retries int
	// Verify skips assets whose existing file already matches its checksum.
	Verify bool
	// Client defaults to a client with a generous transfer timeout.
	Client *http.Client
	// Out receives progress lines; defaults to os.Stdout.
	Out io.Writer
	// Log receives diagnostics; defaults to an INFO logger.
	Log *logging.Logger
}

func (d *Downloader) client() *http.Client {
	if d.Client != nil {
		return d.Client
	}
	return &http.Client{Timeout: 30 * time.Minute}
}

func (d *Downloader) out() io.Writer {
	if d.Out != nil {
		return d.Out
	}
	return os.Stdout
}

func (d *Downloader) log() *logging.Logger {
	if d.Log != nil {
		return d.Log
	}
	return logging.NewLogger(logging.INFO, false)
}

// DownloadList fetches every asset of list into
// <resourcesDir>/<list name>/. All assets are attempted; any failure makes
// the whole call fail after the rest have drained.
func (d *Downloader) DownloadList(ctx context.Context, list *List, resourcesDir string) error {
	jobs := d.Jobs
	if jobs < 1 {
		jobs = 1
	}

	destDir := filepath.Join(resourcesDir, list.Name)
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("failed to create %s: %w", destDir, err)
	}

	fmt.Fprintf(d.out(), "Downloading test suite %s using %d parallel jobs\n", list.Name, jobs)

	sem := make(chan struct{}, jobs)
	var wg sync.WaitGroup
	var mu sync.Mutex
	failed := 0

	for _, a := range list.Assets {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			wg.Wait()
			return fmt.Errorf("download cancelled: %w", ctx.Err())
		}

		wg.Add(1)
		go func(a Asset) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := d.fetchAsset(ctx, a, destDir); err != nil {
				fmt.Fprintf(d.out(), "Error downloading: %v\n", err)
				mu.Lock()
				failed++
				mu.Unlock()
			}
		}(a)
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("some downloads failed (%d of %d)", failed, len(list.Assets))
	}
	fmt.Fprintln(d.out(), "All downloads finished")
	return nil
}

func (d *Downloader) fetchAsset(ctx context.Context, a Asset, destDir string) error {
	destPath := filepath.Join(destDir, sourceBase(a.Source))

	if d.Verify {
		if _, err := os.Stat(destPath); err == nil {
			sum, err := FileChecksum(destPath)
			if err == nil && sum == a.Checksum {
				d.log().Debug("Asset already present", map[string]interface{}{"asset": a.Name})
				return nil
			}
		}
	}

	fmt.Fprintf(d.out(), "\tDownloading asset %s to %s\n", a.Name, destDir)

	cfg := retry.DefaultConfig()
	cfg.MaxRetries = d.Retries
	err := retry.Do(ctx, cfg, func() error {
		return d.fetchOnce(ctx, a.Source, destPath)
	})
	if err != nil {
		return fmt.Errorf("unable to download %s to %s: %w", a.Source, destDir, err)
	}

	if a.Checksum != ChecksumSkip {
		sum, err := FileChecksum(destPath)
		if err != nil {
			return err
		}
		if sum != a.Checksum {
			return fmt.Errorf("checksum error for test vector %q: %q instead of %q", a.Name, sum, a.Checksum)
		}
	}
	return nil
}

func (d *Downloader) fetchOnce(ctx context.Context, source, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return err
	}

	resp, err := d.client().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	f, err := os.Create(destPath)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(destPath)
		return err
	}
	return f.Close()
}

// sourceBase extracts the destination filename from an asset source URL.
func sourceBase(source string) string {
	if u, err := url.Parse(source); err == nil && u.Path != "" {
		return path.Base(u.Path)
	}
	return path.Base(source)
}
