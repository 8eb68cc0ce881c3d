package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-cleanhttp"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/releasewatch/domain"
)

// DefaultDownloadTimeout bounds a single artifact download. Release assets
// can be large, so this is deliberately generous.
const DefaultDownloadTimeout = 15 * time.Minute

// HTTPDownloader streams remote files onto the store's filesystem.
type HTTPDownloader struct {
	client *http.Client
	fs     billy.Filesystem
}

var _ domain.Downloader = (*HTTPDownloader)(nil)

// NewHTTPDownloader creates a downloader writing below the given filesystem
// root. A zero timeout falls back to DefaultDownloadTimeout.
func NewHTTPDownloader(fs billy.Filesystem, timeout time.Duration) *HTTPDownloader {
	if timeout <= 0 {
		timeout = DefaultDownloadTimeout
	}
	return &HTTPDownloader{
		client: &http.Client{
			Transport: cleanhttp.DefaultPooledTransport(),
			Timeout:   timeout,
		},
		fs: fs,
	}
}

// Fetch downloads url to dest by streamed GET. A partial file left behind by
// a failed transfer is overwritten on the next attempt.
func (d *HTTPDownloader) Fetch(ctx context.Context, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request for %q: %w", url, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("failed to download %q: unexpected status %s", url, resp.Status)
	}

	file, err := d.fs.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dest, err)
	}
	defer file.Close()

	if _, err = io.Copy(file, resp.Body); err != nil {
		return fmt.Errorf("failed to write %q: %w", dest, err)
	}

	logger.Infof("Downloaded: %s", dest)
	return nil
}
