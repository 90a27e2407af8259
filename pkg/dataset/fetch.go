// Package dataset provides the JSON dataset fetch capability used by the
// search engine's progressive loader, with file and HTTP backed fetchers.
package dataset

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// Fetcher retrieves a dataset by relative path and decodes it into v.
type Fetcher interface {
	Fetch(ctx context.Context, path string, v any) error
}

// FileFetcher reads datasets from a local directory.
type FileFetcher struct {
	Root string
}

// NewFileFetcher creates a fetcher rooted at dir.
func NewFileFetcher(dir string) *FileFetcher {
	return &FileFetcher{Root: dir}
}

// Fetch reads and decodes the JSON file at Root/path.
func (f *FileFetcher) Fetch(ctx context.Context, path string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full := filepath.Join(f.Root, filepath.FromSlash(path))
	data, err := os.ReadFile(full)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debugf("Loaded dataset %s (%d bytes)", path, len(data))
	return nil
}

// HTTPFetcher downloads datasets from a base URL.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewHTTPFetcher creates a fetcher for the given base URL with a default
// client timeout.
func NewHTTPFetcher(baseURL string) *HTTPFetcher {
	return &HTTPFetcher{
		BaseURL: baseURL,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch downloads and decodes the JSON document at BaseURL/path.
func (f *HTTPFetcher) Fetch(ctx context.Context, path string, v any) error {
	full, err := url.JoinPath(f.BaseURL, path)
	if err != nil {
		return fmt.Errorf("join url %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("%w: %s", ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	log.Debugf("Downloaded dataset %s", path)
	return nil
}
