package dataset

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// Where the estimates workbook is published.
const (
	DefaultHost       = "www.unaids.org"
	DefaultRemotePath = "/sites/default/files/media_asset/HIV_estimates_from_1990-to-present.xlsx"
)

type Connection interface {
	Request(endpoint *url.URL) (*http.Response, error)
}

type ClientHost struct {
	client *http.Client
	host   string
}

func (conn *ClientHost) Request(endpoint *url.URL) (*http.Response, error) {
	endpoint.Scheme = "https"
	endpoint.Host = conn.host
	return conn.client.Get(endpoint.String())
}

// Fetcher downloads the source workbook from a pinned host.
type Fetcher struct {
	connection Connection
}

func ClientFactory(host string, timeout time.Duration) *Fetcher {
	client := &http.Client{
		Timeout: timeout,
	}

	return &Fetcher{
		connection: &ClientHost{
			client: client,
			host:   host,
		},
	}
}

// FetchWorkbook downloads remotePath into dest, creating parent directories
// as needed. Any non-200 answer is an error; a partial download never
// replaces an existing file because the write goes through a temp file.
func (f *Fetcher) FetchWorkbook(remotePath, dest string) error {
	resp, err := f.connection.Request(&url.URL{Path: remotePath})
	if err != nil {
		return fmt.Errorf("error fetching workbook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("error fetching workbook: unexpected status %s", resp.Status)
	}

	if dir := filepath.Dir(dest); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("error creating workbook directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), "workbook-*.xlsx")
	if err != nil {
		return fmt.Errorf("error creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		return fmt.Errorf("error writing workbook: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("error closing workbook: %w", err)
	}

	return os.Rename(tmp.Name(), dest)
}
