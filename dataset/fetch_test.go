package dataset

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
)

type stubConnection struct {
	status int
	body   string

	requested *url.URL
}

func (c *stubConnection) Request(endpoint *url.URL) (*http.Response, error) {
	c.requested = endpoint
	return &http.Response{
		StatusCode: c.status,
		Status:     http.StatusText(c.status),
		Body:       io.NopCloser(bytes.NewBufferString(c.body)),
	}, nil
}

func TestFetchWorkbook_WritesTheDestination(t *testing.T) {
	conn := &stubConnection{status: http.StatusOK, body: "workbook bytes"}
	f := &Fetcher{connection: conn}

	dest := filepath.Join(t.TempDir(), "downloads", "estimates.xlsx")
	if err := f.FetchWorkbook("/sites/default/files/estimates.xlsx", dest); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	raw, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.AssertAreEqual(t, "downloaded content", "workbook bytes", string(raw))
	ex.AssertAreEqual(t, "requested path", "/sites/default/files/estimates.xlsx", conn.requested.Path)
}

func TestFetchWorkbook_NonOKLeavesNoFile(t *testing.T) {
	conn := &stubConnection{status: http.StatusNotFound}
	f := &Fetcher{connection: conn}

	dest := filepath.Join(t.TempDir(), "estimates.xlsx")
	if err := f.FetchWorkbook("/missing.xlsx", dest); err == nil {
		t.Fatalf("expected an error for a missing workbook")
	}
	if _, err := os.Stat(dest); !os.IsNotExist(err) {
		t.Fatalf("expected no file at %s", dest)
	}
}
