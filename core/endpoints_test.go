package core

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	ex "github.com/RAFLYBOSENG/Sistem-Dinamis-Penyebaran-HIV/extensions"
)

func testServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(GetHttpServer(newTestService(), "").Handler)
	t.Cleanup(srv.Close)
	return srv
}

// noRedirectClient lets the handlers' redirects be asserted directly.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestEndpoints_HealthAndForm(t *testing.T) {
	srv := testServer(t)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "health status", http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := readBody(t, resp)
	ex.AssertAreEqual(t, "form status", http.StatusOK, resp.StatusCode)
	if !strings.Contains(body, `name="beta"`) {
		t.Errorf("form page is missing the beta field")
	}
	for _, kind := range []string{"none", "step", "impulse", "ramp", "sin"} {
		if !strings.Contains(body, `value="`+kind+`"`) {
			t.Errorf("form page is missing the %s signal option", kind)
		}
	}
}

func TestEndpoints_SimulateRecordsAndRedirects(t *testing.T) {
	srv := testServer(t)
	client := noRedirectClient()

	form := url.Values{}
	form.Set("beta", "0.3")
	form.Set("gamma", "0.1")
	form.Set("N", "1000000")
	form.Set("I0", "10")
	form.Set("days", "100")
	form.Set("signal_type", "step")
	form.Set("amp", "0.5")
	form.Set("step_time", "50")

	resp, err := client.PostForm(srv.URL+"/simulate", form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "simulate status", http.StatusSeeOther, resp.StatusCode)

	location := resp.Header.Get("Location")
	if !strings.HasPrefix(location, "/history/") {
		t.Fatalf("expected a redirect into history, got %q", location)
	}

	resp, err = http.Get(srv.URL + location)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := readBody(t, resp)
	ex.AssertAreEqual(t, "detail status", http.StatusOK, resp.StatusCode)
	if !strings.Contains(body, "Key result: infections peak at") {
		t.Errorf("detail page is missing the narrative summary")
	}

	resp, err = http.Get(srv.URL + location + "/plot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body = readBody(t, resp)
	ex.AssertAreEqual(t, "plot status", http.StatusOK, resp.StatusCode)
	if !strings.Contains(body, "u(t)") {
		t.Errorf("regenerated plot is missing the control series")
	}
}

func TestEndpoints_InvalidFormRedirectsWithError(t *testing.T) {
	srv := testServer(t)
	client := noRedirectClient()

	form := url.Values{}
	form.Set("N", "0")

	resp, err := client.PostForm(srv.URL+"/simulate", form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "simulate status", http.StatusSeeOther, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.AssertAreEqual(t, "redirect target", "/", location.Path)
	if !strings.Contains(location.Query().Get("error"), "invalid") {
		t.Errorf("expected an error message in the redirect, got %q", location.RawQuery)
	}
}

func TestEndpoints_EmptyHistoryAndUnknownIds(t *testing.T) {
	srv := testServer(t)
	client := noRedirectClient()

	resp, err := http.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body := readBody(t, resp)
	ex.AssertAreEqual(t, "history status", http.StatusOK, resp.StatusCode)
	if !strings.Contains(body, "No runs recorded yet.") {
		t.Errorf("expected the empty-history message")
	}

	resp, err = client.Get(srv.URL + "/history/no-such-id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "unknown detail status", http.StatusSeeOther, resp.StatusCode)
	ex.AssertAreEqual(t, "unknown detail redirect", "/history", resp.Header.Get("Location"))

	resp, err = http.Get(srv.URL + "/history/no-such-id/plot")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "unknown plot status", http.StatusNotFound, resp.StatusCode)
}

func TestEndpoints_RerunPrefillsTheForm(t *testing.T) {
	srv := testServer(t)
	client := noRedirectClient()

	form := url.Values{}
	form.Set("beta", "0.25")
	form.Set("days", "60")
	resp, err := client.PostForm(srv.URL+"/simulate", form)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	id := strings.TrimPrefix(resp.Header.Get("Location"), "/history/")

	resp, err = client.Get(srv.URL + "/rerun/" + id)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	ex.AssertAreEqual(t, "rerun status", http.StatusSeeOther, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ex.AssertAreEqual(t, "rerun target", "/", location.Path)
	ex.AssertAreEqual(t, "prefilled beta", "0.25", location.Query().Get("beta"))
	ex.AssertAreEqual(t, "prefilled days", "60", location.Query().Get("days"))
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("unexpected error reading the response body: %v", err)
	}
	return string(raw)
}
