package export

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewPreviewServer(t *testing.T) {
	server := NewPreviewServer("/tmp/test", 8080, nil)

	if server == nil {
		t.Fatal("NewPreviewServer returned nil")
	}
	if server.bundlePath != "/tmp/test" {
		t.Errorf("Expected bundlePath '/tmp/test', got %s", server.bundlePath)
	}
	if server.Port() != 8080 {
		t.Errorf("Expected port 8080, got %d", server.Port())
	}
	if server.URL() != "http://localhost:8080" {
		t.Errorf("Expected URL http://localhost:8080, got %s", server.URL())
	}
	if server.logger == nil {
		t.Error("Expected a discard logger when nil is passed")
	}
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(19000, 19100)
	if err != nil {
		t.Fatalf("FindAvailablePort failed: %v", err)
	}
	if port < 19000 || port > 19100 {
		t.Errorf("Port %d is outside expected range 19000-19100", port)
	}
}

func TestDefaultPreviewConfig(t *testing.T) {
	config := DefaultPreviewConfig()

	if config.Port != 0 {
		t.Errorf("Expected Port 0 (auto-select), got %d", config.Port)
	}
	if !config.OpenBrowser {
		t.Error("Expected OpenBrowser to be true")
	}
}

func TestPreviewServer_Run_MissingIndex(t *testing.T) {
	tests := []struct {
		name string
		path string
	}{
		{"missing bundle", "/nonexistent/path/12345"},
		{"empty bundle", t.TempDir()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := NewPreviewServer(tt.path, 0, nil)
			if err := server.Run(context.Background()); err == nil {
				t.Error("Expected error for bundle without index.html")
			}
		})
	}
}

func TestPreviewServer_Handler(t *testing.T) {
	dir := t.TempDir()
	if err := WriteBundle(dir, sampleScene(t), DefaultStyle()); err != nil {
		t.Fatalf("WriteBundle: %v", err)
	}
	srv := httptest.NewServer(NewPreviewServer(dir, 0, nil).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET /: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get("Pragma") != "no-cache" {
		t.Errorf("Expected Pragma: no-cache, got %s", resp.Header.Get("Pragma"))
	}
	if !strings.Contains(string(body), BundleChart) {
		t.Errorf("index does not reference %s:\n%s", BundleChart, body)
	}

	resp, err = http.Get(srv.URL + "/" + BundleChart)
	if err != nil {
		t.Fatalf("GET chart: %v", err)
	}
	chart, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if !strings.Contains(string(chart), "<svg") {
		t.Error("chart.svg is not an svg document")
	}

	resp, err = http.Get(srv.URL + "/__preview__/status")
	if err != nil {
		t.Fatalf("GET status: %v", err)
	}
	defer resp.Body.Close()
	var st previewStatus
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if st.Status != "running" || !st.HasIndex || st.FileCount != 2 || st.ChartBytes == 0 {
		t.Errorf("unexpected status %+v", st)
	}
}

func TestPreviewServer_RunStopsOnCancel(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, BundleIndex), []byte("<html></html>"), 0o644); err != nil {
		t.Fatal(err)
	}
	port, err := FindAvailablePort(19060, 19080)
	if err != nil {
		t.Fatalf("Failed to find available port: %v", err)
	}

	server := NewPreviewServer(dir, port, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.Run(ctx) }()

	var resp *http.Response
	for i := 0; i < 50; i++ {
		resp, err = http.Get(server.URL())
		if err == nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("server never came up: %v", err)
	}
	resp.Body.Close()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNoCacheMiddleware(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("test"))
	})
	handler := noCacheMiddleware(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Header().Get("Cache-Control") == "" {
		t.Error("Expected Cache-Control header")
	}
	if rec.Header().Get("Pragma") != "no-cache" {
		t.Errorf("Expected Pragma: no-cache, got %s", rec.Header().Get("Pragma"))
	}
	if rec.Header().Get("Expires") != "0" {
		t.Errorf("Expected Expires: 0, got %s", rec.Header().Get("Expires"))
	}
}

func TestNoCacheMiddleware_OPTIONS(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("Inner handler should not be called for OPTIONS")
	})
	handler := noCacheMiddleware(inner)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("Expected status 200 for OPTIONS, got %d", rec.Code)
	}
}
