package export

// Local preview of an exported chart bundle. Every response is uncached so a
// re-export shows up on reload.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

// PreviewPortRangeStart and PreviewPortRangeEnd bound the auto-selected port.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewServer serves a chart bundle locally for previewing.
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
	logger     *log.Logger
}

// NewPreviewServer creates a new preview server for the given bundle.
func NewPreviewServer(bundlePath string, port int, logger *log.Logger) *PreviewServer {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &PreviewServer{
		bundlePath: bundlePath,
		port:       port,
		logger:     logger,
	}
}

// Handler returns the bundle file server with the status endpoint.
func (p *PreviewServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(p.bundlePath))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	return mux
}

// Run serves the bundle until ctx is cancelled, then shuts down gracefully.
func (p *PreviewServer) Run(ctx context.Context) error {
	if _, err := os.Stat(filepath.Join(p.bundlePath, BundleIndex)); err != nil {
		return fmt.Errorf("no %s in bundle %s: %w", BundleIndex, p.bundlePath, err)
	}

	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", p.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	if p.port == 0 {
		p.port = ln.Addr().(*net.TCPAddr).Port
	}
	p.server = &http.Server{
		Handler:           p.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := p.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	p.logger.Info("preview server running", "url", p.URL(), "bundle", p.bundlePath)

	select {
	case <-ctx.Done():
		p.logger.Info("shutting down preview server")
		return p.Stop()
	case err := <-errCh:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	if p.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// Port returns the port the server is running on.
func (p *PreviewServer) Port() int {
	return p.port
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// previewStatus is the JSON body of /__preview__/status.
type previewStatus struct {
	Status     string    `json:"status"`
	Port       int       `json:"port"`
	BundlePath string    `json:"bundle_path"`
	HasIndex   bool      `json:"has_index"`
	FileCount  int       `json:"file_count"`
	ChartBytes int64     `json:"chart_bytes"`
	ChartTime  time.Time `json:"chart_modified,omitzero"`
}

func (p *PreviewServer) statusHandler(w http.ResponseWriter, _ *http.Request) {
	st := previewStatus{Status: "running", Port: p.port, BundlePath: p.bundlePath}
	if _, err := os.Stat(filepath.Join(p.bundlePath, BundleIndex)); err == nil {
		st.HasIndex = true
	}
	if info, err := os.Stat(filepath.Join(p.bundlePath, BundleChart)); err == nil {
		st.ChartBytes = info.Size()
		st.ChartTime = info.ModTime().UTC()
	}
	_ = filepath.WalkDir(p.bundlePath, func(_ string, d os.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			st.FileCount++
		}
		return nil
	})

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	_ = json.NewEncoder(w).Encode(st)
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")

		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, HEAD, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// PreviewConfig configures the preview server.
type PreviewConfig struct {
	// BundlePath is the directory holding index.html and chart.svg
	BundlePath string

	// Port is the port to serve on (0 for auto-select)
	Port int

	// OpenBrowser determines whether to auto-open a browser
	OpenBrowser bool

	Logger *log.Logger
}

// DefaultPreviewConfig returns sensible defaults for preview configuration.
func DefaultPreviewConfig() PreviewConfig {
	return PreviewConfig{
		Port:        0,
		OpenBrowser: true,
	}
}

// StartPreview serves cfg.BundlePath until ctx is cancelled.
func StartPreview(ctx context.Context, cfg PreviewConfig) error {
	port := cfg.Port
	if port == 0 {
		var err error
		port, err = FindAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
		if err != nil {
			return fmt.Errorf("could not find available port: %w", err)
		}
	}

	server := NewPreviewServer(cfg.BundlePath, port, cfg.Logger)
	if cfg.OpenBrowser {
		go func() {
			select {
			case <-ctx.Done():
				return
			case <-time.After(500 * time.Millisecond):
			}
			if err := OpenInBrowser(server.URL()); err != nil {
				server.logger.Warn("could not open browser", "url", server.URL(), "err", err)
			}
		}()
	}
	return server.Run(ctx)
}
