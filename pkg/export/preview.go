package export

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
)

// Preview server port selection.
const (
	PreviewPortRangeStart = 9000
	PreviewPortRangeEnd   = 9100
)

// PreviewServer serves an exported bundle locally with no-cache
// headers so a rebuilt bundle shows up on refresh.
type PreviewServer struct {
	bundlePath string
	port       int
	server     *http.Server
	logger     *log.Logger
}

// NewPreviewServer creates a preview server for the given bundle.
// A port of 0 selects the first free port in the preview range.
func NewPreviewServer(bundlePath string, port int, logger *log.Logger) (*PreviewServer, error) {
	if _, err := os.Stat(filepath.Join(bundlePath, "index.html")); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index.html found in bundle: %s", bundlePath)
	}
	if port == 0 {
		var err error
		port, err = findAvailablePort(PreviewPortRangeStart, PreviewPortRangeEnd)
		if err != nil {
			return nil, err
		}
	}
	if logger == nil {
		logger = log.Default()
	}

	p := &PreviewServer{bundlePath: bundlePath, port: port, logger: logger}

	mux := http.NewServeMux()
	mux.Handle("/", noCacheMiddleware(http.FileServer(http.Dir(bundlePath))))
	mux.HandleFunc("/__preview__/status", p.statusHandler)
	p.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	return p, nil
}

// URL returns the full URL of the preview server.
func (p *PreviewServer) URL() string {
	return fmt.Sprintf("http://localhost:%d", p.port)
}

// Start serves until stopped, opening a browser shortly after startup
// when openBrowser is set. It blocks until an interrupt arrives or the
// server fails.
func (p *PreviewServer) Start(openBrowser bool) error {
	if openBrowser {
		go func() {
			time.Sleep(500 * time.Millisecond)
			if err := OpenInBrowser(p.URL()); err != nil {
				p.logger.Warn("could not open browser", "url", p.URL(), "err", err)
			}
		}()
	}

	p.logger.Info("preview server running", "url", p.URL(), "bundle", p.bundlePath)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	errChan := make(chan error, 1)

	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-stop:
		return p.Stop()
	case err := <-errChan:
		return err
	}
}

// Stop gracefully stops the preview server.
func (p *PreviewServer) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return p.server.Shutdown(ctx)
}

// statusHandler returns the preview server status as JSON.
func (p *PreviewServer) statusHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")

	var fileCount int
	filepath.Walk(p.bundlePath, func(path string, info os.FileInfo, err error) error {
		if err == nil && !info.IsDir() {
			fileCount++
		}
		return nil
	})

	fmt.Fprintf(w, `{"status":"running","port":%d,"bundle_path":%q,"file_count":%d}`,
		p.port, p.bundlePath, fileCount)
}

// noCacheMiddleware adds headers to prevent browser caching.
func noCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		w.Header().Set("Pragma", "no-cache")
		w.Header().Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// findAvailablePort finds an available port in the given range.
func findAvailablePort(start, end int) (int, error) {
	for port := start; port <= end; port++ {
		listener, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", start, end)
}

// OpenInBrowser opens the given URL in the default browser.
func OpenInBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
