package web

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

//go:embed static/*
var staticFS embed.FS

// Server is the loopback dashboard server. Start and Stop are idempotent; a
// port already in use logs a warning and leaves the rest of the process
// (store, sweeper, CLI) functional.
type Server struct {
	cfgDir string
	port   int

	mu  sync.Mutex
	srv *http.Server
}

// NewServer creates a stopped dashboard server. cfgDir is where the project
// list and cleanup policy are read from on every request.
func NewServer(cfgDir string, port int) *Server {
	return &Server{cfgDir: cfgDir, port: port}
}

// newMux builds the route table. Exposed for handler tests.
func newMux(cfgDir string) http.Handler {
	staticSub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// static assets are compiled in; failure here is a build defect
		panic(fmt.Sprintf("static sub-FS: %v", err))
	}

	h := &Handlers{cfgDir: cfgDir}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/projects", h.HandleProjects)
	mux.HandleFunc("GET /api/issues", h.HandleIssues)
	mux.HandleFunc("GET /api/issues/next", h.HandleNext)
	mux.HandleFunc("GET /api/issues/{id}", h.HandleIssueDetail)
	mux.HandleFunc("PATCH /api/issues/{id}", h.HandlePatchIssue)
	mux.HandleFunc("GET /screenshots", h.HandleScreenshot)

	// Dashboard UI
	mux.HandleFunc("GET /{$}", serveIndex(staticSub))
	mux.HandleFunc("GET /web", serveIndex(staticSub))
	mux.Handle("GET /web/", http.StripPrefix("/web/", http.FileServerFS(staticSub)))

	return corsMiddleware(staticGuard(mux))
}

// corsMiddleware sets permissive local CORS headers on every response and
// short-circuits preflight requests.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, PATCH, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// staticGuard rejects any request path that tries to climb out of the
// served tree. The embedded FS cannot be escaped, but the contract is an
// explicit 403, not a best-effort 404.
func staticGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "..") {
			http.Error(w, "Forbidden", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// serveIndex serves the dashboard entry page.
func serveIndex(staticSub fs.FS) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(staticSub, "index.html")
		if err != nil {
			http.Error(w, "Not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(data)
	}
}

// Start binds to 127.0.0.1 and begins serving. A second Start is a no-op.
// If the port is already bound the failure is logged and Start returns
// without error so the hosting process keeps running.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv != nil {
		return nil
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		logrus.WithField("addr", addr).WithError(err).Warn("dashboard port in use, server not started")
		return nil
	}

	srv := &http.Server{
		Addr:    addr,
		Handler: newMux(s.cfgDir),
	}
	s.srv = srv

	go func() {
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			logrus.WithError(err).Error("dashboard server error")
		}
	}()

	logrus.WithField("addr", "http://"+addr).Info("dashboard server running")
	return nil
}

// Stop shuts the server down. Stopping a stopped server is a no-op.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.srv.Shutdown(ctx)
	s.srv = nil
	return err
}
