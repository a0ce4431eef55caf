package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"testplanner/internal/config"
	"testplanner/pkg/logging"
)

const (
	// DefaultReadHeaderTimeout is the default timeout for reading request headers.
	DefaultReadHeaderTimeout = 10 * time.Second
	// DefaultWriteTimeout is the default timeout for writing responses.
	DefaultWriteTimeout = 120 * time.Second
	// DefaultIdleTimeout is the default idle timeout for keepalive connections.
	DefaultIdleTimeout = 120 * time.Second

	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
)

// Server exposes the REST API and, optionally, the MCP endpoint.
type Server struct {
	cfg        config.ServerConfig
	mcpHandler http.Handler
	httpServer *http.Server
}

// New creates a server. mcpHandler may be nil, in which case /mcp is not mounted.
func New(cfg config.ServerConfig, mcpHandler http.Handler) *Server {
	s := &Server{cfg: cfg, mcpHandler: mcpHandler}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Handler:           s.CreateMux(),
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		WriteTimeout:      DefaultWriteTimeout,
		IdleTimeout:       DefaultIdleTimeout,
	}
	return s
}

// Addr is the address the server listens on.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// CreateMux builds the route table.
func (s *Server) CreateMux() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	mux.HandleFunc("GET /api/v1/test-plans", handleListTestPlans)
	mux.HandleFunc("POST /api/v1/test-plans", handleCreateTestPlan)
	mux.HandleFunc("GET /api/v1/test-plans/{id}", handleGetTestPlan)
	mux.HandleFunc("DELETE /api/v1/test-plans/{id}", handleDeleteTestPlan)
	mux.HandleFunc("POST /api/v1/test-plans/{id}/execute", handleExecuteTestPlan)

	mux.HandleFunc("GET /api/v1/mappings", handleListMappings)
	mux.HandleFunc("POST /api/v1/mappings", handleCreateMapping)
	mux.HandleFunc("GET /api/v1/mappings/{id}", handleGetMapping)
	mux.HandleFunc("PUT /api/v1/mappings/{id}", handleUpdateMapping)
	mux.HandleFunc("DELETE /api/v1/mappings/{id}", handleDeleteMapping)

	mux.HandleFunc("GET /api/v1/credentials", handleListCredentials)
	mux.HandleFunc("POST /api/v1/credentials", handleAddCredentials)
	mux.HandleFunc("DELETE /api/v1/credentials/{name}", handleDeleteCredentials)

	mux.HandleFunc("GET /api/v1/test-execution-results", handleQueryResults)

	if s.mcpHandler != nil {
		mux.Handle("/mcp", s.mcpHandler)
		logging.Info("HTTPServer", "Mounted MCP endpoint at /mcp")
	}

	return logRequests(mux)
}

// Start listens until Shutdown is called. It returns nil after a clean shutdown.
func (s *Server) Start() error {
	logging.Info("HTTPServer", "Listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logging.Debug("HTTPServer", "%s %s -> %d (%s)", r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}
