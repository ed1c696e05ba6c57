// Package server exposes the comparator engine over an HTTP/JSON API.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nico916/football-comparator/internal/config"
	"github.com/nico916/football-comparator/pkg/engine"
)

// Server holds the HTTP interface and the underlying Engine.
type Server struct {
	Engine *engine.Engine

	httpServer      *http.Server
	taskManager     *TaskManager
	authToken       string
	shutdownTimeout time.Duration

	schemas map[string]*jsonschema.Resolved
}

// NewServer initializes the HTTP server using an existing Engine.
// The Engine should already hold a snapshot; handlers answer 503 until it does.
func NewServer(eng *engine.Engine, cfg config.ServerConfig) (*Server, error) {
	schemas, err := buildSchemas()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Engine:          eng,
		taskManager:     NewTaskManager(),
		authToken:       cfg.AuthToken,
		shutdownTimeout: cfg.ShutdownTimeout,
		schemas:         schemas,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 5 * time.Second
	}

	s.httpServer = &http.Server{
		Addr:              cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

// Handler returns the full HTTP handler: public health and metrics routes,
// and the API behind Recovery -> Logging -> Auth.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerHTTPHandlers(mux)

	// Order matters: Recovery must be outer-most to catch everything.
	var handler http.Handler = mux
	handler = s.authMiddleware(handler)
	handler = s.LoggingMiddleware(handler)
	handler = s.RecoveryMiddleware(handler)

	rootMux := http.NewServeMux()
	rootMux.HandleFunc("GET /healthz", s.handleHealthz)
	rootMux.Handle("GET /metrics", promhttp.Handler())
	rootMux.Handle("/", handler)
	return rootMux
}

// Run starts the HTTP server and blocks until it stops.
func (s *Server) Run() error {
	log.Printf("HTTP server listening on %s", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server startup failed: %w", err)
	}
	return nil
}

// Shutdown stops the HTTP server and waits for running reload tasks.
// It does NOT close the Engine (main.go handles that).
func (s *Server) Shutdown() {
	log.Println("Starting graceful shutdown of HTTP Server...")

	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	s.taskManager.Wait()
}

func buildSchemas() (map[string]*jsonschema.Resolved, error) {
	neighbors, err := jsonschema.For[NeighborsRequest](nil)
	if err != nil {
		return nil, fmt.Errorf("neighbors schema: %w", err)
	}
	place, err := jsonschema.For[PlaceRequest](nil)
	if err != nil {
		return nil, fmt.Errorf("place schema: %w", err)
	}

	schemas := make(map[string]*jsonschema.Resolved, 2)
	for name, schema := range map[string]*jsonschema.Schema{"neighbors": neighbors, "place": place} {
		resolved, err := schema.Resolve(nil)
		if err != nil {
			return nil, fmt.Errorf("%s schema: %w", name, err)
		}
		schemas[name] = resolved
	}
	return schemas, nil
}
