// Package web serves a finished comparison report as a read-only JSON API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/spatial-dedupe/internal/config"
	"github.com/spatial-dedupe/internal/match"
	"github.com/spatial-dedupe/internal/report"
	"github.com/spatial-dedupe/internal/runlog"
)

// Server answers queries against the match records of a finished run. The
// report is loaded once at startup; the API never mutates it.
type Server struct {
	cfg        config.WebConfig
	log        *runlog.Logger
	records    []match.Record
	byKey      map[string]match.Record
	httpServer *http.Server
	router     *mux.Router
}

// NewServer loads the report at reportPath and prepares the API routes.
func NewServer(cfg config.WebConfig, reportPath string, log *runlog.Logger) (*Server, error) {
	records, err := report.ReadFile(reportPath)
	if err != nil {
		return nil, err
	}

	byKey := make(map[string]match.Record, len(records))
	for _, rec := range records {
		byKey[rec.SurrogateKey] = rec
	}

	s := &Server{cfg: cfg, log: log, records: records, byKey: byKey}
	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router = mux.NewRouter()

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
	api.HandleFunc("/stats", s.handleStats).Methods("GET")
	api.HandleFunc("/matches", s.handleListMatches).Methods("GET")
	api.HandleFunc("/matches/{key}", s.handleGetMatch).Methods("GET")

	s.router.Use(cors())
	s.router.Use(s.requestLogging())
}

// Handler returns the configured router.
func (s *Server) Handler() http.Handler { return s.router }

// Start runs the server until an interrupt or termination signal arrives,
// then shuts it down gracefully.
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		s.log.Infof("serving %d matches on http://%s", len(s.records), s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Errorf("server error: %v", err)
		}
	}()

	<-stop
	s.log.Infof("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	s.log.Infof("server stopped")
	return nil
}
