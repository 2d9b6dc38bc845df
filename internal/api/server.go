// Package api exposes the orchestration engine over HTTP: project
// bootstrap, the chat endpoint, and operational surfaces (health,
// metrics).
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bazaar-it/bazaar-sub004/internal/orchestrator"
	"github.com/bazaar-it/bazaar-sub004/internal/store"
)

type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
}

type ServerConfig struct {
	Addr         string
	Orchestrator *orchestrator.Orchestrator
	Store        store.Store
	Logger       *zap.Logger
	StartTime    time.Time
	Version      string
}

func NewServer(cfg ServerConfig) *Server {
	router := NewRouter(cfg)

	return &Server{
		httpServer: &http.Server{
			Addr:        cfg.Addr,
			Handler:     router,
			ReadTimeout: 15 * time.Second,
			// Chat turns run the full generation pipeline; no write
			// timeout so slow model calls aren't cut off mid-response.
			WriteTimeout: 0,
			IdleTimeout:  60 * time.Second,
		},
		logger: cfg.Logger,
	}
}

func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	err := s.httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}
