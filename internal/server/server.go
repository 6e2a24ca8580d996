// Package server exposes the REST API surface for the ai-news-chart
// backend.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/portlandmobile/ai-news-chart/internal/app"
	"github.com/portlandmobile/ai-news-chart/internal/common"
)

// Server wraps the HTTP server and application reference.
type Server struct {
	app    *app.App
	server *http.Server
	logger *common.Logger
}

// NewServer creates a new HTTP REST API server.
func NewServer(a *app.App) *Server {
	s := &Server{
		app:    a,
		logger: a.Logger,
	}

	mux := http.NewServeMux()
	s.registerRoutes(mux)

	handler := applyMiddleware(mux, a.Logger)

	s.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", a.Config.Server.Host, a.Config.Server.Port),
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// registerRoutes sets up all REST API routes on the mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	// System
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/version", s.handleVersion)

	// Price data
	mux.HandleFunc("/api/stock-data", s.handleStockData)
	mux.HandleFunc("/api/historic-price", s.handleHistoricPrice)
	mux.HandleFunc("/api/stock-chart", s.handleStockChart)

	// News
	mux.HandleFunc("/api/stock-news", s.handleStockNews)
	mux.HandleFunc("/api/stock-news-tt", s.handleStockNews)

	// Search
	mux.HandleFunc("/api/search-stocks", s.handleSearchStocks)
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server (blocking).
func (s *Server) Start() error {
	s.logger.Info().
		Str("addr", s.server.Addr).
		Msg("Starting REST API server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
