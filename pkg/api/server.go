// Package api cardazim REST API
//
// @title           cardazim REST API
// @version         1.0.0
// @description     Browse, solve and fetch the cards received by a cardazim collector.
// @host            localhost:9200
// @BasePath        /api/v1
//
// @securityDefinitions.apikey ApiKeyAuth
// @in              header
// @name            X-API-Key
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the HTTP handler with all routes configured. Metrics
// are exposed from gatherer at /metrics.
func NewRouter(server *Server, gatherer prometheus.Gatherer) http.Handler {
	metrics := server.metrics

	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(requestLogger(server.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Prometheus metrics endpoint (unprotected for scraping)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		if server.config.APIKey != "" {
			r.Use(apiKeyMiddleware(server.config.APIKey, metrics))
		}

		// Health check
		r.Get("/health", metrics.InstrumentHandler("GET", "/api/v1/health", server.handleHealth))

		// Cards
		r.Get("/cards", metrics.InstrumentHandler("GET", "/api/v1/cards", server.handleListCards))
		r.Get("/cards/{id}", metrics.InstrumentHandler("GET", "/api/v1/cards/{id}", server.handleGetCard))
		r.Delete("/cards/{id}", metrics.InstrumentHandler("DELETE", "/api/v1/cards/{id}", server.handleDeleteCard))
		r.Post("/cards/{id}/solve", metrics.InstrumentHandler("POST", "/api/v1/cards/{id}/solve", server.handleSolveCard))
		r.Get("/cards/{id}/image", metrics.InstrumentHandler("GET", "/api/v1/cards/{id}/image", server.handleCardImage))
	})

	return r
}

// StartServer serves the API on config.Bind and config.Port until ctx is
// cancelled, then shuts down gracefully.
func StartServer(ctx context.Context, store CardStore, config ServerConfig, logger *logrus.Logger, registry *prometheus.Registry) error {
	server := NewServer(store, config, NewMetrics(registry), logger)
	handler := NewRouter(server, registry)

	addr := net.JoinHostPort(config.Bind, strconv.Itoa(config.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on API address %s: %w", addr, err)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.WithField("addr", listener.Addr().String()).Info("starting cardazim REST API server")
	if config.APIKey == "" {
		logger.Warn("API key not set, the REST API is unauthenticated")
	}

	if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
