// ABOUTME: Huma API server configuration and setup
// ABOUTME: Builds the chi router with CORS, logging, metrics and rate limiting in front of the Huma API

package api

import (
	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Lucasff16/arxiv-api-backend/api/handlers"
	"github.com/Lucasff16/arxiv-api-backend/api/middleware"
	"github.com/Lucasff16/arxiv-api-backend/core/interfaces"
)

const (
	apiTitle       = "arXiv Search API"
	apiVersion     = "1.0.0"
	apiDescription = "Searches the arXiv export API and serves results as JSON or as a streamed generate protocol"
)

// APIConfig holds configuration for the API
type APIConfig struct {
	Logger interfaces.Logger

	// RateLimit is the sustained requests per second per client; zero disables limiting
	RateLimit float64
	RateBurst int
}

// NewAPI creates and configures a new Huma API instance without middleware
func NewAPI() (huma.API, chi.Router) {
	router := chi.NewRouter()
	useCORS(router)

	api := humachi.New(router, newHumaConfig())
	return api, router
}

// NewAPIWithMiddleware creates a new API with middleware configured. The router also
// serves Prometheus metrics at /metrics.
func NewAPIWithMiddleware(cfg APIConfig) (huma.API, chi.Router) {
	router := chi.NewRouter()
	useCORS(router)

	if cfg.Logger != nil {
		router.Use(middleware.RequestLoggingMiddleware(cfg.Logger))
	}
	router.Use(middleware.MetricsMiddleware)

	if cfg.RateLimit > 0 && cfg.RateBurst > 0 {
		limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
		router.Use(middleware.RateLimitMiddleware(limiter))
	}

	router.Handle("/metrics", promhttp.Handler())

	api := humachi.New(router, newHumaConfig())
	return api, router
}

// useCORS installs the protocol CORS handler ahead of the general one so
// preflights on the protocol path get the protocol's exact headers.
func useCORS(router chi.Router) {
	router.Use(middleware.ProtocolCORS(handlers.ProtocolPath))
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Burst", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}

func newHumaConfig() huma.Config {
	config := huma.DefaultConfig(apiTitle, apiVersion)
	config.Info.Description = apiDescription
	return config
}
