package router

import (
	"log/slog"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/handlers"
	customMiddleware "github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/middleware"
)

// NewRouter creates and configures the Chi router
func NewRouter(services *core.Services, requestTimeout time.Duration, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(customMiddleware.RecoveryMiddleware(logger))
	r.Use(customMiddleware.LoggingMiddleware(logger))
	r.Use(customMiddleware.TimeoutMiddleware(requestTimeout))

	reportHandlers := handlers.NewReportHandlers(services.Analyzer, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/namespaces/{namespace}/report", reportHandlers.GetNamespaceReport)
	})

	// Health checks
	r.Get("/healthz", handlers.HandleHealth)
	r.Get("/readyz", handlers.Readiness(services.Metrics))

	return r
}
