package factory

import (
	"log/slog"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/services"
	"github.com/sumandas0/k8s-resource-analyzer/internal/kubernetes"
)

func NewServices(clients *kubernetes.Clients, cfg *config.Config, logger *slog.Logger) *core.Services {
	detector := services.NewMetricsDetector(clients.Metrics, logger)

	return &core.Services{
		Analyzer: services.NewAnalyzerService(clients.Kubernetes, clients.Metrics, detector, cfg, logger),
		Metrics:  detector,
	}
}
