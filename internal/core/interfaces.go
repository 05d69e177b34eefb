package core

import (
	"context"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
)

type MetricsDetector interface {
	// Detect queries the metrics API once; it never returns an error because
	// an unreachable metrics API only degrades the report.
	Detect(ctx context.Context) models.Mode
}

type AnalyzerService interface {
	Analyze(ctx context.Context, namespace string) (*models.Report, error)
}

type Services struct {
	Analyzer AnalyzerService
	Metrics  MetricsDetector
}
