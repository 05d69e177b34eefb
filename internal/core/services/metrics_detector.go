package services

import (
	"context"
	"fmt"
	"log/slog"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
)

// metricsDetector implements the MetricsDetector interface
type metricsDetector struct {
	metricsClient metricsclientset.Interface
	logger        *slog.Logger
}

// NewMetricsDetector creates a new MetricsDetector instance
func NewMetricsDetector(metricsClient metricsclientset.Interface, logger *slog.Logger) core.MetricsDetector {
	return &metricsDetector{
		metricsClient: metricsClient,
		logger:        logger,
	}
}

// Detect checks if the metrics server is available
func (d *metricsDetector) Detect(ctx context.Context) models.Mode {
	if d.metricsClient == nil {
		d.logger.Warn("metrics client not configured, usage columns will be omitted", "error", core.ErrMetricsNotAvailable)
		return models.ModeUnavailable
	}

	// Try to list metrics to check availability
	_, err := d.metricsClient.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{Limit: 1})
	if err != nil {
		d.logger.Warn("metrics API not available, usage columns will be omitted", "error", metricsUnavailable(err))
		return models.ModeUnavailable
	}

	d.logger.Debug("metrics API available")
	return models.ModeAvailable
}

// metricsUnavailable tags a metrics.k8s.io failure with ErrMetricsNotAvailable
func metricsUnavailable(err error) error {
	return fmt.Errorf("%w: %v", core.ErrMetricsNotAvailable, err)
}
