package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/aggregate"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/classify"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/utilization"
	"github.com/sumandas0/k8s-resource-analyzer/internal/logging"
)

type analyzerService struct {
	k8sClient     kubernetes.Interface
	metricsClient metricsclientset.Interface
	detector      core.MetricsDetector
	classifier    *classify.Classifier
	exclusions    aggregate.Exclusions
	logger        *slog.Logger
	now           func() time.Time
}

func NewAnalyzerService(k8sClient kubernetes.Interface, metricsClient metricsclientset.Interface,
	detector core.MetricsDetector, cfg *config.Config, logger *slog.Logger) core.AnalyzerService {
	return &analyzerService{
		k8sClient:     k8sClient,
		metricsClient: metricsClient,
		detector:      detector,
		classifier:    classify.New(cfg.CompoundPrefixes),
		exclusions:    aggregate.NewExclusions(cfg.ExcludedContainers),
		logger:        logger,
		now:           time.Now,
	}
}

// Analyze runs one full pass over namespace. Connectivity and namespace
// problems are returned before anything is collected.
func (s *analyzerService) Analyze(ctx context.Context, namespace string) (*models.Report, error) {
	logger := logging.FromContextOr(ctx, s.logger).With("namespace", namespace)

	if err := s.validateNamespace(ctx, namespace); err != nil {
		return nil, err
	}

	mode := s.detector.Detect(ctx)
	logger.Debug("starting analysis", "mode", mode)

	report := &models.Report{
		Namespace:   namespace,
		Mode:        mode,
		GeneratedAt: s.now().UTC(),
	}

	c := newCollector(s.k8sClient, s.metricsClient, s.classifier, mode, logger)

	nodes, err := c.Nodes(ctx)
	if err != nil {
		return nil, err
	}
	report.Nodes = nodes
	report.Cluster = aggregate.Cluster(nodes)
	if mode.UsageAvailable() {
		report.Cluster.CPUPercentage = utilization.Percent(report.Cluster.CPUUsage.Value, report.Cluster.CPUAllocatable.Value)
		report.Cluster.MemoryPercentage = utilization.Percent(report.Cluster.MemoryUsage.Value, report.Cluster.MemoryAllocatable.Value)
	}

	pods, err := c.Pods(ctx, namespace)
	if err != nil {
		return nil, err
	}
	if len(pods) == 0 {
		logger.Info("namespace has no pods")
		report.EmptyNamespace = true
		report.Summary = aggregate.Namespace(namespace, nil)
		report.Warnings = c.warnings
		return report, nil
	}

	volumes, err := c.PersistentVolumes(ctx)
	if err != nil {
		return nil, err
	}
	report.PersistentVolumes = volumes
	report.StorageClasses = aggregate.StorageClasses(volumes)

	claims, err := c.Claims(ctx, namespace)
	if err != nil {
		return nil, err
	}
	report.Claims = claims

	aggregate.Pods(pods, s.exclusions)
	report.Status = summarizeStatus(pods)

	active := make([]models.PodResourceRecord, 0, len(pods))
	for _, pod := range pods {
		if isActive(pod) {
			active = append(active, pod)
		}
	}

	components := aggregate.Components(active)
	report.Summary = aggregate.Namespace(namespace, components)
	report.Summary.CPUShareOfCluster = utilization.Percent(report.Summary.Totals.CPURequest.Value, report.Cluster.CPUAllocatable.Value)
	report.Summary.MemoryShareOfCluster = utilization.Percent(report.Summary.Totals.MemoryRequest.Value, report.Cluster.MemoryAllocatable.Value)

	if mode.UsageAvailable() {
		for i := range active {
			active[i].Utilization = workloadUtilization(active[i].Totals)
		}
		for i := range components {
			components[i].Utilization = workloadUtilization(components[i].Totals)
		}
		report.Summary.Utilization = workloadUtilization(report.Summary.Totals)
	}

	report.Pods = active
	report.Components = components
	report.CompletedPods = len(pods) - len(active)
	report.Warnings = c.warnings

	logger.Info("analysis complete",
		"mode", mode,
		"pods", len(pods),
		"components", len(components),
		"warnings", len(report.Warnings))

	return report, nil
}

// validateNamespace doubles as the connectivity check. Listing namespaces also
// yields the alternatives offered when the namespace does not exist; users who
// may not list namespaces fall back to a direct lookup.
func (s *analyzerService) validateNamespace(ctx context.Context, namespace string) error {
	list, err := s.k8sClient.CoreV1().Namespaces().List(ctx, metav1.ListOptions{})
	if err != nil {
		if !errors.IsForbidden(err) {
			return fmt.Errorf("%w: %v", core.ErrClusterUnreachable, err)
		}

		_, err = s.k8sClient.CoreV1().Namespaces().Get(ctx, namespace, metav1.GetOptions{})
		switch {
		case err == nil, errors.IsForbidden(err):
			return nil
		case errors.IsNotFound(err):
			return &core.NamespaceNotFoundError{Namespace: namespace}
		default:
			return fmt.Errorf("%w: %v", core.ErrClusterUnreachable, err)
		}
	}

	available := make([]string, 0, len(list.Items))
	for _, ns := range list.Items {
		if ns.Name == namespace {
			return nil
		}
		available = append(available, ns.Name)
	}
	sort.Strings(available)

	return &core.NamespaceNotFoundError{Namespace: namespace, Available: available}
}

func workloadUtilization(t models.ResourceTotals) models.Utilization {
	cpuOfRequest := utilization.Percent(t.CPUUsage.Value, t.CPURequest.Value)
	memoryOfRequest := utilization.Percent(t.MemoryUsage.Value, t.MemoryRequest.Value)

	return models.Utilization{
		CPUOfRequest:    cpuOfRequest,
		CPUOfLimit:      utilization.Percent(t.CPUUsage.Value, t.CPULimit.Value),
		MemoryOfRequest: memoryOfRequest,
		MemoryOfLimit:   utilization.Percent(t.MemoryUsage.Value, t.MemoryLimit.Value),
		CPUBand:         utilization.CPUBand(cpuOfRequest),
		MemoryBand:      utilization.MemoryBand(memoryOfRequest),
	}
}
