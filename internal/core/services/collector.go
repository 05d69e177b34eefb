package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	v1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes"
	metricsclientset "k8s.io/metrics/pkg/client/clientset/versioned"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/classify"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/utilization"
)

// collector turns raw cluster listings into canonical records. One collector
// serves one analysis run; the warnings it gathers belong to that run only.
type collector struct {
	k8sClient     kubernetes.Interface
	metricsClient metricsclientset.Interface
	classifier    *classify.Classifier
	mode          models.Mode
	logger        *slog.Logger
	warnings      []string
}

func newCollector(k8sClient kubernetes.Interface, metricsClient metricsclientset.Interface,
	classifier *classify.Classifier, mode models.Mode, logger *slog.Logger) *collector {
	return &collector{
		k8sClient:     k8sClient,
		metricsClient: metricsClient,
		classifier:    classifier,
		mode:          mode,
		logger:        logger,
	}
}

// warn records a recoverable problem in the report and the log
func (c *collector) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.warnings = append(c.warnings, msg)
	c.logger.Warn(msg)
}

func (c *collector) usageAvailable() bool {
	return c.mode.UsageAvailable() && c.metricsClient != nil
}

// Nodes returns one sample per node, sorted by name. Usage fields stay at
// zero when metrics are unavailable.
func (c *collector) Nodes(ctx context.Context) ([]models.NodeResourceSample, error) {
	nodes, err := c.k8sClient.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}

	var usage map[string]v1.ResourceList
	if c.usageAvailable() {
		usage, err = c.nodeUsage(ctx)
		if err != nil {
			c.warn("node metrics could not be read, node usage shown as zero: %v", err)
		}
	}

	samples := make([]models.NodeResourceSample, 0, len(nodes.Items))
	for i := range nodes.Items {
		node := &nodes.Items[i]
		sample := models.NodeResourceSample{
			Name:               node.Name,
			Ready:              isNodeReady(node),
			CPUAllocatable:     resourceOf(quantity.CPU, node.Status.Allocatable, v1.ResourceCPU),
			CPUUsage:           quantity.Zero(quantity.CPU),
			MemoryAllocatable:  resourceOf(quantity.Memory, node.Status.Allocatable, v1.ResourceMemory),
			MemoryUsage:        quantity.Zero(quantity.Memory),
			StorageCapacity:    resourceOf(quantity.Storage, node.Status.Capacity, v1.ResourceEphemeralStorage),
			StorageAllocatable: resourceOf(quantity.Storage, node.Status.Allocatable, v1.ResourceEphemeralStorage),
		}

		if usage != nil {
			if u, ok := usage[node.Name]; ok {
				sample.CPUUsage = resourceOf(quantity.CPU, u, v1.ResourceCPU)
				sample.MemoryUsage = resourceOf(quantity.Memory, u, v1.ResourceMemory)
				sample.CPUPercentage = utilization.Percent(sample.CPUUsage.Value, sample.CPUAllocatable.Value)
				sample.MemoryPercentage = utilization.Percent(sample.MemoryUsage.Value, sample.MemoryAllocatable.Value)
			} else {
				c.warn("no usage metrics reported for node %s", node.Name)
			}
		}

		samples = append(samples, sample)
	}

	sort.Slice(samples, func(i, j int) bool {
		return samples[i].Name < samples[j].Name
	})
	return samples, nil
}

func (c *collector) nodeUsage(ctx context.Context) (map[string]v1.ResourceList, error) {
	list, err := c.metricsClient.MetricsV1beta1().NodeMetricses().List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, metricsUnavailable(err)
	}
	usage := make(map[string]v1.ResourceList, len(list.Items))
	for _, m := range list.Items {
		usage[m.Name] = m.Usage
	}
	return usage, nil
}

// Pods returns one record per pod in namespace, sorted by name. Only regular
// containers are recorded; init containers have finished by the time a pod
// is running and would double count its footprint.
func (c *collector) Pods(ctx context.Context, namespace string) ([]models.PodResourceRecord, error) {
	pods, err := c.k8sClient.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list pods in namespace %s: %w", namespace, err)
	}

	var usage map[string]map[string]v1.ResourceList
	if c.usageAvailable() && len(pods.Items) > 0 {
		usage, err = c.podUsage(ctx, namespace)
		if err != nil {
			c.warn("pod metrics could not be read in namespace %s, pod usage shown as zero: %v", namespace, err)
		}
	}

	records := make([]models.PodResourceRecord, 0, len(pods.Items))
	for i := range pods.Items {
		pod := &pods.Items[i]
		record := models.PodResourceRecord{
			Name:            pod.Name,
			Namespace:       pod.Namespace,
			Component:       c.classifier.Classify(pod.Name),
			Node:            pod.Spec.NodeName,
			Phase:           string(pod.Status.Phase),
			TotalContainers: len(pod.Spec.Containers),
			Restarts:        totalRestarts(pod),
			WaitingReasons:  waitingReasons(pod),
			Containers:      make([]models.ContainerResources, 0, len(pod.Spec.Containers)),
			Totals:          models.NewResourceTotals(),
		}

		for _, status := range pod.Status.ContainerStatuses {
			if status.Ready {
				record.ReadyContainers++
			}
		}

		podUsage, hasUsage := usage[pod.Name]
		if usage != nil && !hasUsage && pod.Status.Phase == v1.PodRunning {
			c.warn("no usage metrics reported for pod %s", pod.Name)
		}

		for _, container := range pod.Spec.Containers {
			res := models.NewContainerResources(container.Name)
			res.CPURequest = resourceOf(quantity.CPU, container.Resources.Requests, v1.ResourceCPU)
			res.CPULimit = resourceOf(quantity.CPU, container.Resources.Limits, v1.ResourceCPU)
			res.MemoryRequest = resourceOf(quantity.Memory, container.Resources.Requests, v1.ResourceMemory)
			res.MemoryLimit = resourceOf(quantity.Memory, container.Resources.Limits, v1.ResourceMemory)
			if u, ok := podUsage[container.Name]; ok {
				res.CPUUsage = resourceOf(quantity.CPU, u, v1.ResourceCPU)
				res.MemoryUsage = resourceOf(quantity.Memory, u, v1.ResourceMemory)
			}
			record.Containers = append(record.Containers, res)
		}

		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// podUsage maps pod name to container name to usage
func (c *collector) podUsage(ctx context.Context, namespace string) (map[string]map[string]v1.ResourceList, error) {
	list, err := c.metricsClient.MetricsV1beta1().PodMetricses(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, metricsUnavailable(err)
	}
	usage := make(map[string]map[string]v1.ResourceList, len(list.Items))
	for _, m := range list.Items {
		containers := make(map[string]v1.ResourceList, len(m.Containers))
		for _, cm := range m.Containers {
			containers[cm.Name] = cm.Usage
		}
		usage[m.Name] = containers
	}
	return usage, nil
}

// Claims returns the namespace's PersistentVolumeClaims sorted by name. Bound
// claims report their actual capacity, pending ones their request.
func (c *collector) Claims(ctx context.Context, namespace string) ([]models.StorageVolumeRecord, error) {
	claims, err := c.k8sClient.CoreV1().PersistentVolumeClaims(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to list persistent volume claims in namespace %s: %w", namespace, err)
	}

	records := make([]models.StorageVolumeRecord, 0, len(claims.Items))
	for i := range claims.Items {
		pvc := &claims.Items[i]
		capacity := resourceOf(quantity.Storage, pvc.Status.Capacity, v1.ResourceStorage)
		if _, ok := pvc.Status.Capacity[v1.ResourceStorage]; !ok {
			capacity = resourceOf(quantity.Storage, pvc.Spec.Resources.Requests, v1.ResourceStorage)
		}

		record := models.StorageVolumeRecord{
			Name:       pvc.Name,
			Namespace:  pvc.Namespace,
			Status:     string(pvc.Status.Phase),
			Capacity:   capacity,
			VolumeName: pvc.Spec.VolumeName,
		}
		if pvc.Spec.StorageClassName != nil {
			record.StorageClass = *pvc.Spec.StorageClassName
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

// PersistentVolumes lists cluster-scoped volumes. A forbidden listing is not
// fatal for a namespace-scoped user; the storage section is then left empty.
func (c *collector) PersistentVolumes(ctx context.Context) ([]models.PersistentVolumeRecord, error) {
	volumes, err := c.k8sClient.CoreV1().PersistentVolumes().List(ctx, metav1.ListOptions{})
	if err != nil {
		if errors.IsForbidden(err) {
			c.warn("not allowed to list persistent volumes, cluster storage section skipped")
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list persistent volumes: %w", err)
	}

	records := make([]models.PersistentVolumeRecord, 0, len(volumes.Items))
	for i := range volumes.Items {
		pv := &volumes.Items[i]
		record := models.PersistentVolumeRecord{
			Name:         pv.Name,
			Status:       string(pv.Status.Phase),
			Capacity:     resourceOf(quantity.Storage, pv.Spec.Capacity, v1.ResourceStorage),
			StorageClass: pv.Spec.StorageClassName,
		}
		if ref := pv.Spec.ClaimRef; ref != nil {
			record.Claim = ref.Namespace + "/" + ref.Name
		}
		records = append(records, record)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Name < records[j].Name
	})
	return records, nil
}

func resourceOf(kind quantity.Kind, list v1.ResourceList, name v1.ResourceName) quantity.ResourceQuantity {
	q, ok := list[name]
	if !ok {
		return quantity.Zero(kind)
	}
	return quantity.FromQuantity(kind, q)
}

func isNodeReady(node *v1.Node) bool {
	for _, condition := range node.Status.Conditions {
		if condition.Type == v1.NodeReady {
			return condition.Status == v1.ConditionTrue
		}
	}
	return false
}

func totalRestarts(pod *v1.Pod) int32 {
	var restarts int32
	for _, status := range pod.Status.ContainerStatuses {
		restarts += status.RestartCount
	}
	for _, status := range pod.Status.InitContainerStatuses {
		restarts += status.RestartCount
	}
	return restarts
}

func waitingReasons(pod *v1.Pod) []string {
	var reasons []string
	statuses := append([]v1.ContainerStatus{}, pod.Status.InitContainerStatuses...)
	statuses = append(statuses, pod.Status.ContainerStatuses...)
	for _, status := range statuses {
		if status.State.Waiting != nil && status.State.Waiting.Reason != "" {
			reasons = append(reasons, status.State.Waiting.Reason)
		}
	}
	return reasons
}
