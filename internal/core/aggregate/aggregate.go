// Package aggregate rolls canonical resource values up the cluster hierarchy:
// containers into pods, pods into components, components into a namespace, and
// nodes into the cluster. Inputs are summed in name order so the result does
// not depend on the order of the input slices.
package aggregate

import (
	"path"
	"sort"
	"strings"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"
)

// Exclusions is a set of container name patterns skipped before summation.
// Patterns use path.Match syntax, so "istio-*" is accepted.
type Exclusions []string

// NewExclusions drops blank entries from names
func NewExclusions(names []string) Exclusions {
	ex := make(Exclusions, 0, len(names))
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			ex = append(ex, n)
		}
	}
	return ex
}

// Excludes reports whether container matches any pattern
func (e Exclusions) Excludes(container string) bool {
	for _, pattern := range e {
		if pattern == container {
			return true
		}
		if ok, err := path.Match(pattern, container); err == nil && ok {
			return true
		}
	}
	return false
}

// SumContainers totals the containers not matched by ex
func SumContainers(containers []models.ContainerResources, ex Exclusions) models.ResourceTotals {
	total := models.NewResourceTotals()
	for _, c := range containers {
		if ex.Excludes(c.Name) {
			continue
		}
		total = total.Add(c.Totals())
	}
	return total
}

// Pods fills in Totals for every pod record
func Pods(pods []models.PodResourceRecord, ex Exclusions) {
	for i := range pods {
		pods[i].Totals = SumContainers(pods[i].Containers, ex)
	}
}

// ByComponent groups pod totals by their component name
func ByComponent(pods []models.PodResourceRecord) map[string]*models.ComponentAggregate {
	sorted := make([]models.PodResourceRecord, len(pods))
	copy(sorted, pods)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	byComponent := make(map[string]*models.ComponentAggregate)
	for _, pod := range sorted {
		agg, ok := byComponent[pod.Component]
		if !ok {
			agg = &models.ComponentAggregate{
				Name:   pod.Component,
				Totals: models.NewResourceTotals(),
			}
			byComponent[pod.Component] = agg
		}
		agg.PodCount++
		agg.Totals = agg.Totals.Add(pod.Totals)
	}
	return byComponent
}

// Components is ByComponent flattened and sorted by component name
func Components(pods []models.PodResourceRecord) []models.ComponentAggregate {
	byComponent := ByComponent(pods)
	out := make([]models.ComponentAggregate, 0, len(byComponent))
	for _, agg := range byComponent {
		out = append(out, *agg)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out
}

// Namespace sums component aggregates into the namespace summary, so the
// namespace total is always the sum of its components
func Namespace(namespace string, components []models.ComponentAggregate) models.NamespaceResourceSummary {
	sorted := make([]models.ComponentAggregate, len(components))
	copy(sorted, components)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	summary := models.NamespaceResourceSummary{
		Namespace:      namespace,
		ComponentCount: len(sorted),
		Totals:         models.NewResourceTotals(),
	}
	for _, c := range sorted {
		summary.PodCount += c.PodCount
		summary.Totals = summary.Totals.Add(c.Totals)
	}
	return summary
}

// Cluster sums node samples into the cluster summary
func Cluster(nodes []models.NodeResourceSample) models.ClusterSummary {
	sorted := make([]models.NodeResourceSample, len(nodes))
	copy(sorted, nodes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	summary := models.ClusterSummary{
		NodeCount:          len(sorted),
		CPUAllocatable:     quantity.Zero(quantity.CPU),
		CPUUsage:           quantity.Zero(quantity.CPU),
		MemoryAllocatable:  quantity.Zero(quantity.Memory),
		MemoryUsage:        quantity.Zero(quantity.Memory),
		StorageCapacity:    quantity.Zero(quantity.Storage),
		StorageAllocatable: quantity.Zero(quantity.Storage),
	}
	for _, n := range sorted {
		if n.Ready {
			summary.ReadyNodes++
		}
		summary.CPUAllocatable = summary.CPUAllocatable.Add(n.CPUAllocatable)
		summary.CPUUsage = summary.CPUUsage.Add(n.CPUUsage)
		summary.MemoryAllocatable = summary.MemoryAllocatable.Add(n.MemoryAllocatable)
		summary.MemoryUsage = summary.MemoryUsage.Add(n.MemoryUsage)
		summary.StorageCapacity = summary.StorageCapacity.Add(n.StorageCapacity)
		summary.StorageAllocatable = summary.StorageAllocatable.Add(n.StorageAllocatable)
	}
	return summary
}

// StorageClasses totals persistent volumes per storage class. Volumes without
// a class are grouped under "<none>".
func StorageClasses(volumes []models.PersistentVolumeRecord) []models.StorageClassSummary {
	sorted := make([]models.PersistentVolumeRecord, len(volumes))
	copy(sorted, volumes)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	byClass := make(map[string]*models.StorageClassSummary)
	for _, pv := range sorted {
		class := pv.StorageClass
		if class == "" {
			class = "<none>"
		}
		s, ok := byClass[class]
		if !ok {
			s = &models.StorageClassSummary{StorageClass: class, Capacity: quantity.Zero(quantity.Storage)}
			byClass[class] = s
		}
		s.Volumes++
		if pv.Status == "Bound" {
			s.Bound++
		}
		s.Capacity = s.Capacity.Add(pv.Capacity)
	}

	out := make([]models.StorageClassSummary, 0, len(byClass))
	for _, s := range byClass {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StorageClass < out[j].StorageClass
	})
	return out
}
