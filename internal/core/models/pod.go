package models

import (
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/utilization"
)

// ContainerResources contains canonical requests, limits and usage for one container
type ContainerResources struct {
	Name          string                    `json:"name"`
	CPURequest    quantity.ResourceQuantity `json:"cpuRequest"`
	CPULimit      quantity.ResourceQuantity `json:"cpuLimit"`
	CPUUsage      quantity.ResourceQuantity `json:"cpuUsage"`
	MemoryRequest quantity.ResourceQuantity `json:"memoryRequest"`
	MemoryLimit   quantity.ResourceQuantity `json:"memoryLimit"`
	MemoryUsage   quantity.ResourceQuantity `json:"memoryUsage"`
}

// NewContainerResources returns a record with every field at canonical zero
func NewContainerResources(name string) ContainerResources {
	return ContainerResources{
		Name:          name,
		CPURequest:    quantity.Zero(quantity.CPU),
		CPULimit:      quantity.Zero(quantity.CPU),
		CPUUsage:      quantity.Zero(quantity.CPU),
		MemoryRequest: quantity.Zero(quantity.Memory),
		MemoryLimit:   quantity.Zero(quantity.Memory),
		MemoryUsage:   quantity.Zero(quantity.Memory),
	}
}

// ResourceTotals is a sum of container resources
type ResourceTotals struct {
	CPURequest    quantity.ResourceQuantity `json:"cpuRequest"`
	CPULimit      quantity.ResourceQuantity `json:"cpuLimit"`
	CPUUsage      quantity.ResourceQuantity `json:"cpuUsage"`
	MemoryRequest quantity.ResourceQuantity `json:"memoryRequest"`
	MemoryLimit   quantity.ResourceQuantity `json:"memoryLimit"`
	MemoryUsage   quantity.ResourceQuantity `json:"memoryUsage"`
}

// NewResourceTotals returns empty totals in canonical units
func NewResourceTotals() ResourceTotals {
	c := NewContainerResources("")
	return c.Totals()
}

// Totals converts a single container into totals
func (c ContainerResources) Totals() ResourceTotals {
	return ResourceTotals{
		CPURequest:    c.CPURequest,
		CPULimit:      c.CPULimit,
		CPUUsage:      c.CPUUsage,
		MemoryRequest: c.MemoryRequest,
		MemoryLimit:   c.MemoryLimit,
		MemoryUsage:   c.MemoryUsage,
	}
}

// Add returns the field-wise sum of t and o
func (t ResourceTotals) Add(o ResourceTotals) ResourceTotals {
	return ResourceTotals{
		CPURequest:    t.CPURequest.Add(o.CPURequest),
		CPULimit:      t.CPULimit.Add(o.CPULimit),
		CPUUsage:      t.CPUUsage.Add(o.CPUUsage),
		MemoryRequest: t.MemoryRequest.Add(o.MemoryRequest),
		MemoryLimit:   t.MemoryLimit.Add(o.MemoryLimit),
		MemoryUsage:   t.MemoryUsage.Add(o.MemoryUsage),
	}
}

// Utilization holds usage percentages against requests and limits. Bands are
// derived from usage against requests.
type Utilization struct {
	CPUOfRequest    float64          `json:"cpuOfRequest"`
	CPUOfLimit      float64          `json:"cpuOfLimit"`
	MemoryOfRequest float64          `json:"memoryOfRequest"`
	MemoryOfLimit   float64          `json:"memoryOfLimit"`
	CPUBand         utilization.Band `json:"cpuBand"`
	MemoryBand      utilization.Band `json:"memoryBand"`
}

// PodResourceRecord is one pod with its containers summed
type PodResourceRecord struct {
	Name            string               `json:"name"`
	Namespace       string               `json:"namespace"`
	Component       string               `json:"component"`
	Node            string               `json:"node,omitempty"`
	Phase           string               `json:"phase"`
	ReadyContainers int                  `json:"readyContainers"`
	TotalContainers int                  `json:"totalContainers"`
	Restarts        int32                `json:"restarts"`
	WaitingReasons  []string             `json:"waitingReasons,omitempty"`
	Containers      []ContainerResources `json:"containers"`
	Totals          ResourceTotals       `json:"totals"`
	Utilization     Utilization          `json:"utilization"`
}
