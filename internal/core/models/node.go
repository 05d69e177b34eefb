package models

import "github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"

// NodeResourceSample holds allocatable capacity and, when metrics are
// available, live usage for a single node
type NodeResourceSample struct {
	Name               string                    `json:"name"`
	Ready              bool                      `json:"ready"`
	CPUAllocatable     quantity.ResourceQuantity `json:"cpuAllocatable"`
	CPUUsage           quantity.ResourceQuantity `json:"cpuUsage"`
	MemoryAllocatable  quantity.ResourceQuantity `json:"memoryAllocatable"`
	MemoryUsage        quantity.ResourceQuantity `json:"memoryUsage"`
	StorageCapacity    quantity.ResourceQuantity `json:"storageCapacity"`
	StorageAllocatable quantity.ResourceQuantity `json:"storageAllocatable"`
	CPUPercentage      float64                   `json:"cpuPercentage"`
	MemoryPercentage   float64                   `json:"memoryPercentage"`
}

// ClusterSummary is the roll-up of every node sample
type ClusterSummary struct {
	NodeCount          int                       `json:"nodeCount"`
	ReadyNodes         int                       `json:"readyNodes"`
	CPUAllocatable     quantity.ResourceQuantity `json:"cpuAllocatable"`
	CPUUsage           quantity.ResourceQuantity `json:"cpuUsage"`
	MemoryAllocatable  quantity.ResourceQuantity `json:"memoryAllocatable"`
	MemoryUsage        quantity.ResourceQuantity `json:"memoryUsage"`
	StorageCapacity    quantity.ResourceQuantity `json:"storageCapacity"`
	StorageAllocatable quantity.ResourceQuantity `json:"storageAllocatable"`
	CPUPercentage      float64                   `json:"cpuPercentage"`
	MemoryPercentage   float64                   `json:"memoryPercentage"`
}
