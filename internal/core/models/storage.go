package models

import "github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"

// StorageVolumeRecord describes a PersistentVolumeClaim
type StorageVolumeRecord struct {
	Name         string                    `json:"name"`
	Namespace    string                    `json:"namespace"`
	Status       string                    `json:"status"`
	Capacity     quantity.ResourceQuantity `json:"capacity"`
	StorageClass string                    `json:"storageClass,omitempty"`
	VolumeName   string                    `json:"volumeName,omitempty"`
}

// PersistentVolumeRecord describes a cluster-scoped PersistentVolume
type PersistentVolumeRecord struct {
	Name         string                    `json:"name"`
	Status       string                    `json:"status"`
	Capacity     quantity.ResourceQuantity `json:"capacity"`
	StorageClass string                    `json:"storageClass,omitempty"`
	Claim        string                    `json:"claim,omitempty"`
}

// StorageClassSummary totals persistent volumes sharing a storage class
type StorageClassSummary struct {
	StorageClass string                    `json:"storageClass"`
	Volumes      int                       `json:"volumes"`
	Bound        int                       `json:"bound"`
	Capacity     quantity.ResourceQuantity `json:"capacity"`
}
