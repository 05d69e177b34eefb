package models

import "time"

// Mode records whether live usage metrics could be read for this run
type Mode string

const (
	ModeAvailable   Mode = "Available"
	ModeUnavailable Mode = "Unavailable"
)

// UsageAvailable reports whether usage and utilization may be shown
func (m Mode) UsageAvailable() bool {
	return m == ModeAvailable
}

// Report is everything one analyzer pass produces
type Report struct {
	Namespace   string    `json:"namespace"`
	Mode        Mode      `json:"mode"`
	GeneratedAt time.Time `json:"generatedAt"`

	Cluster           ClusterSummary           `json:"cluster"`
	Nodes             []NodeResourceSample     `json:"nodes"`
	PersistentVolumes []PersistentVolumeRecord `json:"persistentVolumes"`
	StorageClasses    []StorageClassSummary    `json:"storageClasses"`

	// EmptyNamespace is set when the namespace exists but has no pods; the
	// namespace sections below are left empty
	EmptyNamespace bool                     `json:"emptyNamespace"`
	Summary        NamespaceResourceSummary `json:"summary"`
	Claims         []StorageVolumeRecord    `json:"claims"`
	Components     []ComponentAggregate     `json:"components"`
	Pods           []PodResourceRecord      `json:"pods"`
	Status         PodStatusSummary         `json:"status"`

	// CompletedPods counts Succeeded and Failed pods. They appear in Status
	// but not in Summary, Components or Pods.
	CompletedPods int `json:"completedPods"`

	Warnings []string `json:"warnings,omitempty"`
}
