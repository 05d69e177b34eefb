package models

// ComponentAggregate sums every pod classified into one component
type ComponentAggregate struct {
	Name        string         `json:"name"`
	PodCount    int            `json:"podCount"`
	Totals      ResourceTotals `json:"totals"`
	Utilization Utilization    `json:"utilization"`
}

// NamespaceResourceSummary sums every component in a namespace
type NamespaceResourceSummary struct {
	Namespace      string         `json:"namespace"`
	PodCount       int            `json:"podCount"`
	ComponentCount int            `json:"componentCount"`
	Totals         ResourceTotals `json:"totals"`
	Utilization    Utilization    `json:"utilization"`
	// Share of cluster allocatable reserved by this namespace's requests
	CPUShareOfCluster    float64 `json:"cpuShareOfCluster"`
	MemoryShareOfCluster float64 `json:"memoryShareOfCluster"`
}

// PodStatusSummary counts pods by phase and notable container states
type PodStatusSummary struct {
	Total          int            `json:"total"`
	Ready          int            `json:"ready"`
	NotReady       int            `json:"notReady"`
	Restarts       int32          `json:"restarts"`
	Phases         map[string]int `json:"phases"`
	WaitingReasons map[string]int `json:"waitingReasons,omitempty"`
}
