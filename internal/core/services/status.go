package services

import (
	v1 "k8s.io/api/core/v1"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
)

// summarizeStatus counts pods by phase and readiness. A pod is ready when it
// is running and every container reports ready.
func summarizeStatus(pods []models.PodResourceRecord) models.PodStatusSummary {
	summary := models.PodStatusSummary{
		Total:          len(pods),
		Phases:         make(map[string]int),
		WaitingReasons: make(map[string]int),
	}

	for _, pod := range pods {
		phase := pod.Phase
		if phase == "" {
			phase = string(v1.PodUnknown)
		}
		summary.Phases[phase]++
		summary.Restarts += pod.Restarts

		if isPodReady(pod) {
			summary.Ready++
		} else {
			summary.NotReady++
		}

		for _, reason := range pod.WaitingReasons {
			summary.WaitingReasons[reason]++
		}
	}

	return summary
}

func isPodReady(pod models.PodResourceRecord) bool {
	return pod.Phase == string(v1.PodRunning) &&
		pod.TotalContainers > 0 &&
		pod.ReadyContainers == pod.TotalContainers
}

// isActive reports whether a pod still holds its requests on a node
func isActive(pod models.PodResourceRecord) bool {
	return pod.Phase != string(v1.PodSucceeded) && pod.Phase != string(v1.PodFailed)
}
