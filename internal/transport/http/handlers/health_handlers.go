package handlers

import (
	"net/http"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/responses"
)

type HealthResponse struct {
	Status  string `json:"status"`
	Metrics string `json:"metrics,omitempty"`
}

// HandleHealth returns the health status of the service
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	responses.WriteJSON(w, HealthResponse{Status: "ok"})
}

// Readiness reports ready together with whether usage metrics can currently
// be read. Missing metrics degrade reports but do not make the service unready.
func Readiness(detector core.MetricsDetector) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteJSON(w, HealthResponse{
			Status:  "ready",
			Metrics: string(detector.Detect(r.Context())),
		})
	}
}
