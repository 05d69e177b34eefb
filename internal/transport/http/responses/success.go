package responses

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// SuccessResponse represents a successful API response
type SuccessResponse struct {
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
}

// Metadata contains request metadata
type Metadata struct {
	RequestID string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteJSON writes a JSON response with proper headers
func WriteJSON(w http.ResponseWriter, response interface{}) {
	WriteJSONWithStatus(w, http.StatusOK, response)
}

// WriteJSONWithStatus writes a JSON response with a specific status code
func WriteJSONWithStatus(w http.ResponseWriter, status int, response interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// headers are already sent, so an encoding failure can only be logged
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
