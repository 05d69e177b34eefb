package responses

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

// Error codes carried in ErrorDetail.Code
const (
	CodeBadRequest         = "BAD_REQUEST"
	CodeNamespaceNotFound  = "NAMESPACE_NOT_FOUND"
	CodeInternal           = "INTERNAL_ERROR"
	CodeTimeout            = "REQUEST_TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type ErrorResponse struct {
	Error    ErrorDetail `json:"error"`
	Metadata Metadata    `json:"metadata"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// WriteError sends an error envelope tagged with the request id, so a failed
// report can be matched to its log lines the same way a successful one can.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message, details string) {
	WriteJSONWithStatus(w, status, ErrorResponse{
		Error: ErrorDetail{Code: code, Message: message, Details: details},
		Metadata: Metadata{
			RequestID: middleware.GetReqID(r.Context()),
			Timestamp: time.Now().UTC(),
		},
	})
}

func WriteBadRequest(w http.ResponseWriter, r *http.Request, err error) {
	WriteError(w, r, http.StatusBadRequest, CodeBadRequest, "Invalid request", err.Error())
}

func WriteNamespaceNotFound(w http.ResponseWriter, r *http.Request, message, details string) {
	WriteError(w, r, http.StatusNotFound, CodeNamespaceNotFound, message, details)
}

func WriteInternalError(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusInternalServerError, CodeInternal, message, "")
}

func WriteTimeout(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusGatewayTimeout, CodeTimeout, message, "")
}

func WriteServiceUnavailable(w http.ResponseWriter, r *http.Request, message string) {
	WriteError(w, r, http.StatusServiceUnavailable, CodeServiceUnavailable, message, "")
}
