package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"k8s.io/apimachinery/pkg/util/validation"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/logging"
	"github.com/sumandas0/k8s-resource-analyzer/internal/report"
	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/responses"
)

// ReportHandlers serves analyzer reports over HTTP
type ReportHandlers struct {
	analyzer core.AnalyzerService
	logger   *slog.Logger
}

func NewReportHandlers(analyzer core.AnalyzerService, logger *slog.Logger) *ReportHandlers {
	return &ReportHandlers{
		analyzer: analyzer,
		logger:   logger,
	}
}

// GetNamespaceReport handles GET /api/v1/namespaces/{namespace}/report.
// The optional format query parameter selects json (default), yaml or table.
func (h *ReportHandlers) GetNamespaceReport(w http.ResponseWriter, r *http.Request) {
	namespace := chi.URLParam(r, "namespace")
	format := r.URL.Query().Get("format")
	requestID := middleware.GetReqID(r.Context())
	logger := logging.FromContextOr(r.Context(), h.logger)

	if err := validateReportParams(namespace, format); err != nil {
		logger.Warn("invalid report request",
			"namespace", namespace,
			"format", format,
			"error", err.Error(),
		)
		responses.WriteBadRequest(w, r, err)
		return
	}

	rep, err := h.analyzer.Analyze(r.Context(), namespace)
	if err != nil {
		h.handleServiceError(w, r, logger, err, namespace)
		return
	}

	if format == "" || format == report.FormatJSON {
		responses.WriteJSON(w, responses.SuccessResponse{
			Data: rep,
			Metadata: responses.Metadata{
				RequestID: requestID,
				Timestamp: rep.GeneratedAt,
			},
		})
	} else {
		var buf bytes.Buffer
		if err := report.Write(&buf, rep, format); err != nil {
			h.handleServiceError(w, r, logger, err, namespace)
			return
		}
		w.Header().Set("Content-Type", report.ContentType(format))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}

	logger.Info("namespace report served",
		"namespace", namespace,
		"mode", rep.Mode,
		"pods", rep.Summary.PodCount,
		"warnings", len(rep.Warnings),
	)
}

func validateReportParams(namespace, format string) error {
	if namespace == "" {
		return errors.New("namespace is required")
	}
	if errs := validation.IsDNS1123Label(namespace); len(errs) > 0 {
		return fmt.Errorf("invalid namespace %q: %s", namespace, strings.Join(errs, "; "))
	}
	switch format {
	case "", report.FormatJSON, report.FormatYAML, report.FormatTable:
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be json, yaml or table)", format)
	}
}

// handleServiceError maps analyzer errors to HTTP responses
func (h *ReportHandlers) handleServiceError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error, namespace string) {
	var notFound *core.NamespaceNotFoundError

	switch {
	case errors.As(err, &notFound):
		logger.Warn("namespace not found", "namespace", namespace)
		details := ""
		if len(notFound.Available) > 0 {
			details = "available namespaces: " + strings.Join(notFound.Available, ", ")
		}
		responses.WriteNamespaceNotFound(w, r, fmt.Sprintf("Namespace %s not found", namespace), details)
	case errors.Is(err, core.ErrClusterUnreachable), errors.Is(err, core.ErrDependencyMissing):
		logger.Error("cluster not reachable", "namespace", namespace, "error", err.Error())
		responses.WriteServiceUnavailable(w, r, "Kubernetes API not reachable")
	case errors.Is(err, context.DeadlineExceeded):
		logger.Warn("request timeout", "namespace", namespace, "error", err.Error())
		responses.WriteTimeout(w, r, "Request timeout")
	default:
		logger.Error("failed to analyze namespace", "namespace", namespace, "error", err.Error())
		responses.WriteInternalError(w, r, "Failed to analyze namespace")
	}
}
