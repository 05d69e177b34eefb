package router

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/logging"
)

type stubAnalyzer struct {
	analyze func(ctx context.Context, namespace string) (*models.Report, error)
}

func (s *stubAnalyzer) Analyze(ctx context.Context, namespace string) (*models.Report, error) {
	return s.analyze(ctx, namespace)
}

type stubDetector models.Mode

func (d stubDetector) Detect(context.Context) models.Mode {
	return models.Mode(d)
}

func okReport(ctx context.Context, namespace string) (*models.Report, error) {
	logging.FromContext(ctx).Info("analyzing")
	return &models.Report{
		Namespace:   namespace,
		Mode:        models.ModeUnavailable,
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Summary:     models.NamespaceResourceSummary{Namespace: namespace, PodCount: 3},
	}, nil
}

func newTestRouter(analyze func(ctx context.Context, namespace string) (*models.Report, error), timeout time.Duration) (http.Handler, *bytes.Buffer) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	services := &core.Services{
		Analyzer: &stubAnalyzer{analyze: analyze},
		Metrics:  stubDetector(models.ModeUnavailable),
	}
	return NewRouter(services, timeout, logger), &logs
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.Header.Set("X-Request-Id", "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRouter_NamespaceReport_JSON(t *testing.T) {
	h, logs := newTestRouter(okReport, time.Second)

	rec := get(h, "/api/v1/namespaces/observability/report")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Data     models.Report `json:"data"`
		Metadata struct {
			RequestID string `json:"requestId"`
		} `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "observability", body.Data.Namespace)
	assert.Equal(t, 3, body.Data.Summary.PodCount)
	assert.Equal(t, "req-123", body.Metadata.RequestID)

	assert.Contains(t, logs.String(), `"msg":"analyzing","request_id":"req-123"`)
}

func TestRouter_NamespaceReport_Formats(t *testing.T) {
	h, _ := newTestRouter(okReport, time.Second)

	rec := get(h, "/api/v1/namespaces/observability/report?format=table")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "CLUSTER NODE RESOURCES")

	rec = get(h, "/api/v1/namespaces/observability/report?format=yaml")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/yaml", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "namespace: observability")

	rec = get(h, "/api/v1/namespaces/observability/report?format=csv")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_NamespaceReport_InvalidNamespace(t *testing.T) {
	called := false
	h, _ := newTestRouter(func(ctx context.Context, namespace string) (*models.Report, error) {
		called = true
		return okReport(ctx, namespace)
	}, time.Second)

	rec := get(h, "/api/v1/namespaces/Not_Valid/report")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, called)
}

func TestRouter_NamespaceReport_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "namespace not found",
			err:        &core.NamespaceNotFoundError{Namespace: "observability", Available: []string{"default", "monitoring"}},
			wantStatus: http.StatusNotFound,
			wantCode:   "NAMESPACE_NOT_FOUND",
		},
		{
			name:       "cluster unreachable",
			err:        fmt.Errorf("%w: connection refused", core.ErrClusterUnreachable),
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "dependency missing",
			err:        core.ErrDependencyMissing,
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "SERVICE_UNAVAILABLE",
		},
		{
			name:       "unexpected",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := newTestRouter(func(context.Context, string) (*models.Report, error) {
				return nil, tt.err
			}, time.Second)

			rec := get(h, "/api/v1/namespaces/observability/report")
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body struct {
				Error struct {
					Code    string `json:"code"`
					Details string `json:"details"`
				} `json:"error"`
				Metadata struct {
					RequestID string `json:"requestId"`
				} `json:"metadata"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Error.Code)
			assert.Equal(t, "req-123", body.Metadata.RequestID)
			if tt.wantStatus == http.StatusNotFound {
				assert.Equal(t, "available namespaces: default, monitoring", body.Error.Details)
			}
		})
	}
}

func TestRouter_Timeout(t *testing.T) {
	h, _ := newTestRouter(func(ctx context.Context, _ string) (*models.Report, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, 20*time.Millisecond)

	rec := get(h, "/api/v1/namespaces/observability/report")
	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestId":"req-123"`)
}

func TestRouter_Recovery(t *testing.T) {
	h, logs := newTestRouter(func(context.Context, string) (*models.Report, error) {
		panic("unexpected nil report")
	}, time.Second)

	rec := get(h, "/api/v1/namespaces/observability/report")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"requestId":"req-123"`)
	assert.Contains(t, logs.String(), "panic recovered")
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(okReport, time.Second)

	rec := get(h, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(h, "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ready","metrics":"Unavailable"}`, rec.Body.String())
}
