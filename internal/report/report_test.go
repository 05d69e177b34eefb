package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/utilization"
)

func millicores(v float64) quantity.ResourceQuantity {
	return quantity.ResourceQuantity{Value: v, Unit: quantity.Millicores}
}

func mebibytes(v float64) quantity.ResourceQuantity {
	return quantity.ResourceQuantity{Value: v, Unit: quantity.Mebibytes}
}

func sampleReport(mode models.Mode) *models.Report {
	totals := models.ResourceTotals{
		CPURequest: millicores(1000), CPULimit: millicores(2000), CPUUsage: millicores(500),
		MemoryRequest: mebibytes(2048), MemoryLimit: mebibytes(4096), MemoryUsage: mebibytes(1024),
	}
	util := models.Utilization{
		CPUOfRequest: 50, CPUOfLimit: 25, MemoryOfRequest: 50, MemoryOfLimit: 25,
		CPUBand: utilization.Acceptable, MemoryBand: utilization.Acceptable,
	}
	if !mode.UsageAvailable() {
		totals.CPUUsage, totals.MemoryUsage = millicores(0), mebibytes(0)
		util = models.Utilization{}
	}

	return &models.Report{
		Namespace:   "observability",
		Mode:        mode,
		GeneratedAt: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
		Cluster: models.ClusterSummary{
			NodeCount: 1, ReadyNodes: 1,
			CPUAllocatable: millicores(4000), CPUUsage: millicores(2000),
			MemoryAllocatable: mebibytes(8192), MemoryUsage: mebibytes(4096),
			StorageCapacity: mebibytes(102400), StorageAllocatable: mebibytes(92160),
			CPUPercentage: 50, MemoryPercentage: 50,
		},
		Nodes: []models.NodeResourceSample{{
			Name: "node-a", Ready: true,
			CPUAllocatable: millicores(4000), CPUUsage: millicores(2000),
			MemoryAllocatable: mebibytes(8192), MemoryUsage: mebibytes(4096),
			StorageCapacity: mebibytes(102400), StorageAllocatable: mebibytes(92160),
			CPUPercentage: 50, MemoryPercentage: 50,
		}},
		StorageClasses: []models.StorageClassSummary{
			{StorageClass: "fast-ssd", Volumes: 1, Bound: 1, Capacity: mebibytes(10240)},
		},
		Summary: models.NamespaceResourceSummary{
			Namespace: "observability", PodCount: 2, ComponentCount: 1,
			Totals: totals, Utilization: util,
			CPUShareOfCluster: 25, MemoryShareOfCluster: 25,
		},
		Claims: []models.StorageVolumeRecord{
			{Name: "storage-mimir-ingester-0", Namespace: "observability", Status: "Bound",
				Capacity: mebibytes(10240), StorageClass: "fast-ssd", VolumeName: "pv-1"},
		},
		Components: []models.ComponentAggregate{
			{Name: "mimir-ingester", PodCount: 2, Totals: totals, Utilization: util},
		},
		Pods: []models.PodResourceRecord{
			{Name: "mimir-ingester-0", Component: "mimir-ingester", Node: "node-a", Phase: "Running",
				ReadyContainers: 1, TotalContainers: 1, Totals: totals, Utilization: util},
		},
		Status: models.PodStatusSummary{
			Total: 2, Ready: 1, NotReady: 1, Restarts: 3,
			Phases:         map[string]int{"Running": 2},
			WaitingReasons: map[string]int{"CrashLoopBackOff": 1},
		},
		Warnings: []string{"no usage metrics reported for pod mimir-ingester-1"},
	}
}

func render(t *testing.T, rep *models.Report) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, NewRenderer(&buf).Render(rep))
	return buf.String()
}

func TestRender_SectionOrder(t *testing.T) {
	out := render(t, sampleReport(models.ModeAvailable))

	sections := []string{
		"CLUSTER NODE RESOURCES",
		"CLUSTER STORAGE (PERSISTENT VOLUMES)",
		"CLUSTER NODE STORAGE CAPACITY",
		"NAMESPACE RESOURCE ALLOCATION: observability",
		"NAMESPACE EFFICIENCY",
		"NAMESPACE STORAGE (PERSISTENT VOLUME CLAIMS)",
		"COMPONENTS",
		"PODS",
		"POD STATUS",
		"WARNINGS",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		require.NotEqual(t, -1, idx, "missing section %q", s)
		assert.Greater(t, idx, last, "section %q out of order", s)
		last = idx
	}
}

func TestRender_MetricsAvailable(t *testing.T) {
	out := render(t, sampleReport(models.ModeAvailable))

	assert.Contains(t, out, "CPU USAGE")
	assert.Contains(t, out, "CPU % OF REQUEST")
	assert.Contains(t, out, "acceptable")
	assert.Contains(t, out, "mimir-ingester")
	assert.Contains(t, out, "4000m")
	assert.Contains(t, out, "8.0Gi")
	assert.Contains(t, out, "50.0%")
	assert.Contains(t, out, "CrashLoopBackOff")
	assert.Contains(t, out, "no usage metrics reported for pod mimir-ingester-1")
	assert.NotContains(t, out, "\x1b[", "output to a non-terminal must not carry escape codes")
}

func TestRender_MetricsUnavailable(t *testing.T) {
	out := render(t, sampleReport(models.ModeUnavailable))

	assert.NotContains(t, out, "USAGE")
	assert.NotContains(t, out, "% OF REQUEST")
	assert.NotContains(t, out, "BAND")
	assert.NotContains(t, out, "CPU %")
	assert.Contains(t, out, "Efficiency bands need the metrics API")

	// allocation sections do not depend on metrics
	assert.Contains(t, out, "CPU REQUEST")
	assert.Contains(t, out, "SHARE OF CLUSTER")
	assert.Contains(t, out, "25.0%")
}

func TestRender_EmptyNamespace(t *testing.T) {
	rep := &models.Report{
		Namespace:      "empty",
		Mode:           models.ModeUnavailable,
		EmptyNamespace: true,
		Cluster:        models.ClusterSummary{NodeCount: 1, ReadyNodes: 1, CPUAllocatable: millicores(4000), MemoryAllocatable: mebibytes(8192)},
		Nodes:          []models.NodeResourceSample{{Name: "node-a", Ready: true, CPUAllocatable: millicores(4000), MemoryAllocatable: mebibytes(8192)}},
	}

	out := render(t, rep)

	assert.Contains(t, out, "CLUSTER NODE RESOURCES")
	assert.Contains(t, out, "node-a")
	assert.Contains(t, out, "Namespace empty exists but has no pods.")
	assert.NotContains(t, out, "CLUSTER STORAGE")
	assert.NotContains(t, out, "COMPONENTS")
	assert.NotContains(t, out, "POD STATUS")
	assert.NotContains(t, out, "WARNINGS")
}

func TestRender_NoStorage(t *testing.T) {
	rep := sampleReport(models.ModeAvailable)
	rep.StorageClasses = nil
	rep.Claims = nil

	out := render(t, rep)
	assert.Contains(t, out, "No persistent volumes found.")
	assert.Contains(t, out, "No persistent volume claims in namespace.")
}

func TestRender_CompletedPodsNote(t *testing.T) {
	rep := sampleReport(models.ModeAvailable)
	assert.NotContains(t, render(t, rep), "completed pods")

	rep.CompletedPods = 2
	out := render(t, rep)
	assert.Contains(t, out, "2 completed pods (Succeeded or Failed) omitted")
	assert.Less(t, strings.Index(out, "NAMESPACE RESOURCE ALLOCATION"), strings.Index(out, "2 completed pods"))
}

type brokenPipe struct {
	writes int
}

func (b *brokenPipe) Write(p []byte) (int, error) {
	b.writes++
	return 0, errors.New("write |1: broken pipe")
}

func TestRender_WriteError(t *testing.T) {
	for _, mode := range []models.Mode{models.ModeAvailable, models.ModeUnavailable} {
		t.Run(string(mode), func(t *testing.T) {
			w := &brokenPipe{}
			err := NewRenderer(w).Render(sampleReport(mode))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "broken pipe")
			assert.Equal(t, 1, w.writes, "output stops after the first failed write")
		})
	}

	t.Run("empty namespace", func(t *testing.T) {
		rep := &models.Report{Namespace: "empty", Mode: models.ModeUnavailable, EmptyNamespace: true}
		assert.Error(t, NewRenderer(&brokenPipe{}).Render(rep))
	})

	t.Run("through Write", func(t *testing.T) {
		assert.Error(t, Write(&brokenPipe{}, sampleReport(models.ModeAvailable), FormatTable))
	})
}

func TestWrite(t *testing.T) {
	rep := sampleReport(models.ModeAvailable)

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, rep, FormatJSON))

		var decoded models.Report
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, "observability", decoded.Namespace)
		assert.Equal(t, models.ModeAvailable, decoded.Mode)
		assert.Equal(t, quantity.Millicores, decoded.Summary.Totals.CPURequest.Unit)
		assert.Equal(t, 1000.0, decoded.Summary.Totals.CPURequest.Value)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, rep, FormatYAML))
		assert.Contains(t, buf.String(), "namespace: observability")
		assert.Contains(t, buf.String(), "mode: Available")
		assert.Contains(t, buf.String(), "unit: Mi")
	})

	t.Run("table by default", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, rep, ""))
		assert.Contains(t, buf.String(), "CLUSTER NODE RESOURCES")
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, Write(&bytes.Buffer{}, rep, "csv"))
	})
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", ContentType(FormatJSON))
	assert.Equal(t, "application/yaml", ContentType(FormatYAML))
	assert.Equal(t, "text/plain; charset=utf-8", ContentType(FormatTable))
}
