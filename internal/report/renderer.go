package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/quantity"
)

// Renderer writes a report as a sequence of aligned text tables. The first
// write error stops further output and is returned by Render.
type Renderer struct {
	w      io.Writer
	styles styles
	err    error
}

func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		w:      w,
		styles: newStyles(lipgloss.NewRenderer(w)),
	}
}

// Render writes every section in a fixed order. Without metrics the usage
// and utilization columns are left out of each table.
func (r *Renderer) Render(rep *models.Report) error {
	r.err = nil
	showUsage := rep.Mode.UsageAvailable()

	r.printf("Resource analysis for namespace %s (metrics: %s, generated %s)\n\n",
		rep.Namespace, rep.Mode, rep.GeneratedAt.Format("2006-01-02 15:04:05 MST"))

	r.nodeResources(rep, showUsage)

	if rep.EmptyNamespace {
		r.printf("Namespace %s exists but has no pods.\n\n", rep.Namespace)
		r.warnings(rep.Warnings)
		return r.result()
	}

	r.clusterStorage(rep)
	r.nodeStorage(rep)
	r.namespaceAllocation(rep, showUsage)
	r.efficiency(rep, showUsage)
	r.claims(rep)
	r.components(rep, showUsage)
	r.pods(rep, showUsage)
	r.status(rep)
	r.warnings(rep.Warnings)

	return r.result()
}

func (r *Renderer) result() error {
	if r.err != nil {
		return fmt.Errorf("failed to write report: %w", r.err)
	}
	return nil
}

func (r *Renderer) printf(format string, args ...any) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

func (r *Renderer) section(title string) {
	r.printf("%s\n", r.styles.title.Render(title))
}

func (r *Renderer) writeTable(t table.Writer) {
	r.printf("%s\n\n", t.Render())
}

func newTable(header table.Row, rightAligned ...int) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(rightAligned))
	for _, n := range rightAligned {
		configs = append(configs, table.ColumnConfig{Number: n, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)
	return t
}

// columnRange returns 1-based column numbers from..to inclusive
func columnRange(from, to int) []int {
	cols := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		cols = append(cols, i)
	}
	return cols
}

func (r *Renderer) nodeResources(rep *models.Report, showUsage bool) {
	r.section("CLUSTER NODE RESOURCES")

	header := table.Row{"NODE", "STATUS", "CPU ALLOCATABLE", "MEMORY ALLOCATABLE"}
	if showUsage {
		header = append(header, "CPU USAGE", "CPU %", "MEMORY USAGE", "MEMORY %")
	}
	t := newTable(header, columnRange(3, len(header))...)

	for _, n := range rep.Nodes {
		row := table.Row{n.Name, r.styles.ready(n.Ready), cpu(n.CPUAllocatable), memory(n.MemoryAllocatable)}
		if showUsage {
			row = append(row, cpu(n.CPUUsage), percent(n.CPUPercentage), memory(n.MemoryUsage), percent(n.MemoryPercentage))
		}
		t.AppendRow(row)
	}

	c := rep.Cluster
	footer := table.Row{
		fmt.Sprintf("TOTAL (%d)", c.NodeCount),
		fmt.Sprintf("%d/%d READY", c.ReadyNodes, c.NodeCount),
		cpu(c.CPUAllocatable),
		memory(c.MemoryAllocatable),
	}
	if showUsage {
		footer = append(footer, cpu(c.CPUUsage), percent(c.CPUPercentage), memory(c.MemoryUsage), percent(c.MemoryPercentage))
	}
	t.AppendFooter(footer)

	r.writeTable(t)
}

func (r *Renderer) clusterStorage(rep *models.Report) {
	r.section("CLUSTER STORAGE (PERSISTENT VOLUMES)")
	if len(rep.StorageClasses) == 0 {
		r.printf("%s\n\n", r.styles.faint.Render("No persistent volumes found."))
		return
	}

	t := newTable(table.Row{"STORAGE CLASS", "VOLUMES", "BOUND", "CAPACITY"}, 2, 3, 4)
	total := quantity.Zero(quantity.Storage)
	volumes, bound := 0, 0
	for _, sc := range rep.StorageClasses {
		t.AppendRow(table.Row{sc.StorageClass, sc.Volumes, sc.Bound, quantity.FormatGi(sc.Capacity.Value)})
		total = total.Add(sc.Capacity)
		volumes += sc.Volumes
		bound += sc.Bound
	}
	t.AppendFooter(table.Row{"TOTAL", volumes, bound, quantity.FormatGi(total.Value)})

	r.writeTable(t)
}

func (r *Renderer) nodeStorage(rep *models.Report) {
	r.section("CLUSTER NODE STORAGE CAPACITY")

	t := newTable(table.Row{"NODE", "EPHEMERAL CAPACITY", "EPHEMERAL ALLOCATABLE"}, 2, 3)
	for _, n := range rep.Nodes {
		t.AppendRow(table.Row{n.Name, quantity.FormatGi(n.StorageCapacity.Value), quantity.FormatGi(n.StorageAllocatable.Value)})
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		quantity.FormatGi(rep.Cluster.StorageCapacity.Value),
		quantity.FormatGi(rep.Cluster.StorageAllocatable.Value),
	})

	r.writeTable(t)
}

func (r *Renderer) namespaceAllocation(rep *models.Report, showUsage bool) {
	s := rep.Summary
	r.section(fmt.Sprintf("NAMESPACE RESOURCE ALLOCATION: %s", rep.Namespace))
	r.printf("%d pods in %d components\n", s.PodCount, s.ComponentCount)
	if rep.CompletedPods > 0 {
		r.printf("%s\n", r.styles.faint.Render(fmt.Sprintf(
			"%d completed pods (Succeeded or Failed) omitted from allocation, component and pod tables", rep.CompletedPods)))
	}

	header := table.Row{"RESOURCE", "REQUESTS", "LIMITS"}
	if showUsage {
		header = append(header, "USAGE")
	}
	header = append(header, "SHARE OF CLUSTER")
	t := newTable(header, columnRange(2, len(header))...)

	cpuRow := table.Row{"CPU", cpu(s.Totals.CPURequest), cpu(s.Totals.CPULimit)}
	memRow := table.Row{"Memory", memory(s.Totals.MemoryRequest), memory(s.Totals.MemoryLimit)}
	if showUsage {
		cpuRow = append(cpuRow, cpu(s.Totals.CPUUsage))
		memRow = append(memRow, memory(s.Totals.MemoryUsage))
	}
	cpuRow = append(cpuRow, percent(s.CPUShareOfCluster))
	memRow = append(memRow, percent(s.MemoryShareOfCluster))
	t.AppendRows([]table.Row{cpuRow, memRow})

	r.writeTable(t)
}

func (r *Renderer) efficiency(rep *models.Report, showUsage bool) {
	r.section("NAMESPACE EFFICIENCY")
	if !showUsage {
		r.printf("%s\n\n", r.styles.faint.Render("Efficiency bands need the metrics API, which is not available."))
		return
	}

	u := rep.Summary.Utilization
	t := newTable(table.Row{"RESOURCE", "USAGE OF REQUESTS", "USAGE OF LIMITS", "BAND"}, 2, 3)
	t.AppendRows([]table.Row{
		{"CPU", percent(u.CPUOfRequest), percent(u.CPUOfLimit), r.styles.band(u.CPUBand)},
		{"Memory", percent(u.MemoryOfRequest), percent(u.MemoryOfLimit), r.styles.band(u.MemoryBand)},
	})

	r.writeTable(t)
}

func (r *Renderer) claims(rep *models.Report) {
	r.section("NAMESPACE STORAGE (PERSISTENT VOLUME CLAIMS)")
	if len(rep.Claims) == 0 {
		r.printf("%s\n\n", r.styles.faint.Render("No persistent volume claims in namespace."))
		return
	}

	t := newTable(table.Row{"CLAIM", "STATUS", "CAPACITY", "STORAGE CLASS", "VOLUME"}, 3)
	total := quantity.Zero(quantity.Storage)
	for _, c := range rep.Claims {
		t.AppendRow(table.Row{c.Name, c.Status, quantity.Human(c.Capacity), c.StorageClass, c.VolumeName})
		total = total.Add(c.Capacity)
	}
	t.AppendFooter(table.Row{fmt.Sprintf("TOTAL (%d)", len(rep.Claims)), "", quantity.Human(total), "", ""})

	r.writeTable(t)
}

func (r *Renderer) components(rep *models.Report, showUsage bool) {
	r.section("COMPONENTS")

	header := table.Row{"COMPONENT", "PODS", "CPU REQUEST", "CPU LIMIT", "MEMORY REQUEST", "MEMORY LIMIT"}
	if showUsage {
		header = append(header, "CPU USAGE", "CPU % OF REQUEST", "CPU BAND", "MEMORY USAGE", "MEMORY % OF REQUEST", "MEMORY BAND")
	}
	t := newTable(header, 2, 3, 4, 5, 6, 7, 8, 10, 11)

	for _, c := range rep.Components {
		row := table.Row{
			c.Name, c.PodCount,
			cpu(c.Totals.CPURequest), cpu(c.Totals.CPULimit),
			memory(c.Totals.MemoryRequest), memory(c.Totals.MemoryLimit),
		}
		if showUsage {
			row = append(row,
				cpu(c.Totals.CPUUsage), percent(c.Utilization.CPUOfRequest), r.styles.band(c.Utilization.CPUBand),
				memory(c.Totals.MemoryUsage), percent(c.Utilization.MemoryOfRequest), r.styles.band(c.Utilization.MemoryBand))
		}
		t.AppendRow(row)
	}

	r.writeTable(t)
}

func (r *Renderer) pods(rep *models.Report, showUsage bool) {
	r.section("PODS")

	header := table.Row{"POD", "COMPONENT", "NODE", "READY", "RESTARTS", "CPU REQUEST", "CPU LIMIT", "MEMORY REQUEST", "MEMORY LIMIT"}
	if showUsage {
		header = append(header, "CPU USAGE", "CPU % OF REQUEST", "MEMORY USAGE", "MEMORY % OF REQUEST")
	}
	t := newTable(header, columnRange(4, len(header))...)

	for _, p := range rep.Pods {
		row := table.Row{
			p.Name, p.Component, p.Node,
			fmt.Sprintf("%d/%d", p.ReadyContainers, p.TotalContainers), p.Restarts,
			cpu(p.Totals.CPURequest), cpu(p.Totals.CPULimit),
			memory(p.Totals.MemoryRequest), memory(p.Totals.MemoryLimit),
		}
		if showUsage {
			row = append(row,
				cpu(p.Totals.CPUUsage), percent(p.Utilization.CPUOfRequest),
				memory(p.Totals.MemoryUsage), percent(p.Utilization.MemoryOfRequest))
		}
		t.AppendRow(row)
	}

	r.writeTable(t)
}

func (r *Renderer) status(rep *models.Report) {
	s := rep.Status
	r.section("POD STATUS")

	t := newTable(table.Row{"STATE", "PODS"}, 2)
	for _, phase := range sortedKeys(s.Phases) {
		t.AppendRow(table.Row{phase, s.Phases[phase]})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Ready", s.Ready})
	t.AppendRow(table.Row{"Not ready", s.NotReady})
	t.AppendRow(table.Row{"Container restarts", s.Restarts})
	if len(s.WaitingReasons) > 0 {
		t.AppendSeparator()
		for _, reason := range sortedKeys(s.WaitingReasons) {
			t.AppendRow(table.Row{r.styles.danger.Render(reason), s.WaitingReasons[reason]})
		}
	}
	t.AppendFooter(table.Row{"TOTAL", s.Total})

	r.writeTable(t)
}

func (r *Renderer) warnings(warnings []string) {
	if len(warnings) == 0 {
		return
	}
	r.section("WARNINGS")
	for _, w := range warnings {
		r.printf("- %s\n", r.styles.warn.Render(w))
	}
	r.printf("\n")
}

func cpu(q quantity.ResourceQuantity) string {
	return quantity.Human(q)
}

func memory(q quantity.ResourceQuantity) string {
	return quantity.Human(q)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
