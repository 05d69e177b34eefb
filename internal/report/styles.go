package report

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/utilization"
)

type styles struct {
	title  lipgloss.Style
	good   lipgloss.Style
	warn   lipgloss.Style
	danger lipgloss.Style
	faint  lipgloss.Style
}

// newStyles binds every style to r so that color is only emitted when the
// destination writer is a terminal
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		title:  r.NewStyle().Bold(true),
		good:   r.NewStyle().Foreground(lipgloss.Color("#5FD7AF")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#FFAF00")),
		danger: r.NewStyle().Foreground(lipgloss.Color("#FF5F87")),
		faint:  r.NewStyle().Foreground(lipgloss.Color("#6C6C6C")),
	}
}

func (s styles) band(b utilization.Band) string {
	switch b {
	case utilization.UnderUtilized:
		return s.warn.Render(string(b))
	case utilization.Acceptable:
		return s.good.Render(string(b))
	case utilization.High:
		return s.danger.Render(string(b))
	default:
		return string(b)
	}
}

func (s styles) ready(ready bool) string {
	if ready {
		return s.good.Render("Ready")
	}
	return s.danger.Render("NotReady")
}
