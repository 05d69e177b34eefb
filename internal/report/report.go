// Package report renders an analyzer report for people or machines.
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/sumandas0/k8s-resource-analyzer/internal/core/models"
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Write outputs rep in the given format. An empty format means table.
func Write(w io.Writer, rep *models.Report, format string) error {
	switch format {
	case FormatTable, "":
		return NewRenderer(w).Render(rep)
	case FormatJSON:
		return writeJSON(w, rep)
	case FormatYAML:
		return writeYAML(w, rep)
	default:
		return fmt.Errorf("unsupported output format %q (must be table, json or yaml)", format)
	}
}

// ContentType is the media type Write produces for format
func ContentType(format string) string {
	switch format {
	case FormatJSON:
		return "application/json"
	case FormatYAML:
		return "application/yaml"
	default:
		return "text/plain; charset=utf-8"
	}
}

func writeJSON(w io.Writer, rep *models.Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(rep)
}

func writeYAML(w io.Writer, rep *models.Report) error {
	data, err := yaml.Marshal(rep)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = w.Write(data)
	return err
}
