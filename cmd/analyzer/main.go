// resource-analyzer reports resource allocation and utilization of a
// Kubernetes namespace.
//
// Usage:
//
//	resource-analyzer [namespace] [-o table|json|yaml]
//	resource-analyzer serve --port 8080
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sumandas0/k8s-resource-analyzer/cmd/analyzer/app"
	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/kubernetes"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cmd := app.NewRootCommand(cfg, kubernetes.NewClients)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
