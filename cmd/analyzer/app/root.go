package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core"
	"github.com/sumandas0/k8s-resource-analyzer/internal/core/factory"
	"github.com/sumandas0/k8s-resource-analyzer/internal/kubernetes"
	"github.com/sumandas0/k8s-resource-analyzer/internal/logging"
	"github.com/sumandas0/k8s-resource-analyzer/internal/report"
)

// ClientsFunc builds the cluster clients; tests replace it with fakes
type ClientsFunc func(cfg *config.Config, logger *slog.Logger) (*kubernetes.Clients, error)

var version = "dev"

func NewRootCommand(cfg *config.Config, newClients ClientsFunc) *cobra.Command {
	opts := NewOptions(cfg)

	cmd := &cobra.Command{
		Use:   "resource-analyzer [namespace]",
		Short: "Report resource allocation and utilization for a namespace",
		Long: `resource-analyzer reads nodes, pods and storage from the current cluster and
prints a report rolled up from pods to components, the namespace and the cluster.

Usage and utilization columns are shown when the metrics API is available and
left out otherwise. The namespace defaults to "` + config.DefaultNamespace + `".`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			namespace := ""
			if len(args) == 1 {
				namespace = args[0]
			}
			if err := opts.ApplyTo(cfg, namespace); err != nil {
				return err
			}
			return runReport(cmd, cfg, newClients)
		},
	}

	opts.AddFlags(cmd.PersistentFlags())
	opts.AddOutputFlags(cmd.Flags())

	cmd.AddCommand(newServeCommand(cfg, opts, newClients))

	return cmd
}

func setup(cmd *cobra.Command, cfg *config.Config, newClients ClientsFunc) (*core.Services, *slog.Logger, error) {
	logger := logging.NewLogger(cfg, cmd.ErrOrStderr())
	slog.SetDefault(logger)

	clients, err := newClients(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	return factory.NewServices(clients, cfg, logger), logger, nil
}

func runReport(cmd *cobra.Command, cfg *config.Config, newClients ClientsFunc) error {
	services, logger, err := setup(cmd, cfg, newClients)
	if err != nil {
		return err
	}

	rep, err := services.Analyzer.Analyze(cmd.Context(), cfg.Namespace)
	if err != nil {
		var notFound *core.NamespaceNotFoundError
		if errors.As(err, &notFound) {
			printAvailable(cmd.ErrOrStderr(), notFound.Available)
		}
		return err
	}

	logger.Debug("rendering report", "format", cfg.OutputFormat)
	return report.Write(cmd.OutOrStdout(), rep, cfg.OutputFormat)
}

func printAvailable(w io.Writer, namespaces []string) {
	if len(namespaces) == 0 {
		return
	}
	fmt.Fprintln(w, "Available namespaces:")
	for _, ns := range namespaces {
		fmt.Fprintf(w, "  %s\n", ns)
	}
}
