package app

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sumandas0/k8s-resource-analyzer/internal/config"
	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/router"
	"github.com/sumandas0/k8s-resource-analyzer/internal/transport/http/server"
)

func newServeCommand(cfg *config.Config, opts *Options, newClients ClientsFunc) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve namespace reports over HTTP",
		Long: `serve exposes GET /api/v1/namespaces/{namespace}/report together with
/healthz and /readyz. Every request runs one independent analysis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.ApplyTo(cfg, ""); err != nil {
				return err
			}

			services, logger, err := setup(cmd, cfg, newClients)
			if err != nil {
				return err
			}

			r := router.NewRouter(services, cfg.RequestTimeout, logger)
			srv := server.New(cfg, r, logger)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := srv.Run(ctx); err != nil {
				return err
			}
			logger.Info("server shutdown complete")
			return nil
		},
	}

	opts.AddServeFlags(cmd.Flags())
	return cmd
}
