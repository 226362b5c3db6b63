package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/selimozcann/longurl/internal/api"
)

func serveCmd(opts *clientOptions, defaultAddr string) *cobra.Command {
	addr := defaultAddr
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Expose resolution over HTTP",
		Long: `Serve a JSON API:

  GET /api/v1/url/resolve?url=<url>   resolve one URL
  GET /api/v1/health                  liveness check`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			r, err := opts.resolver(log)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return api.NewApp(r, log).Start(ctx, addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", addr, "Listen address")
	return cmd
}
