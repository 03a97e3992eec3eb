package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/piwi3910/QuoteCraft/internal/api"
	"github.com/piwi3910/QuoteCraft/internal/logging"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve live estimates and quote downloads over HTTP",
		Long: `Start the HTTP API.

Routes:
  GET  /health       liveness check
  GET  /catalog      the active catalog
  POST /estimate     estimate for a JSON or form-encoded selection
  POST /quote.pdf    quote document
  POST /quote.xlsx   quote workbook`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.config.ListenAddr
			}
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := api.NewServer(a.catalog, a.config, logging.Logger, Version)
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	return cmd
}
