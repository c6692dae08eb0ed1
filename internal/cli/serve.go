package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/raphaelgruber/aura-go/internal/server"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the concierge HTTP server",
	Long: `Run the concierge as an HTTP server for browser clients.

The conversation runs over a websocket at /ws; fleet data, booking slots,
health and runtime stats are plain JSON endpoints.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveAddr, "addr", "a", "", "listen address (default from AURA_SERVER_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	manager, err := newManager(ctx)
	if err != nil {
		return err
	}
	fleetSvc, err := newFleetService(ctx)
	if err != nil {
		return err
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ServerAddr
	}

	srv := server.New(addr, manager, fleetSvc, collector, logger)
	return srv.Run(ctx)
}
