package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/raphaelgruber/aura-go/internal/client"
	"github.com/raphaelgruber/aura-go/internal/metrics"
	"github.com/spf13/cobra"
)

var statusServerURL string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show runtime stats of a running concierge server",
	Long: `Query a running concierge server for health and runtime statistics.

Examples:
  aura status
  aura status --server http://localhost:8585`,
	RunE: runStatus,
}

func init() {
	statusCmd.Flags().StringVarP(&statusServerURL, "server", "s", "", "server URL (default from AURA_SERVER_URL)")
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c := client.New(statusServerURL)

	if err := c.Health(ctx); err != nil {
		return fmt.Errorf("server unreachable: %w", err)
	}
	fmt.Println("Server: healthy")

	snap, err := c.Stats(ctx)
	if err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}

	fmt.Printf("Uptime: %.0fs\n\n", snap.UptimeSeconds)
	printOp("Responses", snap.Respond)
	printOp("DB queries", snap.DBQuery)
	printOp("DB writes", snap.DBWrite)

	vehicles, err := c.Fleet(ctx)
	if err != nil {
		return fmt.Errorf("fetch fleet: %w", err)
	}
	fmt.Printf("\nFleet: %d vehicle(s)\n", len(vehicles))

	return nil
}

func printOp(name string, op *metrics.OperationSnapshot) {
	if op == nil {
		fmt.Printf("%-12s (none)\n", name)
		return
	}
	fmt.Printf("%-12s count=%d avg=%.0fms min=%dms max=%dms\n",
		name, op.Count, op.AvgTimeMs, op.MinTimeMs, op.MaxTimeMs)
}
