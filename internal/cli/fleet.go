package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var fleetCmd = &cobra.Command{
	Use:   "fleet",
	Short: "Inspect and manage the vehicle fleet",
	Long: `Inspect the vehicle fleet without starting a chat session.

Subcommands:
  list      List registered vehicles (default)
  add       Register a new vehicle
  dealers   List service centers

Examples:
  aura fleet
  aura fleet add --model "IE Tech SUV" --vin 1HGBH41JXMN109186
  aura fleet dealers`,
	RunE: runFleetList,
}

var fleetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered vehicles",
	RunE:  runFleetList,
}

var (
	addModel string
	addVIN   string
)

var fleetAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a new vehicle",
	RunE:  runFleetAdd,
}

var fleetDealersCmd = &cobra.Command{
	Use:   "dealers",
	Short: "List service centers",
	RunE:  runFleetDealers,
}

func init() {
	fleetAddCmd.Flags().StringVarP(&addModel, "model", "m", "", "vehicle model name (required)")
	fleetAddCmd.Flags().StringVar(&addVIN, "vin", "", "vehicle identification number (required)")
	_ = fleetAddCmd.MarkFlagRequired("model")
	_ = fleetAddCmd.MarkFlagRequired("vin")

	fleetCmd.AddCommand(fleetListCmd)
	fleetCmd.AddCommand(fleetAddCmd)
	fleetCmd.AddCommand(fleetDealersCmd)
}

func runFleetList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := newFleetService(ctx)
	if err != nil {
		return err
	}

	vehicles := svc.Vehicles(ctx)
	if len(vehicles) == 0 {
		fmt.Println("No vehicles registered.")
		return nil
	}

	for _, v := range vehicles {
		fmt.Printf("%-24s %s\n", v.Model, v.VIN)
	}
	fmt.Printf("\n%d vehicle(s)\n", len(vehicles))
	return nil
}

func runFleetAdd(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := newFleetService(ctx)
	if err != nil {
		return err
	}

	v, err := svc.AddVehicle(ctx, addModel, addVIN)
	if err != nil {
		exitWithError("add vehicle: %v", err)
	}

	fmt.Printf("Added %s (%s)\n", v.Model, v.VIN)
	return nil
}

func runFleetDealers(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	svc, err := newFleetService(ctx)
	if err != nil {
		return err
	}

	for _, d := range svc.Dealers(ctx) {
		fmt.Printf("%-28s %-16s %s away (%.1f★)\n", d.Name, d.Location, d.Distance, d.Rating)
	}
	return nil
}
