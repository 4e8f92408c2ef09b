package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var rebalanceCmd = &cobra.Command{
	Use:   "rebalance",
	Short: "Run a single evaluation cycle",
	Long: `Run one full cycle: risk metrics, alerts, circuit breakers,
emergency response if needed, then rebalancing and the stop-loss/take-profit
sweep. Results are printed and journaled.

Example:
  tradepilot rebalance -f tradepilot.yaml`,
	RunE: runRebalance,
}

var rebalanceConfigPath string

func init() {
	rootCmd.AddCommand(rebalanceCmd)

	rebalanceCmd.Flags().StringVarP(&rebalanceConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	rebalanceCmd.MarkFlagRequired("config")
}

func runRebalance(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := buildEngine(rebalanceConfigPath)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx := context.Background()
	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer eng.Stop()

	report, err := eng.Cycle(ctx)
	if err != nil {
		return err
	}

	for _, b := range report.Breakers {
		status := "ok"
		if b.Triggered {
			status = "TRIPPED → " + b.Action.String()
		}
		fmt.Printf("breaker %-14s %.4f / %.4f  %s\n", b.Name, b.CurrentValue, b.Threshold, status)
	}
	if report.Halted {
		fmt.Println("trading halted by circuit breaker")
		return nil
	}

	if len(report.Results) == 0 {
		fmt.Println("no trades this cycle")
	}
	for _, r := range report.Results {
		switch {
		case r.Executed:
			fmt.Printf("%-6s %-4s qty %-6d @ %.2f\n",
				r.Decision.Symbol, r.Decision.Action, r.Order.ExecutedQty, r.Order.ExecutedPrice)
		default:
			fmt.Printf("%-6s %-4s not executed: %s\n",
				r.Decision.Symbol, r.Decision.Action, r.Error)
		}
	}
	return nil
}
