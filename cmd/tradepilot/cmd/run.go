package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the continuous decision loop",
	Long: `Start the engine and evaluate cycles at the configured rebalance
frequency until interrupted.

Example:
  tradepilot run -f tradepilot.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := buildEngine(runConfigPath)
	if err != nil {
		return err
	}
	defer closeFn()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := eng.Start(ctx); err != nil {
		return fmt.Errorf("start engine: %w", err)
	}
	defer eng.Stop()

	if err := eng.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}

	perf := eng.GetPerformanceMetrics()
	fmt.Printf("\nSession summary: %d trades, win rate %.1f%%, total P/L %.2f\n",
		perf.TotalTrades, perf.WinRate*100, perf.TotalPnL)
	return nil
}
