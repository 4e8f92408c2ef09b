package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Compute and print the current risk report",
	Long: `Fetch the account, compute a fresh risk snapshot and print the
text report, without trading.

Example:
  tradepilot report -f tradepilot.yaml`,
	RunE: runReport,
}

var reportConfigPath string

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVarP(&reportConfigPath, "config", "f", "", "path to config file (YAML or JSON) (required)")
	reportCmd.MarkFlagRequired("config")
}

func runReport(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := buildEngine(reportConfigPath)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, _, _, err := eng.EvaluateRisk(context.Background()); err != nil {
		return err
	}

	fmt.Print(eng.RiskReport())
	return nil
}
