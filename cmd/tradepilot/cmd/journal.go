package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tradepilot/tradepilot/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Query the trade and alert audit journal",
	Long: `Query audit records from a SQLite journal.

Examples:
  tradepilot journal results --db ./tradepilot.sqlite
  tradepilot journal results --db ./tradepilot.sqlite --day 2026-08-28
  tradepilot journal alerts  --db ./tradepilot.sqlite`,
}

var journalResultsCmd = &cobra.Command{
	Use:   "results",
	Short: "List decision results for a day (default today)",
	RunE:  runJournalResults,
}

var journalAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "List risk alerts for a day (default today)",
	RunE:  runJournalAlerts,
}

var (
	journalDBPath string
	journalDay    string
)

func init() {
	rootCmd.AddCommand(journalCmd)
	journalCmd.AddCommand(journalResultsCmd)
	journalCmd.AddCommand(journalAlertsCmd)

	journalCmd.PersistentFlags().StringVar(&journalDBPath, "db", "./tradepilot.sqlite", "path to SQLite journal DB")
	journalCmd.PersistentFlags().StringVar(&journalDay, "day", "", "day to query as YYYY-MM-DD (default today)")
}

func journalDayRange() (time.Time, time.Time, error) {
	loc := time.Local
	day := time.Now().In(loc)
	if journalDay != "" {
		parsed, err := time.ParseInLocation("2006-01-02", journalDay, loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("parse day: %w", err)
		}
		day = parsed
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1), nil
}

func runJournalResults(cmd *cobra.Command, args []string) error {
	start, end, err := journalDayRange()
	if err != nil {
		return err
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListResultsBetween(start, end)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no results")
		return nil
	}
	for _, r := range recs {
		status := "filtered"
		if r.Executed {
			status = fmt.Sprintf("executed qty %d @ %.2f", r.ExecutedQty, r.ExecutedPrice)
		} else if r.Error != "" {
			status = r.Error
		}
		fmt.Printf("%s  %-6s %-4s conf %.2f  %s\n",
			r.Timestamp.Format("15:04:05"), r.Symbol, r.Action, r.Confidence, status)
	}
	return nil
}

func runJournalAlerts(cmd *cobra.Command, args []string) error {
	start, end, err := journalDayRange()
	if err != nil {
		return err
	}

	j, err := journal.NewSQLite(journalDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer j.Close()

	recs, err := j.ListAlertsBetween(start, end)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		fmt.Println("no alerts")
		return nil
	}
	for _, a := range recs {
		fmt.Printf("%s  [%s] %s: %s\n",
			a.Timestamp.Format("15:04:05"), a.Level, a.Category, a.Message)
	}
	return nil
}
