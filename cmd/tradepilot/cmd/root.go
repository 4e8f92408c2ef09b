package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "tradepilot",
	Short: "Risk-aware automated trading engine",
	Long: `Tradepilot converts external AI trading signals into filtered,
rate-limited, auditable order submissions, with continuous portfolio risk
monitoring, alerting and protective circuit breakers.

It provides commands for:
  - Running the continuous decision loop against a broker
  - Triggering one-shot rebalancing cycles
  - Printing the latest risk report
  - Managing configuration files
  - Querying the trade and alert audit journal`,
	PersistentPreRunE: setup,
}

var (
	logLevel string
	logJSON  bool
	envFile  string

	log zerolog.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit JSON logs instead of console output")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file with broker/signal credentials")
}

func setup(cmd *cobra.Command, args []string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("load env file: %w", err)
		}
	}

	level, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	var out = os.Stderr
	if logJSON {
		log = zerolog.New(out).Level(level).With().Timestamp().Logger()
	} else {
		log = zerolog.New(zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}
	return nil
}
