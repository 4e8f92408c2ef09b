package cmd

import (
	"fmt"
	"os"

	"github.com/tradepilot/tradepilot/broker"
	"github.com/tradepilot/tradepilot/broker/sim"
	"github.com/tradepilot/tradepilot/config"
	"github.com/tradepilot/tradepilot/engine"
	"github.com/tradepilot/tradepilot/journal"
	"github.com/tradepilot/tradepilot/metrics"
	"github.com/tradepilot/tradepilot/signal"
)

// buildEngine wires the collaborators named by the config file into an
// engine. The returned close func flushes the journal.
func buildEngine(cfgPath string) (*engine.Engine, func(), error) {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	metrics.Register()

	brk := buildBroker(cfg)
	sig := buildSignal(cfg)

	jnl, err := buildJournal(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("create journal: %w", err)
	}

	eng, err := engine.New(brk, sig, cfg,
		engine.WithLogger(log),
		engine.WithJournal(jnl),
	)
	if err != nil {
		jnl.Close()
		return nil, nil, err
	}
	return eng, func() { jnl.Close() }, nil
}

func buildBroker(cfg *config.Config) broker.Broker {
	eng := sim.NewEngine(cfg.Sim.CashBalance)
	for _, q := range cfg.Sim.Quotes {
		eng.SetQuote(broker.PriceQuote{Symbol: q.Symbol, Price: q.Price, Volume: q.Volume})
	}
	for _, p := range cfg.Sim.Positions {
		eng.Seed(p.Symbol, p.Quantity, p.AvgPrice)
	}
	return eng
}

func buildSignal(cfg *config.Config) signal.Service {
	if cfg.Signal.Mode == "http" {
		token := ""
		if cfg.Signal.TokenEnv != "" {
			token = os.Getenv(cfg.Signal.TokenEnv)
		}
		return &signal.Client{BaseURL: cfg.Signal.BaseURL, Token: token}
	}

	// Static mode serves mild bullish fixtures so demo runs produce trades.
	st := signal.NewStatic()
	st.Analysis = signal.MarketAnalysis{Sentiment: signal.Neutral, TopPicks: cfg.TargetSymbols}
	for _, sym := range cfg.TargetSymbols {
		st.Predictions[sym] = signal.Prediction{Prediction: 0.02, Confidence: 0.70}
	}
	return st
}

func buildJournal(cfg *config.Config) (journal.Journal, error) {
	switch cfg.Journal.Type {
	case "csv":
		return journal.NewCSV(cfg.Journal.ResultsFile, cfg.Journal.AlertsFile)
	case "sqlite":
		return journal.NewSQLite(cfg.Journal.DBPath)
	default:
		return journal.Nop{}, nil
	}
}
