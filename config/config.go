package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/tradepilot/tradepilot/risk"
)

// Config is the live trading configuration. It is mutable process-wide
// through Apply; changes take effect from the next cycle.
type Config struct {
	Risk                risk.Limits   `json:"risk" yaml:"risk"`
	ConfidenceThreshold float64       `json:"confidence_threshold" yaml:"confidence_threshold"`
	MaxTradesPerDay     int           `json:"max_trades_per_day" yaml:"max_trades_per_day"`
	TargetSymbols       []string      `json:"target_symbols" yaml:"target_symbols"`
	RebalanceFrequency  string        `json:"rebalance_frequency" yaml:"rebalance_frequency"`
	TradeDelay          string        `json:"trade_delay,omitempty" yaml:"trade_delay,omitempty"`
	PredictionHorizon   int           `json:"prediction_horizon_days" yaml:"prediction_horizon_days"`
	CallTimeout         string        `json:"call_timeout,omitempty" yaml:"call_timeout,omitempty"`
	Journal             JournalConfig `json:"journal" yaml:"journal"`
	Signal              SignalConfig  `json:"signal" yaml:"signal"`
	Sim                 SimConfig     `json:"sim,omitempty" yaml:"sim,omitempty"`
}

// JournalConfig selects the audit journal backend.
type JournalConfig struct {
	Type        string `json:"type" yaml:"type"` // "csv", "sqlite" or "none"
	ResultsFile string `json:"results_file,omitempty" yaml:"results_file,omitempty"`
	AlertsFile  string `json:"alerts_file,omitempty" yaml:"alerts_file,omitempty"`
	DBPath      string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// SignalConfig selects the AI scoring collaborator.
type SignalConfig struct {
	Mode     string `json:"mode" yaml:"mode"` // "http" or "static"
	BaseURL  string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
	TokenEnv string `json:"token_env,omitempty" yaml:"token_env,omitempty"`
}

// SimConfig seeds the simulated broker for demo runs.
type SimConfig struct {
	CashBalance float64       `json:"cash_balance" yaml:"cash_balance"`
	Positions   []SimPosition `json:"positions,omitempty" yaml:"positions,omitempty"`
	Quotes      []SimQuote    `json:"quotes,omitempty" yaml:"quotes,omitempty"`
}

type SimPosition struct {
	Symbol   string  `json:"symbol" yaml:"symbol"`
	Quantity int64   `json:"quantity" yaml:"quantity"`
	AvgPrice float64 `json:"avg_price" yaml:"avg_price"`
}

type SimQuote struct {
	Symbol string  `json:"symbol" yaml:"symbol"`
	Price  float64 `json:"price" yaml:"price"`
	Volume int64   `json:"volume" yaml:"volume"`
}

// ParseRebalanceFrequency returns the cycle interval.
func (c *Config) ParseRebalanceFrequency() (time.Duration, error) {
	return time.ParseDuration(c.RebalanceFrequency)
}

// ParseTradeDelay returns the inter-order delay, floored at one second so
// sequential submissions never violate broker rate limits.
func (c *Config) ParseTradeDelay() (time.Duration, error) {
	if c.TradeDelay == "" {
		return time.Second, nil
	}
	d, err := time.ParseDuration(c.TradeDelay)
	if err != nil {
		return 0, err
	}
	if d < time.Second {
		d = time.Second
	}
	return d, nil
}

// ParseCallTimeout returns the per-call timeout for broker and signal calls.
func (c *Config) ParseCallTimeout() (time.Duration, error) {
	if c.CallTimeout == "" {
		return 10 * time.Second, nil
	}
	return time.ParseDuration(c.CallTimeout)
}

// LoadFromFile loads configuration from a YAML or JSON file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML or JSON based on extension.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration is usable.
func (c *Config) Validate() error {
	if c.ConfidenceThreshold < 0 || c.ConfidenceThreshold > 1 {
		return fmt.Errorf("confidence_threshold must be within [0,1]")
	}
	if c.MaxTradesPerDay <= 0 {
		return fmt.Errorf("max_trades_per_day must be positive")
	}
	if len(c.TargetSymbols) == 0 {
		return fmt.Errorf("target_symbols must not be empty")
	}
	if _, err := c.ParseRebalanceFrequency(); err != nil {
		return fmt.Errorf("rebalance_frequency: %w", err)
	}
	if _, err := c.ParseTradeDelay(); err != nil {
		return fmt.Errorf("trade_delay: %w", err)
	}
	if _, err := c.ParseCallTimeout(); err != nil {
		return fmt.Errorf("call_timeout: %w", err)
	}
	if c.Risk.MaxPositionSize <= 0 || c.Risk.MaxPositionSize > 1 {
		return fmt.Errorf("risk.max_position_size must be within (0,1]")
	}
	if c.Risk.MaxDailyLoss <= 0 {
		return fmt.Errorf("risk.max_daily_loss must be positive")
	}
	if c.Risk.MaxDrawdown <= 0 {
		return fmt.Errorf("risk.max_drawdown must be positive")
	}
	if c.Risk.MinCashRatio < 0 || c.Risk.MinCashRatio > 1 {
		return fmt.Errorf("risk.min_cash_ratio must be within [0,1]")
	}
	if c.Risk.MaxLeverage <= 0 {
		return fmt.Errorf("risk.max_leverage must be positive")
	}
	switch c.Journal.Type {
	case "csv":
		if c.Journal.ResultsFile == "" || c.Journal.AlertsFile == "" {
			return fmt.Errorf("journal results_file and alerts_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	case "none", "":
	default:
		return fmt.Errorf("journal.type must be 'csv', 'sqlite' or 'none'")
	}
	switch c.Signal.Mode {
	case "http":
		if c.Signal.BaseURL == "" {
			return fmt.Errorf("signal.base_url required for http mode")
		}
	case "static", "":
	default:
		return fmt.Errorf("signal.mode must be 'http' or 'static'")
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Risk:                risk.DefaultLimits(),
		ConfidenceThreshold: 0.65,
		MaxTradesPerDay:     10,
		TargetSymbols:       []string{"AAPL", "MSFT", "NVDA"},
		RebalanceFrequency:  "30m",
		TradeDelay:          "1s",
		PredictionHorizon:   5,
		CallTimeout:         "10s",
		Journal: JournalConfig{
			Type:   "sqlite",
			DBPath: "./tradepilot.sqlite",
		},
		Signal: SignalConfig{Mode: "static"},
		Sim: SimConfig{
			CashBalance: 1000000,
			Quotes: []SimQuote{
				{Symbol: "AAPL", Price: 180, Volume: 50000000},
				{Symbol: "MSFT", Price: 410, Volume: 20000000},
				{Symbol: "NVDA", Price: 120, Volume: 40000000},
			},
		},
	}
}
