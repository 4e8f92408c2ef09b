package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultValidates(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, 0.65, cfg.ConfidenceThreshold)
	assert.Equal(t, 10, cfg.MaxTradesPerDay)
	assert.NotEmpty(t, cfg.TargetSymbols)
}

func TestValidateRejections(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"confidence above one", func(c *Config) { c.ConfidenceThreshold = 1.5 }},
		{"negative confidence", func(c *Config) { c.ConfidenceThreshold = -0.1 }},
		{"zero trades per day", func(c *Config) { c.MaxTradesPerDay = 0 }},
		{"no target symbols", func(c *Config) { c.TargetSymbols = nil }},
		{"bad frequency", func(c *Config) { c.RebalanceFrequency = "sometimes" }},
		{"position size above one", func(c *Config) { c.Risk.MaxPositionSize = 1.2 }},
		{"zero position size", func(c *Config) { c.Risk.MaxPositionSize = 0 }},
		{"negative daily loss", func(c *Config) { c.Risk.MaxDailyLoss = -0.02 }},
		{"zero drawdown", func(c *Config) { c.Risk.MaxDrawdown = 0 }},
		{"cash ratio above one", func(c *Config) { c.Risk.MinCashRatio = 1.5 }},
		{"zero leverage", func(c *Config) { c.Risk.MaxLeverage = 0 }},
		{"sqlite without path", func(c *Config) { c.Journal = JournalConfig{Type: "sqlite"} }},
		{"csv without files", func(c *Config) { c.Journal = JournalConfig{Type: "csv"} }},
		{"unknown journal type", func(c *Config) { c.Journal = JournalConfig{Type: "parquet"} }},
		{"http signal without url", func(c *Config) { c.Signal = SignalConfig{Mode: "http"} }},
		{"unknown signal mode", func(c *Config) { c.Signal = SignalConfig{Mode: "psychic"} }},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.ConfidenceThreshold = 0.72
	cfg.TargetSymbols = []string{"NVDA", "TSLA"}
	cfg.Risk.MaxPositionSize = 0.15

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.SaveToFile(path))

	loaded, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadFromJSON(t *testing.T) {
	t.Parallel()

	data := `{
		"risk": {"max_position_size": 0.2, "max_daily_loss": 0.02, "max_drawdown": 0.1, "min_cash_ratio": 0.1, "max_leverage": 1.0},
		"confidence_threshold": 0.7,
		"max_trades_per_day": 5,
		"target_symbols": ["AAPL"],
		"rebalance_frequency": "15m",
		"journal": {"type": "none"}
	}`
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 0.7, cfg.ConfidenceThreshold)
	assert.Equal(t, 5, cfg.MaxTradesPerDay)
	assert.Equal(t, []string{"AAPL"}, cfg.TargetSymbols)
}

func TestLoadRejectsInvalidFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("max_trades_per_day: 0\n"), 0644))

	_, err := LoadFromFile(path)
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestApplyPartialUpdate(t *testing.T) {
	t.Parallel()

	cfg := Default()
	threshold := 0.8
	maxDD := 0.2
	cfg.Apply(Update{
		ConfidenceThreshold: &threshold,
		MaxDrawdown:         &maxDD,
		TargetSymbols:       []string{"GOOG"},
	})

	assert.Equal(t, 0.8, cfg.ConfidenceThreshold)
	assert.Equal(t, 0.2, cfg.Risk.MaxDrawdown)
	assert.Equal(t, []string{"GOOG"}, cfg.TargetSymbols)

	// Untouched fields keep their defaults.
	assert.Equal(t, 10, cfg.MaxTradesPerDay)
	assert.Equal(t, 0.20, cfg.Risk.MaxPositionSize)
}

func TestTradeDelayFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		delay string
		want  time.Duration
	}{
		{"empty defaults to one second", "", time.Second},
		{"below floor is raised", "200ms", time.Second},
		{"above floor kept", "3s", 3 * time.Second},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := Default()
			cfg.TradeDelay = tt.delay
			got, err := cfg.ParseTradeDelay()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCallTimeoutDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	cfg.CallTimeout = ""
	d, err := cfg.ParseCallTimeout()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, d)
}
