package risk

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func quietMetrics() Metrics {
	return Metrics{
		VaR95:    50,
		VaR99:    80,
		Leverage: 0.5,
		Concentration: Concentration{
			MaxSinglePosition: 0.10,
			TopPositions:      []PositionWeight{{Symbol: "AAPL", Weight: 0.10}},
		},
		Liquidity:   Liquidity{Ratio: 0.9},
		Correlation: Correlation{Avg: 0.2},
		Drawdown:    Drawdown{Current: 0.01},
	}
}

func TestGenerateAlertsQuiet(t *testing.T) {
	t.Parallel()

	alerts := GenerateAlerts(quietMetrics(), DefaultLimits())
	assert.Empty(t, alerts)
}

func TestGenerateAlertsAllRulesFire(t *testing.T) {
	t.Parallel()

	m := Metrics{
		VaR95:    500, // > 0.02*10000
		VaR99:    800,
		Leverage: 1.4,
		Concentration: Concentration{
			MaxSinglePosition: 0.35,
			TopPositions:      []PositionWeight{{Symbol: "AAPL", Weight: 0.35}},
		},
		Liquidity:   Liquidity{Ratio: 0.1},
		Correlation: Correlation{Avg: 0.8},
		Drawdown:    Drawdown{Current: 0.15},
	}

	alerts := GenerateAlerts(m, DefaultLimits())
	assert.Len(t, alerts, 6, "all six rules evaluate independently")

	byCategory := map[string]Alert{}
	for _, a := range alerts {
		byCategory[a.Category] = a
		assert.NotEmpty(t, a.Message)
		assert.NotEmpty(t, a.Recommendation)
		assert.False(t, a.Timestamp.IsZero())
	}

	assert.Equal(t, LevelCritical, byCategory["var"].Level)
	assert.Equal(t, LevelWarning, byCategory["concentration"].Level)
	assert.Equal(t, LevelCritical, byCategory["leverage"].Level)
	assert.Equal(t, LevelEmergency, byCategory["drawdown"].Level)
	assert.Equal(t, LevelWarning, byCategory["liquidity"].Level)
	assert.Equal(t, LevelInfo, byCategory["correlation"].Level)

	assert.Equal(t, []string{"AAPL"}, byCategory["concentration"].Symbols)
}

func TestDrawdownAlertExample(t *testing.T) {
	t.Parallel()

	// Peak 1.2M, current 1.0M: 16.67% drawdown against a 5% limit.
	m := quietMetrics()
	m.Drawdown.Current = 1.0 / 6.0

	lim := DefaultLimits()
	lim.MaxDrawdown = 0.05

	alerts := GenerateAlerts(m, lim)
	if assert.Len(t, alerts, 1) {
		assert.Equal(t, LevelEmergency, alerts[0].Level)
		assert.Equal(t, "drawdown", alerts[0].Category)
	}
}
