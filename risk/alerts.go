package risk

import (
	"fmt"
	"time"
)

type AlertLevel string

const (
	LevelInfo      AlertLevel = "info"
	LevelWarning   AlertLevel = "warning"
	LevelCritical  AlertLevel = "critical"
	LevelEmergency AlertLevel = "emergency"
)

// Alert is a human-readable finding from one cycle's metrics. Alerts are
// regenerated every cycle and never carried over.
type Alert struct {
	Level          AlertLevel
	Category       string
	Message        string
	Recommendation string
	Timestamp      time.Time
	Symbols        []string
}

const (
	// varAlertScale converts the max-daily-loss fraction into the currency
	// amount the simulated VaR is compared against.
	varAlertScale = 10000

	minLiquidityRatio  = 0.30
	maxAvgCorrelation  = 0.70
)

// GenerateAlerts evaluates the six alert rules independently; every rule
// that matches produces an alert, with no short-circuiting between them.
func GenerateAlerts(m Metrics, lim Limits) []Alert {
	now := time.Now()
	var alerts []Alert

	if m.VaR95 > lim.MaxDailyLoss*varAlertScale {
		alerts = append(alerts, Alert{
			Level:          LevelCritical,
			Category:       "var",
			Message:        fmt.Sprintf("95%% VaR %.0f exceeds daily loss budget %.0f", m.VaR95, lim.MaxDailyLoss*varAlertScale),
			Recommendation: "reduce overall position size or hedge the largest exposures",
			Timestamp:      now,
		})
	}

	if m.Concentration.MaxSinglePosition > lim.MaxPositionSize {
		a := Alert{
			Level:          LevelWarning,
			Category:       "concentration",
			Message:        fmt.Sprintf("largest position is %.1f%% of assets (limit %.1f%%)", m.Concentration.MaxSinglePosition*100, lim.MaxPositionSize*100),
			Recommendation: "trim the largest position toward the configured cap",
			Timestamp:      now,
		}
		for _, p := range m.Concentration.TopPositions {
			if p.Weight > lim.MaxPositionSize {
				a.Symbols = append(a.Symbols, p.Symbol)
			}
		}
		alerts = append(alerts, a)
	}

	if m.Leverage > lim.MaxLeverage {
		alerts = append(alerts, Alert{
			Level:          LevelCritical,
			Category:       "leverage",
			Message:        fmt.Sprintf("leverage %.2f exceeds limit %.2f", m.Leverage, lim.MaxLeverage),
			Recommendation: "sell down holdings to restore the cash buffer",
			Timestamp:      now,
		})
	}

	if m.Drawdown.Current > lim.MaxDrawdown {
		alerts = append(alerts, Alert{
			Level:          LevelEmergency,
			Category:       "drawdown",
			Message:        fmt.Sprintf("drawdown %.1f%% from peak exceeds limit %.1f%%", m.Drawdown.Current*100, lim.MaxDrawdown*100),
			Recommendation: "halt new entries and review open positions immediately",
			Timestamp:      now,
		})
	}

	if m.Liquidity.Ratio < minLiquidityRatio {
		alerts = append(alerts, Alert{
			Level:          LevelWarning,
			Category:       "liquidity",
			Message:        fmt.Sprintf("liquidity ratio %.2f below %.2f", m.Liquidity.Ratio, minLiquidityRatio),
			Recommendation: "favor higher-volume names when rebalancing",
			Timestamp:      now,
		})
	}

	if m.Correlation.Avg > maxAvgCorrelation {
		alerts = append(alerts, Alert{
			Level:          LevelInfo,
			Category:       "correlation",
			Message:        fmt.Sprintf("average pairwise correlation %.2f above %.2f", m.Correlation.Avg, maxAvgCorrelation),
			Recommendation: "diversify across less correlated sectors",
			Timestamp:      now,
		})
	}

	return alerts
}
