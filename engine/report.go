package engine

import (
	"fmt"
	"sort"
	"strings"
)

// RiskReport renders a text summary of the latest metrics and alerts.
func (e *Engine) RiskReport() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.hasMetrics {
		return "No risk metrics computed yet.\n"
	}

	m := e.lastMetrics
	var b strings.Builder

	fmt.Fprintf(&b, "Risk Report (%s)\n", m.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total assets:        %.2f\n", m.TotalAssets)
	fmt.Fprintf(&b, "VaR 95%% / 99%%:       %.2f / %.2f\n", m.VaR95, m.VaR99)
	fmt.Fprintf(&b, "Expected shortfall:  %.2f\n", m.ExpectedShortfall)
	fmt.Fprintf(&b, "Leverage:            %.2f\n", m.Leverage)
	fmt.Fprintf(&b, "Max single position: %.1f%%\n", m.Concentration.MaxSinglePosition*100)
	fmt.Fprintf(&b, "Liquidity ratio:     %.2f (impact %.4f)\n", m.Liquidity.Ratio, m.Liquidity.MarketImpactScore)
	fmt.Fprintf(&b, "Correlation avg/max: %.2f / %.2f\n", m.Correlation.Avg, m.Correlation.Max)
	fmt.Fprintf(&b, "Drawdown:            %.1f%% (max %.1f%%, %d cycles below peak)\n",
		m.Drawdown.Current*100, m.Drawdown.Max*100, m.Drawdown.DurationCycles)

	if len(m.Concentration.BySector) > 0 {
		b.WriteString("Sector weights:\n")
		sectors := make([]string, 0, len(m.Concentration.BySector))
		for s := range m.Concentration.BySector {
			sectors = append(sectors, s)
		}
		sort.Strings(sectors)
		for _, s := range sectors {
			fmt.Fprintf(&b, "  %-14s %.1f%%\n", s, m.Concentration.BySector[s]*100)
		}
	}

	if len(e.lastAlerts) == 0 {
		b.WriteString("Alerts: none\n")
	} else {
		fmt.Fprintf(&b, "Alerts (%d):\n", len(e.lastAlerts))
		for _, a := range e.lastAlerts {
			fmt.Fprintf(&b, "  [%s] %s: %s (%s)\n", a.Level, a.Category, a.Message, a.Recommendation)
		}
	}

	return b.String()
}
