// Package metrics exposes Prometheus instrumentation for the decision loop.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	RebalanceCycles = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "engine",
			Name:      "rebalance_cycles_total",
			Help:      "Completed rebalancing cycles",
		},
	)

	OrdersSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "engine",
			Name:      "orders_submitted_total",
			Help:      "Successfully executed orders by side",
		},
		[]string{"side"},
	)

	OrdersFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "engine",
			Name:      "orders_failed_total",
			Help:      "Order submissions rejected by the broker",
		},
	)

	DecisionsFiltered = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "engine",
			Name:      "decisions_filtered_total",
			Help:      "Decisions dropped before submission, by reason",
		},
		[]string{"reason"},
	)

	BreakerTrips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "risk",
			Name:      "breaker_trips_total",
			Help:      "Circuit breaker trips by breaker name",
		},
		[]string{"breaker"},
	)

	ForcedExits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tradepilot",
			Subsystem: "engine",
			Name:      "forced_exits_total",
			Help:      "Stop-loss and take-profit forced sells",
		},
		[]string{"kind"},
	)

	PortfolioValue = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tradepilot",
			Subsystem: "risk",
			Name:      "portfolio_value",
			Help:      "Latest total asset value",
		},
	)

	VaR95 = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tradepilot",
			Subsystem: "risk",
			Name:      "var95",
			Help:      "Latest 95% value at risk",
		},
	)

	Leverage = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tradepilot",
			Subsystem: "risk",
			Name:      "leverage",
			Help:      "Latest leverage ratio",
		},
	)

	Drawdown = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "tradepilot",
			Subsystem: "risk",
			Name:      "drawdown",
			Help:      "Latest drawdown from peak",
		},
	)
)

func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			RebalanceCycles,
			OrdersSubmitted,
			OrdersFailed,
			DecisionsFiltered,
			BreakerTrips,
			ForcedExits,
			PortfolioValue,
			VaR95,
			Leverage,
			Drawdown,
		)
	})
}
