package engine

// State is the engine-owned running state. It is created with the engine and
// dies with it; a process restart deliberately resets everything here,
// including drawdown baselines. Daily counters reset exactly once per
// calendar-date rollover.
type State struct {
	IsRunning       bool
	DailyTradeCount int
	LastTradeDate   string // YYYY-MM-DD of the last counted trading day
	TotalTrades     int
	WinTrades       int
	TotalPnL        float64
	MaxDrawdown     float64
}

// Performance summarizes cumulative trading outcomes.
type Performance struct {
	TotalTrades    int
	WinTrades      int
	WinRate        float64
	TotalPnL       float64
	AvgPnLPerTrade float64
	MaxDrawdown    float64
}

const dateLayout = "2006-01-02"

// rolloverDailyLocked resets the daily counter when the calendar date has
// changed since the last counted trade. Caller holds e.mu.
func (e *Engine) rolloverDailyLocked() {
	today := e.now().Format(dateLayout)
	if e.state.LastTradeDate != today {
		e.state.DailyTradeCount = 0
		e.state.LastTradeDate = today
	}
}
