package risk

// Action is the protective measure a tripped breaker demands. The set is
// closed; the emergency responder switches over it exhaustively.
type Action int

const (
	ActionHaltTrading Action = iota
	ActionReducePosition
	ActionEmergencyExit
)

func (a Action) String() string {
	switch a {
	case ActionHaltTrading:
		return "halt_trading"
	case ActionReducePosition:
		return "reduce_position"
	case ActionEmergencyExit:
		return "emergency_exit"
	}
	return "unknown"
}

// Breaker is one evaluated circuit breaker for the current cycle.
type Breaker struct {
	Name         string
	Threshold    float64
	CurrentValue float64
	Triggered    bool
	Action       Action
	Description  string
}

// varBreakerScale mirrors varAlertScale at double the budget: the breaker
// compares 99% VaR against twice the alert's currency threshold.
const varBreakerScale = 20000

// EvaluateBreakers evaluates the three fixed protective breakers. All three
// are always returned, independently evaluated; several may trip in the same
// cycle.
func EvaluateBreakers(m Metrics, lim Limits) []Breaker {
	breakers := []Breaker{
		{
			Name:         "emergency_var",
			Threshold:    lim.MaxDailyLoss * varBreakerScale,
			CurrentValue: m.VaR99,
			Action:       ActionEmergencyExit,
			Description:  "99% VaR beyond twice the daily loss budget forces liquidation",
		},
		{
			Name:         "drawdown",
			Threshold:    lim.MaxDrawdown * 2,
			CurrentValue: m.Drawdown.Current,
			Action:       ActionHaltTrading,
			Description:  "drawdown beyond twice the configured limit halts trading",
		},
		{
			Name:         "leverage",
			Threshold:    lim.MaxLeverage * 1.5,
			CurrentValue: m.Leverage,
			Action:       ActionReducePosition,
			Description:  "leverage beyond 1.5x the configured limit halves positions",
		},
	}

	for i := range breakers {
		breakers[i].Triggered = breakers[i].CurrentValue > breakers[i].Threshold
	}
	return breakers
}
