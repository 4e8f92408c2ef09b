package risk

// Limits are the operator-configured risk bounds every cycle is evaluated
// against. All ratios are fractions of total assets, not percentages.
type Limits struct {
	MaxPositionSize float64 `json:"max_position_size" yaml:"max_position_size"`
	MaxDailyLoss    float64 `json:"max_daily_loss" yaml:"max_daily_loss"`
	MaxDrawdown     float64 `json:"max_drawdown" yaml:"max_drawdown"`
	MinCashRatio    float64 `json:"min_cash_ratio" yaml:"min_cash_ratio"`
	MaxLeverage     float64 `json:"max_leverage" yaml:"max_leverage"`
}

// DefaultLimits returns conservative starting limits.
func DefaultLimits() Limits {
	return Limits{
		MaxPositionSize: 0.20,
		MaxDailyLoss:    0.02,
		MaxDrawdown:     0.10,
		MinCashRatio:    0.10,
		MaxLeverage:     1.0,
	}
}
