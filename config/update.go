package config

// Update carries a partial configuration change; nil fields are left as-is.
// The engine applies updates between cycles so a change never affects a
// batch already executing.
type Update struct {
	ConfidenceThreshold *float64 `json:"confidence_threshold,omitempty" yaml:"confidence_threshold,omitempty"`
	MaxTradesPerDay     *int     `json:"max_trades_per_day,omitempty" yaml:"max_trades_per_day,omitempty"`
	TargetSymbols       []string `json:"target_symbols,omitempty" yaml:"target_symbols,omitempty"`
	RebalanceFrequency  *string  `json:"rebalance_frequency,omitempty" yaml:"rebalance_frequency,omitempty"`

	MaxPositionSize *float64 `json:"max_position_size,omitempty" yaml:"max_position_size,omitempty"`
	MaxDailyLoss    *float64 `json:"max_daily_loss,omitempty" yaml:"max_daily_loss,omitempty"`
	MaxDrawdown     *float64 `json:"max_drawdown,omitempty" yaml:"max_drawdown,omitempty"`
	MinCashRatio    *float64 `json:"min_cash_ratio,omitempty" yaml:"min_cash_ratio,omitempty"`
	MaxLeverage     *float64 `json:"max_leverage,omitempty" yaml:"max_leverage,omitempty"`
}

// Apply merges the update into the configuration.
func (c *Config) Apply(u Update) {
	if u.ConfidenceThreshold != nil {
		c.ConfidenceThreshold = *u.ConfidenceThreshold
	}
	if u.MaxTradesPerDay != nil {
		c.MaxTradesPerDay = *u.MaxTradesPerDay
	}
	if u.TargetSymbols != nil {
		c.TargetSymbols = append([]string(nil), u.TargetSymbols...)
	}
	if u.RebalanceFrequency != nil {
		c.RebalanceFrequency = *u.RebalanceFrequency
	}
	if u.MaxPositionSize != nil {
		c.Risk.MaxPositionSize = *u.MaxPositionSize
	}
	if u.MaxDailyLoss != nil {
		c.Risk.MaxDailyLoss = *u.MaxDailyLoss
	}
	if u.MaxDrawdown != nil {
		c.Risk.MaxDrawdown = *u.MaxDrawdown
	}
	if u.MinCashRatio != nil {
		c.Risk.MinCashRatio = *u.MinCashRatio
	}
	if u.MaxLeverage != nil {
		c.Risk.MaxLeverage = *u.MaxLeverage
	}
}
