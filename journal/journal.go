// Package journal persists the audit trail: one row per trading decision
// outcome and one per risk alert. Backends: CSV, SQLite, or Nop.
package journal

import "time"

// ResultRecord is the flattened audit row for one decision outcome, whether
// it executed, was rejected by the broker, or was filtered before submission.
type ResultRecord struct {
	ID            string
	Symbol        string
	Action        string
	Confidence    float64
	TargetWeight  float64
	RiskScore     float64
	Quantity      int64
	Executed      bool
	OrderID       string
	Status        string
	ExecutedQty   int64
	ExecutedPrice float64
	Fee           float64
	Error         string
	Reasoning     string
	Timestamp     time.Time
}

// AlertRecord is the flattened audit row for one risk alert.
type AlertRecord struct {
	ID             string
	Level          string
	Category       string
	Message        string
	Recommendation string
	Symbols        string
	Timestamp      time.Time
}

type Journal interface {
	RecordResult(ResultRecord) error
	RecordAlert(AlertRecord) error
	Close() error
}

// Nop discards everything; used when journaling is disabled.
type Nop struct{}

func (Nop) RecordResult(ResultRecord) error { return nil }
func (Nop) RecordAlert(AlertRecord) error   { return nil }
func (Nop) Close() error                    { return nil }
