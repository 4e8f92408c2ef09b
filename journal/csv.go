package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSV struct {
	results *csv.Writer
	alerts  *csv.Writer
	rf, af  *os.File
}

func NewCSV(resultsPath, alertsPath string) (*CSV, error) {
	rf, err := os.Create(resultsPath)
	if err != nil {
		return nil, err
	}
	af, err := os.Create(alertsPath)
	if err != nil {
		rf.Close()
		return nil, err
	}

	rw := csv.NewWriter(rf)
	aw := csv.NewWriter(af)

	if err := rw.Write([]string{
		"id", "symbol", "action", "confidence", "target_weight", "risk_score",
		"quantity", "executed", "order_id", "status", "executed_qty",
		"executed_price", "fee", "error", "reasoning", "time",
	}); err != nil {
		return nil, err
	}
	if err := aw.Write([]string{
		"id", "level", "category", "message", "recommendation", "symbols", "time",
	}); err != nil {
		return nil, err
	}

	rw.Flush()
	if err := rw.Error(); err != nil {
		return nil, err
	}
	aw.Flush()
	if err := aw.Error(); err != nil {
		return nil, err
	}

	return &CSV{results: rw, alerts: aw, rf: rf, af: af}, nil
}

func (j *CSV) RecordResult(r ResultRecord) error {
	if err := j.results.Write([]string{
		r.ID,
		r.Symbol,
		r.Action,
		f(r.Confidence),
		f(r.TargetWeight),
		f(r.RiskScore),
		strconv.FormatInt(r.Quantity, 10),
		strconv.FormatBool(r.Executed),
		r.OrderID,
		r.Status,
		strconv.FormatInt(r.ExecutedQty, 10),
		f(r.ExecutedPrice),
		f(r.Fee),
		r.Error,
		r.Reasoning,
		r.Timestamp.Format(time.RFC3339),
	}); err != nil {
		return err
	}
	j.results.Flush()
	return j.results.Error()
}

func (j *CSV) RecordAlert(a AlertRecord) error {
	if err := j.alerts.Write([]string{
		a.ID,
		a.Level,
		a.Category,
		a.Message,
		a.Recommendation,
		a.Symbols,
		a.Timestamp.Format(time.RFC3339),
	}); err != nil {
		return err
	}
	j.alerts.Flush()
	return j.alerts.Error()
}

func (j *CSV) Close() error {
	j.results.Flush()
	j.alerts.Flush()
	if err := j.rf.Close(); err != nil {
		j.af.Close()
		return err
	}
	return j.af.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
