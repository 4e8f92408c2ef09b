package journal

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordResult(r ResultRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO results
		(id, symbol, action, confidence, target_weight, risk_score, quantity, executed,
		 order_id, status, executed_qty, executed_price, fee, error, reasoning, time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Symbol, r.Action, r.Confidence, r.TargetWeight, r.RiskScore, r.Quantity,
		r.Executed, r.OrderID, r.Status, r.ExecutedQty, r.ExecutedPrice, r.Fee,
		r.Error, r.Reasoning, r.Timestamp,
	)
	return err
}

func (j *SQLite) RecordAlert(a AlertRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO alerts
		(id, level, category, message, recommendation, symbols, time)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Level, a.Category, a.Message, a.Recommendation, a.Symbols, a.Timestamp,
	)
	return err
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
