package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetResult returns a single result record by ID.
func (j *SQLite) GetResult(id string) (ResultRecord, error) {
	var rec ResultRecord

	row := j.db.QueryRow(`
		SELECT id, symbol, action, confidence, target_weight, risk_score, quantity, executed,
		       order_id, status, executed_qty, executed_price, fee, error, reasoning, time
		FROM results
		WHERE id = ?`, id)

	err := scanResult(row.Scan, &rec)
	if err != nil {
		if err == sql.ErrNoRows {
			return ResultRecord{}, fmt.Errorf("result %q not found", id)
		}
		return ResultRecord{}, err
	}
	return rec, nil
}

// ListResultsBetween returns results recorded within [start, end).
func (j *SQLite) ListResultsBetween(start, end time.Time) ([]ResultRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, symbol, action, confidence, target_weight, risk_score, quantity, executed,
		       order_id, status, executed_qty, executed_price, fee, error, reasoning, time
		FROM results
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ResultRecord
	for rows.Next() {
		var rec ResultRecord
		if err := scanResult(rows.Scan, &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListAlertsBetween returns alerts recorded within [start, end).
func (j *SQLite) ListAlertsBetween(start, end time.Time) ([]AlertRecord, error) {
	rows, err := j.db.Query(`
		SELECT id, level, category, message, recommendation, symbols, time
		FROM alerts
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []AlertRecord
	for rows.Next() {
		var rec AlertRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.Level,
			&rec.Category,
			&rec.Message,
			&rec.Recommendation,
			&rec.Symbols,
			&rec.Timestamp,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanResult(scan func(dest ...any) error, rec *ResultRecord) error {
	return scan(
		&rec.ID,
		&rec.Symbol,
		&rec.Action,
		&rec.Confidence,
		&rec.TargetWeight,
		&rec.RiskScore,
		&rec.Quantity,
		&rec.Executed,
		&rec.OrderID,
		&rec.Status,
		&rec.ExecutedQty,
		&rec.ExecutedPrice,
		&rec.Fee,
		&rec.Error,
		&rec.Reasoning,
		&rec.Timestamp,
	)
}
