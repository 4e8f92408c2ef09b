package journal

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLite {
	t.Helper()
	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { j.Close() })
	return j
}

func sampleResult(id string, ts time.Time) ResultRecord {
	return ResultRecord{
		ID:            id,
		Symbol:        "AAPL",
		Action:        "buy",
		Confidence:    0.82,
		TargetWeight:  0.164,
		RiskScore:     0.272,
		Quantity:      900,
		Executed:      true,
		OrderID:       "ord-" + id,
		Status:        "filled",
		ExecutedQty:   900,
		ExecutedPrice: 181.25,
		Fee:           1.63,
		Reasoning:     "signal confidence 0.82 with neutral sentiment",
		Timestamp:     ts,
	}
}

func TestSQLiteResultRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	ts := time.Now().UTC().Truncate(time.Second)
	want := sampleResult("r1", ts)
	require.NoError(t, j.RecordResult(want))

	got, err := j.GetResult("r1")
	require.NoError(t, err)

	assert.Equal(t, want.Symbol, got.Symbol)
	assert.Equal(t, want.Action, got.Action)
	assert.Equal(t, want.Confidence, got.Confidence)
	assert.Equal(t, want.ExecutedQty, got.ExecutedQty)
	assert.Equal(t, want.ExecutedPrice, got.ExecutedPrice)
	assert.True(t, got.Executed)
	assert.Equal(t, want.Reasoning, got.Reasoning)
	assert.WithinDuration(t, ts, got.Timestamp, time.Second)
}

func TestSQLiteGetResultNotFound(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	_, err := j.GetResult("missing")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListResultsBetween(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	base := time.Date(2026, 8, 28, 9, 0, 0, 0, time.UTC)

	require.NoError(t, j.RecordResult(sampleResult("r1", base)))
	require.NoError(t, j.RecordResult(sampleResult("r2", base.Add(time.Hour))))
	require.NoError(t, j.RecordResult(sampleResult("r3", base.Add(48*time.Hour))))

	got, err := j.ListResultsBetween(base, base.Add(24*time.Hour))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "r1", got[0].ID)
	assert.Equal(t, "r2", got[1].ID)
}

func TestSQLiteAlertRoundTrip(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	ts := time.Date(2026, 8, 28, 9, 30, 0, 0, time.UTC)
	require.NoError(t, j.RecordAlert(AlertRecord{
		ID:             "a1",
		Level:          "critical",
		Category:       "concentration",
		Message:        "position weight above limit",
		Recommendation: "reduce the largest positions",
		Symbols:        "AAPL,NVDA",
		Timestamp:      ts,
	}))

	got, err := j.ListAlertsBetween(ts.Add(-time.Minute), ts.Add(time.Minute))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "critical", got[0].Level)
	assert.Equal(t, "concentration", got[0].Category)
	assert.Equal(t, "AAPL,NVDA", got[0].Symbols)
}

func TestSQLiteFilteredResultPersists(t *testing.T) {
	t.Parallel()

	j := newTestSQLite(t)
	rec := ResultRecord{
		ID:        "f1",
		Symbol:    "MSFT",
		Action:    "buy",
		Error:     "filtered: daily trade limit",
		Timestamp: time.Now().UTC(),
	}
	require.NoError(t, j.RecordResult(rec))

	got, err := j.GetResult("f1")
	require.NoError(t, err)
	assert.False(t, got.Executed)
	assert.Equal(t, "filtered: daily trade limit", got.Error)
	assert.Empty(t, got.OrderID)
}
