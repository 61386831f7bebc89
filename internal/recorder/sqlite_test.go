package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kipto05/ict-ml/internal/model"
)

func openTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RoundTrip(t *testing.T) {
	r := openTestRecorder(t)

	ts := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	swing, err := model.NewSwingPoint(ts, decimal.RequireFromString("1.0870"), model.SwingHigh, 5, 5, 10)
	require.NoError(t, err)

	require.NoError(t, r.RecordScan(&ScanRecord{
		RunID: "run-1", Symbol: "EURUSD", Timeframe: "H1",
		BarCount: 500, Trend: model.TrendBullish, Swings: 1,
	}))
	require.NoError(t, r.RecordSwings("run-1", []model.SwingPoint{swing}))
	require.NoError(t, r.RecordBOS("run-1", []model.BOSEvent{{
		Direction:   model.BOSBullish,
		BrokenSwing: swing,
		BreakPrice:  decimal.RequireFromString("1.0890"),
		Timestamp:   ts.Add(3 * time.Hour),
	}}))
	require.NoError(t, r.RecordCHoCH("run-1", []model.CHoCHEvent{{
		Type:        model.CHoCHBullishToBearish,
		BrokenSwing: swing,
		BreakPrice:  decimal.RequireFromString("1.0810"),
		PriorTrend:  model.TrendBullish,
		Timestamp:   ts.Add(5 * time.Hour),
	}}))

	var trend, price string
	require.NoError(t, r.db.QueryRow(
		`SELECT trend FROM scan_runs WHERE run_id = ?`, "run-1").Scan(&trend))
	assert.Equal(t, "bullish", trend)

	require.NoError(t, r.db.QueryRow(
		`SELECT price FROM swing_points WHERE run_id = ?`, "run-1").Scan(&price))
	assert.Equal(t, swing.Price.String(), price)

	var count int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM bos_events`).Scan(&count))
	assert.Equal(t, 1, count)
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM choch_events`).Scan(&count))
	assert.Equal(t, 1, count)
}

func TestSQLiteRecorder_DuplicateRunIDRejected(t *testing.T) {
	r := openTestRecorder(t)
	rec := &ScanRecord{RunID: "dup", Symbol: "EURUSD", Timeframe: "H1"}
	require.NoError(t, r.RecordScan(rec))
	assert.Error(t, r.RecordScan(rec))
}
