package recorder

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/kipto05/ict-ml/internal/model"
)

// SQLiteRecorder persists scan runs and structure events to a SQLite
// database. Prices are stored as TEXT so decimal values survive exactly.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the bot writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite recorder opened: %s", dbPath)
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scan_runs (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id      TEXT NOT NULL UNIQUE,
			timestamp   INTEGER NOT NULL,
			symbol      TEXT NOT NULL,
			timeframe   TEXT NOT NULL,
			bar_count   INTEGER,
			trend       TEXT,
			swing_count INTEGER,
			bos_count   INTEGER,
			choch_count INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_ts ON scan_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS swing_points (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id     TEXT NOT NULL,
			timestamp  INTEGER NOT NULL,
			kind       TEXT NOT NULL,
			price      TEXT NOT NULL,
			bar_index  INTEGER NOT NULL,
			lookback   INTEGER NOT NULL,
			strength   INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_swings_run ON swing_points(run_id)`,

		`CREATE TABLE IF NOT EXISTS bos_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			direction    TEXT NOT NULL,
			broken_index INTEGER NOT NULL,
			broken_price TEXT NOT NULL,
			break_price  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bos_run ON bos_events(run_id)`,

		`CREATE TABLE IF NOT EXISTS choch_events (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			choch_type   TEXT NOT NULL,
			broken_index INTEGER NOT NULL,
			broken_price TEXT NOT NULL,
			break_price  TEXT NOT NULL,
			prior_trend  TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_choch_run ON choch_events(run_id)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScan(rec *ScanRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scan_runs
		(run_id, timestamp, symbol, timeframe, bar_count, trend, swing_count, bos_count, choch_count)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.RunID, time.Now().Unix(), rec.Symbol, rec.Timeframe,
		rec.BarCount, string(rec.Trend), rec.Swings, rec.BOSCount, rec.CHoCH,
	)
	return err
}

func (r *SQLiteRecorder) RecordSwings(runID string, swings []model.SwingPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range swings {
		if _, err := r.db.Exec(`INSERT INTO swing_points
			(run_id, timestamp, kind, price, bar_index, lookback, strength)
			VALUES (?,?,?,?,?,?,?)`,
			runID, s.Timestamp.Unix(), string(s.Kind), s.Price.String(),
			s.Index, s.Lookback, s.Strength,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordBOS(runID string, events []model.BOSEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		if _, err := r.db.Exec(`INSERT INTO bos_events
			(run_id, timestamp, direction, broken_index, broken_price, break_price)
			VALUES (?,?,?,?,?,?)`,
			runID, e.Timestamp.Unix(), string(e.Direction),
			e.BrokenSwing.Index, e.BrokenSwing.Price.String(), e.BreakPrice.String(),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordCHoCH(runID string, events []model.CHoCHEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range events {
		if _, err := r.db.Exec(`INSERT INTO choch_events
			(run_id, timestamp, choch_type, broken_index, broken_price, break_price, prior_trend)
			VALUES (?,?,?,?,?,?,?)`,
			runID, e.Timestamp.Unix(), string(e.Type),
			e.BrokenSwing.Index, e.BrokenSwing.Price.String(), e.BreakPrice.String(),
			string(e.PriorTrend),
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRecorder) Close() error {
	log.Println("[INFO] closing sqlite recorder")
	return r.db.Close()
}
