package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"GoldDashboard/internal/model"

	"github.com/moznion/go-optional"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the run log to a SQLite database.
type SQLiteRecorder struct {
	db     *sql.DB
	mu     sync.Mutex
	logger *zap.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *zap.Logger) (*SQLiteRecorder, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL so the dashboard can read runs while the reporter writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, logger: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.Info("sqlite recorder opened", zap.String("path", dbPath))
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS report_runs (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id       TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			report_date  TEXT NOT NULL,
			status       TEXT NOT NULL,
			records      INTEGER,
			open_price   REAL,
			close_price  REAL,
			min_price    REAL,
			max_price    REAL,
			volatility   REAL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_report_runs_ts ON report_runs(timestamp)`,

		`CREATE TABLE IF NOT EXISTS load_failures (
			id        INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp INTEGER NOT NULL,
			source    TEXT,
			status    TEXT,
			error     TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_load_failures_ts ON load_failures(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordReport(rep *model.DailyReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := rep.KPIs
	_, err := r.db.Exec(`INSERT INTO report_runs
		(run_id, timestamp, report_date, status, records,
		 open_price, close_price, min_price, max_price, volatility)
		VALUES (?,?,?,?,?,?,?,?,?,?)`,
		rep.RunID, rep.GeneratedAt.Unix(), rep.Day.Format(model.DateLayout), string(rep.Status), k.Count,
		nullable(k.Open), nullable(k.Last), nullable(k.Min), nullable(k.Max), nullable(k.Volatility),
	)
	return err
}

func (r *SQLiteRecorder) RecordLoadFailure(evt *LoadEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO load_failures
		(timestamp, source, status, error)
		VALUES (?,?,?,?)`,
		time.Now().Unix(), evt.Source, string(evt.Status), evt.Error,
	)
	return err
}

// RecentReports returns the latest runs, newest first.
func (r *SQLiteRecorder) RecentReports(limit int) ([]ReportRun, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.db.Query(`SELECT run_id, timestamp, report_date, status, records,
		open_price, close_price, min_price, max_price, volatility
		FROM report_runs ORDER BY timestamp DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query report runs: %w", err)
	}
	defer rows.Close()

	var runs []ReportRun
	for rows.Next() {
		var (
			run                            ReportRun
			ts                             int64
			status                         string
			open, closeP, low, high, volat sql.NullFloat64
		)
		if err := rows.Scan(&run.RunID, &ts, &run.Day, &status, &run.Records,
			&open, &closeP, &low, &high, &volat); err != nil {
			return nil, fmt.Errorf("scan report run: %w", err)
		}
		run.GeneratedAt = time.Unix(ts, 0)
		run.Status = model.ReportStatus(status)
		run.Open = ptr(open)
		run.Close = ptr(closeP)
		run.Min = ptr(low)
		run.Max = ptr(high)
		run.Volatility = ptr(volat)
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.logger.Info("closing sqlite recorder")
	return r.db.Close()
}

func nullable(v optional.Option[float64]) sql.NullFloat64 {
	if v.IsNone() {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v.Unwrap(), Valid: true}
}

func ptr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
