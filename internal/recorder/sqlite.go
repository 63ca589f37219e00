package recorder

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists the audit log to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Entry
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL lets dashboards read while the service writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger.WithField("component", "recorder")}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	r.log.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS scenario_turns (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			turn_id        TEXT NOT NULL,
			timestamp      INTEGER NOT NULL,
			business_id    TEXT,
			command        TEXT,
			delta_kind     TEXT,
			description    TEXT,
			revenue_before REAL,
			revenue_after  REAL,
			expense_before REAL,
			expense_after  REAL,
			net_before     REAL,
			net_after      REAL,
			advisor        TEXT,
			advice_chars   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_scenario_ts ON scenario_turns(timestamp)`,

		`CREATE TABLE IF NOT EXISTS question_turns (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			turn_id      TEXT NOT NULL,
			timestamp    INTEGER NOT NULL,
			business_id  TEXT,
			question     TEXT,
			advisor      TEXT,
			advice_chars INTEGER,
			failed       INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_question_ts ON question_turns(timestamp)`,

		`CREATE TABLE IF NOT EXISTS digests (
			id           INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp    INTEGER NOT NULL,
			business_id  TEXT,
			has_scenario INTEGER,
			channels     INTEGER,
			failures     INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_digest_ts ON digests(timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordScenario(evt *ScenarioEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO scenario_turns
		(turn_id, timestamp, business_id, command, delta_kind, description,
		 revenue_before, revenue_after, expense_before, expense_after,
		 net_before, net_after, advisor, advice_chars)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		evt.TurnID, time.Now().Unix(), evt.BusinessID, evt.Command, evt.DeltaKind, evt.Description,
		evt.RevenueBefore, evt.RevenueAfter, evt.ExpenseBefore, evt.ExpenseAfter,
		evt.NetBefore, evt.NetAfter, evt.Advisor, evt.AdviceChars,
	)
	return err
}

func (r *SQLiteRecorder) RecordQuestion(evt *QuestionEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO question_turns
		(turn_id, timestamp, business_id, question, advisor, advice_chars, failed)
		VALUES (?,?,?,?,?,?,?)`,
		evt.TurnID, time.Now().Unix(), evt.BusinessID, evt.Question,
		evt.Advisor, evt.AdviceChars, evt.Failed,
	)
	return err
}

func (r *SQLiteRecorder) RecordDigest(evt *DigestEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO digests
		(timestamp, business_id, has_scenario, channels, failures)
		VALUES (?,?,?,?,?)`,
		time.Now().Unix(), evt.BusinessID, evt.HasScenario, evt.Channels, evt.Failures,
	)
	return err
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
