package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rdelaney/orchestra/internal/model"

	_ "modernc.org/sqlite"
)

const createRunsTable = `
CREATE TABLE IF NOT EXISTS runs (
    id            TEXT PRIMARY KEY,
    mode          TEXT NOT NULL,
    client_mode   TEXT NOT NULL,
    concurrent    INTEGER NOT NULL,
    agent_count   INTEGER NOT NULL,
    success_count INTEGER NOT NULL,
    fail_count    INTEGER NOT NULL,
    started_at    DATETIME NOT NULL,
    finished_at   DATETIME
)`

const createResultsTable = `
CREATE TABLE IF NOT EXISTS agent_results (
    id           INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id       TEXT NOT NULL,
    seq          INTEGER NOT NULL,
    agent        TEXT NOT NULL,
    status       TEXT NOT NULL,
    output       TEXT,
    error        TEXT,
    client_mode  TEXT NOT NULL,
    completed_at DATETIME NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
)`

// Compile-time interface satisfaction check.
var _ Store = (*SQLiteStore)(nil)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens the SQLite database at dbPath and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	for _, stmt := range []string{createRunsTable, createResultsTable} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("create tables: %w", err)
		}
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateRun inserts a run record and its ordered results in one transaction.
func (s *SQLiteStore) CreateRun(ctx context.Context, run *model.Run) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO runs (
			id, mode, client_mode, concurrent, agent_count,
			success_count, fail_count, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Mode, run.ClientMode, run.Concurrent, run.AgentCount,
		run.SuccessCount, run.FailCount, run.StartedAt, run.FinishedAt,
	); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for seq, r := range run.Results {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO agent_results (
				run_id, seq, agent, status, output, error, client_mode, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			run.ID, seq, r.Agent, r.Status, r.Output, r.Error, r.ClientMode, r.Timestamp,
		); err != nil {
			return fmt.Errorf("insert result %d: %w", seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}

// GetRun retrieves a run by ID with its results in batch order.
func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*model.Run, error) {
	run := &model.Run{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, mode, client_mode, concurrent, agent_count,
			success_count, fail_count, started_at, finished_at
		FROM runs WHERE id = ?`, id,
	).Scan(
		&run.ID, &run.Mode, &run.ClientMode, &run.Concurrent, &run.AgentCount,
		&run.SuccessCount, &run.FailCount, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT agent, status, output, error, client_mode, completed_at
		FROM agent_results WHERE run_id = ? ORDER BY seq`, id,
	)
	if err != nil {
		return nil, fmt.Errorf("get run results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var r model.Result
		if err := rows.Scan(&r.Agent, &r.Status, &r.Output, &r.Error, &r.ClientMode, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		run.Results = append(run.Results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate results: %w", err)
	}

	return run, nil
}

// ListRuns returns a paginated list of runs ordered by started_at DESC,
// along with the total count of all runs.
func (s *SQLiteStore) ListRuns(ctx context.Context, limit, offset int) ([]*model.Run, int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin read tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM runs").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count runs: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id, mode, client_mode, concurrent, agent_count,
			success_count, fail_count, started_at, finished_at
		FROM runs ORDER BY started_at DESC LIMIT ? OFFSET ?`, limit, offset,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []*model.Run
	for rows.Next() {
		run := &model.Run{}
		if err := rows.Scan(
			&run.ID, &run.Mode, &run.ClientMode, &run.Concurrent, &run.AgentCount,
			&run.SuccessCount, &run.FailCount, &run.StartedAt, &run.FinishedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate runs: %w", err)
	}

	return runs, total, nil
}

// GetRunStats computes aggregate statistics over all runs.
func (s *SQLiteStore) GetRunStats(ctx context.Context) (*RunStats, error) {
	stats := &RunStats{CountByMode: make(map[string]int)}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
			COALESCE(SUM(agent_count), 0),
			COALESCE(SUM(success_count), 0),
			COALESCE(SUM(fail_count), 0)
		FROM runs`,
	).Scan(&stats.Total, &stats.AgentsRun, &stats.AgentsSucceeded, &stats.AgentsFailed)
	if err != nil {
		return nil, fmt.Errorf("run totals: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, "SELECT mode, COUNT(*) FROM runs GROUP BY mode")
	if err != nil {
		return nil, fmt.Errorf("count by mode: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var mode string
		var count int
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, fmt.Errorf("scan mode count: %w", err)
		}
		stats.CountByMode[mode] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate mode counts: %w", err)
	}

	return stats, nil
}
