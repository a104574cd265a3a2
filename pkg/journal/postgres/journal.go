// Package postgres provides a PostgreSQL-backed outcome journal.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/txnkit/txnkit/pkg/journal"
	"github.com/txnkit/txnkit/pkg/observability/logger"
)

// CreateJournalTable defines the reference PostgreSQL schema for the journal.
const CreateJournalTable = `
CREATE TABLE IF NOT EXISTS txn_journal (
  transaction_id TEXT PRIMARY KEY,
  label TEXT NOT NULL DEFAULT '',
  status TEXT NOT NULL,
  failed_step TEXT NOT NULL DEFAULT '',
  error TEXT NOT NULL DEFAULT '',
  rollbacks JSONB NOT NULL DEFAULT '[]'::jsonb,
  started_at TIMESTAMPTZ NOT NULL,
  finished_at TIMESTAMPTZ NOT NULL,
  engine_version TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_txn_journal_finished_at ON txn_journal (finished_at);
`

// Config holds PostgreSQL connection configuration for the journal.
type Config struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	QueryTimeout    time.Duration
}

// Journal is a PostgreSQL-backed journal. It implements journal.Journal.
type Journal struct {
	db     *sql.DB
	logger logger.Logger
	config Config
}

// New opens a pooled connection and verifies it.
func New(cfg Config, log logger.Logger) (*Journal, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("postgres URL is required")
	}
	if log == nil {
		log = logger.NewNop()
	}

	db, err := sql.Open("postgres", cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("journal database connection established",
		"max_open_conns", cfg.MaxOpenConns,
		"max_idle_conns", cfg.MaxIdleConns,
	)

	return &Journal{db: db, logger: log, config: cfg}, nil
}

// NewWithDB wraps an existing database handle. Used by tests and embedders
// that manage their own pool.
func NewWithDB(db *sql.DB, log logger.Logger) (*Journal, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Journal{db: db, logger: log}, nil
}

// EnsureSchema creates the journal table if it does not exist.
func (j *Journal) EnsureSchema(ctx context.Context) error {
	if _, err := j.db.ExecContext(ctx, CreateJournalTable); err != nil {
		return fmt.Errorf("failed to create journal schema: %w", err)
	}
	return nil
}

// Append inserts one outcome record.
func (j *Journal) Append(ctx context.Context, rec *journal.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	rollbacks, err := json.Marshal(rec.Rollbacks)
	if err != nil {
		return fmt.Errorf("failed to marshal rollback entries: %w", err)
	}

	_, err = j.db.ExecContext(ctx,
		`INSERT INTO txn_journal
		   (transaction_id, label, status, failed_step, error, rollbacks, started_at, finished_at, engine_version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		rec.TransactionID, rec.Label, rec.Status, rec.FailedStep, rec.Error,
		rollbacks, rec.StartedAt, rec.FinishedAt, rec.EngineVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal record: %w", err)
	}
	return nil
}

// List returns up to limit records, most recently finished first.
func (j *Journal) List(ctx context.Context, limit int) ([]*journal.Record, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT transaction_id, label, status, failed_step, error, rollbacks, started_at, finished_at, engine_version
		   FROM txn_journal
		  ORDER BY finished_at DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var records []*journal.Record
	for rows.Next() {
		var rec journal.Record
		var rollbacks []byte
		if err := rows.Scan(
			&rec.TransactionID, &rec.Label, &rec.Status, &rec.FailedStep, &rec.Error,
			&rollbacks, &rec.StartedAt, &rec.FinishedAt, &rec.EngineVersion,
		); err != nil {
			return nil, fmt.Errorf("failed to scan journal record: %w", err)
		}
		if len(rollbacks) > 0 {
			if err := json.Unmarshal(rollbacks, &rec.Rollbacks); err != nil {
				return nil, fmt.Errorf("failed to unmarshal rollback entries: %w", err)
			}
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal records: %w", err)
	}
	return records, nil
}

// Ping verifies the database connection is alive.
func (j *Journal) Ping(ctx context.Context) error {
	return j.db.PingContext(ctx)
}

// Close closes the underlying database handle.
func (j *Journal) Close() error {
	return j.db.Close()
}
