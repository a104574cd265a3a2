// Package sqltx adapts database/sql work into txn actions so SQL changes can
// participate in a multi-resource transaction alongside non-SQL steps.
package sqltx

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var (
	// ErrNilDB is returned when an action is constructed without a database handle.
	ErrNilDB = errors.New("sqltx: db is nil")
	// ErrNilTx is returned when a tx action is constructed without an open transaction.
	ErrNilTx = errors.New("sqltx: tx is nil")
	// ErrMissingStatement is returned when a statement action lacks its forward
	// or compensating statement.
	ErrMissingStatement = errors.New("sqltx: forward and compensating statements are required")
)

// StatementConfig pairs a forward SQL statement with the statement that
// compensates it. Compensation is the caller's design responsibility: the
// engine only guarantees it runs the compensating statement when later steps
// fail.
type StatementConfig struct {
	Forward        string
	ForwardArgs    []any
	Compensate     string
	CompensateArgs []any
}

// StatementAction executes a forward statement on Apply and its compensating
// statement on Rollback. It implements txn.Action.
type StatementAction struct {
	db  *sql.DB
	cfg StatementConfig
}

// NewStatementAction validates the configuration and returns a statement action.
func NewStatementAction(db *sql.DB, cfg StatementConfig) (*StatementAction, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	if cfg.Forward == "" || cfg.Compensate == "" {
		return nil, ErrMissingStatement
	}
	return &StatementAction{db: db, cfg: cfg}, nil
}

// Apply executes the forward statement.
func (a *StatementAction) Apply(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, a.cfg.Forward, a.cfg.ForwardArgs...); err != nil {
		return fmt.Errorf("forward statement failed: %w", err)
	}
	return nil
}

// Rollback executes the compensating statement.
func (a *StatementAction) Rollback(ctx context.Context) error {
	if _, err := a.db.ExecContext(ctx, a.cfg.Compensate, a.cfg.CompensateArgs...); err != nil {
		return fmt.Errorf("compensating statement failed: %w", err)
	}
	return nil
}

// TxAction folds an already-open *sql.Tx into a transaction as a
// rollback-capable step. Apply succeeds immediately (the database transaction
// is open and its work has been staged by the caller); Rollback calls
// tx.Rollback. After a committed outcome the embedder calls Commit to make
// the database transaction permanent.
type TxAction struct {
	tx *sql.Tx
}

// NewTxAction wraps an open database transaction.
func NewTxAction(tx *sql.Tx) (*TxAction, error) {
	if tx == nil {
		return nil, ErrNilTx
	}
	return &TxAction{tx: tx}, nil
}

// Apply reports the staged database transaction as applied.
func (a *TxAction) Apply(ctx context.Context) error {
	return nil
}

// Rollback discards the database transaction.
func (a *TxAction) Rollback(ctx context.Context) error {
	if err := a.tx.Rollback(); err != nil {
		return fmt.Errorf("tx rollback failed: %w", err)
	}
	return nil
}

// Commit makes the database transaction permanent. Call it only after the
// owning engine transaction committed.
func (a *TxAction) Commit() error {
	if err := a.tx.Commit(); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}
