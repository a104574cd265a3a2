// Package journal persists transaction outcomes for diagnostics and
// remediation. The engine itself never persists anything; embedders that
// need a durable record of what committed, what failed, and how unwinding
// went append outcomes here.
package journal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/txnkit/txnkit/pkg/txn"
	"github.com/txnkit/txnkit/pkg/version"
)

var (
	// ErrInvalidRecord classifies records that fail validation.
	ErrInvalidRecord = errors.New("journal: invalid record")
	// ErrNilOutcome is returned when a record is built from a nil outcome.
	ErrNilOutcome = errors.New("journal: outcome is nil")
	// ErrUnsupported is returned by backends that cannot serve an operation,
	// for example listing from an append-only stream.
	ErrUnsupported = errors.New("journal: operation unsupported")
)

// RollbackEntry mirrors one rollback attempt in a stored record.
type RollbackEntry struct {
	Label string `json:"label"`
	Error string `json:"error,omitempty"`
}

// Record is a flattened, serialization-friendly projection of a txn.Outcome.
type Record struct {
	TransactionID string          `json:"transaction_id"`
	Label         string          `json:"label,omitempty"`
	Status        string          `json:"status"`
	FailedStep    string          `json:"failed_step,omitempty"`
	Error         string          `json:"error,omitempty"`
	Rollbacks     []RollbackEntry `json:"rollbacks,omitempty"`
	StartedAt     time.Time       `json:"started_at"`
	FinishedAt    time.Time       `json:"finished_at"`
	EngineVersion string          `json:"engine_version"`
}

// NewRecord builds a record from a completed outcome.
func NewRecord(outcome *txn.Outcome) (*Record, error) {
	if outcome == nil {
		return nil, ErrNilOutcome
	}

	rec := &Record{
		TransactionID: outcome.TransactionID(),
		Label:         outcome.Label(),
		Status:        outcome.State().String(),
		FailedStep:    outcome.FailedStep(),
		StartedAt:     outcome.Started().UTC(),
		FinishedAt:    outcome.Finished().UTC(),
		EngineVersion: version.Current().Version,
	}
	if err := outcome.Err(); err != nil {
		rec.Error = err.Error()
	}
	for _, r := range outcome.RollbackReport() {
		entry := RollbackEntry{Label: r.Label}
		if r.Err != nil {
			entry.Error = r.Err.Error()
		}
		rec.Rollbacks = append(rec.Rollbacks, entry)
	}

	if err := rec.Validate(); err != nil {
		return nil, err
	}
	return rec, nil
}

// Validate checks that a record is complete enough to store.
func (r *Record) Validate() error {
	if r == nil {
		return ErrInvalidRecord
	}
	if r.TransactionID == "" {
		return errors.Join(ErrInvalidRecord, errors.New("transaction id is required"))
	}
	if r.Status == "" {
		return errors.Join(ErrInvalidRecord, errors.New("status is required"))
	}
	return nil
}

// Journal is the persistence contract for outcome records. List returns the
// most recent records first; backends that cannot list return ErrUnsupported.
type Journal interface {
	Append(ctx context.Context, rec *Record) error
	List(ctx context.Context, limit int) ([]*Record, error)
	Close() error
}

// Memory is an in-process Journal for tests and embedders that only need
// the current process's history. Safe for concurrent use.
type Memory struct {
	mu      sync.Mutex
	records []*Record
}

// NewMemory creates an empty in-memory journal.
func NewMemory() *Memory {
	return &Memory{}
}

// Append stores a copy of the record.
func (m *Memory) Append(ctx context.Context, rec *Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}

	cp := *rec
	cp.Rollbacks = append([]RollbackEntry(nil), rec.Rollbacks...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, &cp)
	return nil
}

// List returns up to limit records, most recent first. A non-positive limit
// returns everything.
func (m *Memory) List(ctx context.Context, limit int) ([]*Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n := len(m.records)
	if limit <= 0 || limit > n {
		limit = n
	}

	out := make([]*Record, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		cp := *m.records[i]
		out = append(out, &cp)
	}
	return out, nil
}

// Close is a no-op for the in-memory journal.
func (m *Memory) Close() error {
	return nil
}
