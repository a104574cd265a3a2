package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/txnkit/txnkit/pkg/journal"
)

func newMockJournal(t *testing.T) (*Journal, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New failed: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	j, err := NewWithDB(db, nil)
	if err != nil {
		t.Fatalf("NewWithDB failed: %v", err)
	}
	return j, mock
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("expected error for missing URL")
	}
}

func TestNewWithDB_NilDB(t *testing.T) {
	if _, err := NewWithDB(nil, nil); err == nil {
		t.Error("expected error for nil db")
	}
}

func TestJournal_Append(t *testing.T) {
	j, mock := newMockJournal(t)

	rec := &journal.Record{
		TransactionID: "tx-1",
		Label:         "provision",
		Status:        "failed",
		FailedStep:    "attach",
		Error:         "attach refused",
		Rollbacks:     []journal.RollbackEntry{{Label: "allocate"}},
		StartedAt:     time.Now().UTC(),
		FinishedAt:    time.Now().UTC(),
		EngineVersion: "1.0.0",
	}

	mock.ExpectExec("INSERT INTO txn_journal").
		WithArgs(rec.TransactionID, rec.Label, rec.Status, rec.FailedStep, rec.Error,
			sqlmock.AnyArg(), rec.StartedAt, rec.FinishedAt, rec.EngineVersion).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := j.Append(context.Background(), rec); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJournal_AppendValidates(t *testing.T) {
	j, _ := newMockJournal(t)

	if err := j.Append(context.Background(), &journal.Record{}); !errors.Is(err, journal.ErrInvalidRecord) {
		t.Errorf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestJournal_AppendInsertError(t *testing.T) {
	j, mock := newMockJournal(t)

	insertErr := errors.New("connection reset")
	mock.ExpectExec("INSERT INTO txn_journal").WillReturnError(insertErr)

	rec := &journal.Record{TransactionID: "tx-1", Status: "committed"}
	if err := j.Append(context.Background(), rec); !errors.Is(err, insertErr) {
		t.Errorf("expected wrapped insert error, got %v", err)
	}
}

func TestJournal_List(t *testing.T) {
	j, mock := newMockJournal(t)

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"transaction_id", "label", "status", "failed_step", "error",
		"rollbacks", "started_at", "finished_at", "engine_version",
	}).
		AddRow("tx-2", "", "failed", "b", "boom",
			[]byte(`[{"label":"a","error":"stuck"}]`), now, now, "1.0.0").
		AddRow("tx-1", "provision", "committed", "", "",
			[]byte(`[]`), now, now, "1.0.0")

	mock.ExpectQuery("SELECT (.+) FROM txn_journal").
		WithArgs(10).
		WillReturnRows(rows)

	records, err := j.List(context.Background(), 10)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].TransactionID != "tx-2" {
		t.Errorf("expected tx-2 first, got %s", records[0].TransactionID)
	}
	if len(records[0].Rollbacks) != 1 || records[0].Rollbacks[0].Error != "stuck" {
		t.Errorf("expected rollback entry with error, got %v", records[0].Rollbacks)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJournal_ListDefaultsLimit(t *testing.T) {
	j, mock := newMockJournal(t)

	rows := sqlmock.NewRows([]string{
		"transaction_id", "label", "status", "failed_step", "error",
		"rollbacks", "started_at", "finished_at", "engine_version",
	})
	mock.ExpectQuery("SELECT (.+) FROM txn_journal").
		WithArgs(100).
		WillReturnRows(rows)

	if _, err := j.List(context.Background(), 0); err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestJournal_Close(t *testing.T) {
	j, mock := newMockJournal(t)

	mock.ExpectClose()
	if err := j.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
