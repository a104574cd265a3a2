package txn

import "time"

// RollbackResult records one guard's rollback attempt during unwinding.
// Err is nil when the undo succeeded.
type RollbackResult struct {
	Label string
	Err   error
}

// Outcome is the immutable result of one transaction run or abort. It is
// created once, at the end of the run, and never mutated afterwards.
type Outcome struct {
	txID       string
	label      string
	state      TransactionState
	failedStep string
	err        error
	report     []RollbackResult
	started    time.Time
	finished   time.Time
}

// TransactionID returns the engine-assigned identifier of the run.
func (o *Outcome) TransactionID() string {
	return o.txID
}

// Label returns the caller-assigned transaction label, if any.
func (o *Outcome) Label() string {
	return o.label
}

// State returns the transaction's terminal state.
func (o *Outcome) State() TransactionState {
	return o.state
}

// Committed reports whether every step applied and the transaction committed.
func (o *Outcome) Committed() bool {
	return o.state == TxCommitted
}

// FailedStep returns the label of the step whose apply failed, or "" when
// no apply failed.
func (o *Outcome) FailedStep() string {
	return o.failedStep
}

// Err returns the triggering apply error, or nil for a committed run or a
// clean abort.
func (o *Outcome) Err() error {
	return o.err
}

// RollbackReport returns the per-guard rollback results in rollback order,
// i.e. strict reverse of apply order. The slice is a copy; mutating it does
// not affect the outcome.
func (o *Outcome) RollbackReport() []RollbackResult {
	if len(o.report) == 0 {
		return nil
	}
	out := make([]RollbackResult, len(o.report))
	copy(out, o.report)
	return out
}

// RollbackFailures returns only the rollback attempts that themselves failed,
// preserving rollback order. Embedders use this to decide remediation; the
// engine has no further recovery action available.
func (o *Outcome) RollbackFailures() []RollbackResult {
	var failures []RollbackResult
	for _, r := range o.report {
		if r.Err != nil {
			failures = append(failures, r)
		}
	}
	return failures
}

// Started returns the time the run began.
func (o *Outcome) Started() time.Time {
	return o.started
}

// Finished returns the time the run produced this outcome.
func (o *Outcome) Finished() time.Time {
	return o.finished
}

// Duration returns the wall-clock duration of the run.
func (o *Outcome) Duration() time.Duration {
	return o.finished.Sub(o.started)
}
