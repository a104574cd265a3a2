package txn

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/txnkit/txnkit/pkg/observability/logger"
	"github.com/txnkit/txnkit/pkg/observability/tracing"
)

// TransactionState represents the overall state of a transaction
type TransactionState int

const (
	// TxPending means steps may still be registered; no run has started
	TxPending TransactionState = iota
	// TxRunning means a run or abort is in flight
	TxRunning
	// TxCommitted means every step applied and was committed; terminal
	TxCommitted
	// TxRolledBack means an explicit abort unwound the applied prefix; terminal
	TxRolledBack
	// TxFailed means a step's apply failed and the applied prefix was unwound; terminal
	TxFailed
)

// String returns the string representation of the state
func (s TransactionState) String() string {
	switch s {
	case TxPending:
		return "pending"
	case TxRunning:
		return "running"
	case TxCommitted:
		return "committed"
	case TxRolledBack:
		return "rolled-back"
	case TxFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Transaction is an ordered collection of guards. Steps are applied in
// registration order and, on failure or explicit abort, rolled back in strict
// reverse order. A transaction instance is single-use: one Run or Abort,
// then it is terminal.
//
// Independent transaction instances are fully isolated and may run on
// separate goroutines. Within one instance, guards execute strictly
// sequentially; the mutex exists only to refuse concurrent entry, not to
// parallelize anything.
type Transaction struct {
	id     string
	label  string
	log    logger.Logger
	tracer trace.Tracer

	mu     sync.Mutex
	state  TransactionState
	guards []*Guard
}

// Option configures a transaction at construction time.
type Option func(*Transaction)

// WithLabel assigns a diagnostic label to the transaction.
func WithLabel(label string) Option {
	return func(t *Transaction) {
		t.label = strings.TrimSpace(label)
	}
}

// WithLogger sets the structured logger used during runs. The default
// discards all output.
func WithLogger(log logger.Logger) Option {
	return func(t *Transaction) {
		if log != nil {
			t.log = log
		}
	}
}

// WithTracer enables a span per Run/Abort using the given tracer.
func WithTracer(tracer trace.Tracer) Option {
	return func(t *Transaction) {
		t.tracer = tracer
	}
}

// New creates an empty transaction in the pending state.
func New(opts ...Option) *Transaction {
	t := &Transaction{
		id:    uuid.NewString(),
		state: TxPending,
		log:   logger.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the engine-assigned transaction identifier.
func (t *Transaction) ID() string {
	return t.id
}

// Label returns the caller-assigned transaction label, if any.
func (t *Transaction) Label() string {
	return t.label
}

// State returns the transaction's current state.
func (t *Transaction) State() TransactionState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Steps returns the number of registered steps.
func (t *Transaction) Steps() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.guards)
}

// Add registers an action as the next step, wrapped in a guard. It is only
// valid while the transaction is pending. The returned guard handle exposes
// the step's state for diagnostics; the transaction drives it.
func (t *Transaction) Add(action Action, label string) (*Guard, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case TxPending:
	case TxRunning:
		return nil, ErrAlreadyRunning
	default:
		return nil, ErrCompleted
	}

	if action == nil {
		return nil, protocolError(ErrInvalidArgument, "action is nil")
	}

	label = strings.TrimSpace(label)
	if label == "" {
		label = fmt.Sprintf("step-%d", len(t.guards)+1)
	}

	g := newGuard(label, action)
	t.guards = append(t.guards, g)
	return g, nil
}

// Run applies every step in registration order, stopping at the first
// failure. On success all guards are committed and the outcome reports a
// committed run with an empty rollback report. On failure the applied prefix
// is rolled back in strict reverse order, every rollback attempt is recorded
// regardless of earlier rollback failures, and the outcome carries the
// triggering error plus the complete report.
//
// The returned error is non-nil only for protocol misuse (concurrent or
// repeated entry); it never reflects step failures, and protocol errors do
// not change transaction state.
func (t *Transaction) Run(ctx context.Context) (*Outcome, error) {
	if err := t.begin(); err != nil {
		return nil, err
	}

	started := time.Now()
	ctx = logger.ContextWithTransactionID(ctx, t.id)
	log := t.log.With("tx_id", t.id, "tx_label", t.label)

	var span trace.Span
	if t.tracer != nil {
		ctx, span = tracing.StartTransactionSpan(ctx, t.tracer, tracing.SpanOperationRun, t.id, t.label, len(t.guards))
		defer span.End()
	}

	applied := -1
	var trigger *StepError
	for i, g := range t.guards {
		log.Debug("applying step", "step", g.label, "index", i)
		if err := g.apply(ctx); err != nil {
			trigger = &StepError{Label: g.label, Phase: PhaseApply, Err: err}
			log.Error("step apply failed", "step", g.label, "error", err)
			recordStepApply(statusFailed)
			break
		}
		recordStepApply(statusApplied)
		applied = i
	}

	if trigger == nil {
		for _, g := range t.guards {
			_ = g.commit()
		}
		t.setState(TxCommitted)

		outcome := t.newOutcome(TxCommitted, "", nil, nil, started)
		recordTransaction(TxCommitted.String(), outcome.Duration())
		log.Info("transaction committed", "steps", len(t.guards), "duration", outcome.Duration())
		tracing.RecordOutcome(span, TxCommitted.String(), "", 0)
		tracing.RecordSuccess(span)
		return outcome, nil
	}

	report := t.unwind(ctx, applied, log)
	t.setState(TxFailed)

	outcome := t.newOutcome(TxFailed, trigger.Label, trigger, report, started)
	recordTransaction(TxFailed.String(), outcome.Duration())
	log.Error("transaction failed",
		"failed_step", trigger.Label,
		"error", trigger.Err,
		"rolled_back", len(report),
		"rollback_failures", len(outcome.RollbackFailures()),
	)
	tracing.RecordOutcome(span, TxFailed.String(), trigger.Label, len(outcome.RollbackFailures()))
	tracing.RecordError(span, trigger)
	return outcome, nil
}

// Abort unwinds whatever prefix has been applied, in strict reverse order,
// without a triggering apply error. It is the entry point for callers that
// decide on external information that the transaction must not commit.
// Like Run it is single-use and refuses concurrent entry.
func (t *Transaction) Abort(ctx context.Context) (*Outcome, error) {
	if err := t.begin(); err != nil {
		return nil, err
	}

	started := time.Now()
	ctx = logger.ContextWithTransactionID(ctx, t.id)
	log := t.log.With("tx_id", t.id, "tx_label", t.label)

	var span trace.Span
	if t.tracer != nil {
		ctx, span = tracing.StartTransactionSpan(ctx, t.tracer, tracing.SpanOperationAbort, t.id, t.label, len(t.guards))
		defer span.End()
	}

	report := t.unwind(ctx, len(t.guards)-1, log)
	t.setState(TxRolledBack)

	outcome := t.newOutcome(TxRolledBack, "", nil, report, started)
	recordTransaction(TxRolledBack.String(), outcome.Duration())
	log.Info("transaction aborted",
		"rolled_back", len(report),
		"rollback_failures", len(outcome.RollbackFailures()),
	)
	tracing.RecordOutcome(span, TxRolledBack.String(), "", len(outcome.RollbackFailures()))
	tracing.RecordSuccess(span)
	return outcome, nil
}

// begin transitions Pending to Running and rejects any other entry.
func (t *Transaction) begin() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch t.state {
	case TxPending:
		t.state = TxRunning
		return nil
	case TxRunning:
		return ErrAlreadyRunning
	default:
		return ErrCompleted
	}
}

func (t *Transaction) setState(state TransactionState) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = state
}

// unwind rolls back the applied prefix ending at index from, last-applied
// first. Rollback is unconditional and exhaustive: one guard's rollback
// failure does not skip or abort rollback of the remaining applied guards.
func (t *Transaction) unwind(ctx context.Context, from int, log logger.Logger) []RollbackResult {
	if from < 0 {
		return nil
	}

	results := make([]RollbackResult, 0, from+1)
	for i := from; i >= 0; i-- {
		g := t.guards[i]
		if g.State() != StateApplied {
			continue
		}

		if err := g.rollback(ctx); err != nil {
			stepErr := &StepError{Label: g.label, Phase: PhaseRollback, Err: err}
			results = append(results, RollbackResult{Label: g.label, Err: stepErr})
			recordRollbackStep(statusFailed)
			log.Warn("step rollback failed", "step", g.label, "index", i, "error", err)
			continue
		}

		results = append(results, RollbackResult{Label: g.label})
		recordRollbackStep(statusRolledBack)
		log.Debug("step rolled back", "step", g.label, "index", i)
	}
	return results
}

func (t *Transaction) newOutcome(state TransactionState, failedStep string, err error, report []RollbackResult, started time.Time) *Outcome {
	return &Outcome{
		txID:       t.id,
		label:      t.label,
		state:      state,
		failedStep: failedStep,
		err:        err,
		report:     report,
		started:    started,
		finished:   time.Now(),
	}
}
