package txn

import "context"

// GuardState represents the lifecycle state of a guard
type GuardState int

const (
	// StateIdle means the action has not been invoked yet
	StateIdle GuardState = iota
	// StateApplying means the forward step is in flight
	StateApplying
	// StateApplied means the forward step succeeded; rollback is now eligible
	StateApplied
	// StateCommitted means the owning transaction finished successfully; terminal
	StateCommitted
	// StateRollingBack means the undo step is in flight
	StateRollingBack
	// StateRolledBack means the undo step has been attempted; terminal
	StateRolledBack
	// StateFailed means the forward step returned an error; terminal, excluded from rollback
	StateFailed
)

// String returns the string representation of the state
func (s GuardState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateApplying:
		return "applying"
	case StateApplied:
		return "applied"
	case StateCommitted:
		return "committed"
	case StateRollingBack:
		return "rolling-back"
	case StateRolledBack:
		return "rolled-back"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Guard wraps one Action with lifecycle tracking. It is created by
// Transaction.Add and driven exclusively by its owning transaction, which
// sequences all calls; a guard carries no locking of its own.
//
// Invariant: rollback is invoked if and only if apply previously succeeded
// and the guard has not been committed, and never more than once.
type Guard struct {
	label       string
	action      Action
	state       GuardState
	applyErr    error
	rollbackErr error
}

func newGuard(label string, action Action) *Guard {
	return &Guard{
		label:  label,
		action: action,
		state:  StateIdle,
	}
}

// Label returns the diagnostic label assigned at registration.
func (g *Guard) Label() string {
	return g.label
}

// State returns the guard's current lifecycle state.
func (g *Guard) State() GuardState {
	return g.state
}

// ApplyErr returns the error recorded by the forward step, if any.
func (g *Guard) ApplyErr() error {
	return g.applyErr
}

// RollbackErr returns the error recorded by the undo step, if any.
func (g *Guard) RollbackErr() error {
	return g.rollbackErr
}

// apply invokes the action's forward step exactly once.
func (g *Guard) apply(ctx context.Context) error {
	if g.state != StateIdle {
		return protocolError(ErrGuardState, "apply requires idle, guard is "+g.state.String())
	}

	g.state = StateApplying
	if err := g.action.Apply(ctx); err != nil {
		g.state = StateFailed
		g.applyErr = err
		return err
	}

	g.state = StateApplied
	return nil
}

// commit marks a successfully applied guard as permanent. Rollback will
// never be invoked afterwards.
func (g *Guard) commit() error {
	if g.state != StateApplied {
		return protocolError(ErrGuardState, "commit requires applied, guard is "+g.state.String())
	}
	g.state = StateCommitted
	return nil
}

// rollback invokes the action's undo step exactly once. The guard ends in
// StateRolledBack regardless of the undo's own result; the result is returned
// to the transaction for aggregation and is never retried.
func (g *Guard) rollback(ctx context.Context) error {
	if g.state != StateApplied {
		return protocolError(ErrGuardState, "rollback requires applied, guard is "+g.state.String())
	}

	g.state = StateRollingBack
	err := g.action.Rollback(ctx)
	g.state = StateRolledBack
	g.rollbackErr = err
	return err
}
