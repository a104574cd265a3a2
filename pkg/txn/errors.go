package txn

import (
	"errors"
	"fmt"
)

var (
	// ErrApply classifies forward-step failures reported by an action.
	ErrApply = errors.New("txn apply failed")
	// ErrRollback classifies undo-step failures reported during unwinding.
	ErrRollback = errors.New("txn rollback failed")
	// ErrProtocol classifies caller misuse of the engine API.
	ErrProtocol = errors.New("txn protocol error")

	// ErrAlreadyRunning is returned when Add, Run or Abort is called while a
	// run is in flight on the same transaction instance.
	ErrAlreadyRunning = fmt.Errorf("%w: transaction already running", ErrProtocol)
	// ErrCompleted is returned when a completed transaction is run again.
	// Transactions are single-use.
	ErrCompleted = fmt.Errorf("%w: transaction already completed", ErrProtocol)
	// ErrInvalidArgument classifies invalid caller arguments.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrProtocol)
	// ErrGuardState is returned when a guard transition is requested from a
	// state that does not permit it.
	ErrGuardState = fmt.Errorf("%w: invalid guard state", ErrProtocol)
)

// Phase identifies which half of an action produced an error.
type Phase string

// Phases of a step.
const (
	// PhaseApply is the forward step.
	PhaseApply Phase = "apply"
	// PhaseRollback is the undo step, reported during unwinding.
	PhaseRollback Phase = "rollback"
)

// StepError wraps an error returned by an action, annotated with the step's
// label and the phase in which it occurred. It matches ErrApply or ErrRollback
// under errors.Is depending on the phase.
type StepError struct {
	Label string
	Phase Phase
	Err   error
}

// Error implements the error interface.
func (e *StepError) Error() string {
	return fmt.Sprintf("step %q %s failed: %v", e.Label, e.Phase, e.Err)
}

// Unwrap returns the underlying action error.
func (e *StepError) Unwrap() error {
	return e.Err
}

// Is reports whether the error matches the phase sentinel.
func (e *StepError) Is(target error) bool {
	switch e.Phase {
	case PhaseApply:
		return target == ErrApply
	case PhaseRollback:
		return target == ErrRollback
	default:
		return false
	}
}

func protocolError(kind error, message string) error {
	if message == "" {
		return kind
	}
	return fmt.Errorf("%w: %s", kind, message)
}
