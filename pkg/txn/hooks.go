package txn

import (
	"context"
	"fmt"
)

// OperationStatus classifies the result of a single-operation lifecycle.
type OperationStatus int

const (
	// OperationOK means the operation completed and finalization succeeded
	OperationOK OperationStatus = iota
	// OperationFailedBefore means preparation failed; the operation, rollback
	// and finalization never ran
	OperationFailedBefore
	// OperationRolledBack means the operation failed and rollback was attempted
	OperationRolledBack
	// OperationOKFinallyFailed means the operation completed but finalization failed
	OperationOKFinallyFailed
	// OperationRolledBackFinallyFailed means the operation failed, rollback was
	// attempted, and finalization also failed
	OperationRolledBackFinallyFailed
)

// String returns the string representation of the status
func (s OperationStatus) String() string {
	switch s {
	case OperationOK:
		return "ok"
	case OperationFailedBefore:
		return "failed-before"
	case OperationRolledBack:
		return "rolled-back"
	case OperationOKFinallyFailed:
		return "ok-finally-failed"
	case OperationRolledBackFinallyFailed:
		return "rolled-back-finally-failed"
	default:
		return "unknown"
	}
}

// Operation is a single unit of work with a full lifecycle around it:
// preparation, the operation itself, rollback on failure, and finalization
// that runs whether or not the operation succeeded. It suits callers with one
// rollback-capable step and setup/teardown needs; multi-step composition
// belongs to Transaction.
type Operation interface {
	// Before prepares the operation. If it fails, nothing else runs.
	Before(ctx context.Context) error

	// Do performs the operation.
	Do(ctx context.Context) error

	// Rollback undoes the operation's effects. It runs only when Do failed.
	Rollback(ctx context.Context) error

	// Finally runs after Do and any rollback, regardless of their results.
	// It does not run when Before failed. The passed result reflects the
	// lifecycle so far; Finally's own error is recorded after it returns.
	Finally(ctx context.Context, result *OperationResult) error
}

// OperationFuncs adapts closures to the Operation interface. Nil hooks are
// treated as immediate success.
type OperationFuncs struct {
	BeforeFunc   func(ctx context.Context) error
	DoFunc       func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
	FinallyFunc  func(ctx context.Context, result *OperationResult) error
}

// Before runs BeforeFunc if set.
func (o OperationFuncs) Before(ctx context.Context) error {
	if o.BeforeFunc == nil {
		return nil
	}
	return o.BeforeFunc(ctx)
}

// Do runs DoFunc if set.
func (o OperationFuncs) Do(ctx context.Context) error {
	if o.DoFunc == nil {
		return nil
	}
	return o.DoFunc(ctx)
}

// Rollback runs RollbackFunc if set.
func (o OperationFuncs) Rollback(ctx context.Context) error {
	if o.RollbackFunc == nil {
		return nil
	}
	return o.RollbackFunc(ctx)
}

// Finally runs FinallyFunc if set.
func (o OperationFuncs) Finally(ctx context.Context, result *OperationResult) error {
	if o.FinallyFunc == nil {
		return nil
	}
	return o.FinallyFunc(ctx, result)
}

// OperationResult records every error the lifecycle produced.
type OperationResult struct {
	Status      OperationStatus
	BeforeErr   error
	Err         error
	RollbackErr error
	FinallyErr  error
}

// Execute runs the operation lifecycle: Before, then Do, then Rollback when
// Do failed, then Finally. Panics are not recovered; for that use
// ExecuteRecover.
func Execute(ctx context.Context, op Operation) *OperationResult {
	return execute(ctx, op, false)
}

// ExecuteRecover is Execute with panic capture: a panic in any hook is
// converted into a *PanicError and recorded in the corresponding result
// field, after which the lifecycle continues as if the hook had returned
// that error.
func ExecuteRecover(ctx context.Context, op Operation) *OperationResult {
	return execute(ctx, op, true)
}

func execute(ctx context.Context, op Operation, recoverPanics bool) *OperationResult {
	invoke := func(fn func(context.Context) error) error {
		if !recoverPanics {
			return fn(ctx)
		}
		return capture(func() error { return fn(ctx) })
	}

	if err := invoke(op.Before); err != nil {
		return &OperationResult{Status: OperationFailedBefore, BeforeErr: err}
	}

	result := &OperationResult{Status: OperationOK}
	if err := invoke(op.Do); err != nil {
		result.Err = err
		result.RollbackErr = invoke(op.Rollback)
		result.Status = OperationRolledBack
	}

	finallyErr := func() error {
		if !recoverPanics {
			return op.Finally(ctx, result)
		}
		return capture(func() error { return op.Finally(ctx, result) })
	}()
	if finallyErr != nil {
		result.FinallyErr = finallyErr
		if result.Status == OperationOK {
			result.Status = OperationOKFinallyFailed
		} else {
			result.Status = OperationRolledBackFinallyFailed
		}
	}

	return result
}

// PanicError wraps a recovered panic value as an error.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func capture(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{Value: v}
		}
	}()
	return fn()
}
