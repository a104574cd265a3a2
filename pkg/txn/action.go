// Package txn provides a compensating-transaction engine: multi-step
// operations composed from paired apply/rollback actions, applied in order
// and unwound in strict reverse order when a step fails or the caller aborts.
//
// The engine guarantees that within one process a sequence of reversible side
// effects is either fully applied or fully reverted. It does not provide
// crash durability, distributed commit, isolation between transactions, or
// automatic retry.
package txn

import "context"

// Action is the unit of reversible work: a caller-supplied pair of forward
// and undo operations. The engine treats it as opaque, calls Apply at most
// once and Rollback at most once, and only calls Rollback after a successful
// Apply.
//
// A failed Apply is assumed to have left no partial change behind; if a
// concrete action's forward step can partially succeed before failing, the
// action must clean up after itself before returning the error.
type Action interface {
	// Apply performs the forward effect.
	Apply(ctx context.Context) error

	// Rollback undoes the effect of a previously successful Apply.
	Rollback(ctx context.Context) error
}

// ActionFuncs adapts a pair of closures to the Action interface so callers
// can register captured-state steps without declaring a named type. A nil
// func is treated as an immediate success, which permits rollback-only or
// apply-only steps.
type ActionFuncs struct {
	ApplyFunc    func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error
}

// Apply runs ApplyFunc if set.
func (a ActionFuncs) Apply(ctx context.Context) error {
	if a.ApplyFunc == nil {
		return nil
	}
	return a.ApplyFunc(ctx)
}

// Rollback runs RollbackFunc if set.
func (a ActionFuncs) Rollback(ctx context.Context) error {
	if a.RollbackFunc == nil {
		return nil
	}
	return a.RollbackFunc(ctx)
}
