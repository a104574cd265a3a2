package txn

// RollbackGuard is a standalone single-step undo guard for callers that do
// not need a full transaction: arm it with an undo function, run the
// protected work, then either Dismiss it on success or invoke DoRollback on
// failure. Go has no deterministic scope-exit hook, so both outcomes are
// explicit calls; a typical embedding pairs the guard with defer:
//
//	guard := txn.NewRollbackGuard(undo)
//	defer guard.DoRollback()
//	// ... work ...
//	guard.Dismiss()
//
// The undo function runs at most once across Dismiss/DoRollback. A guard is
// owned by a single goroutine and carries no locking.
type RollbackGuard struct {
	fn   func() error
	done bool
}

// NewRollbackGuard arms a guard with a fallible undo function.
func NewRollbackGuard(fn func() error) *RollbackGuard {
	return &RollbackGuard{fn: fn}
}

// Infallible arms a guard with an undo function that cannot fail.
// DoRollback on the returned guard always returns nil.
func Infallible(fn func()) *RollbackGuard {
	if fn == nil {
		return &RollbackGuard{}
	}
	return &RollbackGuard{fn: func() error {
		fn()
		return nil
	}}
}

// Dismiss disarms the guard: the undo function will not run. Dismissing an
// already-fired or already-dismissed guard has no effect.
func (g *RollbackGuard) Dismiss() {
	g.done = true
}

// DoRollback runs the undo function if the guard is still armed and returns
// its result. Subsequent calls, and calls after Dismiss, are no-ops returning
// nil, so the guard composes safely with defer.
func (g *RollbackGuard) DoRollback() error {
	if g.done || g.fn == nil {
		return nil
	}
	g.done = true
	return g.fn()
}

// Armed reports whether the undo function is still pending.
func (g *RollbackGuard) Armed() bool {
	return !g.done && g.fn != nil
}

// Mandatory wraps the guard in a type without Dismiss, for callers that must
// guarantee the undo runs.
func (g *RollbackGuard) Mandatory() *MandatoryRollbackGuard {
	return &MandatoryRollbackGuard{guard: g}
}

// MandatoryRollbackGuard is a rollback guard that cannot be disarmed.
type MandatoryRollbackGuard struct {
	guard *RollbackGuard
}

// DoRollback runs the undo function if it has not run yet.
func (g *MandatoryRollbackGuard) DoRollback() error {
	return g.guard.DoRollback()
}

// Armed reports whether the undo function is still pending.
func (g *MandatoryRollbackGuard) Armed() bool {
	return g.guard.Armed()
}
