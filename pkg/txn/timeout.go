package txn

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when an action phase exceeds its timeout.
var ErrTimeout = errors.New("txn: action timed out")

// TimedAction bounds each phase of an action with its own timeout. A zero
// timeout leaves that phase unbounded. Rollback usually gets the looser bound:
// cutting an unwind short trades a slow transaction for a leaked resource.
type TimedAction struct {
	action          Action
	applyTimeout    time.Duration
	rollbackTimeout time.Duration
}

// WithTimeout wraps an action with per-phase timeouts.
func WithTimeout(action Action, applyTimeout, rollbackTimeout time.Duration) *TimedAction {
	return &TimedAction{
		action:          action,
		applyTimeout:    applyTimeout,
		rollbackTimeout: rollbackTimeout,
	}
}

// Apply runs the wrapped action's forward phase under the apply timeout.
func (a *TimedAction) Apply(ctx context.Context) error {
	return runWithTimeout(ctx, a.applyTimeout, a.action.Apply)
}

// Rollback runs the wrapped action's compensating phase under the rollback
// timeout.
func (a *TimedAction) Rollback(ctx context.Context) error {
	return runWithTimeout(ctx, a.rollbackTimeout, a.action.Rollback)
}

func runWithTimeout(ctx context.Context, timeout time.Duration, fn func(context.Context) error) error {
	if timeout <= 0 {
		return fn(ctx)
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(timeoutCtx)
	}()

	select {
	case err := <-done:
		return err
	case <-timeoutCtx.Done():
		if errors.Is(timeoutCtx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return timeoutCtx.Err()
	}
}
