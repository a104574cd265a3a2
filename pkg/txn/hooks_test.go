package txn

import (
	"context"
	"errors"
	"testing"
)

func TestExecute_AllHooksSucceed(t *testing.T) {
	var order []string
	op := OperationFuncs{
		BeforeFunc: func(ctx context.Context) error {
			order = append(order, "before")
			return nil
		},
		DoFunc: func(ctx context.Context) error {
			order = append(order, "do")
			return nil
		},
		RollbackFunc: func(ctx context.Context) error {
			order = append(order, "rollback")
			return nil
		},
		FinallyFunc: func(ctx context.Context, result *OperationResult) error {
			order = append(order, "finally")
			return nil
		},
	}

	result := Execute(context.Background(), op)

	if result.Status != OperationOK {
		t.Errorf("expected status ok, got %v", result.Status)
	}
	want := []string{"before", "do", "finally"}
	if len(order) != len(want) {
		t.Fatalf("expected hooks %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("expected hook[%d]=%s, got %s", i, want[i], order[i])
		}
	}
}

func TestExecute_BeforeFailureShortCircuits(t *testing.T) {
	beforeErr := errors.New("not ready")
	ranDo, ranRollback, ranFinally := false, false, false

	op := OperationFuncs{
		BeforeFunc: func(ctx context.Context) error { return beforeErr },
		DoFunc: func(ctx context.Context) error {
			ranDo = true
			return nil
		},
		RollbackFunc: func(ctx context.Context) error {
			ranRollback = true
			return nil
		},
		FinallyFunc: func(ctx context.Context, result *OperationResult) error {
			ranFinally = true
			return nil
		},
	}

	result := Execute(context.Background(), op)

	if result.Status != OperationFailedBefore {
		t.Errorf("expected status failed-before, got %v", result.Status)
	}
	if result.BeforeErr != beforeErr {
		t.Errorf("expected before error recorded, got %v", result.BeforeErr)
	}
	if ranDo || ranRollback || ranFinally {
		t.Error("expected no other hook to run after Before failed")
	}
}

func TestExecute_DoFailureTriggersRollback(t *testing.T) {
	doErr := errors.New("operation failed")
	ranRollback := false

	op := OperationFuncs{
		DoFunc: func(ctx context.Context) error { return doErr },
		RollbackFunc: func(ctx context.Context) error {
			ranRollback = true
			return nil
		},
	}

	result := Execute(context.Background(), op)

	if result.Status != OperationRolledBack {
		t.Errorf("expected status rolled-back, got %v", result.Status)
	}
	if result.Err != doErr {
		t.Errorf("expected operation error recorded, got %v", result.Err)
	}
	if !ranRollback {
		t.Error("expected rollback to run after Do failed")
	}
	if result.RollbackErr != nil {
		t.Errorf("expected no rollback error, got %v", result.RollbackErr)
	}
}

func TestExecute_RollbackFailureRecorded(t *testing.T) {
	doErr := errors.New("operation failed")
	undoErr := errors.New("undo failed")

	op := OperationFuncs{
		DoFunc:       func(ctx context.Context) error { return doErr },
		RollbackFunc: func(ctx context.Context) error { return undoErr },
	}

	result := Execute(context.Background(), op)

	if result.Status != OperationRolledBack {
		t.Errorf("expected status rolled-back, got %v", result.Status)
	}
	if result.RollbackErr != undoErr {
		t.Errorf("expected rollback error recorded, got %v", result.RollbackErr)
	}
}

func TestExecute_FinallyFailure(t *testing.T) {
	finallyErr := errors.New("cleanup failed")

	t.Run("after success", func(t *testing.T) {
		op := OperationFuncs{
			FinallyFunc: func(ctx context.Context, result *OperationResult) error {
				return finallyErr
			},
		}

		result := Execute(context.Background(), op)
		if result.Status != OperationOKFinallyFailed {
			t.Errorf("expected status ok-finally-failed, got %v", result.Status)
		}
		if result.FinallyErr != finallyErr {
			t.Errorf("expected finally error recorded, got %v", result.FinallyErr)
		}
	})

	t.Run("after rollback", func(t *testing.T) {
		op := OperationFuncs{
			DoFunc: func(ctx context.Context) error { return errors.New("fail") },
			FinallyFunc: func(ctx context.Context, result *OperationResult) error {
				return finallyErr
			},
		}

		result := Execute(context.Background(), op)
		if result.Status != OperationRolledBackFinallyFailed {
			t.Errorf("expected status rolled-back-finally-failed, got %v", result.Status)
		}
	})
}

func TestExecute_FinallySeesLifecycleSoFar(t *testing.T) {
	doErr := errors.New("operation failed")
	var seen OperationResult

	op := OperationFuncs{
		DoFunc: func(ctx context.Context) error { return doErr },
		FinallyFunc: func(ctx context.Context, result *OperationResult) error {
			seen = *result
			return nil
		},
	}

	Execute(context.Background(), op)

	if seen.Status != OperationRolledBack {
		t.Errorf("expected Finally to observe rolled-back status, got %v", seen.Status)
	}
	if seen.Err != doErr {
		t.Errorf("expected Finally to observe the operation error, got %v", seen.Err)
	}
}

func TestExecuteRecover_PanicInDo(t *testing.T) {
	ranRollback := false
	op := OperationFuncs{
		DoFunc: func(ctx context.Context) error {
			panic("boom")
		},
		RollbackFunc: func(ctx context.Context) error {
			ranRollback = true
			return nil
		},
	}

	result := ExecuteRecover(context.Background(), op)

	if result.Status != OperationRolledBack {
		t.Errorf("expected status rolled-back, got %v", result.Status)
	}

	var panicErr *PanicError
	if !errors.As(result.Err, &panicErr) {
		t.Fatalf("expected *PanicError, got %T", result.Err)
	}
	if panicErr.Value != "boom" {
		t.Errorf("expected panic value boom, got %v", panicErr.Value)
	}
	if !ranRollback {
		t.Error("expected rollback after panic in Do")
	}
}

func TestExecuteRecover_PanicInRollbackAndFinally(t *testing.T) {
	op := OperationFuncs{
		DoFunc:       func(ctx context.Context) error { return errors.New("fail") },
		RollbackFunc: func(ctx context.Context) error { panic("undo panic") },
		FinallyFunc: func(ctx context.Context, result *OperationResult) error {
			panic("cleanup panic")
		},
	}

	result := ExecuteRecover(context.Background(), op)

	if result.Status != OperationRolledBackFinallyFailed {
		t.Errorf("expected status rolled-back-finally-failed, got %v", result.Status)
	}

	var panicErr *PanicError
	if !errors.As(result.RollbackErr, &panicErr) {
		t.Errorf("expected rollback panic captured, got %v", result.RollbackErr)
	}
	if !errors.As(result.FinallyErr, &panicErr) {
		t.Errorf("expected finally panic captured, got %v", result.FinallyErr)
	}
}

func TestExecuteRecover_PanicInBefore(t *testing.T) {
	op := OperationFuncs{
		BeforeFunc: func(ctx context.Context) error { panic("prep panic") },
	}

	result := ExecuteRecover(context.Background(), op)

	if result.Status != OperationFailedBefore {
		t.Errorf("expected status failed-before, got %v", result.Status)
	}
	var panicErr *PanicError
	if !errors.As(result.BeforeErr, &panicErr) {
		t.Errorf("expected before panic captured, got %v", result.BeforeErr)
	}
}

func TestOperationStatus_String(t *testing.T) {
	tests := []struct {
		status   OperationStatus
		expected string
	}{
		{OperationOK, "ok"},
		{OperationFailedBefore, "failed-before"},
		{OperationRolledBack, "rolled-back"},
		{OperationOKFinallyFailed, "ok-finally-failed"},
		{OperationRolledBackFinallyFailed, "rolled-back-finally-failed"},
		{OperationStatus(999), "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.status.String(); got != tt.expected {
				t.Errorf("OperationStatus.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}
