package txn

import (
	"errors"
	"strings"
	"testing"
)

func TestStepError_ApplyClassification(t *testing.T) {
	cause := errors.New("disk full")
	err := &StepError{Label: "write", Phase: PhaseApply, Err: cause}

	if !errors.Is(err, ErrApply) {
		t.Error("expected apply-phase step error to match ErrApply")
	}
	if errors.Is(err, ErrRollback) {
		t.Error("expected apply-phase step error not to match ErrRollback")
	}
	if !errors.Is(err, cause) {
		t.Error("expected step error to wrap its cause")
	}
	if !strings.Contains(err.Error(), "write") || !strings.Contains(err.Error(), "apply") {
		t.Errorf("expected message to name the step and phase, got %q", err.Error())
	}
}

func TestStepError_RollbackClassification(t *testing.T) {
	cause := errors.New("cannot release")
	err := &StepError{Label: "lease", Phase: PhaseRollback, Err: cause}

	if !errors.Is(err, ErrRollback) {
		t.Error("expected rollback-phase step error to match ErrRollback")
	}
	if errors.Is(err, ErrApply) {
		t.Error("expected rollback-phase step error not to match ErrApply")
	}
	if !errors.Is(err, cause) {
		t.Error("expected step error to wrap its cause")
	}
}

func TestProtocolSentinels(t *testing.T) {
	for _, err := range []error{ErrAlreadyRunning, ErrCompleted, ErrInvalidArgument, ErrGuardState} {
		if !errors.Is(err, ErrProtocol) {
			t.Errorf("expected %v to classify as protocol error", err)
		}
	}
}

func TestProtocolError_Message(t *testing.T) {
	err := protocolError(ErrInvalidArgument, "action is nil")
	if !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if !strings.Contains(err.Error(), "action is nil") {
		t.Errorf("expected message in error, got %q", err.Error())
	}

	if got := protocolError(ErrInvalidArgument, ""); got != ErrInvalidArgument {
		t.Errorf("expected bare sentinel for empty message, got %v", got)
	}
}
