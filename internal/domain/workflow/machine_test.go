package workflow

import (
	"context"
	"errors"
	"testing"
)

func TestStateMachineFire(t *testing.T) {
	tests := []struct {
		name      string
		initial   State
		trigger   Trigger
		wantState State
		wantErr   error
	}{
		{
			name:      "permitted transition moves to target state",
			initial:   StateDraft,
			trigger:   TriggerSubmit,
			wantState: StateSubmitted,
		},
		{
			name:      "unconfigured trigger is rejected",
			initial:   StateDraft,
			trigger:   TriggerApprove,
			wantState: StateDraft,
			wantErr:   ErrInvalidTransition,
		},
		{
			name:      "terminal state rejects everything",
			initial:   StateRejected,
			trigger:   TriggerSubmit,
			wantState: StateRejected,
			wantErr:   ErrInvalidTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := BuildTravelRequestStateMachine(tt.initial)

			err := m.Fire(context.Background(), tt.trigger)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Fire() error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil {
				t.Fatalf("Fire() unexpected error: %v", err)
			}

			if m.State() != tt.wantState {
				t.Errorf("State() = %v, want %v", m.State(), tt.wantState)
			}
		})
	}
}

func TestGuardedTransition(t *testing.T) {
	builder := NewBuilder()
	allow := false
	builder.Configure(StateDraft).
		PermitIf(TriggerSubmit, StateSubmitted, func(ctx context.Context) bool { return allow })

	m := builder.Build(StateDraft)

	if err := m.Fire(context.Background(), TriggerSubmit); !errors.Is(err, ErrGuardFailed) {
		t.Fatalf("Fire() with failing guard error = %v, want ErrGuardFailed", err)
	}
	if m.State() != StateDraft {
		t.Errorf("state changed despite failing guard: %v", m.State())
	}

	allow = true
	if err := m.Fire(context.Background(), TriggerSubmit); err != nil {
		t.Fatalf("Fire() with passing guard error = %v", err)
	}
	if m.State() != StateSubmitted {
		t.Errorf("State() = %v, want %v", m.State(), StateSubmitted)
	}
}

func TestCanFire(t *testing.T) {
	m := BuildTravelRequestStateMachine(StatePendingApproval)

	if !m.CanFire(TriggerApprove) {
		t.Error("CanFire(APPROVE) = false in PENDING_APPROVAL")
	}
	if !m.CanFire(TriggerSendBack) {
		t.Error("CanFire(SEND_BACK) = false in PENDING_APPROVAL")
	}
	if m.CanFire(TriggerSubmit) {
		t.Error("CanFire(SUBMIT) = true in PENDING_APPROVAL")
	}
}

func TestBuildSnapshotsConfiguration(t *testing.T) {
	builder := NewBuilder()
	builder.Configure(StateDraft).Permit(TriggerSubmit, StateSubmitted)

	m := builder.Build(StateDraft)

	// Later builder edits must not leak into the built machine
	builder.Configure(StateDraft).Permit(TriggerReject, StateRejected)

	if m.CanFire(TriggerReject) {
		t.Error("machine picked up configuration added after Build()")
	}
}

func TestStateClassification(t *testing.T) {
	tests := []struct {
		state     State
		terminal  bool
		quotation bool
	}{
		{StateDraft, false, false},
		{StateSubmitted, false, true},
		{StateQuotationPending, false, true},
		{StateWaitingSelection, false, false},
		{StatePendingApproval, false, false},
		{StateApproved, false, false},
		{StateRejected, true, false},
		{StateBooked, false, false},
		{StateCompleted, true, false},
	}

	for _, tt := range tests {
		if got := tt.state.IsTerminal(); got != tt.terminal {
			t.Errorf("%s.IsTerminal() = %v, want %v", tt.state, got, tt.terminal)
		}
		if got := tt.state.InQuotationPhase(); got != tt.quotation {
			t.Errorf("%s.InQuotationPhase() = %v, want %v", tt.state, got, tt.quotation)
		}
	}
}
