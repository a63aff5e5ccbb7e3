package sla

import (
	"strings"
	"testing"
	"time"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

var baseTime = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDeadline(t *testing.T) {
	tests := []struct {
		name       string
		travelType string
		wantHours  int
	}{
		{"domestic gets 4 hours", entity.TravelTypeDomestic, 4},
		{"international gets 24 hours", entity.TravelTypeInternational, 24},
		{"unknown type defaults to domestic window", "CHARTER", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Deadline(baseTime, tt.travelType)
			want := baseTime.Add(time.Duration(tt.wantHours) * time.Hour)
			if !got.Equal(want) {
				t.Errorf("Deadline() = %v, want %v", got, want)
			}
		})
	}
}

func TestEvaluateLiveStates(t *testing.T) {
	tests := []struct {
		name      string
		deadline  time.Time
		wantState DisplayState
	}{
		{"past deadline is breached", baseTime.Add(-time.Second), StateBreached},
		{"exactly at deadline is breached", baseTime, StateBreached},
		{"inside critical window", baseTime.Add(time.Hour + 59*time.Minute), StateCritical},
		{"exactly two hours out is on track", baseTime.Add(2 * time.Hour), StateOnTrack},
		{"comfortably ahead is on track", baseTime.Add(3 * time.Hour), StateOnTrack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.deadline, entity.StatusSubmitted, nil, baseTime)
			if got.State != tt.wantState {
				t.Errorf("Evaluate() state = %v, want %v (label %q)", got.State, tt.wantState, got.Label)
			}
		})
	}
}

func TestEvaluateLabels(t *testing.T) {
	deadline := baseTime.Add(-90 * time.Minute)
	got := Evaluate(deadline, entity.StatusQuotationPending, nil, baseTime)
	if got.State != StateBreached {
		t.Fatalf("state = %v, want breached", got.State)
	}
	if !strings.Contains(got.Label, "1h 30m") {
		t.Errorf("label should carry the overdue duration, got %q", got.Label)
	}
}

func TestEvaluateRetrospective(t *testing.T) {
	deadline := baseTime.Add(4 * time.Hour)

	tests := []struct {
		name      string
		status    string
		quotedAt  *time.Time
		wantState DisplayState
	}{
		{
			name:      "quoted before deadline is met",
			status:    entity.StatusWaitingSelection,
			quotedAt:  timePtr(deadline.Add(-time.Hour)),
			wantState: StateMet,
		},
		{
			name:      "quoted exactly at deadline is met",
			status:    entity.StatusWaitingSelection,
			quotedAt:  timePtr(deadline),
			wantState: StateMet,
		},
		{
			name:      "quoted after deadline is missed",
			status:    entity.StatusPendingApproval,
			quotedAt:  timePtr(deadline.Add(30 * time.Minute)),
			wantState: StateMissed,
		},
		{
			name:      "legacy record without quotedAt degrades to met",
			status:    entity.StatusApproved,
			quotedAt:  nil,
			wantState: StateMet,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// now is far past the deadline: a retrospective judgement must
			// not flip to breached just because time kept passing
			now := deadline.Add(48 * time.Hour)
			got := Evaluate(deadline, tt.status, tt.quotedAt, now)
			if got.State != tt.wantState {
				t.Errorf("Evaluate() state = %v, want %v (label %q)", got.State, tt.wantState, got.Label)
			}
		})
	}
}

func TestFormatHM(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{5 * time.Minute, "0h 05m"},
		{time.Hour + 59*time.Minute, "1h 59m"},
		{-(3*time.Hour + 5*time.Minute), "3h 05m"},
		{26 * time.Hour, "26h 00m"},
	}

	for _, tt := range tests {
		if got := formatHM(tt.d); got != tt.want {
			t.Errorf("formatHM(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func timePtr(t time.Time) *time.Time {
	return &t
}
