// Package approval drives a travel request through its approval chain.
// Operations are pure data transformations over the request record; the
// caller persists the updated record and serializes concurrent attempts
// through the optimistic version check every operation performs.
package approval

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nattapongw/travel-portal/internal/doa"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"github.com/nattapongw/travel-portal/internal/domain/workflow"
)

var (
	// ErrVersionConflict is returned when the caller's expected version
	// does not match the record, signalling a concurrent transition.
	ErrVersionConflict = errors.New("request version conflict")

	// ErrChainExhausted is returned when an approval action arrives with
	// no active chain or after the chain has already completed.
	ErrChainExhausted = errors.New("approval chain exhausted")
)

// Approver identifies the acting principal. The caller must already
// have verified that this principal holds the current approver role;
// the engine records identity, it does not authorize.
type Approver struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Engine applies approval-workflow transitions to travel requests.
type Engine struct {
	now func() time.Time
}

// NewEngine creates an approval engine using wall-clock time.
func NewEngine() *Engine {
	return &Engine{now: time.Now}
}

// Initialize starts a new approval cycle for a request whose quotation
// option has just been selected. The chain is resolved once from the
// DOA matrix and snapshotted; prior cycles are preserved append-only,
// so earlier approvals survive a send-back/re-selection for audit.
func (e *Engine) Initialize(ctx context.Context, req *entity.TravelRequest, requester entity.TravelerAttributes, totalCost float64, matrix []entity.DOARule) (doa.Resolution, error) {
	machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
	if err := machine.Fire(ctx, workflow.TriggerSelectQuote); err != nil {
		return doa.Resolution{}, err
	}

	res, err := doa.Resolve(requester, totalCost, matrix)
	if err != nil {
		return doa.Resolution{}, err
	}

	cycle := entity.ApprovalCycle{
		Seq:          len(req.Cycles) + 1,
		Chain:        res.Chain,
		ChainSource:  res.Source,
		ChainRuleID:  res.RuleID,
		CurrentIndex: 0,
		CurrentRole:  res.Chain[0],
		StartedAt:    e.now(),
	}
	req.Cycles = append(req.Cycles, cycle)
	req.Status = machine.State().String()
	e.touch(req)

	return res, nil
}

// Approve records an approval by the current role. If the chain is not
// yet exhausted the pointer advances and the request stays pending;
// the final approval moves the request to APPROVED and parks the role
// pointer on the terminal sentinel. Approving an already-terminal
// request fails with ErrChainExhausted rather than silently advancing.
func (e *Engine) Approve(ctx context.Context, req *entity.TravelRequest, approver Approver, comment string) error {
	cycle, err := e.actionableCycle(req)
	if err != nil {
		return err
	}

	cycle.Steps = append(cycle.Steps, entity.ApprovalStep{
		ApproverID:   approver.ID,
		ApproverName: approver.Name,
		Role:         cycle.CurrentRole,
		Action:       entity.ActionApproved,
		Comment:      comment,
		Timestamp:    e.now(),
	})

	if cycle.CurrentIndex == len(cycle.Chain)-1 {
		machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
		if err := machine.Fire(ctx, workflow.TriggerApprove); err != nil {
			return err
		}
		cycle.CurrentIndex = len(cycle.Chain)
		cycle.CurrentRole = entity.RoleCompleted
		req.Status = machine.State().String()
	} else {
		cycle.CurrentIndex++
		cycle.CurrentRole = cycle.Chain[cycle.CurrentIndex]
	}

	e.touch(req)
	return nil
}

// Reject records a rejection by the current role and terminates the
// request. The approver's name and reason are kept as a formatted
// exception string for display.
func (e *Engine) Reject(ctx context.Context, req *entity.TravelRequest, approver Approver, reason string) error {
	cycle, err := e.actionableCycle(req)
	if err != nil {
		return err
	}

	machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
	if err := machine.Fire(ctx, workflow.TriggerReject); err != nil {
		return err
	}

	cycle.Steps = append(cycle.Steps, entity.ApprovalStep{
		ApproverID:   approver.ID,
		ApproverName: approver.Name,
		Role:         cycle.CurrentRole,
		Action:       entity.ActionRejected,
		Comment:      reason,
		Timestamp:    e.now(),
	})

	req.Status = machine.State().String()
	req.PolicyExceptionReason = fmt.Sprintf("Rejected by %s: %s", approver.Name, reason)
	e.touch(req)
	return nil
}

// SendBack returns the request to the quotation phase. The chain and
// pointer are left untouched; a later Initialize performs the reset by
// appending a fresh cycle.
func (e *Engine) SendBack(ctx context.Context, req *entity.TravelRequest, approver Approver, reason string) error {
	cycle, err := e.actionableCycle(req)
	if err != nil {
		return err
	}

	machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
	if err := machine.Fire(ctx, workflow.TriggerSendBack); err != nil {
		return err
	}

	cycle.Steps = append(cycle.Steps, entity.ApprovalStep{
		ApproverID:   approver.ID,
		ApproverName: approver.Name,
		Role:         cycle.CurrentRole,
		Action:       entity.ActionSentBack,
		Comment:      reason,
		Timestamp:    e.now(),
	})

	req.Status = machine.State().String()
	req.PolicyExceptionReason = fmt.Sprintf("Sent back by %s: %s", approver.Name, reason)
	e.touch(req)
	return nil
}

// CheckVersion guards a transition with the caller's expected record
// version. Callers invoke it before any approval operation; a mismatch
// means another transition won the race and the caller must reload.
func CheckVersion(req *entity.TravelRequest, expected int64) error {
	if req.Version != expected {
		return fmt.Errorf("%w: have %d, expected %d", ErrVersionConflict, req.Version, expected)
	}
	return nil
}

// actionableCycle returns the active cycle if an approver action is
// currently possible.
func (e *Engine) actionableCycle(req *entity.TravelRequest) (*entity.ApprovalCycle, error) {
	cycle := req.ActiveCycle()
	if cycle == nil {
		return nil, fmt.Errorf("%w: no approval cycle initialized", ErrChainExhausted)
	}
	if cycle.Exhausted() {
		return nil, fmt.Errorf("%w: chain of %d step(s) already completed", ErrChainExhausted, len(cycle.Chain))
	}
	if req.Status != entity.StatusPendingApproval {
		return nil, fmt.Errorf("%w: no approver action allowed in status %s", workflow.ErrInvalidTransition, req.Status)
	}
	return cycle, nil
}

func (e *Engine) touch(req *entity.TravelRequest) {
	req.Version++
	req.UpdatedAt = e.now()
}
