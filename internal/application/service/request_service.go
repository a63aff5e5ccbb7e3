package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/approval"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"github.com/nattapongw/travel-portal/internal/domain/workflow"
	"github.com/nattapongw/travel-portal/internal/policy"
	"github.com/nattapongw/travel-portal/internal/sla"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

// SubmitInput carries everything the form collaborator provides at
// submission time. Requester attributes come from the auth collaborator
// and are trusted as already verified.
type SubmitInput struct {
	RequestNo     string                    `json:"request_no"`
	RequesterID   string                    `json:"requester_id"`
	RequesterName string                    `json:"requester_name"`
	Requester     entity.TravelerAttributes `json:"requester"`
	Trip          entity.TripContext        `json:"trip"`
	Services      policy.RequestedServices  `json:"services"`
}

// RequestService orchestrates the travel-request lifecycle: compliance
// evaluation on submission, chain initialization on quote selection,
// approver actions, and SLA projection.
type RequestService interface {
	Submit(ctx context.Context, input SubmitInput) (*entity.TravelRequest, error)
	EvaluatePolicy(ctx context.Context, requester entity.TravelerAttributes, trip entity.TripContext, services policy.RequestedServices) (policy.Verdict, error)

	RequestQuotes(ctx context.Context, id int64, agencies []string, expectedVersion int64) (*entity.TravelRequest, error)
	QuotesReady(ctx context.Context, id int64, expectedVersion int64) (*entity.TravelRequest, error)
	SelectQuote(ctx context.Context, id int64, totalCost float64, expectedVersion int64) (*entity.TravelRequest, error)

	Approve(ctx context.Context, id int64, approver approval.Approver, comment string, expectedVersion int64) (*entity.TravelRequest, error)
	Reject(ctx context.Context, id int64, approver approval.Approver, reason string, expectedVersion int64) (*entity.TravelRequest, error)
	SendBack(ctx context.Context, id int64, approver approval.Approver, reason string, expectedVersion int64) (*entity.TravelRequest, error)

	Get(ctx context.Context, id int64) (*entity.TravelRequest, error)
	List(ctx context.Context, limit, offset int) ([]*entity.TravelRequest, error)
	SLAStatus(ctx context.Context, id int64) (sla.Status, error)
}

type requestServiceImpl struct {
	requestRepo port.RequestRepository
	policyRepo  port.PolicyRuleRepository
	doaRepo     port.DOARuleRepository
	engine      *approval.Engine
	notifier    port.Notifier
	logger      Logger
	now         func() time.Time
}

// NewRequestService creates a new RequestService. notifier may be nil
// when no messaging channel is configured.
func NewRequestService(
	requestRepo port.RequestRepository,
	policyRepo port.PolicyRuleRepository,
	doaRepo port.DOARuleRepository,
	engine *approval.Engine,
	notifier port.Notifier,
	logger Logger,
) RequestService {
	return &requestServiceImpl{
		requestRepo: requestRepo,
		policyRepo:  policyRepo,
		doaRepo:     doaRepo,
		engine:      engine,
		notifier:    notifier,
		logger:      logger,
		now:         time.Now,
	}
}

// Submit evaluates the request against policy, stamps the SLA deadline
// and persists the record in SUBMITTED state. Policy violations never
// block submission; they are recorded as flags for the approvers.
func (s *requestServiceImpl) Submit(ctx context.Context, input SubmitInput) (*entity.TravelRequest, error) {
	if input.Services.EstimatedCost < 0 {
		return nil, fmt.Errorf("estimated cost must not be negative: %.2f", input.Services.EstimatedCost)
	}

	verdict, err := s.EvaluatePolicy(ctx, input.Requester, input.Trip, input.Services)
	if err != nil {
		return nil, err
	}

	machine := workflow.BuildTravelRequestStateMachine(workflow.StateDraft)
	if err := machine.Fire(ctx, workflow.TriggerSubmit); err != nil {
		return nil, err
	}

	now := s.now()
	deadline := sla.Deadline(now, input.Trip.TravelType)

	req := &entity.TravelRequest{
		RequestNo:     input.RequestNo,
		Status:        machine.State().String(),
		RequesterID:   input.RequesterID,
		RequesterName: input.RequesterName,
		Entity:        input.Requester.Entity,
		TravelType:    input.Trip.TravelType,
		Destination:   input.Trip.Destination,
		DurationDays:  input.Trip.DurationDays,
		Travelers:     input.Trip.Travelers,
		EstimatedCost: input.Services.EstimatedCost,
		PolicyFlags:   verdict.Violations,
		SLADeadline:   &deadline,
		SubmittedAt:   &now,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.requestRepo.Create(ctx, req); err != nil {
		s.logger.Error("Failed to create request", "error", err, "request_no", input.RequestNo)
		return nil, err
	}

	s.logger.Info("Request submitted",
		"id", req.ID, "request_no", req.RequestNo,
		"compliant", verdict.Compliant, "violations", len(verdict.Violations))
	return req, nil
}

// EvaluatePolicy runs a compliance evaluation without touching any
// record, for pre-submission display.
func (s *requestServiceImpl) EvaluatePolicy(ctx context.Context, requester entity.TravelerAttributes, trip entity.TripContext, services policy.RequestedServices) (policy.Verdict, error) {
	rules, err := s.policyRepo.ListForEntity(ctx, requester.Entity)
	if err != nil {
		s.logger.Error("Failed to load policy rules", "error", err, "entity", requester.Entity)
		return policy.Verdict{}, err
	}
	return policy.Evaluate(rules, requester, trip, services), nil
}

// RequestQuotes records the vendor RFQ fan-out and moves the request
// into the quotation phase.
func (s *requestServiceImpl) RequestQuotes(ctx context.Context, id int64, agencies []string, expectedVersion int64) (*entity.TravelRequest, error) {
	return s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
		if err := machine.Fire(ctx, workflow.TriggerRequestQuotes); err != nil {
			return err
		}
		req.Status = machine.State().String()
		req.SentToAgencies = append(req.SentToAgencies, agencies...)
		req.Version++
		req.UpdatedAt = s.now()
		return nil
	})
}

// QuotesReady moves the request out of the quotation phase and records
// the completion timestamp the SLA tracker judges retrospectively.
func (s *requestServiceImpl) QuotesReady(ctx context.Context, id int64, expectedVersion int64) (*entity.TravelRequest, error) {
	return s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		machine := workflow.BuildTravelRequestStateMachine(workflow.State(req.Status))
		if err := machine.Fire(ctx, workflow.TriggerQuotesReady); err != nil {
			return err
		}
		now := s.now()
		req.Status = machine.State().String()
		req.QuotedAt = &now
		req.Version++
		req.UpdatedAt = now
		return nil
	})
}

// SelectQuote resolves the approval chain from the DOA matrix and starts
// a new approval cycle for the selected quotation's total cost.
func (s *requestServiceImpl) SelectQuote(ctx context.Context, id int64, totalCost float64, expectedVersion int64) (*entity.TravelRequest, error) {
	if totalCost < 0 {
		return nil, fmt.Errorf("total cost must not be negative: %.2f", totalCost)
	}

	req, err := s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		matrix, err := s.doaRepo.ListForEntity(ctx, req.Entity)
		if err != nil {
			return err
		}

		requester := entity.TravelerAttributes{Entity: req.Entity}
		res, err := s.engine.Initialize(ctx, req, requester, totalCost, matrix)
		if err != nil {
			return err
		}
		req.ActualCost = totalCost

		if res.Source == entity.ChainSourceFallback {
			s.logger.Warn("No DOA rule matched; generic fallback chain applied",
				"id", req.ID, "entity", req.Entity, "total_cost", totalCost)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notifyPending(ctx, req)
	return req, nil
}

// Approve applies an approval by the current role and notifies either
// the next approver or, on completion, the requester.
func (s *requestServiceImpl) Approve(ctx context.Context, id int64, approver approval.Approver, comment string, expectedVersion int64) (*entity.TravelRequest, error) {
	req, err := s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		return s.engine.Approve(ctx, req, approver, comment)
	})
	if err != nil {
		return nil, err
	}

	if req.Status == entity.StatusApproved {
		s.notifyOutcome(ctx, req, "approved")
	} else {
		s.notifyPending(ctx, req)
	}
	return req, nil
}

// Reject applies a rejection by the current role.
func (s *requestServiceImpl) Reject(ctx context.Context, id int64, approver approval.Approver, reason string, expectedVersion int64) (*entity.TravelRequest, error) {
	req, err := s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		return s.engine.Reject(ctx, req, approver, reason)
	})
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, req, "rejected")
	return req, nil
}

// SendBack returns the request to the quotation phase.
func (s *requestServiceImpl) SendBack(ctx context.Context, id int64, approver approval.Approver, reason string, expectedVersion int64) (*entity.TravelRequest, error) {
	req, err := s.transition(ctx, id, expectedVersion, func(ctx context.Context, req *entity.TravelRequest) error {
		return s.engine.SendBack(ctx, req, approver, reason)
	})
	if err != nil {
		return nil, err
	}

	s.notifyOutcome(ctx, req, "sent back")
	return req, nil
}

// Get retrieves a request by ID
func (s *requestServiceImpl) Get(ctx context.Context, id int64) (*entity.TravelRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get request", "error", err, "id", id)
		return nil, err
	}
	return req, nil
}

// List retrieves a paginated list of requests
func (s *requestServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.TravelRequest, error) {
	reqs, err := s.requestRepo.List(ctx, limit, offset)
	if err != nil {
		s.logger.Error("Failed to list requests", "error", err, "limit", limit, "offset", offset)
		return nil, err
	}
	return reqs, nil
}

// SLAStatus projects the current SLA display status for a request.
func (s *requestServiceImpl) SLAStatus(ctx context.Context, id int64) (sla.Status, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return sla.Status{}, err
	}
	if req.SLADeadline == nil {
		return sla.Status{}, fmt.Errorf("request %d has no SLA deadline", id)
	}
	return sla.Evaluate(*req.SLADeadline, req.Status, req.QuotedAt, s.now()), nil
}

// transition loads a request, checks the caller's expected version,
// applies the mutation and persists the result. The repository repeats
// the version check in SQL so racing writers fail instead of clobbering.
func (s *requestServiceImpl) transition(ctx context.Context, id, expectedVersion int64, fn func(ctx context.Context, req *entity.TravelRequest) error) (*entity.TravelRequest, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("Failed to get request", "error", err, "id", id)
		return nil, err
	}

	if err := approval.CheckVersion(req, expectedVersion); err != nil {
		return nil, err
	}

	if err := fn(ctx, req); err != nil {
		s.logger.Error("Transition failed", "error", err, "id", id, "status", req.Status)
		return nil, err
	}

	if err := s.requestRepo.Update(ctx, req); err != nil {
		s.logger.Error("Failed to update request", "error", err, "id", id)
		return nil, err
	}

	s.logger.Info("Request transitioned", "id", id, "status", req.Status, "version", req.Version)
	return req, nil
}

func (s *requestServiceImpl) notifyPending(ctx context.Context, req *entity.TravelRequest) {
	if s.notifier == nil {
		return
	}
	role := req.CurrentApproverRole()
	if role == "" || role == entity.RoleCompleted {
		return
	}
	if err := s.notifier.NotifyPendingApproval(ctx, role, req); err != nil {
		s.logger.Warn("Failed to notify pending approver", "error", err, "id", req.ID, "role", role)
	}
}

func (s *requestServiceImpl) notifyOutcome(ctx context.Context, req *entity.TravelRequest, outcome string) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyOutcome(ctx, req, outcome); err != nil {
		s.logger.Warn("Failed to notify outcome", "error", err, "id", req.ID, "outcome", outcome)
	}
}
