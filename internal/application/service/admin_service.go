package service

import (
	"context"
	"fmt"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// AdminService manages the policy rule set and the DOA matrix. Edits
// here never touch in-flight requests: chains are snapshotted at
// selection time and evaluations always read the current rule set.
type AdminService interface {
	CreatePolicyRule(ctx context.Context, rule *entity.PolicyRule) error
	DeletePolicyRule(ctx context.Context, id int64) error
	ListPolicyRules(ctx context.Context, owningEntity string) ([]entity.PolicyRule, error)

	CreateDOARule(ctx context.Context, rule *entity.DOARule) error
	DeleteDOARule(ctx context.Context, id int64) error
	ListDOARules(ctx context.Context, owningEntity string) ([]entity.DOARule, error)
}

type adminServiceImpl struct {
	policyRepo port.PolicyRuleRepository
	doaRepo    port.DOARuleRepository
	logger     Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(policyRepo port.PolicyRuleRepository, doaRepo port.DOARuleRepository, logger Logger) AdminService {
	return &adminServiceImpl{
		policyRepo: policyRepo,
		doaRepo:    doaRepo,
		logger:     logger,
	}
}

func (s *adminServiceImpl) CreatePolicyRule(ctx context.Context, rule *entity.PolicyRule) error {
	if rule.Category != entity.CategoryFlightClass && rule.Category != entity.CategoryHotelLimit {
		return fmt.Errorf("unknown policy rule category: %s", rule.Category)
	}
	if rule.Entity == "" {
		rule.Entity = entity.EntityAll
	}
	if rule.TravelType == "" {
		rule.TravelType = entity.TravelTypeAll
	}

	if err := s.policyRepo.Create(ctx, rule); err != nil {
		s.logger.Error("Failed to create policy rule", "error", err, "category", rule.Category)
		return err
	}
	s.logger.Info("Policy rule created", "id", rule.ID, "category", rule.Category, "entity", rule.Entity)
	return nil
}

func (s *adminServiceImpl) DeletePolicyRule(ctx context.Context, id int64) error {
	if err := s.policyRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete policy rule", "error", err, "id", id)
		return err
	}
	s.logger.Info("Policy rule deleted", "id", id)
	return nil
}

func (s *adminServiceImpl) ListPolicyRules(ctx context.Context, owningEntity string) ([]entity.PolicyRule, error) {
	return s.policyRepo.ListForEntity(ctx, owningEntity)
}

func (s *adminServiceImpl) CreateDOARule(ctx context.Context, rule *entity.DOARule) error {
	if len(rule.Chain) == 0 {
		return fmt.Errorf("DOA rule must name at least one approver role")
	}
	if rule.MinCost < 0 {
		return fmt.Errorf("DOA rule min cost must not be negative: %.2f", rule.MinCost)
	}
	if rule.MaxCost >= 0 && rule.MaxCost < rule.MinCost {
		return fmt.Errorf("DOA rule cost range is inverted: [%.2f, %.2f]", rule.MinCost, rule.MaxCost)
	}

	if err := s.doaRepo.Create(ctx, rule); err != nil {
		s.logger.Error("Failed to create DOA rule", "error", err, "entity", rule.Entity)
		return err
	}
	s.logger.Info("DOA rule created", "id", rule.ID, "entity", rule.Entity, "priority", rule.Priority)
	return nil
}

func (s *adminServiceImpl) DeleteDOARule(ctx context.Context, id int64) error {
	if err := s.doaRepo.Delete(ctx, id); err != nil {
		s.logger.Error("Failed to delete DOA rule", "error", err, "id", id)
		return err
	}
	s.logger.Info("DOA rule deleted", "id", id)
	return nil
}

func (s *adminServiceImpl) ListDOARules(ctx context.Context, owningEntity string) ([]entity.DOARule, error) {
	return s.doaRepo.ListForEntity(ctx, owningEntity)
}
