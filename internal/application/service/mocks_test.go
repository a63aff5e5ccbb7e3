package service

import (
	"context"
	"fmt"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

// Hand-rolled mocks with overridable function fields.

type mockRequestRepo struct {
	requests  map[int64]*entity.TravelRequest
	nextID    int64
	createErr error
	updateErr error
}

func newMockRequestRepo() *mockRequestRepo {
	return &mockRequestRepo{requests: make(map[int64]*entity.TravelRequest), nextID: 1}
}

func (m *mockRequestRepo) Create(ctx context.Context, req *entity.TravelRequest) error {
	if m.createErr != nil {
		return m.createErr
	}
	req.ID = m.nextID
	m.nextID++
	stored := *req
	m.requests[req.ID] = &stored
	return nil
}

func (m *mockRequestRepo) GetByID(ctx context.Context, id int64) (*entity.TravelRequest, error) {
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("request %d: %w", id, port.ErrNotFound)
	}
	copied := *req
	return &copied, nil
}

func (m *mockRequestRepo) Update(ctx context.Context, req *entity.TravelRequest) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	stored, ok := m.requests[req.ID]
	if !ok {
		return fmt.Errorf("request %d: %w", req.ID, port.ErrNotFound)
	}
	if stored.Version != req.Version-1 {
		return fmt.Errorf("request %d: %w", req.ID, port.ErrStaleRecord)
	}
	copied := *req
	m.requests[req.ID] = &copied
	return nil
}

func (m *mockRequestRepo) Delete(ctx context.Context, id int64) error {
	delete(m.requests, id)
	return nil
}

func (m *mockRequestRepo) List(ctx context.Context, limit, offset int) ([]*entity.TravelRequest, error) {
	var out []*entity.TravelRequest
	for _, req := range m.requests {
		copied := *req
		out = append(out, &copied)
	}
	return out, nil
}

type mockPolicyRepo struct {
	rules   []entity.PolicyRule
	listErr error
}

func (m *mockPolicyRepo) Create(ctx context.Context, rule *entity.PolicyRule) error {
	rule.ID = int64(len(m.rules) + 1)
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *mockPolicyRepo) Delete(ctx context.Context, id int64) error {
	for i, rule := range m.rules {
		if rule.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("policy rule %d: %w", id, port.ErrNotFound)
}

func (m *mockPolicyRepo) ListForEntity(ctx context.Context, owningEntity string) ([]entity.PolicyRule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entity.PolicyRule
	for _, rule := range m.rules {
		if rule.Entity == owningEntity || rule.Entity == entity.EntityAll {
			out = append(out, rule)
		}
	}
	return out, nil
}

type mockDOARepo struct {
	rules   []entity.DOARule
	listErr error
}

func (m *mockDOARepo) Create(ctx context.Context, rule *entity.DOARule) error {
	rule.ID = int64(len(m.rules) + 1)
	m.rules = append(m.rules, *rule)
	return nil
}

func (m *mockDOARepo) Delete(ctx context.Context, id int64) error {
	for i, rule := range m.rules {
		if rule.ID == id {
			m.rules = append(m.rules[:i], m.rules[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("DOA rule %d: %w", id, port.ErrNotFound)
}

func (m *mockDOARepo) ListForEntity(ctx context.Context, owningEntity string) ([]entity.DOARule, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []entity.DOARule
	for _, rule := range m.rules {
		if rule.Entity == owningEntity || rule.Entity == entity.EntityAll {
			out = append(out, rule)
		}
	}
	return out, nil
}

type mockNotifier struct {
	pending  []string
	outcomes []string
	err      error
}

func (m *mockNotifier) NotifyPendingApproval(ctx context.Context, role string, req *entity.TravelRequest) error {
	if m.err != nil {
		return m.err
	}
	m.pending = append(m.pending, role)
	return nil
}

func (m *mockNotifier) NotifyOutcome(ctx context.Context, req *entity.TravelRequest, outcome string) error {
	if m.err != nil {
		return m.err
	}
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

type mockGenerator struct {
	generateFn func(ctx context.Context, system, prompt string) (string, error)
	lastPrompt string
}

func (m *mockGenerator) Generate(ctx context.Context, system, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.generateFn != nil {
		return m.generateFn(ctx, system, prompt)
	}
	return "answer", nil
}

type mockReceiptReader struct {
	text string
	err  error
}

func (m *mockReceiptReader) ExtractText(ctx context.Context, path string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.text, nil
}

type nopLogger struct{}

func (nopLogger) Info(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Warn(msg string, keysAndValues ...interface{})  {}
func (nopLogger) Error(msg string, keysAndValues ...interface{}) {}
