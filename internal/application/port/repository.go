// Package port defines the interfaces between the engine's application
// services and their external collaborators (persistence, messaging,
// AI text generation). Services depend on these interfaces only.
package port

import (
	"context"
	"errors"

	"github.com/nattapongw/travel-portal/internal/domain/entity"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrStaleRecord is returned when an update loses the optimistic
	// version race against a concurrent writer
	ErrStaleRecord = errors.New("record was modified concurrently")
)

// RequestRepository persists travel requests. Update must apply the
// optimistic version check: it only succeeds when the stored version is
// exactly one behind the record being written.
type RequestRepository interface {
	Create(ctx context.Context, req *entity.TravelRequest) error
	GetByID(ctx context.Context, id int64) (*entity.TravelRequest, error)
	Update(ctx context.Context, req *entity.TravelRequest) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, limit, offset int) ([]*entity.TravelRequest, error)
}

// PolicyRuleRepository stores the policy rule set, keyed by owning entity.
type PolicyRuleRepository interface {
	Create(ctx context.Context, rule *entity.PolicyRule) error
	Delete(ctx context.Context, id int64) error
	ListForEntity(ctx context.Context, owningEntity string) ([]entity.PolicyRule, error)
}

// DOARuleRepository stores the delegation-of-authority matrix.
type DOARuleRepository interface {
	Create(ctx context.Context, rule *entity.DOARule) error
	Delete(ctx context.Context, id int64) error
	ListForEntity(ctx context.Context, owningEntity string) ([]entity.DOARule, error)
}
