package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"go.uber.org/zap"
)

// DOARuleRepository implements port.DOARuleRepository on SQLite. The
// approver-role chain is stored as a JSON array column.
type DOARuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDOARuleRepository creates a new DOA rule repository
func NewDOARuleRepository(db *sql.DB, logger *zap.Logger) port.DOARuleRepository {
	return &DOARuleRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new DOA rule
func (r *DOARuleRepository) Create(ctx context.Context, rule *entity.DOARule) error {
	chain, err := json.Marshal(rule.Chain)
	if err != nil {
		return fmt.Errorf("failed to encode chain: %w", err)
	}

	query := `
		INSERT INTO doa_rules (entity, min_cost, max_cost, priority, chain)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rule.Entity, rule.MinCost, rule.MaxCost, rule.Priority, string(chain),
	)
	if err != nil {
		r.logger.Error("Failed to create DOA rule", zap.Error(err))
		return fmt.Errorf("failed to create DOA rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// Delete removes a DOA rule
func (r *DOARuleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM doa_rules WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete DOA rule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete DOA rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("DOA rule %d: %w", id, port.ErrNotFound)
	}
	return nil
}

// ListForEntity returns the matrix rules for an entity plus the global
// "ALL" rules, in insertion order.
func (r *DOARuleRepository) ListForEntity(ctx context.Context, owningEntity string) ([]entity.DOARule, error) {
	query := `
		SELECT id, entity, min_cost, max_cost, priority, chain
		FROM doa_rules
		WHERE entity = ? OR entity = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, owningEntity, entity.EntityAll)
	if err != nil {
		r.logger.Error("Failed to list DOA rules", zap.String("entity", owningEntity), zap.Error(err))
		return nil, fmt.Errorf("failed to list DOA rules: %w", err)
	}
	defer rows.Close()

	var rules []entity.DOARule
	for rows.Next() {
		var rule entity.DOARule
		var chain string

		if err := rows.Scan(&rule.ID, &rule.Entity, &rule.MinCost, &rule.MaxCost, &rule.Priority, &chain); err != nil {
			return nil, fmt.Errorf("failed to scan DOA rule: %w", err)
		}
		if err := json.Unmarshal([]byte(chain), &rule.Chain); err != nil {
			return nil, fmt.Errorf("failed to decode chain: %w", err)
		}

		rules = append(rules, rule)
	}
	return rules, rows.Err()
}
