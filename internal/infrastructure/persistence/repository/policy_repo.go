package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"go.uber.org/zap"
)

// PolicyRuleRepository implements port.PolicyRuleRepository on SQLite
type PolicyRuleRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewPolicyRuleRepository creates a new policy rule repository
func NewPolicyRuleRepository(db *sql.DB, logger *zap.Logger) port.PolicyRuleRepository {
	return &PolicyRuleRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new policy rule
func (r *PolicyRuleRepository) Create(ctx context.Context, rule *entity.PolicyRule) error {
	query := `
		INSERT INTO policy_rules (
			entity, category, min_job_grade, max_job_grade,
			travel_type, min_duration_hours, allowed_class, amount_limit
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		rule.Entity, rule.Category, nullableInt(rule.MinJobGrade), nullableInt(rule.MaxJobGrade),
		rule.TravelType, nullableFloat(rule.MinDurationHours), rule.AllowedClass, rule.AmountLimit,
	)
	if err != nil {
		r.logger.Error("Failed to create policy rule", zap.Error(err))
		return fmt.Errorf("failed to create policy rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	return nil
}

// Delete removes a policy rule
func (r *PolicyRuleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM policy_rules WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete policy rule", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete policy rule: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("policy rule %d: %w", id, port.ErrNotFound)
	}
	return nil
}

// ListForEntity returns the rules owned by an entity plus the global
// "ALL" rules, in insertion order. Order matters: the hotel-limit
// tie-break takes the first match.
func (r *PolicyRuleRepository) ListForEntity(ctx context.Context, owningEntity string) ([]entity.PolicyRule, error) {
	query := `
		SELECT id, entity, category, min_job_grade, max_job_grade,
			travel_type, min_duration_hours, allowed_class, amount_limit
		FROM policy_rules
		WHERE entity = ? OR entity = ?
		ORDER BY id
	`

	rows, err := r.db.QueryContext(ctx, query, owningEntity, entity.EntityAll)
	if err != nil {
		r.logger.Error("Failed to list policy rules", zap.String("entity", owningEntity), zap.Error(err))
		return nil, fmt.Errorf("failed to list policy rules: %w", err)
	}
	defer rows.Close()

	var rules []entity.PolicyRule
	for rows.Next() {
		var rule entity.PolicyRule
		var minGrade, maxGrade sql.NullInt64
		var minDuration sql.NullFloat64

		err := rows.Scan(
			&rule.ID, &rule.Entity, &rule.Category, &minGrade, &maxGrade,
			&rule.TravelType, &minDuration, &rule.AllowedClass, &rule.AmountLimit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan policy rule: %w", err)
		}

		if minGrade.Valid {
			v := int(minGrade.Int64)
			rule.MinJobGrade = &v
		}
		if maxGrade.Valid {
			v := int(maxGrade.Int64)
			rule.MaxJobGrade = &v
		}
		if minDuration.Valid {
			v := minDuration.Float64
			rule.MinDurationHours = &v
		}

		rules = append(rules, rule)
	}
	return rules, rows.Err()
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func nullableFloat(v *float64) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
