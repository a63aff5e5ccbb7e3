package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nattapongw/travel-portal/internal/application/port"
	"github.com/nattapongw/travel-portal/internal/domain/entity"
	"go.uber.org/zap"
)

// RequestRepository implements port.RequestRepository on SQLite.
// Approval cycles, policy flags and the agency audit trail are stored
// as JSON columns; the record is otherwise flat per the persistence
// contract.
type RequestRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sql.DB, logger *zap.Logger) port.RequestRepository {
	return &RequestRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a new travel request
func (r *RequestRepository) Create(ctx context.Context, req *entity.TravelRequest) error {
	cycles, flags, agencies, err := marshalRequestJSON(req)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO travel_requests (
			request_no, status, requester_id, requester_name, entity,
			travel_type, destination, duration_days, travelers,
			estimated_cost, actual_cost, policy_flags, policy_exception_reason,
			cycles, sla_deadline, submitted_at, quoted_at, sent_to_agencies,
			version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		req.RequestNo, req.Status, req.RequesterID, req.RequesterName, req.Entity,
		req.TravelType, req.Destination, req.DurationDays, req.Travelers,
		req.EstimatedCost, req.ActualCost, flags, req.PolicyExceptionReason,
		cycles, nullableTime(req.SLADeadline), nullableTime(req.SubmittedAt), nullableTime(req.QuotedAt), agencies,
		req.Version, req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	req.ID = id
	return nil
}

// GetByID retrieves a travel request by ID
func (r *RequestRepository) GetByID(ctx context.Context, id int64) (*entity.TravelRequest, error) {
	row := r.db.QueryRowContext(ctx, selectRequestQuery+" WHERE id = ?", id)

	req, err := scanRequest(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("request %d: %w", id, port.ErrNotFound)
	}
	if err != nil {
		r.logger.Error("Failed to get request by ID", zap.Int64("id", id), zap.Error(err))
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return req, nil
}

// Update persists a transitioned request. The WHERE clause repeats the
// optimistic version check: the stored row must still carry the version
// the transition started from.
func (r *RequestRepository) Update(ctx context.Context, req *entity.TravelRequest) error {
	cycles, flags, agencies, err := marshalRequestJSON(req)
	if err != nil {
		return err
	}

	query := `
		UPDATE travel_requests SET
			status = ?, actual_cost = ?, policy_flags = ?, policy_exception_reason = ?,
			cycles = ?, sla_deadline = ?, quoted_at = ?, sent_to_agencies = ?,
			version = ?, updated_at = ?
		WHERE id = ? AND version = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		req.Status, req.ActualCost, flags, req.PolicyExceptionReason,
		cycles, nullableTime(req.SLADeadline), nullableTime(req.QuotedAt), agencies,
		req.Version, req.UpdatedAt,
		req.ID, req.Version-1,
	)
	if err != nil {
		r.logger.Error("Failed to update request", zap.Int64("id", req.ID), zap.Error(err))
		return fmt.Errorf("failed to update request: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %d at version %d: %w", req.ID, req.Version-1, port.ErrStaleRecord)
	}
	return nil
}

// Delete removes a travel request
func (r *RequestRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM travel_requests WHERE id = ?", id)
	if err != nil {
		r.logger.Error("Failed to delete request", zap.Int64("id", id), zap.Error(err))
		return fmt.Errorf("failed to delete request: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("request %d: %w", id, port.ErrNotFound)
	}
	return nil
}

// List retrieves a paginated list of requests, newest first
func (r *RequestRepository) List(ctx context.Context, limit, offset int) ([]*entity.TravelRequest, error) {
	rows, err := r.db.QueryContext(ctx, selectRequestQuery+" ORDER BY id DESC LIMIT ? OFFSET ?", limit, offset)
	if err != nil {
		r.logger.Error("Failed to list requests", zap.Error(err))
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}
	defer rows.Close()

	var reqs []*entity.TravelRequest
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

const selectRequestQuery = `
	SELECT id, request_no, status, requester_id, requester_name, entity,
		travel_type, destination, duration_days, travelers,
		estimated_cost, actual_cost, policy_flags, policy_exception_reason,
		cycles, sla_deadline, submitted_at, quoted_at, sent_to_agencies,
		version, created_at, updated_at
	FROM travel_requests`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRequest(row rowScanner) (*entity.TravelRequest, error) {
	var req entity.TravelRequest
	var cycles, flags, agencies string
	var slaDeadline, submittedAt, quotedAt sql.NullTime

	err := row.Scan(
		&req.ID, &req.RequestNo, &req.Status, &req.RequesterID, &req.RequesterName, &req.Entity,
		&req.TravelType, &req.Destination, &req.DurationDays, &req.Travelers,
		&req.EstimatedCost, &req.ActualCost, &flags, &req.PolicyExceptionReason,
		&cycles, &slaDeadline, &submittedAt, &quotedAt, &agencies,
		&req.Version, &req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(cycles), &req.Cycles); err != nil {
		return nil, fmt.Errorf("failed to decode cycles: %w", err)
	}
	if err := json.Unmarshal([]byte(flags), &req.PolicyFlags); err != nil {
		return nil, fmt.Errorf("failed to decode policy flags: %w", err)
	}
	if err := json.Unmarshal([]byte(agencies), &req.SentToAgencies); err != nil {
		return nil, fmt.Errorf("failed to decode agencies: %w", err)
	}

	if slaDeadline.Valid {
		req.SLADeadline = &slaDeadline.Time
	}
	if submittedAt.Valid {
		req.SubmittedAt = &submittedAt.Time
	}
	if quotedAt.Valid {
		req.QuotedAt = &quotedAt.Time
	}

	return &req, nil
}

func marshalRequestJSON(req *entity.TravelRequest) (cycles, flags, agencies string, err error) {
	c, err := json.Marshal(orEmptyCycles(req.Cycles))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode cycles: %w", err)
	}
	f, err := json.Marshal(orEmptyStrings(req.PolicyFlags))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode policy flags: %w", err)
	}
	a, err := json.Marshal(orEmptyStrings(req.SentToAgencies))
	if err != nil {
		return "", "", "", fmt.Errorf("failed to encode agencies: %w", err)
	}
	return string(c), string(f), string(a), nil
}

func orEmptyCycles(c []entity.ApprovalCycle) []entity.ApprovalCycle {
	if c == nil {
		return []entity.ApprovalCycle{}
	}
	return c
}

func orEmptyStrings(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullableTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
