// AngelaMos | 2026
// repository.go

package request

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gashasec/portal-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, req *Request) error
	GetByID(ctx context.Context, id string) (*Request, error)
	Update(ctx context.Context, req *Request) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, params ListRequestsParams) ([]Request, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const requestColumns = `
	r.id, r.product_id, r.company, r.contact_person, r.email, r.phone,
	r.status, r.priority, r.form_data, r.marketing_notes, r.admin_notes,
	r.technical_notes, r.assigned_to, r.version, r.created_at, r.updated_at,
	p.module`

func (r *repository) Create(ctx context.Context, req *Request) error {
	query := `
		INSERT INTO requests (
			id, product_id, company, contact_person, email, phone,
			status, priority, form_data
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at, version`

	err := r.db.GetContext(ctx, req, query,
		req.ID,
		req.ProductID,
		req.Company,
		req.ContactPerson,
		req.Email,
		req.Phone,
		req.Status,
		req.Priority,
		req.FormData,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Request, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM requests r
		JOIN products p ON p.id = r.product_id
		WHERE r.id = $1`, requestColumns)

	var req Request
	err := r.db.GetContext(ctx, &req, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get request: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get request: %w", err)
	}

	return &req, nil
}

// Update persists a transition conditioned on the version the caller
// read. Two racing transitions cannot both pass the version guard, so
// the second one surfaces as core.ErrConflict and retries from a fresh
// snapshot.
func (r *repository) Update(ctx context.Context, req *Request) error {
	query := `
		UPDATE requests
		SET status = $3, priority = $4, marketing_notes = $5, admin_notes = $6,
		    technical_notes = $7, assigned_to = $8,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		req.ID,
		req.Version,
		req.Status,
		req.Priority,
		req.MarketingNotes,
		req.AdminNotes,
		req.TechnicalNotes,
		req.AssignedTo,
	).Scan(&req.Version, &req.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.classifyMissedUpdate(ctx, req.ID, "update request")
	}
	if err != nil {
		return fmt.Errorf("update request: %w", err)
	}

	return nil
}

func (r *repository) classifyMissedUpdate(
	ctx context.Context,
	id, op string,
) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM requests WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func (r *repository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM requests WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete request: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("delete request: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) List(
	ctx context.Context,
	params ListRequestsParams,
) ([]Request, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("r.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("r.priority = $%d", argIdx))
		args = append(args, params.Priority)
		argIdx++
	}

	if params.Assigned != "" {
		conditions = append(conditions, fmt.Sprintf("r.assigned_to = $%d", argIdx))
		args = append(args, params.Assigned)
		argIdx++
	}

	if len(params.Modules) > 0 {
		placeholders := make([]string, 0, len(params.Modules))
		for _, m := range params.Modules {
			placeholders = append(placeholders, fmt.Sprintf("$%d", argIdx))
			args = append(args, m)
			argIdx++
		}
		conditions = append(conditions, fmt.Sprintf(
			"p.module IN (%s)", strings.Join(placeholders, ", ")))
	}

	whereClause := "TRUE"
	if len(conditions) > 0 {
		whereClause = strings.Join(conditions, " AND ")
	}

	countQuery := fmt.Sprintf(`
		SELECT COUNT(*)
		FROM requests r
		JOIN products p ON p.id = r.product_id
		WHERE %s`, whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count requests: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM requests r
		JOIN products p ON p.id = r.product_id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d`,
		requestColumns, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var requests []Request
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list requests: %w", err)
	}

	return requests, total, nil
}
