// AngelaMos | 2026
// repository.go

package deployment

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gashasec/portal-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, d *Deployment) error
	GetByID(ctx context.Context, id string) (*Deployment, error)
	Update(ctx context.Context, d *Deployment) error
	ListForTask(ctx context.Context, taskID string) ([]Deployment, error)
	AppendLog(ctx context.Context, deploymentID, line string) error
	GetLogs(ctx context.Context, deploymentID string) ([]LogLine, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const deploymentColumns = `
	d.id, d.task_id, d.environment, d.status, d.progress, d.started_at,
	d.ended_at, d.version, d.created_at, d.updated_at,
	p.module`

const deploymentJoins = `
	FROM deployments d
	JOIN tasks t ON t.id = d.task_id
	JOIN requests r ON r.id = t.request_id
	JOIN products p ON p.id = r.product_id`

func (r *repository) Create(ctx context.Context, d *Deployment) error {
	query := `
		INSERT INTO deployments (
			id, task_id, environment, status, progress
		) VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, version`

	err := r.db.GetContext(ctx, d, query,
		d.ID,
		d.TaskID,
		d.Environment,
		d.Status,
		d.Progress,
	)
	if err != nil {
		return fmt.Errorf("create deployment: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Deployment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE d.id = $1`, deploymentColumns, deploymentJoins)

	var d Deployment
	err := r.db.GetContext(ctx, &d, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get deployment: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get deployment: %w", err)
	}

	return &d, nil
}

func (r *repository) Update(ctx context.Context, d *Deployment) error {
	query := `
		UPDATE deployments
		SET status = $3, progress = $4, started_at = $5, ended_at = $6,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		d.ID,
		d.Version,
		d.Status,
		d.Progress,
		d.StartedAt,
		d.EndedAt,
	).Scan(&d.Version, &d.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.classifyMissedUpdate(ctx, d.ID, "update deployment")
	}
	if err != nil {
		return fmt.Errorf("update deployment: %w", err)
	}

	return nil
}

func (r *repository) classifyMissedUpdate(
	ctx context.Context,
	id, op string,
) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM deployments WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func (r *repository) ListForTask(
	ctx context.Context,
	taskID string,
) ([]Deployment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE d.task_id = $1
		ORDER BY d.created_at DESC`, deploymentColumns, deploymentJoins)

	var items []Deployment
	if err := r.db.SelectContext(ctx, &items, query, taskID); err != nil {
		return nil, fmt.Errorf("list deployments: %w", err)
	}

	return items, nil
}

func (r *repository) AppendLog(
	ctx context.Context,
	deploymentID, line string,
) error {
	query := `
		INSERT INTO deployment_logs (deployment_id, line)
		VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, deploymentID, line); err != nil {
		return fmt.Errorf("append deployment log: %w", err)
	}

	return nil
}

func (r *repository) GetLogs(
	ctx context.Context,
	deploymentID string,
) ([]LogLine, error) {
	query := `
		SELECT id, deployment_id, line, created_at
		FROM deployment_logs
		WHERE deployment_id = $1
		ORDER BY id ASC`

	var lines []LogLine
	if err := r.db.SelectContext(ctx, &lines, query, deploymentID); err != nil {
		return nil, fmt.Errorf("get deployment logs: %w", err)
	}

	return lines, nil
}
