// AngelaMos | 2026
// repository.go

package task

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gashasec/portal-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, t *Task) error
	GetByID(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, t *Task) error
	List(ctx context.Context, params ListTasksParams) ([]Task, int, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const taskColumns = `
	t.id, t.request_id, t.title, t.description, t.task_type, t.status,
	t.priority, t.assigned_to, t.requirements, t.progress, t.due_date,
	t.completed_at, t.version, t.created_at, t.updated_at,
	p.module`

const taskJoins = `
	FROM tasks t
	JOIN requests r ON r.id = t.request_id
	JOIN products p ON p.id = r.product_id`

func (r *repository) Create(ctx context.Context, t *Task) error {
	query := `
		INSERT INTO tasks (
			id, request_id, title, description, task_type, status,
			priority, assigned_to, requirements, progress, due_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at, version`

	err := r.db.GetContext(ctx, t, query,
		t.ID,
		t.RequestID,
		t.Title,
		t.Description,
		t.TaskType,
		t.Status,
		t.Priority,
		t.AssignedTo,
		t.Requirements,
		t.Progress,
		t.DueDate,
	)
	if err != nil {
		return fmt.Errorf("create task: %w", err)
	}

	return nil
}

func (r *repository) GetByID(ctx context.Context, id string) (*Task, error) {
	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE t.id = $1`, taskColumns, taskJoins)

	var t Task
	err := r.db.GetContext(ctx, &t, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get task: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}

	return &t, nil
}

func (r *repository) Update(ctx context.Context, t *Task) error {
	query := `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6,
		    assigned_to = $7, progress = $8, due_date = $9, completed_at = $10,
		    version = version + 1, updated_at = NOW()
		WHERE id = $1 AND version = $2
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		t.ID,
		t.Version,
		t.Title,
		t.Description,
		t.Status,
		t.Priority,
		t.AssignedTo,
		t.Progress,
		t.DueDate,
		t.CompletedAt,
	).Scan(&t.Version, &t.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return r.classifyMissedUpdate(ctx, t.ID, "update task")
	}
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}

	return nil
}

func (r *repository) classifyMissedUpdate(
	ctx context.Context,
	id, op string,
) error {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tasks WHERE id = $1)`
	if err := r.db.GetContext(ctx, &exists, query, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if exists {
		return fmt.Errorf("%s: %w", op, core.ErrConflict)
	}
	return fmt.Errorf("%s: %w", op, core.ErrNotFound)
}

func (r *repository) List(
	ctx context.Context,
	params ListTasksParams,
) ([]Task, int, error) {
	params.Normalize()

	var conditions []string
	var args []any
	argIdx := 1

	if params.Status != "" {
		conditions = append(conditions, fmt.Sprintf("t.status = $%d", argIdx))
		args = append(args, params.Status)
		argIdx++
	}

	if params.Priority != "" {
		conditions = append(conditions, fmt.Sprintf("t.priority = $%d", argIdx))
		args = append(args, params.Priority)
		argIdx++
	}

	if params.Assigned != "" {
		conditions = append(conditions, fmt.Sprintf("t.assigned_to = $%d", argIdx))
		args = append(args, params.Assigned)
		argIdx++
	}

	if params.Request != "" {
		conditions = append(conditions, fmt.Sprintf("t.request_id = $%d", argIdx))
		args = append(args, params.Request)
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
		%s
		WHERE %s`, taskJoins, whereClause)

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s
		%s
		WHERE %s
		ORDER BY t.created_at DESC
		LIMIT $%d OFFSET $%d`,
		taskColumns, taskJoins, whereClause, argIdx, argIdx+1)

	args = append(args, params.PageSize, params.Offset())

	var tasks []Task
	if err := r.db.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list tasks: %w", err)
	}

	return tasks, total, nil
}
