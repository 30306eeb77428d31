// AngelaMos | 2026
// repository.go

package notification

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gashasec/portal-backend/internal/core"
)

type Repository interface {
	Create(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id string) (*Notification, error)
	ListForAccount(
		ctx context.Context,
		accountID string,
		limit int,
	) ([]Notification, error)
	CountUnread(ctx context.Context, accountID string) (int, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, accountID string) (int64, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const notificationColumns = `
	id, account_id, type, message, action_url, is_read, read_at,
	expires_at, created_at`

func (r *repository) Create(ctx context.Context, n *Notification) error {
	query := `
		INSERT INTO notifications (
			id, account_id, type, message, action_url, expires_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at`

	err := r.db.GetContext(ctx, &n.CreatedAt, query,
		n.ID,
		n.AccountID,
		n.Type,
		n.Message,
		n.ActionURL,
		n.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

func (r *repository) GetByID(
	ctx context.Context,
	id string,
) (*Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE id = $1`, notificationColumns)

	var n Notification
	err := r.db.GetContext(ctx, &n, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get notification: %w", core.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}

	return &n, nil
}

func (r *repository) ListForAccount(
	ctx context.Context,
	accountID string,
	limit int,
) ([]Notification, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM notifications
		WHERE account_id = $1
			AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT $2`, notificationColumns)

	var items []Notification
	err := r.db.SelectContext(ctx, &items, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}

	return items, nil
}

func (r *repository) CountUnread(
	ctx context.Context,
	accountID string,
) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM notifications
		WHERE account_id = $1
			AND is_read = false
			AND (expires_at IS NULL OR expires_at > NOW())`

	var count int
	if err := r.db.GetContext(ctx, &count, query, accountID); err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}

	return count, nil
}

func (r *repository) MarkRead(ctx context.Context, id string) error {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE id = $1 AND is_read = false`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}

	if rows == 0 {
		return fmt.Errorf("mark notification read: %w", core.ErrNotFound)
	}

	return nil
}

func (r *repository) MarkAllRead(
	ctx context.Context,
	accountID string,
) (int64, error) {
	query := `
		UPDATE notifications
		SET is_read = true, read_at = NOW()
		WHERE account_id = $1 AND is_read = false`

	result, err := r.db.ExecContext(ctx, query, accountID)
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("mark all notifications read: %w", err)
	}

	return rows, nil
}

func (r *repository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM notifications WHERE expires_at < NOW()`

	result, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete expired notifications: %w", err)
	}

	return rows, nil
}
