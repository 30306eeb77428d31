// AngelaMos | 2026
// service.go

package notification

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/gashasec/portal-backend/internal/core"
)

const (
	unreadCountKeyPrefix = "notifications:unread:"
	unreadCountTTL       = 5 * time.Minute
)

type Service struct {
	repo  Repository
	redis *redis.Client
}

func NewService(repo Repository, redisClient *redis.Client) *Service {
	return &Service{repo: repo, redis: redisClient}
}

// Notify persists a notification for the target account. Implements the
// collaborator interface the request and task services depend on.
func (s *Service) Notify(
	ctx context.Context,
	accountID, notifType, message, actionURL string,
) error {
	expiresAt := time.Now().Add(DefaultTTL)

	n := Notification{
		ID:        uuid.New().String(),
		AccountID: accountID,
		Type:      notifType,
		Message:   message,
		ActionURL: actionURL,
		ExpiresAt: &expiresAt,
	}

	if err := s.repo.Create(ctx, &n); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, accountID)
	return nil
}

func (s *Service) List(
	ctx context.Context,
	accountID string,
	limit int,
) ([]Notification, error) {
	if limit < 1 || limit > 100 {
		limit = 50
	}
	return s.repo.ListForAccount(ctx, accountID, limit)
}

// UnreadCount serves from the redis cache when warm, falling back to a
// count query and re-priming on a miss.
func (s *Service) UnreadCount(
	ctx context.Context,
	accountID string,
) (int, error) {
	key := unreadCountKeyPrefix + accountID

	cached, err := s.redis.Get(ctx, key).Result()
	if err == nil {
		if count, convErr := strconv.Atoi(cached); convErr == nil {
			return count, nil
		}
	}

	count, err := s.repo.CountUnread(ctx, accountID)
	if err != nil {
		return 0, err
	}

	//nolint:errcheck // cache priming is best-effort
	_ = s.redis.Set(ctx, key, strconv.Itoa(count), unreadCountTTL).Err()

	return count, nil
}

// MarkRead flips the read flag. Only the owning account may touch it.
func (s *Service) MarkRead(
	ctx context.Context,
	accountID, id string,
) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if n.AccountID != accountID {
		return fmt.Errorf("mark notification read: %w", core.ErrForbidden)
	}

	if n.IsRead {
		return nil
	}

	if err := s.repo.MarkRead(ctx, id); err != nil {
		return err
	}

	s.invalidateUnreadCount(ctx, accountID)
	return nil
}

func (s *Service) MarkAllRead(
	ctx context.Context,
	accountID string,
) (int64, error) {
	updated, err := s.repo.MarkAllRead(ctx, accountID)
	if err != nil {
		return 0, err
	}

	s.invalidateUnreadCount(ctx, accountID)
	return updated, nil
}

func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx)
}

func (s *Service) invalidateUnreadCount(ctx context.Context, accountID string) {
	//nolint:errcheck // a stale counter self-heals when the TTL lapses
	_ = s.redis.Del(ctx, unreadCountKeyPrefix+accountID).Err()
}
