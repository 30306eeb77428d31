// AngelaMos | 2026
// entity.go

package notification

import (
	"time"
)

const (
	TypeRequestAssigned  = "request_assigned"
	TypeRequestApproved  = "request_approved"
	TypeRequestCompleted = "request_completed"
	TypeTaskAssigned     = "task_assigned"
	TypeTaskCompleted    = "task_completed"
	TypeSystem           = "system"
)

// DefaultTTL bounds how long an unread notification stays visible.
const DefaultTTL = 30 * 24 * time.Hour

type Notification struct {
	ID        string     `db:"id"`
	AccountID string     `db:"account_id"`
	Type      string     `db:"type"`
	Message   string     `db:"message"`
	ActionURL string     `db:"action_url"`
	IsRead    bool       `db:"is_read"`
	ReadAt    *time.Time `db:"read_at"`
	ExpiresAt *time.Time `db:"expires_at"`
	CreatedAt time.Time  `db:"created_at"`
}

func (n *Notification) IsExpired(now time.Time) bool {
	return n.ExpiresAt != nil && n.ExpiresAt.Before(now)
}

type NotificationResponse struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Message   string     `json:"message"`
	ActionURL string     `json:"action_url"`
	IsRead    bool       `json:"is_read"`
	ReadAt    *time.Time `json:"read_at"`
	CreatedAt time.Time  `json:"created_at"`
}

func ToNotificationResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Message:   n.Message,
		ActionURL: n.ActionURL,
		IsRead:    n.IsRead,
		ReadAt:    n.ReadAt,
		CreatedAt: n.CreatedAt,
	}
}

func ToNotificationResponseList(items []Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		responses = append(responses, ToNotificationResponse(&n))
	}
	return responses
}
