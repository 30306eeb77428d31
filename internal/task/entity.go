// AngelaMos | 2026
// entity.go

package task

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusOnHold     = "on-hold"
	StatusCancelled  = "cancelled"
)

var validStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusOnHold:     {},
	StatusCancelled:  {},
}

func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

// Requirements carries the structured requirements payload as JSONB.
type Requirements map[string]any

func (q Requirements) Value() (driver.Value, error) {
	if q == nil {
		return "{}", nil
	}
	data, err := json.Marshal(q)
	if err != nil {
		return nil, fmt.Errorf("marshal requirements: %w", err)
	}
	return string(data), nil
}

func (q *Requirements) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*q = nil
		return nil
	case []byte:
		return json.Unmarshal(v, q)
	case string:
		return json.Unmarshal([]byte(v), q)
	default:
		return fmt.Errorf("scan requirements: unsupported type %T", src)
	}
}

type Task struct {
	ID           string       `db:"id"`
	RequestID    string       `db:"request_id"`
	Title        string       `db:"title"`
	Description  string       `db:"description"`
	TaskType     string       `db:"task_type"`
	Status       string       `db:"status"`
	Priority     string       `db:"priority"`
	AssignedTo   *string      `db:"assigned_to"`
	Requirements Requirements `db:"requirements"`
	Progress     int          `db:"progress"`
	DueDate      *time.Time   `db:"due_date"`
	CompletedAt  *time.Time   `db:"completed_at"`
	Version      int          `db:"version"`
	CreatedAt    time.Time    `db:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at"`

	// Module is denormalized from the originating request's product on
	// every read. Never written back.
	Module string `db:"module"`
}

func (t *Task) IsTerminal() bool {
	return t.Status == StatusCompleted || t.Status == StatusCancelled
}
