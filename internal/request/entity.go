// AngelaMos | 2026
// entity.go

package request

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusPending   = "pending"
	StatusValidated = "validated"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var validStatuses = map[string]struct{}{
	StatusPending:   {},
	StatusValidated: {},
	StatusApproved:  {},
	StatusRejected:  {},
	StatusCompleted: {},
}

var validPriorities = map[string]struct{}{
	PriorityLow:    {},
	PriorityMedium: {},
	PriorityHigh:   {},
	PriorityUrgent: {},
}

func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

func IsValidPriority(priority string) bool {
	_, ok := validPriorities[priority]
	return ok
}

// FormData carries the free-form intake payload as JSONB.
type FormData map[string]any

func (f FormData) Value() (driver.Value, error) {
	if f == nil {
		return "{}", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal form data: %w", err)
	}
	return string(data), nil
}

func (f *FormData) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("scan form data: unsupported type %T", src)
	}
}

type Request struct {
	ID             string    `db:"id"`
	ProductID      string    `db:"product_id"`
	Company        string    `db:"company"`
	ContactPerson  string    `db:"contact_person"`
	Email          string    `db:"email"`
	Phone          string    `db:"phone"`
	Status         string    `db:"status"`
	Priority       string    `db:"priority"`
	FormData       FormData  `db:"form_data"`
	MarketingNotes *string   `db:"marketing_notes"`
	AdminNotes     *string   `db:"admin_notes"`
	TechnicalNotes *string   `db:"technical_notes"`
	AssignedTo     *string   `db:"assigned_to"`
	Version        int       `db:"version"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`

	// Module is denormalized from the product row on every read so
	// authorization never needs a second fetch. Never written back.
	Module string `db:"module"`
}

func (r *Request) IsTerminal() bool {
	return r.Status == StatusRejected || r.Status == StatusCompleted
}
