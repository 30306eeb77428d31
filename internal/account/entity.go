// AngelaMos | 2026
// entity.go

package account

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	RoleSuperAdmin = "super-admin"
	RoleAdmin      = "admin"
	RoleMarketing  = "marketing"
	RoleTechnical  = "technical"
	RoleDeveloper  = "developer"
)

const (
	StatusActive    = "active"
	StatusInactive  = "inactive"
	StatusPending   = "pending"
	StatusSuspended = "suspended"
)

var validRoles = map[string]struct{}{
	RoleSuperAdmin: {},
	RoleAdmin:      {},
	RoleMarketing:  {},
	RoleTechnical:  {},
	RoleDeveloper:  {},
}

var validStatuses = map[string]struct{}{
	StatusActive:    {},
	StatusInactive:  {},
	StatusPending:   {},
	StatusSuspended: {},
}

func IsValidRole(role string) bool {
	_, ok := validRoles[role]
	return ok
}

func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

// ModuleList is stored as a JSONB column so the capability set stays a
// single value under the row's optimistic-concurrency version.
type ModuleList []string

func (m ModuleList) Value() (driver.Value, error) {
	if m == nil {
		return "[]", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal module list: %w", err)
	}
	return string(data), nil
}

func (m *ModuleList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("scan module list: unsupported type %T", src)
	}
}

func (m ModuleList) Contains(moduleID string) bool {
	for _, id := range m {
		if id == moduleID {
			return true
		}
	}
	return false
}

type Account struct {
	ID                 string     `db:"id"`
	Email              string     `db:"email"`
	PasswordHash       string     `db:"password_hash"`
	Name               string     `db:"name"`
	Role               string     `db:"role"`
	ModuleCapabilities ModuleList `db:"module_capabilities"`
	LegacyModule       *string    `db:"legacy_module"`
	Status             string     `db:"status"`
	TokenVersion       int        `db:"token_version"`
	Version            int        `db:"version"`
	LastLoginAt        *time.Time `db:"last_login_at"`
	CreatedAt          time.Time  `db:"created_at"`
	UpdatedAt          time.Time  `db:"updated_at"`
	DeletedAt          *time.Time `db:"deleted_at"`
}

func (a *Account) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

func (a *Account) IsActive() bool {
	return a.Status == StatusActive
}

func (a *Account) IsDeleted() bool {
	return a.DeletedAt != nil
}

// Capabilities is the only place the legacy single-module field is
// consulted. Dropping the fallback after a backfill touches no call site.
func (a *Account) Capabilities() ModuleList {
	if len(a.ModuleCapabilities) > 0 {
		return a.ModuleCapabilities
	}
	if a.LegacyModule != nil && *a.LegacyModule != "" {
		return ModuleList{*a.LegacyModule}
	}
	return nil
}

func (a *Account) HasCapability(moduleID string) bool {
	if a.IsSuperAdmin() {
		return true
	}
	return a.Capabilities().Contains(moduleID)
}
