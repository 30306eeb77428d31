// AngelaMos | 2026
// entity.go

package product

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

const (
	StatusActive      = "active"
	StatusInactive    = "inactive"
	StatusMaintenance = "maintenance"
)

var validStatuses = map[string]struct{}{
	StatusActive:      {},
	StatusInactive:    {},
	StatusMaintenance: {},
}

func IsValidStatus(status string) bool {
	_, ok := validStatuses[status]
	return ok
}

type FeatureList []string

func (f FeatureList) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	data, err := json.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("marshal feature list: %w", err)
	}
	return string(data), nil
}

func (f *FeatureList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*f = nil
		return nil
	case []byte:
		return json.Unmarshal(v, f)
	case string:
		return json.Unmarshal([]byte(v), f)
	default:
		return fmt.Errorf("scan feature list: unsupported type %T", src)
	}
}

type Product struct {
	ID               string      `db:"id"`
	Name             string      `db:"name"`
	Module           string      `db:"module"`
	Description      string      `db:"description"`
	Features         FeatureList `db:"features"`
	SupportsDownload bool        `db:"supports_download"`
	SupportsRequest  bool        `db:"supports_request"`
	ShowInCatalog    bool        `db:"show_in_catalog"`
	Status           string      `db:"status"`
	Version          int         `db:"version"`
	CreatedAt        time.Time   `db:"created_at"`
	UpdatedAt        time.Time   `db:"updated_at"`
}

func (p *Product) IsActive() bool {
	return p.Status == StatusActive
}

// VisibleInCatalog gates the unauthenticated catalog listing.
func (p *Product) VisibleInCatalog() bool {
	return p.ShowInCatalog && p.Status == StatusActive
}

func (p *Product) AcceptsRequests() bool {
	return p.SupportsRequest && p.Status == StatusActive
}
