// AngelaMos | 2026
// entity.go

package deployment

import (
	"time"
)

const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

const (
	StatusPending    = "pending"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusCancelled  = "cancelled"
)

var validEnvironments = map[string]struct{}{
	EnvDevelopment: {},
	EnvStaging:     {},
	EnvProduction:  {},
}

func IsValidEnvironment(env string) bool {
	_, ok := validEnvironments[env]
	return ok
}

type Deployment struct {
	ID          string     `db:"id"`
	TaskID      string     `db:"task_id"`
	Environment string     `db:"environment"`
	Status      string     `db:"status"`
	Progress    int        `db:"progress"`
	StartedAt   *time.Time `db:"started_at"`
	EndedAt     *time.Time `db:"ended_at"`
	Version     int        `db:"version"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`

	// Module is denormalized from the task's request's product on every
	// read. Never written back.
	Module string `db:"module"`
}

func (d *Deployment) IsTerminal() bool {
	switch d.Status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	}
	return false
}

// LogLine is an append-only record; lines are never edited or deleted
// while their deployment exists.
type LogLine struct {
	ID           int64     `db:"id"`
	DeploymentID string    `db:"deployment_id"`
	Line         string    `db:"line"`
	CreatedAt    time.Time `db:"created_at"`
}
