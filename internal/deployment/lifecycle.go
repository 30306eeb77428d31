// AngelaMos | 2026
// lifecycle.go

package deployment

import (
	"errors"
	"fmt"
	"time"
)

var ErrIllegalTransition = errors.New("illegal status transition")

var transitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusFailed, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ApplyTransition mutates a snapshot: entering in-progress stamps the
// start time, reaching a terminal state stamps the end time, and
// completion forces full progress.
func ApplyTransition(d Deployment, targetStatus string, now time.Time) (Deployment, error) {
	if !CanTransition(d.Status, targetStatus) {
		return d, fmt.Errorf(
			"%s -> %s: %w", d.Status, targetStatus, ErrIllegalTransition)
	}

	d.Status = targetStatus

	switch targetStatus {
	case StatusInProgress:
		if d.StartedAt == nil {
			startedAt := now
			d.StartedAt = &startedAt
		}
	case StatusCompleted:
		d.Progress = 100
		fallthrough
	case StatusFailed, StatusCancelled:
		if d.EndedAt == nil {
			endedAt := now
			d.EndedAt = &endedAt
		}
	}

	return d, nil
}
