// AngelaMos | 2026
// lifecycle.go

package task

import (
	"errors"
	"fmt"
	"time"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
)

var (
	ErrIllegalTransition  = errors.New("illegal status transition")
	ErrPrerequisiteNotMet = errors.New("prerequisite not met")
	ErrProgressOutOfRange = errors.New("progress out of range")
)

// transitions is the full legal edge set; completed and cancelled are
// terminal by omission.
var transitions = map[string][]string{
	StatusPending:    {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusOnHold, StatusCancelled},
	StatusOnHold:     {StatusInProgress, StatusCancelled},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// SetProgress applies a progress value to a snapshot of the task.
// Reaching 100 completes the task and stamps the completion time once;
// a completed task never accepts anything below 100.
func SetProgress(
	t Task,
	actor *account.Account,
	progress int,
	now time.Time,
) (Task, error) {
	if !account.Authorize(actor, t.Module) {
		return t, fmt.Errorf("set progress: %w", core.ErrForbidden)
	}

	if progress < 0 || progress > 100 {
		return t, fmt.Errorf(
			"progress %d: %w", progress, ErrProgressOutOfRange)
	}

	if t.Status == StatusCompleted && progress < 100 {
		return t, fmt.Errorf(
			"cannot regress a completed task to %d: %w",
			progress, ErrIllegalTransition)
	}

	if t.Status == StatusCancelled {
		return t, fmt.Errorf(
			"cannot set progress on a cancelled task: %w", ErrIllegalTransition)
	}

	t.Progress = progress

	if progress == 100 && t.Status != StatusCompleted {
		t.Status = StatusCompleted
		if t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
	}

	return t, nil
}

// TransitionStatus applies targetStatus to a snapshot of the task.
// Entering completed directly forces progress to 100 so the
// progress/status invariant holds on every path.
func TransitionStatus(
	t Task,
	actor *account.Account,
	targetStatus string,
	now time.Time,
) (Task, error) {
	if !account.Authorize(actor, t.Module) {
		return t, fmt.Errorf(
			"transition to %s: %w", targetStatus, core.ErrForbidden)
	}

	if !CanTransition(t.Status, targetStatus) {
		return t, fmt.Errorf(
			"%s -> %s: %w", t.Status, targetStatus, ErrIllegalTransition)
	}

	t.Status = targetStatus

	if targetStatus == StatusCompleted {
		t.Progress = 100
		if t.CompletedAt == nil {
			completedAt := now
			t.CompletedAt = &completedAt
		}
	}

	return t, nil
}
