// AngelaMos | 2026
// lifecycle_test.go

package task

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
)

func technicalActor(modules ...string) *account.Account {
	return &account.Account{
		ID:                 "tech-1",
		Role:               account.RoleTechnical,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList(modules),
	}
}

func inProgressTask(module string, progress int) Task {
	return Task{
		ID:       "task-1",
		Title:    "Deploy agent",
		Status:   StatusInProgress,
		Progress: progress,
		Module:   module,
	}
}

func TestSetProgressReachingHundredCompletes(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("gasha", 80)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	updated, err := SetProgress(tk, actor, 100, now)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedAt)
	assert.Equal(t, now, *updated.CompletedAt)
}

func TestSetProgressRegressionOnCompletedRejected(t *testing.T) {
	actor := technicalActor("gasha")
	completedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tk := Task{
		ID:          "task-1",
		Status:      StatusCompleted,
		Progress:    100,
		CompletedAt: &completedAt,
		Module:      "gasha",
	}

	for _, progress := range []int{0, 50, 99} {
		updated, err := SetProgress(tk, actor, progress, time.Now())
		assert.ErrorIs(t, err, ErrIllegalTransition, "progress %d", progress)
		assert.Equal(t, tk, updated)
	}
}

func TestSetProgressOutOfRange(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("gasha", 10)

	for _, progress := range []int{-1, 101, 500} {
		updated, err := SetProgress(tk, actor, progress, time.Now())
		assert.ErrorIs(t, err, ErrProgressOutOfRange, "progress %d", progress)
		assert.Equal(t, tk, updated)
	}
}

func TestSetProgressUnauthorizedModule(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("nisir", 10)

	updated, err := SetProgress(tk, actor, 50, time.Now())
	require.ErrorIs(t, err, core.ErrForbidden)
	assert.Equal(t, tk, updated)
}

func TestSetProgressCompletionTimestampSetOnce(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("gasha", 99)
	first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	completed, err := SetProgress(tk, actor, 100, first)
	require.NoError(t, err)
	require.NotNil(t, completed.CompletedAt)

	// Re-applying 100 keeps the original timestamp.
	again, err := SetProgress(completed, actor, 100, first.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, first, *again.CompletedAt)
}

func TestTransitionStatusDirectCompletionForcesProgress(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("gasha", 40)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	updated, err := TransitionStatus(tk, actor, StatusCompleted, now)
	require.NoError(t, err)

	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.Progress)
	require.NotNil(t, updated.CompletedAt)
}

func TestTransitionStatusEdges(t *testing.T) {
	tests := []struct {
		from  string
		to    string
		legal bool
	}{
		{StatusPending, StatusInProgress, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusPending, StatusOnHold, false},
		{StatusInProgress, StatusCompleted, true},
		{StatusInProgress, StatusOnHold, true},
		{StatusInProgress, StatusCancelled, true},
		{StatusInProgress, StatusPending, false},
		{StatusOnHold, StatusInProgress, true},
		{StatusOnHold, StatusCancelled, true},
		{StatusOnHold, StatusCompleted, false},
		{StatusCompleted, StatusInProgress, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusInProgress, false},
		{StatusCancelled, StatusCompleted, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.legal, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionStatusTerminalImmutable(t *testing.T) {
	actor := technicalActor("gasha")

	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		tk := inProgressTask("gasha", 100)
		tk.Status = terminal

		for _, target := range []string{
			StatusPending, StatusInProgress, StatusCompleted,
			StatusOnHold, StatusCancelled,
		} {
			updated, err := TransitionStatus(tk, actor, target, time.Now())
			assert.ErrorIs(t, err, ErrIllegalTransition,
				"%s -> %s must be illegal", terminal, target)
			assert.Equal(t, tk, updated)
		}
	}
}

func TestSetProgressOnCancelledRejected(t *testing.T) {
	actor := technicalActor("gasha")
	tk := inProgressTask("gasha", 40)
	tk.Status = StatusCancelled

	_, err := SetProgress(tk, actor, 60, time.Now())
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestProgressStatusInvariantHolds(t *testing.T) {
	actor := technicalActor("gasha")
	now := time.Now()

	// Walk a realistic sequence and check the invariant at each step.
	tk := Task{ID: "task-1", Status: StatusPending, Progress: 0, Module: "gasha"}

	steps := []func(Task) (Task, error){
		func(t Task) (Task, error) { return TransitionStatus(t, actor, StatusInProgress, now) },
		func(t Task) (Task, error) { return SetProgress(t, actor, 30, now) },
		func(t Task) (Task, error) { return TransitionStatus(t, actor, StatusOnHold, now) },
		func(t Task) (Task, error) { return TransitionStatus(t, actor, StatusInProgress, now) },
		func(t Task) (Task, error) { return SetProgress(t, actor, 100, now) },
	}

	for i, step := range steps {
		var err error
		tk, err = step(tk)
		require.NoError(t, err, "step %d", i)

		completed := tk.Status == StatusCompleted
		assert.Equal(t, completed, tk.Progress == 100,
			"progress/status invariant broken at step %d", i)
	}

	assert.Equal(t, StatusCompleted, tk.Status)
}
