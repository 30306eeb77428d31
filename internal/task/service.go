// AngelaMos | 2026
// service.go

package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/request"
)

type ActorProvider interface {
	Get(ctx context.Context, id string) (*account.Account, error)
}

// RequestProvider resolves the originating request on behalf of the
// actor, so the module authorization check happens at the source.
type RequestProvider interface {
	Get(ctx context.Context, actorID, id string) (*request.Request, error)
}

type Notifier interface {
	Notify(
		ctx context.Context,
		accountID, notifType, message, actionURL string,
	) error
}

type Service struct {
	repo     Repository
	actors   ActorProvider
	requests RequestProvider
	notifier Notifier
	now      func() time.Time
}

func NewService(
	repo Repository,
	actors ActorProvider,
	requests RequestProvider,
	notifier Notifier,
) *Service {
	return &Service{
		repo:     repo,
		actors:   actors,
		requests: requests,
		notifier: notifier,
		now:      time.Now,
	}
}

// Create spawns a task from an approved request. Any other request
// status fails the prerequisite check before anything is written.
func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateTaskRequest,
) (*Task, error) {
	origin, err := s.requests.Get(ctx, actorID, req.RequestID)
	if err != nil {
		return nil, err
	}

	if origin.Status != request.StatusApproved {
		return nil, fmt.Errorf(
			"request is %s, tasks require an approved request: %w",
			origin.Status, ErrPrerequisiteNotMet)
	}

	priority := req.Priority
	if priority == "" {
		priority = request.PriorityMedium
	}

	t := Task{
		ID:           uuid.New().String(),
		RequestID:    origin.ID,
		Title:        req.Title,
		Description:  req.Description,
		TaskType:     req.TaskType,
		Status:       StatusPending,
		Priority:     priority,
		Requirements: Requirements(req.Requirements),
		Progress:     0,
		DueDate:      req.DueDate,
		Module:       origin.Module,
	}

	if req.AssignedTo != "" {
		assignee, err := s.actors.Get(ctx, req.AssignedTo)
		if err != nil {
			return nil, fmt.Errorf("resolve assignee: %w", err)
		}

		if !assignee.IsSuperAdmin() && !assignee.HasCapability(origin.Module) {
			return nil, fmt.Errorf(
				"assignee lacks capability for module %q: %w",
				origin.Module, core.ErrInvalidInput)
		}

		t.AssignedTo = &assignee.ID
	}

	if err := s.repo.Create(ctx, &t); err != nil {
		return nil, err
	}

	if t.AssignedTo != nil {
		s.notifyAssignee(ctx, &t, "task_assigned",
			fmt.Sprintf("You were assigned the task %q", t.Title))
	}

	return &t, nil
}

func (s *Service) Get(ctx context.Context, actorID, id string) (*Task, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, t.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", t.Module, core.ErrForbidden)
	}

	return t, nil
}

func (s *Service) List(
	ctx context.Context,
	actorID string,
	params ListTasksParams,
) ([]Task, int, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve actor: %w", err)
	}

	if !actor.IsSuperAdmin() {
		allowed := actor.Capabilities()
		if len(params.Modules) == 0 {
			params.Modules = allowed
		} else {
			params.Modules = intersect(params.Modules, allowed)
		}

		if len(params.Modules) == 0 {
			return []Task{}, 0, nil
		}
	}

	return s.repo.List(ctx, params)
}

func (s *Service) Update(
	ctx context.Context,
	actorID, id string,
	req UpdateTaskRequest,
) (*Task, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, t.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", t.Module, core.ErrForbidden)
	}

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.DueDate != nil {
		t.DueDate = req.DueDate
	}

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	return t, nil
}

// SetProgress runs the read-transition-write cycle for a progress
// update, persisting under the version guard.
func (s *Service) SetProgress(
	ctx context.Context,
	actorID, id string,
	progress int,
) (*Task, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := SetProgress(*t, actor, progress, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if updated.Status == StatusCompleted && t.Status != StatusCompleted &&
		updated.AssignedTo != nil {
		s.notifyAssignee(ctx, &updated, "task_completed",
			fmt.Sprintf("Task %q was completed", updated.Title))
	}

	return &updated, nil
}

func (s *Service) TransitionStatus(
	ctx context.Context,
	actorID, id, targetStatus string,
) (*Task, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := TransitionStatus(*t, actor, targetStatus, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if targetStatus == StatusCompleted && updated.AssignedTo != nil {
		s.notifyAssignee(ctx, &updated, "task_completed",
			fmt.Sprintf("Task %q was completed", updated.Title))
	}

	return &updated, nil
}

func (s *Service) Assign(
	ctx context.Context,
	actorID, id, assigneeID string,
) (*Task, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	assignee, err := s.actors.Get(ctx, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("resolve assignee: %w", err)
	}

	t, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, t.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", t.Module, core.ErrForbidden)
	}

	if !assignee.IsSuperAdmin() && !assignee.HasCapability(t.Module) {
		return nil, fmt.Errorf(
			"assignee lacks capability for module %q: %w",
			t.Module, core.ErrInvalidInput)
	}

	t.AssignedTo = &assignee.ID

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}

	s.notifyAssignee(ctx, t, "task_assigned",
		fmt.Sprintf("You were assigned the task %q", t.Title))

	return t, nil
}

func (s *Service) notifyAssignee(
	ctx context.Context,
	t *Task,
	notifType, message string,
) {
	err := s.notifier.Notify(
		ctx,
		*t.AssignedTo,
		notifType,
		message,
		"/tasks/"+t.ID,
	)
	if err != nil {
		slog.Warn("task notification failed",
			"task_id", t.ID,
			"assignee", *t.AssignedTo,
			"error", err,
		)
	}
}

func intersect(requested, allowed []string) []string {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, m := range allowed {
		allowedSet[m] = struct{}{}
	}

	var out []string
	for _, m := range requested {
		if _, ok := allowedSet[m]; ok {
			out = append(out, m)
		}
	}
	return out
}
