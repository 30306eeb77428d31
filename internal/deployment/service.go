// AngelaMos | 2026
// service.go

package deployment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/task"
)

type ActorProvider interface {
	Get(ctx context.Context, id string) (*account.Account, error)
}

// TaskProvider resolves the parent task on behalf of the actor; the
// module authorization check happens there.
type TaskProvider interface {
	Get(ctx context.Context, actorID, id string) (*task.Task, error)
}

type Service struct {
	repo   Repository
	actors ActorProvider
	tasks  TaskProvider
	now    func() time.Time
}

func NewService(
	repo Repository,
	actors ActorProvider,
	tasks TaskProvider,
) *Service {
	return &Service{
		repo:   repo,
		actors: actors,
		tasks:  tasks,
		now:    time.Now,
	}
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateDeploymentRequest,
) (*Deployment, error) {
	parent, err := s.tasks.Get(ctx, actorID, req.TaskID)
	if err != nil {
		return nil, err
	}

	d := Deployment{
		ID:          uuid.New().String(),
		TaskID:      parent.ID,
		Environment: req.Environment,
		Status:      StatusPending,
		Progress:    0,
		Module:      parent.Module,
	}

	if err := s.repo.Create(ctx, &d); err != nil {
		return nil, err
	}

	return &d, nil
}

func (s *Service) Get(
	ctx context.Context,
	actorID, id string,
) (*Deployment, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, d.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", d.Module, core.ErrForbidden)
	}

	return d, nil
}

func (s *Service) ListForTask(
	ctx context.Context,
	actorID, taskID string,
) ([]Deployment, error) {
	// The task fetch enforces module authorization.
	if _, err := s.tasks.Get(ctx, actorID, taskID); err != nil {
		return nil, err
	}

	return s.repo.ListForTask(ctx, taskID)
}

func (s *Service) Transition(
	ctx context.Context,
	actorID, id, targetStatus string,
) (*Deployment, error) {
	d, err := s.Get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	updated, err := ApplyTransition(*d, targetStatus, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	//nolint:errcheck // log append is best-effort bookkeeping
	_ = s.repo.AppendLog(ctx, updated.ID,
		fmt.Sprintf("status changed to %s", targetStatus))

	return &updated, nil
}

func (s *Service) SetProgress(
	ctx context.Context,
	actorID, id string,
	progress int,
) (*Deployment, error) {
	if progress < 0 || progress > 100 {
		return nil, fmt.Errorf(
			"progress %d out of range: %w", progress, core.ErrInvalidInput)
	}

	d, err := s.Get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	if d.IsTerminal() {
		return nil, fmt.Errorf(
			"deployment is %s: %w", d.Status, ErrIllegalTransition)
	}

	d.Progress = progress

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}

	return d, nil
}

func (s *Service) AppendLog(
	ctx context.Context,
	actorID, id, line string,
) error {
	d, err := s.Get(ctx, actorID, id)
	if err != nil {
		return err
	}

	return s.repo.AppendLog(ctx, d.ID, line)
}

func (s *Service) GetLogs(
	ctx context.Context,
	actorID, id string,
) ([]LogLine, error) {
	d, err := s.Get(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	return s.repo.GetLogs(ctx, d.ID)
}
