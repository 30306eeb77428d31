// AngelaMos | 2026
// service.go

package request

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/product"
)

type ActorProvider interface {
	Get(ctx context.Context, id string) (*account.Account, error)
}

type ProductProvider interface {
	Get(ctx context.Context, id string) (*product.Product, error)
}

// Notifier receives side-effect recommendations from transitions.
// Delivery failures never roll back the transition itself.
type Notifier interface {
	Notify(
		ctx context.Context,
		accountID, notifType, message, actionURL string,
	) error
}

type Service struct {
	repo     Repository
	actors   ActorProvider
	products ProductProvider
	notifier Notifier
}

func NewService(
	repo Repository,
	actors ActorProvider,
	products ProductProvider,
	notifier Notifier,
) *Service {
	return &Service{
		repo:     repo,
		actors:   actors,
		products: products,
		notifier: notifier,
	}
}

// CreateIntake handles the unauthenticated submission from the public
// catalog. The product must exist and be accepting requests.
func (s *Service) CreateIntake(
	ctx context.Context,
	req CreateRequestRequest,
) (*Request, error) {
	p, err := s.products.Get(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if !p.AcceptsRequests() {
		return nil, fmt.Errorf(
			"product %q does not accept requests: %w",
			p.Module, core.ErrInvalidInput)
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	entity := Request{
		ID:            uuid.New().String(),
		ProductID:     p.ID,
		Company:       req.Company,
		ContactPerson: req.ContactPerson,
		Email:         strings.ToLower(req.Email),
		Phone:         req.Phone,
		Status:        StatusPending,
		Priority:      priority,
		FormData:      FormData(req.FormData),
		Module:        p.Module,
	}

	if err := s.repo.Create(ctx, &entity); err != nil {
		return nil, err
	}

	return &entity, nil
}

func (s *Service) Get(
	ctx context.Context,
	actorID, id string,
) (*Request, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, req.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", req.Module, core.ErrForbidden)
	}

	return req, nil
}

// List scopes results to the actor's capability set. Super-admins see
// everything; everyone else is clamped to their own modules even when
// they ask for more.
func (s *Service) List(
	ctx context.Context,
	actorID string,
	params ListRequestsParams,
) ([]Request, int, error) {
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
			return []Request{}, 0, nil
		}
	}

	return s.repo.List(ctx, params)
}

// Transition runs the read-transition-write cycle: fetch a fresh
// snapshot, apply the pure transition, persist under the version guard.
// The notification side effect fires only after the write commits, so a
// lost race never emits twice.
func (s *Service) Transition(
	ctx context.Context,
	actorID, id, targetStatus, notes string,
) (*Request, error) {
	if !IsValidStatus(targetStatus) {
		return nil, fmt.Errorf(
			"invalid request status %q: %w", targetStatus, core.ErrInvalidInput)
	}

	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := Transition(*req, actor, targetStatus, notes)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	if NotifiesAssignee(targetStatus) && updated.AssignedTo != nil {
		s.notifyAssignee(ctx, &updated, targetStatus)
	}

	return &updated, nil
}

func (s *Service) notifyAssignee(
	ctx context.Context,
	req *Request,
	targetStatus string,
) {
	message := fmt.Sprintf(
		"Request from %s for module %s is now %s",
		req.Company, req.Module, targetStatus)

	err := s.notifier.Notify(
		ctx,
		*req.AssignedTo,
		"request_"+targetStatus,
		message,
		"/requests/"+req.ID,
	)
	if err != nil {
		slog.Warn("request notification failed",
			"request_id", req.ID,
			"assignee", *req.AssignedTo,
			"error", err,
		)
	}
}

func (s *Service) Assign(
	ctx context.Context,
	actorID, id, assigneeID string,
) (*Request, error) {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	assignee, err := s.actors.Get(ctx, assigneeID)
	if err != nil {
		return nil, fmt.Errorf("resolve assignee: %w", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	updated, err := Assign(*req, actor, assignee)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, &updated); err != nil {
		return nil, err
	}

	message := fmt.Sprintf(
		"You were assigned the request from %s for module %s",
		updated.Company, updated.Module)

	if err := s.notifier.Notify(
		ctx,
		assignee.ID,
		"request_assigned",
		message,
		"/requests/"+updated.ID,
	); err != nil {
		slog.Warn("assignment notification failed",
			"request_id", updated.ID,
			"assignee", assignee.ID,
			"error", err,
		)
	}

	return &updated, nil
}

func (s *Service) UpdatePriority(
	ctx context.Context,
	actorID, id, priority string,
) (*Request, error) {
	if !IsValidPriority(priority) {
		return nil, fmt.Errorf(
			"invalid priority %q: %w", priority, core.ErrInvalidInput)
	}

	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("resolve actor: %w", err)
	}

	req, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.Authorize(actor, req.Module) {
		return nil, fmt.Errorf(
			"no capability for module %q: %w", req.Module, core.ErrForbidden)
	}

	req.Priority = priority

	if err := s.repo.Update(ctx, req); err != nil {
		return nil, err
	}

	return req, nil
}

// Purge hard-deletes a request. Routing restricts this to admins.
func (s *Service) Purge(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
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
