// AngelaMos | 2026
// service.go

package product

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
)

// ActorProvider resolves the acting account at call time so capability
// checks run against current state, not the claims minted at login.
type ActorProvider interface {
	Get(ctx context.Context, id string) (*account.Account, error)
}

type Service struct {
	repo   Repository
	actors ActorProvider
}

func NewService(repo Repository, actors ActorProvider) *Service {
	return &Service{repo: repo, actors: actors}
}

func (s *Service) authorize(
	ctx context.Context,
	actorID, module string,
) error {
	actor, err := s.actors.Get(ctx, actorID)
	if err != nil {
		return fmt.Errorf("resolve actor: %w", err)
	}

	if !account.Authorize(actor, module) {
		return fmt.Errorf(
			"no capability for module %q: %w", module, core.ErrForbidden)
	}

	return nil
}

func (s *Service) Create(
	ctx context.Context,
	actorID string,
	req CreateProductRequest,
) (*Product, error) {
	if err := s.authorize(ctx, actorID, req.Module); err != nil {
		return nil, err
	}

	p := Product{
		ID:               uuid.New().String(),
		Name:             req.Name,
		Module:           req.Module,
		Description:      req.Description,
		Features:         FeatureList(req.Features),
		SupportsDownload: req.SupportsDownload,
		SupportsRequest:  req.SupportsRequest,
		ShowInCatalog:    req.ShowInCatalog,
		Status:           StatusActive,
	}

	if err := s.repo.Create(ctx, &p); err != nil {
		return nil, err
	}

	return &p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetByModule(
	ctx context.Context,
	module string,
) (*Product, error) {
	return s.repo.GetByModule(ctx, module)
}

func (s *Service) List(
	ctx context.Context,
	params ListProductsParams,
) ([]Product, int, error) {
	return s.repo.List(ctx, params)
}

// Catalog returns the public listing: active products flagged visible.
func (s *Service) Catalog(ctx context.Context) ([]Product, error) {
	return s.repo.ListCatalog(ctx)
}

func (s *Service) Update(
	ctx context.Context,
	actorID, id string,
	req UpdateProductRequest,
) (*Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actorID, p.Module); err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Features != nil {
		p.Features = FeatureList(req.Features)
	}
	if req.SupportsDownload != nil {
		p.SupportsDownload = *req.SupportsDownload
	}
	if req.SupportsRequest != nil {
		p.SupportsRequest = *req.SupportsRequest
	}
	if req.ShowInCatalog != nil {
		p.ShowInCatalog = *req.ShowInCatalog
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) UpdateStatus(
	ctx context.Context,
	actorID, id, status string,
) (*Product, error) {
	if !IsValidStatus(status) {
		return nil, fmt.Errorf(
			"invalid product status %q: %w", status, core.ErrInvalidInput)
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.authorize(ctx, actorID, p.Module); err != nil {
		return nil, err
	}

	p.Status = status

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Service) Delete(ctx context.Context, actorID, id string) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.authorize(ctx, actorID, p.Module); err != nil {
		return err
	}

	return s.repo.Delete(ctx, id)
}
