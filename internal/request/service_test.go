// AngelaMos | 2026
// service_test.go

package request

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
	"github.com/gashasec/portal-backend/internal/product"
)

type fakeRepo struct {
	byID    map[string]*Request
	updated []Request
}

func (f *fakeRepo) Create(_ context.Context, req *Request) error {
	f.byID[req.ID] = req
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, id string) (*Request, error) {
	req, ok := f.byID[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	snapshot := *req
	return &snapshot, nil
}

func (f *fakeRepo) Update(_ context.Context, req *Request) error {
	stored, ok := f.byID[req.ID]
	if !ok {
		return core.ErrNotFound
	}
	if stored.Version != req.Version {
		return core.ErrConflict
	}
	req.Version++
	f.byID[req.ID] = req
	f.updated = append(f.updated, *req)
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id string) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeRepo) List(
	_ context.Context,
	_ ListRequestsParams,
) ([]Request, int, error) {
	return nil, 0, nil
}

type fakeActors struct {
	accounts map[string]*account.Account
}

func (f *fakeActors) Get(_ context.Context, id string) (*account.Account, error) {
	acct, ok := f.accounts[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return acct, nil
}

type fakeProducts struct {
	products map[string]*product.Product
}

func (f *fakeProducts) Get(
	_ context.Context,
	id string,
) (*product.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, core.ErrNotFound
	}
	return p, nil
}

type recordedNotification struct {
	AccountID string
	Type      string
}

type fakeNotifier struct {
	sent []recordedNotification
}

func (f *fakeNotifier) Notify(
	_ context.Context,
	accountID, notifType, _, _ string,
) error {
	f.sent = append(f.sent, recordedNotification{accountID, notifType})
	return nil
}

func newFixture() (*Service, *fakeRepo, *fakeNotifier) {
	assignee := "tech-1"

	repo := &fakeRepo{byID: map[string]*Request{
		"req-1": {
			ID:         "req-1",
			ProductID:  "prod-1",
			Status:     StatusValidated,
			Priority:   PriorityMedium,
			Company:    "Acme Corp",
			AssignedTo: &assignee,
			Module:     "gasha",
			Version:    3,
		},
	}}

	actors := &fakeActors{accounts: map[string]*account.Account{
		"admin-1": {
			ID:                 "admin-1",
			Role:               account.RoleAdmin,
			Status:             account.StatusActive,
			ModuleCapabilities: account.ModuleList{"gasha"},
		},
		"tech-1": {
			ID:                 "tech-1",
			Role:               account.RoleTechnical,
			Status:             account.StatusActive,
			ModuleCapabilities: account.ModuleList{"gasha"},
		},
	}}

	products := &fakeProducts{products: map[string]*product.Product{
		"prod-1": {
			ID:              "prod-1",
			Module:          "gasha",
			Status:          product.StatusActive,
			SupportsRequest: true,
		},
		"prod-closed": {
			ID:              "prod-closed",
			Module:          "nisir",
			Status:          product.StatusActive,
			SupportsRequest: false,
		},
	}}

	notifier := &fakeNotifier{}

	return NewService(repo, actors, products, notifier), repo, notifier
}

func TestServiceTransitionApprovedNotifiesAssignee(t *testing.T) {
	svc, repo, notifier := newFixture()

	updated, err := svc.Transition(
		context.Background(), "admin-1", "req-1", StatusApproved, "ok")
	require.NoError(t, err)

	assert.Equal(t, StatusApproved, updated.Status)
	assert.Equal(t, 4, updated.Version)
	require.Len(t, repo.updated, 1)

	require.Len(t, notifier.sent, 1)
	assert.Equal(t, "tech-1", notifier.sent[0].AccountID)
	assert.Equal(t, "request_approved", notifier.sent[0].Type)
}

func TestServiceTransitionValidatedDoesNotNotify(t *testing.T) {
	svc, repo, notifier := newFixture()
	repo.byID["req-1"].Status = StatusPending

	_, err := svc.Transition(
		context.Background(), "admin-1", "req-1", StatusValidated, "")
	require.NoError(t, err)

	assert.Empty(t, notifier.sent)
}

func TestServiceTransitionIllegalLeavesStateUntouched(t *testing.T) {
	svc, repo, notifier := newFixture()

	_, err := svc.Transition(
		context.Background(), "admin-1", "req-1", StatusCompleted, "")
	require.ErrorIs(t, err, ErrIllegalTransition)

	assert.Equal(t, StatusValidated, repo.byID["req-1"].Status)
	assert.Empty(t, repo.updated)
	assert.Empty(t, notifier.sent)
}

func TestServiceTransitionInvalidTargetStatus(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.Transition(
		context.Background(), "admin-1", "req-1", "escalated", "")
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestServiceCreateIntakeRejectsClosedProduct(t *testing.T) {
	svc, _, _ := newFixture()

	_, err := svc.CreateIntake(context.Background(), CreateRequestRequest{
		ProductID:     "prod-closed",
		Company:       "Acme Corp",
		ContactPerson: "Jane Doe",
		Email:         "jane@example.com",
	})
	require.ErrorIs(t, err, core.ErrInvalidInput)
}

func TestServiceCreateIntakeDefaults(t *testing.T) {
	svc, repo, _ := newFixture()

	created, err := svc.CreateIntake(context.Background(), CreateRequestRequest{
		ProductID:     "prod-1",
		Company:       "Acme Corp",
		ContactPerson: "Jane Doe",
		Email:         "Jane@Example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, PriorityMedium, created.Priority)
	assert.Equal(t, "jane@example.com", created.Email)
	assert.Contains(t, repo.byID, created.ID)
}

func TestServiceListClampsToActorModules(t *testing.T) {
	svc, _, _ := newFixture()

	// Asking for a module outside the capability set yields nothing and
	// never reaches the repository.
	items, total, err := svc.List(
		context.Background(), "tech-1",
		ListRequestsParams{Modules: []string{"nisir"}})
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, total)
}
