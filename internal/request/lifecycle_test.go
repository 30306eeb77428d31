// AngelaMos | 2026
// lifecycle_test.go

package request

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
)

func marketingActor(modules ...string) *account.Account {
	return &account.Account{
		ID:                 "actor-1",
		Role:               account.RoleMarketing,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList(modules),
	}
}

func pendingRequest(module string) Request {
	return Request{
		ID:       "req-1",
		Status:   StatusPending,
		Priority: PriorityMedium,
		Company:  "Acme Corp",
		Module:   module,
	}
}

func TestTransitionMarketingValidates(t *testing.T) {
	actor := marketingActor("gasha")
	req := pendingRequest("gasha")

	updated, err := Transition(req, actor, StatusValidated, "looks legit")
	require.NoError(t, err)

	assert.Equal(t, StatusValidated, updated.Status)
	require.NotNil(t, updated.MarketingNotes)
	assert.Equal(t, "looks legit", *updated.MarketingNotes)
	assert.Nil(t, updated.AdminNotes)
	assert.Nil(t, updated.TechnicalNotes)
}

func TestTransitionWrongModuleUnauthorized(t *testing.T) {
	actor := marketingActor("gasha")
	req := pendingRequest("nisir")

	updated, err := Transition(req, actor, StatusApproved, "")
	require.ErrorIs(t, err, core.ErrForbidden)

	// The input snapshot comes back untouched.
	assert.Equal(t, req, updated)
}

func TestTransitionTerminalStatesImmutable(t *testing.T) {
	actor := &account.Account{
		ID:     "root",
		Role:   account.RoleSuperAdmin,
		Status: account.StatusActive,
	}

	for _, terminal := range []string{StatusRejected, StatusCompleted} {
		req := pendingRequest("gasha")
		req.Status = terminal

		for _, target := range []string{
			StatusPending, StatusValidated, StatusApproved,
			StatusRejected, StatusCompleted,
		} {
			updated, err := Transition(req, actor, target, "")
			assert.ErrorIs(t, err, ErrIllegalTransition,
				"%s -> %s must be illegal", terminal, target)
			assert.Equal(t, req, updated)
		}
	}
}

func TestTransitionToCurrentStatusRejected(t *testing.T) {
	actor := marketingActor("gasha")
	req := pendingRequest("gasha")

	_, err := Transition(req, actor, StatusPending, "")
	require.ErrorIs(t, err, ErrIllegalTransition)
}

func TestTransitionEdges(t *testing.T) {
	tests := []struct {
		from  string
		to    string
		legal bool
	}{
		{StatusPending, StatusValidated, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusApproved, false},
		{StatusPending, StatusCompleted, false},
		{StatusValidated, StatusApproved, true},
		{StatusValidated, StatusRejected, true},
		{StatusValidated, StatusCompleted, false},
		{StatusValidated, StatusPending, false},
		{StatusApproved, StatusCompleted, true},
		{StatusApproved, StatusRejected, false},
		{StatusApproved, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.legal, CanTransition(tt.from, tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestTransitionInactiveActorUnauthorized(t *testing.T) {
	actor := marketingActor("gasha")
	actor.Status = account.StatusSuspended
	req := pendingRequest("gasha")

	_, err := Transition(req, actor, StatusValidated, "")
	require.ErrorIs(t, err, core.ErrForbidden)
}

func TestTransitionSuperAdminBypassesCapabilities(t *testing.T) {
	actor := &account.Account{
		ID:     "root",
		Role:   account.RoleSuperAdmin,
		Status: account.StatusActive,
	}
	req := pendingRequest("nisir")

	updated, err := Transition(req, actor, StatusValidated, "")
	require.NoError(t, err)
	assert.Equal(t, StatusValidated, updated.Status)
}

func TestNoteRoutingByRole(t *testing.T) {
	tests := []struct {
		role string
		want NoteField
	}{
		{account.RoleMarketing, NoteMarketing},
		{account.RoleAdmin, NoteAdmin},
		{account.RoleSuperAdmin, NoteAdmin},
		{account.RoleTechnical, NoteTechnical},
		{account.RoleDeveloper, NoteTechnical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NoteFieldFor(tt.role), "role %s", tt.role)
	}
}

func TestTransitionAdminNotesDoNotTouchMarketingNotes(t *testing.T) {
	existing := "already vetted"
	actor := &account.Account{
		ID:                 "admin-1",
		Role:               account.RoleAdmin,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"gasha"},
	}
	req := pendingRequest("gasha")
	req.Status = StatusValidated
	req.MarketingNotes = &existing

	updated, err := Transition(req, actor, StatusApproved, "go ahead")
	require.NoError(t, err)

	require.NotNil(t, updated.AdminNotes)
	assert.Equal(t, "go ahead", *updated.AdminNotes)
	require.NotNil(t, updated.MarketingNotes)
	assert.Equal(t, existing, *updated.MarketingNotes)
}

func TestTransitionEmptyNotesLeaveFieldsUntouched(t *testing.T) {
	actor := marketingActor("gasha")
	req := pendingRequest("gasha")

	updated, err := Transition(req, actor, StatusValidated, "")
	require.NoError(t, err)
	assert.Nil(t, updated.MarketingNotes)
}

func TestAssign(t *testing.T) {
	actor := &account.Account{
		ID:                 "admin-1",
		Role:               account.RoleAdmin,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"gasha"},
	}
	assignee := &account.Account{
		ID:                 "tech-1",
		Role:               account.RoleTechnical,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"gasha"},
	}
	req := pendingRequest("gasha")

	updated, err := Assign(req, actor, assignee)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "tech-1", *updated.AssignedTo)
}

func TestAssignRejectsAssigneeWithoutCapability(t *testing.T) {
	actor := &account.Account{
		ID:                 "admin-1",
		Role:               account.RoleAdmin,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"gasha"},
	}
	assignee := &account.Account{
		ID:                 "tech-1",
		Role:               account.RoleTechnical,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"nisir"},
	}
	req := pendingRequest("gasha")

	updated, err := Assign(req, actor, assignee)
	require.ErrorIs(t, err, core.ErrInvalidInput)
	assert.Nil(t, updated.AssignedTo)
}

func TestAssignSuperAdminAssigneeAlwaysEligible(t *testing.T) {
	actor := &account.Account{
		ID:                 "admin-1",
		Role:               account.RoleAdmin,
		Status:             account.StatusActive,
		ModuleCapabilities: account.ModuleList{"gasha"},
	}
	assignee := &account.Account{
		ID:     "root",
		Role:   account.RoleSuperAdmin,
		Status: account.StatusActive,
	}
	req := pendingRequest("gasha")

	updated, err := Assign(req, actor, assignee)
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedTo)
	assert.Equal(t, "root", *updated.AssignedTo)
}

func TestNotifiesAssignee(t *testing.T) {
	assert.True(t, NotifiesAssignee(StatusApproved))
	assert.True(t, NotifiesAssignee(StatusCompleted))
	assert.False(t, NotifiesAssignee(StatusValidated))
	assert.False(t, NotifiesAssignee(StatusRejected))
	assert.False(t, NotifiesAssignee(StatusPending))
}
