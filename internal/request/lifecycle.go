// AngelaMos | 2026
// lifecycle.go

package request

import (
	"errors"
	"fmt"

	"github.com/gashasec/portal-backend/internal/account"
	"github.com/gashasec/portal-backend/internal/core"
)

var ErrIllegalTransition = errors.New("illegal status transition")

// transitions is the full legal edge set. Everything absent is illegal,
// which makes rejected and completed terminal and a same-status
// transition an error rather than a silent no-op.
var transitions = map[string][]string{
	StatusPending:   {StatusValidated, StatusRejected},
	StatusValidated: {StatusApproved, StatusRejected},
	StatusApproved:  {StatusCompleted},
}

func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// NoteField identifies which note column a role's comments land in.
type NoteField int

const (
	NoteMarketing NoteField = iota
	NoteAdmin
	NoteTechnical
)

func NoteFieldFor(role string) NoteField {
	switch role {
	case account.RoleMarketing:
		return NoteMarketing
	case account.RoleTechnical, account.RoleDeveloper:
		return NoteTechnical
	default:
		return NoteAdmin
	}
}

func attachNotes(req Request, role, notes string) Request {
	if notes == "" {
		return req
	}

	switch NoteFieldFor(role) {
	case NoteMarketing:
		req.MarketingNotes = &notes
	case NoteTechnical:
		req.TechnicalNotes = &notes
	default:
		req.AdminNotes = &notes
	}

	return req
}

// Transition applies targetStatus to a snapshot of the request. Pure:
// the caller persists the returned copy under optimistic concurrency.
// On any error the input is returned unchanged.
func Transition(
	req Request,
	actor *account.Account,
	targetStatus, notes string,
) (Request, error) {
	if !account.Authorize(actor, req.Module) {
		return req, fmt.Errorf(
			"transition to %s: %w", targetStatus, core.ErrForbidden)
	}

	if !CanTransition(req.Status, targetStatus) {
		return req, fmt.Errorf(
			"%s -> %s: %w", req.Status, targetStatus, ErrIllegalTransition)
	}

	req.Status = targetStatus
	req = attachNotes(req, actor.Role, notes)

	return req, nil
}

// Assign sets the assignee on a snapshot of the request. The assignee
// must hold the capability for the request's module; super-admins
// qualify implicitly.
func Assign(
	req Request,
	actor, assignee *account.Account,
) (Request, error) {
	if !account.Authorize(actor, req.Module) {
		return req, fmt.Errorf("assign request: %w", core.ErrForbidden)
	}

	if !assignee.IsSuperAdmin() && !assignee.HasCapability(req.Module) {
		return req, fmt.Errorf(
			"assignee lacks capability for module %q: %w",
			req.Module, core.ErrInvalidInput)
	}

	req.AssignedTo = &assignee.ID

	return req, nil
}

// NotifiesAssignee reports whether reaching targetStatus should emit a
// notification to the assigned account.
func NotifiesAssignee(targetStatus string) bool {
	return targetStatus == StatusApproved || targetStatus == StatusCompleted
}
