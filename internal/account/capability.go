// AngelaMos | 2026
// capability.go

package account

import (
	"errors"
	"fmt"
)

// MaxCapabilities bounds every account's capability set. Non-super-admin
// accounts must additionally hold at least one capability at all times.
const MaxCapabilities = 3

var (
	ErrCapabilityPresent = errors.New("capability already present")
	ErrCapabilityMissing = errors.New("capability not held")
	ErrCapabilityLimit   = errors.New("capability limit exceeded")
	ErrLastCapability    = errors.New("cannot remove last capability")
)

// AddCapability returns a copy of the account with moduleID appended.
// Pure: persistence and concurrency control belong to the caller.
func AddCapability(acct Account, moduleID string) (Account, error) {
	caps := acct.Capabilities()

	if caps.Contains(moduleID) {
		return acct, fmt.Errorf("add capability %q: %w", moduleID, ErrCapabilityPresent)
	}

	if len(caps) >= MaxCapabilities {
		return acct, fmt.Errorf("add capability %q: %w", moduleID, ErrCapabilityLimit)
	}

	updated := make(ModuleList, 0, len(caps)+1)
	updated = append(updated, caps...)
	updated = append(updated, moduleID)

	acct.ModuleCapabilities = updated
	acct.LegacyModule = nil
	return acct, nil
}

// RemoveCapability returns a copy of the account with moduleID removed.
// A non-super-admin account is never left with zero capabilities.
func RemoveCapability(acct Account, moduleID string) (Account, error) {
	caps := acct.Capabilities()

	if !caps.Contains(moduleID) {
		return acct, fmt.Errorf("remove capability %q: %w", moduleID, ErrCapabilityMissing)
	}

	if !acct.IsSuperAdmin() && len(caps) == 1 {
		return acct, fmt.Errorf("remove capability %q: %w", moduleID, ErrLastCapability)
	}

	updated := make(ModuleList, 0, len(caps)-1)
	for _, id := range caps {
		if id != moduleID {
			updated = append(updated, id)
		}
	}

	acct.ModuleCapabilities = updated
	acct.LegacyModule = nil
	return acct, nil
}

// ValidateInvariant checks the capability cardinality rule over a proposed
// post-mutation state. Called before every persist, for every write path.
func ValidateInvariant(acct Account) error {
	caps := acct.Capabilities()

	if !IsValidRole(acct.Role) {
		return fmt.Errorf("invalid role %q: %w", acct.Role, errInvariant)
	}

	if !IsValidStatus(acct.Status) {
		return fmt.Errorf("invalid status %q: %w", acct.Status, errInvariant)
	}

	if len(caps) > MaxCapabilities {
		return fmt.Errorf(
			"account holds %d capabilities, maximum is %d: %w",
			len(caps), MaxCapabilities, errInvariant,
		)
	}

	if !acct.IsSuperAdmin() && len(caps) == 0 {
		return fmt.Errorf(
			"role %q requires at least one module capability: %w",
			acct.Role, errInvariant,
		)
	}

	return nil
}

var errInvariant = errors.New("account invariant violated")

// Authorize is the single authorization predicate every lifecycle gate
// goes through. The super-admin bypass lives here and nowhere else.
func Authorize(acct *Account, moduleID string) bool {
	if acct == nil {
		return false
	}

	if acct.IsSuperAdmin() {
		return true
	}

	return acct.IsActive() && acct.HasCapability(moduleID)
}
