package acl

import (
	"fmt"

	"github.com/perimetra/tmacl/pkg/acl/store"
)

// DerivedPermissionsManager keeps the ROLE_TM_PROJECT_MANAGER authority
// consistent with the grants table. The invariant: a party carries the
// authority iff it holds, directly or through a team it belongs to, a
// MANAGEMENT grant on at least one project-like object identity.
//
// All methods operate on a store.Bundle supplied by the caller so the
// recompute shares the transaction of the grant mutation that triggered it.
type DerivedPermissionsManager struct {
	projectClasses []string
}

// NewDerivedPermissionsManager creates a manager. With no classes given it
// defaults to project and project-template.
func NewDerivedPermissionsManager(projectClasses ...string) *DerivedPermissionsManager {
	if len(projectClasses) == 0 {
		projectClasses = DefaultProjectClasses()
	}
	return &DerivedPermissionsManager{projectClasses: projectClasses}
}

// UpdateForIdentity recomputes the authority for the parties affected by a
// change to one identity. Identities that are not project-like cannot
// affect the authority and short-circuit. When the identity row is already
// gone there is no way to know who used to reference it, so the recompute
// conservatively covers every user.
func (m *DerivedPermissionsManager) UpdateForIdentity(b store.Bundle, oi ObjectIdentity) error {
	if !oi.IsSortOfProject(m.projectClasses) {
		return nil
	}

	exists, err := b.Identities.IdentityExists(oi.Class, oi.ID)
	if err != nil {
		return fmt.Errorf("derived permissions: check identity %s: %w", oi, err)
	}

	if !exists {
		return m.updateAll(b)
	}

	parties, err := b.Grants.PartiesWithGrantsOn(oi.Class, oi.ID)
	if err != nil {
		return fmt.Errorf("derived permissions: parties for %s: %w", oi, err)
	}
	return m.UpdateForParties(b, parties)
}

// UpdateForParty recomputes the authority for one party, expanded to its
// member users when the party is a team. A party that no longer exists
// falls back to a full-population recompute for the same reason as a
// missing identity.
func (m *DerivedPermissionsManager) UpdateForParty(b store.Bundle, partyID int64) error {
	exists, err := b.Parties.PartyExists(partyID)
	if err != nil {
		return fmt.Errorf("derived permissions: check party %d: %w", partyID, err)
	}

	if !exists {
		return m.updateAll(b)
	}
	return m.UpdateForParties(b, []int64{partyID})
}

// UpdateForPair recomputes for a (party, identity) pair. The identity is
// accepted for future scoping but currently unused: the recompute is
// party-scoped only.
func (m *DerivedPermissionsManager) UpdateForPair(b store.Bundle, partyID int64, _ ObjectIdentity) error {
	return m.UpdateForParty(b, partyID)
}

// UpdateForParties expands the parties to users and recomputes for them.
func (m *DerivedPermissionsManager) UpdateForParties(b store.Bundle, partyIDs []int64) error {
	users, err := b.Parties.ExpandToUsers(partyIDs)
	if err != nil {
		return fmt.Errorf("derived permissions: expand parties: %w", err)
	}
	return m.updateAuthsForUsers(b, users)
}

func (m *DerivedPermissionsManager) updateAll(b store.Bundle) error {
	users, err := b.Parties.AllUserIDs()
	if err != nil {
		return fmt.Errorf("derived permissions: list users: %w", err)
	}
	return m.updateAuthsForUsers(b, users)
}

// updateAuthsForUsers is the core routine: drop the authority for every
// candidate, find who still qualifies, reinsert for the union. The
// delete-then-selectively-reinsert order is deliberate; an update in place
// could leave a stale flag if the recompute omitted a user.
func (m *DerivedPermissionsManager) updateAuthsForUsers(b store.Bundle, candidates []int64) error {
	if len(candidates) == 0 {
		return nil
	}

	if err := b.Authorities.RemoveAuthority(candidates, RoleProjectManager); err != nil {
		return fmt.Errorf("derived permissions: remove authority: %w", err)
	}

	managementBit := MaskManagement.Bit()

	direct, err := b.Authorities.DirectHolders(candidates, m.projectClasses, managementBit)
	if err != nil {
		return fmt.Errorf("derived permissions: direct holders: %w", err)
	}

	viaTeams, err := b.Authorities.TeamHolders(candidates, m.projectClasses, managementBit)
	if err != nil {
		return fmt.Errorf("derived permissions: team holders: %w", err)
	}

	managers := DeriveManagers(direct, viaTeams)
	if err := b.Authorities.InsertAuthority(managers, RoleProjectManager); err != nil {
		return fmt.Errorf("derived permissions: insert authority: %w", err)
	}
	return nil
}
