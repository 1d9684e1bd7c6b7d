package acl

import (
	"fmt"
	"log"

	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl/store"
	gormstore "github.com/perimetra/tmacl/pkg/acl/store/gorm"
	"github.com/perimetra/tmacl/pkg/audit"
)

// Service is the object-identity and grant store. Every mutation runs in a
// single database transaction together with the derived-authority recompute
// it triggers, then evicts the touched identity from the cache.
type Service struct {
	db      *gorm.DB
	cache   Cache
	derived *DerivedPermissionsManager
	bundle  func(*gorm.DB) store.Bundle
	auditor audit.Recorder
	debug   bool
}

// Option configures a Service.
type Option func(*Service)

// WithCache substitutes the grant cache.
func WithCache(c Cache) Option {
	return func(s *Service) { s.cache = c }
}

// WithDerivedManager substitutes the derived-permissions manager.
func WithDerivedManager(m *DerivedPermissionsManager) Option {
	return func(s *Service) { s.derived = m }
}

// WithAuditor substitutes the audit recorder.
func WithAuditor(r audit.Recorder) Option {
	return func(s *Service) { s.auditor = r }
}

// WithDebug enables debug logging of degraded permission evaluations.
func WithDebug(debug bool) Option {
	return func(s *Service) { s.debug = debug }
}

// NewService creates a Service over a database handle.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:      db,
		cache:   NewCache(),
		derived: NewDerivedPermissionsManager(),
		bundle:  gormstore.NewBundle,
		auditor: audit.DefaultRecorder,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Cache exposes the service's cache, for administrative inspection.
func (s *Service) Cache() Cache {
	return s.cache
}

// CreateObjectIdentity registers an identity for a domain entity. It fails
// with ErrAlreadyExists when the (class, id) pair is present and with
// UnknownClassError when the class was never registered.
func (s *Service) CreateObjectIdentity(oi ObjectIdentity) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		exists, err := b.Identities.IdentityExists(oi.Class, oi.ID)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("identity %s: %w", oi, ErrAlreadyExists)
		}

		classID, ok, err := b.Identities.ClassID(oi.Class)
		if err != nil {
			return err
		}
		if !ok {
			return &UnknownClassError{Class: oi.Class}
		}

		if err := b.Identities.CreateIdentity(classID, oi.ID); err != nil {
			return err
		}

		// A fresh identity has no grants; kept for symmetry with removal.
		return s.derived.UpdateForIdentity(b, oi)
	})
	if err != nil {
		return err
	}

	s.cache.Evict(oi)
	s.auditor.Record(audit.IdentityEvent{Class: oi.Class, ObjectID: oi.ID, Created: true})
	return nil
}

// RemoveObjectIdentity deletes an identity and every grant referencing it.
// Removing a missing identity is a no-op for the identity row, but still
// triggers the conservative full-population recompute: with the row gone
// there is no record of who used to hold grants on it.
func (s *Service) RemoveObjectIdentity(oi ObjectIdentity) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		if err := b.Identities.DeleteIdentity(oi.Class, oi.ID); err != nil {
			return err
		}
		return s.derived.UpdateForIdentity(b, oi)
	})
	if err != nil {
		return err
	}

	s.cache.Evict(oi)
	s.auditor.Record(audit.IdentityEvent{Class: oi.Class, ObjectID: oi.ID, Created: false})
	return nil
}

// AddNewResponsibility grants a permission group to a party on an identity.
// Upsert semantics: any prior grant for the (party, identity) pair is
// replaced, never accumulated.
func (s *Service) AddNewResponsibility(partyID int64, oi ObjectIdentity, qualifiedName string) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		groupID, ok, err := b.Grants.GroupID(qualifiedName)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("permission group %q: %w", qualifiedName, ErrNotFound)
		}

		if err := b.Grants.DeleteGrant(partyID, oi.Class, oi.ID); err != nil {
			return err
		}
		if err := b.Grants.InsertGrant(partyID, groupID, oi.Class, oi.ID); err != nil {
			return err
		}
		return s.derived.UpdateForParty(b, partyID)
	})
	if err != nil {
		return err
	}

	s.cache.Evict(oi)
	s.auditor.Record(audit.GrantEvent{PartyID: partyID, Group: qualifiedName, Class: oi.Class, ObjectID: oi.ID})
	return nil
}

// RemoveAllResponsibilitiesForIdentity revokes every grant on an identity.
// The parties affected are captured before the delete so the recompute can
// stay scoped to them.
func (s *Service) RemoveAllResponsibilitiesForIdentity(oi ObjectIdentity) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		parties, err := b.Grants.PartiesWithGrantsOn(oi.Class, oi.ID)
		if err != nil {
			return err
		}
		if err := b.Grants.DeleteGrantsForIdentity(oi.Class, oi.ID); err != nil {
			return err
		}
		return s.derived.UpdateForParties(b, parties)
	})
	if err != nil {
		return err
	}

	s.cache.Evict(oi)
	s.auditor.Record(audit.RevokeEvent{Scope: "identity", Class: oi.Class, ObjectID: oi.ID})
	return nil
}

// RemoveAllResponsibilitiesForParty revokes every grant a party holds.
func (s *Service) RemoveAllResponsibilitiesForParty(partyID int64) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		if err := b.Grants.DeleteGrantsForParty(partyID); err != nil {
			return err
		}
		return s.derived.UpdateForParty(b, partyID)
	})
	if err != nil {
		return err
	}

	// Party-scoped revocation can touch any identity the party had rights
	// on; the cache has no reverse index, so clear it.
	s.cache.Clear()
	s.auditor.Record(audit.RevokeEvent{Scope: "party", PartyID: partyID})
	return nil
}

// RemoveAllResponsibilities revokes the grant a party holds on one identity.
func (s *Service) RemoveAllResponsibilities(partyID int64, oi ObjectIdentity) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		b := s.bundle(tx)

		if err := b.Grants.DeleteGrant(partyID, oi.Class, oi.ID); err != nil {
			return err
		}
		return s.derived.UpdateForPair(b, partyID, oi)
	})
	if err != nil {
		return err
	}

	s.cache.Evict(oi)
	s.auditor.Record(audit.RevokeEvent{Scope: "pair", PartyID: partyID, Class: oi.Class, ObjectID: oi.ID})
	return nil
}

// FindUsersWithExecutePermission lists logins of users holding execute
// rights on any of the identities, directly or through a team.
func (s *Service) FindUsersWithExecutePermission(class string, objectIDs []int64) ([]string, error) {
	b := s.bundle(s.db)
	return b.Grants.UserLoginsWithPermission(class, objectIDs, MaskExecute.Bit())
}

// FindUsersWithWritePermission lists logins of users holding write rights
// on any of the identities, directly or through a team.
func (s *Service) FindUsersWithWritePermission(class string, objectIDs []int64) ([]string, error) {
	b := s.bundle(s.db)
	return b.Grants.UserLoginsWithPermission(class, objectIDs, MaskWrite.Bit())
}

// FindObjectsWithoutPermission lists object ids of a class the party holds
// no grant on.
func (s *Service) FindObjectsWithoutPermission(partyID int64, class string) ([]int64, error) {
	b := s.bundle(s.db)
	return b.Grants.ObjectsWithoutPermission(partyID, class)
}

// FindPartiesWithoutPermission lists party ids holding no grant on an identity.
func (s *Service) FindPartiesWithoutPermission(oi ObjectIdentity) ([]int64, error) {
	b := s.bundle(s.db)
	return b.Grants.PartiesWithoutPermission(oi.Class, oi.ID)
}

// RetrieveClassAclGroups lists, for one class, the objects a party holds a
// grant on together with the permission group's qualified name.
func (s *Service) RetrieveClassAclGroups(partyID int64, class string) ([]store.ClassGroup, error) {
	b := s.bundle(s.db)
	return b.Grants.ClassGroupsForParty(partyID, class)
}

// IsProjectManager reports whether a party carries the derived
// project-manager authority.
func (s *Service) IsProjectManager(partyID int64) (bool, error) {
	b := s.bundle(s.db)
	return b.Authorities.HasAuthority(partyID, RoleProjectManager)
}

// HasPermission evaluates whether a party holds a permission on an
// identity, resolving team membership transitively. Evaluation degrades
// rather than fails: a missing ACL means "no grant", and a corrupt entry is
// skipped with a warning so it cannot block the remaining entries.
func (s *Service) HasPermission(partyID int64, oi ObjectIdentity, mask Mask) (bool, error) {
	b := s.bundle(s.db)

	grants, ok := s.cache.Get(oi)
	if !ok {
		var err error
		grants, err = b.Grants.GrantsForIdentity(oi.Class, oi.ID)
		if err != nil {
			return false, err
		}
		s.cache.Put(oi, grants)
	}

	if len(grants) == 0 {
		if s.debug {
			log.Printf("acl: no entries for %s, treating as no grant", oi)
		}
		s.auditor.Record(audit.CheckEvent{PartyID: partyID, Class: oi.Class, ObjectID: oi.ID, Mask: mask.String(), Allowed: false})
		return false, nil
	}

	holders := map[int64]struct{}{partyID: {}}
	teams, err := b.Parties.TeamsOf(partyID)
	if err != nil {
		return false, err
	}
	for _, teamID := range teams {
		holders[teamID] = struct{}{}
	}

	allowed := false
	for _, grant := range grants {
		if grant.MaskBits < 0 {
			log.Printf("acl: skipping corrupt entry for %s (party %d, group %q)", oi, grant.PartyID, grant.Group)
			continue
		}
		if _, ok := holders[grant.PartyID]; !ok {
			continue
		}
		if grant.MaskBits&mask.Bit() != 0 {
			allowed = true
			break
		}
	}

	s.auditor.Record(audit.CheckEvent{PartyID: partyID, Class: oi.Class, ObjectID: oi.ID, Mask: mask.String(), Allowed: allowed})
	return allowed, nil
}

// RefreshAcls unconditionally clears the cache. This is the escape hatch
// for administrative recovery when a cached ACL is suspected stale.
func (s *Service) RefreshAcls() {
	s.cache.Clear()
	s.auditor.Record(audit.RefreshEvent{})
}
