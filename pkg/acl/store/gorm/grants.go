package gorm

import (
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/model"
)

// Ensure GrantStore implements store.GrantStore
var _ store.GrantStore = (*GrantStore)(nil)

// GrantStore implements store.GrantStore using GORM
type GrantStore struct {
	db *gorm.DB
}

// NewGrantStore creates a new GrantStore
func NewGrantStore(db *gorm.DB) *GrantStore {
	return &GrantStore{db: db}
}

// GroupID resolves a permission group's qualified name to its id
func (s *GrantStore) GroupID(qualifiedName string) (int64, bool, error) {
	var ids []int64
	err := s.db.Raw(`SELECT id FROM acl_group WHERE qualified_name = ?`, qualifiedName).Scan(&ids).Error
	if err != nil || len(ids) == 0 {
		return 0, false, err
	}
	return ids[0], true, nil
}

// DeleteGrant removes the grant a party holds on an identity, if any
func (s *GrantStore) DeleteGrant(partyID int64, class string, objectID int64) error {
	return s.db.Exec(`
		DELETE FROM acl_responsibility_scope_entry
		WHERE party_id = ? AND object_identity_id IN (
			SELECT oid.id
			FROM acl_object_identity oid
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
	`, partyID, class, objectID).Error
}

// InsertGrant adds a grant for a party on an identity
func (s *GrantStore) InsertGrant(partyID, groupID int64, class string, objectID int64) error {
	return s.db.Exec(`
		INSERT INTO acl_responsibility_scope_entry (party_id, acl_group_id, object_identity_id)
		SELECT ?, ?, oid.id
		FROM acl_object_identity oid
		JOIN acl_class c ON c.id = oid.class_id
		WHERE c.classname = ? AND oid.identity = ?
	`, partyID, groupID, class, objectID).Error
}

// DeleteGrantsForIdentity removes every grant referencing an identity
func (s *GrantStore) DeleteGrantsForIdentity(class string, objectID int64) error {
	return s.db.Exec(`
		DELETE FROM acl_responsibility_scope_entry
		WHERE object_identity_id IN (
			SELECT oid.id
			FROM acl_object_identity oid
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
	`, class, objectID).Error
}

// DeleteGrantsForParty removes every grant a party holds
func (s *GrantStore) DeleteGrantsForParty(partyID int64) error {
	return s.db.
		Where("party_id = ?", partyID).
		Delete(&model.ResponsibilityScopeEntry{}).Error
}

// GrantsForIdentity lists the grants referencing an identity
func (s *GrantStore) GrantsForIdentity(class string, objectID int64) ([]store.Grant, error) {
	type grantRow struct {
		PartyId       int64
		QualifiedName string
		MaskBits      int
	}

	var rows []grantRow
	err := s.db.Raw(`
		SELECT arse.party_id, g.qualified_name,
			COALESCE(SUM(DISTINCT agp.permission_mask), 0) AS mask_bits
		FROM acl_responsibility_scope_entry arse
		JOIN acl_group g ON g.id = arse.acl_group_id
		JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
		JOIN acl_class c ON c.id = oid.class_id
		LEFT JOIN acl_group_permission agp
			ON agp.acl_group_id = arse.acl_group_id AND agp.class_id = oid.class_id AND agp.granting
		WHERE c.classname = ? AND oid.identity = ?
		GROUP BY arse.party_id, g.qualified_name
		ORDER BY arse.party_id
	`, class, objectID).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]store.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, store.Grant{
			PartyID:  row.PartyId,
			Group:    row.QualifiedName,
			Class:    class,
			ObjectID: objectID,
			MaskBits: row.MaskBits,
		})
	}
	return grants, nil
}

// PartiesWithGrantsOn lists the parties holding any grant on an identity
func (s *GrantStore) PartiesWithGrantsOn(class string, objectID int64) ([]int64, error) {
	var partyIDs []int64
	err := s.db.Raw(`
		SELECT DISTINCT arse.party_id
		FROM acl_responsibility_scope_entry arse
		JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
		JOIN acl_class c ON c.id = oid.class_id
		WHERE c.classname = ? AND oid.identity = ?
	`, class, objectID).Scan(&partyIDs).Error
	return partyIDs, err
}

// UserLoginsWithPermission lists logins of users holding a permission bit on
// any of the identities, directly or through a team.
func (s *GrantStore) UserLoginsWithPermission(class string, objectIDs []int64, maskBit int) ([]string, error) {
	if len(objectIDs) == 0 {
		return nil, nil
	}

	var logins []string
	err := s.db.Raw(`
		SELECT DISTINCT u.login
		FROM core_user u
		WHERE u.party_id IN (
			SELECT arse.party_id
			FROM acl_responsibility_scope_entry arse
			JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
			JOIN acl_class c ON c.id = oid.class_id
			JOIN acl_group_permission agp
				ON agp.acl_group_id = arse.acl_group_id AND agp.class_id = oid.class_id
			WHERE c.classname = ? AND oid.identity IN (?) AND agp.permission_mask = ? AND agp.granting
			UNION
			SELECT tm.user_id
			FROM core_team_member tm
			JOIN acl_responsibility_scope_entry arse ON arse.party_id = tm.team_id
			JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
			JOIN acl_class c ON c.id = oid.class_id
			JOIN acl_group_permission agp
				ON agp.acl_group_id = arse.acl_group_id AND agp.class_id = oid.class_id
			WHERE c.classname = ? AND oid.identity IN (?) AND agp.permission_mask = ? AND agp.granting
		)
		ORDER BY u.login
	`, class, objectIDs, maskBit, class, objectIDs, maskBit).Scan(&logins).Error
	return logins, err
}

// ObjectsWithoutPermission lists object ids of a class the party holds no grant on
func (s *GrantStore) ObjectsWithoutPermission(partyID int64, class string) ([]int64, error) {
	var objectIDs []int64
	err := s.db.Raw(`
		SELECT oid.identity
		FROM acl_object_identity oid
		JOIN acl_class c ON c.id = oid.class_id
		WHERE c.classname = ?
		AND oid.id NOT IN (
			SELECT object_identity_id
			FROM acl_responsibility_scope_entry
			WHERE party_id = ?
		)
		ORDER BY oid.identity
	`, class, partyID).Scan(&objectIDs).Error
	return objectIDs, err
}

// PartiesWithoutPermission lists party ids holding no grant on an identity
func (s *GrantStore) PartiesWithoutPermission(class string, objectID int64) ([]int64, error) {
	var partyIDs []int64
	err := s.db.Raw(`
		SELECT p.party_id
		FROM core_party p
		WHERE p.party_id NOT IN (
			SELECT arse.party_id
			FROM acl_responsibility_scope_entry arse
			JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
		ORDER BY p.party_id
	`, class, objectID).Scan(&partyIDs).Error
	return partyIDs, err
}

// ClassGroupsForParty lists the object ids of one class a party holds a
// grant on, with the group's qualified name.
func (s *GrantStore) ClassGroupsForParty(partyID int64, class string) ([]store.ClassGroup, error) {
	type classGroupRow struct {
		Identity      int64
		QualifiedName string
	}

	var rows []classGroupRow
	err := s.db.Raw(`
		SELECT oid.identity, g.qualified_name
		FROM acl_responsibility_scope_entry arse
		JOIN acl_group g ON g.id = arse.acl_group_id
		JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
		JOIN acl_class c ON c.id = oid.class_id
		WHERE arse.party_id = ? AND c.classname = ?
		ORDER BY oid.identity
	`, partyID, class).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	groups := make([]store.ClassGroup, 0, len(rows))
	for _, row := range rows {
		groups = append(groups, store.ClassGroup{
			ObjectID: row.Identity,
			Group:    row.QualifiedName,
		})
	}
	return groups, nil
}
