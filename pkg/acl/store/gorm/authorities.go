package gorm

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/model"
)

// Ensure AuthorityStore implements store.AuthorityStore
var _ store.AuthorityStore = (*AuthorityStore)(nil)

// AuthorityStore implements store.AuthorityStore using GORM
type AuthorityStore struct {
	db *gorm.DB
}

// NewAuthorityStore creates a new AuthorityStore
func NewAuthorityStore(db *gorm.DB) *AuthorityStore {
	return &AuthorityStore{db: db}
}

// RemoveAuthority drops the authority from every listed party
func (s *AuthorityStore) RemoveAuthority(partyIDs []int64, authority string) error {
	if len(partyIDs) == 0 {
		return nil
	}
	return s.db.
		Where("authority = ? AND party_id IN ?", authority, partyIDs).
		Delete(&model.PartyAuthority{}).Error
}

// InsertAuthority adds the authority to every listed party
func (s *AuthorityStore) InsertAuthority(partyIDs []int64, authority string) error {
	if len(partyIDs) == 0 {
		return nil
	}
	rows := make([]model.PartyAuthority, 0, len(partyIDs))
	for _, partyID := range partyIDs {
		rows = append(rows, model.PartyAuthority{PartyID: partyID, Authority: authority})
	}
	return s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

// HasAuthority checks if a party carries the authority
func (s *AuthorityStore) HasAuthority(partyID int64, authority string) (bool, error) {
	var exists bool
	err := s.db.Raw(`
		SELECT EXISTS(
			SELECT 1 FROM core_party_authority
			WHERE party_id = ? AND authority = ?
		)
	`, partyID, authority).Scan(&exists).Error
	return exists, err
}

// DirectHolders returns the candidates directly holding a grant whose group
// carries the permission bit on any of the classes.
func (s *AuthorityStore) DirectHolders(candidates []int64, classes []string, maskBit int) ([]int64, error) {
	if len(candidates) == 0 || len(classes) == 0 {
		return nil, nil
	}

	var partyIDs []int64
	err := s.db.Raw(`
		SELECT DISTINCT arse.party_id
		FROM acl_responsibility_scope_entry arse
		JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
		JOIN acl_class c ON c.id = oid.class_id
		JOIN acl_group_permission agp
			ON agp.acl_group_id = arse.acl_group_id AND agp.class_id = oid.class_id
		WHERE arse.party_id IN (?) AND c.classname IN (?) AND agp.permission_mask = ? AND agp.granting
	`, candidates, classes, maskBit).Scan(&partyIDs).Error
	return partyIDs, err
}

// TeamHolders returns the candidates that are members of a team holding
// such a grant.
func (s *AuthorityStore) TeamHolders(candidates []int64, classes []string, maskBit int) ([]int64, error) {
	if len(candidates) == 0 || len(classes) == 0 {
		return nil, nil
	}

	var partyIDs []int64
	err := s.db.Raw(`
		SELECT DISTINCT tm.user_id
		FROM core_team_member tm
		JOIN acl_responsibility_scope_entry arse ON arse.party_id = tm.team_id
		JOIN acl_object_identity oid ON oid.id = arse.object_identity_id
		JOIN acl_class c ON c.id = oid.class_id
		JOIN acl_group_permission agp
			ON agp.acl_group_id = arse.acl_group_id AND agp.class_id = oid.class_id
		WHERE tm.user_id IN (?) AND c.classname IN (?) AND agp.permission_mask = ? AND agp.granting
	`, candidates, classes, maskBit).Scan(&partyIDs).Error
	return partyIDs, err
}
