package gorm

import (
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl/store"
)

// Ensure PartyStore implements store.PartyStore
var _ store.PartyStore = (*PartyStore)(nil)

// PartyStore implements store.PartyStore using GORM
type PartyStore struct {
	db *gorm.DB
}

// NewPartyStore creates a new PartyStore
func NewPartyStore(db *gorm.DB) *PartyStore {
	return &PartyStore{db: db}
}

// PartyExists checks if a party row is present
func (s *PartyStore) PartyExists(partyID int64) (bool, error) {
	var exists bool
	err := s.db.Raw(`SELECT EXISTS(SELECT 1 FROM core_party WHERE party_id = ?)`, partyID).Scan(&exists).Error
	return exists, err
}

// ExpandToUsers maps parties to user ids: users map to themselves, teams to
// their member users.
func (s *PartyStore) ExpandToUsers(partyIDs []int64) ([]int64, error) {
	if len(partyIDs) == 0 {
		return nil, nil
	}

	var userIDs []int64
	err := s.db.Raw(`
		SELECT party_id FROM core_user WHERE party_id IN (?)
		UNION
		SELECT tm.user_id FROM core_team_member tm WHERE tm.team_id IN (?)
		ORDER BY party_id
	`, partyIDs, partyIDs).Scan(&userIDs).Error
	return userIDs, err
}

// TeamsOf lists the teams a user belongs to
func (s *PartyStore) TeamsOf(userID int64) ([]int64, error) {
	var teamIDs []int64
	err := s.db.Raw(`
		SELECT team_id FROM core_team_member WHERE user_id = ? ORDER BY team_id
	`, userID).Scan(&teamIDs).Error
	return teamIDs, err
}

// AllUserIDs lists every user party id in the system
func (s *PartyStore) AllUserIDs() ([]int64, error) {
	var userIDs []int64
	err := s.db.Raw(`SELECT party_id FROM core_user ORDER BY party_id`).Scan(&userIDs).Error
	return userIDs, err
}
