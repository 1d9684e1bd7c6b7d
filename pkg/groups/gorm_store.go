package groups

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/perimetra/tmacl/pkg/model"
)

// Ensure GormStore implements Store
var _ Store = (*GormStore)(nil)

// GormStore implements Store using GORM for database operations.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Transaction wraps operations in a database transaction.
func (s *GormStore) Transaction(fn func(Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}

// ClassID looks up the ID of a registered object class.
func (s *GormStore) ClassID(classname string) (int64, bool, error) {
	var class model.AclClass
	err := s.db.Where("classname = ?", classname).First(&class).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to look up class %s: %w", classname, err)
	}
	return class.ID, true, nil
}

// UpsertGroup creates a group by qualified name if it does not exist,
// returning its ID either way.
func (s *GormStore) UpsertGroup(qualifiedName string) (int64, error) {
	group := model.Group{QualifiedName: qualifiedName}
	err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&group).Error
	if err != nil {
		return 0, fmt.Errorf("failed to upsert group %s: %w", qualifiedName, err)
	}

	// ON CONFLICT DO NOTHING leaves ID unset when the row already existed
	if group.ID == 0 {
		var existing model.Group
		if err := s.db.Where("qualified_name = ?", qualifiedName).First(&existing).Error; err != nil {
			return 0, fmt.Errorf("failed to fetch group %s: %w", qualifiedName, err)
		}
		group.ID = existing.ID
	}

	return group.ID, nil
}

// ReplacePermissions deletes a group's permission rows and inserts the
// given set.
func (s *GormStore) ReplacePermissions(groupID int64, perms []Permission) error {
	err := s.db.Where("acl_group_id = ?", groupID).Delete(&model.GroupPermission{}).Error
	if err != nil {
		return fmt.Errorf("failed to clear permissions for group %d: %w", groupID, err)
	}

	for _, p := range perms {
		row := model.GroupPermission{
			GroupID:         groupID,
			ClassID:         p.ClassID,
			PermissionMask:  p.Mask,
			PermissionOrder: p.Order,
			Granting:        true,
		}
		if err := s.db.Create(&row).Error; err != nil {
			return fmt.Errorf("failed to insert permission for group %d: %w", groupID, err)
		}
	}
	return nil
}
