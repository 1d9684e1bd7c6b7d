package gorm

import (
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/model"
)

// Ensure IdentityStore implements store.IdentityStore
var _ store.IdentityStore = (*IdentityStore)(nil)

// IdentityStore implements store.IdentityStore using GORM
type IdentityStore struct {
	db *gorm.DB
}

// NewIdentityStore creates a new IdentityStore
func NewIdentityStore(db *gorm.DB) *IdentityStore {
	return &IdentityStore{db: db}
}

// ClassID resolves a class name to its internal id
func (s *IdentityStore) ClassID(class string) (int64, bool, error) {
	var ids []int64
	err := s.db.Raw(`SELECT id FROM acl_class WHERE classname = ?`, class).Scan(&ids).Error
	if err != nil || len(ids) == 0 {
		return 0, false, err
	}
	return ids[0], true, nil
}

// CreateIdentity inserts an identity row
func (s *IdentityStore) CreateIdentity(classID, objectID int64) error {
	return s.db.Create(&model.ObjectIdentity{
		Identity: objectID,
		ClassID:  classID,
	}).Error
}

// IdentityExists checks if an identity row is present
func (s *IdentityStore) IdentityExists(class string, objectID int64) (bool, error) {
	var exists bool
	err := s.db.Raw(`
		SELECT EXISTS(
			SELECT 1
			FROM acl_object_identity oid
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
	`, class, objectID).Scan(&exists).Error
	return exists, err
}

// DeleteIdentity removes an identity row and its grants
func (s *IdentityStore) DeleteIdentity(class string, objectID int64) error {
	err := s.db.Exec(`
		DELETE FROM acl_responsibility_scope_entry
		WHERE object_identity_id IN (
			SELECT oid.id
			FROM acl_object_identity oid
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
	`, class, objectID).Error
	if err != nil {
		return err
	}

	return s.db.Exec(`
		DELETE FROM acl_object_identity
		WHERE id IN (
			SELECT oid.id
			FROM acl_object_identity oid
			JOIN acl_class c ON c.id = oid.class_id
			WHERE c.classname = ? AND oid.identity = ?
		)
	`, class, objectID).Error
}
