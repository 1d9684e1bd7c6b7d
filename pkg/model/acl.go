package model

// AclClass registers an entity type as eligible for access control
type AclClass struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Classname string `gorm:"column:classname;not null;unique"`
}

func (AclClass) TableName() string {
	return "acl_class"
}

// ObjectIdentity is a stable handle binding grants to a domain entity
type ObjectIdentity struct {
	ID       int64 `gorm:"column:id;primaryKey;autoIncrement"`
	Identity int64 `gorm:"column:identity;not null"`
	ClassID  int64 `gorm:"column:class_id;not null"`
}

func (ObjectIdentity) TableName() string {
	return "acl_object_identity"
}

// Group is a named permission bundle identified by a qualified name
type Group struct {
	ID            int64  `gorm:"column:id;primaryKey;autoIncrement"`
	QualifiedName string `gorm:"column:qualified_name;not null;unique"`
}

func (Group) TableName() string {
	return "acl_group"
}

// GroupPermission is one permission mask a group carries for one class
type GroupPermission struct {
	GroupID         int64 `gorm:"column:acl_group_id;primaryKey"`
	ClassID         int64 `gorm:"column:class_id;primaryKey"`
	PermissionMask  int   `gorm:"column:permission_mask;primaryKey"`
	PermissionOrder int   `gorm:"column:permission_order;not null"`
	Granting        bool  `gorm:"column:granting;not null;default:true"`
}

func (GroupPermission) TableName() string {
	return "acl_group_permission"
}

// ResponsibilityScopeEntry is a grant: a party holds a permission group's
// rights on an object identity
type ResponsibilityScopeEntry struct {
	ID               int64 `gorm:"column:id;primaryKey;autoIncrement"`
	PartyID          int64 `gorm:"column:party_id;not null"`
	GroupID          int64 `gorm:"column:acl_group_id;not null"`
	ObjectIdentityID int64 `gorm:"column:object_identity_id;not null"`
}

func (ResponsibilityScopeEntry) TableName() string {
	return "acl_responsibility_scope_entry"
}
