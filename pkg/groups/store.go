package groups

// Permission is one stored permission row for a group and class.
type Permission struct {
	ClassID int64
	Mask    int
	Order   int
}

// Store abstracts the storage operations for group loading.
type Store interface {
	// Transaction wraps operations in a database transaction. The
	// provided function receives a transactional Store. If the
	// function returns an error, the transaction is rolled back.
	Transaction(fn func(Store) error) error

	// ClassID looks up the ID of a registered object class.
	ClassID(classname string) (int64, bool, error)

	// UpsertGroup creates a group by qualified name if it does not
	// exist, returning its ID either way.
	UpsertGroup(qualifiedName string) (int64, error)

	// ReplacePermissions deletes a group's permission rows and
	// inserts the given set.
	ReplacePermissions(groupID int64, perms []Permission) error
}
