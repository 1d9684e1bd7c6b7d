package acl

import (
	"errors"
	"fmt"
)

// ErrAlreadyExists is returned when an object identity with the same
// (class, id) pair is already present.
var ErrAlreadyExists = errors.New("object identity already exists")

// ErrNotFound is returned by lookups for identities, parties or permission
// groups that do not exist. Read paths treat it as "no extra permissions";
// it is a hard failure only for mutations that name the missing row.
var ErrNotFound = errors.New("not found")

// UnknownClassError reports a reference to an ACL class that was never
// registered in the acl_class table. This is a configuration error, not an
// expected runtime condition.
type UnknownClassError struct {
	Class string
}

func (e *UnknownClassError) Error() string {
	return fmt.Sprintf("unknown acl class %q", e.Class)
}
