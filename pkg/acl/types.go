package acl

import "fmt"

// Well-known ACL class names. Classes are registered in the acl_class table
// by migration; referencing an unregistered class is a configuration error.
const (
	ClassProject         = "project"
	ClassProjectTemplate = "project-template"
	ClassCampaign        = "campaign"
	ClassIteration       = "iteration"
	ClassRequirementLib  = "requirement-library"
	ClassTestCaseLib     = "test-case-library"
	ClassCampaignLib     = "campaign-library"
)

// RoleProjectManager is the derived authority maintained by the
// DerivedPermissionsManager. It is a materialized view over the grants
// table, not a primary fact: callers must never write it directly.
const RoleProjectManager = "ROLE_TM_PROJECT_MANAGER"

// ObjectIdentity is a stable reference to a domain entity eligible for
// access control. The referenced entity may already be gone by the time the
// identity is cleaned up; consumers must tolerate dangling identities.
type ObjectIdentity struct {
	Class string
	ID    int64
}

// NewObjectIdentity builds an identity handle for the given class and id.
func NewObjectIdentity(class string, id int64) ObjectIdentity {
	return ObjectIdentity{Class: class, ID: id}
}

func (o ObjectIdentity) String() string {
	return fmt.Sprintf("%s:%d", o.Class, o.ID)
}

// IsSortOfProject reports whether the identity's class is one of the
// project-like classes whose MANAGEMENT grants drive the derived
// project-manager authority.
func (o ObjectIdentity) IsSortOfProject(projectClasses []string) bool {
	for _, c := range projectClasses {
		if o.Class == c {
			return true
		}
	}
	return false
}

// DefaultProjectClasses is the default set of classes considered
// project-like for derived-authority purposes.
func DefaultProjectClasses() []string {
	return []string{ClassProject, ClassProjectTemplate}
}
