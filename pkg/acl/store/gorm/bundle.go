package gorm

import (
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl/store"
)

// NewBundle builds all four stores over one database handle. Pass a
// transaction handle to make the stores share its fate.
func NewBundle(db *gorm.DB) store.Bundle {
	return store.Bundle{
		Identities:  NewIdentityStore(db),
		Grants:      NewGrantStore(db),
		Parties:     NewPartyStore(db),
		Authorities: NewAuthorityStore(db),
	}
}
