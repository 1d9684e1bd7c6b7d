package store

// Grant is a responsibility scope entry: a party holds a permission group's
// rights on an object identity. MaskBits is the OR of the granting
// permission_mask bits the group carries for the object's class.
type Grant struct {
	PartyID  int64
	Group    string
	Class    string
	ObjectID int64
	MaskBits int
}

// ClassGroup pairs an object id with the qualified name of the permission
// group a party holds on it, for listings scoped to one ACL class.
type ClassGroup struct {
	ObjectID int64
	Group    string
}

// IdentityStore abstracts object-identity storage.
type IdentityStore interface {
	// ClassID resolves a class name to its internal id. The boolean is
	// false when the class was never registered.
	ClassID(class string) (int64, bool, error)

	// CreateIdentity inserts an identity row. The caller is responsible
	// for checking for duplicates beforehand.
	CreateIdentity(classID, objectID int64) error

	// IdentityExists checks if an identity row is present.
	IdentityExists(class string, objectID int64) (bool, error)

	// DeleteIdentity removes an identity row and its grants. Deleting a
	// missing identity is a no-op.
	DeleteIdentity(class string, objectID int64) error
}

// GrantStore abstracts responsibility-entry storage.
type GrantStore interface {
	// GroupID resolves a permission group's qualified name to its id.
	GroupID(qualifiedName string) (int64, bool, error)

	// DeleteGrant removes the grant a party holds on an identity, if any.
	DeleteGrant(partyID int64, class string, objectID int64) error

	// InsertGrant adds a grant. Callers wanting upsert semantics must
	// call DeleteGrant first.
	InsertGrant(partyID, groupID int64, class string, objectID int64) error

	// DeleteGrantsForIdentity removes every grant referencing an identity.
	DeleteGrantsForIdentity(class string, objectID int64) error

	// DeleteGrantsForParty removes every grant a party holds.
	DeleteGrantsForParty(partyID int64) error

	// GrantsForIdentity lists the grants referencing an identity.
	GrantsForIdentity(class string, objectID int64) ([]Grant, error)

	// PartiesWithGrantsOn lists the parties holding any grant on an identity.
	PartiesWithGrantsOn(class string, objectID int64) ([]int64, error)

	// UserLoginsWithPermission lists logins of users whose group carries
	// the given permission bit on any of the identities.
	UserLoginsWithPermission(class string, objectIDs []int64, maskBit int) ([]string, error)

	// ObjectsWithoutPermission lists object ids of a class on which the
	// party holds no grant.
	ObjectsWithoutPermission(partyID int64, class string) ([]int64, error)

	// PartiesWithoutPermission lists party ids holding no grant on an identity.
	PartiesWithoutPermission(class string, objectID int64) ([]int64, error)

	// ClassGroupsForParty lists, for one class, the object ids the party
	// holds a grant on together with the group's qualified name.
	ClassGroupsForParty(partyID int64, class string) ([]ClassGroup, error)
}

// PartyStore abstracts party (user and team) lookups.
type PartyStore interface {
	// PartyExists checks if a party row is present.
	PartyExists(partyID int64) (bool, error)

	// ExpandToUsers maps each party to user ids: a user maps to itself, a
	// team to its member users. Unknown parties expand to nothing.
	ExpandToUsers(partyIDs []int64) ([]int64, error)

	// TeamsOf lists the teams a user belongs to.
	TeamsOf(userID int64) ([]int64, error)

	// AllUserIDs lists every user party id in the system.
	AllUserIDs() ([]int64, error)
}

// AuthorityStore abstracts the denormalized core_party_authority table.
type AuthorityStore interface {
	// RemoveAuthority drops the authority from every listed party.
	RemoveAuthority(partyIDs []int64, authority string) error

	// InsertAuthority adds the authority to every listed party.
	InsertAuthority(partyIDs []int64, authority string) error

	// HasAuthority checks if a party carries the authority.
	HasAuthority(partyID int64, authority string) (bool, error)

	// DirectHolders returns the subset of candidates directly holding a
	// grant whose group carries the permission bit on any of the classes.
	DirectHolders(candidates []int64, classes []string, maskBit int) ([]int64, error)

	// TeamHolders returns the subset of candidates that are members of a
	// team holding such a grant.
	TeamHolders(candidates []int64, classes []string, maskBit int) ([]int64, error)
}

// Bundle groups the four stores bound to one database handle. Mutating
// operations build a Bundle over their transaction so the grant change and
// the derived recompute commit or roll back together.
type Bundle struct {
	Identities  IdentityStore
	Grants      GrantStore
	Parties     PartyStore
	Authorities AuthorityStore
}
