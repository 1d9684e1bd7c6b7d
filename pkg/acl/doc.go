// Package acl implements the access-control core of tmacl.
//
// The package revolves around two collaborators:
//
//   - Service: the object-identity and grant store. It creates and removes
//     object identities (stable (class, id) handles for domain entities),
//     maintains responsibility entries (party / permission-group / identity
//     triples) and answers permission queries.
//   - DerivedPermissionsManager: a rule engine that keeps the implicit
//     ROLE_TM_PROJECT_MANAGER authority consistent with the explicit grants.
//     The authority is never written directly by callers; it is recomputed
//     whenever a grant that could affect project management changes.
//
// # Consistency
//
// Grant mutations and the derived-authority recompute they trigger run in
// the same database transaction. A reader that observes a committed grant
// always observes the matching derived authority; there is no eventual
// consistency window.
//
// # Caching
//
// Grant lookups go through a Cache keyed by object identity. Every mutation
// evicts the affected identity; RefreshAcls clears the cache outright.
package acl
