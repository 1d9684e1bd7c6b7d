// Package store provides storage abstractions for the ACL engine.
//
// This package defines interfaces for the database operations the ACL
// service and the derived-permissions manager depend on, decoupling them
// from the concrete database implementation. This enables testing with
// mocks and keeps all SQL in one place.
//
// # Available Stores
//
//   - IdentityStore: object-identity rows and class lookups
//   - GrantStore: responsibility entries and permission queries
//   - PartyStore: users, teams and team-membership expansion
//   - AuthorityStore: the denormalized derived-authority table
//
// A Bundle groups one instance of each store bound to the same database
// handle, so that a mutation and the recompute it triggers share a
// transaction.
package store
