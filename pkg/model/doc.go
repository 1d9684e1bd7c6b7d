// Package model defines the database models for tmacl.
//
// This package contains GORM models that map to the ACL database schema.
//
// # Core Models
//
//   - AclClass: registered entity types eligible for access control
//   - ObjectIdentity: (class, id) handles the ACL engine binds grants to
//   - Group: named permission bundles ("permission groups")
//   - GroupPermission: per-class permission masks a group carries
//   - ResponsibilityScopeEntry: grants (party / group / identity triples)
//   - Party, User, Team, TeamMember: grant subjects
//   - PartyAuthority: denormalized authorities, including the derived
//     project-manager role
//
// # Database Schema
//
// The database uses PostgreSQL with the following key tables:
//
//   - acl_class: entity type registry
//   - acl_object_identity: access-controlled object handles
//   - acl_group / acl_group_permission: permission groups and their masks
//   - acl_responsibility_scope_entry: grants
//   - core_party / core_user / core_team / core_team_member: subjects
//   - core_party_authority: denormalized party authorities
package model
