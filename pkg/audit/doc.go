// Package audit provides audit logging for ACL operations.
//
// This package implements structured audit logging for security-relevant
// operations such as grant changes, identity lifecycle and permission
// checks, in RFC5424 syslog format.
//
// # Event Types
//
//   - IdentityEvent: object identity created/removed
//   - GrantEvent: responsibility granted
//   - RevokeEvent: responsibilities revoked (pair, party or identity scope)
//   - CheckEvent: permission check outcome
//   - RefreshEvent: administrative cache refresh
//
// # Usage
//
//	audit.Log(audit.GrantEvent{PartyID: 7, Group: "acl.group.ProjectManager", Class: "project", ObjectID: 42})
//
// Events are written to stdout in RFC5424 format and, when
// AUDIT_DATABASE_URL is set, persisted to the audit database. Set
// TMACL_AUDIT_ENABLED=false to disable audit output.
package audit
