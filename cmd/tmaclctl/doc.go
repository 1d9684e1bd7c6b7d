// Package main provides tmaclctl, the CLI for the tmacl access-control server.
//
// tmacl derives and serves per-object permissions: object identities are
// declared for domain entities, parties (users and teams) are granted
// named permission groups on them, and the project-manager authority is
// kept consistent with MANAGEMENT grants on project-like objects.
//
// # Architecture
//
// The server is organized into several packages:
//
//   - pkg/acl: the access-control service, derived-authority recompute
//     and grant cache
//   - pkg/acl/store: storage interfaces and their GORM implementation
//   - pkg/groups: permission group definition loading
//   - pkg/lock: per-entity lock manager
//   - pkg/server: HTTP server and routing
//   - pkg/server/endpoints: REST API endpoint handlers
//   - pkg/model: database models
//   - pkg/db: database connection utilities
//   - pkg/audit: audit logging
//   - pkg/config: configuration management
//
// # Quick Start
//
//	# Run database migrations
//	tmaclctl db migrate
//
//	# Load permission group definitions
//	tmaclctl groups load groups.yml
//
//	# Start the server
//	export TMACL_JWT_SECRET=...
//	tmaclctl server
//
// # Environment Variables
//
//   - DATABASE_URL: PostgreSQL connection string
//   - TMACL_JWT_SECRET: HMAC secret for API token validation
//   - TMACL_CONFIG_PATH: directory holding tmacl.yml
//   - TMACL_LOG_LEVEL: log level (debug for SQL logging)
//   - TMACL_AUDIT_ENABLED: toggles audit event emission
package main
