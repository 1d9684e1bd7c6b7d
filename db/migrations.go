// Package db embeds the SQL migrations shipped with tmacl.
package db

import "embed"

// Migrations holds the schema migration files, embedded into production
// builds so the binary can migrate without a source checkout.
//
//go:embed migrations
var Migrations embed.FS
