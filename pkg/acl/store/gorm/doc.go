// Package gorm implements the ACL store interfaces using GORM.
//
// Queries are written as raw SQL against the acl_* and core_* tables; GORM
// is used for connection management, parameter expansion and transactions
// rather than for its ORM features.
package gorm
