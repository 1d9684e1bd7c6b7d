/*
Package groups loads permission group definitions into the database.

# Overview

A permission group is a named bundle of permission masks, scoped per
object class. Groups are defined in YAML and referenced by qualified
name when responsibilities are granted:

	groups:
	  - name: acl.group.tm.ProjectManager
	    permissions:
	      project: [read, write, create, delete, admin, management]
	      project-template: [read, management]

Loading a definitions file is idempotent: each group is upserted by
qualified name and its per-class permission rows are replaced
wholesale, all within a single database transaction. A dry-run mode
validates the definitions and rolls the transaction back.

# Components

  - Definitions: the parsed YAML document
  - Loader: applies definitions through a Store
  - Store / GormStore: storage abstraction and its GORM implementation
*/
package groups
