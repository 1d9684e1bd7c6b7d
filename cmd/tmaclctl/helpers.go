package main

import (
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/config"
	"github.com/perimetra/tmacl/pkg/db"
)

// connectAclService connects to the database and builds the
// access-control service from the loaded configuration.
func connectAclService() (*gorm.DB, *acl.Service, error) {
	database, err := db.Connect(db.Config{})
	if err != nil {
		return nil, nil, err
	}

	cfg := config.Get()
	service := acl.NewService(database,
		acl.WithDerivedManager(acl.NewDerivedPermissionsManager(cfg.ProjectClassNames...)),
	)
	return database, service, nil
}
