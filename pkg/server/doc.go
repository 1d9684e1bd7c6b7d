// Package server provides the HTTP server for the tmacl API.
//
// This package implements the HTTP server that handles all tmacl REST
// API requests. It uses gorilla/mux for routing and provides middleware
// for authentication and request handling.
//
// # Server Setup
//
//	srv := server.NewServer(aclService, locks, db, cfg, jwtMiddleware, host, port)
//	endpoints.RegisterAll(srv)
//	if err := srv.Start(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Components
//
// The Server struct holds:
//
//   - Acl: the access-control service the endpoints delegate to
//   - Locks: per-entity lock manager serializing concurrent mutations
//   - Config: server configuration
//   - Router: HTTP request router
//   - DB: database connection
//   - JWTMiddleware: JWT token validation
//
// # Endpoints
//
// API endpoints are registered via the endpoints subpackage:
//
//	endpoints.RegisterAll(srv)
//
// This registers:
//
//   - /identities/{class}/{id} - object identity lifecycle
//   - /parties/{party}/responsibilities/... - grants
//   - /permissions/... - bulk permission queries
//   - /parties/{party}/... - per-party queries
//   - /acls/refresh - cache refresh
//   - / and /health - status
package server
