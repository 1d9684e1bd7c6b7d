package endpoints

import (
	"github.com/perimetra/tmacl/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterStatusEndpoints(srv)
	RegisterIdentitiesEndpoints(srv)
	RegisterResponsibilitiesEndpoints(srv)
	RegisterQueryEndpoints(srv)
	RegisterRefreshEndpoint(srv)
}
