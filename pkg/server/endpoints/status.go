package endpoints

import (
	"net/http"
	"os"

	"github.com/perimetra/tmacl/pkg/server"
)

// StatusResponse reports the server version
type StatusResponse struct {
	Version string `json:"version"`
}

// HealthResponse reports component health
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

// RegisterStatusEndpoints registers the status and health endpoints.
// Neither requires authentication.
func RegisterStatusEndpoints(s *server.Server) {
	// GET / - Status page
	s.Router.HandleFunc("/", handleStatus()).Methods("GET")

	// GET /health - Database connectivity check
	s.Router.HandleFunc("/health", handleHealth(s)).Methods("GET")
}

func handleStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("TMACL_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}
		respondWithJSON(w, http.StatusOK, StatusResponse{Version: version})
	}
}

func handleHealth(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			respondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:   "error",
				Database: err.Error(),
			})
			return
		}
		respondWithJSON(w, http.StatusOK, HealthResponse{
			Status:   "ok",
			Database: "ok",
		})
	}
}
