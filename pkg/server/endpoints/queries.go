package endpoints

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/server"
)

// UsersResponse lists user logins holding a permission
type UsersResponse struct {
	Logins []string `json:"logins"`
}

// ObjectsResponse lists object IDs
type ObjectsResponse struct {
	IDs []int64 `json:"ids"`
}

// PartiesResponse lists party IDs
type PartiesResponse struct {
	IDs []int64 `json:"ids"`
}

// ClassGroupResponse is one group a party holds on one object of a class
type ClassGroupResponse struct {
	ObjectID int64  `json:"object_id"`
	Group    string `json:"group"`
}

// ProjectManagerResponse reports project-manager standing
type ProjectManagerResponse struct {
	ProjectManager bool `json:"project_manager"`
}

// PermissionResponse reports the outcome of a permission check
type PermissionResponse struct {
	Allowed bool `json:"allowed"`
}

// RegisterQueryEndpoints registers the permission query API endpoints
func RegisterQueryEndpoints(s *server.Server) {
	permissionsRouter := s.Router.PathPrefix("/permissions").Subrouter()
	permissionsRouter.Use(s.JWTMiddleware.Middleware)

	// GET /permissions/{class}/execute-users?ids=1,2,3 - Users who can execute
	permissionsRouter.HandleFunc("/{class}/execute-users", handleUsersWithPermission(s, (server.AclService).FindUsersWithExecutePermission)).Methods("GET")

	// GET /permissions/{class}/write-users?ids=1,2,3 - Users who can write
	permissionsRouter.HandleFunc("/{class}/write-users", handleUsersWithPermission(s, (server.AclService).FindUsersWithWritePermission)).Methods("GET")

	partiesRouter := s.Router.PathPrefix("/parties").Subrouter()
	partiesRouter.Use(s.JWTMiddleware.Middleware)

	// GET /parties/{party}/missing-objects/{class} - Objects the party holds no grant on
	partiesRouter.HandleFunc("/{party}/missing-objects/{class}", handleObjectsWithoutPermission(s)).Methods("GET")

	// GET /parties/{party}/groups/{class} - Groups the party holds per object of a class
	partiesRouter.HandleFunc("/{party}/groups/{class}", handleClassAclGroups(s)).Methods("GET")

	// GET /parties/{party}/project-manager - Project-manager standing
	partiesRouter.HandleFunc("/{party}/project-manager", handleIsProjectManager(s)).Methods("GET")

	// GET /parties/{party}/permissions/{class}/{id}/{mask} - Permission check
	partiesRouter.HandleFunc("/{party}/permissions/{class}/{id}/{mask}", handleHasPermission(s)).Methods("GET")

	identitiesRouter := s.Router.PathPrefix("/identities").Subrouter()
	identitiesRouter.Use(s.JWTMiddleware.Middleware)

	// GET /identities/{class}/{id}/missing-parties - Parties with no grant on the object
	identitiesRouter.HandleFunc("/{class}/{id}/missing-parties", handlePartiesWithoutPermission(s)).Methods("GET")
}

// RegisterRefreshEndpoint registers the cache refresh endpoint
func RegisterRefreshEndpoint(s *server.Server) {
	aclsRouter := s.Router.PathPrefix("/acls").Subrouter()
	aclsRouter.Use(s.JWTMiddleware.Middleware)

	// POST /acls/refresh - Drop all cached ACL entries
	aclsRouter.HandleFunc("/refresh", func(w http.ResponseWriter, r *http.Request) {
		s.Acl.RefreshAcls()
		w.WriteHeader(http.StatusNoContent)
	}).Methods("POST")
}

func handleUsersWithPermission(s *server.Server, query func(server.AclService, string, []int64) ([]string, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		class := mux.Vars(r)["class"]

		ids, err := parseIDList(r.URL.Query().Get("ids"), s.Config.APIListLimitMax)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		logins, err := query(s.Acl, class, ids)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, UsersResponse{Logins: logins})
	}
}

func handleObjectsWithoutPermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := partyVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		class := mux.Vars(r)["class"]

		ids, err := s.Acl.FindObjectsWithoutPermission(partyID, class)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, ObjectsResponse{IDs: ids})
	}
}

func handlePartiesWithoutPermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oi, err := objectIdentityVars(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		ids, err := s.Acl.FindPartiesWithoutPermission(oi)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, PartiesResponse{IDs: ids})
	}
}

func handleClassAclGroups(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := partyVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		class := mux.Vars(r)["class"]

		classGroups, err := s.Acl.RetrieveClassAclGroups(partyID, class)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}

		response := make([]ClassGroupResponse, 0, len(classGroups))
		for _, cg := range classGroups {
			response = append(response, ClassGroupResponse{ObjectID: cg.ObjectID, Group: cg.Group})
		}
		respondWithJSON(w, http.StatusOK, response)
	}
}

func handleIsProjectManager(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := partyVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		isManager, err := s.Acl.IsProjectManager(partyID)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, ProjectManagerResponse{ProjectManager: isManager})
	}
}

func handleHasPermission(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := partyVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		oi, err := objectIdentityVars(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		maskName := mux.Vars(r)["mask"]
		mask, err := acl.MaskString(maskName)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, "unknown mask: "+maskName)
			return
		}

		allowed, err := s.Acl.HasPermission(partyID, oi, mask)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		respondWithJSON(w, http.StatusOK, PermissionResponse{Allowed: allowed})
	}
}
