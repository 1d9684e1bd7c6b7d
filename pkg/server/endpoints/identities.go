package endpoints

import (
	"errors"
	"net/http"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/lock"
	"github.com/perimetra/tmacl/pkg/server"
)

// IdentityResponse represents an object identity in the API response
type IdentityResponse struct {
	Class string `json:"class"`
	ID    int64  `json:"id"`
}

// RegisterIdentitiesEndpoints registers the object identity API endpoints
func RegisterIdentitiesEndpoints(s *server.Server) {
	identitiesRouter := s.Router.PathPrefix("/identities").Subrouter()
	identitiesRouter.Use(s.JWTMiddleware.Middleware)

	// POST /identities/{class}/{id} - Declare an object identity
	identitiesRouter.HandleFunc("/{class}/{id}", handleCreateIdentity(s)).Methods("POST")

	// DELETE /identities/{class}/{id} - Remove an object identity
	identitiesRouter.HandleFunc("/{class}/{id}", handleDeleteIdentity(s)).Methods("DELETE")
}

func handleCreateIdentity(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oi, err := objectIdentityVars(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		release := s.Locks.Lock(lock.Key{EntityType: oi.Class, ID: oi.ID})
		defer release()

		err = s.Acl.CreateObjectIdentity(oi)
		var unknownClass *acl.UnknownClassError
		switch {
		case errors.Is(err, acl.ErrAlreadyExists):
			respondWithError(w, http.StatusConflict, "object identity already exists")
		case errors.As(err, &unknownClass):
			respondWithError(w, http.StatusUnprocessableEntity, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		default:
			respondWithJSON(w, http.StatusCreated, IdentityResponse{Class: oi.Class, ID: oi.ID})
		}
	}
}

func handleDeleteIdentity(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oi, err := objectIdentityVars(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		release := s.Locks.Lock(lock.Key{EntityType: oi.Class, ID: oi.ID})
		defer release()

		if err := s.Acl.RemoveObjectIdentity(oi); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
