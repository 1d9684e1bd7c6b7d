package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/lock"
	"github.com/perimetra/tmacl/pkg/server"
)

// ResponsibilityRequest is the body for granting a responsibility
type ResponsibilityRequest struct {
	Group string `json:"group"`
}

// RegisterResponsibilitiesEndpoints registers the grant API endpoints
func RegisterResponsibilitiesEndpoints(s *server.Server) {
	partiesRouter := s.Router.PathPrefix("/parties").Subrouter()
	partiesRouter.Use(s.JWTMiddleware.Middleware)

	// PUT /parties/{party}/responsibilities/{class}/{id} - Grant (upsert) a responsibility
	partiesRouter.HandleFunc("/{party}/responsibilities/{class}/{id}", handleGrantResponsibility(s)).Methods("PUT")

	// DELETE /parties/{party}/responsibilities/{class}/{id} - Revoke one grant
	partiesRouter.HandleFunc("/{party}/responsibilities/{class}/{id}", handleRevokeResponsibility(s)).Methods("DELETE")

	// DELETE /parties/{party}/responsibilities - Revoke all of a party's grants
	partiesRouter.HandleFunc("/{party}/responsibilities", handleRevokePartyResponsibilities(s)).Methods("DELETE")

	identitiesRouter := s.Router.PathPrefix("/identities").Subrouter()
	identitiesRouter.Use(s.JWTMiddleware.Middleware)

	// DELETE /identities/{class}/{id}/responsibilities - Revoke all grants on an object
	identitiesRouter.HandleFunc("/{class}/{id}/responsibilities", handleRevokeIdentityResponsibilities(s)).Methods("DELETE")
}

func handleGrantResponsibility(s *server.Server) http.HandlerFunc {
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

		var req ResponsibilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Group == "" {
			respondWithError(w, http.StatusBadRequest, "missing group name")
			return
		}

		release := s.Locks.Lock(lock.Key{EntityType: oi.Class, ID: oi.ID})
		defer release()

		err = s.Acl.AddNewResponsibility(partyID, oi, req.Group)
		switch {
		case errors.Is(err, acl.ErrNotFound):
			respondWithError(w, http.StatusNotFound, err.Error())
		case err != nil:
			respondWithError(w, http.StatusInternalServerError, err.Error())
		default:
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func handleRevokeResponsibility(s *server.Server) http.HandlerFunc {
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

		release := s.Locks.Lock(lock.Key{EntityType: oi.Class, ID: oi.ID})
		defer release()

		if err := s.Acl.RemoveAllResponsibilities(partyID, oi); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRevokePartyResponsibilities(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID, err := partyVar(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		if err := s.Acl.RemoveAllResponsibilitiesForParty(partyID); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func handleRevokeIdentityResponsibilities(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		oi, err := objectIdentityVars(r)
		if err != nil {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}

		release := s.Locks.Lock(lock.Key{EntityType: oi.Class, ID: oi.ID})
		defer release()

		if err := s.Acl.RemoveAllResponsibilitiesForIdentity(oi); err != nil {
			respondWithError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
