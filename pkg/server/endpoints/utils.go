package endpoints

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/perimetra/tmacl/pkg/acl"
)

func respondWithError(w http.ResponseWriter, code int, payload interface{}) {
	respondWithJSON(w, code, map[string]interface{}{"error": payload})
}

func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, _ := json.Marshal(payload)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = w.Write(response)
}

// objectIdentityVars extracts the {class}/{id} path segments.
func objectIdentityVars(r *http.Request) (acl.ObjectIdentity, error) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		return acl.ObjectIdentity{}, fmt.Errorf("invalid object id: %s", vars["id"])
	}
	return acl.ObjectIdentity{Class: vars["class"], ID: id}, nil
}

// partyVar extracts the {party} path segment.
func partyVar(r *http.Request) (int64, error) {
	vars := mux.Vars(r)
	party, err := strconv.ParseInt(vars["party"], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid party id: %s", vars["party"])
	}
	return party, nil
}

// parseIDList parses a comma-separated list of int64 IDs, capped at max.
func parseIDList(raw string, max int) ([]int64, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	if max > 0 && len(parts) > max {
		return nil, fmt.Errorf("too many ids: %d exceeds limit %d", len(parts), max)
	}
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id: %s", p)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
