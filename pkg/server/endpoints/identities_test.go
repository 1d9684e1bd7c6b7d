package endpoints

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/perimetra/tmacl/pkg/acl"
)

func TestCreateIdentity(t *testing.T) {
	srv, aclService := newTestServer(t)
	oi := acl.ObjectIdentity{Class: "project", ID: 42}
	aclService.On("CreateObjectIdentity", oi).Return(nil)

	rec := doAuthedRequest(t, srv, "POST", "/identities/project/42", "")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"class":"project","id":42}`, rec.Body.String())
	aclService.AssertExpectations(t)
}

func TestCreateIdentityConflict(t *testing.T) {
	srv, aclService := newTestServer(t)
	oi := acl.ObjectIdentity{Class: "project", ID: 42}
	aclService.On("CreateObjectIdentity", oi).Return(acl.ErrAlreadyExists)

	rec := doAuthedRequest(t, srv, "POST", "/identities/project/42", "")

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateIdentityUnknownClass(t *testing.T) {
	srv, aclService := newTestServer(t)
	oi := acl.ObjectIdentity{Class: "spaceship", ID: 1}
	aclService.On("CreateObjectIdentity", oi).Return(&acl.UnknownClassError{Class: "spaceship"})

	rec := doAuthedRequest(t, srv, "POST", "/identities/spaceship/1", "")

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "spaceship")
}

func TestCreateIdentityBadID(t *testing.T) {
	srv, _ := newTestServer(t)

	rec := doAuthedRequest(t, srv, "POST", "/identities/project/notanumber", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteIdentity(t *testing.T) {
	srv, aclService := newTestServer(t)
	oi := acl.ObjectIdentity{Class: "campaign", ID: 7}
	aclService.On("RemoveObjectIdentity", oi).Return(nil)

	rec := doAuthedRequest(t, srv, "DELETE", "/identities/campaign/7", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	aclService.AssertExpectations(t)
}

func TestIdentityRequiresAuth(t *testing.T) {
	srv, _ := newTestServer(t)

	req := httptest.NewRequest("POST", "/identities/project/42", nil)
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
