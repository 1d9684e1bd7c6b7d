package endpoints

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/config"
	"github.com/perimetra/tmacl/pkg/lock"
	"github.com/perimetra/tmacl/pkg/server"
	"github.com/perimetra/tmacl/pkg/server/middleware"
)

var testJWTSecret = []byte("endpoint-test-secret")

// MockAclService implements server.AclService for testing using testify/mock
type MockAclService struct {
	mock.Mock
}

func (m *MockAclService) CreateObjectIdentity(oi acl.ObjectIdentity) error {
	args := m.Called(oi)
	return args.Error(0)
}

func (m *MockAclService) RemoveObjectIdentity(oi acl.ObjectIdentity) error {
	args := m.Called(oi)
	return args.Error(0)
}

func (m *MockAclService) AddNewResponsibility(partyID int64, oi acl.ObjectIdentity, qualifiedName string) error {
	args := m.Called(partyID, oi, qualifiedName)
	return args.Error(0)
}

func (m *MockAclService) RemoveAllResponsibilitiesForIdentity(oi acl.ObjectIdentity) error {
	args := m.Called(oi)
	return args.Error(0)
}

func (m *MockAclService) RemoveAllResponsibilitiesForParty(partyID int64) error {
	args := m.Called(partyID)
	return args.Error(0)
}

func (m *MockAclService) RemoveAllResponsibilities(partyID int64, oi acl.ObjectIdentity) error {
	args := m.Called(partyID, oi)
	return args.Error(0)
}

func (m *MockAclService) FindUsersWithExecutePermission(class string, objectIDs []int64) ([]string, error) {
	args := m.Called(class, objectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAclService) FindUsersWithWritePermission(class string, objectIDs []int64) ([]string, error) {
	args := m.Called(class, objectIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAclService) FindObjectsWithoutPermission(partyID int64, class string) ([]int64, error) {
	args := m.Called(partyID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockAclService) FindPartiesWithoutPermission(oi acl.ObjectIdentity) ([]int64, error) {
	args := m.Called(oi)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockAclService) RetrieveClassAclGroups(partyID int64, class string) ([]store.ClassGroup, error) {
	args := m.Called(partyID, class)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]store.ClassGroup), args.Error(1)
}

func (m *MockAclService) IsProjectManager(partyID int64) (bool, error) {
	args := m.Called(partyID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAclService) HasPermission(partyID int64, oi acl.ObjectIdentity, mask acl.Mask) (bool, error) {
	args := m.Called(partyID, oi, mask)
	return args.Bool(0), args.Error(1)
}

func (m *MockAclService) RefreshAcls() {
	m.Called()
}

// newTestServer builds a Server wired to a mock ACL service with all
// endpoints registered.
func newTestServer(t *testing.T) (*server.Server, *MockAclService) {
	t.Helper()

	aclService := &MockAclService{}
	cfg := &config.Config{APIListLimitMax: 100}
	jwtMiddleware := middleware.NewJWTAuthenticator(testJWTSecret)

	srv := server.NewServer(aclService, lock.NewManager(), nil, cfg, jwtMiddleware, "127.0.0.1", "0")
	RegisterIdentitiesEndpoints(srv)
	RegisterResponsibilitiesEndpoints(srv)
	RegisterQueryEndpoints(srv)
	RegisterRefreshEndpoint(srv)
	return srv, aclService
}

func authToken(t *testing.T) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(testJWTSecret)
	require.NoError(t, err)
	return "Bearer " + signed
}

// doAuthedRequest performs an authenticated request against the test server
func doAuthedRequest(t *testing.T, srv *server.Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", authToken(t))
	rec := httptest.NewRecorder()
	srv.Router.ServeHTTP(rec, req)
	return rec
}
