package server

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/perimetra/tmacl/pkg/acl"
	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/config"
	"github.com/perimetra/tmacl/pkg/lock"
	"github.com/perimetra/tmacl/pkg/server/middleware"
)

// AclService is the surface of the access-control service the HTTP
// endpoints depend on.
type AclService interface {
	CreateObjectIdentity(oi acl.ObjectIdentity) error
	RemoveObjectIdentity(oi acl.ObjectIdentity) error
	AddNewResponsibility(partyID int64, oi acl.ObjectIdentity, qualifiedName string) error
	RemoveAllResponsibilitiesForIdentity(oi acl.ObjectIdentity) error
	RemoveAllResponsibilitiesForParty(partyID int64) error
	RemoveAllResponsibilities(partyID int64, oi acl.ObjectIdentity) error
	FindUsersWithExecutePermission(class string, objectIDs []int64) ([]string, error)
	FindUsersWithWritePermission(class string, objectIDs []int64) ([]string, error)
	FindObjectsWithoutPermission(partyID int64, class string) ([]int64, error)
	FindPartiesWithoutPermission(oi acl.ObjectIdentity) ([]int64, error)
	RetrieveClassAclGroups(partyID int64, class string) ([]store.ClassGroup, error)
	IsProjectManager(partyID int64) (bool, error)
	HasPermission(partyID int64, oi acl.ObjectIdentity, mask acl.Mask) (bool, error)
	RefreshAcls()
}

// Service must satisfy the endpoint surface
var _ AclService = (*acl.Service)(nil)

type Server struct {
	Acl           AclService
	Locks         *lock.Manager
	Config        *config.Config
	Router        *mux.Router
	DB            *gorm.DB
	JWTMiddleware *middleware.JWTAuthenticator
	srv           *http.Server
}

func NewServer(
	aclService AclService,
	locks *lock.Manager,
	db *gorm.DB,
	cfg *config.Config,
	jwtMiddleware *middleware.JWTAuthenticator,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Acl:           aclService,
		Locks:         locks,
		Config:        cfg,
		Router:        router,
		DB:            db,
		JWTMiddleware: jwtMiddleware,
		srv:           srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

func (s Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
