package acl

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/perimetra/tmacl/pkg/acl/store"
	"github.com/perimetra/tmacl/pkg/audit"
)

func newMockedService(t *testing.T) (*Service, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}

	db, err := gorm.Open(
		postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}),
		&gorm.Config{Logger: logger.Default.LogMode(logger.Silent)},
	)
	if err != nil {
		t.Fatalf("failed to open gorm: %v", err)
	}

	svc := NewService(db, WithAuditor(audit.RecorderFunc(func(audit.Event) {})))
	return svc, mock, sqlDB
}

func TestCreateObjectIdentityDuplicate(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectRollback()

	err := svc.CreateObjectIdentity(NewObjectIdentity(ClassProject, 42))
	if !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("CreateObjectIdentity() error = %v, want ErrAlreadyExists", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateObjectIdentityUnknownClass(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT id FROM acl_class`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.CreateObjectIdentity(NewObjectIdentity("bogus-class", 42))

	var unknownClass *UnknownClassError
	if !errors.As(err, &unknownClass) {
		t.Fatalf("CreateObjectIdentity() error = %v, want UnknownClassError", err)
	}
	if unknownClass.Class != "bogus-class" {
		t.Errorf("UnknownClassError.Class = %q", unknownClass.Class)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCreateObjectIdentity(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectQuery(`SELECT id FROM acl_class`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery(`INSERT INTO "acl_object_identity"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	// Derived recompute for a fresh identity: it exists and has no grants,
	// so the candidate set is empty and no authority statements run.
	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT DISTINCT arse.party_id`).
		WillReturnRows(sqlmock.NewRows([]string{"party_id"}))
	mock.ExpectCommit()

	if err := svc.CreateObjectIdentity(NewObjectIdentity(ClassProject, 42)); err != nil {
		t.Errorf("CreateObjectIdentity() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAddNewResponsibilityUpsertOrder(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM acl_group`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	// Upsert: the prior grant for the pair goes first, then the insert.
	mock.ExpectExec(`DELETE FROM acl_responsibility_scope_entry`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO acl_responsibility_scope_entry`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	// Derived recompute scoped to the party.
	mock.ExpectQuery(`SELECT EXISTS\(SELECT 1 FROM core_party`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	mock.ExpectQuery(`SELECT party_id FROM core_user`).
		WillReturnRows(sqlmock.NewRows([]string{"party_id"}).AddRow(7))
	mock.ExpectExec(`DELETE FROM "core_party_authority"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT DISTINCT arse.party_id`).
		WillReturnRows(sqlmock.NewRows([]string{"party_id"}).AddRow(7))
	mock.ExpectQuery(`SELECT DISTINCT tm.user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}))
	mock.ExpectExec(`INSERT INTO "core_party_authority"`).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := svc.AddNewResponsibility(7, NewObjectIdentity(ClassProject, 42), "acl.group.ProjectManager")
	if err != nil {
		t.Errorf("AddNewResponsibility() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestAddNewResponsibilityUnknownGroup(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM acl_group`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.AddNewResponsibility(7, NewObjectIdentity(ClassProject, 42), "acl.group.Nope")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("AddNewResponsibility() error = %v, want ErrNotFound", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestMutationFailureRollsBackRecompute(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	boom := errors.New("boom")

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id FROM acl_group`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(5))
	mock.ExpectExec(`DELETE FROM acl_responsibility_scope_entry`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`INSERT INTO acl_responsibility_scope_entry`).
		WillReturnError(boom)
	mock.ExpectRollback()

	err := svc.AddNewResponsibility(7, NewObjectIdentity(ClassProject, 42), "acl.group.ProjectManager")
	if !errors.Is(err, boom) {
		t.Errorf("AddNewResponsibility() error = %v, want wrapped boom", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestHasPermissionUsesCache(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	oi := NewObjectIdentity(ClassProject, 42)
	svc.cache.Put(oi, []store.Grant{{
		PartyID:  7,
		Group:    "acl.group.ProjectManager",
		Class:    ClassProject,
		ObjectID: 42,
		MaskBits: MaskRead.Bit() | MaskManagement.Bit(),
	}})

	// Only the team lookup hits the database; the grants come from cache.
	mock.ExpectQuery(`SELECT team_id FROM core_team_member`).
		WillReturnRows(sqlmock.NewRows([]string{"team_id"}))

	allowed, err := svc.HasPermission(7, oi, MaskRead)
	if err != nil {
		t.Fatalf("HasPermission() error = %v", err)
	}
	if !allowed {
		t.Error("HasPermission() = false, want true for cached grant")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestHasPermissionTeamResolution(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	oi := NewObjectIdentity(ClassProject, 42)
	// Grant held by team 100; user 7 is a member.
	svc.cache.Put(oi, []store.Grant{{
		PartyID:  100,
		Group:    "acl.group.TestRunner",
		Class:    ClassProject,
		ObjectID: 42,
		MaskBits: MaskExecute.Bit(),
	}})

	mock.ExpectQuery(`SELECT team_id FROM core_team_member`).
		WillReturnRows(sqlmock.NewRows([]string{"team_id"}).AddRow(100))

	allowed, err := svc.HasPermission(7, oi, MaskExecute)
	if err != nil {
		t.Fatalf("HasPermission() error = %v", err)
	}
	if !allowed {
		t.Error("HasPermission() = false, want true through team membership")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestHasPermissionNoEntriesDegrades(t *testing.T) {
	svc, mock, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	mock.ExpectQuery(`SELECT arse.party_id`).
		WillReturnRows(sqlmock.NewRows([]string{"party_id", "qualified_name", "mask_bits"}))

	allowed, err := svc.HasPermission(7, NewObjectIdentity(ClassProject, 404), MaskRead)
	if err != nil {
		t.Fatalf("HasPermission() error = %v", err)
	}
	if allowed {
		t.Error("HasPermission() with no ACL should degrade to no grant")
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestRefreshAclsClearsCache(t *testing.T) {
	svc, _, sqlDB := newMockedService(t)
	defer sqlDB.Close()

	oi := NewObjectIdentity(ClassProject, 1)
	svc.cache.Put(oi, nil)

	svc.RefreshAcls()

	if _, ok := svc.cache.Get(oi); ok {
		t.Error("RefreshAcls() should clear the cache")
	}
}
