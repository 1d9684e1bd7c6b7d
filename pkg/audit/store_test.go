package audit

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestStoreSave(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := GrantEvent{
		PartyID:  7,
		Group:    "acl.group.ProjectManager",
		Class:    "project",
		ObjectID: 42,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,    // facility
			int(SeverityNotice), // severity
			sqlmock.AnyArg(),    // timestamp
			sqlmock.AnyArg(),    // hostname
			"tmacl",             // appname
			sqlmock.AnyArg(),    // procid
			"grant",             // msgid
			sqlmock.AnyArg(),    // sdata (JSON)
			sqlmock.AnyArg(),    // message
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreSaveCheckEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	defer db.Close()

	store := NewStoreWithDB(db)

	event := CheckEvent{
		PartyID:  3,
		Class:    "project",
		ObjectID: 42,
		Mask:     "execute",
		Allowed:  false,
	}

	mock.ExpectExec(`INSERT INTO messages`).
		WithArgs(
			FacilityAuthPriv,
			int(SeverityInfo),
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
			"tmacl",
			sqlmock.AnyArg(),
			"check",
			sqlmock.AnyArg(),
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = store.Save(event)
	if err != nil {
		t.Errorf("Save() error = %v", err)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestStoreNilDB(t *testing.T) {
	store := &Store{}
	if err := store.Save(RefreshEvent{}); err != nil {
		t.Errorf("Save() with nil db should be a no-op, got %v", err)
	}
}
