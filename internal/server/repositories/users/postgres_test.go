package users

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

const (
	insertUserQ = `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password,.*\)\s*VALUES\s*\(\$1,.*\$8\)\s*RETURNING\s+id,\s*created_at\s*$`
	selectUserQ = `(?s)^SELECT\s+id,\s*username,\s*email,.*\s+FROM\s+users\s+WHERE\s+`
)

var userRowColumns = []string{"id", "username", "email", "password", "dob", "is_verified",
	"verify_code", "verify_code_expiry", "is_accepting_messages", "created_at"}

const testUserID = "0b7f1a6e-2b1c-4d8e-9f00-1a2b3c4d5e6f"

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	dob := time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)

	mock.ExpectQuery(insertUserQ).
		WithArgs("alice", "alice@example.com", "hash", dob, false, "123456", exp, true).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(testUserID, now))

	u := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", DOB: dob,
		VerifyCode: "123456", VerifyCodeExpiry: exp, IsAcceptingMessages: true}
	got, err := repo.Create(context.Background(), u)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if got.ID != testUserID || !got.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCreate_Duplicate(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertUserQ).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	_, err := repo.Create(context.Background(), &models.User{Username: "alice", Email: "alice@example.com"})
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("want common.ErrorAlreadyExists, got %v", err)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(insertUserQ).WillReturnError(errors.New("db down"))

	_, err := repo.Create(context.Background(), &models.User{Username: "alice"})
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByIdentifier_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(userRowColumns).
		AddRow(testUserID, "alice", "alice@example.com", "hash", now, true, "", now, true, now)
	mock.ExpectQuery(selectUserQ + `email\s*=\s*\$1\s+OR\s+username\s*=\s*\$1`).
		WithArgs("alice").
		WillReturnRows(rows)

	got, err := repo.GetByIdentifier(context.Background(), "alice")
	if err != nil {
		t.Fatalf("GetByIdentifier error: %v", err)
	}
	if got.ID != testUserID || got.Email != "alice@example.com" || !got.IsVerified {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByUsername_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectUserQ + `username\s*=\s*\$1`).
		WithArgs("ghost").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByUsername(context.Background(), "ghost")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestGetByEmail_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(selectUserQ + `email\s*=\s*\$1`).
		WithArgs("a@b.c").
		WillReturnError(errors.New("db err"))

	_, err := repo.GetByEmail(context.Background(), "a@b.c")
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGetByID_InvalidID(t *testing.T) {
	repo, _, db := newRepoWithMock(t)
	defer db.Close()

	_, err := repo.GetByID(context.Background(), "not-a-uuid")
	if !errors.Is(err, common.ErrInvalidID) {
		t.Fatalf("want common.ErrInvalidID, got %v", err)
	}
}

func TestSetAcceptingMessages(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+is_accepting_messages\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s*$`

	mock.ExpectExec(q).WithArgs(testUserID, false).WillReturnResult(sqlmock.NewResult(0, 1))
	if err := repo.SetAcceptingMessages(context.Background(), testUserID, false); err != nil {
		t.Fatalf("SetAcceptingMessages error: %v", err)
	}

	mock.ExpectExec(q).WithArgs(testUserID, true).WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.SetAcceptingMessages(context.Background(), testUserID, true)
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("want common.ErrorNotFound, got %v", err)
	}
}

func TestMarkVerified(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+is_verified\s*=\s*TRUE,\s*verify_code\s*=\s*''\s+WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WithArgs(testUserID).WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.MarkVerified(context.Background(), testUserID); err != nil {
		t.Fatalf("MarkVerified error: %v", err)
	}
}

func TestUpdateRegistration_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+password\s*=\s*\$2,.*WHERE\s+id\s*=\s*\$1\s*$`
	mock.ExpectExec(q).WillReturnError(errors.New("db err"))

	err := repo.UpdateRegistration(context.Background(), &models.User{ID: testUserID})
	if err == nil || !regexp.MustCompile(`db error: .*db err`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestListPublic(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+u\.id,\s*u\.username,.*COUNT\(m\.id\)\s+FROM\s+users\s+u\s+LEFT\s+JOIN\s+messages\s+m`
	rows := sqlmock.NewRows([]string{"id", "username", "is_verified", "is_accepting_messages", "count"}).
		AddRow("u-1", "alice", true, true, 2).
		AddRow("u-2", "bob", false, false, 0)
	mock.ExpectQuery(q).WillReturnRows(rows)

	got, err := repo.ListPublic(context.Background())
	if err != nil {
		t.Fatalf("ListPublic error: %v", err)
	}
	want := []models.PublicUser{
		{ID: "u-1", Username: "alice", IsVerified: true, IsAcceptingMessages: true, MessageCount: 2},
		{ID: "u-2", Username: "bob"},
	}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("unexpected users: %+v", got)
	}
}
