package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func newDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func TestOpen_Memory(t *testing.T) {
	m, err := Open(context.Background(), "memory://", "")
	require.NoError(t, err)
	defer m.Close(context.Background())

	assert.IsType(t, &MemoryManager{}, m)
	assert.NoError(t, m.RunMigrations(context.Background()))
	assert.NotNil(t, m.Users())
	assert.NotNil(t, m.Messages())
}

func TestOpen_UnsupportedScheme(t *testing.T) {
	_, err := Open(context.Background(), "mysql://localhost/db", "")
	assert.ErrorContains(t, err, "unsupported database scheme")

	_, err = Open(context.Background(), "::bad", "")
	assert.Error(t, err)
}

func TestOpen_Postgres(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing()
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(driver, dsn string) (*sql.DB, error) {
		if driver != "pgx" || dsn != "postgres://u:p@localhost/mm" {
			return nil, errors.New("unexpected open args")
		}
		return db, nil
	}
	defer func() { sqlOpen = orig }()

	m, err := Open(context.Background(), "postgres://u:p@localhost/mm", "")
	require.NoError(t, err)
	assert.IsType(t, &PostgresManager{}, m)

	var _ users.Repository = m.Users()
	var _ messages.Repository = m.Messages()

	require.NoError(t, m.Close(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewPostgresManager_PingError(t *testing.T) {
	db, mock := newDB(t)
	mock.ExpectPing().WillReturnError(errors.New("refused"))
	mock.ExpectClose()

	orig := sqlOpen
	sqlOpen = func(string, string) (*sql.DB, error) { return db, nil }
	defer func() { sqlOpen = orig }()

	_, err := NewPostgresManager(context.Background(), "postgres://x")
	assert.ErrorContains(t, err, "db ping error")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_Success(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		if dir != "." {
			return errors.New("unexpected dir")
		}
		if len(opts) != 0 {
			return errors.New("unexpected opts")
		}
		return nil
	}
	defer func() { gooseUpContext = orig }()

	m := newPostgresManager(db)
	if err := m.RunMigrations(context.Background()); err != nil {
		t.Fatalf("RunMigrations error: %v", err)
	}
}

func TestRunMigrations_Error(t *testing.T) {
	db, _ := newDB(t)
	defer db.Close()

	orig := gooseUpContext
	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	defer func() { gooseUpContext = orig }()

	err := newPostgresManager(db).RunMigrations(context.Background())
	assert.ErrorContains(t, err, "migrations: boom")
}

func TestUserIndexes_Unique(t *testing.T) {
	idx := userIndexes()
	require.Len(t, idx, 2)
	assert.Equal(t, bson.D{{Key: "username", Value: 1}}, idx[0].Keys)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, idx[1].Keys)
	assert.NotNil(t, idx[0].Options)
	assert.NotNil(t, idx[1].Options)
}
