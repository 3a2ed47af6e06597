package server

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/server/config"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackingManager struct {
	*repomanager.MemoryManager
	migrateErr error
	closed     bool
}

func (m *trackingManager) RunMigrations(context.Context) error { return m.migrateErr }

func (m *trackingManager) Close(context.Context) error {
	m.closed = true
	return nil
}

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.DatabaseURI = "memory://"
	c.EndpointAddrHTTP = "127.0.0.1:0"
	c.LogLevel = "error"
	c.ShutdownTimeout = time.Second
	return c
}

func stubManager(t *testing.T, m repomanager.Manager, err error) {
	t.Helper()
	orig := openManager
	openManager = func(context.Context, string, string) (repomanager.Manager, error) { return m, err }
	t.Cleanup(func() { openManager = orig })
}

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := logOutput
	logOutput = &buf
	t.Cleanup(func() { logOutput = orig })
	return &buf
}

func TestNewApp_WarnsOnDefaultSecretWithPersistentStore(t *testing.T) {
	stubManager(t, repomanager.NewMemoryManager(), nil)
	logs := captureLogs(t)

	c := testConfig()
	c.LogLevel = "warn"
	c.DatabaseURI = "mongodb://user:pw@db.internal:27017"
	_, err := NewApp(context.Background(), c)
	require.NoError(t, err)
	assert.Contains(t, logs.String(), "default secret key in use")
	assert.Contains(t, logs.String(), `"database_uri_scheme":"mongodb"`)
	assert.NotContains(t, logs.String(), "pw@")
}

func TestNewApp_NoSecretWarning(t *testing.T) {
	tests := []struct {
		name   string
		uri    string
		secret string
	}{
		{"memory store", "memory://", config.DefaultSecretKey},
		{"custom secret", "postgres://db.internal/mm", "s3cr3t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubManager(t, repomanager.NewMemoryManager(), nil)
			logs := captureLogs(t)

			c := testConfig()
			c.LogLevel = "warn"
			c.DatabaseURI = tt.uri
			c.SecretKey = tt.secret
			_, err := NewApp(context.Background(), c)
			require.NoError(t, err)
			assert.NotContains(t, logs.String(), "default secret key")
		})
	}
}

func TestNewApp_OpenError(t *testing.T) {
	stubManager(t, nil, errors.New("no route to host"))

	_, err := NewApp(context.Background(), testConfig())
	assert.ErrorContains(t, err, "db init error")
}

func TestNewApp_MigrationErrorClosesStore(t *testing.T) {
	m := &trackingManager{MemoryManager: repomanager.NewMemoryManager(), migrateErr: errors.New("bad sql")}
	stubManager(t, m, nil)

	_, err := NewApp(context.Background(), testConfig())
	assert.ErrorContains(t, err, "db migration error")
	assert.True(t, m.closed)
}

func TestApp_RunStopsOnCancelAndClosesStore(t *testing.T) {
	m := &trackingManager{MemoryManager: repomanager.NewMemoryManager()}
	stubManager(t, m, nil)

	app, err := NewApp(context.Background(), testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		app.Run(ctx)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("app did not stop")
	}
	assert.True(t, m.closed)
}
