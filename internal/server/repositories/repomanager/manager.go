// Package repomanager owns the store connection. A Manager is opened once at
// start-up, prepares the schema, vends repositories and is closed on shutdown.
package repomanager

import (
	"context"
	"fmt"
	"net/url"

	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
)

type Manager interface {
	// RunMigrations brings the schema up to date (tables or indexes).
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Messages() messages.Repository
	Close(ctx context.Context) error
}

// Open picks a backend by the URI scheme and connects to it.
//
//	mongodb://, mongodb+srv://  MongoDB, database named by dbName
//	postgres://, postgresql://  PostgreSQL via pgx
//	memory://                   process-local store
func Open(ctx context.Context, uri, dbName string) (Manager, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, fmt.Errorf("parse database uri: %w", err)
	}

	switch u.Scheme {
	case "mongodb", "mongodb+srv":
		return NewMongoManager(ctx, uri, dbName)
	case "postgres", "postgresql":
		return NewPostgresManager(ctx, uri)
	case "memory":
		return NewMemoryManager(), nil
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", u.Scheme)
	}
}
