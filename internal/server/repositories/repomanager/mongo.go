package repomanager

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/messages"
	"github.com/dmitrijs2005/mysterymessage/internal/server/repositories/users"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

// MongoManager shares one client pool between the users and messages
// repositories. Both work on the same collection: messages are embedded in
// the user document.
type MongoManager struct {
	client   *mongo.Client
	coll     *mongo.Collection
	users    *users.MongoRepository
	messages *messages.MongoRepository
}

// NewMongoManager connects and pings the primary.
func NewMongoManager(ctx context.Context, uri, dbName string) (*MongoManager, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("db connect error: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("db ping error: %w", err)
	}

	coll := client.Database(dbName).Collection(usersCollection)
	return &MongoManager{
		client:   client,
		coll:     coll,
		users:    users.NewMongoRepository(coll),
		messages: messages.NewMongoRepository(coll),
	}, nil
}

func (m *MongoManager) Users() users.Repository       { return m.users }
func (m *MongoManager) Messages() messages.Repository { return m.messages }

// RunMigrations creates the unique indexes on username and email.
func (m *MongoManager) RunMigrations(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateMany(ctx, userIndexes())
	if err != nil {
		return fmt.Errorf("create indexes: %w", err)
	}
	return nil
}

func userIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
}

func (m *MongoManager) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}
