package messages

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/mysterymessage/internal/common"
	"github.com/dmitrijs2005/mysterymessage/internal/server/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// messageDocument is one element of the embedded users.messages array.
type messageDocument struct {
	ID        bson.ObjectID `bson:"_id"`
	Content   string        `bson:"content"`
	CreatedAt time.Time     `bson:"createdAt"`
}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Add(ctx context.Context, username string, msg *models.Message) (*models.Message, error) {
	doc := messageDocument{ID: bson.NewObjectID(), Content: msg.Content, CreatedAt: msg.CreatedAt}

	res, err := r.coll.UpdateOne(ctx, addFilter(username), addUpdate(doc))
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if res.MatchedCount == 0 {
		// Tell a missing user apart from one that turned messages off.
		err := r.coll.FindOne(ctx, bson.D{{Key: "username", Value: username}},
			options.FindOne().SetProjection(bson.D{{Key: "_id", Value: 1}})).Err()
		return nil, addMissOutcome(err)
	}

	msg.ID = doc.ID.Hex()
	return msg, nil
}

func (r *MongoRepository) ListByUser(ctx context.Context, userID string) ([]models.Message, error) {
	oid, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return nil, common.ErrInvalidID
	}

	var doc struct {
		Messages []messageDocument `bson:"messages"`
	}
	err = r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}},
		options.FindOne().SetProjection(bson.D{{Key: "messages", Value: 1}})).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := make([]models.Message, 0, len(doc.Messages))
	for _, m := range doc.Messages {
		out = append(out, models.Message{ID: m.ID.Hex(), Content: m.Content, CreatedAt: m.CreatedAt})
	}
	return out, nil
}

func (r *MongoRepository) Delete(ctx context.Context, userID, messageID string) error {
	owner, err := bson.ObjectIDFromHex(userID)
	if err != nil {
		return common.ErrInvalidID
	}
	mid, err := bson.ObjectIDFromHex(messageID)
	if err != nil {
		return common.ErrInvalidID
	}

	res, err := r.coll.UpdateOne(ctx, deleteFilter(owner, mid), deleteUpdate(mid))
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return deleteOutcome(res)
}

// addFilter only matches a recipient that currently accepts messages, so the
// check and the push happen in one atomic update.
func addFilter(username string) bson.D {
	return bson.D{
		{Key: "username", Value: username},
		{Key: "isAcceptingMessages", Value: true},
	}
}

// addMissOutcome classifies an unmatched add using the result of a plain
// username lookup.
func addMissOutcome(lookupErr error) error {
	switch {
	case errors.Is(lookupErr, mongo.ErrNoDocuments):
		return common.ErrorNotFound
	case lookupErr != nil:
		return fmt.Errorf("db error: %w", lookupErr)
	default:
		return common.ErrNotAcceptingMessages
	}
}

func addUpdate(doc messageDocument) bson.D {
	return bson.D{{Key: "$push", Value: bson.D{{Key: "messages", Value: doc}}}}
}

// deleteFilter scopes the message id to its owner's document.
func deleteFilter(owner, mid bson.ObjectID) bson.D {
	return bson.D{
		{Key: "_id", Value: owner},
		{Key: "messages._id", Value: mid},
	}
}

func deleteUpdate(mid bson.ObjectID) bson.D {
	return bson.D{{Key: "$pull", Value: bson.D{
		{Key: "messages", Value: bson.D{{Key: "_id", Value: mid}}},
	}}}
}

func deleteOutcome(res *mongo.UpdateResult) error {
	if res == nil || res.ModifiedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}
