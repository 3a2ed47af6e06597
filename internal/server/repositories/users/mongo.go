package users

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

// userDocument is the shape of a document in the users collection. Messages
// are embedded in the same document and managed by the messages package.
type userDocument struct {
	ID                  bson.ObjectID `bson:"_id,omitempty"`
	Username            string        `bson:"username"`
	Email               string        `bson:"email"`
	Password            string        `bson:"password"`
	DOB                 time.Time     `bson:"dob"`
	VerifyCode          string        `bson:"verifyCode"`
	VerifyCodeExpiry    time.Time     `bson:"verifyCodeExpiry"`
	IsVerified          bool          `bson:"isVerified"`
	IsAcceptingMessages bool          `bson:"isAcceptingMessages"`
	Messages            bson.A        `bson:"messages"`
	CreatedAt           time.Time     `bson:"createdAt"`
}

func (d *userDocument) toModel() *models.User {
	return &models.User{
		ID:                  d.ID.Hex(),
		Username:            d.Username,
		Email:               d.Email,
		Password:            d.Password,
		DOB:                 d.DOB,
		IsVerified:          d.IsVerified,
		VerifyCode:          d.VerifyCode,
		VerifyCodeExpiry:    d.VerifyCodeExpiry,
		IsAcceptingMessages: d.IsAcceptingMessages,
		CreatedAt:           d.CreatedAt,
	}
}

// withoutMessages keeps single-user reads small.
var withoutMessages = bson.D{{Key: "messages", Value: 0}}

type MongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) *MongoRepository {
	return &MongoRepository{coll: coll}
}

func (r *MongoRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	doc := userDocument{
		ID:                  bson.NewObjectID(),
		Username:            user.Username,
		Email:               user.Email,
		Password:            user.Password,
		DOB:                 user.DOB,
		VerifyCode:          user.VerifyCode,
		VerifyCodeExpiry:    user.VerifyCodeExpiry,
		IsVerified:          user.IsVerified,
		IsAcceptingMessages: user.IsAcceptingMessages,
		Messages:            bson.A{},
		CreatedAt:           time.Now().UTC(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	user.ID = doc.ID.Hex()
	user.CreatedAt = doc.CreatedAt
	return user, nil
}

func (r *MongoRepository) findOne(ctx context.Context, filter any) (*models.User, error) {
	var doc userDocument
	err := r.coll.FindOne(ctx, filter, options.FindOne().SetProjection(withoutMessages)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return doc.toModel(), nil
}

func (r *MongoRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, common.ErrInvalidID
	}
	return r.findOne(ctx, bson.D{{Key: "_id", Value: oid}})
}

func (r *MongoRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "username", Value: username}})
}

func (r *MongoRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}})
}

func (r *MongoRepository) GetByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, identifierFilter(identifier))
}

// identifierFilter matches either the e-mail or the username.
func identifierFilter(identifier string) bson.D {
	return bson.D{{Key: "$or", Value: bson.A{
		bson.D{{Key: "email", Value: identifier}},
		bson.D{{Key: "username", Value: identifier}},
	}}}
}

func (r *MongoRepository) UpdateRegistration(ctx context.Context, user *models.User) error {
	return r.updateByID(ctx, user.ID, bson.D{
		{Key: "password", Value: user.Password},
		{Key: "dob", Value: user.DOB},
		{Key: "verifyCode", Value: user.VerifyCode},
		{Key: "verifyCodeExpiry", Value: user.VerifyCodeExpiry},
	})
}

func (r *MongoRepository) MarkVerified(ctx context.Context, id string) error {
	return r.updateByID(ctx, id, bson.D{
		{Key: "isVerified", Value: true},
		{Key: "verifyCode", Value: ""},
	})
}

func (r *MongoRepository) SetAcceptingMessages(ctx context.Context, id string, accept bool) error {
	return r.updateByID(ctx, id, bson.D{{Key: "isAcceptingMessages", Value: accept}})
}

func (r *MongoRepository) updateByID(ctx context.Context, id string, set bson.D) error {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return common.ErrInvalidID
	}

	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: oid}}, bson.D{{Key: "$set", Value: set}})
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return updateOutcome(res)
}

// updateOutcome treats an unmatched id as missing. A match that changes
// nothing, such as re-setting the same flag, is still a success.
func updateOutcome(res *mongo.UpdateResult) error {
	if res == nil || res.MatchedCount == 0 {
		return common.ErrorNotFound
	}
	return nil
}

type publicDocument struct {
	ID                  bson.ObjectID `bson:"_id"`
	Username            string        `bson:"username"`
	IsVerified          bool          `bson:"isVerified"`
	IsAcceptingMessages bool          `bson:"isAcceptingMessages"`
	MessageCount        int           `bson:"messageCount"`
}

func (r *MongoRepository) ListPublic(ctx context.Context) ([]models.PublicUser, error) {
	cur, err := r.coll.Aggregate(ctx, publicPipeline())
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	var docs []publicDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	out := make([]models.PublicUser, 0, len(docs))
	for _, d := range docs {
		out = append(out, models.PublicUser{
			ID:                  d.ID.Hex(),
			Username:            d.Username,
			IsVerified:          d.IsVerified,
			IsAcceptingMessages: d.IsAcceptingMessages,
			MessageCount:        d.MessageCount,
		})
	}
	return out, nil
}

// publicPipeline projects the listing fields and counts messages without
// loading them.
func publicPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$project", Value: bson.D{
			{Key: "username", Value: 1},
			{Key: "isVerified", Value: 1},
			{Key: "isAcceptingMessages", Value: 1},
			{Key: "messageCount", Value: bson.D{{Key: "$size", Value: bson.D{
				{Key: "$ifNull", Value: bson.A{"$messages", bson.A{}}},
			}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "username", Value: 1}}}},
	}
}
