package mongo

import (
	"context"
	"errors"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const tokenCollectionName = "tokens"

// mongoAccessTokenRepository implements repository.AccessTokenRepository
type mongoAccessTokenRepository struct {
	collection *mongo.Collection
}

// NewMongoAccessTokenRepository creates a new AccessToken repository.
func NewMongoAccessTokenRepository(db *mongo.Database) repository.AccessTokenRepository {
	return &mongoAccessTokenRepository{
		collection: db.Collection(tokenCollectionName),
	}
}

// Create inserts a token record. Records are never updated afterwards.
func (r *mongoAccessTokenRepository) Create(ctx context.Context, token *domain.AccessToken) (primitive.ObjectID, error) {
	if token.Token == "" || token.RoutineID == primitive.NilObjectID || token.Day == "" {
		return primitive.NilObjectID, errors.New("token requires value, routineId and day")
	}
	token.ID = primitive.NewObjectID()
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}

	result, err := r.collection.InsertOne(ctx, token)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted token ID")
	}
	return insertedID, nil
}

// Find returns all tokens matching value, routine and day. Expiration is
// checked by the caller.
func (r *mongoAccessTokenRepository) Find(ctx context.Context, token string, routineID primitive.ObjectID, day domain.Weekday) ([]domain.AccessToken, error) {
	filter := bson.M{
		"token":     token,
		"routineId": routineID,
		"day":       day,
	}

	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tokens []domain.AccessToken
	if err = cursor.All(ctx, &tokens); err != nil {
		return nil, err
	}
	return tokens, nil
}

// DeleteExpiredBefore removes tokens that expired before cutoff.
func (r *mongoAccessTokenRepository) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"expirationDate": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureTokenIndexes creates necessary indexes. Call during startup.
func EnsureTokenIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "routineId", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "expirationDate", Value: 1}},
			Options: options.Index(),
		},
	}
	createIndexes(ctx, collection, indexes)
}
