// internal/repository/mongo/routine_repo.go
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

const routineCollectionName = "routines"

// mongoRoutineRepository implements repository.RoutineRepository
type mongoRoutineRepository struct {
	collection *mongo.Collection
}

// NewMongoRoutineRepository creates a new Routine repository.
func NewMongoRoutineRepository(db *mongo.Database) repository.RoutineRepository {
	return &mongoRoutineRepository{
		collection: db.Collection(routineCollectionName),
	}
}

// Create inserts a new routine.
func (r *mongoRoutineRepository) Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	if routine.Name == "" {
		return primitive.NilObjectID, errors.New("routine name is required")
	}
	routine.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	routine.CreatedAt = now
	routine.UpdatedAt = now
	if routine.RoutineByDay == nil {
		routine.RoutineByDay = map[domain.Weekday][]domain.ExerciseAssignment{}
	}

	result, err := r.collection.InsertOne(ctx, routine)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted routine ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single routine by its ID.
func (r *mongoRoutineRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	var routine domain.Routine
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// GetByStudentID retrieves all routines of a student, newest first.
func (r *mongoRoutineRepository) GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Routine, error) {
	return r.find(ctx, bson.M{"studentId": studentID})
}

// GetByTrainerID retrieves all routines owned by a trainer, newest first.
func (r *mongoRoutineRepository) GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Routine, error) {
	return r.find(ctx, bson.M{"trainerId": trainerID})
}

// List retrieves every routine that uses the routineByDay shape.
func (r *mongoRoutineRepository) List(ctx context.Context) ([]domain.Routine, error) {
	return r.find(ctx, bson.M{})
}

// ListExpiringFrom lists routines still in force at from, the soonest to
// expire first.
func (r *mongoRoutineRepository) ListExpiringFrom(ctx context.Context, trainerID *primitive.ObjectID, from time.Time, limit int64) ([]domain.Routine, error) {
	filter := bson.M{"expirationDate": bson.M{"$gte": from}}
	if trainerID != nil {
		filter["trainerId"] = *trainerID
	}
	findOptions := options.Find().
		SetSort(bson.D{{Key: "expirationDate", Value: 1}}).
		SetLimit(limit)
	return r.findWith(ctx, filter, findOptions)
}

func (r *mongoRoutineRepository) find(ctx context.Context, filter bson.M) ([]domain.Routine, error) {
	return r.findWith(ctx, filter, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *mongoRoutineRepository) findWith(ctx context.Context, filter bson.M, findOptions *options.FindOptions) ([]domain.Routine, error) {
	// Legacy documents (exercises list, no routineByDay) are left to the migration.
	filter["routineByDay"] = bson.M{"$exists": true}

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var routines []domain.Routine
	if err = cursor.All(ctx, &routines); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return routines, nil
}

// Update overwrites name, owner, student, expiration and routineByDay.
// No version check: concurrent edits are last-write-wins.
func (r *mongoRoutineRepository) Update(ctx context.Context, routine *domain.Routine) error {
	if routine.ID == primitive.NilObjectID {
		return errors.New("routine ID is required for update")
	}

	routine.UpdatedAt = time.Now().UTC()
	updateDoc := bson.M{
		"$set": bson.M{
			"name":           routine.Name,
			"trainerId":      routine.TrainerID,
			"studentId":      routine.StudentID,
			"expirationDate": routine.ExpirationDate,
			"routineByDay":   routine.RoutineByDay,
			"updatedAt":      routine.UpdatedAt,
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": routine.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a routine. Tokens issued for it simply stop resolving.
func (r *mongoRoutineRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureRoutineIndexes creates necessary indexes. Call during startup.
func EnsureRoutineIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "studentId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "trainerId", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "expirationDate", Value: 1}},
			Options: options.Index(),
		},
	}
	createIndexes(ctx, collection, indexes)
}
