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
)

const routineSeriesCollectionName = "routine_series"

// mongoRoutineSeriesRepository implements repository.RoutineSeriesRepository.
// Legacy routines live in the same collection as current ones.
type mongoRoutineSeriesRepository struct {
	series   *mongo.Collection
	routines *mongo.Collection
}

// NewMongoRoutineSeriesRepository creates a repository over the legacy schedules.
func NewMongoRoutineSeriesRepository(db *mongo.Database) repository.RoutineSeriesRepository {
	return &mongoRoutineSeriesRepository{
		series:   db.Collection(routineSeriesCollectionName),
		routines: db.Collection(routineCollectionName),
	}
}

// ListUnmigrated returns series not yet converted into a routine.
func (r *mongoRoutineSeriesRepository) ListUnmigrated(ctx context.Context) ([]domain.RoutineSeries, error) {
	cursor, err := r.series.Find(ctx, bson.M{"migratedAt": bson.M{"$exists": false}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var series []domain.RoutineSeries
	if err = cursor.All(ctx, &series); err != nil {
		return nil, err
	}
	return series, nil
}

// GetLegacyRoutine loads a routine document in its old exercises-list shape.
func (r *mongoRoutineSeriesRepository) GetLegacyRoutine(ctx context.Context, id primitive.ObjectID) (*domain.LegacyRoutine, error) {
	var routine domain.LegacyRoutine
	err := r.routines.FindOne(ctx, bson.M{"_id": id}).Decode(&routine)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &routine, nil
}

// MarkMigrated records which routine replaced the series.
func (r *mongoRoutineSeriesRepository) MarkMigrated(ctx context.Context, seriesID, routineID primitive.ObjectID, at time.Time) error {
	update := bson.M{"$set": bson.M{"migratedAt": at, "migratedRoutineId": routineID}}
	result, err := r.series.UpdateOne(ctx, bson.M{"_id": seriesID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
