package repository

import (
	"context"
	"gymdesk/routine-admin/internal/domain"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate key")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with staff accounts.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	List(ctx context.Context, role domain.Role) ([]domain.User, error) // Empty role lists everyone
	Count(ctx context.Context) (int64, error)
	// ClaimBootstrap atomically reserves the right to create the first
	// administrator. A second claim returns ErrDuplicate.
	ClaimBootstrap(ctx context.Context) error
	ReleaseBootstrap(ctx context.Context) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// StudentRepository defines the interface for interacting with student data.
type StudentRepository interface {
	Create(ctx context.Context, student *domain.Student) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Student, error)
	List(ctx context.Context, trainerID *primitive.ObjectID) ([]domain.Student, error) // Nil trainerID lists all
	// ListLatest returns up to limit students, most recently registered first.
	ListLatest(ctx context.Context, trainerID *primitive.ObjectID, limit int64) ([]domain.Student, error)
	Update(ctx context.Context, student *domain.Student) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	List(ctx context.Context) ([]domain.Exercise, error) // Whole collection, used for lookup tables
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// RoutineRepository defines the interface for interacting with routine data.
type RoutineRepository interface {
	Create(ctx context.Context, routine *domain.Routine) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Routine, error)
	GetByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]domain.Routine, error)
	GetByTrainerID(ctx context.Context, trainerID primitive.ObjectID) ([]domain.Routine, error)
	List(ctx context.Context) ([]domain.Routine, error)
	// ListExpiringFrom returns up to limit routines whose expiration is at or
	// after from, soonest first. Nil trainerID covers every trainer.
	ListExpiringFrom(ctx context.Context, trainerID *primitive.ObjectID, from time.Time, limit int64) ([]domain.Routine, error)
	Update(ctx context.Context, routine *domain.Routine) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// AccessTokenRepository stores timer access tokens. There is no update.
type AccessTokenRepository interface {
	Create(ctx context.Context, token *domain.AccessToken) (primitive.ObjectID, error)
	// Find returns every record matching all three of token value, routine and day.
	Find(ctx context.Context, token string, routineID primitive.ObjectID, day domain.Weekday) ([]domain.AccessToken, error)
	// DeleteExpiredBefore removes tokens whose expiration is before cutoff and
	// returns how many were removed.
	DeleteExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// RoutineSeriesRepository reads the legacy day -> routine id schedules.
type RoutineSeriesRepository interface {
	ListUnmigrated(ctx context.Context) ([]domain.RoutineSeries, error)
	GetLegacyRoutine(ctx context.Context, id primitive.ObjectID) (*domain.LegacyRoutine, error)
	MarkMigrated(ctx context.Context, seriesID, routineID primitive.ObjectID, at time.Time) error
}
