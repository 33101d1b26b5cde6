package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RoutineSeries is the legacy per-student schedule mapping a weekday to a
// routine id. It is superseded by Routine.RoutineByDay and only read by the
// migration.
type RoutineSeries struct {
	ID                primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	StudentID         primitive.ObjectID  `bson:"studentId" json:"studentId"`
	Days              map[string]string   `bson:"days" json:"days"` // Raw day key -> routine id hex
	MigratedAt        *time.Time          `bson:"migratedAt,omitempty" json:"migratedAt,omitempty"`
	MigratedRoutineID *primitive.ObjectID `bson:"migratedRoutineId,omitempty" json:"migratedRoutineId,omitempty"`
}

// LegacyRoutineExercise is the exercise shape stored in routines written
// before routineByDay existed.
type LegacyRoutineExercise struct {
	ExerciseID  string `bson:"exerciseId,omitempty"`
	Name        string `bson:"name,omitempty"`
	MuscleGroup string `bson:"muscleGroup,omitempty"`
	Sets        Count  `bson:"sets,omitempty"`
	Reps        Count  `bson:"reps,omitempty"`
	Weight      string `bson:"weight,omitempty"`
}

// LegacyRoutine is a routine document referenced by a RoutineSeries.
type LegacyRoutine struct {
	ID        primitive.ObjectID      `bson:"_id"`
	Name      string                  `bson:"name"`
	TrainerID *primitive.ObjectID     `bson:"trainerId,omitempty"`
	Exercises []LegacyRoutineExercise `bson:"exercises"`
}
