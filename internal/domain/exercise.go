// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in the gym library.
type Exercise struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID   *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"` // Nil for exercises shared by the gym
	Name        string              `bson:"name" json:"name"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"` // Markdown allowed
	MuscleGroup string              `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Piernas", "Pecho"
	Difficulty  string              `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g., "Principiante", "Avanzado"
	WeightLabel string              `bson:"weight,omitempty" json:"weight,omitempty"`           // Default qualitative weight, e.g., "Moderado"

	// VideoLink is an external demonstration link (YouTube etc).
	VideoLink string `bson:"videoLink,omitempty" json:"videoLink,omitempty"`
	// VideoObjectKey points to a demonstration video uploaded to object storage.
	// Only used when VideoLink is empty.
	VideoObjectKey string `bson:"videoObjectKey,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// OwnedBy reports whether the exercise belongs to the given trainer.
func (e *Exercise) OwnedBy(trainerID primitive.ObjectID) bool {
	return e.TrainerID != nil && *e.TrainerID == trainerID
}
