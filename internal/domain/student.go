package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Student is a gym member. Students do not log in; their phone number is the
// destination of routine messages.
type Student struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	Name      string              `bson:"name" json:"name"`
	IDNumber  string              `bson:"idNumber,omitempty" json:"idNumber,omitempty"`
	Phone     string              `bson:"phone" json:"phone"`
	Email     string              `bson:"email,omitempty" json:"email,omitempty"`
	BirthDate string              `bson:"dob,omitempty" json:"dob,omitempty"` // As entered, YYYY-MM-DD
	Plan      string              `bson:"plan,omitempty" json:"plan,omitempty"`
	Address   string              `bson:"address,omitempty" json:"address,omitempty"`
	Height    string              `bson:"height,omitempty" json:"height,omitempty"`
	Weight    string              `bson:"weight,omitempty" json:"weight,omitempty"`

	HealthInfo          string `bson:"healthInfo,omitempty" json:"healthInfo,omitempty"`
	TrainingStartDate   string `bson:"trainingStartDate,omitempty" json:"trainingStartDate,omitempty"`
	TrainingFrequency   string `bson:"trainingFrequency,omitempty" json:"trainingFrequency,omitempty"`
	TrainingHistory     string `bson:"trainingHistory,omitempty" json:"trainingHistory,omitempty"`
	PaymentMethod       string `bson:"paymentMethod,omitempty" json:"paymentMethod,omitempty"`
	PaymentStatus       string `bson:"paymentStatus,omitempty" json:"paymentStatus,omitempty"`
	RenewalDate         string `bson:"renewalDate,omitempty" json:"renewalDate,omitempty"`
	TrainerNotes        string `bson:"trainerNotes,omitempty" json:"trainerNotes,omitempty"`
	GoalsAndPreferences string `bson:"goalsAndPreferences,omitempty" json:"goalsAndPreferences,omitempty"`

	RegistrationDate time.Time `bson:"registrationDate" json:"registrationDate"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}
