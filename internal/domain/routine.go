// internal/domain/routine.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExerciseAssignment places one exercise on one weekday of a Routine. Its
// series/repetitions/weight are independent of the Exercise defaults.
type ExerciseAssignment struct {
	ExerciseID  primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // Muscle group at time of assignment
	Series      Count              `bson:"series" json:"series"`
	Repetitions Count              `bson:"repetitions" json:"repetitions"`
	Weight      string             `bson:"weight" json:"weight"` // Qualitative label, e.g., "Moderado"
}

// Routine is a weekly plan for one student. Assignment order inside a day is
// the order they were stored in and is the order they are displayed and sent.
type Routine struct {
	ID             primitive.ObjectID               `bson:"_id,omitempty" json:"id"`
	Name           string                           `bson:"name" json:"name"`
	TrainerID      *primitive.ObjectID              `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	StudentID      *primitive.ObjectID              `bson:"studentId,omitempty" json:"studentId,omitempty"`
	ExpirationDate time.Time                        `bson:"expirationDate" json:"expirationDate"`
	RoutineByDay   map[Weekday][]ExerciseAssignment `bson:"routineByDay" json:"routineByDay"`
	CreatedAt      time.Time                        `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time                        `bson:"updatedAt" json:"updatedAt"`
}

// Day returns the assignments stored for d (nil when the day is empty).
func (r *Routine) Day(d Weekday) []ExerciseAssignment {
	if r.RoutineByDay == nil {
		return nil
	}
	return r.RoutineByDay[d]
}

// DayPlan is one populated day of a routine.
type DayPlan struct {
	Day         Weekday
	Assignments []ExerciseAssignment
}

// OrderedDays walks RoutineByDay in the canonical Monday-first order and
// returns only the days that have at least one assignment. Keys that are not
// canonical weekdays are ignored.
func (r *Routine) OrderedDays() []DayPlan {
	var days []DayPlan
	for _, d := range Weekdays {
		if a := r.Day(d); len(a) > 0 {
			days = append(days, DayPlan{Day: d, Assignments: a})
		}
	}
	return days
}
