// Package compose turns a routine day into the text sent to a student.
// Everything here is a pure function of its inputs.
package compose

import (
	"fmt"
	"strings"

	"gymdesk/routine-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// UnavailableText replaces an exercise whose id no longer resolves.
	UnavailableText = "Ejercicio no disponible"
	// EmptyDayText is sent when a day has no assignments.
	EmptyDayText = "No hay ejercicios asignados para este día."
)

// ExerciseInfo is the part of an Exercise the composer needs.
type ExerciseInfo struct {
	Name      string
	VideoLink string
}

// Resolution is the result of looking up an assignment's exercise.
// Found is false when the exercise was deleted or never existed.
type Resolution struct {
	Info  ExerciseInfo
	Found bool
}

// Lookup maps exercise ids to their display data.
type Lookup map[primitive.ObjectID]ExerciseInfo

// Resolve never fails; a missing id yields a Resolution with Found == false.
func (l Lookup) Resolve(id primitive.ObjectID) Resolution {
	info, ok := l[id]
	return Resolution{Info: info, Found: ok}
}

// FormatExercise renders one numbered assignment block. position is 1-based.
func FormatExercise(position int, a domain.ExerciseAssignment, r Resolution) string {
	if !r.Found {
		return fmt.Sprintf("%d. %s", position, UnavailableText)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d. %s\n", position, r.Info.Name)
	fmt.Fprintf(&b, "%d series de %d repeticiones\n", a.Series, a.Repetitions)
	fmt.Fprintf(&b, "Peso: %s", a.Weight)
	if r.Info.VideoLink != "" {
		fmt.Fprintf(&b, "\nVer video: %s", r.Info.VideoLink)
	}
	return b.String()
}

// Blocks formats every assignment in stored order. The result always has one
// entry per assignment.
func Blocks(assignments []domain.ExerciseAssignment, lookup Lookup) []string {
	blocks := make([]string, len(assignments))
	for i, a := range assignments {
		blocks[i] = FormatExercise(i+1, a, lookup.Resolve(a.ExerciseID))
	}
	return blocks
}

// FormatDay joins the day's blocks with a blank line between them.
// An empty day yields "".
func FormatDay(assignments []domain.ExerciseAssignment, lookup Lookup) string {
	return strings.Join(Blocks(assignments, lookup), "\n\n")
}

// Message builds the full outbound text: greeting, student name, day label
// and the formatted day.
func Message(studentName, dayLabel, body string) string {
	if body == "" {
		body = EmptyDayText
	}
	return fmt.Sprintf("Hola %s, esta es tu rutina para el día %s:\n\n%s", studentName, dayLabel, body)
}

// WithTimerLink appends the public timer link to a composed message.
func WithTimerLink(message, timerURL string) string {
	if timerURL == "" {
		return message
	}
	return message + "\n\nTemporizador: " + timerURL
}

// Day composes the message for one day of a routine.
func Day(studentName string, day domain.Weekday, assignments []domain.ExerciseAssignment, lookup Lookup) string {
	return Message(studentName, day.String(), FormatDay(assignments, lookup))
}
