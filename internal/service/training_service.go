package service

import (
	"context"
	"errors"
	"log"

	"gymdesk/routine-admin/internal/compose"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"
	"gymdesk/routine-admin/internal/timer"
	"gymdesk/routine-admin/internal/tokengate"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrLinkInvalid covers unknown, mismatched and expired timer links alike.
var ErrLinkInvalid = errors.New("timer link expired or invalid")

// TokenValidator checks a presented timer token. Implemented by tokengate.Gate.
type TokenValidator interface {
	Validate(ctx context.Context, token, routineID, day string) (bool, error)
}

// TrainingExercise is one numbered exercise on the public page.
type TrainingExercise struct {
	Position    int          `json:"position"`
	Available   bool         `json:"available"`
	Name        string       `json:"name"`
	Series      domain.Count `json:"series"`
	Repetitions domain.Count `json:"repetitions"`
	Weight      string       `json:"weight"`
	VideoLink   string       `json:"videoLink,omitempty"`
	Text        string       `json:"text"`
}

// TimerPreset is a selectable countdown length.
type TimerPreset struct {
	Label   string `json:"label"`
	Seconds int    `json:"seconds"`
}

// TrainingView is everything the public page shows for a valid link.
type TrainingView struct {
	RoutineName string             `json:"routineName"`
	StudentName string             `json:"studentName"`
	Day         domain.Weekday     `json:"day"`
	Exercises   []TrainingExercise `json:"exercises"`
	Text        string             `json:"text"`
	Presets     []TimerPreset      `json:"presets"`
}

// TrainingService serves the unauthenticated timer page.
type TrainingService interface {
	// View validates the link and returns the day. Any failure to validate
	// yields ErrLinkInvalid and no routine data.
	View(ctx context.Context, token, routineID, day string) (*TrainingView, error)
}

type trainingService struct {
	gate        TokenValidator
	routineRepo repository.RoutineRepository
	studentRepo repository.StudentRepository
	exercises   ExerciseService
}

func NewTrainingService(gate TokenValidator, routineRepo repository.RoutineRepository, studentRepo repository.StudentRepository, exercises ExerciseService) TrainingService {
	return &trainingService{
		gate:        gate,
		routineRepo: routineRepo,
		studentRepo: studentRepo,
		exercises:   exercises,
	}
}

func (s *trainingService) View(ctx context.Context, token, routineID, day string) (*TrainingView, error) {
	ok, err := s.gate.Validate(ctx, token, routineID, day)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrLinkInvalid
	}

	// The gate already accepted routineID as a valid hex id.
	rid, err := primitive.ObjectIDFromHex(routineID)
	if err != nil {
		return nil, ErrLinkInvalid
	}
	routine, err := s.routineRepo.GetByID(ctx, rid)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			log.Printf("INFO: Valid timer token for deleted routine %s", routineID)
			return nil, ErrLinkInvalid
		}
		return nil, err
	}

	studentName := ""
	if routine.StudentID != nil {
		student, err := s.studentRepo.GetByID(ctx, *routine.StudentID)
		switch {
		case err == nil:
			studentName = student.Name
		case errors.Is(err, repository.ErrNotFound):
			log.Printf("WARN: Routine %s points at missing student %s", routineID, routine.StudentID.Hex())
		default:
			return nil, err
		}
	}

	lookup, err := s.exercises.Lookup(ctx, tokengate.TokenLifetime)
	if err != nil {
		return nil, err
	}

	weekday := domain.Weekday(day)
	assignments := routine.Day(weekday)
	exercises := make([]TrainingExercise, len(assignments))
	for i, a := range assignments {
		r := lookup.Resolve(a.ExerciseID)
		exercises[i] = TrainingExercise{
			Position:    i + 1,
			Available:   r.Found,
			Name:        r.Info.Name,
			Series:      a.Series,
			Repetitions: a.Repetitions,
			Weight:      a.Weight,
			VideoLink:   r.Info.VideoLink,
			Text:        compose.FormatExercise(i+1, a, r),
		}
	}

	text := compose.FormatDay(assignments, lookup)
	if text == "" {
		text = compose.EmptyDayText
	}

	return &TrainingView{
		RoutineName: routine.Name,
		StudentName: studentName,
		Day:         weekday,
		Exercises:   exercises,
		Text:        text,
		Presets:     timerPresets(),
	}, nil
}

func timerPresets() []TimerPreset {
	presets := make([]TimerPreset, len(timer.Presets))
	for i, p := range timer.Presets {
		presets[i] = TimerPreset{Label: timer.FormatClock(p), Seconds: int(p.Seconds())}
	}
	return presets
}
