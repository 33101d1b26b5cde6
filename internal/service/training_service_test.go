package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/routine-admin/internal/cache"
	"gymdesk/routine-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newTrainingFixture(valid bool, validateErr error) (TrainingService, *routineFixture) {
	f := newRoutineFixture()
	exercises := NewExerciseService(&stubExerciseRepo{exercises: []domain.Exercise{f.squat}}, cache.New(time.Minute), &stubStorage{})
	svc := NewTrainingService(stubValidator{valid: valid, err: validateErr}, f.routines, f.students, exercises)
	return svc, f
}

func TestTrainingViewValidLink(t *testing.T) {
	svc, f := newTrainingFixture(true, nil)

	view, err := svc.View(context.Background(), "tok", f.routine.ID.Hex(), "Martes")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.StudentName != "Ana" || view.Day != domain.Martes {
		t.Errorf("view = %+v", view)
	}
	if len(view.Exercises) != 1 || view.Exercises[0].Name != "Sentadilla" || !view.Exercises[0].Available {
		t.Fatalf("exercises = %+v", view.Exercises)
	}
	if view.Text != "1. Sentadilla\n4 series de 10 repeticiones\nPeso: Moderado" {
		t.Errorf("text = %q", view.Text)
	}
	if len(view.Presets) != 4 || view.Presets[0].Label != "1:00" || view.Presets[3].Seconds != 240 {
		t.Errorf("presets = %+v", view.Presets)
	}
}

func TestTrainingViewRejectsWithoutData(t *testing.T) {
	svc, f := newTrainingFixture(false, nil)

	view, err := svc.View(context.Background(), "tok", f.routine.ID.Hex(), "Martes")
	if !errors.Is(err, ErrLinkInvalid) {
		t.Errorf("err = %v, want ErrLinkInvalid", err)
	}
	if view != nil {
		t.Error("an invalid link must not return routine data")
	}
}

func TestTrainingViewStoreFailure(t *testing.T) {
	svc, f := newTrainingFixture(false, errStore)
	view, err := svc.View(context.Background(), "tok", f.routine.ID.Hex(), "Martes")
	if !errors.Is(err, errStore) || view != nil {
		t.Errorf("view = %v, err = %v", view, err)
	}
}

func TestTrainingViewDeletedRoutine(t *testing.T) {
	svc, _ := newTrainingFixture(true, nil)
	_, err := svc.View(context.Background(), "tok", primitive.NewObjectID().Hex(), "Martes")
	if !errors.Is(err, ErrLinkInvalid) {
		t.Errorf("err = %v, want ErrLinkInvalid", err)
	}
}

func TestTrainingViewMissingStudentStillRenders(t *testing.T) {
	svc, f := newTrainingFixture(true, nil)
	delete(f.students.students, f.student.ID)

	view, err := svc.View(context.Background(), "tok", f.routine.ID.Hex(), "Martes")
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if view.StudentName != "" || len(view.Exercises) != 1 {
		t.Errorf("view = %+v", view)
	}
}
