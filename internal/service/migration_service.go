package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// defaultMigratedName is used when no referenced routine carries a name.
const defaultMigratedName = "Rutina semanal"

// MigrationReport summarises one run of the legacy series migration.
type MigrationReport struct {
	Series           int // unmigrated series found
	Migrated         int // series converted into a routine
	Empty            int // series left alone because no day resolved
	SkippedDays      int // unknown day keys or missing routines
	SkippedExercises int // legacy exercises that could not be resolved to an id
}

func (r MigrationReport) String() string {
	return fmt.Sprintf("series=%d migrated=%d empty=%d skippedDays=%d skippedExercises=%d",
		r.Series, r.Migrated, r.Empty, r.SkippedDays, r.SkippedExercises)
}

// MigrationService converts legacy per-student RoutineSeries into routines
// with inline per-day assignments. Series are marked once converted, so
// running it again only picks up what is left.
type MigrationService interface {
	MigrateRoutineSeries(ctx context.Context, dryRun bool) (MigrationReport, error)
}

type migrationService struct {
	seriesRepo   repository.RoutineSeriesRepository
	routineRepo  repository.RoutineRepository
	exerciseRepo repository.ExerciseRepository
	now          func() time.Time
}

func NewMigrationService(seriesRepo repository.RoutineSeriesRepository, routineRepo repository.RoutineRepository, exerciseRepo repository.ExerciseRepository) MigrationService {
	return &migrationService{
		seriesRepo:   seriesRepo,
		routineRepo:  routineRepo,
		exerciseRepo: exerciseRepo,
		now:          time.Now,
	}
}

func (s *migrationService) MigrateRoutineSeries(ctx context.Context, dryRun bool) (MigrationReport, error) {
	var report MigrationReport

	pending, err := s.seriesRepo.ListUnmigrated(ctx)
	if err != nil {
		return report, fmt.Errorf("list routine series: %w", err)
	}
	report.Series = len(pending)

	for _, series := range pending {
		routine, err := s.buildRoutine(ctx, series, &report)
		if err != nil {
			return report, err
		}
		if len(routine.RoutineByDay) == 0 {
			log.Printf("WARN: Series %s has no resolvable days, left unmigrated", series.ID.Hex())
			report.Empty++
			continue
		}
		if dryRun {
			log.Printf("INFO: [dry run] series %s -> routine %q with %d days", series.ID.Hex(), routine.Name, len(routine.RoutineByDay))
			report.Migrated++
			continue
		}

		routineID, err := s.routineRepo.Create(ctx, routine)
		if err != nil {
			return report, fmt.Errorf("create routine for series %s: %w", series.ID.Hex(), err)
		}
		if err := s.seriesRepo.MarkMigrated(ctx, series.ID, routineID, s.now().UTC()); err != nil {
			// The routine exists; a rerun would create a second one for this series.
			return report, fmt.Errorf("mark series %s migrated to %s: %w", series.ID.Hex(), routineID.Hex(), err)
		}
		log.Printf("INFO: Migrated series %s to routine %s", series.ID.Hex(), routineID.Hex())
		report.Migrated++
	}
	return report, nil
}

// buildRoutine inlines the exercises of every routine the series points at.
// Days are visited in week order so the resulting name and owner are stable.
func (s *migrationService) buildRoutine(ctx context.Context, series domain.RoutineSeries, report *MigrationReport) (*domain.Routine, error) {
	studentID := series.StudentID
	routine := &domain.Routine{
		StudentID:    &studentID,
		RoutineByDay: map[domain.Weekday][]domain.ExerciseAssignment{},
	}

	byDay := make(map[domain.Weekday]string, len(series.Days))
	for key, ref := range series.Days {
		day, ok := domain.ParseWeekday(key)
		if !ok || ref == "" {
			log.Printf("WARN: Series %s: skipping day %q", series.ID.Hex(), key)
			report.SkippedDays++
			continue
		}
		byDay[day] = ref
	}

	for _, day := range domain.Weekdays {
		ref, ok := byDay[day]
		if !ok {
			continue
		}
		legacyID, err := primitive.ObjectIDFromHex(ref)
		if err != nil {
			log.Printf("WARN: Series %s: %s references bad routine id %q", series.ID.Hex(), day, ref)
			report.SkippedDays++
			continue
		}
		legacy, err := s.seriesRepo.GetLegacyRoutine(ctx, legacyID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				log.Printf("WARN: Series %s: %s references missing routine %s", series.ID.Hex(), day, ref)
				report.SkippedDays++
				continue
			}
			return nil, fmt.Errorf("load legacy routine %s: %w", ref, err)
		}

		if routine.Name == "" {
			routine.Name = legacy.Name
		}
		if routine.TrainerID == nil {
			routine.TrainerID = legacy.TrainerID
		}

		var assignments []domain.ExerciseAssignment
		for _, e := range legacy.Exercises {
			exerciseID, err := s.resolveExercise(ctx, e)
			if err != nil {
				return nil, err
			}
			if exerciseID == primitive.NilObjectID {
				log.Printf("WARN: Series %s: %s drops unresolvable exercise %q", series.ID.Hex(), day, e.Name)
				report.SkippedExercises++
				continue
			}
			assignments = append(assignments, domain.ExerciseAssignment{
				ExerciseID:  exerciseID,
				MuscleGroup: e.MuscleGroup,
				Series:      e.Sets,
				Repetitions: e.Reps,
				Weight:      e.Weight,
			})
		}
		if len(assignments) > 0 {
			routine.RoutineByDay[day] = assignments
		}
	}

	if routine.Name == "" {
		routine.Name = defaultMigratedName
	}
	return routine, nil
}

// resolveExercise prefers the stored id and falls back to an exact name match.
// NilObjectID means neither resolved.
func (s *migrationService) resolveExercise(ctx context.Context, e domain.LegacyRoutineExercise) (primitive.ObjectID, error) {
	if id, err := primitive.ObjectIDFromHex(e.ExerciseID); err == nil {
		return id, nil
	}
	if e.Name == "" {
		return primitive.NilObjectID, nil
	}
	exercise, err := s.exerciseRepo.GetByName(ctx, e.Name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return primitive.NilObjectID, nil
		}
		return primitive.NilObjectID, fmt.Errorf("look up exercise %q: %w", e.Name, err)
	}
	return exercise.ID, nil
}
