package service

import (
	"context"
	"errors"
	"log"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DashboardListSize is how many entries each dashboard list shows.
const DashboardListSize = 5

// ExpiringRoutine is a routine still in force, with the student it is for.
type ExpiringRoutine struct {
	RoutineID       primitive.ObjectID  `json:"routineId"`
	Name            string              `json:"name"`
	StudentID       *primitive.ObjectID `json:"studentId,omitempty"`
	StudentName     string              `json:"studentName"`
	StudentIDNumber string              `json:"studentIdNumber,omitempty"`
	ExpirationDate  time.Time           `json:"expirationDate"`
}

// Dashboard is the staff landing summary.
type Dashboard struct {
	LatestStudents   []domain.Student  `json:"latestStudents"`
	ExpiringRoutines []ExpiringRoutine `json:"expiringRoutines"`
}

type DashboardService interface {
	// Summary lists the newest students and the routines expiring soonest
	// that have not expired yet. Trainers only see their own records.
	Summary(ctx context.Context, sess domain.Session) (*Dashboard, error)
}

type dashboardService struct {
	studentRepo repository.StudentRepository
	routineRepo repository.RoutineRepository
	now         func() time.Time
}

func NewDashboardService(studentRepo repository.StudentRepository, routineRepo repository.RoutineRepository) DashboardService {
	return &dashboardService{
		studentRepo: studentRepo,
		routineRepo: routineRepo,
		now:         time.Now,
	}
}

func (s *dashboardService) Summary(ctx context.Context, sess domain.Session) (*Dashboard, error) {
	var trainerID *primitive.ObjectID
	if !sess.IsAdmin() {
		id := sess.UserID
		trainerID = &id
	}

	students, err := s.studentRepo.ListLatest(ctx, trainerID, DashboardListSize)
	if err != nil {
		log.Printf("ERROR: Failed to list latest students: %v", err)
		return nil, err
	}
	routines, err := s.routineRepo.ListExpiringFrom(ctx, trainerID, s.now(), DashboardListSize)
	if err != nil {
		log.Printf("ERROR: Failed to list expiring routines: %v", err)
		return nil, err
	}

	dash := &Dashboard{
		LatestStudents:   make([]domain.Student, 0, len(students)),
		ExpiringRoutines: make([]ExpiringRoutine, 0, len(routines)),
	}
	dash.LatestStudents = append(dash.LatestStudents, students...)

	for _, r := range routines {
		entry := ExpiringRoutine{
			RoutineID:      r.ID,
			Name:           r.Name,
			StudentID:      r.StudentID,
			ExpirationDate: r.ExpirationDate,
		}
		if r.StudentID != nil {
			student, err := s.studentRepo.GetByID(ctx, *r.StudentID)
			switch {
			case err == nil:
				entry.StudentName = student.Name
				entry.StudentIDNumber = student.IDNumber
			case errors.Is(err, repository.ErrNotFound):
				// Student deleted; the routine is still listed.
			default:
				return nil, err
			}
		}
		dash.ExpiringRoutines = append(dash.ExpiringRoutines, entry)
	}
	return dash, nil
}
