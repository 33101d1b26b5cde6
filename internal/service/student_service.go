package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrStudentNotFound = errors.New("student not found")

// StudentService manages gym members. Administrators see every student;
// trainers only the students assigned to them.
type StudentService interface {
	// CreateStudent stores input as a new student. For trainers the student is
	// always assigned to the caller; administrators may pick any trainer.
	CreateStudent(ctx context.Context, sess domain.Session, input domain.Student) (*domain.Student, error)
	ListStudents(ctx context.Context, sess domain.Session) ([]domain.Student, error)
	GetStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Student, error)
	UpdateStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID, input domain.Student) (*domain.Student, error)
	DeleteStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID) error
}

type studentService struct {
	studentRepo repository.StudentRepository
}

func NewStudentService(studentRepo repository.StudentRepository) StudentService {
	return &studentService{studentRepo: studentRepo}
}

func validateStudent(s *domain.Student) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Phone = strings.TrimSpace(s.Phone)
	if s.Name == "" || s.Phone == "" {
		return fmt.Errorf("%w: student name and phone are required", ErrValidationFailed)
	}
	return nil
}

// ownerFor decides the trainer a student written by sess belongs to.
func ownerFor(sess domain.Session, requested *primitive.ObjectID) *primitive.ObjectID {
	if sess.IsAdmin() {
		return requested
	}
	id := sess.UserID
	return &id
}

func (s *studentService) CreateStudent(ctx context.Context, sess domain.Session, input domain.Student) (*domain.Student, error) {
	student := input
	if err := validateStudent(&student); err != nil {
		return nil, err
	}
	student.ID = primitive.NilObjectID
	student.TrainerID = ownerFor(sess, input.TrainerID)

	id, err := s.studentRepo.Create(ctx, &student)
	if err != nil {
		return nil, err
	}
	student.ID = id
	return &student, nil
}

func (s *studentService) ListStudents(ctx context.Context, sess domain.Session) ([]domain.Student, error) {
	if sess.IsAdmin() {
		return s.studentRepo.List(ctx, nil)
	}
	trainerID := sess.UserID
	return s.studentRepo.List(ctx, &trainerID)
}

func (s *studentService) GetStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Student, error) {
	student, err := s.studentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	if !sess.CanManage(student.TrainerID) {
		return nil, ErrAccessDenied
	}
	return student, nil
}

func (s *studentService) UpdateStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID, input domain.Student) (*domain.Student, error) {
	existing, err := s.GetStudent(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	updated := input
	if err := validateStudent(&updated); err != nil {
		return nil, err
	}
	updated.ID = existing.ID
	updated.RegistrationDate = existing.RegistrationDate
	if sess.IsAdmin() {
		updated.TrainerID = input.TrainerID
	} else {
		updated.TrainerID = existing.TrainerID
	}

	if err := s.studentRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteStudent removes the student. Their routines stay but cannot be sent
// until reassigned.
func (s *studentService) DeleteStudent(ctx context.Context, sess domain.Session, id primitive.ObjectID) error {
	if _, err := s.GetStudent(ctx, sess, id); err != nil {
		return err
	}
	if err := s.studentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrStudentNotFound
		}
		return err
	}
	return nil
}
