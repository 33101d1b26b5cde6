package service

import (
	"context"
	"errors"
	"testing"

	"gymdesk/routine-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestStudentOwnership(t *testing.T) {
	trainerA := primitive.NewObjectID()
	trainerB := primitive.NewObjectID()
	other := domain.Student{ID: primitive.NewObjectID(), Name: "Otro", Phone: "1", TrainerID: oid(trainerB)}
	repo := newStubStudentRepo(other)
	svc := NewStudentService(repo)

	sessA := domain.Session{UserID: trainerA, Role: domain.RoleTrainer}
	admin := domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	// A trainer cannot hand a new student to someone else.
	created, err := svc.CreateStudent(context.Background(), sessA, domain.Student{Name: " Ana ", Phone: "+54 9 11", TrainerID: oid(trainerB)})
	if err != nil {
		t.Fatalf("CreateStudent: %v", err)
	}
	if created.TrainerID == nil || *created.TrainerID != trainerA {
		t.Errorf("trainer = %v, want %s", created.TrainerID, trainerA.Hex())
	}
	if created.Name != "Ana" {
		t.Errorf("name = %q, want trimmed", created.Name)
	}

	list, err := svc.ListStudents(context.Background(), sessA)
	if err != nil {
		t.Fatalf("ListStudents: %v", err)
	}
	if len(list) != 1 || list[0].ID != created.ID {
		t.Errorf("trainer sees %+v", list)
	}
	if repo.lastList == nil || *repo.lastList != trainerA {
		t.Errorf("list filter = %v", repo.lastList)
	}

	if _, err := svc.GetStudent(context.Background(), sessA, other.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign get err = %v, want ErrAccessDenied", err)
	}
	if err := svc.DeleteStudent(context.Background(), sessA, other.ID); !errors.Is(err, ErrAccessDenied) {
		t.Errorf("foreign delete err = %v, want ErrAccessDenied", err)
	}

	all, err := svc.ListStudents(context.Background(), admin)
	if err != nil || len(all) != 2 {
		t.Errorf("admin list = %d students, err %v", len(all), err)
	}

	// Admin reassigns the student.
	moved, err := svc.UpdateStudent(context.Background(), admin, created.ID, domain.Student{Name: "Ana", Phone: "2", TrainerID: oid(trainerB)})
	if err != nil {
		t.Fatalf("UpdateStudent: %v", err)
	}
	if *moved.TrainerID != trainerB || !moved.RegistrationDate.Equal(created.RegistrationDate) {
		t.Errorf("moved = %+v", moved)
	}
}

func TestStudentValidation(t *testing.T) {
	svc := NewStudentService(newStubStudentRepo())
	sess := domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleTrainer}
	if _, err := svc.CreateStudent(context.Background(), sess, domain.Student{Name: "Ana"}); !errors.Is(err, ErrValidationFailed) {
		t.Errorf("err = %v, want ErrValidationFailed", err)
	}
	if _, err := svc.GetStudent(context.Background(), sess, primitive.NewObjectID()); !errors.Is(err, ErrStudentNotFound) {
		t.Errorf("err = %v, want ErrStudentNotFound", err)
	}
}
