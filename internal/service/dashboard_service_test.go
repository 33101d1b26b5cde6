package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"gymdesk/routine-admin/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDashboardSummary(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	trainer := primitive.NewObjectID()
	other := primitive.NewObjectID()

	var students []domain.Student
	for i := 0; i < 7; i++ {
		students = append(students, domain.Student{
			ID:               primitive.NewObjectID(),
			Name:             fmt.Sprintf("Alumno %d", i),
			IDNumber:         fmt.Sprintf("CI-%d", i),
			TrainerID:        oid(trainer),
			RegistrationDate: now.AddDate(0, 0, -i),
		})
	}
	foreignStudent := domain.Student{ID: primitive.NewObjectID(), Name: "Ajeno", TrainerID: oid(other), RegistrationDate: now}
	students = append(students, foreignStudent)

	routine := func(name string, owner primitive.ObjectID, student *primitive.ObjectID, expires time.Time) domain.Routine {
		return domain.Routine{ID: primitive.NewObjectID(), Name: name, TrainerID: oid(owner), StudentID: student, ExpirationDate: expires}
	}
	routines := []domain.Routine{
		routine("vencida", trainer, oid(students[0].ID), now.Add(-time.Hour)),
		routine("tercera", trainer, oid(students[2].ID), now.AddDate(0, 0, 3)),
		routine("primera", trainer, oid(students[1].ID), now),
		routine("segunda", trainer, oid(primitive.NewObjectID()), now.AddDate(0, 0, 1)),
		routine("ajena", other, oid(foreignStudent.ID), now.Add(time.Minute)),
	}

	svc := NewDashboardService(newStubStudentRepo(students...), newStubRoutineRepo(routines...)).(*dashboardService)
	svc.now = func() time.Time { return now }

	dash, err := svc.Summary(context.Background(), domain.Session{UserID: trainer, Role: domain.RoleTrainer})
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}

	if len(dash.LatestStudents) != DashboardListSize {
		t.Fatalf("latest students = %d, want %d", len(dash.LatestStudents), DashboardListSize)
	}
	for i, s := range dash.LatestStudents {
		if s.ID != students[i].ID {
			t.Errorf("latest[%d] = %s, want %s", i, s.Name, students[i].Name)
		}
	}

	var names []string
	for _, r := range dash.ExpiringRoutines {
		names = append(names, r.Name)
	}
	if want := "[primera segunda tercera]"; fmt.Sprint(names) != want {
		t.Errorf("expiring routines = %v, want %s", names, want)
	}
	first := dash.ExpiringRoutines[0]
	if first.StudentName != "Alumno 1" || first.StudentIDNumber != "CI-1" {
		t.Errorf("first routine student = %q/%q", first.StudentName, first.StudentIDNumber)
	}
	if dash.ExpiringRoutines[1].StudentName != "" {
		t.Error("routine of a deleted student should have no student name")
	}

	adminDash, err := svc.Summary(context.Background(), domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin})
	if err != nil {
		t.Fatalf("admin Summary: %v", err)
	}
	if len(adminDash.ExpiringRoutines) != 4 || adminDash.ExpiringRoutines[0].Name != "primera" || adminDash.ExpiringRoutines[1].Name != "ajena" {
		t.Errorf("admin expiring routines = %+v", adminDash.ExpiringRoutines)
	}
}

func TestDashboardSummaryStoreError(t *testing.T) {
	students := newStubStudentRepo()
	students.getErr = errStore
	id := primitive.NewObjectID()
	routines := newStubRoutineRepo(domain.Routine{ID: primitive.NewObjectID(), Name: "r", StudentID: oid(id), ExpirationDate: time.Now().Add(time.Hour)})

	_, err := NewDashboardService(students, routines).Summary(context.Background(), domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin})
	if err != errStore {
		t.Errorf("err = %v, want errStore", err)
	}
}
