package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStore = errors.New("store unavailable")

// --- users ---

type stubUserRepo struct {
	users     map[primitive.ObjectID]*domain.User
	createErr error
	countErr  error

	bootstrapClaimed bool
	releases         int
}

func newStubUserRepo(users ...domain.User) *stubUserRepo {
	r := &stubUserRepo{users: map[primitive.ObjectID]*domain.User{}}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (primitive.ObjectID, error) {
	if r.createErr != nil {
		return primitive.NilObjectID, r.createErr
	}
	user.ID = primitive.NewObjectID()
	u := *user
	r.users[u.ID] = &u
	return u.ID, nil
}

func (r *stubUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *stubUserRepo) List(_ context.Context, role domain.Role) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		if role == "" || u.Role == role {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Count(context.Context) (int64, error) {
	return int64(len(r.users)), r.countErr
}

func (r *stubUserRepo) ClaimBootstrap(context.Context) error {
	if r.bootstrapClaimed {
		return repository.ErrDuplicate
	}
	r.bootstrapClaimed = true
	return nil
}

func (r *stubUserRepo) ReleaseBootstrap(context.Context) error {
	r.bootstrapClaimed = false
	r.releases++
	return nil
}

func (r *stubUserRepo) Update(_ context.Context, user *domain.User) error {
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	u := *user
	r.users[u.ID] = &u
	return nil
}

func (r *stubUserRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

// --- students ---

type stubStudentRepo struct {
	students map[primitive.ObjectID]*domain.Student
	lastList *primitive.ObjectID
	getErr   error
}

func newStubStudentRepo(students ...domain.Student) *stubStudentRepo {
	r := &stubStudentRepo{students: map[primitive.ObjectID]*domain.Student{}}
	for i := range students {
		s := students[i]
		r.students[s.ID] = &s
	}
	return r
}

func (r *stubStudentRepo) Create(_ context.Context, student *domain.Student) (primitive.ObjectID, error) {
	student.ID = primitive.NewObjectID()
	s := *student
	r.students[s.ID] = &s
	return s.ID, nil
}

func (r *stubStudentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Student, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	s, ok := r.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *s
	return &c, nil
}

func (r *stubStudentRepo) List(_ context.Context, trainerID *primitive.ObjectID) ([]domain.Student, error) {
	r.lastList = trainerID
	var out []domain.Student
	for _, s := range r.students {
		if trainerID == nil || (s.TrainerID != nil && *s.TrainerID == *trainerID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *stubStudentRepo) ListLatest(_ context.Context, trainerID *primitive.ObjectID, limit int64) ([]domain.Student, error) {
	r.lastList = trainerID
	out, _ := r.List(context.Background(), trainerID)
	sort.Slice(out, func(i, j int) bool { return out[i].RegistrationDate.After(out[j].RegistrationDate) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubStudentRepo) Update(_ context.Context, student *domain.Student) error {
	if _, ok := r.students[student.ID]; !ok {
		return repository.ErrNotFound
	}
	s := *student
	r.students[s.ID] = &s
	return nil
}

func (r *stubStudentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.students[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.students, id)
	return nil
}

// --- exercises ---

type stubExerciseRepo struct {
	exercises []domain.Exercise
	listCalls int
	listErr   error
}

func (r *stubExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) (primitive.ObjectID, error) {
	exercise.ID = primitive.NewObjectID()
	r.exercises = append(r.exercises, *exercise)
	return exercise.ID, nil
}

func (r *stubExerciseRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	for _, e := range r.exercises {
		if e.ID == id {
			c := e
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	for _, e := range r.exercises {
		if e.Name == name {
			c := e
			return &c, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubExerciseRepo) List(context.Context) ([]domain.Exercise, error) {
	r.listCalls++
	if r.listErr != nil {
		return nil, r.listErr
	}
	return append([]domain.Exercise(nil), r.exercises...), nil
}

func (r *stubExerciseRepo) Update(_ context.Context, exercise *domain.Exercise) error {
	for i, e := range r.exercises {
		if e.ID == exercise.ID {
			r.exercises[i] = *exercise
			return nil
		}
	}
	return repository.ErrNotFound
}

func (r *stubExerciseRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, e := range r.exercises {
		if e.ID == id {
			r.exercises = append(r.exercises[:i], r.exercises[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

// --- routines ---

type stubRoutineRepo struct {
	routines map[primitive.ObjectID]*domain.Routine
	created  []*domain.Routine
	getErr   error
}

func newStubRoutineRepo(routines ...domain.Routine) *stubRoutineRepo {
	r := &stubRoutineRepo{routines: map[primitive.ObjectID]*domain.Routine{}}
	for i := range routines {
		rt := routines[i]
		r.routines[rt.ID] = &rt
	}
	return r
}

func (r *stubRoutineRepo) Create(_ context.Context, routine *domain.Routine) (primitive.ObjectID, error) {
	routine.ID = primitive.NewObjectID()
	c := *routine
	r.routines[c.ID] = &c
	r.created = append(r.created, &c)
	return c.ID, nil
}

func (r *stubRoutineRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Routine, error) {
	if r.getErr != nil {
		return nil, r.getErr
	}
	rt, ok := r.routines[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	c := *rt
	return &c, nil
}

func (r *stubRoutineRepo) filter(keep func(*domain.Routine) bool) []domain.Routine {
	var out []domain.Routine
	for _, rt := range r.routines {
		if keep(rt) {
			out = append(out, *rt)
		}
	}
	return out
}

func (r *stubRoutineRepo) GetByStudentID(_ context.Context, studentID primitive.ObjectID) ([]domain.Routine, error) {
	return r.filter(func(rt *domain.Routine) bool { return rt.StudentID != nil && *rt.StudentID == studentID }), nil
}

func (r *stubRoutineRepo) GetByTrainerID(_ context.Context, trainerID primitive.ObjectID) ([]domain.Routine, error) {
	return r.filter(func(rt *domain.Routine) bool { return rt.TrainerID != nil && *rt.TrainerID == trainerID }), nil
}

func (r *stubRoutineRepo) List(context.Context) ([]domain.Routine, error) {
	return r.filter(func(*domain.Routine) bool { return true }), nil
}

func (r *stubRoutineRepo) ListExpiringFrom(_ context.Context, trainerID *primitive.ObjectID, from time.Time, limit int64) ([]domain.Routine, error) {
	out := r.filter(func(rt *domain.Routine) bool {
		if trainerID != nil && (rt.TrainerID == nil || *rt.TrainerID != *trainerID) {
			return false
		}
		return !rt.ExpirationDate.Before(from)
	})
	sort.Slice(out, func(i, j int) bool { return out[i].ExpirationDate.Before(out[j].ExpirationDate) })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubRoutineRepo) Update(_ context.Context, routine *domain.Routine) error {
	if _, ok := r.routines[routine.ID]; !ok {
		return repository.ErrNotFound
	}
	c := *routine
	r.routines[c.ID] = &c
	return nil
}

func (r *stubRoutineRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	if _, ok := r.routines[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.routines, id)
	return nil
}

// --- collaborators ---

type stubIssuer struct {
	calls    int
	lastDay  domain.Weekday
	issueErr error
	expires  time.Time
}

func (s *stubIssuer) Issue(_ context.Context, routineID primitive.ObjectID, day domain.Weekday) (*domain.AccessToken, error) {
	if s.issueErr != nil {
		return nil, s.issueErr
	}
	s.calls++
	s.lastDay = day
	return &domain.AccessToken{
		Token:          "tok-" + string(rune('0'+s.calls)),
		RoutineID:      routineID,
		Day:            day,
		ExpirationDate: s.expires,
	}, nil
}

type stubValidator struct {
	valid bool
	err   error
}

func (s stubValidator) Validate(context.Context, string, string, string) (bool, error) {
	return s.valid, s.err
}

type stubStorage struct {
	deleted      []string
	downloadKeys []string
	downloadTTL  time.Duration
	downloadErr  error
	uploadErr    error
}

func (s *stubStorage) GeneratePresignedUploadURL(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	if s.uploadErr != nil {
		return "", s.uploadErr
	}
	return "https://bucket.example/" + key + "?upload", nil
}

func (s *stubStorage) GeneratePresignedDownloadURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	s.downloadKeys = append(s.downloadKeys, key)
	s.downloadTTL = ttl
	if s.downloadErr != nil {
		return "", s.downloadErr
	}
	return fmt.Sprintf("https://bucket.example/%s?sig=%d", key, len(s.downloadKeys)), nil
}

func (s *stubStorage) DeleteObject(_ context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	return nil
}

// oid returns a pointer to a copy of id.
func oid(id primitive.ObjectID) *primitive.ObjectID {
	return &id
}
