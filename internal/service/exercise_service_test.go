package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"gymdesk/routine-admin/internal/cache"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newExerciseFixture(exercises ...domain.Exercise) (*exerciseService, *stubExerciseRepo, *stubStorage) {
	repo := &stubExerciseRepo{exercises: exercises}
	files := &stubStorage{}
	svc := NewExerciseService(repo, cache.New(time.Hour), files).(*exerciseService)
	return svc, repo, files
}

func TestExerciseVisibility(t *testing.T) {
	trainerA := primitive.NewObjectID()
	shared := domain.Exercise{ID: primitive.NewObjectID(), Name: "Sentadilla"}
	own := domain.Exercise{ID: primitive.NewObjectID(), Name: "Remo", TrainerID: oid(trainerA)}
	foreign := domain.Exercise{ID: primitive.NewObjectID(), Name: "Press", TrainerID: oid(primitive.NewObjectID())}
	svc, _, _ := newExerciseFixture(shared, own, foreign)

	sess := domain.Session{UserID: trainerA, Role: domain.RoleTrainer}
	list, err := svc.ListExercises(context.Background(), sess, ExerciseFilter{})
	if err != nil {
		t.Fatalf("ListExercises: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("trainer sees %d exercises, want 2", len(list))
	}

	if _, err := svc.GetExercise(context.Background(), sess, foreign.ID); !errors.Is(err, ErrExerciseAccessDenied) {
		t.Errorf("foreign get err = %v", err)
	}
	// Shared exercises are readable but not writable by trainers.
	if _, err := svc.UpdateExercise(context.Background(), sess, shared.ID, ExerciseInput{Name: "x"}); !errors.Is(err, ErrExerciseAccessDenied) {
		t.Errorf("shared update err = %v", err)
	}
}

func TestListExercisesFilters(t *testing.T) {
	svc, repo, _ := newExerciseFixture(
		domain.Exercise{ID: primitive.NewObjectID(), Name: "Sentadilla búlgara", MuscleGroup: "Piernas"},
		domain.Exercise{ID: primitive.NewObjectID(), Name: "Sentadilla", MuscleGroup: "Piernas"},
		domain.Exercise{ID: primitive.NewObjectID(), Name: "Press banca", MuscleGroup: "Pecho"},
	)
	admin := domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	tests := []struct {
		filter ExerciseFilter
		want   int
	}{
		{ExerciseFilter{}, 3},
		{ExerciseFilter{Name: "SENTADILLA"}, 2},
		{ExerciseFilter{MuscleGroup: "pecho"}, 1},
		{ExerciseFilter{Name: "búlgara", MuscleGroup: "Piernas"}, 1},
		{ExerciseFilter{MuscleGroup: "Pier"}, 0},
	}
	for _, tt := range tests {
		list, err := svc.ListExercises(context.Background(), admin, tt.filter)
		if err != nil {
			t.Fatalf("ListExercises(%+v): %v", tt.filter, err)
		}
		if len(list) != tt.want {
			t.Errorf("ListExercises(%+v) = %d exercises, want %d", tt.filter, len(list), tt.want)
		}
	}
	if repo.listCalls != 1 {
		t.Errorf("list calls = %d, want filters served from cache", repo.listCalls)
	}
}

func TestExerciseWritesInvalidateCache(t *testing.T) {
	svc, repo, _ := newExerciseFixture(domain.Exercise{ID: primitive.NewObjectID(), Name: "Sentadilla"})
	admin := domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.Lookup(ctx, time.Hour); err != nil {
			t.Fatalf("Lookup: %v", err)
		}
	}
	if repo.listCalls != 1 {
		t.Fatalf("list calls = %d, want 1 (cached)", repo.listCalls)
	}

	created, err := svc.CreateExercise(ctx, admin, ExerciseInput{Name: "Peso muerto"})
	if err != nil {
		t.Fatalf("CreateExercise: %v", err)
	}
	if created.TrainerID != nil {
		t.Error("admin exercises are shared")
	}

	lookup, err := svc.Lookup(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if repo.listCalls != 2 {
		t.Errorf("list calls = %d, want reload after write", repo.listCalls)
	}
	if !lookup.Resolve(created.ID).Found {
		t.Error("new exercise missing from lookup")
	}
}

func TestLookupPresignsStoredVideos(t *testing.T) {
	stored := domain.Exercise{ID: primitive.NewObjectID(), Name: "Plancha", VideoObjectKey: "exercises/a/videos/b.mp4"}
	linked := domain.Exercise{ID: primitive.NewObjectID(), Name: "Burpee", VideoLink: "https://youtu.be/x", VideoObjectKey: "ignored"}
	svc, _, files := newExerciseFixture(stored, linked)

	lookup, err := svc.Lookup(context.Background(), 12*time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if got := lookup[stored.ID].VideoLink; got != "https://bucket.example/exercises/a/videos/b.mp4?sig=1" {
		t.Errorf("stored video link = %q", got)
	}
	if got := lookup[linked.ID].VideoLink; got != "https://youtu.be/x" {
		t.Errorf("external link = %q, want it to win", got)
	}
	if len(files.downloadKeys) != 1 {
		t.Errorf("presigned %d downloads, want 1", len(files.downloadKeys))
	}
}

func TestLookupReusesPresignedVideoLink(t *testing.T) {
	stored := domain.Exercise{ID: primitive.NewObjectID(), Name: "Plancha", VideoObjectKey: "k.mp4"}
	svc, _, files := newExerciseFixture(stored)
	now := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	ctx := context.Background()

	first, err := svc.Lookup(ctx, 12*time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	now = now.Add(11 * time.Hour)
	second, err := svc.Lookup(ctx, 12*time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if first[stored.ID].VideoLink != second[stored.ID].VideoLink {
		t.Errorf("links differ: %q vs %q", first[stored.ID].VideoLink, second[stored.ID].VideoLink)
	}
	if len(files.downloadKeys) != 1 || files.downloadTTL != 24*time.Hour {
		t.Errorf("presigned %d times for %v, want once for 24h", len(files.downloadKeys), files.downloadTTL)
	}

	// Less than 12h left on the cached link: presign again.
	now = now.Add(2 * time.Hour)
	third, err := svc.Lookup(ctx, 12*time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if third[stored.ID].VideoLink == first[stored.ID].VideoLink || len(files.downloadKeys) != 2 {
		t.Errorf("link not refreshed: %q after %d presigns", third[stored.ID].VideoLink, len(files.downloadKeys))
	}
}

func TestLookupWithoutStorageDropsVideo(t *testing.T) {
	stored := domain.Exercise{ID: primitive.NewObjectID(), Name: "Plancha", VideoObjectKey: "k"}
	svc := NewExerciseService(&stubExerciseRepo{exercises: []domain.Exercise{stored}}, cache.New(0), storage.NewDisabledStorage())

	lookup, err := svc.Lookup(context.Background(), time.Hour)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if r := lookup.Resolve(stored.ID); !r.Found || r.Info.VideoLink != "" {
		t.Errorf("resolution = %+v", r)
	}
}

func TestVideoUploadReplacesPreviousObject(t *testing.T) {
	trainer := primitive.NewObjectID()
	ex := domain.Exercise{ID: primitive.NewObjectID(), Name: "Remo", TrainerID: oid(trainer), VideoObjectKey: "old.mp4"}
	svc, repo, files := newExerciseFixture(ex)
	sess := domain.Session{UserID: trainer, Role: domain.RoleTrainer}

	if _, err := svc.RequestVideoUpload(context.Background(), sess, ex.ID, "remo.mp4", "image/png"); !errors.Is(err, ErrUnsupportedVideoType) {
		t.Errorf("content type err = %v", err)
	}

	upload, err := svc.RequestVideoUpload(context.Background(), sess, ex.ID, "Remo.MP4", "video/mp4")
	if err != nil {
		t.Fatalf("RequestVideoUpload: %v", err)
	}
	prefix := "exercises/" + ex.ID.Hex() + "/videos/"
	if !strings.HasPrefix(upload.ObjectKey, prefix) || !strings.HasSuffix(upload.ObjectKey, ".mp4") {
		t.Errorf("object key = %q", upload.ObjectKey)
	}
	if repo.exercises[0].VideoObjectKey != upload.ObjectKey {
		t.Errorf("stored key = %q", repo.exercises[0].VideoObjectKey)
	}
	if len(files.deleted) != 1 || files.deleted[0] != "old.mp4" {
		t.Errorf("deleted = %v, want old.mp4", files.deleted)
	}
}

func TestDeleteExerciseRemovesVideo(t *testing.T) {
	ex := domain.Exercise{ID: primitive.NewObjectID(), Name: "Remo", VideoObjectKey: "v.mp4"}
	svc, repo, files := newExerciseFixture(ex)
	admin := domain.Session{UserID: primitive.NewObjectID(), Role: domain.RoleAdmin}

	if err := svc.DeleteExercise(context.Background(), admin, ex.ID); err != nil {
		t.Fatalf("DeleteExercise: %v", err)
	}
	if len(repo.exercises) != 0 {
		t.Error("exercise not deleted")
	}
	if len(files.deleted) != 1 || files.deleted[0] != "v.mp4" {
		t.Errorf("deleted objects = %v", files.deleted)
	}
	if err := svc.DeleteExercise(context.Background(), admin, ex.ID); !errors.Is(err, ErrExerciseNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}
