package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"gymdesk/routine-admin/internal/cache"
	"gymdesk/routine-admin/internal/compose"
	"gymdesk/routine-admin/internal/domain"
	"gymdesk/routine-admin/internal/repository"
	"gymdesk/routine-admin/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrUnsupportedVideoType = errors.New("video content type must be video/*")
)

// exercisesCacheKey names the whole-collection entry in the read cache.
const exercisesCacheKey = "exercises"

// ExerciseInput holds the editable fields of an exercise.
type ExerciseInput struct {
	Name        string
	Description string
	MuscleGroup string
	Difficulty  string
	WeightLabel string
	VideoLink   string
}

// ExerciseFilter narrows ListExercises. Empty fields match everything.
type ExerciseFilter struct {
	Name        string // Case-insensitive substring of the name
	MuscleGroup string // Whole muscle group, case-insensitive
}

func (f ExerciseFilter) matches(e *domain.Exercise) bool {
	if f.Name != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(strings.TrimSpace(f.Name))) {
		return false
	}
	if f.MuscleGroup != "" && !strings.EqualFold(e.MuscleGroup, strings.TrimSpace(f.MuscleGroup)) {
		return false
	}
	return true
}

// VideoUpload is returned to the client, which PUTs the file to UploadURL.
type VideoUpload struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ExerciseService interface {
	CreateExercise(ctx context.Context, sess domain.Session, input ExerciseInput) (*domain.Exercise, error)
	// ListExercises returns every exercise for administrators; trainers get
	// their own plus the gym's shared ones. The filter is applied on top of
	// the cached collection.
	ListExercises(ctx context.Context, sess domain.Session, filter ExerciseFilter) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Exercise, error)
	UpdateExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID) error
	// RequestVideoUpload reserves an object key for a new demonstration video,
	// records it on the exercise and returns a presigned upload URL.
	RequestVideoUpload(ctx context.Context, sess domain.Session, id primitive.ObjectID, fileName, contentType string) (*VideoUpload, error)
	// Lookup builds the composer's id -> {name, video} table from the whole
	// collection. Stored videos get a presigned link valid for at least
	// linkTTL; the same link is handed out while that still holds.
	Lookup(ctx context.Context, linkTTL time.Duration) (compose.Lookup, error)
}

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	cache        *cache.Collections
	files        storage.FileStorage
	now          func() time.Time

	linksMu    sync.Mutex
	videoLinks map[string]presignedLink // By object key
}

type presignedLink struct {
	url       string
	expiresAt time.Time
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, c *cache.Collections, files storage.FileStorage) ExerciseService {
	if files == nil {
		files = storage.NewDisabledStorage()
	}
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		cache:        c,
		files:        files,
		now:          time.Now,
		videoLinks:   make(map[string]presignedLink),
	}
}

func (s *exerciseService) all(ctx context.Context) ([]domain.Exercise, error) {
	return cache.Fetch(ctx, s.cache, exercisesCacheKey, s.exerciseRepo.List)
}

func (s *exerciseService) invalidate() {
	s.cache.Invalidate(exercisesCacheKey)
}

func validateExercise(input *ExerciseInput) error {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return fmt.Errorf("%w: exercise name is required", ErrValidationFailed)
	}
	return nil
}

// CreateExercise stores a new exercise. Exercises created by an
// administrator are shared with every trainer.
func (s *exerciseService) CreateExercise(ctx context.Context, sess domain.Session, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExercise(&input); err != nil {
		return nil, err
	}

	exercise := &domain.Exercise{
		Name:        input.Name,
		Description: input.Description,
		MuscleGroup: input.MuscleGroup,
		Difficulty:  input.Difficulty,
		WeightLabel: input.WeightLabel,
		VideoLink:   input.VideoLink,
	}
	if !sess.IsAdmin() {
		owner := sess.UserID
		exercise.TrainerID = &owner
	}

	id, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	s.invalidate()
	exercise.ID = id
	return exercise, nil
}

func (s *exerciseService) ListExercises(ctx context.Context, sess domain.Session, filter ExerciseFilter) ([]domain.Exercise, error) {
	exercises, err := s.all(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Exercise, 0, len(exercises))
	for _, e := range exercises {
		if canRead(sess, &e) && filter.matches(&e) {
			visible = append(visible, e)
		}
	}
	return visible, nil
}

// Shared exercises (no owner) are readable by everyone.
func canRead(sess domain.Session, e *domain.Exercise) bool {
	return e.TrainerID == nil || canWrite(sess, e)
}

func canWrite(sess domain.Session, e *domain.Exercise) bool {
	return sess.IsAdmin() || e.OwnedBy(sess.UserID)
}

func (s *exerciseService) GetExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err // Propagate other repository errors
	}
	if !canRead(sess, exercise) {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// getWritable loads an exercise the session is allowed to change.
func (s *exerciseService) getWritable(ctx context.Context, sess domain.Session, id primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.GetExercise(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	if !canWrite(sess, exercise) {
		return nil, ErrExerciseAccessDenied
	}
	return exercise, nil
}

// UpdateExercise changes an exercise in place. Routines referencing it pick
// up the change on their next composition.
func (s *exerciseService) UpdateExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID, input ExerciseInput) (*domain.Exercise, error) {
	if err := validateExercise(&input); err != nil {
		return nil, err
	}
	exercise, err := s.getWritable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	exercise.Name = input.Name
	exercise.Description = input.Description
	exercise.MuscleGroup = input.MuscleGroup
	exercise.Difficulty = input.Difficulty
	exercise.WeightLabel = input.WeightLabel
	exercise.VideoLink = input.VideoLink

	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.invalidate()
	return exercise, nil
}

// DeleteExercise removes the exercise and its stored video. Assignments that
// still reference it render as unavailable.
func (s *exerciseService) DeleteExercise(ctx context.Context, sess domain.Session, id primitive.ObjectID) error {
	exercise, err := s.getWritable(ctx, sess, id)
	if err != nil {
		return err
	}

	if err := s.exerciseRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrExerciseNotFound
		}
		return err
	}
	s.invalidate()

	if exercise.VideoObjectKey != "" {
		s.deleteVideo(ctx, exercise.VideoObjectKey)
	}
	return nil
}

// deleteVideo is best effort; an orphaned object is only wasted space.
func (s *exerciseService) deleteVideo(ctx context.Context, key string) {
	s.linksMu.Lock()
	delete(s.videoLinks, key)
	s.linksMu.Unlock()
	if err := s.files.DeleteObject(ctx, key); err != nil {
		log.Printf("WARN: Failed to delete video object %s: %v", key, err)
	}
}

func (s *exerciseService) RequestVideoUpload(ctx context.Context, sess domain.Session, id primitive.ObjectID, fileName, contentType string) (*VideoUpload, error) {
	if !strings.HasPrefix(contentType, "video/") {
		return nil, ErrUnsupportedVideoType
	}
	exercise, err := s.getWritable(ctx, sess, id)
	if err != nil {
		return nil, err
	}

	key := storage.VideoObjectKey(exercise.ID, fileName)
	uploadURL, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		if !errors.Is(err, storage.ErrStorageDisabled) {
			log.Printf("ERROR: Failed to presign video upload for exercise %s: %v", id.Hex(), err)
		}
		return nil, err
	}

	previous := exercise.VideoObjectKey
	exercise.VideoObjectKey = key
	if err := s.exerciseRepo.Update(ctx, exercise); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	s.invalidate()
	if previous != "" {
		s.deleteVideo(ctx, previous)
	}

	return &VideoUpload{
		UploadURL: uploadURL,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

func (s *exerciseService) Lookup(ctx context.Context, linkTTL time.Duration) (compose.Lookup, error) {
	exercises, err := s.all(ctx)
	if err != nil {
		log.Printf("ERROR: Failed to load exercises for lookup: %v", err)
		return nil, err
	}

	lookup := make(compose.Lookup, len(exercises))
	for _, e := range exercises {
		info := compose.ExerciseInfo{Name: e.Name, VideoLink: e.VideoLink}
		if info.VideoLink == "" && e.VideoObjectKey != "" {
			link, err := s.videoLink(ctx, e.VideoObjectKey, linkTTL)
			if err != nil {
				log.Printf("WARN: No video link for exercise %s: %v", e.ID.Hex(), err)
			} else {
				info.VideoLink = link
			}
		}
		lookup[e.ID] = info
	}
	return lookup, nil
}

// videoLink presigns key for twice linkTTL and reuses that URL until less than
// linkTTL of it remains, so a message composed twice carries the same link.
func (s *exerciseService) videoLink(ctx context.Context, key string, linkTTL time.Duration) (string, error) {
	now := s.now()
	s.linksMu.Lock()
	cached, ok := s.videoLinks[key]
	s.linksMu.Unlock()
	if ok && !now.Add(linkTTL).After(cached.expiresAt) {
		return cached.url, nil
	}

	url, err := s.files.GeneratePresignedDownloadURL(ctx, key, 2*linkTTL)
	if err != nil {
		return "", err
	}
	s.linksMu.Lock()
	s.videoLinks[key] = presignedLink{url: url, expiresAt: now.Add(2 * linkTTL)}
	s.linksMu.Unlock()
	return url, nil
}
