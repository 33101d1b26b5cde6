package storage

import (
	"context"
	"errors"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// ErrStorageDisabled is returned when no bucket is configured.
var ErrStorageDisabled = errors.New("video storage is not configured")

// FileStorage defines the object storage operations used for exercise
// demonstration videos.
type FileStorage interface {
	// GeneratePresignedUploadURL creates a temporary URL that allows PUT requests
	// for uploading an object directly to the storage provider.
	GeneratePresignedUploadURL(ctx context.Context, objectKey string, contentType string, expires time.Duration) (string, error)

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for viewing an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// VideoObjectKey builds a unique key for a new video of the given exercise,
// keeping the original file extension.
func VideoObjectKey(exerciseID primitive.ObjectID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return "exercises/" + exerciseID.Hex() + "/videos/" + uuid.NewString() + ext
}

// disabledStorage is used when no bucket is configured.
type disabledStorage struct{}

// NewDisabledStorage returns a FileStorage whose operations all fail with
// ErrStorageDisabled.
func NewDisabledStorage() FileStorage {
	return disabledStorage{}
}

func (disabledStorage) GeneratePresignedUploadURL(context.Context, string, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorage) GeneratePresignedDownloadURL(context.Context, string, time.Duration) (string, error) {
	return "", ErrStorageDisabled
}

func (disabledStorage) DeleteObject(context.Context, string) error {
	return ErrStorageDisabled
}
