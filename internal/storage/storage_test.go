package storage

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVideoObjectKey(t *testing.T) {
	id := primitive.NewObjectID()
	a := VideoObjectKey(id, "Sentadilla.MP4")
	b := VideoObjectKey(id, "Sentadilla.MP4")

	prefix := "exercises/" + id.Hex() + "/videos/"
	if !strings.HasPrefix(a, prefix) {
		t.Errorf("key %q missing prefix %q", a, prefix)
	}
	if !strings.HasSuffix(a, ".mp4") {
		t.Errorf("key %q should keep lowercased extension", a)
	}
	if a == b {
		t.Error("keys should be unique per call")
	}
}

func TestDisabledStorage(t *testing.T) {
	s := NewDisabledStorage()
	if _, err := s.GeneratePresignedUploadURL(context.Background(), "k", "video/mp4", 0); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("upload err = %v", err)
	}
	if _, err := s.GeneratePresignedDownloadURL(context.Background(), "k", 0); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("download err = %v", err)
	}
	if err := s.DeleteObject(context.Background(), "k"); !errors.Is(err, ErrStorageDisabled) {
		t.Errorf("delete err = %v", err)
	}
}
