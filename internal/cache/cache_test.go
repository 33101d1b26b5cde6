package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestFetchCachesUntilInvalidated(t *testing.T) {
	c := New(time.Hour)
	calls := 0
	load := func(context.Context) ([]string, error) {
		calls++
		return []string{"sentadilla"}, nil
	}

	for i := 0; i < 3; i++ {
		v, err := Fetch(context.Background(), c, "exercises", load)
		if err != nil || len(v) != 1 {
			t.Fatalf("Fetch = %v, %v", v, err)
		}
	}
	if calls != 1 {
		t.Errorf("load calls = %d, want 1", calls)
	}

	c.Invalidate("exercises")
	_, _ = Fetch(context.Background(), c, "exercises", load)
	if calls != 2 {
		t.Errorf("load calls after invalidate = %d, want 2", calls)
	}
}

func TestFetchExpiresAfterTTL(t *testing.T) {
	c := New(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	calls := 0
	load := func(context.Context) (int, error) {
		calls++
		return calls, nil
	}

	_, _ = Fetch(context.Background(), c, "k", load)
	now = now.Add(30 * time.Second)
	_, _ = Fetch(context.Background(), c, "k", load)
	if calls != 1 {
		t.Errorf("calls within ttl = %d, want 1", calls)
	}
	now = now.Add(time.Minute)
	v, _ := Fetch(context.Background(), c, "k", load)
	if calls != 2 || v != 2 {
		t.Errorf("after ttl calls = %d value = %d, want 2/2", calls, v)
	}
}

func TestFetchDoesNotCacheErrors(t *testing.T) {
	c := New(0)
	fail := true
	load := func(context.Context) (string, error) {
		if fail {
			return "", errors.New("store down")
		}
		return "ok", nil
	}

	if _, err := Fetch(context.Background(), c, "k", load); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	v, err := Fetch(context.Background(), c, "k", load)
	if err != nil || v != "ok" {
		t.Errorf("Fetch = %q, %v; want ok, nil", v, err)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New(0)
	_, _ = Fetch(context.Background(), c, "a", func(context.Context) (string, error) { return "A", nil })
	v, _ := Fetch(context.Background(), c, "b", func(context.Context) (string, error) { return "B", nil })
	if v != "B" {
		t.Errorf("Fetch(b) = %q, want B", v)
	}
	c.Invalidate("b")
	v, _ = Fetch(context.Background(), c, "a", func(context.Context) (string, error) { return "other", nil })
	if v != "A" {
		t.Errorf("Fetch(a) = %q, want cached A", v)
	}
}
