package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"walletmate/internal/kv"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "walletmate.db")

	s, err := New(path)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if _, err := s.GetItem(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SetItem(ctx, "k", "one"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, "k", "two"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// Reopening runs migrations again, which must be a no-op.
	s, err = New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()

	if v, err := s.GetItem(ctx, "k"); err != nil || v != "two" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if err := s.RemoveItem(ctx, "k"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.GetItem(ctx, "k"); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after remove, got %v", err)
	}
}
