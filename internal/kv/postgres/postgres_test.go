package postgres

import (
	"context"
	"errors"
	"os"
	"testing"

	"walletmate/internal/kv"
)

// Requires a reachable database; skipped unless POSTGRES_TEST_URL is set.
func TestPostgresStoreRoundTrip(t *testing.T) {
	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}
	ctx := context.Background()

	s, err := New(ctx, url)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer s.Close()

	key := "walletmate_test_" + t.Name()
	defer s.RemoveItem(ctx, key)

	if err := s.SetItem(ctx, key, "a"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := s.SetItem(ctx, key, "b"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if v, err := s.GetItem(ctx, key); err != nil || v != "b" {
		t.Fatalf("get = %q, %v", v, err)
	}
	if err := s.RemoveItem(ctx, key); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := s.GetItem(ctx, key); !errors.Is(err, kv.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
