package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"walletmate/internal/core"
	"walletmate/internal/kv"
	"walletmate/internal/kv/file"
	"walletmate/internal/kv/memory"
	applog "walletmate/internal/log"
)

// countingKV wraps a kv.Store, counting writes and optionally failing them.
type countingKV struct {
	kv.Store
	sets    int
	failSet error
	failGet error
}

func (c *countingKV) SetItem(ctx context.Context, key, value string) error {
	c.sets++
	if c.failSet != nil {
		return c.failSet
	}
	return c.Store.SetItem(ctx, key, value)
}

func (c *countingKV) GetItem(ctx context.Context, key string) (string, error) {
	if c.failGet != nil {
		return "", c.failGet
	}
	return c.Store.GetItem(ctx, key)
}

func tx(id string, amount float64, category string, d time.Time) core.Transaction {
	return core.Transaction{ID: id, Amount: amount, Category: category, Note: category, Date: d}
}

var when = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

func newStore(t *testing.T) (*TransactionStore, *countingKV) {
	t.Helper()
	backend := &countingKV{Store: memory.New()}
	s := New(backend, applog.Discard())
	s.Load(context.Background())
	return s, backend
}

func TestAddKeepsEveryDistinctID(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)

	for i := 0; i < 25; i++ {
		if err := s.Add(ctx, tx(fmt.Sprintf("id-%d", i), float64(i+1), "comida", when)); err != nil {
			t.Fatalf("add %d: %v", i, err)
		}
	}
	all := s.All()
	if len(all) != 25 || s.Len() != 25 {
		t.Fatalf("expected 25 transactions, got %d", len(all))
	}
	for i, got := range all {
		if got.ID != fmt.Sprintf("id-%d", i) {
			t.Fatalf("insertion order broken at %d: %s", i, got.ID)
		}
	}
}

func TestUpdateInPlace(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_ = s.Add(ctx, tx("a", 1, "comida", when))
	_ = s.Add(ctx, tx("b", 2, "ropa", when))
	_ = s.Add(ctx, tx("c", 3, "salud", when))

	changed := tx("b", -99, "viajes", when.AddDate(0, 1, 0))
	ok, err := s.Update(ctx, changed)
	if err != nil || !ok {
		t.Fatalf("update = %v, %v", ok, err)
	}
	all := s.All()
	if all[1] != changed {
		t.Fatalf("entry not replaced in place: %+v", all)
	}
	if all[0].ID != "a" || all[2].ID != "c" {
		t.Fatalf("positions changed: %+v", all)
	}
}

func TestUpdateMissingIDIsNoOp(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)
	_ = s.Add(ctx, tx("a", 1, "comida", when))

	before, _ := backend.GetItem(ctx, TransactionsKey)
	setsBefore := backend.sets

	ok, err := s.Update(ctx, tx("missing", 5, "x", when))
	if err != nil || ok {
		t.Fatalf("update missing = %v, %v", ok, err)
	}
	after, _ := backend.GetItem(ctx, TransactionsKey)
	if before != after || backend.sets != setsBefore {
		t.Fatalf("persisted state changed on missing update")
	}
	if s.Len() != 1 {
		t.Fatalf("missing update inserted a record")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newStore(t)
	_ = s.Add(ctx, tx("a", 1, "comida", when))
	_ = s.Add(ctx, tx("b", 2, "comida", when))

	ok, err := s.Delete(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("first delete = %v, %v", ok, err)
	}
	once := s.All()

	ok, err = s.Delete(ctx, "a")
	if err != nil || ok {
		t.Fatalf("second delete = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(once, s.All()) {
		t.Fatalf("second delete changed state")
	}
	if len(once) != 1 || once[0].ID != "b" {
		t.Fatalf("unexpected remaining %+v", once)
	}
}

func TestClearAllPersistsEmptyList(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)
	_ = s.Add(ctx, tx("a", 1, "comida", when))

	if err := s.ClearAll(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if s.Len() != 0 {
		t.Fatalf("expected empty store")
	}
	raw, err := backend.GetItem(ctx, TransactionsKey)
	if err != nil || raw != "[]" {
		t.Fatalf("persisted = %q, %v", raw, err)
	}
}

func TestReloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "walletmate.json")

	backend, err := file.New(path)
	if err != nil {
		t.Fatalf("file backend: %v", err)
	}
	s := New(backend, applog.Discard())
	s.Load(ctx)

	_ = s.Add(ctx, tx("a", 1500, "salario", when))
	_ = s.Add(ctx, core.Transaction{ID: "b", Amount: -12.34, Category: "comida", Note: `He said "hi"`, Date: when.Add(time.Hour)})
	_, _ = s.Update(ctx, tx("a", 1600, "salario", when))
	_, _ = s.Delete(ctx, "nope")
	want := s.All()

	reopened, err := file.New(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	restarted := New(reopened, applog.Discard())
	restarted.Load(ctx)

	got := restarted.All()
	if len(got) != len(want) {
		t.Fatalf("reloaded %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i].ID || got[i].Amount != want[i].Amount ||
			got[i].Category != want[i].Category || got[i].Note != want[i].Note ||
			!got[i].Date.Equal(want[i].Date) {
			t.Fatalf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadCorruptDataStartsEmpty(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	_ = backend.SetItem(ctx, TransactionsKey, "{broken")

	s := New(backend, applog.Discard())
	s.Load(ctx)
	if s.Len() != 0 {
		t.Fatalf("expected empty collection after corrupt load, got %d", s.Len())
	}
}

func TestLoadReadFailureStartsEmpty(t *testing.T) {
	backend := &countingKV{Store: memory.New(), failGet: errors.New("disk unavailable")}
	s := New(backend, applog.Discard())
	s.Load(context.Background())
	if s.Len() != 0 {
		t.Fatalf("expected empty collection")
	}
}

func TestPersistFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)
	backend.failSet = errors.New("quota exceeded")

	err := s.Add(ctx, tx("a", 1, "comida", when))
	if !errors.Is(err, ErrPersist) {
		t.Fatalf("expected ErrPersist, got %v", err)
	}
	if _, ok := s.Get("a"); !ok {
		t.Fatalf("in-memory add was rolled back")
	}

	ok, err := s.Delete(ctx, "a")
	if !ok || !errors.Is(err, ErrPersist) {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	if s.Len() != 0 {
		t.Fatalf("in-memory delete was rolled back")
	}
}

func TestReloadFailureKeepsCollection(t *testing.T) {
	ctx := context.Background()
	s, backend := newStore(t)
	if err := s.Add(ctx, tx("a", -5, "comida", when)); err != nil {
		t.Fatal(err)
	}

	diskErr := errors.New("database is locked")
	backend.failGet = diskErr
	if err := s.Reload(ctx); !errors.Is(err, diskErr) {
		t.Fatalf("Reload = %v, want %v", err, diskErr)
	}
	if s.Len() != 1 {
		t.Fatalf("failed reload dropped the collection, len=%d", s.Len())
	}

	backend.failGet = nil
	_ = backend.Store.SetItem(ctx, TransactionsKey, "{broken")
	if err := s.Reload(ctx); err == nil {
		t.Fatal("expected decode error")
	}
	if s.Len() != 1 {
		t.Fatalf("undecodable reload dropped the collection, len=%d", s.Len())
	}
}
