// Package store owns the authoritative transaction collection and mirrors it
// to a key-value backend after every mutation.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"walletmate/internal/core"
	"walletmate/internal/kv"
	applog "walletmate/internal/log"
)

// TransactionsKey is the key the serialized collection is stored under.
const TransactionsKey = "@walletmate_transactions"

// ErrPersist wraps failures to write the collection. The in-memory change
// has already been applied when it is returned.
var ErrPersist = errors.New("persist transactions")

// TransactionStore keeps transactions in insertion order.
//
// Mutations update memory first and then rewrite the whole collection to
// the backend in the same call. A failed write is not rolled back: memory
// stays the source of truth for the running process.
type TransactionStore struct {
	mu     sync.RWMutex
	items  []core.Transaction
	kv     kv.Store
	key    string
	logger *applog.Logger
}

func New(backend kv.Store, logger *applog.Logger) *TransactionStore {
	if logger == nil {
		logger = applog.Default(applog.ComponentStore)
	}
	return &TransactionStore{
		kv:     backend,
		key:    TransactionsKey,
		logger: logger,
	}
}

// Load replaces the in-memory collection with the persisted one. A missing
// key yields an empty collection; unreadable or undecodable data is logged
// and also yields an empty collection.
func (s *TransactionStore) Load(ctx context.Context) {
	items, err := s.read(ctx)
	if err != nil {
		s.logger.Fields(ctx, slog.LevelError, "Failed to load transactions, starting empty",
			applog.NewFields().
				WithOperation(applog.OpLoad).
				WithErrorType(applog.ErrorTypeDatabase).
				WithError(err))
		items = nil
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "Transactions loaded", applog.FieldCount, len(items))
}

// Reload replaces the in-memory collection with the persisted one like Load,
// but a read or decode failure is returned and leaves memory unchanged.
func (s *TransactionStore) Reload(ctx context.Context) error {
	items, err := s.read(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

func (s *TransactionStore) read(ctx context.Context) ([]core.Transaction, error) {
	raw, err := s.kv.GetItem(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.key, err)
	}
	if raw == "" {
		return nil, nil
	}
	var items []core.Transaction
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.key, err)
	}
	return items, nil
}

// persist writes the current collection to the backend. Callers hold mu so
// that concurrent mutations reach the backend in the order they were applied.
func (s *TransactionStore) persist(ctx context.Context) error {
	items := s.items
	if items == nil {
		items = []core.Transaction{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersist, err)
	}
	if err := s.kv.SetItem(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("%w: %w", ErrPersist, err)
	}
	return nil
}

// All returns a copy of the collection in insertion order.
func (s *TransactionStore) All() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Transaction(nil), s.items...)
}

// Len returns the number of stored transactions.
func (s *TransactionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Get returns the transaction with id.
func (s *TransactionStore) Get(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.items[i], true
	}
	return core.Transaction{}, false
}

func (s *TransactionStore) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// Add appends t and persists. IDs are not checked for collisions; callers
// assign unique IDs.
func (s *TransactionStore) Add(ctx context.Context, t core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, t)
	return s.persist(ctx)
}

// Update replaces the fields of the entry whose ID matches t.ID, keeping its
// position. It reports false and writes nothing when no entry matches.
func (s *TransactionStore) Update(ctx context.Context, t core.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(t.ID)
	if i < 0 {
		return false, nil
	}
	s.items[i] = t
	return true, s.persist(ctx)
}

// Delete removes the entry with id. It reports false and writes nothing
// when no entry matches.
func (s *TransactionStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false, nil
	}
	s.items = append(s.items[:i:i], s.items[i+1:]...)
	return true, s.persist(ctx)
}

// ClearAll empties the collection and persists the empty list.
func (s *TransactionStore) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	return s.persist(ctx)
}
