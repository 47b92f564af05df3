package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"walletmate/internal/amqp"
	"walletmate/internal/category"
	"walletmate/internal/core"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/store"
)

// Publisher announces committed mutations. *amqp.Client implements it.
type Publisher interface {
	PublishChange(ctx context.Context, op amqp.ChangeOp, transactionID string) error
}

// Invalidator drops derived data after a mutation.
type Invalidator interface {
	Invalidate()
}

// TransactionInput is the raw form data of a new or edited transaction.
// Amount is free text; its sign is taken from Kind.
type TransactionInput struct {
	Amount   string
	Kind     core.Kind
	Category string
	Note     string
	Date     time.Time
}

// TransactionService is the single entry point for mutating the store.
// It turns form input into transactions, keeps storage failures away from
// callers and tells the rest of the system about changes.
type TransactionService struct {
	store      *store.TransactionStore
	categories *category.Table
	stats      Invalidator
	publisher  Publisher
	logger     *applog.Logger

	now   func() time.Time
	newID func() (string, error)
}

// NewTransactionService wires a service around st. stats and publisher may
// be nil.
func NewTransactionService(st *store.TransactionStore, categories *category.Table, stats Invalidator, publisher Publisher, logger *applog.Logger) *TransactionService {
	if logger == nil {
		logger = applog.Default(applog.ComponentStore)
	}
	return &TransactionService{
		store:      st,
		categories: categories,
		stats:      stats,
		publisher:  publisher,
		logger:     logger,
		now:        time.Now,
		newID:      newUUID,
	}
}

func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// build validates in and returns the transaction it describes.
func (s *TransactionService) build(id string, in TransactionInput) (core.Transaction, error) {
	amount, err := core.ParseAmount(in.Amount, in.Kind)
	if err != nil {
		return core.Transaction{}, err
	}

	code := strings.TrimSpace(in.Category)
	note := strings.TrimSpace(in.Note)
	if note == "" && code != "" {
		note = s.categories.Label(code)
	}
	date := in.Date
	if date.IsZero() {
		date = s.now()
	}

	t := core.Transaction{
		ID:       id,
		Amount:   amount,
		Category: code,
		Note:     note,
		Date:     date,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

// Create validates in, assigns a fresh id and appends the transaction.
// An empty note becomes the category label and a zero date becomes now.
func (s *TransactionService) Create(ctx context.Context, in TransactionInput) (core.Transaction, error) {
	id, err := s.newID()
	if err != nil {
		return core.Transaction{}, fmt.Errorf("generate id: %w", err)
	}

	t, err := s.build(id, in)
	if err != nil {
		s.logValidation(ctx, applog.OpCreate, err)
		return core.Transaction{}, err
	}

	if err := s.handlePersist(ctx, applog.OpCreate, s.store.Add(ctx, t)); err != nil {
		return core.Transaction{}, err
	}

	s.logger.Fields(ctx, slog.LevelInfo, "Transaction created",
		applog.NewFields().WithOperation(applog.OpCreate).WithTransaction(t.ID, t.Amount, t.Category))
	s.changed(ctx, amqp.OpCreate, t.ID)
	return t, nil
}

// Update replaces the transaction with the given id. It reports false, and
// changes nothing, when no such transaction exists.
func (s *TransactionService) Update(ctx context.Context, id string, in TransactionInput) (core.Transaction, bool, error) {
	t, err := s.build(id, in)
	if err != nil {
		s.logValidation(ctx, applog.OpUpdate, err)
		return core.Transaction{}, false, err
	}

	ok, err := s.store.Update(ctx, t)
	if err := s.handlePersist(ctx, applog.OpUpdate, err); err != nil {
		return core.Transaction{}, false, err
	}
	if !ok {
		s.logger.DebugContext(ctx, "Update skipped, transaction not found", applog.FieldTxID, id)
		return core.Transaction{}, false, nil
	}

	s.changed(ctx, amqp.OpUpdate, t.ID)
	return t, true, nil
}

// Delete removes the transaction with the given id. Deleting an unknown id
// is a no-op that reports false.
func (s *TransactionService) Delete(ctx context.Context, id string) (bool, error) {
	ok, err := s.store.Delete(ctx, id)
	if err := s.handlePersist(ctx, applog.OpDelete, err); err != nil {
		return false, err
	}
	if ok {
		s.changed(ctx, amqp.OpDelete, id)
	}
	return ok, nil
}

// ClearAll removes every transaction.
func (s *TransactionService) ClearAll(ctx context.Context) error {
	n := s.store.Len()
	if err := s.handlePersist(ctx, applog.OpClear, s.store.ClearAll(ctx)); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "All transactions cleared", applog.FieldCount, n)
	s.changed(ctx, amqp.OpClear, "")
	return nil
}

func (s *TransactionService) Get(id string) (core.Transaction, bool) {
	return s.store.Get(id)
}

// All returns every transaction in insertion order.
func (s *TransactionService) All() []core.Transaction {
	return s.store.All()
}

// List returns the transactions matching f, newest first.
func (s *TransactionService) List(f core.Filter) []core.Transaction {
	return f.Apply(s.store.All())
}

// Export hands the whole collection, in insertion order, to target.
func (s *TransactionService) Export(ctx context.Context, target export.Target, opts export.Options) (string, error) {
	txs := s.store.All()
	ref, err := export.Export(ctx, target, txs, opts)
	if err != nil {
		level := slog.LevelError
		if errors.Is(err, export.ErrNoTransactions) {
			level = slog.LevelWarn
		}
		s.logger.Fields(ctx, level, "Export failed",
			applog.NewFields().WithOperation(applog.OpExport).WithError(err).
				WithComponent(applog.ComponentExport))
		return "", err
	}
	s.logger.InfoContext(ctx, "Transactions exported",
		applog.FieldExportTarget, target.Name(),
		applog.FieldCount, len(txs),
		"ref", ref)
	return ref, nil
}

// handlePersist swallows storage write failures after logging them: the
// in-memory change stands and the caller proceeds. Other errors pass through.
func (s *TransactionService) handlePersist(ctx context.Context, op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, store.ErrPersist) {
		s.logger.Fields(ctx, slog.LevelError, "Failed to persist transactions",
			applog.NewFields().
				WithOperation(op).
				WithErrorType(applog.ErrorTypeDatabase).
				WithError(err))
		return nil
	}
	return err
}

func (s *TransactionService) logValidation(ctx context.Context, op string, err error) {
	s.logger.Fields(ctx, slog.LevelWarn, "Rejected transaction input",
		applog.NewFields().WithOperation(op).WithErrorType(applog.ErrorTypeValidation).WithError(err))
}

// changed runs after every applied mutation, including ones whose write
// failed, since memory already reflects them.
func (s *TransactionService) changed(ctx context.Context, op amqp.ChangeOp, id string) {
	if s.stats != nil {
		s.stats.Invalidate()
	}
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishChange(ctx, op, id); err != nil {
		s.logger.Fields(ctx, slog.LevelWarn, "Failed to publish change event",
			applog.NewFields().
				WithOperation(applog.OpPublish).
				WithErrorType(applog.ErrorTypeNetwork).
				WithError(err))
	}
}

// IsValidation reports whether err was caused by bad user input.
func IsValidation(err error) bool {
	return errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrEmptyCategory) ||
		errors.Is(err, core.ErrZeroDate) ||
		errors.Is(err, core.ErrEmptyID)
}
