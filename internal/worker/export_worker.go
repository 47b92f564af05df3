// Package worker keeps external copies of the transaction collection in
// step with the shared backend.
package worker

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"walletmate/internal/amqp"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/store"
)

// ExportWorker rewrites every target from the persisted collection whenever
// a change event arrives.
type ExportWorker struct {
	store   *store.TransactionStore
	targets []export.Target
	opts    export.Options
	logger  *applog.Logger
}

func NewExportWorker(st *store.TransactionStore, opts export.Options, logger *applog.Logger, targets ...export.Target) *ExportWorker {
	if logger == nil {
		logger = applog.Default(applog.ComponentWorker)
	}
	return &ExportWorker{store: st, targets: targets, opts: opts, logger: logger}
}

// HandleChange is an amqp.ChangeHandler. Events carry no data, so every
// event triggers a full reload and rewrite; an error requeues the event.
func (w *ExportWorker) HandleChange(ctx context.Context, msg *amqp.TransactionChangedMessage) error {
	w.logger.InfoContext(ctx, "Processing change event",
		"op", msg.Op,
		applog.FieldTxID, msg.TransactionID)
	return w.Sync(ctx)
}

// Sync reloads the collection and shares it with all targets concurrently.
// Unlike user exports, an empty collection is written too, so a cleared
// ledger yields a header-only backup. When the collection cannot be read no
// target is touched.
func (w *ExportWorker) Sync(ctx context.Context) error {
	if err := w.store.Reload(ctx); err != nil {
		w.logger.Fields(ctx, slog.LevelError, "Failed to reload transactions, targets left as they are",
			applog.NewFields().
				WithOperation(applog.OpLoad).
				WithErrorType(applog.ErrorTypeDatabase).
				WithError(err))
		return fmt.Errorf("reload transactions: %w", err)
	}
	txs := w.store.All()

	g, gctx := errgroup.WithContext(ctx)
	for _, target := range w.targets {
		g.Go(func() error {
			ref, err := target.Share(gctx, txs, w.opts)
			if err != nil {
				w.logger.Fields(gctx, slog.LevelError, "Export target failed",
					applog.NewFields().
						WithOperation(applog.OpExport).
						WithErrorType(applog.ErrorTypeNetwork).
						WithError(err))
				return fmt.Errorf("%s: %w", target.Name(), err)
			}
			w.logger.InfoContext(gctx, "Export target updated",
				applog.FieldExportTarget, target.Name(),
				applog.FieldCount, len(txs),
				"ref", ref)
			return nil
		})
	}
	return g.Wait()
}
