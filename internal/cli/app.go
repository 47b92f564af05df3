package cli

import (
	"context"
	"fmt"
	"sync"
	"time"

	"walletmate/internal/backend"
	"walletmate/internal/category"
	"walletmate/internal/config"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/services"
	"walletmate/internal/settings"
	"walletmate/internal/store"
)

// App holds the components every binary wires the same way.
type App struct {
	Config       *config.Config
	Logger       *applog.Logger
	Location     *time.Location
	Categories   *category.Table
	Store        *store.TransactionStore
	Transactions *services.TransactionService
	Stats        *services.StatsService
	Preferences  *settings.Preferences
	Backend      *backend.BackendResult

	// The Sheets target holds an HTTP client and is built on first use.
	sheetsMu  sync.Mutex
	sheets    export.Target
	newSheets func(ctx context.Context, cfg export.SheetsConfig) (export.Target, error)
}

// LoadCategories returns the table from CATEGORIES_FILE when set, or the
// built-in table for the configured locale.
func LoadCategories(cfg *config.Config) (*category.Table, error) {
	if cfg.CategoriesFile != "" {
		return category.LoadFile(cfg.CategoriesFile)
	}
	return category.ForLocale(cfg.CategoryLocale)
}

// NewApp opens the configured backend, loads the persisted transactions and
// builds the services on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger *applog.Logger) (*App, error) {
	if logger == nil {
		logger = applog.Default(applog.ComponentApp)
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	categories, err := LoadCategories(cfg)
	if err != nil {
		return nil, fmt.Errorf("categories: %w", err)
	}

	bc, err := backend.FromAppConfig(cfg)
	if err != nil {
		return nil, err
	}
	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentStorage)).CreateBackend(ctx, bc)
	if err != nil {
		return nil, err
	}

	st := store.New(result.Store, logger.WithComponent(applog.ComponentStore))
	st.Load(ctx)

	stats := services.NewStatsService(st, categories, services.StatsConfig{
		Location:  loc,
		CacheSize: cfg.StatsCacheSize,
		CacheTTL:  cfg.StatsCacheTTL,
	})

	// A nil *amqp.Client must not become a non-nil interface value.
	var publisher services.Publisher
	if result.Publisher != nil {
		publisher = result.Publisher
	}

	logger.Info("Application initialized",
		applog.FieldBackend, cfg.DataBackend,
		applog.FieldCount, st.Len(),
		"locale", categories.Locale(),
		"timezone", loc.String())

	return &App{
		Config:       cfg,
		Logger:       logger,
		Location:     loc,
		Categories:   categories,
		Store:        st,
		Transactions: services.NewTransactionService(st, categories, stats, publisher, logger.WithComponent(applog.ComponentStore)),
		Stats:        stats,
		Preferences:  settings.New(result.Store, settings.ThemeLight),
		Backend:      result,
		newSheets:    newSheetsTarget,
	}, nil
}

func (a *App) ExportOptions() export.Options {
	return export.Options{DateLayout: a.Config.ExportDateLayout, Location: a.Location}
}

func newSheetsTarget(ctx context.Context, cfg export.SheetsConfig) (export.Target, error) {
	return export.NewSheetsTarget(ctx, cfg)
}

// ExportTarget returns the share target named "file" or "sheets". Names it
// does not know wrap export.ErrUnknownTarget, and "sheets" without a
// spreadsheet wraps export.ErrTargetNotConfigured. The Sheets target is
// created once and reused; a failed creation is retried on the next call.
func (a *App) ExportTarget(ctx context.Context, name string) (export.Target, error) {
	switch name {
	case "", "file":
		return export.FileTarget{Dir: a.Config.ExportDir}, nil
	case "sheets":
		return a.sheetsTarget(ctx)
	default:
		return nil, fmt.Errorf("%w %q (want file or sheets)", export.ErrUnknownTarget, name)
	}
}

func (a *App) sheetsTarget(ctx context.Context) (export.Target, error) {
	if !a.Config.SheetsEnabled() {
		return nil, fmt.Errorf("%w: set GOOGLE_SPREADSHEET_ID to export to sheets", export.ErrTargetNotConfigured)
	}

	a.sheetsMu.Lock()
	defer a.sheetsMu.Unlock()
	if a.sheets != nil {
		return a.sheets, nil
	}
	build := a.newSheets
	if build == nil {
		build = newSheetsTarget
	}
	t, err := build(ctx, export.SheetsConfig{
		SpreadsheetID:      a.Config.GoogleSpreadsheetID,
		SheetName:          a.Config.GoogleSheetName,
		ServiceAccountJSON: a.Config.GoogleServiceAccountJSON,
		ServiceAccountFile: a.Config.GoogleServiceAccountFile,
	})
	if err != nil {
		return nil, fmt.Errorf("sheets export: %w", err)
	}
	a.sheets = t
	return t, nil
}

func (a *App) Close() error {
	if a.Backend == nil || a.Backend.Cleanup == nil {
		return nil
	}
	return a.Backend.Cleanup()
}
