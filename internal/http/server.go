// Package http exposes the transaction services as a JSON API.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"walletmate/internal/category"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/services"
	"walletmate/internal/settings"
)

// Deps are the components the handlers call into.
type Deps struct {
	Transactions  *services.TransactionService
	Stats         *services.StatsService
	Preferences   *settings.Preferences
	Categories    *category.Table
	Location      *time.Location
	ExportOptions export.Options
	// ExportTarget resolves the ?target= query of POST /api/export.
	ExportTarget func(ctx context.Context, name string) (export.Target, error)
	Logger       *applog.Logger
}

// Options tune the server; zero values select the defaults.
type Options struct {
	// RequestsPerMinute per client IP; negative disables limiting.
	RequestsPerMinute int
}

type Server struct {
	http.Server
	deps         Deps
	rateLimiter  *rateLimiter
	now          func() time.Time
	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps, opts Options) *Server {
	if deps.Logger == nil {
		deps.Logger = applog.Default(applog.ComponentHTTP)
	}
	if deps.Location == nil {
		deps.Location = time.Local
	}
	if opts.RequestsPerMinute == 0 {
		opts.RequestsPerMinute = 120
	}

	s := &Server{
		deps:        deps,
		rateLimiter: newRateLimiter(opts.RequestsPerMinute, time.Minute),
		now:         time.Now,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)

	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("DELETE /api/transactions", s.handleClearTransactions)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)

	mux.HandleFunc("GET /api/stats/month", s.handleMonthStats)
	mux.HandleFunc("GET /api/stats/year", s.handleYearStats)

	mux.HandleFunc("GET /api/export.csv", s.handleDownloadCSV)
	mux.HandleFunc("POST /api/export", s.handleShareExport)

	mux.HandleFunc("GET /api/categories", s.handleCategories)

	mux.HandleFunc("GET /api/settings/theme", s.handleGetTheme)
	mux.HandleFunc("PUT /api/settings/theme", s.handleSetTheme)
	mux.HandleFunc("POST /api/settings/theme/toggle", s.handleToggleTheme)

	var h http.Handler = mux
	h = withRateLimit(s.rateLimiter, h)
	h = withSecurityHeaders(h)
	h = withRecovery(deps.Logger, h)
	h = withTracing(deps.Logger, h)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops the rate limiter and gracefully shuts the server down.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
