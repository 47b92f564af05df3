package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"walletmate/internal/backend"
	"walletmate/internal/cli"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	logger := cli.SetupLogger(nil, applog.ComponentWorker)
	cfg := cli.LoadAndValidateConfig(logger)
	logger = cli.SetupLogger(cfg, applog.ComponentWorker)

	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the export worker",
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	if !backend.BackendType(cfg.DataBackend).Shared() {
		logger.Error("The export worker needs a backend shared with the server",
			applog.FieldBackend, cfg.DataBackend,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application",
			applog.FieldError, err,
			applog.FieldErrorType, applog.ErrorTypeConfiguration)
		os.Exit(1)
	}
	defer app.Close()

	consumer := app.Backend.Publisher
	if consumer == nil {
		logger.Error("Could not connect to AMQP",
			applog.FieldErrorType, applog.ErrorTypeNetwork)
		os.Exit(1)
	}

	targets := []export.Target{export.FileTarget{Dir: cfg.ExportDir}}
	if cfg.SheetsEnabled() {
		sheets, err := app.ExportTarget(ctx, "sheets")
		if err != nil {
			logger.Error("Failed to initialize Sheets export",
				applog.FieldError, err,
				applog.FieldErrorType, applog.ErrorTypeConfiguration)
			os.Exit(1)
		}
		targets = append(targets, sheets)
	}

	w := worker.NewExportWorker(app.Store, app.ExportOptions(), logger, targets...)

	if err := w.Sync(ctx); err != nil {
		logger.Warn("Startup export failed", applog.FieldError, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Export worker started",
			applog.FieldBackend, cfg.DataBackend,
			"queue", cfg.AMQPQueue,
			"targets", len(targets))
		return consumer.ConsumeChanges(gctx, w.HandleChange)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error("Consumer stopped", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Export worker stopped")
}
