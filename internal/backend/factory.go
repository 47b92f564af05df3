package backend

import (
	"context"
	"errors"
	"fmt"

	"walletmate/internal/amqp"
	"walletmate/internal/kv"
	"walletmate/internal/kv/file"
	"walletmate/internal/kv/memory"
	"walletmate/internal/kv/postgres"
	"walletmate/internal/kv/sqlite"
	applog "walletmate/internal/log"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
	// dialAMQP is swapped in tests.
	dialAMQP func(url, exchange, queue string, logger *applog.Logger) (*amqp.Client, error)
}

func NewFactory(logger *applog.Logger) *DefaultFactory {
	if logger == nil {
		logger = applog.Default(applog.ComponentStorage)
	}
	return &DefaultFactory{
		logger:   logger,
		dialAMQP: amqp.NewClient,
	}
}

// CreateBackend opens the configured store. An unreachable AMQP broker is
// logged and leaves Publisher nil; storage errors are returned.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	store, err := f.openStore(ctx, config)
	if err != nil {
		return nil, err
	}
	f.logger.Info("Initialized storage backend", applog.FieldBackend, config.Type.String())

	result := &BackendResult{Store: store}

	if config.AMQPURL != "" {
		client, err := f.dialAMQP(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger.WithComponent(applog.ComponentAMQP))
		if err != nil {
			f.logger.Warn("Failed to initialize AMQP client, continuing without change events", applog.FieldError, err)
		} else {
			f.logger.Info("Initialized AMQP client",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
			result.Publisher = client
		}
	}

	result.Cleanup = func() error {
		var errs []error
		if err := kv.Close(store); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
		if result.Publisher != nil {
			if err := result.Publisher.Close(); err != nil {
				errs = append(errs, fmt.Errorf("amqp: %w", err))
			}
		}
		return errors.Join(errs...)
	}
	return result, nil
}

func (f *DefaultFactory) openStore(ctx context.Context, config Config) (kv.Store, error) {
	switch config.Type {
	case MemoryBackend:
		return memory.New(), nil
	case FileBackend:
		s, err := file.New(config.FilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize file store: %w", err)
		}
		return s, nil
	case SQLiteBackend:
		s, err := sqlite.New(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		return s, nil
	case PostgresBackend:
		s, err := postgres.New(ctx, config.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Postgres store: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

var _ Factory = (*DefaultFactory)(nil)
