// Package backend builds the key-value store selected by configuration,
// together with the optional change-event publisher.
package backend

import (
	"context"

	"walletmate/internal/amqp"
	"walletmate/internal/kv"
)

// CleanupFunc releases the resources held by a BackendResult.
type CleanupFunc func() error

// BackendResult contains the storage, the optional publisher and a cleanup
// function that closes both.
type BackendResult struct {
	Store kv.Store
	// Publisher is nil when AMQP is not configured or unreachable.
	Publisher *amqp.Client
	Cleanup   CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)
}

// Config holds configuration for backend creation
type Config struct {
	Type BackendType

	FilePath     string
	SQLiteDBPath string
	PostgresURL  string

	// AMQP is optional for every backend type.
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	MemoryBackend   BackendType = "memory"
	FileBackend     BackendType = "file"
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case MemoryBackend, FileBackend, SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// Shared reports whether the backend can be read by another process, which
// the export worker needs.
func (bt BackendType) Shared() bool {
	return bt != MemoryBackend
}
