package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"walletmate/internal/amqp"
	"walletmate/internal/config"
	"walletmate/internal/kv/file"
	"walletmate/internal/kv/memory"
	"walletmate/internal/kv/sqlite"
	applog "walletmate/internal/log"
)

func TestCreateBackend(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name   string
		config Config
		check  func(t *testing.T, r *BackendResult)
	}{
		{
			name:   "memory",
			config: Config{Type: MemoryBackend},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*memory.Store); !ok {
					t.Errorf("store = %T", r.Store)
				}
			},
		},
		{
			name:   "file",
			config: Config{Type: FileBackend, FilePath: filepath.Join(dir, "data.json")},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*file.Store); !ok {
					t.Errorf("store = %T", r.Store)
				}
			},
		},
		{
			name:   "sqlite",
			config: Config{Type: SQLiteBackend, SQLiteDBPath: filepath.Join(dir, "walletmate.db")},
			check: func(t *testing.T, r *BackendResult) {
				if _, ok := r.Store.(*sqlite.Store); !ok {
					t.Errorf("store = %T", r.Store)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewFactory(applog.Discard()).CreateBackend(context.Background(), tt.config)
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer r.Cleanup()
			tt.check(t, r)
			if r.Publisher != nil {
				t.Error("publisher set without AMQP URL")
			}
			if err := r.Store.SetItem(context.Background(), "k", "v"); err != nil {
				t.Errorf("SetItem: %v", err)
			}
		})
	}
}

func TestCreateBackendInvalid(t *testing.T) {
	f := NewFactory(applog.Discard())
	for _, cfg := range []Config{
		{Type: "sheets"},
		{Type: FileBackend},
		{Type: PostgresBackend},
	} {
		if _, err := f.CreateBackend(context.Background(), cfg); err == nil {
			t.Errorf("CreateBackend(%+v) succeeded", cfg)
		}
	}
}

func TestCreateBackendContinuesWithoutBroker(t *testing.T) {
	f := NewFactory(applog.Discard())
	f.dialAMQP = func(url, exchange, queue string, logger *applog.Logger) (*amqp.Client, error) {
		return nil, errors.New("connection refused")
	}
	r, err := f.CreateBackend(context.Background(), Config{Type: MemoryBackend, AMQPURL: "amqp://localhost"})
	if err != nil {
		t.Fatalf("CreateBackend: %v", err)
	}
	if r.Publisher != nil {
		t.Error("publisher should be nil when dial fails")
	}
	if err := r.Cleanup(); err != nil {
		t.Errorf("Cleanup: %v", err)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{DataBackend: "sqlite", SQLiteDBPath: "/tmp/x.db", AMQPQueue: "q"}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	if bc.Type != SQLiteBackend || bc.SQLiteDBPath != "/tmp/x.db" || bc.AMQPQueue != "q" {
		t.Errorf("FromAppConfig = %+v", bc)
	}
	if !bc.Type.Shared() || MemoryBackend.Shared() {
		t.Error("Shared() mismatch")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "nope"}); err == nil {
		t.Error("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}
	if got := GetBackendTypeStrings(); len(got) != 4 || got[0] != "memory" {
		t.Errorf("GetBackendTypeStrings = %v", got)
	}
}
