package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"walletmate/internal/core"
)

// Target receives a finished export. Share returns a reference to where the
// document ended up (a path, a sheet range).
type Target interface {
	Name() string
	Share(ctx context.Context, txs []core.Transaction, opts Options) (ref string, err error)
}

// FileTarget writes the CSV to a fixed file in Dir, replacing the previous
// export atomically.
type FileTarget struct {
	Dir string
}

func (f FileTarget) Name() string { return "file" }

// Path returns the export file location.
func (f FileTarget) Path() string {
	return filepath.Join(f.Dir, FileName)
}

func (f FileTarget) Share(_ context.Context, txs []core.Transaction, opts Options) (string, error) {
	if err := os.MkdirAll(f.Dir, 0755); err != nil {
		return "", fmt.Errorf("%w: create export dir: %w", ErrShare, err)
	}

	tmp, err := os.CreateTemp(f.Dir, ".export-*.csv")
	if err != nil {
		return "", fmt.Errorf("%w: create temp file: %w", ErrShare, err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.WriteString(CSV(txs, opts)); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: write: %w", ErrShare, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: close: %w", ErrShare, err)
	}
	if err := os.Rename(tmpName, f.Path()); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: replace: %w", ErrShare, err)
	}
	return f.Path(), nil
}

// Export shares txs through target. An empty list is rejected before the
// target is touched.
func Export(ctx context.Context, target Target, txs []core.Transaction, opts Options) (string, error) {
	if len(txs) == 0 {
		return "", ErrNoTransactions
	}
	return target.Share(ctx, txs, opts)
}
