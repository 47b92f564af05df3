package export

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"walletmate/internal/core"
)

var sample = []core.Transaction{
	{ID: "1", Amount: 1500, Category: "salario", Note: "Nómina", Date: time.Date(2025, time.March, 5, 10, 0, 0, 0, time.UTC)},
	{ID: "2", Amount: -12.5, Category: "comida", Note: `He said "hi"`, Date: time.Date(2025, time.December, 24, 20, 0, 0, 0, time.UTC)},
}

func TestCSV(t *testing.T) {
	got := CSV(sample, Options{Location: time.UTC})
	want := strings.Join([]string{
		"ID,Amount,Category,Note,Date",
		`1,1500.00,"salario","Nómina",5/3/2025`,
		`2,-12.50,"comida","He said ""hi""",24/12/2025`,
	}, "\n")
	if got != want {
		t.Fatalf("csv mismatch:\n%s\nwant:\n%s", got, want)
	}
	if !strings.Contains(got, `"He said ""hi"""`) {
		t.Fatalf("note not escaped: %s", got)
	}
}

func TestCSVCustomLayoutAndLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	tx := []core.Transaction{{ID: "x", Amount: 1, Category: "c", Date: time.Date(2025, time.January, 1, 2, 0, 0, 0, time.UTC)}}
	got := CSV(tx, Options{DateLayout: "2006-01-02", Location: loc})
	if !strings.HasSuffix(got, ",2024-12-31") {
		t.Fatalf("expected date in target location, got %q", got)
	}
}

func TestRows(t *testing.T) {
	rows := Rows(sample, Options{Location: time.UTC})
	if len(rows) != 3 || rows[0][0] != "ID" || rows[2][3] != `He said "hi"` || rows[2][1] != "-12.50" {
		t.Fatalf("unexpected rows %v", rows)
	}
}

func TestFileTargetOverwrites(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "exports")
	target := FileTarget{Dir: dir}

	ref, err := Export(context.Background(), target, sample, Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if ref != filepath.Join(dir, FileName) {
		t.Fatalf("ref = %q", ref)
	}

	if _, err := Export(context.Background(), target, sample[:1], Options{Location: time.UTC}); err != nil {
		t.Fatalf("second export: %v", err)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if strings.Count(string(data), "\n") != 1 {
		t.Fatalf("export not overwritten: %q", data)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("temp files left behind: %v", entries)
	}
}

func TestExportRejectsEmpty(t *testing.T) {
	if _, err := Export(context.Background(), FileTarget{Dir: t.TempDir()}, nil, Options{}); !errors.Is(err, ErrNoTransactions) {
		t.Fatalf("expected ErrNoTransactions, got %v", err)
	}
}

type fakeValues struct {
	cleared string
	updated string
	rows    [][]any
	err     error
}

func (f *fakeValues) Clear(_ context.Context, _, rng string) error {
	f.cleared = rng
	return f.err
}

func (f *fakeValues) Update(_ context.Context, _, rng string, rows [][]any) error {
	f.updated = rng
	f.rows = rows
	return nil
}

func TestSheetsTargetShare(t *testing.T) {
	fv := &fakeValues{}
	target := &SheetsTarget{values: fv, spreadsheetID: "sheet-id", sheetName: "Transactions"}

	ref, err := target.Share(context.Background(), sample, Options{Location: time.UTC})
	if err != nil {
		t.Fatalf("share: %v", err)
	}
	if fv.cleared != "Transactions!A:E" || ref != "Transactions!A1:E3" || fv.updated != ref {
		t.Fatalf("cleared=%q updated=%q ref=%q", fv.cleared, fv.updated, ref)
	}
	if len(fv.rows) != 3 || fv.rows[1][0] != "1" {
		t.Fatalf("rows = %v", fv.rows)
	}

	fv.err = errors.New("403")
	if _, err := target.Share(context.Background(), sample, Options{}); !errors.Is(err, ErrShare) {
		t.Fatalf("expected ErrShare, got %v", err)
	}
}

func TestNewSheetsTargetRequiresConfig(t *testing.T) {
	if _, err := NewSheetsTarget(context.Background(), SheetsConfig{}); err == nil {
		t.Fatalf("expected error without spreadsheet id")
	}
	if _, err := NewSheetsTarget(context.Background(), SheetsConfig{SpreadsheetID: "x"}); err == nil {
		t.Fatalf("expected error without credentials")
	}
}
