package cli

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"walletmate/internal/config"
	"walletmate/internal/export"
)

func testLoader(t *testing.T) (ConfigLoader, *config.Config) {
	t.Helper()
	dir := t.TempDir()
	cfg := &config.Config{
		Port:             "8081",
		LogLevel:         "error",
		DataBackend:      config.BackendFile,
		DataFilePath:     filepath.Join(dir, "walletmate.json"),
		CategoryLocale:   "es",
		Timezone:         "UTC",
		ExportDir:        filepath.Join(dir, "export"),
		ExportDateLayout: "2/1/2006",
		StatsCacheSize:   4,
		StatsCacheTTL:    time.Minute,
	}
	return func() (*config.Config, error) { return cfg, cfg.Validate() }, cfg
}

func run(t *testing.T, load ConfigLoader, args ...string) string {
	t.Helper()
	out, err := ExecuteCommand(context.Background(), NewRootCommand(load), args...)
	if err != nil {
		t.Fatalf("%v: %v\n%s", args, err, out)
	}
	return out
}

var idPattern = regexp.MustCompile(`Added (\S+) `)

func TestCLIWorkflow(t *testing.T) {
	load, cfg := testLoader(t)

	out := run(t, load, "add", "--type", "income", "--amount", "1,500", "--category", "salario", "--date", "2025-03-01")
	if !strings.Contains(out, "+$1,500.00") {
		t.Fatalf("add output = %q", out)
	}
	out = run(t, load, "add", "-a", "$42.10", "-c", "comida", "-d", "2025-03-05")
	m := idPattern.FindStringSubmatch(out)
	if m == nil {
		t.Fatalf("no id in %q", out)
	}
	expenseID := m[1]

	out = run(t, load, "list")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], expenseID) {
		t.Fatalf("list = %q", out)
	}
	if !strings.Contains(lines[0], "Comida y Cena") || !strings.Contains(lines[0], "-$42.10") {
		t.Errorf("expense line = %q", lines[0])
	}

	out = run(t, load, "stats", "month", "--date", "2025-03-20")
	for _, want := range []string{"Marzo 2025", "Income:   $1,500.00", "Expenses: $42.10", "Balance:  $1,457.90"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats month missing %q in:\n%s", want, out)
		}
	}

	run(t, load, "edit", expenseID, "--amount", "50", "--note", "cena")
	out = run(t, load, "list", "--type", "expense")
	if !strings.Contains(out, "-$50.00") || !strings.Contains(out, "cena") {
		t.Errorf("edited list = %q", out)
	}

	out = run(t, load, "stats", "year", "--year", "2025")
	if lines := strings.Split(strings.TrimSpace(out), "\n"); len(lines) != 12 {
		t.Errorf("year stats has %d lines", len(lines))
	}

	out = run(t, load, "export")
	if !strings.Contains(out, filepath.Join(cfg.ExportDir, export.FileName)) {
		t.Errorf("export output = %q", out)
	}
	data, err := os.ReadFile(filepath.Join(cfg.ExportDir, export.FileName))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), export.Header) || !strings.Contains(string(data), "5/3/2025") {
		t.Errorf("csv = %q", data)
	}

	run(t, load, "delete", expenseID)
	if out := run(t, load, "delete", expenseID); !strings.Contains(out, "No transaction") {
		t.Errorf("second delete = %q", out)
	}

	if _, err := ExecuteCommand(context.Background(), NewRootCommand(load), "clear"); err == nil {
		t.Error("clear without --yes succeeded")
	}
	run(t, load, "clear", "--yes")
	if out := run(t, load, "list"); !strings.Contains(out, "No transactions") {
		t.Errorf("list after clear = %q", out)
	}
	if _, err := ExecuteCommand(context.Background(), NewRootCommand(load), "export"); err == nil {
		t.Error("export of empty list succeeded")
	}
}

func TestCLIRejectsInvalidInput(t *testing.T) {
	load, _ := testLoader(t)
	for _, args := range [][]string{
		{"add", "--amount", "0", "--category", "comida"},
		{"add", "--amount", "5", "--category", "comida", "--type", "transfer"},
		{"add", "--amount", "5", "--category", "comida", "--date", "03/01/2025"},
		{"theme", "sepia"},
	} {
		if _, err := ExecuteCommand(context.Background(), NewRootCommand(load), args...); err == nil {
			t.Errorf("%v succeeded", args)
		}
	}
}

func TestCLITheme(t *testing.T) {
	load, _ := testLoader(t)
	if out := run(t, load, "theme"); strings.TrimSpace(out) != "light" {
		t.Errorf("default theme = %q", out)
	}
	if out := run(t, load, "theme", "toggle"); strings.TrimSpace(out) != "dark" {
		t.Errorf("toggled theme = %q", out)
	}
	if out := run(t, load, "theme"); strings.TrimSpace(out) != "dark" {
		t.Errorf("persisted theme = %q", out)
	}
	run(t, load, "theme", "light")
	if out := run(t, load, "categories"); !strings.Contains(out, "otros") {
		t.Errorf("categories = %q", out)
	}
}
