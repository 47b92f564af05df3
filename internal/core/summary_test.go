package core

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestMonthlyTotals(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: 100, Category: "salario", Date: day(2025, time.March, 5)},
		{ID: "2", Amount: -30, Category: "comida", Date: day(2025, time.March, 20)},
		{ID: "3", Amount: 50, Category: "regalos", Date: day(2025, time.April, 1)},
	}

	got := MonthlyTotals(txs, day(2025, time.March, 15))
	want := MonthSummary{Income: 100, Expenses: -30, Balance: 70}
	if got != want {
		t.Fatalf("march totals = %+v, want %+v", got, want)
	}

	got = MonthlyTotals(txs, day(2025, time.April, 30))
	if got != (MonthSummary{Income: 50, Balance: 50}) {
		t.Fatalf("april totals = %+v", got)
	}

	if got := MonthlyTotals(nil, day(2025, time.March, 1)); got != (MonthSummary{}) {
		t.Fatalf("empty totals = %+v", got)
	}
}

func TestMonthlyTotalsBoundaries(t *testing.T) {
	first := time.Date(2025, time.May, 1, 0, 0, 0, 0, time.UTC)
	last := time.Date(2025, time.May, 31, 23, 59, 59, 999999999, time.UTC)
	txs := []Transaction{
		{ID: "a", Amount: 10, Category: "x", Date: first},
		{ID: "b", Amount: 5, Category: "x", Date: last},
		{ID: "c", Amount: 7, Category: "x", Date: first.Add(-time.Nanosecond)},
	}

	may := MonthlyTotals(txs, day(2025, time.May, 10))
	if may.Income != 15 {
		t.Fatalf("expected both boundary transactions in May, got %+v", may)
	}
	april := MonthlyTotals(txs, day(2025, time.April, 10))
	if april.Income != 7 {
		t.Fatalf("first instant of May leaked into April: %+v", april)
	}
}

func TestMonthBoundsUsesReferenceLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	start, end := MonthBounds(time.Date(2025, time.February, 10, 0, 0, 0, 0, loc))
	if start.Location() != loc || start.Day() != 1 || start.Month() != time.February {
		t.Fatalf("unexpected start %v", start)
	}
	if end.Month() != time.February || end.Day() != 28 {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestCategoryTotals(t *testing.T) {
	ref := day(2025, time.June, 1)
	txs := []Transaction{
		{ID: "1", Amount: -20, Category: "comida", Date: day(2025, time.June, 2)},
		{ID: "2", Amount: -5, Category: "comida", Date: day(2025, time.June, 3)},
		{ID: "3", Amount: -100, Category: "vivienda", Date: day(2025, time.June, 4)},
		{ID: "4", Amount: 300, Category: "viajes", Date: day(2025, time.June, 5)},
		{ID: "5", Amount: -8, Category: "no-such-code", Date: day(2025, time.June, 6)},
		{ID: "6", Amount: -999, Category: "comida", Date: day(2025, time.July, 1)},
	}

	got := CategoryTotals(txs, ref)
	want := []CategoryTotal{
		{Category: "vivienda", Amount: -100},
		{Category: "comida", Amount: -25},
		{Category: "no-such-code", Amount: -8},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d totals, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("total %d = %+v, want %+v", i, got[i], want[i])
		}
	}
	for _, ct := range got {
		if ct.Category == "viajes" {
			t.Fatalf("income-only category must be omitted: %+v", got)
		}
	}
}

func TestCategoryTotalsEmptyMonth(t *testing.T) {
	got := CategoryTotals([]Transaction{
		{ID: "1", Amount: 10, Category: "viajes", Date: day(2025, time.June, 2)},
	}, day(2025, time.June, 1))
	if len(got) != 0 {
		t.Fatalf("expected no totals, got %+v", got)
	}
}

func TestYearSeries(t *testing.T) {
	txs := []Transaction{
		{ID: "1", Amount: 100, Category: "salario", Date: day(2025, time.January, 10)},
		{ID: "2", Amount: -40, Category: "comida", Date: day(2025, time.January, 11)},
		{ID: "3", Amount: -15, Category: "comida", Date: day(2025, time.December, 31)},
		{ID: "4", Amount: 999, Category: "salario", Date: day(2024, time.December, 31)},
	}

	series := YearSeries(txs, 2025, time.UTC)
	if len(series) != 12 {
		t.Fatalf("expected 12 entries, got %d", len(series))
	}
	for i, m := range series {
		if m.Month != i {
			t.Fatalf("entry %d has month %d", i, m.Month)
		}
	}
	if series[0].Income != 100 || series[0].Expenses != -40 {
		t.Fatalf("january = %+v", series[0])
	}
	if series[11].Expenses != -15 || series[11].Income != 0 {
		t.Fatalf("december = %+v", series[11])
	}
	for i := 1; i < 11; i++ {
		if series[i].Income != 0 || series[i].Expenses != 0 {
			t.Fatalf("month %d should be zero: %+v", i, series[i])
		}
	}

	empty := YearSeries(nil, 2030, nil)
	if len(empty) != 12 {
		t.Fatalf("expected 12 zero entries, got %d", len(empty))
	}
}
