package core

import (
	"sort"
	"time"
)

// MonthSummary holds the income, expense and balance totals of one calendar month.
// Expenses stay negative; callers take the absolute value for display.
type MonthSummary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

// CategoryTotal is the summed expense amount of one category code within a month.
type CategoryTotal struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

// MonthlyTotal is one bar of the yearly series. Month is 0-based (0 = January).
type MonthlyTotal struct {
	Month    int     `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}

// MonthBounds returns the first and last instant of the calendar month
// containing ref, in ref's location. Both bounds are inclusive.
func MonthBounds(ref time.Time) (start, end time.Time) {
	y, m, _ := ref.Date()
	start = time.Date(y, m, 1, 0, 0, 0, 0, ref.Location())
	end = start.AddDate(0, 1, 0).Add(-time.Nanosecond)
	return start, end
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}

// MonthlyTotals sums the transactions dated within the month of ref.
func MonthlyTotals(txs []Transaction, ref time.Time) MonthSummary {
	start, end := MonthBounds(ref)

	var s MonthSummary
	for _, t := range txs {
		if !inRange(t.Date, start, end) {
			continue
		}
		if t.Amount > 0 {
			s.Income += t.Amount
		} else {
			s.Expenses += t.Amount
		}
	}
	s.Balance = s.Income + s.Expenses
	return s
}

// CategoryTotals groups the expenses of ref's month by category code.
//
// Categories without expenses that month are omitted. The result is sorted
// by amount ascending, so the largest expense comes first; equal amounts are
// ordered by code.
func CategoryTotals(txs []Transaction, ref time.Time) []CategoryTotal {
	start, end := MonthBounds(ref)

	sums := make(map[string]float64)
	for _, t := range txs {
		if t.Amount >= 0 || !inRange(t.Date, start, end) {
			continue
		}
		sums[t.Category] += t.Amount
	}

	out := make([]CategoryTotal, 0, len(sums))
	for code, amount := range sums {
		out = append(out, CategoryTotal{Category: code, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount < out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// YearSeries returns exactly 12 monthly totals for year, zero-filled for
// months without activity. Dates are bucketed in loc (time.Local if nil).
func YearSeries(txs []Transaction, year int, loc *time.Location) []MonthlyTotal {
	if loc == nil {
		loc = time.Local
	}

	series := make([]MonthlyTotal, 12)
	for i := range series {
		series[i].Month = i
	}

	for _, t := range txs {
		d := t.Date.In(loc)
		if d.Year() != year {
			continue
		}
		idx := int(d.Month()) - 1
		if t.Amount > 0 {
			series[idx].Income += t.Amount
		} else {
			series[idx].Expenses += t.Amount
		}
	}
	return series
}
