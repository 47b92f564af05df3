package core

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Filter narrows a transaction list for display. Zero values disable the
// corresponding criterion.
type Filter struct {
	Kind     Kind   // "" = all
	Category string // "" = all
	Start    time.Time
	End      time.Time
	Query    string // matched against note and absolute amount
}

// Apply returns the matching transactions sorted newest first.
// The input slice is not modified.
func (f Filter) Apply(txs []Transaction) []Transaction {
	query := strings.ToLower(strings.TrimSpace(f.Query))

	out := make([]Transaction, 0, len(txs))
	for _, t := range txs {
		switch f.Kind {
		case Income:
			if !t.IsIncome() {
				continue
			}
		case Expense:
			if !t.IsExpense() {
				continue
			}
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if !f.Start.IsZero() && t.Date.Before(f.Start) {
			continue
		}
		if !f.End.IsZero() && t.Date.After(f.End) {
			continue
		}
		if query != "" && !matchesQuery(t, query) {
			continue
		}
		out = append(out, t)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date)
	})
	return out
}

func matchesQuery(t Transaction, query string) bool {
	if strings.Contains(strings.ToLower(t.Note), query) {
		return true
	}
	abs := strconv.FormatFloat(math.Abs(t.Amount), 'f', -1, 64)
	return strings.Contains(abs, query)
}
