// Package export renders transactions as CSV and hands the document to a
// share target.
package export

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"walletmate/internal/core"
)

const (
	Header = "ID,Amount,Category,Note,Date"

	// DefaultDateLayout renders dates the way es-ES toLocaleDateString does (d/m/yyyy).
	DefaultDateLayout = "2/1/2006"
	FileName          = "walletmate_transactions.csv"
	ContentType       = "text/csv"
)

var (
	ErrNoTransactions = errors.New("no transactions to export")
	ErrShare          = errors.New("share export")

	// ErrUnknownTarget and ErrTargetNotConfigured describe a bad target
	// request rather than a failed share.
	ErrUnknownTarget       = errors.New("unknown export target")
	ErrTargetNotConfigured = errors.New("export target not configured")
)

// Options controls date rendering.
type Options struct {
	DateLayout string
	Location   *time.Location
}

func (o Options) withDefaults() Options {
	if o.DateLayout == "" {
		o.DateLayout = DefaultDateLayout
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	return o
}

// Rows returns the header and one record per transaction, unquoted.
func Rows(txs []core.Transaction, opts Options) [][]string {
	opts = opts.withDefaults()
	rows := make([][]string, 0, len(txs)+1)
	rows = append(rows, strings.Split(Header, ","))
	for _, t := range txs {
		rows = append(rows, []string{
			t.ID,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			t.Category,
			t.Note,
			t.Date.In(opts.Location).Format(opts.DateLayout),
		})
	}
	return rows
}

// CSV renders txs as a CSV document. Category and note are always quoted
// with embedded quotes doubled; rows are separated by "\n" with no trailing
// newline.
func CSV(txs []core.Transaction, opts Options) string {
	opts = opts.withDefaults()

	var b strings.Builder
	b.WriteString(Header)
	for _, t := range txs {
		b.WriteByte('\n')
		b.WriteString(t.ID)
		b.WriteByte(',')
		b.WriteString(strconv.FormatFloat(t.Amount, 'f', 2, 64))
		b.WriteByte(',')
		b.WriteString(quote(t.Category))
		b.WriteByte(',')
		b.WriteString(quote(t.Note))
		b.WriteByte(',')
		b.WriteString(t.Date.In(opts.Location).Format(opts.DateLayout))
	}
	return b.String()
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
