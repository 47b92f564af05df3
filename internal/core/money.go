// Package core provides the transaction model, amount parsing and formatting,
// and the aggregation functions that turn a flat transaction list into
// monthly and per-category summaries.
//
// This file contains the helpers for sanitizing user-entered amounts and
// rendering amounts as currency strings.
package core

import (
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
)

// CurrencySymbol prefixes every formatted amount.
const CurrencySymbol = "$"

// MaxAmount is the largest magnitude ParseAmount accepts.
const MaxAmount = 1e12

// humanize.FormatFloat converts the integer part to int64, so magnitudes
// from here up are grouped from the plain decimal string instead. Floats
// this large carry no cents anyway.
const largeAmount = 1e15

// FormatCurrency renders amount with two decimals and comma thousands
// separators, prefixed by the currency symbol.
//
// The sign is kept as given, callers pass math.Abs when only the magnitude
// should be displayed.
//
// Examples:
//
//	FormatCurrency(1234.5)  -> "$1,234.50"
//	FormatCurrency(0)       -> "$0.00"
//	FormatCurrency(-30)     -> "$-30.00"
func FormatCurrency(amount float64) string {
	if math.Abs(amount) >= largeAmount {
		return CurrencySymbol + humanize.Commaf(math.Round(amount)) + ".00"
	}
	return CurrencySymbol + humanize.FormatFloat("#,###.##", amount)
}

// ExtractNumericValue strips every character except digits and '.'.
// It does not check that the result is a well-formed number.
func ExtractNumericValue(raw string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, raw)
}

// ParseAmount turns free-text amount input into a signed amount.
//
// The input is sanitized with ExtractNumericValue, so user-typed signs and
// currency symbols are ignored and the sign comes from kind. Empty,
// malformed (e.g. "1.2.3"), non-finite, zero and above-MaxAmount values are
// rejected with ErrInvalidAmount.
func ParseAmount(raw string, kind Kind) (float64, error) {
	if kind != Income && kind != Expense {
		return 0, ErrInvalidKind
	}
	clean := ExtractNumericValue(raw)
	if clean == "" {
		return 0, ErrInvalidAmount
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v == 0 || v > MaxAmount {
		return 0, ErrInvalidAmount
	}
	return v * kind.Sign(), nil
}
