// Package category maps category codes to display metadata.
//
// Codes are data: aggregation groups by whatever string is stored, and this
// package only decorates results. Unknown codes resolve to the table's
// fallback entry.
package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

type Category struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Color string `json:"color"`
	Icon  string `json:"icon"`
}

// Table is an ordered, immutable category lookup.
type Table struct {
	locale   string
	items    []Category
	byCode   map[string]Category
	fallback Category
}

var ErrNoFallback = errors.New("category table has no fallback entry")

// NewTable builds a table from items. fallbackCode must be one of the item
// codes; it is returned for every unknown code.
func NewTable(locale string, items []Category, fallbackCode string) (*Table, error) {
	t := &Table{
		locale: locale,
		byCode: make(map[string]Category, len(items)),
	}
	for _, c := range items {
		c.Code = strings.TrimSpace(c.Code)
		if c.Code == "" {
			continue
		}
		if _, dup := t.byCode[c.Code]; dup {
			continue
		}
		t.items = append(t.items, c)
		t.byCode[c.Code] = c
	}
	fb, ok := t.byCode[fallbackCode]
	if !ok {
		return nil, ErrNoFallback
	}
	t.fallback = fb
	return t, nil
}

// Locale returns the language tag the labels are written in.
func (t *Table) Locale() string { return t.locale }

// All returns the categories in definition order.
func (t *Table) All() []Category {
	return append([]Category(nil), t.items...)
}

// Has reports whether code is defined in the table.
func (t *Table) Has(code string) bool {
	_, ok := t.byCode[code]
	return ok
}

// Lookup returns the category for code, or the fallback entry.
func (t *Table) Lookup(code string) Category {
	if c, ok := t.byCode[code]; ok {
		return c
	}
	return t.fallback
}

func (t *Table) Label(code string) string { return t.Lookup(code).Label }
func (t *Table) Color(code string) string { return t.Lookup(code).Color }
func (t *Table) Icon(code string) string  { return t.Lookup(code).Icon }

// Fallback returns the entry used for unknown codes.
func (t *Table) Fallback() Category { return t.fallback }

type fileTable struct {
	Locale     string     `json:"locale"`
	Fallback   string     `json:"fallback"`
	Categories []Category `json:"categories"`
}

// LoadFile reads a table from a JSON document of the form
//
//	{"locale": "en", "fallback": "other", "categories": [{"code": "food", "label": "Food", ...}]}
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read categories file: %w", err)
	}
	var ft fileTable
	if err := json.Unmarshal(data, &ft); err != nil {
		return nil, fmt.Errorf("decode categories file: %w", err)
	}
	t, err := NewTable(ft.Locale, ft.Categories, ft.Fallback)
	if err != nil {
		return nil, fmt.Errorf("categories file %s: %w", path, err)
	}
	return t, nil
}

// ForLocale returns the built-in table for locale ("es" or "en").
func ForLocale(locale string) (*Table, error) {
	switch strings.ToLower(strings.TrimSpace(locale)) {
	case "", "es":
		return NewTable("es", spanish, "otros")
	case "en":
		return NewTable("en", english, "other")
	default:
		return nil, fmt.Errorf("unsupported category locale %q", locale)
	}
}
