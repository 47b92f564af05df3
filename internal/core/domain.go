package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

type (
	// Kind is the user-facing transaction type. It is never stored: the sign
	// of Amount is the only persisted indicator.
	Kind string

	Transaction struct {
		ID       string    `json:"id"`
		Amount   float64   `json:"amount"` // positive = income, negative = expense
		Category string    `json:"category"`
		Note     string    `json:"note"`
		Date     time.Time `json:"date"`
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrInvalidKind   = errors.New("invalid transaction type")
	ErrEmptyCategory = errors.New("empty category")
	ErrZeroDate      = errors.New("date cannot be zero")
	ErrEmptyID       = errors.New("empty id")
)

// IsIncome reports whether the transaction adds money.
func (t Transaction) IsIncome() bool {
	return t.Amount > 0
}

// IsExpense reports whether the transaction removes money.
func (t Transaction) IsExpense() bool {
	return t.Amount < 0
}

// Kind derives the transaction type from the sign of the amount.
func (t Transaction) Kind() Kind {
	if t.Amount > 0 {
		return Income
	}
	return Expense
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if t.Amount == 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	return nil
}

// ParseKind accepts "income" and "expense" plus the Spanish labels
// "ingreso" and "gasto".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "ingreso":
		return Income, nil
	case "expense", "gasto":
		return Expense, nil
	default:
		return "", ErrInvalidKind
	}
}

// Sign returns +1 for income and -1 for expense.
func (k Kind) Sign() float64 {
	if k == Income {
		return 1
	}
	return -1
}
