package http

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"walletmate/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// transactionView is a transaction decorated for display.
type transactionView struct {
	core.Transaction
	Type          core.Kind `json:"type"`
	Display       string    `json:"display"`
	CategoryLabel string    `json:"category_label"`
	CategoryColor string    `json:"category_color"`
	CategoryIcon  string    `json:"category_icon"`
}

func (s *Server) view(t core.Transaction) transactionView {
	c := s.deps.Categories.Lookup(t.Category)
	sign := "+"
	if t.IsExpense() {
		sign = "-"
	}
	amount := t.Amount
	if amount < 0 {
		amount = -amount
	}
	return transactionView{
		Transaction:   t,
		Type:          t.Kind(),
		Display:       sign + core.FormatCurrency(amount),
		CategoryLabel: c.Label,
		CategoryColor: c.Color,
		CategoryIcon:  c.Icon,
	}
}

// flexAmount accepts a JSON number or string and keeps the raw text so the
// creation path can sanitize it like form input.
type flexAmount string

func (a *flexAmount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = flexAmount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = flexAmount(n.String())
	return nil
}

// transactionRequest is the body of create and update calls. Date accepts
// YYYY-MM-DD (in the server location) or RFC 3339.
type transactionRequest struct {
	Amount   flexAmount `json:"amount"`
	Type     string     `json:"type"`
	Category string     `json:"category"`
	Note     string     `json:"note"`
	Date     string     `json:"date"`
}

func parseDate(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if d, err := time.ParseInLocation("2006-01-02", s, loc); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339, s)
}
