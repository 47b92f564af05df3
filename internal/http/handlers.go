package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"walletmate/internal/core"
	"walletmate/internal/export"
	applog "walletmate/internal/log"
	"walletmate/internal/services"
	"walletmate/internal/settings"
)

const maxBodyBytes = 1 << 16

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":       "ok",
		"transactions": len(s.deps.Transactions.All()),
	})
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := core.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		Query:    q.Get("q"),
	}
	if k := strings.TrimSpace(q.Get("type")); k != "" && k != "all" {
		kind, err := core.ParseKind(k)
		if err != nil {
			writeError(w, http.StatusBadRequest, "type must be all, income or expense")
			return
		}
		f.Kind = kind
	}
	start, err := parseDate(q.Get("from"), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid from date")
		return
	}
	end, err := parseDate(q.Get("to"), s.deps.Location)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid to date")
		return
	}
	f.Start = start
	if !end.IsZero() {
		// "to" names a whole day
		f.End = end.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}

	txs := s.deps.Transactions.List(f)
	views := make([]transactionView, len(txs))
	for i, t := range txs {
		views[i] = s.view(t)
	}
	writeJSON(w, http.StatusOK, map[string]any{"transactions": views, "count": len(views)})
}

func (s *Server) decodeTransaction(w http.ResponseWriter, r *http.Request) (services.TransactionInput, bool) {
	var req transactionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return services.TransactionInput{}, false
	}

	kind, err := core.ParseKind(req.Type)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return services.TransactionInput{}, false
	}
	date, err := parseDate(req.Date, s.deps.Location)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid date")
		return services.TransactionInput{}, false
	}
	return services.TransactionInput{
		Amount:   string(req.Amount),
		Kind:     kind,
		Category: req.Category,
		Note:     req.Note,
		Date:     date,
	}, true
}

func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	if services.IsValidation(err) {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}
	applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed",
		applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeInternal)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}
	tx, err := s.deps.Transactions.Create(r.Context(), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, s.view(tx))
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	in, ok := s.decodeTransaction(w, r)
	if !ok {
		return
	}
	tx, updated, err := s.deps.Transactions.Update(r.Context(), r.PathValue("id"), in)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	if !updated {
		writeJSON(w, http.StatusOK, map[string]any{"updated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"updated": true, "transaction": s.view(tx)})
}

// handleDeleteTransaction answers 204 whether or not the id existed.
func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if _, err := s.deps.Transactions.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClearTransactions(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Transactions.ClearAll(r.Context()); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type monthResponse struct {
	services.MonthStats
	Display struct {
		Income   string `json:"income"`
		Expenses string `json:"expenses"`
		Balance  string `json:"balance"`
	} `json:"display"`
}

func (s *Server) handleMonthStats(w http.ResponseWriter, r *http.Request) {
	ref := s.now().In(s.deps.Location)
	if v := r.URL.Query().Get("date"); v != "" {
		d, err := parseDate(v, s.deps.Location)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		ref = d
	}

	resp := monthResponse{MonthStats: s.deps.Stats.Month(ref)}
	resp.Display.Income = core.FormatCurrency(resp.Summary.Income)
	resp.Display.Expenses = core.FormatCurrency(-resp.Summary.Expenses)
	resp.Display.Balance = core.FormatCurrency(resp.Summary.Balance)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleYearStats(w http.ResponseWriter, r *http.Request) {
	year := s.now().In(s.deps.Location).Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil || y < 1 || y > 9999 {
			writeError(w, http.StatusBadRequest, "year must be a number between 1 and 9999")
			return
		}
		year = y
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "months": s.deps.Stats.Year(year)})
}

func (s *Server) handleDownloadCSV(w http.ResponseWriter, r *http.Request) {
	txs := s.deps.Transactions.All()
	if len(txs) == 0 {
		writeError(w, http.StatusConflict, export.ErrNoTransactions.Error())
		return
	}
	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(export.CSV(txs, s.deps.ExportOptions)))
}

func (s *Server) handleShareExport(w http.ResponseWriter, r *http.Request) {
	target, err := s.deps.ExportTarget(r.Context(), r.URL.Query().Get("target"))
	switch {
	case errors.Is(err, export.ErrUnknownTarget), errors.Is(err, export.ErrTargetNotConfigured):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Export target setup failed",
			applog.FieldError, err, applog.FieldErrorType, applog.ErrorTypeConfiguration)
		writeError(w, http.StatusBadGateway, "export target unavailable: "+err.Error())
		return
	}
	ref, err := s.deps.Transactions.Export(r.Context(), target, s.deps.ExportOptions)
	switch {
	case errors.Is(err, export.ErrNoTransactions):
		writeError(w, http.StatusConflict, err.Error())
	case err != nil:
		writeError(w, http.StatusBadGateway, "export failed: "+err.Error())
	default:
		writeJSON(w, http.StatusOK, map[string]string{"target": target.Name(), "ref": ref})
	}
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"locale":     s.deps.Categories.Locale(),
		"fallback":   s.deps.Categories.Fallback().Code,
		"categories": s.deps.Categories.All(),
	})
}

type themeBody struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	th, err := s.deps.Preferences.Theme(r.Context())
	if err != nil {
		// the default theme is still usable
		applog.FromContext(r.Context()).WarnContext(r.Context(), "Failed to read theme", applog.FieldError, err)
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: string(th)})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var body themeBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}
	th, err := settings.ParseTheme(body.Theme)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "theme must be light or dark")
		return
	}
	if err := s.deps.Preferences.SetTheme(r.Context(), th); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: string(th)})
}

func (s *Server) handleToggleTheme(w http.ResponseWriter, r *http.Request) {
	th, err := s.deps.Preferences.ToggleTheme(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, themeBody{Theme: string(th)})
}
