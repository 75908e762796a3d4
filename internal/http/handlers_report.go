package http

import (
	"net/http"
	"strconv"
	"strings"

	"orcamento/internal/core"
	applog "orcamento/internal/log"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.calc.SummarizePeriod(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCashBoxes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.calc.CashBoxes(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleVariance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := s.calc.InvestmentVariance(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleComparison(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := s.calc.ExpenseComparison(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (s *Server) handleCardTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	lookback := 0
	if v := strings.TrimSpace(r.URL.Query().Get("months")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			lookback = n
		}
	}

	trend, err := s.calc.Trend(r.Context(), period, lookback)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, trend)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	period, err := ParsePeriodParams(r.URL.Query())
	if err != nil {
		writeError(w, r, err)
		return
	}

	out, err := s.reports.Build(r.Context(), period)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if r.URL.Query().Get("format") == "text" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		if err := out.WriteText(w); err != nil {
			applog.FromContext(r.Context()).ErrorContext(r.Context(), "Report render failed", applog.FieldError, err.Error())
		}
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleTaxonomy serves the canonical pick lists clients use to populate
// entry forms.
func (s *Server) handleTaxonomy(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"buckets":           core.DefaultBuckets,
		"cards":             s.calc.Cards(),
		"expenseCategories": core.DefaultExpenseCategories,
		"incomeCategories":  core.DefaultIncomeCategories,
	})
}
