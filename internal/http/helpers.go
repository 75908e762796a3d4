package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"orcamento/internal/core"
	applog "orcamento/internal/log"
)

// ParsePeriodParams extracts year and month from query parameters, using
// the wall-clock month as the default. This is the period the request
// acts in: cash boxes only move when the target period equals it. An
// unparsable or out-of-range selector yields ErrInvalidPeriod.
func ParsePeriodParams(query url.Values) (core.Period, error) {
	period := core.CurrentPeriod()

	if v := strings.TrimSpace(query.Get("year")); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: year %q", core.ErrInvalidPeriod, v)
		}
		period.Year = y
	}
	if v := strings.TrimSpace(query.Get("month")); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return core.Period{}, fmt.Errorf("%w: month %q", core.ErrInvalidPeriod, v)
		}
		period.Month = m
	}

	if err := period.Validate(); err != nil {
		return core.Period{}, err
	}
	return period, nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeError maps domain errors onto HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeJSONError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrConfirmationRequired):
		writeJSONError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrEmptyDescription),
		errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrInvalidPeriod),
		errors.Is(err, core.ErrEmptyBucket),
		errors.Is(err, core.ErrEmptyCard),
		errors.Is(err, core.ErrInvalidCount),
		errors.Is(err, core.ErrInvalidKind):
		writeJSONError(w, http.StatusBadRequest, err.Error())
	default:
		applog.FromContext(r.Context()).ErrorContext(r.Context(), "Request failed", applog.FieldError, err.Error())
		writeJSONError(w, http.StatusInternalServerError, "internal error")
	}
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeJSONError(w, http.StatusMethodNotAllowed, "method not allowed")
}
