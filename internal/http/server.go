// Package http exposes the ledger over a JSON API. Mutating endpoints
// take the acting period from the year/month query parameters, defaulting
// to the wall-clock month, so a client can post into past or future
// months while cash boxes only move for the month it is acting in.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"orcamento/internal/installment"
	"orcamento/internal/ledger"
	applog "orcamento/internal/log"
	"orcamento/internal/report"
	"orcamento/internal/summary"
)

// Server wires the ledger engine, installment projector, and read-side
// calculators into an http.Server.
type Server struct {
	http.Server

	engine    *ledger.Engine
	projector *installment.Projector
	calc      *summary.Calculator
	reports   *report.Builder

	logger       *applog.Logger
	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

func NewServer(addr string, engine *ledger.Engine, projector *installment.Projector, calc *summary.Calculator, reports *report.Builder, logger *applog.Logger) *Server {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		engine:      engine,
		projector:   projector,
		calc:        calc,
		reports:     reports,
		logger:      logger.WithComponent(applog.ComponentHTTP),
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("/incomes", s.withRequestLogging(s.handleIncomes))
	mux.HandleFunc("/expenses", s.withRequestLogging(s.handleExpenses))
	mux.HandleFunc("/investments", s.withRequestLogging(s.handleInvestments))
	mux.HandleFunc("/transactions", s.withRequestLogging(s.handleTransactions))
	mux.HandleFunc("/installments", s.withRequestLogging(s.handleInstallments))

	mux.HandleFunc("/investments/redeem", s.withRequestLogging(s.handleRedeem))
	mux.HandleFunc("/investments/withdraw", s.withRequestLogging(s.handleWithdraw))
	mux.HandleFunc("/investments/adjust", s.withRequestLogging(s.handleAdjust))
	mux.HandleFunc("/balance", s.withRequestLogging(s.handleBalance))

	mux.HandleFunc("/summary", s.withRequestLogging(s.handleSummary))
	mux.HandleFunc("/cashboxes", s.withRequestLogging(s.handleCashBoxes))
	mux.HandleFunc("/investments/variance", s.withRequestLogging(s.handleVariance))
	mux.HandleFunc("/expenses/comparison", s.withRequestLogging(s.handleComparison))
	mux.HandleFunc("/cards/trend", s.withRequestLogging(s.handleCardTrend))
	mux.HandleFunc("/report", s.withRequestLogging(s.handleReport))
	mux.HandleFunc("/taxonomy", s.withRequestLogging(s.handleTaxonomy))

	return s
}

// withRequestLogging adds security headers, rate limiting, and request
// logging around a handler.
func (s *Server) withRequestLogging(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), applog.LoggerContextKey, s.logger.With(applog.FieldRequestID, requestID))
		r = r.WithContext(ctx)

		started := applog.NewFields().
			WithHTTPRequest(r.Method, r.URL.Path, r.URL.RawQuery, r.UserAgent())
		started[applog.FieldRequestID] = requestID
		started[applog.FieldClientIP] = clientIP
		s.logger.InfoContext(ctx, "Request started", started.ToSlice()...)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				applog.FieldClientIP, clientIP, applog.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		completed := applog.NewFields().
			WithHTTPResponse(rw.statusCode, duration.Milliseconds(), rw.statusCode < http.StatusBadRequest)
		completed[applog.FieldRequestID] = requestID
		completed[applog.FieldMethod] = r.Method
		completed[applog.FieldPath] = r.URL.Path
		completed[applog.FieldClientIP] = clientIP
		s.logger.InfoContext(ctx, "Request completed", completed.ToSlice()...)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ok")
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "ready")
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})

	return shutdownErr
}
