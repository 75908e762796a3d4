// Command orcamento-worker consumes ledger events from AMQP and mirrors
// them to the household's Google Sheets spreadsheet.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"orcamento/internal/amqp"
	"orcamento/internal/config"
	"orcamento/internal/export"
	applog "orcamento/internal/log"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentWorker)
	applog.SetDefault(logger)

	logger.Info("Starting orcamento-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exporter, err := export.NewFromEnv(ctx)
	if err != nil {
		logger.Error("Failed to initialize Google Sheets exporter", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Google Sheets exporter initialized", "spreadsheet_id", cfg.GoogleSpreadsheetID)

	events, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer events.Close()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return events.ConsumeLedgerEvents(gctx, func(ev *amqp.LedgerEvent) error {
			ref, err := exporter.AppendEvent(gctx, *ev)
			if err != nil {
				logger.ErrorContext(gctx, "Mirror failed, event will be redelivered",
					applog.FieldKind, ev.Kind,
					applog.FieldPeriod, ev.Period,
					applog.FieldError, err.Error())
				return err
			}
			logger.InfoContext(gctx, "Event mirrored",
				applog.FieldKind, ev.Kind,
				applog.FieldPeriod, ev.Period,
				"sheets_ref", ref)
			return nil
		})
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("Worker stopped with error", applog.FieldError, err.Error())
		os.Exit(1)
	}
	logger.Info("Worker stopped gracefully")
}
