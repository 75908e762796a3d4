// Command orcamento-report prints the monthly budget report for a period
// to stdout, defaulting to the current month.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"orcamento/internal/backend"
	"orcamento/internal/config"
	"orcamento/internal/core"
	applog "orcamento/internal/log"
	"orcamento/internal/report"
	"orcamento/internal/summary"
)

func main() {
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	now := time.Now()
	year := flag.Int("year", now.Year(), "report year")
	month := flag.Int("month", int(now.Month()), "report month (1-12)")
	asJSON := flag.Bool("json", false, "emit the report as JSON instead of text")
	flag.Parse()

	period := core.Period{Year: *year, Month: *month}
	if err := period.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid period %d-%d: %v\n", *year, *month, err)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err.Error())
		os.Exit(1)
	}

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Bad backend configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}
	result, err := backend.NewFactory(logger.Logger).Create(backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err.Error())
		os.Exit(1)
	}
	if result.Cleanup != nil {
		defer result.Cleanup()
	}

	calc := summary.NewCalculator(result.Store, cfg.CardNames)
	builder := report.NewBuilder(result.Store, calc, cfg.TrendLookbackMonths)

	out, err := builder.Build(context.Background(), period)
	if err != nil {
		logger.Error("Report build failed", applog.FieldPeriod, period.String(), applog.FieldError, err.Error())
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			logger.Error("Report encode failed", applog.FieldError, err.Error())
			os.Exit(1)
		}
		return
	}

	if err := out.WriteText(os.Stdout); err != nil {
		logger.Error("Report render failed", applog.FieldError, err.Error())
		os.Exit(1)
	}
}
