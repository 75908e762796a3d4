// Package report assembles the monthly budget report: overall totals,
// cash-box balances, income and investment detail, expenses grouped by
// category, and the trailing card comparison.
package report

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"orcamento/internal/core"
	"orcamento/internal/store"
	"orcamento/internal/summary"
)

// Report is the assembled monthly report.
type Report struct {
	Period      core.Period `json:"period"`
	GeneratedAt time.Time   `json:"generatedAt"`

	TotalIncome core.Amount `json:"totalIncome"`
	// TotalOutflow is expenses plus investment contributions; the final
	// balance subtracts both, unlike the plain period summary.
	TotalOutflow core.Amount `json:"totalOutflow"`
	FinalBalance core.Amount `json:"finalBalance"`

	CashBoxes summary.CashBoxSummary `json:"cashBoxes"`

	Incomes            []core.Transaction `json:"incomes"`
	ExpensesByCategory []CategoryTotal    `json:"expensesByCategory"`
	Investments        []core.Transaction `json:"investments"`

	CardComparison CardComparison `json:"cardComparison"`
}

// CategoryTotal is one row of the grouped expense table.
type CategoryTotal struct {
	Category string      `json:"category"`
	Total    core.Amount `json:"total"`
}

// CardComparison is the trailing per-card spending table, oldest month
// first. Each row's cells align with Cards.
type CardComparison struct {
	Cards []string            `json:"cards"`
	Rows  []CardComparisonRow `json:"rows"`
}

type CardComparisonRow struct {
	Period core.Period `json:"period"`
	Cells  []CardCell  `json:"cells"`
}

// CardCell is one card's total for one month. HasDelta is false on the
// window's oldest month, where there is no prior cell to compare with.
// When the prior month was zero and this one is not, PctDelta is pinned
// to 100.
type CardCell struct {
	Total    core.Amount `json:"total"`
	Delta    core.Amount `json:"delta"`
	PctDelta float64     `json:"pctDelta"`
	HasDelta bool        `json:"hasDelta"`
}

// Builder assembles reports from the period store.
type Builder struct {
	store          store.Store
	calc           *summary.Calculator
	lookbackMonths int
}

func NewBuilder(st store.Store, calc *summary.Calculator, lookbackMonths int) *Builder {
	if lookbackMonths <= 0 {
		lookbackMonths = 12
	}
	return &Builder{store: st, calc: calc, lookbackMonths: lookbackMonths}
}

// Build loads everything the report needs and assembles it. The three
// source queries are independent and run concurrently.
func (b *Builder) Build(ctx context.Context, period core.Period) (Report, error) {
	r := Report{Period: period, GeneratedAt: time.Now()}

	var (
		snapshot core.Snapshot
		boxes    summary.CashBoxSummary
		trend    summary.CardTrend
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		snapshot, err = b.store.Load(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		boxes, err = b.calc.CashBoxes(gctx, period)
		return err
	})
	g.Go(func() error {
		var err error
		trend, err = b.calc.Trend(gctx, period, b.lookbackMonths)
		return err
	})
	if err := g.Wait(); err != nil {
		return Report{}, fmt.Errorf("build report for %s: %w", period, err)
	}

	for _, tx := range snapshot.Incomes {
		r.TotalIncome = r.TotalIncome.Add(tx.Amount)
	}
	for _, tx := range snapshot.Expenses {
		r.TotalOutflow = r.TotalOutflow.Add(tx.Amount)
	}
	for _, tx := range snapshot.InvestmentContributions {
		r.TotalOutflow = r.TotalOutflow.Add(tx.Amount)
	}
	r.FinalBalance = r.TotalIncome.Sub(r.TotalOutflow)

	r.CashBoxes = boxes
	r.Incomes = snapshot.Incomes
	r.Investments = snapshot.InvestmentContributions
	r.ExpensesByCategory = groupExpenses(snapshot.Expenses)
	r.CardComparison = compareCards(trend)
	return r, nil
}

func groupExpenses(txs []core.Transaction) []CategoryTotal {
	totals := make(map[string]core.Amount)
	for _, tx := range txs {
		totals[tx.Description] = totals[tx.Description].Add(tx.Amount)
	}
	rows := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		rows = append(rows, CategoryTotal{Category: category, Total: total})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Category < rows[j].Category })
	return rows
}

func compareCards(trend summary.CardTrend) CardComparison {
	cmp := CardComparison{
		Cards: trend.Cards,
		Rows:  make([]CardComparisonRow, 0, len(trend.Periods)),
	}
	for i, period := range trend.Periods {
		row := CardComparisonRow{Period: period, Cells: make([]CardCell, 0, len(trend.Cards))}
		for _, card := range trend.Cards {
			cell := CardCell{Total: trend.Totals[card][i]}
			if i > 0 {
				previous := trend.Totals[card][i-1]
				cell.HasDelta = true
				cell.Delta = cell.Total.Sub(previous)
				switch {
				case previous.IsPositive():
					cell.PctDelta = cell.Delta.Ratio(previous) * 100
				case !cell.Total.IsZero():
					cell.PctDelta = 100
				}
			}
			row.Cells = append(row.Cells, cell)
		}
		cmp.Rows = append(cmp.Rows, row)
	}
	return cmp
}
