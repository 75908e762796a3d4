// Package summary derives read-only aggregates from period snapshots:
// period totals, cash-box rollups, month-over-month comparisons, and
// per-card spending trends. Nothing here mutates the store.
package summary

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"orcamento/internal/core"
	"orcamento/internal/store"
)

// Calculator reads snapshots through the period store. The card list
// drives the trend comparison; nil falls back to the canonical cards.
type Calculator struct {
	store store.Store
	cards []string
}

func NewCalculator(st store.Store, cards []string) *Calculator {
	if len(cards) == 0 {
		cards = core.DefaultCards
	}
	return &Calculator{store: st, cards: cards}
}

// Cards returns the card names the trend comparison tracks.
func (c *Calculator) Cards() []string {
	return append([]string(nil), c.cards...)
}

// PeriodSummary aggregates one period's transaction lists.
type PeriodSummary struct {
	Period          core.Period `json:"period"`
	TotalIncome     core.Amount `json:"totalIncome"`
	TotalExpense    core.Amount `json:"totalExpense"`
	TotalInvestment core.Amount `json:"totalInvestment"`
	// Balance is income minus expense; investment contributions are not
	// subtracted here.
	Balance core.Amount `json:"balance"`
	// InvestmentPctOfIncome is totalInvestment/totalIncome*100, or 0 when
	// the period has no income.
	InvestmentPctOfIncome float64 `json:"investmentPctOfIncome"`
}

// CashBoxSummary rolls up one period's balances.
type CashBoxSummary struct {
	Period           core.Period `json:"period"`
	Checking         core.Amount `json:"checking"`
	InvestmentsTotal core.Amount `json:"investmentsTotal"`
	GrandTotal       core.Amount `json:"grandTotal"`
}

// BucketVariance compares one bucket's balance against the prior month.
// Infinite marks a balance that appeared out of nothing (previous == 0,
// current > 0); PctChange is meaningless in that case.
type BucketVariance struct {
	Bucket    string      `json:"bucket"`
	Current   core.Amount `json:"currentValue"`
	Previous  core.Amount `json:"previousValue"`
	PctChange float64     `json:"pctChange"`
	Infinite  bool        `json:"infinite"`
}

// CategoryComparison compares one expense category's monthly total against
// the prior month. When the category had no previous total and has one
// now, PctDelta is pinned to 100 — not the infinite marker the bucket
// variance uses. The two sentinels differ on purpose; downstream reports
// format them differently and depend on it.
type CategoryComparison struct {
	Category string      `json:"category"`
	Current  core.Amount `json:"currentTotal"`
	Previous core.Amount `json:"previousTotal"`
	Delta    core.Amount `json:"delta"`
	PctDelta float64     `json:"pctDelta"`
}

// CardTrend holds per-card totals over a trailing window, oldest month
// first. Totals is keyed by card name and aligned with Periods.
type CardTrend struct {
	Cards   []string                 `json:"cards"`
	Periods []core.Period            `json:"periods"`
	Totals  map[string][]core.Amount `json:"totals"`
}

func sumAmounts(txs []core.Transaction) core.Amount {
	total := core.Zero
	for _, tx := range txs {
		total = total.Add(tx.Amount)
	}
	return total
}

// SummarizePeriod computes the period's totals and balance.
func (c *Calculator) SummarizePeriod(ctx context.Context, period core.Period) (PeriodSummary, error) {
	snapshot, err := c.store.Load(ctx, period)
	if err != nil {
		return PeriodSummary{}, fmt.Errorf("load period %s: %w", period, err)
	}

	s := PeriodSummary{
		Period:          period,
		TotalIncome:     sumAmounts(snapshot.Incomes),
		TotalExpense:    sumAmounts(snapshot.Expenses),
		TotalInvestment: sumAmounts(snapshot.InvestmentContributions),
	}
	s.Balance = s.TotalIncome.Sub(s.TotalExpense)
	if s.TotalIncome.IsPositive() {
		s.InvestmentPctOfIncome = s.TotalInvestment.Ratio(s.TotalIncome) * 100
	}
	return s, nil
}

// CashBoxes rolls up the period's checking and bucket balances.
func (c *Calculator) CashBoxes(ctx context.Context, period core.Period) (CashBoxSummary, error) {
	snapshot, err := c.store.Load(ctx, period)
	if err != nil {
		return CashBoxSummary{}, fmt.Errorf("load period %s: %w", period, err)
	}

	s := CashBoxSummary{
		Period:           period,
		Checking:         snapshot.CashBoxes.CheckingBalance,
		InvestmentsTotal: snapshot.CashBoxes.InvestmentsTotal(),
	}
	s.GrandTotal = s.Checking.Add(s.InvestmentsTotal)
	return s, nil
}

// InvestmentVariance compares each of the period's buckets against the
// prior month, sorted by bucket name.
func (c *Calculator) InvestmentVariance(ctx context.Context, period core.Period) ([]BucketVariance, error) {
	snapshot, err := c.store.Load(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", period, err)
	}
	previous, err := c.store.Load(ctx, period.Prev())
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", period.Prev(), err)
	}

	rows := make([]BucketVariance, 0, len(snapshot.CashBoxes.InvestmentBalances))
	for _, bucket := range snapshot.CashBoxes.BucketNames() {
		cur := snapshot.CashBoxes.InvestmentBalances[bucket]
		prev := previous.CashBoxes.InvestmentBalances[bucket]
		row := BucketVariance{Bucket: bucket, Current: cur, Previous: prev}
		switch {
		case prev.IsPositive():
			row.PctChange = cur.Sub(prev).Ratio(prev) * 100
		case cur.IsPositive():
			row.Infinite = true
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func expensesByCategory(txs []core.Transaction) map[string]core.Amount {
	totals := make(map[string]core.Amount)
	for _, tx := range txs {
		totals[tx.Description] = totals[tx.Description].Add(tx.Amount)
	}
	return totals
}

// ExpenseComparison compares per-category expense totals against the
// prior month, over the union of categories seen in either month, sorted
// by category name.
func (c *Calculator) ExpenseComparison(ctx context.Context, period core.Period) ([]CategoryComparison, error) {
	snapshot, err := c.store.Load(ctx, period)
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", period, err)
	}
	previous, err := c.store.Load(ctx, period.Prev())
	if err != nil {
		return nil, fmt.Errorf("load period %s: %w", period.Prev(), err)
	}

	cur := expensesByCategory(snapshot.Expenses)
	prev := expensesByCategory(previous.Expenses)

	categories := make([]string, 0, len(cur)+len(prev))
	seen := make(map[string]bool, len(cur)+len(prev))
	for category := range cur {
		seen[category] = true
		categories = append(categories, category)
	}
	for category := range prev {
		if !seen[category] {
			categories = append(categories, category)
		}
	}
	sort.Strings(categories)

	rows := make([]CategoryComparison, 0, len(categories))
	for _, category := range categories {
		row := CategoryComparison{
			Category: category,
			Current:  cur[category],
			Previous: prev[category],
		}
		row.Delta = row.Current.Sub(row.Previous)
		switch {
		case row.Previous.IsPositive():
			row.PctDelta = row.Delta.Ratio(row.Previous) * 100
		case !row.Current.IsZero():
			row.PctDelta = 100
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Trend totals card spending, by substring match of the card name in
// expense descriptions, over the trailing lookbackMonths ending at period
// inclusive. lookbackMonths <= 0 defaults to 12.
func (c *Calculator) Trend(ctx context.Context, period core.Period, lookbackMonths int) (CardTrend, error) {
	if lookbackMonths <= 0 {
		lookbackMonths = 12
	}

	trend := CardTrend{
		Cards:   c.Cards(),
		Periods: make([]core.Period, 0, lookbackMonths),
		Totals:  make(map[string][]core.Amount, len(c.cards)),
	}
	for i := lookbackMonths - 1; i >= 0; i-- {
		trend.Periods = append(trend.Periods, period.AddMonths(-i))
	}

	for _, p := range trend.Periods {
		snapshot, err := c.store.Load(ctx, p)
		if err != nil {
			return CardTrend{}, fmt.Errorf("load period %s: %w", p, err)
		}
		for _, card := range trend.Cards {
			total := core.Zero
			for _, tx := range snapshot.Expenses {
				if strings.Contains(tx.Description, card) {
					total = total.Add(tx.Amount)
				}
			}
			trend.Totals[card] = append(trend.Totals[card], total)
		}
	}
	return trend, nil
}
