// Package installment expands a credit-card purchase into equal monthly
// expense postings across consecutive period snapshots.
package installment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
	applog "orcamento/internal/log"
	"orcamento/internal/store"
)

// Projector books installment purchases. Each affected period snapshot is
// loaded and saved independently; there is no multi-period transaction. A
// crash partway leaves earlier months booked and later months not, and
// re-running the same purchase duplicates the months already written —
// callers must treat a partial projection as a manual-repair situation.
type Projector struct {
	store  store.Store
	events *amqp.Client
}

func NewProjector(st store.Store, events *amqp.Client) *Projector {
	return &Projector{store: st, events: events}
}

// PurchaseRequest describes one installment purchase to project.
type PurchaseRequest struct {
	Card             string
	Description      string
	TotalAmount      core.Amount
	InstallmentCount int
	Due              core.Period
}

func (r PurchaseRequest) Validate() error {
	if strings.TrimSpace(r.Card) == "" {
		return core.ErrEmptyCard
	}
	if strings.TrimSpace(r.Description) == "" {
		return core.ErrEmptyDescription
	}
	if r.InstallmentCount < 1 {
		return core.ErrInvalidCount
	}
	return r.Due.Validate()
}

// installmentLabel renders the expense description for installment i of n,
// the label the card trend comparison later matches by card-name
// substring.
func installmentLabel(card, description string, i, n int) string {
	return fmt.Sprintf("%s - Parcela %d/%d: %s", card, i, n, description)
}

// AddPurchase records the purchase in its due period and books one expense
// per installment month, starting at the due period and rolling past
// December into the next year.
//
// Unlike the manual expense path, every booked installment decrements its
// period's checking balance whether or not that period is the current one:
// the purchase is booked at its own due date, not at "now". The per-month
// amount is the plain quotient total/count; rounding drift across the
// installments is not redistributed.
func (p *Projector) AddPurchase(ctx context.Context, req PurchaseRequest) (core.InstallmentPurchase, error) {
	if err := req.Validate(); err != nil {
		return core.InstallmentPurchase{}, err
	}

	per := req.TotalAmount.DivInt(int64(req.InstallmentCount))
	purchase := core.InstallmentPurchase{
		Card:                  req.Card,
		Description:           req.Description,
		TotalAmount:           req.TotalAmount,
		InstallmentAmount:     per,
		InstallmentCount:      req.InstallmentCount,
		InstallmentsRemaining: req.InstallmentCount,
		DueYear:               req.Due.Year,
		DueMonth:              req.Due.Month,
		CreatedAt:             time.Now(),
	}

	snapshot, err := p.store.Load(ctx, req.Due)
	if err != nil {
		return core.InstallmentPurchase{}, fmt.Errorf("load due period %s: %w", req.Due, err)
	}
	snapshot.InstallmentPurchases = append(snapshot.InstallmentPurchases, purchase)
	if err := p.store.Save(ctx, req.Due, snapshot); err != nil {
		return core.InstallmentPurchase{}, fmt.Errorf("save due period %s: %w", req.Due, err)
	}

	for i := 1; i <= req.InstallmentCount; i++ {
		target := req.Due.AddMonths(i - 1)
		if err := p.bookInstallment(ctx, target, req, per, i); err != nil {
			return purchase, fmt.Errorf("installment %d/%d: %w", i, req.InstallmentCount, err)
		}
	}

	slog.InfoContext(ctx, "Installment purchase projected",
		applog.FieldCard, req.Card,
		applog.FieldDesc, req.Description,
		"total", req.TotalAmount.String(),
		"installments", req.InstallmentCount,
		"due", req.Due.String())

	return purchase, nil
}

func (p *Projector) bookInstallment(ctx context.Context, target core.Period, req PurchaseRequest, per core.Amount, i int) error {
	snapshot, err := p.store.Load(ctx, target)
	if err != nil {
		return fmt.Errorf("load period %s: %w", target, err)
	}

	label := installmentLabel(req.Card, req.Description, i, req.InstallmentCount)
	snapshot.Expenses = append(snapshot.Expenses, core.NewTransaction(label, per, "", time.Now()))
	snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Sub(per)

	if err := p.store.Save(ctx, target, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", target, err)
	}

	if p.events != nil {
		ev := &amqp.LedgerEvent{
			Kind:        amqp.EventInstallmentBooked,
			Period:      target.String(),
			Description: label,
			Amount:      per.String(),
			Timestamp:   time.Now(),
		}
		if err := p.events.PublishLedgerEvent(ctx, ev); err != nil {
			slog.ErrorContext(ctx, "Failed to publish installment event",
				applog.FieldPeriod, target.String(), applog.FieldError, err.Error())
		}
	}
	return nil
}

// RemovePurchase deletes the purchase records matching (card, description)
// from the current period's list. The per-month expenses already booked by
// the projection stay where they are; removing the record only stops it
// from showing up in the purchase table.
func (p *Projector) RemovePurchase(ctx context.Context, current core.Period, card, description string) error {
	if strings.TrimSpace(card) == "" {
		return core.ErrEmptyCard
	}
	if strings.TrimSpace(description) == "" {
		return core.ErrEmptyDescription
	}

	snapshot, err := p.store.Load(ctx, current)
	if err != nil {
		return fmt.Errorf("load period %s: %w", current, err)
	}

	kept := snapshot.InstallmentPurchases[:0]
	for _, purchase := range snapshot.InstallmentPurchases {
		if purchase.Card == card && purchase.Description == description {
			continue
		}
		kept = append(kept, purchase)
	}
	if len(kept) == len(snapshot.InstallmentPurchases) {
		return fmt.Errorf("installment purchase %q/%q: %w", card, description, core.ErrNotFound)
	}
	snapshot.InstallmentPurchases = kept

	if err := p.store.Save(ctx, current, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", current, err)
	}
	return nil
}
