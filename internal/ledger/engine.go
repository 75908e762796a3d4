// Package ledger owns the mutation rules for period snapshots: appending
// and removing transactions and keeping the cash boxes consistent with the
// logs.
//
// Cash boxes reflect only transactions recorded while their period is the
// current one: mutating a past or future month leaves its boxes untouched.
// The installment projector is the one exception and books against the
// due month regardless. Every operation takes the current period as an
// explicit argument; there is no ambient "now" inside the engine.
package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
	applog "orcamento/internal/log"
	"orcamento/internal/store"
)

// Engine applies ledger mutations through load-mutate-save cycles against
// the period store. Snapshots are never cached across operations. The AMQP
// client is optional; when present, successful mutations publish a ledger
// event, and publish failures are logged without failing the operation.
type Engine struct {
	store  store.Store
	events *amqp.Client
}

func NewEngine(st store.Store, events *amqp.Client) *Engine {
	return &Engine{store: st, events: events}
}

// AddIncome appends an income transaction to the requested period. When
// that period is the current one the checking balance grows by the amount.
func (e *Engine) AddIncome(ctx context.Context, current core.Period, req EntryRequest) (core.Transaction, error) {
	return e.addEntry(ctx, current, req, core.KindIncome)
}

// AddExpense appends an expense transaction to the requested period. When
// that period is the current one the checking balance shrinks by the
// amount.
func (e *Engine) AddExpense(ctx context.Context, current core.Period, req EntryRequest) (core.Transaction, error) {
	return e.addEntry(ctx, current, req, core.KindExpense)
}

func (e *Engine) addEntry(ctx context.Context, current core.Period, req EntryRequest, kind core.TransactionKind) (core.Transaction, error) {
	if err := req.Validate(); err != nil {
		return core.Transaction{}, err
	}

	snapshot, err := e.store.Load(ctx, req.Period)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load period %s: %w", req.Period, err)
	}

	tx := core.NewTransaction(req.Description, req.Amount, req.Note, time.Now())
	list := snapshot.Entries(kind)
	*list = append(*list, tx)

	if req.Period == current {
		if kind == core.KindIncome {
			snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Add(req.Amount)
		} else {
			snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Sub(req.Amount)
		}
	}

	if err := e.store.Save(ctx, req.Period, snapshot); err != nil {
		return core.Transaction{}, fmt.Errorf("save period %s: %w", req.Period, err)
	}

	eventKind := amqp.EventIncomeAdded
	if kind == core.KindExpense {
		eventKind = amqp.EventExpenseAdded
	}
	e.publish(ctx, eventKind, req.Period, req.Description, req.Amount, req.Note)

	return tx, nil
}

// AddInvestmentContribution appends a contribution transaction whose
// description is the bucket name. When the period is current, the amount
// moves from checking into the bucket, creating the bucket if it is new.
func (e *Engine) AddInvestmentContribution(ctx context.Context, current core.Period, req ContributionRequest) (core.Transaction, error) {
	if err := req.Validate(); err != nil {
		return core.Transaction{}, err
	}

	snapshot, err := e.store.Load(ctx, req.Period)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("load period %s: %w", req.Period, err)
	}

	tx := core.NewTransaction(req.Bucket, req.Amount, req.Note, time.Now())
	snapshot.InvestmentContributions = append(snapshot.InvestmentContributions, tx)

	if req.Period == current {
		snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Sub(req.Amount)
		snapshot.CashBoxes.InvestmentBalances[req.Bucket] = snapshot.CashBoxes.InvestmentBalances[req.Bucket].Add(req.Amount)
	}

	if err := e.store.Save(ctx, req.Period, snapshot); err != nil {
		return core.Transaction{}, fmt.Errorf("save period %s: %w", req.Period, err)
	}
	e.publish(ctx, amqp.EventInvestmentAdded, req.Period, req.Bucket, req.Amount, req.Note)

	return tx, nil
}

// RemoveTransaction removes the transaction with the given stable ID and
// reverses its cash-box effect when the period is the current one:
// removing an income takes the amount back out of checking, removing an
// expense puts it back, and removing a contribution returns the money to
// checking and drains the bucket. Returns ErrNotFound when no transaction
// matches.
func (e *Engine) RemoveTransaction(ctx context.Context, current core.Period, req RemoveRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return e.remove(ctx, current, req.Period, req.Kind, func(tx core.Transaction) bool {
		return tx.ID == req.ID
	})
}

// RemoveTransactionByValue removes the first transaction matching the
// given description and amount. Value matching is ambiguous when duplicate
// entries exist; prefer RemoveTransaction.
func (e *Engine) RemoveTransactionByValue(ctx context.Context, current core.Period, req RemoveByValueRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return e.remove(ctx, current, req.Period, req.Kind, func(tx core.Transaction) bool {
		return tx.Description == req.Description && tx.Amount.Equal(req.Amount)
	})
}

func (e *Engine) remove(ctx context.Context, current, period core.Period, kind core.TransactionKind, match func(core.Transaction) bool) error {
	snapshot, err := e.store.Load(ctx, period)
	if err != nil {
		return fmt.Errorf("load period %s: %w", period, err)
	}

	list := snapshot.Entries(kind)
	idx := -1
	for i, tx := range *list {
		if match(tx) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%s transaction: %w", kind, core.ErrNotFound)
	}

	removed := (*list)[idx]
	*list = append((*list)[:idx], (*list)[idx+1:]...)

	if period == current {
		boxes := &snapshot.CashBoxes
		switch kind {
		case core.KindIncome:
			boxes.CheckingBalance = boxes.CheckingBalance.Sub(removed.Amount)
		case core.KindExpense:
			boxes.CheckingBalance = boxes.CheckingBalance.Add(removed.Amount)
		case core.KindInvestment:
			boxes.CheckingBalance = boxes.CheckingBalance.Add(removed.Amount)
			if _, ok := boxes.InvestmentBalances[removed.Description]; ok {
				boxes.InvestmentBalances[removed.Description] = boxes.InvestmentBalances[removed.Description].Sub(removed.Amount)
			}
		}
	}

	if err := e.store.Save(ctx, period, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", period, err)
	}
	e.publish(ctx, amqp.EventTransactionRemoved, period, removed.Description, removed.Amount, removed.Note)
	return nil
}

// RedeemInvestment moves money from a bucket back to checking in the
// current period. The bucket must exist; the caller must have confirmed.
// Redeeming more than the bucket holds is allowed and leaves the balance
// negative, which is logged as a warning.
func (e *Engine) RedeemInvestment(ctx context.Context, current core.Period, req RedeemRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	snapshot, err := e.store.Load(ctx, current)
	if err != nil {
		return fmt.Errorf("load period %s: %w", current, err)
	}

	balance, ok := snapshot.CashBoxes.InvestmentBalances[req.Bucket]
	if !ok {
		return fmt.Errorf("bucket %q: %w", req.Bucket, core.ErrNotFound)
	}
	if !req.Confirmed {
		return core.ErrConfirmationRequired
	}
	if req.Amount.Cmp(balance) > 0 {
		slog.WarnContext(ctx, "Redemption exceeds bucket balance",
			applog.FieldBucket, req.Bucket,
			"balance", balance.String(),
			applog.FieldAmount, req.Amount.String())
	}

	snapshot.CashBoxes.InvestmentBalances[req.Bucket] = balance.Sub(req.Amount)
	snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Add(req.Amount)

	if err := e.store.Save(ctx, current, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", current, err)
	}
	return nil
}

// WithdrawFromBucket removes a positive amount from a bucket and adds it
// to checking in the current period. Withdrawing more than the bucket
// holds requires confirmation and leaves the balance negative.
func (e *Engine) WithdrawFromBucket(ctx context.Context, current core.Period, req WithdrawRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	snapshot, err := e.store.Load(ctx, current)
	if err != nil {
		return fmt.Errorf("load period %s: %w", current, err)
	}

	balance, ok := snapshot.CashBoxes.InvestmentBalances[req.Bucket]
	if !ok {
		return fmt.Errorf("bucket %q: %w", req.Bucket, core.ErrNotFound)
	}
	if req.Amount.Cmp(balance) > 0 && !req.Confirmed {
		return core.ErrConfirmationRequired
	}

	snapshot.CashBoxes.InvestmentBalances[req.Bucket] = balance.Sub(req.Amount)
	snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Add(req.Amount)

	if err := e.store.Save(ctx, current, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", current, err)
	}
	return nil
}

// AdjustInvestmentBalance sets a bucket to an absolute value in the
// current period. The delta comes out of checking, so the books stay
// balanced.
func (e *Engine) AdjustInvestmentBalance(ctx context.Context, current core.Period, req AdjustRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	snapshot, err := e.store.Load(ctx, current)
	if err != nil {
		return fmt.Errorf("load period %s: %w", current, err)
	}

	balance, ok := snapshot.CashBoxes.InvestmentBalances[req.Bucket]
	if !ok {
		return fmt.Errorf("bucket %q: %w", req.Bucket, core.ErrNotFound)
	}

	delta := req.NewValue.Sub(balance)
	snapshot.CashBoxes.CheckingBalance = snapshot.CashBoxes.CheckingBalance.Sub(delta)
	snapshot.CashBoxes.InvestmentBalances[req.Bucket] = req.NewValue

	if err := e.store.Save(ctx, current, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", current, err)
	}
	return nil
}

// SetInitialCheckingBalance overwrites the checking balance of a period
// with an absolute value.
func (e *Engine) SetInitialCheckingBalance(ctx context.Context, req BalanceRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	snapshot, err := e.store.Load(ctx, req.Period)
	if err != nil {
		return fmt.Errorf("load period %s: %w", req.Period, err)
	}

	snapshot.CashBoxes.CheckingBalance = req.Value

	if err := e.store.Save(ctx, req.Period, snapshot); err != nil {
		return fmt.Errorf("save period %s: %w", req.Period, err)
	}
	return nil
}

func (e *Engine) publish(ctx context.Context, kind string, period core.Period, description string, amount core.Amount, note string) {
	if e.events == nil {
		return
	}
	ev := &amqp.LedgerEvent{
		Kind:        kind,
		Period:      period.String(),
		Description: description,
		Amount:      amount.String(),
		Note:        note,
		Timestamp:   time.Now(),
	}
	if err := e.events.PublishLedgerEvent(ctx, ev); err != nil {
		// The snapshot is already saved; event mirroring is best-effort.
		fields := applog.NewFields().
			WithEntry(period.String(), kind, description, amount.String()).
			WithError(err)
		slog.ErrorContext(ctx, "Failed to publish ledger event", fields.ToSlice()...)
	}
}
