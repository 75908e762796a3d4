package ledger

import (
	"strings"

	"orcamento/internal/core"
)

// Request objects validated once at the boundary, one per engine
// operation.

// EntryRequest adds one income or expense transaction.
type EntryRequest struct {
	Period      core.Period
	Description string
	Amount      core.Amount
	Note        string
}

func (r EntryRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return core.ErrEmptyDescription
	}
	return r.Period.Validate()
}

// ContributionRequest adds one investment contribution to a named bucket.
type ContributionRequest struct {
	Period core.Period
	Bucket string
	Amount core.Amount
	Note   string
}

func (r ContributionRequest) Validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return core.ErrEmptyBucket
	}
	return r.Period.Validate()
}

// RemoveRequest removes a transaction by its stable ID.
type RemoveRequest struct {
	Period core.Period
	Kind   core.TransactionKind
	ID     string
}

func (r RemoveRequest) Validate() error {
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.ID) == "" {
		return core.ErrNotFound
	}
	return r.Period.Validate()
}

// RemoveByValueRequest removes the first transaction whose description and
// amount match. Kept for compatibility with the original app, which had no
// stable IDs; with duplicate entries the match is ambiguous and the first
// one wins.
type RemoveByValueRequest struct {
	Period      core.Period
	Kind        core.TransactionKind
	Description string
	Amount      core.Amount
}

func (r RemoveByValueRequest) Validate() error {
	if err := r.Kind.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(r.Description) == "" {
		return core.ErrEmptyDescription
	}
	return r.Period.Validate()
}

// RedeemRequest moves money from an investment bucket back to checking in
// the current period. Confirmed carries the caller's explicit confirmation.
type RedeemRequest struct {
	Bucket    string
	Amount    core.Amount
	Confirmed bool
}

func (r RedeemRequest) Validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return core.ErrEmptyBucket
	}
	return nil
}

// WithdrawRequest removes a positive amount from a bucket and returns it to
// checking. Over-withdrawal (amount above the bucket balance) needs the
// caller's confirmation; the balance may go negative.
type WithdrawRequest struct {
	Bucket    string
	Amount    core.Amount
	Confirmed bool
}

func (r WithdrawRequest) Validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return core.ErrEmptyBucket
	}
	if !r.Amount.IsPositive() {
		return core.ErrInvalidAmount
	}
	return nil
}

// AdjustRequest sets a bucket to an absolute value. The delta is taken out
// of checking so money appearing in a bucket is modeled as having left the
// checking account.
type AdjustRequest struct {
	Bucket   string
	NewValue core.Amount
}

func (r AdjustRequest) Validate() error {
	if strings.TrimSpace(r.Bucket) == "" {
		return core.ErrEmptyBucket
	}
	return nil
}

// BalanceRequest overwrites a period's checking balance with an absolute
// value.
type BalanceRequest struct {
	Period core.Period
	Value  core.Amount
}

func (r BalanceRequest) Validate() error {
	return r.Period.Validate()
}
