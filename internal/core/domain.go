package core

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TransactionKind selects one of the three transaction lists in a snapshot.
type TransactionKind string

const (
	KindIncome     TransactionKind = "income"
	KindExpense    TransactionKind = "expense"
	KindInvestment TransactionKind = "investment"
)

// Validate returns ErrInvalidKind for unknown kinds.
func (k TransactionKind) Validate() error {
	switch k {
	case KindIncome, KindExpense, KindInvestment:
		return nil
	default:
		return ErrInvalidKind
	}
}

// Transaction is one income, expense, or investment-contribution event.
// Transactions are immutable once stored; the only mutation is removal.
// For investment contributions the description is the bucket name.
type Transaction struct {
	ID          string    `json:"id,omitempty"`
	Description string    `json:"description"`
	Amount      Amount    `json:"amount"`
	Note        string    `json:"note"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewTransaction builds a transaction with a fresh stable ID and the given
// creation time.
func NewTransaction(description string, amount Amount, note string, now time.Time) Transaction {
	return Transaction{
		ID:          NewTransactionID(),
		Description: description,
		Amount:      amount,
		Note:        note,
		Timestamp:   now,
	}
}

// NewTransactionID returns a stable identifier for a new transaction.
func NewTransactionID() string { return uuid.NewString() }

// InstallmentPurchase records a credit-card purchase split into equal
// monthly postings. InstallmentsRemaining is informational bookkeeping
// only; the projected expenses live as ordinary transactions in their own
// period snapshots and are never decremented through this record.
type InstallmentPurchase struct {
	Card                  string    `json:"card"`
	Description           string    `json:"description"`
	TotalAmount           Amount    `json:"totalAmount"`
	InstallmentAmount     Amount    `json:"installmentAmount"`
	InstallmentCount      int       `json:"installmentCount"`
	InstallmentsRemaining int       `json:"installmentsRemaining"`
	DueYear               int       `json:"dueYear"`
	DueMonth              int       `json:"dueMonth"`
	CreatedAt             time.Time `json:"createdAt"`
}

// DuePeriod returns the period of the first installment.
func (ip InstallmentPurchase) DuePeriod() Period {
	return Period{Year: ip.DueYear, Month: ip.DueMonth}
}

// CashBoxes holds the running balances of one period: the checking account
// and one balance per named investment bucket.
type CashBoxes struct {
	CheckingBalance    Amount            `json:"checkingBalance"`
	InvestmentBalances map[string]Amount `json:"investmentBalances"`
}

// BucketNames returns the bucket names sorted for deterministic iteration.
func (cb CashBoxes) BucketNames() []string {
	names := make([]string, 0, len(cb.InvestmentBalances))
	for name := range cb.InvestmentBalances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// InvestmentsTotal sums the bucket balances.
func (cb CashBoxes) InvestmentsTotal() Amount {
	total := Zero
	for _, v := range cb.InvestmentBalances {
		total = total.Add(v)
	}
	return total
}

// Snapshot is the full ledger document for one period.
type Snapshot struct {
	Incomes                 []Transaction         `json:"incomes"`
	Expenses                []Transaction         `json:"expenses"`
	InvestmentContributions []Transaction         `json:"investmentContributions"`
	InstallmentPurchases    []InstallmentPurchase `json:"installmentPurchases"`
	CashBoxes               CashBoxes             `json:"cashBoxes"`
}

// NewSnapshot returns a default-initialized snapshot: empty lists, zero
// checking balance, and the six canonical investment buckets at zero.
func NewSnapshot() Snapshot {
	s := Snapshot{
		Incomes:                 []Transaction{},
		Expenses:                []Transaction{},
		InvestmentContributions: []Transaction{},
		InstallmentPurchases:    []InstallmentPurchase{},
		CashBoxes: CashBoxes{
			InvestmentBalances: make(map[string]Amount, len(DefaultBuckets)),
		},
	}
	for _, b := range DefaultBuckets {
		s.CashBoxes.InvestmentBalances[b] = Zero
	}
	return s
}

// Normalize backfills fields a legacy snapshot may lack: nil transaction
// lists, a nil bucket map, any missing canonical bucket, and transaction
// IDs absent from files written before IDs existed. The repaired snapshot
// is only persisted on the next save.
func (s *Snapshot) Normalize() {
	if s.Incomes == nil {
		s.Incomes = []Transaction{}
	}
	if s.Expenses == nil {
		s.Expenses = []Transaction{}
	}
	if s.InvestmentContributions == nil {
		s.InvestmentContributions = []Transaction{}
	}
	if s.InstallmentPurchases == nil {
		s.InstallmentPurchases = []InstallmentPurchase{}
	}
	if s.CashBoxes.InvestmentBalances == nil {
		s.CashBoxes.InvestmentBalances = make(map[string]Amount, len(DefaultBuckets))
	}
	for _, b := range DefaultBuckets {
		if _, ok := s.CashBoxes.InvestmentBalances[b]; !ok {
			s.CashBoxes.InvestmentBalances[b] = Zero
		}
	}
	for _, list := range []*[]Transaction{&s.Incomes, &s.Expenses, &s.InvestmentContributions} {
		for i := range *list {
			if (*list)[i].ID == "" {
				(*list)[i].ID = NewTransactionID()
			}
		}
	}
}

// Entries returns a pointer to the transaction list selected by kind, so
// the engine can append to and remove from it in place.
func (s *Snapshot) Entries(kind TransactionKind) *[]Transaction {
	switch kind {
	case KindIncome:
		return &s.Incomes
	case KindExpense:
		return &s.Expenses
	case KindInvestment:
		return &s.InvestmentContributions
	default:
		return nil
	}
}
