package amqp

import (
	"encoding/json"
	"time"
)

// Event kinds published by the ledger engine and the installment projector.
const (
	EventIncomeAdded        = "income.added"
	EventExpenseAdded       = "expense.added"
	EventInvestmentAdded    = "investment.added"
	EventTransactionRemoved = "transaction.removed"
	EventInstallmentBooked  = "installment.booked"
)

// LedgerEvent is the message mirrored to downstream consumers whenever a
// period snapshot is mutated. It carries the posted values, not the full
// snapshot; consumers that need more re-read the period.
type LedgerEvent struct {
	Kind        string    `json:"kind"`
	Period      string    `json:"period"` // "2025-01"
	Description string    `json:"description"`
	Amount      string    `json:"amount"` // decimal string, e.g. "33.33"
	Note        string    `json:"note,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// ToJSON converts the event to JSON bytes.
func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// LedgerEventFromJSON creates an event from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var ev LedgerEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, err
	}
	return &ev, nil
}
