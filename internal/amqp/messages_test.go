package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventJSONRoundTrip(t *testing.T) {
	ev := &LedgerEvent{
		Kind:        EventExpenseAdded,
		Period:      "2025-03",
		Description: "Despesa Supermercado",
		Amount:      "350.75",
		Note:        "semanal",
		Timestamp:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
	}

	data, err := ev.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	back, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON: %v", err)
	}
	if *back != *ev {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", back, ev)
	}
}

func TestLedgerEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{nope")); err == nil {
		t.Fatal("expected error for invalid payload")
	}
}
