package store

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"orcamento/internal/core"
)

func TestFileStoreLoadMissingReturnsDefaults(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	s, err := fs.Load(context.Background(), core.Period{Year: 2025, Month: 1})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Incomes) != 0 || len(s.Expenses) != 0 || len(s.InvestmentContributions) != 0 {
		t.Fatal("missing file should yield empty lists")
	}
	if len(s.CashBoxes.InvestmentBalances) != len(core.DefaultBuckets) {
		t.Fatalf("got %d buckets, want the %d defaults", len(s.CashBoxes.InvestmentBalances), len(core.DefaultBuckets))
	}
	for name, v := range s.CashBoxes.InvestmentBalances {
		if !v.IsZero() {
			t.Fatalf("bucket %q = %v, want 0", name, v)
		}
	}
}

func TestFileStoreSaveLoadRoundTrip(t *testing.T) {
	fs, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	ctx := context.Background()
	period := core.Period{Year: 2025, Month: 3}

	s := core.NewSnapshot()
	s.Incomes = append(s.Incomes, core.NewTransaction("Salário", core.NewAmount(500000, -2), "mensal", time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)))
	s.CashBoxes.CheckingBalance = core.NewAmount(500000, -2)
	s.CashBoxes.InvestmentBalances["CDB"] = core.AmountFromInt(1200)

	if err := fs.Save(ctx, period, s); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := fs.Load(ctx, period)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if !reflect.DeepEqual(got, s) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, s)
	}

	// Saving and reloading the defaults must be idempotent too.
	def := core.NewSnapshot()
	if err := fs.Save(ctx, core.Period{Year: 2025, Month: 4}, def); err != nil {
		t.Fatalf("Save defaults: %v", err)
	}
	got, err = fs.Load(ctx, core.Period{Year: 2025, Month: 4})
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}
	if !reflect.DeepEqual(got, def) {
		t.Fatalf("default round trip mismatch:\ngot  %+v\nwant %+v", got, def)
	}
}

func TestFileStoreLoadCorruptFileSubstitutesDefaults(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	path := filepath.Join(dir, "orcamento_2025_06.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write corrupt file: %v", err)
	}

	s, err := fs.Load(context.Background(), core.Period{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.CashBoxes.InvestmentBalances) != len(core.DefaultBuckets) {
		t.Fatal("corrupt file should be replaced by defaults")
	}
}

func TestFileStoreLoadBackfillsLegacyDocument(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	// A legacy file: missing top-level keys, missing buckets, no IDs,
	// amounts as plain floats.
	legacy := `{
	  "expenses": [{"description": "Aluguel", "amount": 901.5, "note": "", "timestamp": "2025-06-01T00:00:00Z"}],
	  "cashBoxes": {"checkingBalance": -901.5, "investmentBalances": {"CDB": 300}}
	}`
	path := filepath.Join(dir, "orcamento_2025_06.json")
	if err := os.WriteFile(path, []byte(legacy), 0644); err != nil {
		t.Fatalf("write legacy file: %v", err)
	}

	s, err := fs.Load(context.Background(), core.Period{Year: 2025, Month: 6})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Incomes == nil || s.InvestmentContributions == nil || s.InstallmentPurchases == nil {
		t.Fatal("legacy load should backfill missing lists")
	}
	if s.Expenses[0].ID == "" {
		t.Fatal("legacy transactions should get IDs on load")
	}
	if !s.Expenses[0].Amount.Equal(core.NewAmount(9015, -1)) {
		t.Fatalf("expense amount = %v, want 901.5", s.Expenses[0].Amount)
	}
	for _, b := range core.DefaultBuckets {
		if _, ok := s.CashBoxes.InvestmentBalances[b]; !ok {
			t.Fatalf("bucket %q not backfilled", b)
		}
	}
	if !s.CashBoxes.InvestmentBalances["CDB"].Equal(core.AmountFromInt(300)) {
		t.Fatal("existing bucket balance must survive backfill")
	}

	// Repair happens in memory only; the file is untouched until a save.
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("re-read: %v", err)
	}
	if string(raw) != legacy {
		t.Fatal("Load must not rewrite the on-disk document")
	}
}
