package store

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"orcamento/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "orcamento.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreLoadMissingReturnsDefaults(t *testing.T) {
	s := newTestSQLiteStore(t)

	snap, err := s.Load(context.Background(), core.Period{Year: 2025, Month: 2})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Expenses) != 0 || len(snap.CashBoxes.InvestmentBalances) != len(core.DefaultBuckets) {
		t.Fatalf("missing row should yield default snapshot, got %+v", snap)
	}
}

func TestSQLiteStoreSaveLoadRoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	period := core.Period{Year: 2025, Month: 2}

	snap := core.NewSnapshot()
	snap.Expenses = append(snap.Expenses, core.NewTransaction("Despesa Supermercado", core.NewAmount(35075, -2), "", time.Date(2025, 2, 10, 12, 0, 0, 0, time.UTC)))
	snap.CashBoxes.CheckingBalance = core.NewAmount(-35075, -2)

	if err := s.Save(ctx, period, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := s.Load(ctx, period)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(got, snap) {
		t.Fatalf("round trip mismatch:\ngot  %+v\nwant %+v", got, snap)
	}
}

func TestSQLiteStoreSaveOverwrites(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()
	period := core.Period{Year: 2025, Month: 5}

	first := core.NewSnapshot()
	first.Incomes = append(first.Incomes, core.NewTransaction("Salário", core.AmountFromInt(100), "", time.Now().UTC().Truncate(time.Second)))
	if err := s.Save(ctx, period, first); err != nil {
		t.Fatalf("first save: %v", err)
	}

	second := core.NewSnapshot()
	if err := s.Save(ctx, period, second); err != nil {
		t.Fatalf("second save: %v", err)
	}

	got, err := s.Load(ctx, period)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.Incomes) != 0 {
		t.Fatalf("save should fully overwrite, still have %d incomes", len(got.Incomes))
	}
}

func TestSQLiteStoreCorruptDocumentSubstitutesDefaults(t *testing.T) {
	s := newTestSQLiteStore(t)
	ctx := context.Background()

	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO snapshots (year, month, document) VALUES (2025, 9, '{broken')`); err != nil {
		t.Fatalf("insert corrupt row: %v", err)
	}

	got, err := s.Load(ctx, core.Period{Year: 2025, Month: 9})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got.CashBoxes.InvestmentBalances) != len(core.DefaultBuckets) {
		t.Fatal("corrupt document should be replaced by defaults")
	}
}
