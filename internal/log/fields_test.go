package log

import (
	"context"
	"errors"
	"testing"
)

func TestLogFieldsBuilder(t *testing.T) {
	fields := NewFields().
		WithComponent(ComponentLedger).
		WithOperation("add_expense").
		WithEntry("2025-03", "expense", "Mercado", "150.50").
		WithError(errors.New("broker down"))

	want := map[string]any{
		FieldComponent: ComponentLedger,
		FieldOperation: "add_expense",
		FieldPeriod:    "2025-03",
		FieldKind:      "expense",
		FieldDesc:      "Mercado",
		FieldAmount:    "150.50",
		FieldError:     "broker down",
	}
	if len(fields) != len(want) {
		t.Fatalf("fields has %d entries, want %d: %v", len(fields), len(want), fields)
	}
	for k, v := range want {
		if fields[k] != v {
			t.Errorf("fields[%q] = %v, want %v", k, fields[k], v)
		}
	}
}

func TestLogFieldsWithErrorNil(t *testing.T) {
	fields := NewFields().WithError(nil)
	if _, ok := fields[FieldError]; ok {
		t.Errorf("WithError(nil) added an error field: %v", fields)
	}
}

func TestLogFieldsToSlice(t *testing.T) {
	fields := NewFields().WithHTTPResponse(200, 15, true)
	slice := fields.ToSlice()

	if len(slice) != len(fields)*2 {
		t.Fatalf("ToSlice() has %d elements, want %d", len(slice), len(fields)*2)
	}
	got := map[string]any{}
	for i := 0; i < len(slice); i += 2 {
		key, ok := slice[i].(string)
		if !ok {
			t.Fatalf("ToSlice()[%d] = %v, want string key", i, slice[i])
		}
		got[key] = slice[i+1]
	}
	if got[FieldStatusCode] != 200 || got[FieldDuration] != int64(15) || got[FieldSuccess] != true {
		t.Errorf("ToSlice() round-trip = %v", got)
	}
}

func TestFromContextFallback(t *testing.T) {
	logger := FromContext(context.Background())
	if logger == nil {
		t.Fatal("FromContext(background) = nil")
	}
	if logger.Component() != ComponentApp {
		t.Errorf("fallback component = %q, want %q", logger.Component(), ComponentApp)
	}
}
