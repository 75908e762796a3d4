package core

import (
	"errors"
	"testing"
)

func TestPeriodAddMonthsRollsYear(t *testing.T) {
	tests := []struct {
		name  string
		start Period
		n     int
		want  Period
	}{
		{"same year", Period{2025, 1}, 2, Period{2025, 3}},
		{"december rolls", Period{2025, 11}, 2, Period{2026, 1}},
		{"multi year", Period{2025, 6}, 30, Period{2027, 12}},
		{"zero", Period{2025, 6}, 0, Period{2025, 6}},
		{"backwards", Period{2025, 1}, -1, Period{2024, 12}},
		{"backwards multi", Period{2025, 3}, -15, Period{2023, 12}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.start.AddMonths(tt.n); got != tt.want {
				t.Fatalf("AddMonths(%d) from %v = %v, want %v", tt.n, tt.start, got, tt.want)
			}
		})
	}
}

func TestPeriodPrevAcrossYearBoundary(t *testing.T) {
	if got := (Period{2025, 1}).Prev(); got != (Period{2024, 12}) {
		t.Fatalf("Prev() = %v, want 2024-12", got)
	}
}

func TestPeriodValidate(t *testing.T) {
	tests := []struct {
		name    string
		p       Period
		wantErr bool
	}{
		{"valid", Period{2025, 7}, false},
		{"month zero", Period{2025, 0}, true},
		{"month thirteen", Period{2025, 13}, true},
		{"zero year", Period{0, 5}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.p.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidPeriod) {
				t.Fatalf("Validate() = %v, want ErrInvalidPeriod", err)
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestParsePeriodString(t *testing.T) {
	p, err := ParsePeriodString("2025-07")
	if err != nil {
		t.Fatalf("ParsePeriodString: %v", err)
	}
	if p != (Period{2025, 7}) {
		t.Fatalf("ParsePeriodString = %v, want 2025-07", p)
	}

	for _, bad := range []string{"", "2025", "2025-", "2025-00", "abc-07", "2025-7-1-x"} {
		if _, err := ParsePeriodString(bad); err == nil {
			t.Fatalf("ParsePeriodString(%q) succeeded, want error", bad)
		}
	}
}

func TestPeriodString(t *testing.T) {
	if got := (Period{2025, 3}).String(); got != "2025-03" {
		t.Fatalf("String() = %q, want 2025-03", got)
	}
}
