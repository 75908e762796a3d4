package core

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Period identifies one ledger snapshot: a calendar month of a given year.
// Snapshots are independent documents; the period is the only key.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"` // 1-12
}

// NewPeriod builds a Period without normalization. Use Validate before
// handing user input to the store.
func NewPeriod(year, month int) Period {
	return Period{Year: year, Month: month}
}

// PeriodOf returns the period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: int(t.Month())}
}

// CurrentPeriod returns the period of the wall clock. Engine calls take the
// current period as an explicit argument; this is the conventional source.
func CurrentPeriod() Period {
	return PeriodOf(time.Now())
}

// Validate returns ErrInvalidPeriod for a zero year or a month outside 1-12.
func (p Period) Validate() error {
	if p.Year < 1 || p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: year=%d month=%d", ErrInvalidPeriod, p.Year, p.Month)
	}
	return nil
}

// AddMonths returns the period n months after p, rolling months past
// December into year increments (and the reverse for negative n).
func (p Period) AddMonths(n int) Period {
	m := p.Year*12 + p.Month - 1 + n
	y, r := m/12, m%12
	if r < 0 {
		r += 12
		y--
	}
	return Period{Year: y, Month: r + 1}
}

// Prev returns the immediately preceding period.
func (p Period) Prev() Period { return p.AddMonths(-1) }

// String renders the period as "2025-01".
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// ParsePeriodString parses "YYYY-MM" selectors from CLI flags and queries.
func ParsePeriodString(s string) (Period, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Period{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidPeriod, s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidPeriod, s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return Period{}, fmt.Errorf("%w: %q, want YYYY-MM", ErrInvalidPeriod, s)
	}
	p := Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Period{}, err
	}
	return p, nil
}
