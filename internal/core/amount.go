// Package core provides the domain types shared by the ledger engine:
// periods, monetary amounts, transactions, and the per-month snapshot
// document that the period store persists.
package core

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a monetary value. It wraps a decimal so arithmetic on balances
// does not accumulate binary floating-point noise, while still serializing
// as a plain JSON number so legacy snapshot files keep loading.
type Amount struct {
	dec decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// NewAmount creates an Amount from integer units and exponent,
// e.g. NewAmount(1234, -2) == 12.34.
func NewAmount(value int64, exp int32) Amount {
	return Amount{dec: decimal.New(value, exp)}
}

// AmountFromInt creates a whole-unit Amount.
func AmountFromInt(v int64) Amount {
	return Amount{dec: decimal.NewFromInt(v)}
}

// AmountFromFloat creates an Amount from a float64.
func AmountFromFloat(v float64) Amount {
	return Amount{dec: decimal.NewFromFloat(v)}
}

// ParseAmount parses a decimal string. It accepts both dot (12.34) and
// comma (12,34) decimal separators, matching how amounts are typed in
// Brazilian locales.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrInvalidAmount
	}
	return Amount{dec: d}, nil
}

// Add returns a+b.
func (a Amount) Add(b Amount) Amount { return Amount{dec: a.dec.Add(b.dec)} }

// Sub returns a-b.
func (a Amount) Sub(b Amount) Amount { return Amount{dec: a.dec.Sub(b.dec)} }

// Neg returns -a.
func (a Amount) Neg() Amount { return Amount{dec: a.dec.Neg()} }

// DivInt divides the amount by an integer count. The division carries the
// decimal package's default precision; remainders are not redistributed.
func (a Amount) DivInt(n int64) Amount {
	return Amount{dec: a.dec.Div(decimal.NewFromInt(n))}
}

// Ratio returns a/b as a float64. Callers must check b for zero first.
func (a Amount) Ratio(b Amount) float64 {
	return a.dec.Div(b.dec).InexactFloat64()
}

// Cmp compares a and b: -1 if a < b, 0 if equal, +1 if a > b.
func (a Amount) Cmp(b Amount) int { return a.dec.Cmp(b.dec) }

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool { return a.dec.Equal(b.dec) }

// IsZero reports whether the amount is exactly zero.
func (a Amount) IsZero() bool { return a.dec.IsZero() }

// IsNegative reports whether the amount is below zero.
func (a Amount) IsNegative() bool { return a.dec.IsNegative() }

// IsPositive reports whether the amount is above zero.
func (a Amount) IsPositive() bool { return a.dec.IsPositive() }

// Float64 returns the nearest float64 representation.
func (a Amount) Float64() float64 { return a.dec.InexactFloat64() }

// String renders the amount in plain decimal notation.
func (a Amount) String() string { return a.dec.String() }

// MarshalJSON writes the amount as a bare JSON number. decimal's default
// string marshaling would break the persisted snapshot format, whose
// monetary fields are numeric.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.dec.String()), nil
}

// UnmarshalJSON reads either a JSON number or a quoted decimal string.
// Quoted strings go through ParseAmount, so request bodies may carry
// comma-decimal amounts like "150,50".
func (a *Amount) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		parsed, err := ParseAmount(s)
		if err != nil {
			return err
		}
		*a = parsed
		return nil
	}
	return a.dec.UnmarshalJSON(data)
}
