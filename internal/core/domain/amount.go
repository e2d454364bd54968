package domain

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// amountScale is the number of fractional digits held in minor units.
const amountScale = 2

// Amount is a monetary value in minor units (cents). Sums over Amount are exact.
type Amount int64

// Zero is the zero Amount.
const Zero Amount = 0

// MaxAmount bounds any single monetary value accepted from input ($10 trillion).
// Sums of many such values are added with Add, which fails instead of wrapping.
const MaxAmount Amount = 1_000_000_000_000_000

// ErrAmountOverflow is returned when a sum does not fit in an Amount.
var ErrAmountOverflow = errors.New("amount overflow")

// AmountFromDecimal converts a decimal into minor units. It fails when the value
// carries more precision than the minor unit or its magnitude exceeds MaxAmount.
func AmountFromDecimal(d decimal.Decimal) (Amount, error) {
	if !d.Equal(d.Round(amountScale)) {
		return 0, fmt.Errorf("amount %s has more than %d decimal places", d.String(), amountScale)
	}
	minor := d.Shift(amountScale)
	if !minor.BigInt().IsInt64() {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	a := Amount(minor.IntPart())
	if a > MaxAmount || a < -MaxAmount {
		return 0, fmt.Errorf("amount %s is out of range", d.String())
	}
	return a, nil
}

// ParseAmount parses a decimal string such as "1250.50".
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return AmountFromDecimal(d)
}

// NewAmount builds an Amount from whole major units.
func NewAmount(major int64) Amount {
	return Amount(major * 100)
}

// Decimal returns the amount in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -amountScale)
}

// String renders the amount with two fixed decimals.
func (a Amount) String() string {
	return a.Decimal().StringFixed(amountScale)
}

// Dollars renders the amount for user-facing messages, e.g. "$1000.00" or "-$12.50".
func (a Amount) Dollars() string {
	if a < 0 {
		return "-$" + (-a).String()
	}
	return "$" + a.String()
}

// Abs returns the absolute value.
func (a Amount) Abs() Amount {
	if a < 0 {
		return -a
	}
	return a
}

// Add returns a+b, or ErrAmountOverflow when the result does not fit.
func (a Amount) Add(b Amount) (Amount, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrAmountOverflow
	}
	return sum, nil
}

// IsZero reports whether the amount is zero.
func (a Amount) IsZero() bool { return a == 0 }

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return err
	}
	v, err := AmountFromDecimal(d)
	if err != nil {
		return err
	}
	*a = v
	return nil
}
