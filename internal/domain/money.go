// internal/domain/money.go
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is carried as int64 minor units (cents) everywhere inside the core.
// Decimal values exist only at the API boundary, where human-entered amounts
// like "10.50" are parsed, and when amounts are rendered back out.

// ParseAmount converts a decimal amount string into minor units.
// It rejects negative values and sub-cent precision.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount %q must not be negative", s)
	}
	cents := d.Shift(2)
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}
	return cents.IntPart(), nil
}

// FormatAmount renders minor units as a two-decimal string.
func FormatAmount(minor int64) string {
	return decimal.New(minor, -2).StringFixed(2)
}
