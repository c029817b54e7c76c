package domain

import (
	"github.com/shopspring/decimal"
)

// Money is handled as integer cents everywhere inside the service. Decimal
// conversion happens only at the edges: parsing admin-entered prices and
// formatting customer-facing dollar amounts.

// ParsePriceCents parses a decimal dollar string (e.g., "12.50") into cents.
// Negative amounts and sub-cent precision are rejected.
func ParsePriceCents(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, Invalid("money.parse", "invalid price format")
	}
	if d.IsNegative() {
		return 0, Invalid("money.parse", "price must not be negative")
	}
	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, Invalid("money.parse", "price has sub-cent precision")
	}
	return cents.IntPart(), nil
}

// FormatCents renders cents as a dollar string, e.g. 2000 -> "20.00".
func FormatCents(cents int64) string {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100)).StringFixed(2)
}
