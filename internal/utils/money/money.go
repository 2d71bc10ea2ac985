package money

import (
	"fmt"

	"github.com/fin-ledger/bankledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// Normalize rounds a monetary value to exactly 2 fractional digits using
// banker's rounding. Every amount crossing the core's boundary goes through
// this before any comparison or arithmetic.
func Normalize(d decimal.Decimal) decimal.Decimal {
	return d.RoundBank(2)
}

// ValidatePositive normalizes an amount and rejects anything not strictly
// greater than zero.
func ValidatePositive(d decimal.Decimal) (decimal.Decimal, error) {
	amt := Normalize(d)
	if amt.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive, got %s", apperrors.ErrInvalidAmount, amt.String())
	}
	return amt, nil
}

// ValidateNonNegative normalizes an amount and rejects negative values.
// Used for opening balances, which may legitimately be zero.
func ValidateNonNegative(d decimal.Decimal) (decimal.Decimal, error) {
	amt := Normalize(d)
	if amt.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: amount must not be negative, got %s", apperrors.ErrInvalidAmount, amt.String())
	}
	return amt, nil
}
