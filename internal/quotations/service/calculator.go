package service

import (
	"github.com/Joenll/AND-I-QUOTE/platform/apperr"

	"github.com/shopspring/decimal"
)

// LineInput is the calculator's view of a single line item.
type LineInput struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// LineTotal computes quantity × unitPrice rounded to 2 decimal places.
// Rounding is half away from zero (ordinary half-up for non-negative money),
// the same rule used everywhere totals are written.
// Invalid input is rejected before any computation; nothing is clamped.
func LineTotal(quantity int, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity < 1 {
		return decimal.Zero, apperr.Validation("quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, apperr.Validation("unit price cannot be negative")
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2), nil
}

// GrandTotal computes the sum of the line totals, re-rounded to 2 decimal
// places with the same rule as LineTotal. Both the create and update paths
// go through this single function so their totals can never diverge.
func GrandTotal(items []LineInput) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, item := range items {
		lineTotal, err := LineTotal(item.Quantity, item.UnitPrice)
		if err != nil {
			return decimal.Zero, err
		}
		sum = sum.Add(lineTotal)
	}
	return sum.Round(2), nil
}
