// Package calc derives invoice totals from line items.
//
// Values are never rounded here; rounding to cents happens only when a
// template formats a figure for display.
package calc

import (
	"math"

	"invoicedesk/internal/domain"
)

// TaxRate is the flat consumption tax applied to flagged lines.
const TaxRate = 0.10

// Totals are the three aggregates every template prints, in this order.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	TotalTax   float64 `json:"totalTax"`
	GrandTotal float64 `json:"grandTotal"`
}

// LineAmount is quantity times rate. Negative inputs are honoured.
func LineAmount(item domain.LineItem) float64 {
	return item.Quantity * item.Rate
}

// LineTax is the tax owed on a single line, zero when the line is untaxed.
func LineTax(item domain.LineItem) float64 {
	if !item.TaxApplicable {
		return 0
	}
	return LineAmount(item) * TaxRate
}

// Compute sums the unrounded line values. An empty slice yields zeroes.
func Compute(items []domain.LineItem) Totals {
	var t Totals
	for _, item := range items {
		t.Subtotal += LineAmount(item)
		t.TotalTax += LineTax(item)
	}
	t.GrandTotal = t.Subtotal + t.TotalTax
	return t
}

// Finite reports whether every aggregate is a real number. Large finite
// inputs can overflow to infinity.
func (t Totals) Finite() bool {
	return finite(t.Subtotal) && finite(t.TotalTax) && finite(t.GrandTotal)
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}
