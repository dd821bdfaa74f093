package canonical

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ComputeAggregates recomputes every header aggregate from the lines.
// Extracted lines are authoritative; footer-stated totals never land here.
func ComputeAggregates(po *PO) {
	h := &po.Header

	h.TotalItems = len(po.Lines)
	h.TotalQuantity = decimal.Zero
	h.TotalTaxableValue = decimal.Zero
	h.TotalTaxAmount = decimal.Zero
	h.GrandTotal = decimal.Zero

	hsnSet := map[string]struct{}{}
	for _, ln := range po.Lines {
		h.TotalQuantity = h.TotalQuantity.Add(ln.Quantity)
		if ln.TaxableValue != nil {
			h.TotalTaxableValue = h.TotalTaxableValue.Add(*ln.TaxableValue)
		}
		h.TotalTaxAmount = h.TotalTaxAmount.Add(ln.TotalTaxAmount)
		h.GrandTotal = h.GrandTotal.Add(ln.LineTotal)
		if ln.HSNCode != "" {
			hsnSet[ln.HSNCode] = struct{}{}
		}
	}

	h.UniqueHSNCodes = h.UniqueHSNCodes[:0]
	for code := range hsnSet {
		h.UniqueHSNCodes = append(h.UniqueHSNCodes, code)
	}
	sort.Strings(h.UniqueHSNCodes)
}

// Validate checks the structural invariants every canonical PO must hold,
// whether it came out of an adapter or back from a user-edited preview:
// non-empty PO number, at least one line, contiguous 1..N line numbers,
// non-negative quantities, and header aggregates matching the line sums
// within epsilon.
func Validate(po *PO, epsilon decimal.Decimal) error {
	if po.Header.PONumber == "" {
		return &ValidationError{Field: "po_number", Message: "is required"}
	}
	if len(po.Lines) == 0 {
		return &ValidationError{Field: "lines", Message: "must contain at least one line item"}
	}

	var (
		qty   = decimal.Zero
		total = decimal.Zero
	)
	for i, ln := range po.Lines {
		if ln.LineNumber != i+1 {
			return &ValidationError{Field: "line_number", Line: i + 1, Message: "must be contiguous starting at 1"}
		}
		if ln.Quantity.IsNegative() {
			return &ValidationError{Field: "quantity", Line: ln.LineNumber, Message: "must not be negative"}
		}
		qty = qty.Add(ln.Quantity)
		total = total.Add(ln.LineTotal)
	}

	if po.Header.TotalQuantity.Sub(qty).Abs().GreaterThan(epsilon) {
		return &ValidationError{Field: "total_quantity", Message: "does not match the sum of line quantities"}
	}
	if po.Header.GrandTotal.Sub(total).Abs().GreaterThan(epsilon) {
		return &ValidationError{Field: "grand_total", Message: "does not match the sum of line totals"}
	}
	return nil
}
