package domain

// Totals are the derived amounts of an invoice. They are recomputed from
// line items on every write; client-submitted values are never trusted.
type Totals struct {
	Subtotal float64
	TotalTax float64
	Total    float64
}

// ComputeTotals derives subtotal, tax and total from line items.
//
// subtotal = sum(quantity * rate)
// totalTax = sum(quantity * rate * tax/100)
// total    = subtotal + totalTax
//
// No rounding is applied; two-decimal formatting is a display concern.
// Negative quantities or rates flow through the arithmetic as-is.
func ComputeTotals(items []LineItem) Totals {
	var t Totals
	for _, item := range items {
		amount := item.Quantity * item.Rate
		t.Subtotal += amount
		t.TotalTax += amount * item.Tax / 100
	}
	t.Total = t.Subtotal + t.TotalTax
	return t
}
