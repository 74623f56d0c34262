// Package billing implements the GST totals calculator, bill number
// generation and amount-in-words rendering used by the sale pipeline.
package billing

import (
	"math"

	"github.com/google/uuid"
)

// DefaultGSTRate is applied when neither the line, the product category
// nor an override specifies a rate. Fertilizers mostly fall in the 5% slab.
const DefaultGSTRate = 5.0

// CartLine is a single in-progress sale line before commit.
type CartLine struct {
	ProductID    uuid.UUID
	Name         string
	UnitPrice    float64
	Quantity     int
	GSTRate      *float64 // nil means derive from the category default
	CategoryRate *float64 // category default, nil if the category has none
	HSNCode      string
	BatchNumber  string
}

// DiscountKind distinguishes percentage and flat-amount discounts.
type DiscountKind int

const (
	DiscountPercentage DiscountKind = 0
	DiscountAmount     DiscountKind = 1
)

// Discount is a cart-level discount applied before tax.
type Discount struct {
	Kind  DiscountKind
	Value float64
}

// SaleTotals is derived from the cart on every mutation, never stored.
// The same struct drives both the receipt and the persisted record so the
// displayed amount always matches what is committed.
type SaleTotals struct {
	Subtotal         float64 `json:"subtotal"`
	DiscountAmount   float64 `json:"discount_amount"`
	TaxAmount        float64 `json:"tax_amount"`
	GrandTotal       float64 `json:"grand_total"`
	EffectiveTaxRate float64 `json:"effective_tax_rate"`
}

// CGST returns the central half of the tax amount.
func (t SaleTotals) CGST() float64 {
	return RoundRupees(t.TaxAmount / 2)
}

// SGST returns the state half of the tax amount.
func (t SaleTotals) SGST() float64 {
	return RoundRupees(t.TaxAmount / 2)
}

// RoundRupees rounds to two decimal places (paise).
func RoundRupees(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate produces SaleTotals for a cart.
//
// The discount is applied proportionally to the tax: the per-line tax sum is
// scaled by (subtotal - discount) / subtotal rather than recomputing tax on
// the discounted base. A 100% discount therefore reports zero tax while a 0%
// discount leaves the tax untouched. This policy is compliance-critical and
// must not be changed.
//
// The function is total: invalid numeric inputs are coerced to zero and no
// error is ever returned.
func Calculate(lines []CartLine, discount Discount, overrideRate *float64) SaleTotals {
	var subtotal, lineTaxSum float64

	for _, line := range lines {
		qty := line.Quantity
		if qty < 0 {
			qty = 0
		}
		price := sanitize(line.UnitPrice)
		taxable := price * float64(qty)

		subtotal += taxable
		lineTaxSum += taxable * ResolveRate(line, overrideRate) / 100
	}

	discountAmount := discountFor(discount, subtotal)

	var taxAmount float64
	if subtotal > 0 {
		taxAmount = lineTaxSum * (subtotal - discountAmount) / subtotal
	}

	totals := SaleTotals{
		Subtotal:       RoundRupees(subtotal),
		DiscountAmount: RoundRupees(discountAmount),
		TaxAmount:      RoundRupees(taxAmount),
	}
	totals.GrandTotal = RoundRupees(totals.Subtotal - totals.DiscountAmount + totals.TaxAmount)

	if base := totals.Subtotal - totals.DiscountAmount; base > 0 {
		totals.EffectiveTaxRate = RoundRupees(totals.TaxAmount / base * 100)
	}

	return totals
}

// ResolveRate picks the GST rate for a line: override, then the line's own
// rate, then the category default, then DefaultGSTRate.
func ResolveRate(line CartLine, overrideRate *float64) float64 {
	if r := validRate(overrideRate); r != nil {
		return *r
	}
	if r := validRate(line.GSTRate); r != nil {
		return *r
	}
	if r := validRate(line.CategoryRate); r != nil {
		return *r
	}
	return DefaultGSTRate
}

func validRate(r *float64) *float64 {
	if r == nil || *r != *r || *r < 0 || *r > 100 {
		return nil
	}
	return r
}

func discountFor(d Discount, subtotal float64) float64 {
	value := sanitize(d.Value)

	var amount float64
	switch d.Kind {
	case DiscountPercentage:
		amount = subtotal * value / 100
	case DiscountAmount:
		amount = value
	}

	// A discount can never exceed the subtotal: residual clamps to zero,
	// never negative.
	if amount > subtotal {
		amount = subtotal
	}
	if amount < 0 {
		amount = 0
	}
	return amount
}

// sanitize coerces NaN, infinite and negative inputs to zero.
func sanitize(v float64) float64 {
	if v != v || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
