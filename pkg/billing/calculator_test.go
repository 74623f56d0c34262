package billing_test

import (
	"math"
	"testing"

	"github.com/krishisethu/pos-api/pkg/billing"
)

func rate(v float64) *float64 { return &v }

func approx(a, b float64) bool { return math.Abs(a-b) < 0.01 }

func TestCalculate_Scenarios(t *testing.T) {
	cart := []billing.CartLine{
		{Name: "Urea 50kg", UnitPrice: 100, Quantity: 2, GSTRate: rate(5)},
	}

	tests := []struct {
		name         string
		lines        []billing.CartLine
		discount     billing.Discount
		override     *float64
		wantSubtotal float64
		wantDiscount float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "no discount",
			lines:        cart,
			wantSubtotal: 200, wantDiscount: 0, wantTax: 10, wantTotal: 210,
		},
		{
			name:     "10 percent discount scales tax proportionally",
			lines:    cart,
			discount: billing.Discount{Kind: billing.DiscountPercentage, Value: 10},
			wantSubtotal: 200, wantDiscount: 20, wantTax: 9, wantTotal: 189,
		},
		{
			name:     "amount discount clamps to subtotal",
			lines:    cart,
			discount: billing.Discount{Kind: billing.DiscountAmount, Value: 500},
			wantSubtotal: 200, wantDiscount: 200, wantTax: 0, wantTotal: 0,
		},
		{
			name:     "full percentage discount zeroes tax",
			lines:    cart,
			discount: billing.Discount{Kind: billing.DiscountPercentage, Value: 100},
			wantSubtotal: 200, wantDiscount: 200, wantTax: 0, wantTotal: 0,
		},
		{
			name:  "override rate wins over line rate",
			lines: cart,
			override: rate(18),
			wantSubtotal: 200, wantDiscount: 0, wantTax: 36, wantTotal: 236,
		},
		{
			name: "fallback rate is five percent",
			lines: []billing.CartLine{
				{Name: "Tarpaulin", UnitPrice: 40, Quantity: 1},
			},
			wantSubtotal: 40, wantDiscount: 0, wantTax: 2, wantTotal: 42,
		},
		{
			name: "category default used when line has no rate",
			lines: []billing.CartLine{
				{Name: "Pesticide", UnitPrice: 100, Quantity: 1, CategoryRate: rate(18)},
			},
			wantSubtotal: 100, wantDiscount: 0, wantTax: 18, wantTotal: 118,
		},
		{
			name:  "empty cart",
			lines: nil,
			wantSubtotal: 0, wantDiscount: 0, wantTax: 0, wantTotal: 0,
		},
		{
			name: "negative and NaN inputs coerce to zero",
			lines: []billing.CartLine{
				{Name: "Bad price", UnitPrice: -50, Quantity: 3, GSTRate: rate(5)},
				{Name: "Bad qty", UnitPrice: 80, Quantity: -1, GSTRate: rate(5)},
				{Name: "Bad rate", UnitPrice: 100, Quantity: 1, GSTRate: rate(math.NaN())},
			},
			wantSubtotal: 100, wantDiscount: 0, wantTax: 5, wantTotal: 105,
		},
		{
			name: "negative discount value is ignored",
			lines: cart,
			discount: billing.Discount{Kind: billing.DiscountAmount, Value: -40},
			wantSubtotal: 200, wantDiscount: 0, wantTax: 10, wantTotal: 210,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := billing.Calculate(tt.lines, tt.discount, tt.override)

			if !approx(got.Subtotal, tt.wantSubtotal) {
				t.Errorf("Subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if !approx(got.DiscountAmount, tt.wantDiscount) {
				t.Errorf("DiscountAmount = %v, want %v", got.DiscountAmount, tt.wantDiscount)
			}
			if !approx(got.TaxAmount, tt.wantTax) {
				t.Errorf("TaxAmount = %v, want %v", got.TaxAmount, tt.wantTax)
			}
			if !approx(got.GrandTotal, tt.wantTotal) {
				t.Errorf("GrandTotal = %v, want %v", got.GrandTotal, tt.wantTotal)
			}

			// Totals identity holds for every input.
			if !approx(got.GrandTotal, got.Subtotal-got.DiscountAmount+got.TaxAmount) {
				t.Errorf("grand total identity violated: %+v", got)
			}
			if got.DiscountAmount > got.Subtotal+0.01 {
				t.Errorf("discount %v exceeds subtotal %v", got.DiscountAmount, got.Subtotal)
			}
		})
	}
}

func TestCalculate_Pure(t *testing.T) {
	lines := []billing.CartLine{
		{Name: "DAP 50kg", UnitPrice: 1350, Quantity: 3, GSTRate: rate(5)},
		{Name: "Sprayer", UnitPrice: 2200, Quantity: 1, GSTRate: rate(18)},
	}
	d := billing.Discount{Kind: billing.DiscountPercentage, Value: 7.5}

	first := billing.Calculate(lines, d, nil)
	second := billing.Calculate(lines, d, nil)
	if first != second {
		t.Errorf("calculator is not pure: %+v != %+v", first, second)
	}
}

func TestCalculate_ZeroDiscountKeepsLineTax(t *testing.T) {
	lines := []billing.CartLine{
		{Name: "MOP", UnitPrice: 1700, Quantity: 2, GSTRate: rate(5)},
		{Name: "Zinc Sulphate", UnitPrice: 450, Quantity: 4, GSTRate: rate(12)},
	}

	got := billing.Calculate(lines, billing.Discount{}, nil)
	want := 1700*2*0.05 + 450*4*0.12
	if !approx(got.TaxAmount, want) {
		t.Errorf("TaxAmount = %v, want undiscounted line tax %v", got.TaxAmount, want)
	}
}

func TestSaleTotals_GSTSplit(t *testing.T) {
	totals := billing.Calculate([]billing.CartLine{
		{Name: "Urea", UnitPrice: 100, Quantity: 2, GSTRate: rate(5)},
	}, billing.Discount{}, nil)

	if !approx(totals.CGST(), 5) || !approx(totals.SGST(), 5) {
		t.Errorf("CGST/SGST = %v/%v, want 5/5", totals.CGST(), totals.SGST())
	}
	if !approx(totals.CGST()+totals.SGST(), totals.TaxAmount) {
		t.Errorf("CGST+SGST != TaxAmount")
	}
}
