package core_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func item(qty, price string) core.LineItemInput {
	return core.LineItemInput{Name: "item", Quantity: d(qty), UnitPrice: d(price)}
}

func TestComputeTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []core.LineItemInput
		taxRate      string
		discount     string
		discountType core.DiscountType
		wantSubtotal string
		wantTax      string
		wantTotal    string
	}{
		{
			name:         "two items with 10 percent tax",
			items:        []core.LineItemInput{item("2", "50"), item("1", "30")},
			taxRate:      "10",
			discount:     "0",
			wantSubtotal: "130",
			wantTax:      "13",
			wantTotal:    "143",
		},
		{
			name:         "empty item list yields zero totals",
			items:        nil,
			taxRate:      "10",
			discount:     "0",
			wantSubtotal: "0",
			wantTax:      "0",
			wantTotal:    "0",
		},
		{
			name:         "flat discount reduces tax base",
			items:        []core.LineItemInput{item("1", "100")},
			taxRate:      "10",
			discount:     "20",
			discountType: core.DiscountAmount,
			wantSubtotal: "100",
			wantTax:      "8",
			wantTotal:    "88",
		},
		{
			name:         "percentage discount",
			items:        []core.LineItemInput{item("2", "100")},
			taxRate:      "5",
			discount:     "10",
			discountType: core.DiscountPercentage,
			wantSubtotal: "200",
			wantTax:      "9",
			wantTotal:    "189",
		},
		{
			name:         "zero tax rate",
			items:        []core.LineItemInput{item("3", "9.99")},
			taxRate:      "0",
			discount:     "0",
			wantSubtotal: "29.97",
			wantTax:      "0",
			wantTotal:    "29.97",
		},
		{
			name:         "fractional quantities stay exact",
			items:        []core.LineItemInput{item("1.5", "10.10")},
			taxRate:      "21",
			discount:     "0",
			wantSubtotal: "15.15",
			wantTax:      "3.1815",
			wantTotal:    "18.3315",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.ComputeTotals(tt.items, d(tt.taxRate), d(tt.discount), tt.discountType)
			if err != nil {
				t.Fatalf("ComputeTotals: %v", err)
			}
			if !got.Subtotal.Equal(d(tt.wantSubtotal)) {
				t.Errorf("subtotal = %s, want %s", got.Subtotal, tt.wantSubtotal)
			}
			if !got.TaxAmount.Equal(d(tt.wantTax)) {
				t.Errorf("tax amount = %s, want %s", got.TaxAmount, tt.wantTax)
			}
			if !got.Total.Equal(d(tt.wantTotal)) {
				t.Errorf("total = %s, want %s", got.Total, tt.wantTotal)
			}

			// Invariants: subtotal = Σ item totals; total = subtotal − discount + tax.
			sum := decimal.Zero
			for _, it := range got.Items {
				if !it.Total.Equal(it.Quantity.Mul(it.UnitPrice)) {
					t.Errorf("item total %s != quantity × unit price", it.Total)
				}
				sum = sum.Add(it.Total)
			}
			if !got.Subtotal.Equal(sum) {
				t.Errorf("subtotal %s != sum of item totals %s", got.Subtotal, sum)
			}
			want := got.Subtotal.Sub(got.DiscountAmount).Add(got.TaxAmount)
			if !got.Total.Equal(want) {
				t.Errorf("total %s != subtotal − discount + tax = %s", got.Total, want)
			}
		})
	}
}

func TestComputeTotals_SaleProfit(t *testing.T) {
	cost := d("30")
	items := []core.LineItemInput{
		{Name: "widget", Quantity: d("2"), UnitPrice: d("50"), CostPrice: &cost},
		{Name: "service", Quantity: d("1"), UnitPrice: d("40")}, // no cost price
	}

	got, err := core.ComputeTotals(items, decimal.Zero, decimal.Zero, core.DiscountAmount)
	if err != nil {
		t.Fatalf("ComputeTotals: %v", err)
	}

	if got.Items[0].Profit == nil || !got.Items[0].Profit.Equal(d("40")) {
		t.Errorf("item profit = %v, want 40", got.Items[0].Profit)
	}
	if got.Items[1].Profit != nil {
		t.Errorf("item without cost price should have no profit, got %s", got.Items[1].Profit)
	}
	if !got.TotalCost.Equal(d("60")) {
		t.Errorf("total cost = %s, want 60", got.TotalCost)
	}
	if !got.Total.Equal(d("140")) {
		t.Errorf("total = %s, want 140", got.Total)
	}
	if !got.TotalProfit.Equal(d("80")) {
		t.Errorf("total profit = %s, want 80", got.TotalProfit)
	}
}

func TestComputeTotals_Idempotent(t *testing.T) {
	items := []core.LineItemInput{item("3", "19.95"), item("0.5", "7.77")}

	first, err := core.ComputeTotals(items, d("17.5"), d("5"), core.DiscountPercentage)
	if err != nil {
		t.Fatalf("first compute: %v", err)
	}
	second, err := core.ComputeTotals(items, d("17.5"), d("5"), core.DiscountPercentage)
	if err != nil {
		t.Fatalf("second compute: %v", err)
	}

	if !first.Subtotal.Equal(second.Subtotal) || !first.TaxAmount.Equal(second.TaxAmount) || !first.Total.Equal(second.Total) {
		t.Errorf("recomputation drifted: %s/%s/%s vs %s/%s/%s",
			first.Subtotal, first.TaxAmount, first.Total,
			second.Subtotal, second.TaxAmount, second.Total)
	}
}

func TestComputeTotals_Validation(t *testing.T) {
	tests := []struct {
		name     string
		items    []core.LineItemInput
		taxRate  string
		discount string
	}{
		{
			name:     "zero quantity",
			items:    []core.LineItemInput{item("0", "10")},
			taxRate:  "0",
			discount: "0",
		},
		{
			name:     "negative quantity",
			items:    []core.LineItemInput{item("-1", "10")},
			taxRate:  "0",
			discount: "0",
		},
		{
			name:     "negative unit price",
			items:    []core.LineItemInput{item("1", "-10")},
			taxRate:  "0",
			discount: "0",
		},
		{
			name:     "missing item name",
			items:    []core.LineItemInput{{Quantity: d("1"), UnitPrice: d("10")}},
			taxRate:  "0",
			discount: "0",
		},
		{
			name:     "tax rate above 100",
			items:    []core.LineItemInput{item("1", "10")},
			taxRate:  "101",
			discount: "0",
		},
		{
			name:     "negative tax rate",
			items:    []core.LineItemInput{item("1", "10")},
			taxRate:  "-1",
			discount: "0",
		},
		{
			name:     "negative discount",
			items:    []core.LineItemInput{item("1", "10")},
			taxRate:  "0",
			discount: "-5",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := core.ComputeTotals(tt.items, d(tt.taxRate), d(tt.discount), core.DiscountAmount)
			var verr *core.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}
