package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// DocumentTotals is the result of recomputing a document's financial fields
// from its line items. Invariants after computation:
//
//	item.Total  = item.Quantity × item.UnitPrice
//	Subtotal    = Σ item.Total
//	Total       = Subtotal − DiscountAmount + TaxAmount
//
// All arithmetic is exact decimal; no intermediate rounding is applied, so
// recomputing on an unchanged item set always yields identical results.
type DocumentTotals struct {
	Items          []LineItem
	Subtotal       decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	Total          decimal.Decimal
	TotalCost      decimal.Decimal
	TotalProfit    decimal.Decimal
}

// ComputeTotals derives item totals and document aggregates from client-supplied
// line items. taxRate is a percentage in [0, 100]. discount is interpreted per
// discountType: a flat amount, or a percentage of the subtotal. An empty item
// list is not an error and yields zero totals.
//
// For sale documents, items carrying a CostPrice also get a per-item profit
// ((unitPrice − costPrice) × quantity); TotalCost sums costPrice × quantity
// over those items and TotalProfit = Total − TotalCost.
//
// This is the single write-path entry point for totals: every create, and every
// update that touches items, tax rate, or discount, must go through it.
func ComputeTotals(items []LineItemInput, taxRate, discount decimal.Decimal, discountType DiscountType) (*DocumentTotals, error) {
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return nil, newValidationError("tax_rate", fmt.Sprintf("must be between 0 and 100, got %s", taxRate))
	}
	if discount.IsNegative() {
		return nil, newValidationError("discount", "must not be negative")
	}
	switch discountType {
	case DiscountAmount, DiscountPercentage:
	case "":
		discountType = DiscountAmount
	default:
		return nil, newValidationError("discount_type", fmt.Sprintf("unknown discount type %q", discountType))
	}

	result := &DocumentTotals{
		Subtotal:    decimal.Zero,
		TaxAmount:   decimal.Zero,
		Total:       decimal.Zero,
		TotalCost:   decimal.Zero,
		TotalProfit: decimal.Zero,
	}

	for i, in := range items {
		field := fmt.Sprintf("items[%d]", i)
		if in.Name == "" {
			return nil, newValidationError(field+".name", "is required")
		}
		if !in.Quantity.IsPositive() {
			return nil, newValidationError(field+".quantity", "must be greater than zero")
		}
		if in.UnitPrice.IsNegative() {
			return nil, newValidationError(field+".unit_price", "must not be negative")
		}
		if in.CostPrice != nil && in.CostPrice.IsNegative() {
			return nil, newValidationError(field+".cost_price", "must not be negative")
		}

		item := LineItem{
			Position:  i + 1,
			ProductID: in.ProductID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			UnitPrice: in.UnitPrice,
			Total:     in.Quantity.Mul(in.UnitPrice),
		}
		if in.Description != "" {
			desc := in.Description
			item.Description = &desc
		}
		if in.CostPrice != nil {
			cost := *in.CostPrice
			item.CostPrice = &cost
			profit := in.UnitPrice.Sub(cost).Mul(in.Quantity)
			item.Profit = &profit
			result.TotalCost = result.TotalCost.Add(cost.Mul(in.Quantity))
		}

		result.Subtotal = result.Subtotal.Add(item.Total)
		result.Items = append(result.Items, item)
	}

	switch discountType {
	case DiscountPercentage:
		result.DiscountAmount = result.Subtotal.Mul(discount).Div(oneHundred)
	default:
		result.DiscountAmount = discount
	}

	taxBase := result.Subtotal.Sub(result.DiscountAmount)
	result.TaxAmount = taxBase.Mul(taxRate).Div(oneHundred)
	result.Total = taxBase.Add(result.TaxAmount)
	result.TotalProfit = result.Total.Sub(result.TotalCost)

	return result, nil
}
