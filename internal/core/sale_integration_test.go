package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func createTestSale(t *testing.T, svc core.SaleService, qty int64) *core.Sale {
	t.Helper()
	productID := 1
	zero := decimal.Zero
	sale, err := svc.CreateSale(context.Background(), 1, core.SaleInput{
		Items: []core.LineItemInput{
			{ProductID: &productID, Quantity: decimal.NewFromInt(qty)},
		},
		TaxRate: &zero,
	})
	if err != nil {
		t.Fatalf("failed to create sale: %v", err)
	}
	return sale
}

func TestSale_ProductDefaultsAndStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewSaleService(pool)
	sale := createTestSale(t, svc, 4)

	// Name, price, and cost came from the catalog: 4 × 50 at cost 30.
	if sale.Items[0].Name != "Widget" {
		t.Errorf("expected product name on line, got %q", sale.Items[0].Name)
	}
	if !sale.Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected total 200, got %s", sale.Total)
	}
	if !sale.TotalCost.Equal(decimal.NewFromInt(120)) {
		t.Errorf("expected cost 120, got %s", sale.TotalCost)
	}
	if !sale.TotalProfit.Equal(decimal.NewFromInt(80)) {
		t.Errorf("expected profit 80, got %s", sale.TotalProfit)
	}

	var stock decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT stock_quantity FROM products WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	if !stock.Equal(decimal.NewFromInt(96)) {
		t.Errorf("expected stock 96 after selling 4, got %s", stock)
	}
}

func TestSale_InsufficientStockRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewSaleService(pool)
	productID := 1
	_, err := svc.CreateSale(ctx, 1, core.SaleInput{
		Items: []core.LineItemInput{{ProductID: &productID, Quantity: decimal.NewFromInt(500)}},
	})
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	// Nothing persisted, nothing moved.
	var count int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM sales").Scan(&count); err != nil {
		t.Fatalf("failed to count sales: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no sale rows, got %d", count)
	}
	var stock decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT stock_quantity FROM products WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	if !stock.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected stock unchanged at 100, got %s", stock)
	}
}

// Returns accumulate per line and can never exceed the quantity sold.
func TestSale_CumulativeReturns(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewSaleService(pool)
	sale := createTestSale(t, svc, 5)
	itemID := sale.Items[0].ID

	sale, err := svc.RecordReturn(ctx, 1, sale.ID, core.SaleReturnInput{
		SaleItemID: itemID, Quantity: decimal.NewFromInt(2),
	})
	if err != nil {
		t.Fatalf("failed to record first return: %v", err)
	}
	if sale.Status != core.SalePartiallyReturned {
		t.Errorf("expected partially_returned, got %s", sale.Status)
	}
	if !sale.Returns[0].Amount.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected return amount 100 (2 × 50), got %s", sale.Returns[0].Amount)
	}

	// 2 already returned of 5: returning 4 more must fail.
	_, err = svc.RecordReturn(ctx, 1, sale.ID, core.SaleReturnInput{
		SaleItemID: itemID, Quantity: decimal.NewFromInt(4),
	})
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError for over-return, got %T: %v", err, err)
	}

	// Returning the remaining 3 flips the sale to fully returned.
	sale, err = svc.RecordReturn(ctx, 1, sale.ID, core.SaleReturnInput{
		SaleItemID: itemID, Quantity: decimal.NewFromInt(3),
	})
	if err != nil {
		t.Fatalf("failed to record final return: %v", err)
	}
	if sale.Status != core.SaleReturned {
		t.Errorf("expected returned, got %s", sale.Status)
	}

	// All 5 restocked: back to the seeded 100.
	var stock decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT stock_quantity FROM products WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	if !stock.Equal(decimal.NewFromInt(100)) {
		t.Errorf("expected stock restored to 100, got %s", stock)
	}

	// A fully returned sale cannot be deleted.
	if err := svc.DeleteSale(ctx, 1, sale.ID); err == nil {
		t.Error("expected error deleting a sale with returns")
	}
}

func TestExpense_NumberingAndTax(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewExpenseService(pool)
	categoryID := 2
	rate := decimal.NewFromInt(10)

	exp, err := svc.CreateExpense(ctx, 1, core.ExpenseInput{
		CategoryID:  &categoryID,
		Description: "Printer paper",
		Amount:      decimal.NewFromInt(40),
		TaxRate:     &rate,
	})
	if err != nil {
		t.Fatalf("failed to create expense: %v", err)
	}
	if !exp.Total.Equal(decimal.NewFromInt(44)) {
		t.Errorf("expected total 44, got %s", exp.Total)
	}
	if len(exp.Number) == 0 || exp.Number[:4] != "EXP-" {
		t.Errorf("expected EXP- prefixed number, got %s", exp.Number)
	}

	// A product category cannot hold expenses.
	productCategory := 1
	_, err = svc.CreateExpense(ctx, 1, core.ExpenseInput{
		CategoryID:  &productCategory,
		Description: "Misfiled",
		Amount:      decimal.NewFromInt(5),
	})
	var nfe *core.NotFoundError
	if !errors.As(err, &nfe) {
		t.Fatalf("expected NotFoundError for product category, got %T: %v", err, err)
	}
}
