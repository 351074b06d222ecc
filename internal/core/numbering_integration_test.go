package core_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func invoiceItems() []core.LineItemInput {
	return []core.LineItemInput{
		{Name: "Widget", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
	}
}

// A counter holding 5 means INV-00005 was the last number handed out; the next
// invoice gets INV-00006 and the counter moves to 6.
func TestInvoiceNumbering_IncrementThenFormat(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	if _, err := pool.Exec(ctx, "UPDATE companies SET next_invoice_number = 5 WHERE id = 1"); err != nil {
		t.Fatalf("failed to set counter: %v", err)
	}

	svc := core.NewInvoiceService(pool, testNotifier())
	inv, err := svc.CreateInvoice(ctx, 1, core.InvoiceInput{CustomerID: 1, Items: invoiceItems()})
	if err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}
	if inv.Number != "INV-00006" {
		t.Errorf("expected number INV-00006, got %s", inv.Number)
	}

	var counter int64
	if err := pool.QueryRow(ctx, "SELECT next_invoice_number FROM companies WHERE id = 1").Scan(&counter); err != nil {
		t.Fatalf("failed to read counter: %v", err)
	}
	if counter != 6 {
		t.Errorf("expected counter 6, got %d", counter)
	}
}

func TestInvoiceNumbering_ConcurrentCreatesAreDistinct(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewInvoiceService(pool, testNotifier())

	const n = 10
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.CreateInvoice(ctx, 1, core.InvoiceInput{CustomerID: 1, Items: invoiceItems()}); err != nil {
				errCh <- err
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent create error: %v", err)
	}

	var distinct int
	if err := pool.QueryRow(ctx, "SELECT COUNT(DISTINCT number) FROM invoices WHERE company_id = 1").Scan(&distinct); err != nil {
		t.Fatalf("failed to count numbers: %v", err)
	}
	if distinct != n {
		t.Errorf("expected %d distinct invoice numbers, got %d", n, distinct)
	}
}

func TestSaleNumbering_DatePrefixedSequence(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewSaleService(pool)
	soldOn := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	input := core.SaleInput{
		Items:  []core.LineItemInput{{Name: "Cash item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)}},
		SoldOn: &soldOn,
	}

	first, err := svc.CreateSale(ctx, 1, input)
	if err != nil {
		t.Fatalf("failed to create first sale: %v", err)
	}
	if first.Number != "SAL-20240115-0001" {
		t.Errorf("expected SAL-20240115-0001, got %s", first.Number)
	}

	second, err := svc.CreateSale(ctx, 1, input)
	if err != nil {
		t.Fatalf("failed to create second sale: %v", err)
	}
	if second.Number != "SAL-20240115-0002" {
		t.Errorf("expected SAL-20240115-0002, got %s", second.Number)
	}

	// A different day restarts the sequence.
	nextDay := soldOn.AddDate(0, 0, 1)
	input.SoldOn = &nextDay
	third, err := svc.CreateSale(ctx, 1, input)
	if err != nil {
		t.Fatalf("failed to create third sale: %v", err)
	}
	if third.Number != "SAL-20240116-0001" {
		t.Errorf("expected SAL-20240116-0001, got %s", third.Number)
	}
}

func TestSaleNumbering_ConcurrentCreatesAreDistinct(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewSaleService(pool)
	soldOn := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	const n = 8
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			input := core.SaleInput{
				Items:  []core.LineItemInput{{Name: "Cash item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(20)}},
				SoldOn: &soldOn,
			}
			if _, err := svc.CreateSale(ctx, 1, input); err != nil {
				// A DuplicateNumberError after the retry is an accepted
				// outcome under heavy contention; anything else is not.
				var dup *core.DuplicateNumberError
				if !errors.As(err, &dup) {
					errCh <- err
				}
			}
		}()
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Errorf("concurrent sale error: %v", err)
	}

	var total, distinct int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*), COUNT(DISTINCT number) FROM sales WHERE company_id = 1").Scan(&total, &distinct); err != nil {
		t.Fatalf("failed to count numbers: %v", err)
	}
	if total != distinct {
		t.Errorf("expected all sale numbers distinct, got %d rows with %d distinct numbers", total, distinct)
	}
}
