package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func createTestInvoice(t *testing.T, svc core.InvoiceService) *core.Invoice {
	t.Helper()
	zero := decimal.Zero
	inv, err := svc.CreateInvoice(context.Background(), 1, core.InvoiceInput{
		CustomerID: 1,
		Items: []core.LineItemInput{
			{Name: "Service", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(100)},
		},
		TaxRate: &zero,
	})
	if err != nil {
		t.Fatalf("failed to create invoice: %v", err)
	}
	return inv
}

// Partial payments accumulate; the invoice flips to paid exactly when the
// cumulative amount reaches the total.
func TestInvoice_PartialPaymentsReachPaid(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewInvoiceService(pool, testNotifier())
	inv := createTestInvoice(t, svc)

	inv, _, err := svc.SendInvoice(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("failed to send invoice: %v", err)
	}

	inv, err = svc.AddPayment(ctx, 1, inv.ID, core.PaymentInput{Amount: decimal.NewFromInt(40)})
	if err != nil {
		t.Fatalf("failed to add first payment: %v", err)
	}
	if inv.Status != core.InvoiceSent {
		t.Errorf("expected still sent after partial payment, got %s", inv.Status)
	}
	if !inv.PaidAmount.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected paid_amount 40, got %s", inv.PaidAmount)
	}

	inv, err = svc.AddPayment(ctx, 1, inv.ID, core.PaymentInput{Amount: decimal.NewFromInt(60)})
	if err != nil {
		t.Fatalf("failed to add second payment: %v", err)
	}
	if inv.Status != core.InvoicePaid {
		t.Errorf("expected paid once payments reach the total, got %s", inv.Status)
	}
	if inv.PaidAt == nil {
		t.Error("expected paid_at to be set")
	}
	if len(inv.Payments) != 2 {
		t.Errorf("expected 2 recorded payments, got %d", len(inv.Payments))
	}

	// Paying a paid invoice is illegal.
	if _, err := svc.AddPayment(ctx, 1, inv.ID, core.PaymentInput{Amount: decimal.NewFromInt(1)}); err == nil {
		t.Error("expected error paying a paid invoice")
	}
}

func TestInvoice_CancelBlocksPayment(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewInvoiceService(pool, testNotifier())
	inv := createTestInvoice(t, svc)

	inv, err := svc.CancelInvoice(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("failed to cancel: %v", err)
	}
	if inv.Status != core.InvoiceCancelled || inv.CancelledAt == nil {
		t.Errorf("expected cancelled with timestamp, got %s / %v", inv.Status, inv.CancelledAt)
	}

	_, err = svc.AddPayment(ctx, 1, inv.ID, core.PaymentInput{Amount: decimal.NewFromInt(10)})
	var ite *core.IllegalTransitionError
	if !errors.As(err, &ite) {
		t.Fatalf("expected IllegalTransitionError, got %T: %v", err, err)
	}

	// Cancelling again is also illegal.
	if _, err := svc.CancelInvoice(ctx, 1, inv.ID); err == nil {
		t.Error("expected error cancelling a cancelled invoice")
	}
}

func TestInvoice_MarkOverdue(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewInvoiceService(pool, testNotifier())
	inv := createTestInvoice(t, svc)
	if _, _, err := svc.SendInvoice(ctx, 1, inv.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if _, err := pool.Exec(ctx, "UPDATE invoices SET due_date = CURRENT_DATE - 5 WHERE id = $1", inv.ID); err != nil {
		t.Fatalf("failed to backdate: %v", err)
	}

	// A draft invoice past its date must not be touched.
	draft := createTestInvoice(t, svc)
	if _, err := pool.Exec(ctx, "UPDATE invoices SET due_date = CURRENT_DATE - 5 WHERE id = $1", draft.ID); err != nil {
		t.Fatalf("failed to backdate draft: %v", err)
	}

	n, err := svc.MarkOverdueInvoices(ctx, 1)
	if err != nil {
		t.Fatalf("failed to mark overdue: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 invoice marked overdue, got %d", n)
	}

	inv, err = svc.GetInvoice(ctx, 1, inv.ID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if inv.Status != core.InvoiceOverdue {
		t.Errorf("expected overdue, got %s", inv.Status)
	}

	// An overdue invoice can still be paid off.
	inv, err = svc.AddPayment(ctx, 1, inv.ID, core.PaymentInput{Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatalf("failed to pay overdue invoice: %v", err)
	}
	if inv.Status != core.InvoicePaid {
		t.Errorf("expected paid, got %s", inv.Status)
	}
}

func TestInvoice_EditRestrictedToDraft(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewInvoiceService(pool, testNotifier())
	inv := createTestInvoice(t, svc)

	zero := decimal.Zero
	update := core.InvoiceInput{
		Items:   []core.LineItemInput{{Name: "Bigger service", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(200)}},
		TaxRate: &zero,
	}
	inv, err := svc.UpdateInvoice(ctx, 1, inv.ID, update)
	if err != nil {
		t.Fatalf("failed to update draft: %v", err)
	}
	if !inv.Total.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected recomputed total 200, got %s", inv.Total)
	}
	if inv.Number != "INV-00001" {
		t.Errorf("editing must not reassign the number, got %s", inv.Number)
	}

	if _, _, err := svc.SendInvoice(ctx, 1, inv.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if _, err := svc.UpdateInvoice(ctx, 1, inv.ID, update); err == nil {
		t.Error("expected error editing a sent invoice")
	}
	if err := svc.DeleteInvoice(ctx, 1, inv.ID); err == nil {
		t.Error("expected error deleting a sent invoice")
	}
}
