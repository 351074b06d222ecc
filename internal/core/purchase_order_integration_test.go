package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func TestPurchaseOrder_FullLifecycleReceivesStock(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewPurchaseOrderService(pool, testNotifier())
	productID := 1

	po, err := svc.CreatePurchaseOrder(ctx, 1, core.PurchaseOrderInput{
		VendorID: 1,
		Items: []core.LineItemInput{
			{ProductID: &productID, Name: "Widget", Quantity: decimal.NewFromInt(25), UnitPrice: decimal.NewFromInt(30)},
		},
	})
	if err != nil {
		t.Fatalf("failed to create purchase order: %v", err)
	}
	if po.Status != core.PODraft {
		t.Fatalf("expected draft, got %s", po.Status)
	}
	if po.Number != "PO-0001" {
		t.Errorf("expected PO-0001, got %s", po.Number)
	}
	if po.Client.Kind != core.ClientCompany {
		t.Errorf("expected company client by default, got %s", po.Client.Kind)
	}

	// Confirm requires sent first.
	if _, err := svc.ConfirmPurchaseOrder(ctx, 1, po.ID, "ops@test"); err == nil {
		t.Fatal("expected error confirming a draft order")
	}

	po, warning, err := svc.SendPurchaseOrder(ctx, 1, po.ID)
	if err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}

	po, err = svc.ConfirmPurchaseOrder(ctx, 1, po.ID, "ops@test")
	if err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}
	if po.ApprovedBy == nil || *po.ApprovedBy != "ops@test" {
		t.Errorf("expected approved_by recorded, got %v", po.ApprovedBy)
	}

	po, err = svc.StartPurchaseOrder(ctx, 1, po.ID)
	if err != nil {
		t.Fatalf("failed to start: %v", err)
	}
	if po.Status != core.POInProgress {
		t.Errorf("expected in_progress, got %s", po.Status)
	}

	po, err = svc.CompletePurchaseOrder(ctx, 1, po.ID, nil)
	if err != nil {
		t.Fatalf("failed to complete: %v", err)
	}
	if po.Status != core.POCompleted || po.CompletedAt == nil || po.ActualDeliveryDate == nil {
		t.Errorf("expected completed with delivery recorded, got %s", po.Status)
	}

	// Seeded stock is 100; completing receives 25 more.
	var stock decimal.Decimal
	if err := pool.QueryRow(ctx, "SELECT stock_quantity FROM products WHERE id = 1").Scan(&stock); err != nil {
		t.Fatalf("failed to read stock: %v", err)
	}
	if !stock.Equal(decimal.NewFromInt(125)) {
		t.Errorf("expected stock 125 after receipt, got %s", stock)
	}

	// A completed order is terminal.
	if _, err := svc.CancelPurchaseOrder(ctx, 1, po.ID); err == nil {
		t.Error("expected error cancelling a completed order")
	}
}

func TestPurchaseOrder_CustomerClient(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewPurchaseOrderService(pool, testNotifier())
	customerID := 1

	po, err := svc.CreatePurchaseOrder(ctx, 1, core.PurchaseOrderInput{
		VendorID: 1,
		Client:   core.ClientRef{Kind: core.ClientCustomer, CustomerID: &customerID},
		Items:    []core.LineItemInput{{Name: "Special part", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(75)}},
	})
	if err != nil {
		t.Fatalf("failed to create order for customer: %v", err)
	}
	if po.Client.Kind != core.ClientCustomer || po.Client.CustomerID == nil || *po.Client.CustomerID != customerID {
		t.Errorf("expected customer client %d, got %+v", customerID, po.Client)
	}

	// A customer client without an ID is rejected before persistence.
	_, err = svc.CreatePurchaseOrder(ctx, 1, core.PurchaseOrderInput{
		VendorID: 1,
		Client:   core.ClientRef{Kind: core.ClientCustomer},
		Items:    []core.LineItemInput{{Name: "Part", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}

	// Same for a company client carrying a customer ID.
	_, err = svc.CreatePurchaseOrder(ctx, 1, core.PurchaseOrderInput{
		VendorID: 1,
		Client:   core.ClientRef{Kind: core.ClientCompany, CustomerID: &customerID},
		Items:    []core.LineItemInput{{Name: "Part", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})
	if !errors.As(err, &ve) {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
}

func TestPurchaseOrder_CancelWindow(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewPurchaseOrderService(pool, testNotifier())
	po, err := svc.CreatePurchaseOrder(ctx, 1, core.PurchaseOrderInput{
		VendorID: 1,
		Items:    []core.LineItemInput{{Name: "Part", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})
	if err != nil {
		t.Fatalf("failed to create: %v", err)
	}
	if _, _, err := svc.SendPurchaseOrder(ctx, 1, po.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if _, err := svc.ConfirmPurchaseOrder(ctx, 1, po.ID, "ops@test"); err != nil {
		t.Fatalf("failed to confirm: %v", err)
	}

	// Confirmed orders can still be cancelled; in-progress ones cannot.
	po, err = svc.CancelPurchaseOrder(ctx, 1, po.ID)
	if err != nil {
		t.Fatalf("failed to cancel confirmed order: %v", err)
	}
	if po.Status != core.POCancelled {
		t.Errorf("expected cancelled, got %s", po.Status)
	}
	if _, err := svc.StartPurchaseOrder(ctx, 1, po.ID); err == nil {
		t.Error("expected error starting a cancelled order")
	}
}
