package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func createTestQuote(t *testing.T, svc core.QuoteService) *core.Quote {
	t.Helper()
	q, err := svc.CreateQuote(context.Background(), 1, core.QuoteInput{
		CustomerID: 1,
		Items: []core.LineItemInput{
			{Name: "Consulting", Quantity: decimal.NewFromInt(2), UnitPrice: decimal.NewFromInt(50)},
			{Name: "Materials", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(30)},
		},
	})
	if err != nil {
		t.Fatalf("failed to create quote: %v", err)
	}
	return q
}

func TestQuoteLifecycle_DraftToAccepted(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool, testNotifier())
	q := createTestQuote(t, svc)

	if q.Status != core.QuoteDraft {
		t.Fatalf("expected draft, got %s", q.Status)
	}
	if q.Number != "QUO-0001" {
		t.Errorf("expected number QUO-0001, got %s", q.Number)
	}
	// Company default tax rate is 10%: (100 + 30) * 1.10.
	if !q.Total.Equal(decimal.NewFromInt(143)) {
		t.Errorf("expected total 143, got %s", q.Total)
	}

	// Accepting a draft is illegal; it must be sent first.
	if _, err := svc.AcceptQuote(ctx, 1, q.ID); err == nil {
		t.Fatal("expected error accepting a draft quote")
	} else {
		var ite *core.IllegalTransitionError
		if !errors.As(err, &ite) {
			t.Fatalf("expected IllegalTransitionError, got %T: %v", err, err)
		}
		if ite.Action != core.ActionAccept {
			t.Errorf("expected action accept, got %s", ite.Action)
		}
	}

	q, warning, err := svc.SendQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to send quote: %v", err)
	}
	if warning != "" {
		t.Errorf("unexpected warning: %s", warning)
	}
	if q.Status != core.QuoteSent || q.SentAt == nil {
		t.Errorf("expected sent with timestamp, got %s / %v", q.Status, q.SentAt)
	}

	// Sending twice is illegal.
	if _, _, err := svc.SendQuote(ctx, 1, q.ID); err == nil {
		t.Error("expected error sending an already-sent quote")
	}

	q, err = svc.MarkQuoteViewed(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to mark viewed: %v", err)
	}
	q, err = svc.AcceptQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to accept quote: %v", err)
	}
	if q.Status != core.QuoteAccepted || q.AcceptedAt == nil {
		t.Errorf("expected accepted with timestamp, got %s / %v", q.Status, q.AcceptedAt)
	}
}

func TestQuote_SendWithoutEmailWarns(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool, testNotifier())
	q, err := svc.CreateQuote(ctx, 1, core.QuoteInput{
		CustomerID: 2, // seeded without an email
		Items:      []core.LineItemInput{{Name: "Item", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.NewFromInt(10)}},
	})
	if err != nil {
		t.Fatalf("failed to create quote: %v", err)
	}

	q, warning, err := svc.SendQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to send quote: %v", err)
	}
	if q.Status != core.QuoteSent {
		t.Errorf("send must succeed despite notification trouble, got status %s", q.Status)
	}
	if warning == "" {
		t.Error("expected a warning when the customer has no email")
	}
}

func TestQuote_RejectRequiresReason(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool, testNotifier())
	q := createTestQuote(t, svc)
	if _, _, err := svc.SendQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}

	if _, err := svc.RejectQuote(ctx, 1, q.ID, nil); err == nil {
		t.Fatal("expected error rejecting without a reason")
	} else {
		var ve *core.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("expected ValidationError, got %T: %v", err, err)
		}
	}

	reason := "went with another supplier"
	q, err := svc.RejectQuote(ctx, 1, q.ID, &reason)
	if err != nil {
		t.Fatalf("failed to reject: %v", err)
	}
	if q.Status != core.QuoteRejected || q.RejectedAt == nil {
		t.Errorf("expected rejected with timestamp, got %s / %v", q.Status, q.RejectedAt)
	}
	if q.RejectionReason == nil || *q.RejectionReason != reason {
		t.Errorf("expected reason %q, got %v", reason, q.RejectionReason)
	}

	// Rejected is terminal.
	if _, err := svc.AcceptQuote(ctx, 1, q.ID); err == nil {
		t.Error("expected error accepting a rejected quote")
	}
}

func TestQuote_ConvertToInvoice(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool, testNotifier())
	q := createTestQuote(t, svc)

	// Conversion requires an accepted quote.
	if _, err := svc.ConvertToInvoice(ctx, 1, q.ID, nil); err == nil {
		t.Fatal("expected error converting a draft quote")
	}

	if _, _, err := svc.SendQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}
	if _, err := svc.AcceptQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("failed to accept: %v", err)
	}

	inv, err := svc.ConvertToInvoice(ctx, 1, q.ID, nil)
	if err != nil {
		t.Fatalf("failed to convert: %v", err)
	}
	if inv.Number != "INV-00001" {
		t.Errorf("expected INV-00001, got %s", inv.Number)
	}
	if !inv.Total.Equal(q.Total) {
		t.Errorf("invoice total %s does not match quote total %s", inv.Total, q.Total)
	}
	if len(inv.Items) != len(q.Items) {
		t.Errorf("expected %d copied items, got %d", len(q.Items), len(inv.Items))
	}
	if inv.QuoteID == nil || *inv.QuoteID != q.ID {
		t.Errorf("invoice must reference quote %d, got %v", q.ID, inv.QuoteID)
	}

	// Converting again returns the same invoice instead of minting another.
	again, err := svc.ConvertToInvoice(ctx, 1, q.ID, nil)
	if err != nil {
		t.Fatalf("failed on repeat convert: %v", err)
	}
	if again.ID != inv.ID {
		t.Errorf("expected existing invoice %d, got %d", inv.ID, again.ID)
	}

	// Items are copies: changing the invoice draft must not touch the quote.
	q2, err := svc.GetQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to reload quote: %v", err)
	}
	if q2.ConvertedInvoiceID == nil || *q2.ConvertedInvoiceID != inv.ID {
		t.Errorf("quote must record converted invoice %d, got %v", inv.ID, q2.ConvertedInvoiceID)
	}
}

func TestQuote_ExpireStaleQuotes(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	svc := core.NewQuoteService(pool, testNotifier())
	q := createTestQuote(t, svc)
	if _, _, err := svc.SendQuote(ctx, 1, q.ID); err != nil {
		t.Fatalf("failed to send: %v", err)
	}

	// Force the validity window into the past.
	if _, err := pool.Exec(ctx, "UPDATE quotes SET valid_until = CURRENT_DATE - 1 WHERE id = $1", q.ID); err != nil {
		t.Fatalf("failed to backdate quote: %v", err)
	}

	n, err := svc.ExpireStaleQuotes(ctx, 1)
	if err != nil {
		t.Fatalf("failed to expire: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 expired quote, got %d", n)
	}

	q2, err := svc.GetQuote(ctx, 1, q.ID)
	if err != nil {
		t.Fatalf("failed to reload: %v", err)
	}
	if q2.Status != core.QuoteExpired {
		t.Errorf("expected expired, got %s", q2.Status)
	}

	// Expired quotes cannot be accepted.
	if _, err := svc.AcceptQuote(ctx, 1, q.ID); err == nil {
		t.Error("expected error accepting an expired quote")
	}
}

func TestQuote_TenantIsolation(t *testing.T) {
	pool := setupTestDB(t)
	defer pool.Close()
	ctx := context.Background()

	if _, err := pool.Exec(ctx, "INSERT INTO companies (id, name) VALUES (2, 'Other Co')"); err != nil {
		t.Fatalf("failed to seed second company: %v", err)
	}

	svc := core.NewQuoteService(pool, testNotifier())
	q := createTestQuote(t, svc)

	// Another company cannot see the quote; the miss reads as not found.
	if _, err := svc.GetQuote(ctx, 2, q.ID); err == nil {
		t.Fatal("expected not found for foreign company")
	} else {
		var nfe *core.NotFoundError
		if !errors.As(err, &nfe) {
			t.Fatalf("expected NotFoundError, got %T: %v", err, err)
		}
	}
}
