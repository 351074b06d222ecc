package core_test

import (
	"errors"
	"testing"

	"github.com/thejaskrizzz/business-managerpro/internal/core"
)

func TestNextQuoteStatus(t *testing.T) {
	tests := []struct {
		name    string
		current core.QuoteStatus
		action  core.Action
		want    core.QuoteStatus
		wantErr bool
	}{
		{name: "draft can be sent", current: core.QuoteDraft, action: core.ActionSend, want: core.QuoteSent},
		{name: "sent can be viewed", current: core.QuoteSent, action: core.ActionView, want: core.QuoteViewed},
		{name: "sent can be accepted", current: core.QuoteSent, action: core.ActionAccept, want: core.QuoteAccepted},
		{name: "viewed can be accepted", current: core.QuoteViewed, action: core.ActionAccept, want: core.QuoteAccepted},
		{name: "viewed can be rejected", current: core.QuoteViewed, action: core.ActionReject, want: core.QuoteRejected},
		{name: "sent can expire", current: core.QuoteSent, action: core.ActionExpire, want: core.QuoteExpired},
		{name: "accepted can be converted", current: core.QuoteAccepted, action: core.ActionConvert, want: core.QuoteAccepted},

		{name: "draft cannot be accepted", current: core.QuoteDraft, action: core.ActionAccept, wantErr: true},
		{name: "draft cannot be rejected", current: core.QuoteDraft, action: core.ActionReject, wantErr: true},
		{name: "sent cannot be sent again", current: core.QuoteSent, action: core.ActionSend, wantErr: true},
		{name: "rejected is terminal", current: core.QuoteRejected, action: core.ActionSend, wantErr: true},
		{name: "expired is terminal", current: core.QuoteExpired, action: core.ActionAccept, wantErr: true},
		{name: "draft cannot be converted", current: core.QuoteDraft, action: core.ActionConvert, wantErr: true},
		{name: "unknown action", current: core.QuoteDraft, action: core.Action("archive"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.NextQuoteStatus(tt.current, tt.action)
			if tt.wantErr {
				var iterr *core.IllegalTransitionError
				if !errors.As(err, &iterr) {
					t.Fatalf("expected IllegalTransitionError, got %v", err)
				}
				if iterr.Action != tt.action || iterr.Status != string(tt.current) {
					t.Errorf("error carries action=%s status=%s, want %s/%s", iterr.Action, iterr.Status, tt.action, tt.current)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("next status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextInvoiceStatus(t *testing.T) {
	tests := []struct {
		name    string
		current core.InvoiceStatus
		action  core.Action
		want    core.InvoiceStatus
		wantErr bool
	}{
		{name: "draft can be sent", current: core.InvoiceDraft, action: core.ActionSend, want: core.InvoiceSent},
		{name: "draft can be paid", current: core.InvoiceDraft, action: core.ActionPay, want: core.InvoicePaid},
		{name: "sent can be paid", current: core.InvoiceSent, action: core.ActionPay, want: core.InvoicePaid},
		{name: "overdue can be paid", current: core.InvoiceOverdue, action: core.ActionPay, want: core.InvoicePaid},
		{name: "sent can go overdue", current: core.InvoiceSent, action: core.ActionOverdue, want: core.InvoiceOverdue},
		{name: "sent can be cancelled", current: core.InvoiceSent, action: core.ActionCancel, want: core.InvoiceCancelled},

		{name: "paid cannot be paid again", current: core.InvoicePaid, action: core.ActionPay, wantErr: true},
		{name: "paid cannot be cancelled", current: core.InvoicePaid, action: core.ActionCancel, wantErr: true},
		{name: "cancelled is terminal", current: core.InvoiceCancelled, action: core.ActionSend, wantErr: true},
		{name: "draft cannot go overdue", current: core.InvoiceDraft, action: core.ActionOverdue, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.NextInvoiceStatus(tt.current, tt.action)
			if tt.wantErr {
				var iterr *core.IllegalTransitionError
				if !errors.As(err, &iterr) {
					t.Fatalf("expected IllegalTransitionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("next status = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNextPOStatus(t *testing.T) {
	tests := []struct {
		name    string
		current core.POStatus
		action  core.Action
		want    core.POStatus
		wantErr bool
	}{
		{name: "draft can be sent", current: core.PODraft, action: core.ActionSend, want: core.POSent},
		{name: "sent can be confirmed", current: core.POSent, action: core.ActionConfirm, want: core.POConfirmed},
		{name: "confirmed can start", current: core.POConfirmed, action: core.ActionStart, want: core.POInProgress},
		{name: "confirmed can complete", current: core.POConfirmed, action: core.ActionComplete, want: core.POCompleted},
		{name: "in progress can complete", current: core.POInProgress, action: core.ActionComplete, want: core.POCompleted},
		{name: "draft can be cancelled", current: core.PODraft, action: core.ActionCancel, want: core.POCancelled},

		{name: "draft cannot be confirmed", current: core.PODraft, action: core.ActionConfirm, wantErr: true},
		{name: "confirmed cannot be confirmed again", current: core.POConfirmed, action: core.ActionConfirm, wantErr: true},
		{name: "completed is terminal", current: core.POCompleted, action: core.ActionCancel, wantErr: true},
		{name: "in progress cannot be cancelled", current: core.POInProgress, action: core.ActionCancel, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := core.NextPOStatus(tt.current, tt.action)
			if tt.wantErr {
				var iterr *core.IllegalTransitionError
				if !errors.As(err, &iterr) {
					t.Fatalf("expected IllegalTransitionError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("next status = %s, want %s", got, tt.want)
			}
		})
	}
}
