// Package notify delivers outbound documents (quotes, invoices, purchase
// orders) to their recipients. Delivery failures never roll back the sending
// document's status change; callers surface them as warnings.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
)

// Notifier sends a document notification to a recipient address.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a rendered outbound notification.
type Message struct {
	To             string
	Subject        string
	Body           string
	DocType        string
	DocID          int
	DocumentNumber string
}

// LogNotifier writes notifications to the structured log instead of an
// external channel. It is the default when no SMTP endpoint is configured.
type LogNotifier struct {
	log zerolog.Logger
}

func NewLogNotifier(log zerolog.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

func (n *LogNotifier) Send(_ context.Context, msg Message) error {
	if msg.To == "" {
		return fmt.Errorf("notification for %s %s has no recipient", msg.DocType, msg.DocumentNumber)
	}
	n.log.Info().
		Str("to", msg.To).
		Str("doc_type", msg.DocType).
		Str("number", msg.DocumentNumber).
		Str("subject", msg.Subject).
		Msg("notification sent")
	return nil
}
