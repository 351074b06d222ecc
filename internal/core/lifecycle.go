package core

// Status lifecycles for the document types. Each document type has a fixed
// transition table: an action is legal only when the current status is in the
// action's source set. Transitions are one-directional; rejected and expired
// quotes cannot be reopened.

type QuoteStatus string

const (
	QuoteDraft    QuoteStatus = "draft"
	QuoteSent     QuoteStatus = "sent"
	QuoteViewed   QuoteStatus = "viewed"
	QuoteAccepted QuoteStatus = "accepted"
	QuoteRejected QuoteStatus = "rejected"
	QuoteExpired  QuoteStatus = "expired"
)

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

type POStatus string

const (
	PODraft      POStatus = "draft"
	POSent       POStatus = "sent"
	POConfirmed  POStatus = "confirmed"
	POInProgress POStatus = "in_progress"
	POCompleted  POStatus = "completed"
	POCancelled  POStatus = "cancelled"
)

type SaleStatus string

const (
	SaleCompleted         SaleStatus = "completed"
	SalePartiallyReturned SaleStatus = "partially_returned"
	SaleReturned          SaleStatus = "returned"
)

// Action names a lifecycle operation on a document.
type Action string

const (
	ActionSend     Action = "send"
	ActionView     Action = "view"
	ActionAccept   Action = "accept"
	ActionReject   Action = "reject"
	ActionExpire   Action = "expire"
	ActionConvert  Action = "convert"
	ActionPay      Action = "pay"
	ActionOverdue  Action = "mark_overdue"
	ActionCancel   Action = "cancel"
	ActionConfirm  Action = "confirm"
	ActionStart    Action = "start"
	ActionComplete Action = "complete"
)

// quoteTransitions maps each quote action to its legal source statuses and
// resulting status.
var quoteTransitions = map[Action]struct {
	from []QuoteStatus
	to   QuoteStatus
}{
	ActionSend:    {from: []QuoteStatus{QuoteDraft}, to: QuoteSent},
	ActionView:    {from: []QuoteStatus{QuoteSent}, to: QuoteViewed},
	ActionAccept:  {from: []QuoteStatus{QuoteSent, QuoteViewed}, to: QuoteAccepted},
	ActionReject:  {from: []QuoteStatus{QuoteSent, QuoteViewed}, to: QuoteRejected},
	ActionExpire:  {from: []QuoteStatus{QuoteSent, QuoteViewed}, to: QuoteExpired},
	ActionConvert: {from: []QuoteStatus{QuoteAccepted}, to: QuoteAccepted},
}

var invoiceTransitions = map[Action]struct {
	from []InvoiceStatus
	to   InvoiceStatus
}{
	ActionSend:    {from: []InvoiceStatus{InvoiceDraft}, to: InvoiceSent},
	ActionPay:     {from: []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoiceOverdue}, to: InvoicePaid},
	ActionOverdue: {from: []InvoiceStatus{InvoiceSent}, to: InvoiceOverdue},
	ActionCancel:  {from: []InvoiceStatus{InvoiceDraft, InvoiceSent, InvoiceOverdue}, to: InvoiceCancelled},
}

var poTransitions = map[Action]struct {
	from []POStatus
	to   POStatus
}{
	ActionSend:     {from: []POStatus{PODraft}, to: POSent},
	ActionConfirm:  {from: []POStatus{POSent}, to: POConfirmed},
	ActionStart:    {from: []POStatus{POConfirmed}, to: POInProgress},
	ActionComplete: {from: []POStatus{POConfirmed, POInProgress}, to: POCompleted},
	ActionCancel:   {from: []POStatus{PODraft, POSent, POConfirmed}, to: POCancelled},
}

// NextQuoteStatus validates action against the quote transition table and
// returns the resulting status, or an IllegalTransitionError.
func NextQuoteStatus(current QuoteStatus, action Action) (QuoteStatus, error) {
	t, ok := quoteTransitions[action]
	if !ok {
		return "", &IllegalTransitionError{DocType: "quote", Action: action, Status: string(current)}
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return "", &IllegalTransitionError{DocType: "quote", Action: action, Status: string(current)}
}

// NextInvoiceStatus validates action against the invoice transition table.
func NextInvoiceStatus(current InvoiceStatus, action Action) (InvoiceStatus, error) {
	t, ok := invoiceTransitions[action]
	if !ok {
		return "", &IllegalTransitionError{DocType: "invoice", Action: action, Status: string(current)}
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return "", &IllegalTransitionError{DocType: "invoice", Action: action, Status: string(current)}
}

// NextPOStatus validates action against the purchase order transition table.
func NextPOStatus(current POStatus, action Action) (POStatus, error) {
	t, ok := poTransitions[action]
	if !ok {
		return "", &IllegalTransitionError{DocType: "purchase order", Action: action, Status: string(current)}
	}
	for _, s := range t.from {
		if s == current {
			return t.to, nil
		}
	}
	return "", &IllegalTransitionError{DocType: "purchase order", Action: action, Status: string(current)}
}
