package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/thejaskrizzz/business-managerpro/internal/notify"
)

//go:generate mockgen -source=quote_service.go -destination=quote_service_mock.go -package=core

// QuoteInput holds the writable quote fields. Totals are always recomputed
// server-side from the items.
type QuoteInput struct {
	CustomerID   int              `json:"customer_id"`
	Items        []LineItemInput  `json:"items"`
	Discount     decimal.Decimal  `json:"discount"`
	DiscountType DiscountType     `json:"discount_type"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
	ValidUntil   *time.Time       `json:"valid_until,omitempty"`
}

// QuoteService manages the quote lifecycle: draft, send, customer response,
// and conversion into an invoice. Numbers are assigned at creation from the
// company's quote counter and are never reused.
type QuoteService interface {
	CreateQuote(ctx context.Context, companyID int, input QuoteInput) (*Quote, error)
	GetQuote(ctx context.Context, companyID, quoteID int) (*Quote, error)
	GetQuotes(ctx context.Context, companyID int, status *QuoteStatus, customerID *int) ([]Quote, error)
	UpdateQuote(ctx context.Context, companyID, quoteID int, input QuoteInput) (*Quote, error)
	DeleteQuote(ctx context.Context, companyID, quoteID int) error
	// SendQuote transitions the quote to sent and notifies the customer. A
	// notification failure does not roll back the send; it is returned as a
	// non-empty warning alongside the updated quote.
	SendQuote(ctx context.Context, companyID, quoteID int) (*Quote, string, error)
	MarkQuoteViewed(ctx context.Context, companyID, quoteID int) (*Quote, error)
	AcceptQuote(ctx context.Context, companyID, quoteID int) (*Quote, error)
	RejectQuote(ctx context.Context, companyID, quoteID int, reason *string) (*Quote, error)
	// ExpireStaleQuotes marks every sent or viewed quote whose validity date
	// has passed as expired and reports how many were affected.
	ExpireStaleQuotes(ctx context.Context, companyID int) (int64, error)
	// ConvertToInvoice creates an invoice from an accepted quote, copying the
	// line items by value. Converting an already-converted quote returns the
	// existing invoice.
	ConvertToInvoice(ctx context.Context, companyID, quoteID int, dueDate *time.Time) (*Invoice, error)
}

type quoteService struct {
	pool     *pgxpool.Pool
	notifier notify.Notifier
}

// NewQuoteService constructs a QuoteService backed by PostgreSQL.
func NewQuoteService(pool *pgxpool.Pool, notifier notify.Notifier) QuoteService {
	return &quoteService{pool: pool, notifier: notifier}
}

const quoteColumns = `q.id, q.company_id, q.customer_id, c.name, q.number, q.status,
	q.subtotal, q.discount, q.discount_type, q.tax_rate, q.tax_amount, q.total,
	q.notes, q.valid_until, q.rejection_reason, q.converted_invoice_id,
	q.sent_at, q.viewed_at, q.accepted_at, q.rejected_at, q.created_at, q.updated_at`

const quoteFrom = " FROM quotes q JOIN customers c ON c.id = q.customer_id "

func scanQuote(row pgx.Row) (*Quote, error) {
	q := &Quote{}
	err := row.Scan(&q.ID, &q.CompanyID, &q.CustomerID, &q.CustomerName, &q.Number, &q.Status,
		&q.Subtotal, &q.Discount, &q.DiscountType, &q.TaxRate, &q.TaxAmount, &q.Total,
		&q.Notes, &q.ValidUntil, &q.RejectionReason, &q.ConvertedInvoiceID,
		&q.SentAt, &q.ViewedAt, &q.AcceptedAt, &q.RejectedAt, &q.CreatedAt, &q.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return q, nil
}

func getQuote(ctx context.Context, run pgxRunner, companyID, quoteID int) (*Quote, error) {
	q, err := scanQuote(run.QueryRow(ctx,
		"SELECT "+quoteColumns+quoteFrom+"WHERE q.id = $1 AND q.company_id = $2",
		quoteID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("quote", quoteID)
		}
		return nil, fmt.Errorf("get quote %d: %w", quoteID, err)
	}
	q.Items, err = loadDocItems(ctx, run, "quote_items", "quote_id", quoteID)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ── Create / read / update / delete ─────────────────────────────────────────

func (s *quoteService) CreateQuote(ctx context.Context, companyID int, input QuoteInput) (*Quote, error) {
	if input.CustomerID == 0 {
		return nil, newValidationError("customer_id", "is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var defaultTaxRate decimal.Decimal
	var validityDays int
	err = tx.QueryRow(ctx,
		"SELECT default_tax_rate, quote_validity_days FROM companies WHERE id = $1",
		companyID,
	).Scan(&defaultTaxRate, &validityDays)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("load company %d: %w", companyID, err)
	}

	var customerName string
	err = tx.QueryRow(ctx,
		"SELECT name FROM customers WHERE id = $1 AND company_id = $2 AND is_active = true",
		input.CustomerID, companyID,
	).Scan(&customerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", input.CustomerID)
		}
		return nil, fmt.Errorf("load customer %d: %w", input.CustomerID, err)
	}

	taxRate := defaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	totals, err := ComputeTotals(input.Items, taxRate, input.Discount, input.DiscountType)
	if err != nil {
		return nil, err
	}

	validUntil := input.ValidUntil
	if validUntil == nil {
		v := time.Now().AddDate(0, 0, validityDays)
		validUntil = &v
	}

	number, err := nextCounterNumber(ctx, tx, companyID, "quote")
	if err != nil {
		return nil, err
	}

	discountType := input.DiscountType
	if discountType == "" {
		discountType = DiscountAmount
	}

	var quoteID int
	err = tx.QueryRow(ctx, `
		INSERT INTO quotes (company_id, customer_id, number, subtotal, discount, discount_type,
			tax_rate, tax_amount, total, notes, valid_until)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		companyID, input.CustomerID, number, totals.Subtotal, input.Discount, discountType,
		taxRate, totals.TaxAmount, totals.Total, input.Notes, validUntil,
	).Scan(&quoteID)
	if err != nil {
		return nil, fmt.Errorf("insert quote %s: %w", number, err)
	}
	if err := insertDocItems(ctx, tx, "quote_items", "quote_id", quoteID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quote %s: %w", number, err)
	}
	return getQuote(ctx, s.pool, companyID, quoteID)
}

func (s *quoteService) GetQuote(ctx context.Context, companyID, quoteID int) (*Quote, error) {
	return getQuote(ctx, s.pool, companyID, quoteID)
}

func (s *quoteService) GetQuotes(ctx context.Context, companyID int, status *QuoteStatus, customerID *int) ([]Quote, error) {
	query := "SELECT " + quoteColumns + quoteFrom + "WHERE q.company_id = $1"
	args := []any{companyID}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND q.status = $%d", len(args))
	}
	if customerID != nil {
		args = append(args, *customerID)
		query += fmt.Sprintf(" AND q.customer_id = $%d", len(args))
	}
	query += " ORDER BY q.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list quotes: %w", err)
	}
	defer rows.Close()

	var quotes []Quote
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, fmt.Errorf("scan quote: %w", err)
		}
		quotes = append(quotes, *q)
	}
	return quotes, rows.Err()
}

func (s *quoteService) UpdateQuote(ctx context.Context, companyID, quoteID int, input QuoteInput) (*Quote, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status QuoteStatus
	var taxRate decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT status, tax_rate FROM quotes WHERE id = $1 AND company_id = $2 FOR UPDATE",
		quoteID, companyID,
	).Scan(&status, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("quote", quoteID)
		}
		return nil, fmt.Errorf("lock quote %d: %w", quoteID, err)
	}
	if status != QuoteDraft {
		return nil, newValidationError("status", "only draft quotes can be edited")
	}

	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	totals, err := ComputeTotals(input.Items, taxRate, input.Discount, input.DiscountType)
	if err != nil {
		return nil, err
	}
	discountType := input.DiscountType
	if discountType == "" {
		discountType = DiscountAmount
	}

	var customerID *int
	if input.CustomerID != 0 {
		err = tx.QueryRow(ctx,
			"SELECT id FROM customers WHERE id = $1 AND company_id = $2 AND is_active = true",
			input.CustomerID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("customer", input.CustomerID)
			}
			return nil, fmt.Errorf("load customer %d: %w", input.CustomerID, err)
		}
		customerID = &input.CustomerID
	}

	_, err = tx.Exec(ctx, `
		UPDATE quotes SET
			customer_id = COALESCE($3, customer_id),
			subtotal    = $4, discount = $5, discount_type = $6,
			tax_rate    = $7, tax_amount = $8, total = $9,
			notes       = COALESCE($10, notes),
			valid_until = COALESCE($11, valid_until),
			updated_at  = NOW()
		WHERE id = $1 AND company_id = $2`,
		quoteID, companyID, customerID, totals.Subtotal, input.Discount, discountType,
		taxRate, totals.TaxAmount, totals.Total, input.Notes, input.ValidUntil,
	)
	if err != nil {
		return nil, fmt.Errorf("update quote %d: %w", quoteID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM quote_items WHERE quote_id = $1", quoteID); err != nil {
		return nil, fmt.Errorf("clear quote items: %w", err)
	}
	if err := insertDocItems(ctx, tx, "quote_items", "quote_id", quoteID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quote update: %w", err)
	}
	return getQuote(ctx, s.pool, companyID, quoteID)
}

func (s *quoteService) DeleteQuote(ctx context.Context, companyID, quoteID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM quotes WHERE id = $1 AND company_id = $2 AND status = 'draft'",
		quoteID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete quote %d: %w", quoteID, err)
	}
	if tag.RowsAffected() == 0 {
		q, gerr := getQuote(ctx, s.pool, companyID, quoteID)
		if gerr != nil {
			return gerr
		}
		return newValidationError("status", fmt.Sprintf("only draft quotes can be deleted, quote is %s", q.Status))
	}
	return nil
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

// applyQuoteAction locks the quote row, validates the transition, and applies
// the status change together with extraSet (additional SET clauses).
func (s *quoteService) applyQuoteAction(ctx context.Context, companyID, quoteID int, action Action, extraSet string, extraArgs ...any) (*Quote, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current QuoteStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM quotes WHERE id = $1 AND company_id = $2 FOR UPDATE",
		quoteID, companyID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("quote", quoteID)
		}
		return nil, fmt.Errorf("lock quote %d: %w", quoteID, err)
	}

	next, err := NextQuoteStatus(current, action)
	if err != nil {
		return nil, err
	}

	query := "UPDATE quotes SET status = $3, updated_at = NOW()" + extraSet + " WHERE id = $1 AND company_id = $2"
	args := append([]any{quoteID, companyID, next}, extraArgs...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s quote %d: %w", action, quoteID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quote %s: %w", action, err)
	}
	return getQuote(ctx, s.pool, companyID, quoteID)
}

func (s *quoteService) SendQuote(ctx context.Context, companyID, quoteID int) (*Quote, string, error) {
	q, err := getQuote(ctx, s.pool, companyID, quoteID)
	if err != nil {
		return nil, "", err
	}
	if len(q.Items) == 0 {
		return nil, "", newValidationError("items", "cannot send a quote with no items")
	}

	q, err = s.applyQuoteAction(ctx, companyID, quoteID, ActionSend, ", sent_at = NOW()")
	if err != nil {
		return nil, "", err
	}

	warning := ""
	var email *string
	if err := s.pool.QueryRow(ctx, "SELECT email FROM customers WHERE id = $1", q.CustomerID).Scan(&email); err == nil && email != nil {
		msg := notify.Message{
			To:             *email,
			Subject:        fmt.Sprintf("Quote %s", q.Number),
			DocType:        "quote",
			DocID:          q.ID,
			DocumentNumber: q.Number,
		}
		if nerr := s.notifier.Send(ctx, msg); nerr != nil {
			warning = fmt.Sprintf("quote sent but notification failed: %v", nerr)
		}
	} else {
		warning = "quote sent but customer has no email on file"
	}
	return q, warning, nil
}

func (s *quoteService) MarkQuoteViewed(ctx context.Context, companyID, quoteID int) (*Quote, error) {
	return s.applyQuoteAction(ctx, companyID, quoteID, ActionView, ", viewed_at = NOW()")
}

func (s *quoteService) AcceptQuote(ctx context.Context, companyID, quoteID int) (*Quote, error) {
	return s.applyQuoteAction(ctx, companyID, quoteID, ActionAccept, ", accepted_at = NOW()")
}

func (s *quoteService) RejectQuote(ctx context.Context, companyID, quoteID int, reason *string) (*Quote, error) {
	if reason == nil || *reason == "" {
		return nil, newValidationError("reason", "rejection reason is required")
	}
	return s.applyQuoteAction(ctx, companyID, quoteID, ActionReject, ", rejected_at = NOW(), rejection_reason = $4", *reason)
}

func (s *quoteService) ExpireStaleQuotes(ctx context.Context, companyID int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE quotes SET status = 'expired', updated_at = NOW()
		WHERE company_id = $1 AND status IN ('sent', 'viewed') AND valid_until < CURRENT_DATE`,
		companyID,
	)
	if err != nil {
		return 0, fmt.Errorf("expire stale quotes: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ── Conversion ──────────────────────────────────────────────────────────────

func (s *quoteService) ConvertToInvoice(ctx context.Context, companyID, quoteID int, dueDate *time.Time) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current QuoteStatus
	var existingInvoiceID *int
	err = tx.QueryRow(ctx,
		"SELECT status, converted_invoice_id FROM quotes WHERE id = $1 AND company_id = $2 FOR UPDATE",
		quoteID, companyID,
	).Scan(&current, &existingInvoiceID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("quote", quoteID)
		}
		return nil, fmt.Errorf("lock quote %d: %w", quoteID, err)
	}
	if existingInvoiceID != nil {
		return getInvoice(ctx, s.pool, companyID, *existingInvoiceID)
	}
	if _, err := NextQuoteStatus(current, ActionConvert); err != nil {
		return nil, err
	}

	q, err := getQuote(ctx, tx, companyID, quoteID)
	if err != nil {
		return nil, err
	}

	number, err := nextCounterNumber(ctx, tx, companyID, "invoice")
	if err != nil {
		return nil, err
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (company_id, customer_id, quote_id, number, subtotal, discount,
			discount_type, tax_rate, tax_amount, total, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		companyID, q.CustomerID, quoteID, number, q.Subtotal, q.Discount,
		q.DiscountType, q.TaxRate, q.TaxAmount, q.Total, dueDate, q.Notes,
	).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("insert invoice %s from quote %d: %w", number, quoteID, err)
	}
	if err := insertDocItems(ctx, tx, "invoice_items", "invoice_id", invoiceID, q.Items); err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		"UPDATE quotes SET converted_invoice_id = $3, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		quoteID, companyID, invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("link quote %d to invoice %d: %w", quoteID, invoiceID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit quote conversion: %w", err)
	}
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}
