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

// InvoiceInput holds the writable invoice fields.
type InvoiceInput struct {
	CustomerID   int              `json:"customer_id"`
	Items        []LineItemInput  `json:"items"`
	Discount     decimal.Decimal  `json:"discount"`
	DiscountType DiscountType     `json:"discount_type"`
	TaxRate      *decimal.Decimal `json:"tax_rate,omitempty"`
	DueDate      *time.Time       `json:"due_date,omitempty"`
	Notes        *string          `json:"notes,omitempty"`
}

// PaymentInput records money received against an invoice.
type PaymentInput struct {
	Amount    decimal.Decimal `json:"amount"`
	PaidOn    *time.Time      `json:"paid_on,omitempty"`
	Method    string          `json:"method"`
	Reference *string         `json:"reference,omitempty"`
}

// InvoiceService manages invoices and their payments. An invoice transitions
// to paid automatically when its cumulative payments reach the total.
type InvoiceService interface {
	CreateInvoice(ctx context.Context, companyID int, input InvoiceInput) (*Invoice, error)
	GetInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error)
	GetInvoices(ctx context.Context, companyID int, status *InvoiceStatus, customerID *int) ([]Invoice, error)
	UpdateInvoice(ctx context.Context, companyID, invoiceID int, input InvoiceInput) (*Invoice, error)
	DeleteInvoice(ctx context.Context, companyID, invoiceID int) error
	// SendInvoice transitions the invoice to sent and notifies the customer.
	// Notification failure is returned as a warning, not an error.
	SendInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, string, error)
	AddPayment(ctx context.Context, companyID, invoiceID int, input PaymentInput) (*Invoice, error)
	CancelInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error)
	// MarkOverdueInvoices flips every sent invoice past its due date to
	// overdue and reports how many were affected.
	MarkOverdueInvoices(ctx context.Context, companyID int) (int64, error)
}

type invoiceService struct {
	pool     *pgxpool.Pool
	notifier notify.Notifier
}

// NewInvoiceService constructs an InvoiceService backed by PostgreSQL.
func NewInvoiceService(pool *pgxpool.Pool, notifier notify.Notifier) InvoiceService {
	return &invoiceService{pool: pool, notifier: notifier}
}

const invoiceColumns = `i.id, i.company_id, i.customer_id, c.name, i.quote_id, i.number, i.status,
	i.subtotal, i.discount, i.discount_type, i.tax_rate, i.tax_amount, i.total, i.paid_amount,
	i.due_date, i.notes, i.sent_at, i.paid_at, i.cancelled_at, i.created_at, i.updated_at`

const invoiceFrom = " FROM invoices i JOIN customers c ON c.id = i.customer_id "

func scanInvoice(row pgx.Row) (*Invoice, error) {
	inv := &Invoice{}
	err := row.Scan(&inv.ID, &inv.CompanyID, &inv.CustomerID, &inv.CustomerName, &inv.QuoteID,
		&inv.Number, &inv.Status, &inv.Subtotal, &inv.Discount, &inv.DiscountType,
		&inv.TaxRate, &inv.TaxAmount, &inv.Total, &inv.PaidAmount,
		&inv.DueDate, &inv.Notes, &inv.SentAt, &inv.PaidAt, &inv.CancelledAt,
		&inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func getInvoice(ctx context.Context, run pgxRunner, companyID, invoiceID int) (*Invoice, error) {
	inv, err := scanInvoice(run.QueryRow(ctx,
		"SELECT "+invoiceColumns+invoiceFrom+"WHERE i.id = $1 AND i.company_id = $2",
		invoiceID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("get invoice %d: %w", invoiceID, err)
	}
	inv.Items, err = loadDocItems(ctx, run, "invoice_items", "invoice_id", invoiceID)
	if err != nil {
		return nil, err
	}
	inv.Payments, err = loadPayments(ctx, run, invoiceID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}

func loadPayments(ctx context.Context, run pgxRunner, invoiceID int) ([]Payment, error) {
	rows, err := run.Query(ctx, `
		SELECT id, invoice_id, amount, paid_on, method, reference, created_at
		FROM invoice_payments WHERE invoice_id = $1 ORDER BY paid_on, id`,
		invoiceID,
	)
	if err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		if err := rows.Scan(&p.ID, &p.InvoiceID, &p.Amount, &p.PaidOn, &p.Method, &p.Reference, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ── Create / read / update / delete ─────────────────────────────────────────

func (s *invoiceService) CreateInvoice(ctx context.Context, companyID int, input InvoiceInput) (*Invoice, error) {
	if input.CustomerID == 0 {
		return nil, newValidationError("customer_id", "is required")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var defaultTaxRate decimal.Decimal
	err = tx.QueryRow(ctx, "SELECT default_tax_rate FROM companies WHERE id = $1", companyID).Scan(&defaultTaxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("load company %d: %w", companyID, err)
	}

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

	taxRate := defaultTaxRate
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

	number, err := nextCounterNumber(ctx, tx, companyID, "invoice")
	if err != nil {
		return nil, err
	}

	var invoiceID int
	err = tx.QueryRow(ctx, `
		INSERT INTO invoices (company_id, customer_id, number, subtotal, discount, discount_type,
			tax_rate, tax_amount, total, due_date, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id`,
		companyID, input.CustomerID, number, totals.Subtotal, input.Discount, discountType,
		taxRate, totals.TaxAmount, totals.Total, input.DueDate, input.Notes,
	).Scan(&invoiceID)
	if err != nil {
		return nil, fmt.Errorf("insert invoice %s: %w", number, err)
	}
	if err := insertDocItems(ctx, tx, "invoice_items", "invoice_id", invoiceID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice %s: %w", number, err)
	}
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}

func (s *invoiceService) GetInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error) {
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}

func (s *invoiceService) GetInvoices(ctx context.Context, companyID int, status *InvoiceStatus, customerID *int) ([]Invoice, error) {
	query := "SELECT " + invoiceColumns + invoiceFrom + "WHERE i.company_id = $1"
	args := []any{companyID}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND i.status = $%d", len(args))
	}
	if customerID != nil {
		args = append(args, *customerID)
		query += fmt.Sprintf(" AND i.customer_id = $%d", len(args))
	}
	query += " ORDER BY i.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func (s *invoiceService) UpdateInvoice(ctx context.Context, companyID, invoiceID int, input InvoiceInput) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status InvoiceStatus
	var taxRate decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT status, tax_rate FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE",
		invoiceID, companyID,
	).Scan(&status, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}
	if status != InvoiceDraft {
		return nil, newValidationError("status", "only draft invoices can be edited")
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
		UPDATE invoices SET
			customer_id = COALESCE($3, customer_id),
			subtotal    = $4, discount = $5, discount_type = $6,
			tax_rate    = $7, tax_amount = $8, total = $9,
			due_date    = COALESCE($10, due_date),
			notes       = COALESCE($11, notes),
			updated_at  = NOW()
		WHERE id = $1 AND company_id = $2`,
		invoiceID, companyID, customerID, totals.Subtotal, input.Discount, discountType,
		taxRate, totals.TaxAmount, totals.Total, input.DueDate, input.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("update invoice %d: %w", invoiceID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM invoice_items WHERE invoice_id = $1", invoiceID); err != nil {
		return nil, fmt.Errorf("clear invoice items: %w", err)
	}
	if err := insertDocItems(ctx, tx, "invoice_items", "invoice_id", invoiceID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice update: %w", err)
	}
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, companyID, invoiceID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM invoices WHERE id = $1 AND company_id = $2 AND status = 'draft'",
		invoiceID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete invoice %d: %w", invoiceID, err)
	}
	if tag.RowsAffected() == 0 {
		inv, gerr := getInvoice(ctx, s.pool, companyID, invoiceID)
		if gerr != nil {
			return gerr
		}
		return newValidationError("status", fmt.Sprintf("only draft invoices can be deleted, invoice is %s", inv.Status))
	}
	return nil
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

func (s *invoiceService) SendInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, string, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current InvoiceStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE",
		invoiceID, companyID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", notFound("invoice", invoiceID)
		}
		return nil, "", fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}
	next, err := NextInvoiceStatus(current, ActionSend)
	if err != nil {
		return nil, "", err
	}
	_, err = tx.Exec(ctx,
		"UPDATE invoices SET status = $3, sent_at = NOW(), updated_at = NOW() WHERE id = $1 AND company_id = $2",
		invoiceID, companyID, next,
	)
	if err != nil {
		return nil, "", fmt.Errorf("send invoice %d: %w", invoiceID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, "", fmt.Errorf("commit invoice send: %w", err)
	}

	inv, err := getInvoice(ctx, s.pool, companyID, invoiceID)
	if err != nil {
		return nil, "", err
	}

	warning := ""
	var email *string
	if err := s.pool.QueryRow(ctx, "SELECT email FROM customers WHERE id = $1", inv.CustomerID).Scan(&email); err == nil && email != nil {
		msg := notify.Message{
			To:             *email,
			Subject:        fmt.Sprintf("Invoice %s", inv.Number),
			DocType:        "invoice",
			DocID:          inv.ID,
			DocumentNumber: inv.Number,
		}
		if nerr := s.notifier.Send(ctx, msg); nerr != nil {
			warning = fmt.Sprintf("invoice sent but notification failed: %v", nerr)
		}
	} else {
		warning = "invoice sent but customer has no email on file"
	}
	return inv, warning, nil
}

func (s *invoiceService) AddPayment(ctx context.Context, companyID, invoiceID int, input PaymentInput) (*Invoice, error) {
	if !input.Amount.IsPositive() {
		return nil, newValidationError("amount", "must be positive")
	}
	paidOn := time.Now()
	if input.PaidOn != nil {
		paidOn = *input.PaidOn
	}
	method := input.Method
	if method == "" {
		method = "bank_transfer"
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current InvoiceStatus
	var total, paid decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT status, total, paid_amount FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE",
		invoiceID, companyID,
	).Scan(&current, &total, &paid)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}

	// Recording a payment is only legal from statuses that could still reach
	// paid; this rejects cancelled and already-paid invoices.
	if _, err := NextInvoiceStatus(current, ActionPay); err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoice_payments (invoice_id, amount, paid_on, method, reference)
		VALUES ($1, $2, $3, $4, $5)`,
		invoiceID, input.Amount, paidOn, method, input.Reference,
	)
	if err != nil {
		return nil, fmt.Errorf("insert payment for invoice %d: %w", invoiceID, err)
	}

	newPaid := paid.Add(input.Amount)
	if newPaid.GreaterThanOrEqual(total) {
		_, err = tx.Exec(ctx, `
			UPDATE invoices SET paid_amount = $3, status = 'paid', paid_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND company_id = $2`,
			invoiceID, companyID, newPaid,
		)
	} else {
		_, err = tx.Exec(ctx,
			"UPDATE invoices SET paid_amount = $3, updated_at = NOW() WHERE id = $1 AND company_id = $2",
			invoiceID, companyID, newPaid,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("apply payment to invoice %d: %w", invoiceID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit payment: %w", err)
	}
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}

func (s *invoiceService) CancelInvoice(ctx context.Context, companyID, invoiceID int) (*Invoice, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var current InvoiceStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM invoices WHERE id = $1 AND company_id = $2 FOR UPDATE",
		invoiceID, companyID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("invoice", invoiceID)
		}
		return nil, fmt.Errorf("lock invoice %d: %w", invoiceID, err)
	}
	next, err := NextInvoiceStatus(current, ActionCancel)
	if err != nil {
		return nil, err
	}
	_, err = tx.Exec(ctx,
		"UPDATE invoices SET status = $3, cancelled_at = NOW(), updated_at = NOW() WHERE id = $1 AND company_id = $2",
		invoiceID, companyID, next,
	)
	if err != nil {
		return nil, fmt.Errorf("cancel invoice %d: %w", invoiceID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit invoice cancel: %w", err)
	}
	return getInvoice(ctx, s.pool, companyID, invoiceID)
}

func (s *invoiceService) MarkOverdueInvoices(ctx context.Context, companyID int) (int64, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE invoices SET status = 'overdue', updated_at = NOW()
		WHERE company_id = $1 AND status = 'sent' AND due_date < CURRENT_DATE`,
		companyID,
	)
	if err != nil {
		return 0, fmt.Errorf("mark overdue invoices: %w", err)
	}
	return tag.RowsAffected(), nil
}
