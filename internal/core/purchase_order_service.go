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

// PurchaseOrderInput holds the writable purchase order fields. The client is
// the ordering party: the tenant company itself, or one of its customers when
// the goods are ordered on a customer's behalf.
type PurchaseOrderInput struct {
	VendorID             int              `json:"vendor_id"`
	Client               ClientRef        `json:"client"`
	Items                []LineItemInput  `json:"items"`
	Discount             decimal.Decimal  `json:"discount"`
	DiscountType         DiscountType     `json:"discount_type"`
	TaxRate              *decimal.Decimal `json:"tax_rate,omitempty"`
	Notes                *string          `json:"notes,omitempty"`
	ExpectedDeliveryDate *time.Time       `json:"expected_delivery_date,omitempty"`
}

// PurchaseOrderService manages procurement from vendors. Completing an order
// receives its product-linked line items into stock.
type PurchaseOrderService interface {
	CreatePurchaseOrder(ctx context.Context, companyID int, input PurchaseOrderInput) (*PurchaseOrder, error)
	GetPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error)
	GetPurchaseOrders(ctx context.Context, companyID int, status *POStatus, vendorID *int) ([]PurchaseOrder, error)
	UpdatePurchaseOrder(ctx context.Context, companyID, orderID int, input PurchaseOrderInput) (*PurchaseOrder, error)
	DeletePurchaseOrder(ctx context.Context, companyID, orderID int) error
	// SendPurchaseOrder transitions the order to sent and notifies the vendor.
	// Notification failure is returned as a warning, not an error.
	SendPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, string, error)
	ConfirmPurchaseOrder(ctx context.Context, companyID, orderID int, approvedBy string) (*PurchaseOrder, error)
	StartPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error)
	// CompletePurchaseOrder marks delivery and increments stock for every
	// line item linked to a product, atomically with the status change.
	CompletePurchaseOrder(ctx context.Context, companyID, orderID int, actualDeliveryDate *time.Time) (*PurchaseOrder, error)
	CancelPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error)
}

type purchaseOrderService struct {
	pool     *pgxpool.Pool
	notifier notify.Notifier
}

// NewPurchaseOrderService constructs a PurchaseOrderService backed by PostgreSQL.
func NewPurchaseOrderService(pool *pgxpool.Pool, notifier notify.Notifier) PurchaseOrderService {
	return &purchaseOrderService{pool: pool, notifier: notifier}
}

const poColumns = `po.id, po.company_id, po.vendor_id, v.name, po.client_type, po.client_customer_id,
	po.number, po.status, po.subtotal, po.discount, po.discount_type, po.tax_rate, po.tax_amount,
	po.total, po.notes, po.expected_delivery_date, po.actual_delivery_date, po.approved_by,
	po.sent_at, po.confirmed_at, po.approved_at, po.started_at, po.completed_at, po.cancelled_at,
	po.created_at, po.updated_at`

const poFrom = " FROM purchase_orders po JOIN vendors v ON v.id = po.vendor_id "

func scanPurchaseOrder(row pgx.Row) (*PurchaseOrder, error) {
	po := &PurchaseOrder{}
	err := row.Scan(&po.ID, &po.CompanyID, &po.VendorID, &po.VendorName, &po.Client.Kind, &po.Client.CustomerID,
		&po.Number, &po.Status, &po.Subtotal, &po.Discount, &po.DiscountType, &po.TaxRate, &po.TaxAmount,
		&po.Total, &po.Notes, &po.ExpectedDeliveryDate, &po.ActualDeliveryDate, &po.ApprovedBy,
		&po.SentAt, &po.ConfirmedAt, &po.ApprovedAt, &po.StartedAt, &po.CompletedAt, &po.CancelledAt,
		&po.CreatedAt, &po.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return po, nil
}

func getPurchaseOrder(ctx context.Context, run pgxRunner, companyID, orderID int) (*PurchaseOrder, error) {
	po, err := scanPurchaseOrder(run.QueryRow(ctx,
		"SELECT "+poColumns+poFrom+"WHERE po.id = $1 AND po.company_id = $2",
		orderID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("purchase order", orderID)
		}
		return nil, fmt.Errorf("get purchase order %d: %w", orderID, err)
	}
	po.Items, err = loadPOItems(ctx, run, orderID)
	if err != nil {
		return nil, err
	}
	return po, nil
}

func insertPOItems(ctx context.Context, run pgxRunner, orderID int, items []LineItem) error {
	for _, it := range items {
		var desc *string
		if it.Description != nil && *it.Description != "" {
			desc = it.Description
		}
		_, err := run.Exec(ctx, `
			INSERT INTO purchase_order_items (order_id, position, product_id, name, description, quantity, unit_price, total)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			orderID, it.Position, it.ProductID, it.Name, desc, it.Quantity, it.UnitPrice, it.Total)
		if err != nil {
			return fmt.Errorf("insert purchase order item: %w", err)
		}
	}
	return nil
}

func loadPOItems(ctx context.Context, run pgxRunner, orderID int) ([]LineItem, error) {
	rows, err := run.Query(ctx, `
		SELECT id, position, product_id, name, description, quantity, unit_price, total
		FROM purchase_order_items WHERE order_id = $1 ORDER BY position`,
		orderID,
	)
	if err != nil {
		return nil, fmt.Errorf("load purchase order items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.Position, &it.ProductID, &it.Name, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan purchase order item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// resolveClient validates the tagged client union against the company's
// customer records.
func resolveClient(ctx context.Context, run pgxRunner, companyID int, client ClientRef) (ClientRef, error) {
	switch client.Kind {
	case "", ClientCompany:
		if client.CustomerID != nil {
			return ClientRef{}, newValidationError("client", "customer_id must be empty when the client is the company")
		}
		return ClientRef{Kind: ClientCompany}, nil
	case ClientCustomer:
		if client.CustomerID == nil {
			return ClientRef{}, newValidationError("client", "customer_id is required when the client is a customer")
		}
		err := run.QueryRow(ctx,
			"SELECT id FROM customers WHERE id = $1 AND company_id = $2 AND is_active = true",
			*client.CustomerID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ClientRef{}, notFound("customer", *client.CustomerID)
			}
			return ClientRef{}, fmt.Errorf("load customer %d: %w", *client.CustomerID, err)
		}
		return client, nil
	default:
		return ClientRef{}, newValidationError("client", fmt.Sprintf("unknown client kind %q", client.Kind))
	}
}

// ── Create / read / update / delete ─────────────────────────────────────────

func (s *purchaseOrderService) CreatePurchaseOrder(ctx context.Context, companyID int, input PurchaseOrderInput) (*PurchaseOrder, error) {
	if input.VendorID == 0 {
		return nil, newValidationError("vendor_id", "is required")
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
		"SELECT id FROM vendors WHERE id = $1 AND company_id = $2 AND is_active = true",
		input.VendorID, companyID,
	).Scan(new(int))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("vendor", input.VendorID)
		}
		return nil, fmt.Errorf("load vendor %d: %w", input.VendorID, err)
	}

	client, err := resolveClient(ctx, tx, companyID, input.Client)
	if err != nil {
		return nil, err
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

	number, err := nextCounterNumber(ctx, tx, companyID, "purchase_order")
	if err != nil {
		return nil, err
	}

	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO purchase_orders (company_id, vendor_id, client_type, client_customer_id, number,
			subtotal, discount, discount_type, tax_rate, tax_amount, total, notes, expected_delivery_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id`,
		companyID, input.VendorID, client.Kind, client.CustomerID, number,
		totals.Subtotal, input.Discount, discountType, taxRate, totals.TaxAmount, totals.Total,
		input.Notes, input.ExpectedDeliveryDate,
	).Scan(&orderID)
	if err != nil {
		return nil, fmt.Errorf("insert purchase order %s: %w", number, err)
	}
	if err := insertPOItems(ctx, tx, orderID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order %s: %w", number, err)
	}
	return getPurchaseOrder(ctx, s.pool, companyID, orderID)
}

func (s *purchaseOrderService) GetPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error) {
	return getPurchaseOrder(ctx, s.pool, companyID, orderID)
}

func (s *purchaseOrderService) GetPurchaseOrders(ctx context.Context, companyID int, status *POStatus, vendorID *int) ([]PurchaseOrder, error) {
	query := "SELECT " + poColumns + poFrom + "WHERE po.company_id = $1"
	args := []any{companyID}
	if status != nil {
		args = append(args, *status)
		query += fmt.Sprintf(" AND po.status = $%d", len(args))
	}
	if vendorID != nil {
		args = append(args, *vendorID)
		query += fmt.Sprintf(" AND po.vendor_id = $%d", len(args))
	}
	query += " ORDER BY po.created_at DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	defer rows.Close()

	var orders []PurchaseOrder
	for rows.Next() {
		po, err := scanPurchaseOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		orders = append(orders, *po)
	}
	return orders, rows.Err()
}

func (s *purchaseOrderService) UpdatePurchaseOrder(ctx context.Context, companyID, orderID int, input PurchaseOrderInput) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status POStatus
	var taxRate decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT status, tax_rate FROM purchase_orders WHERE id = $1 AND company_id = $2 FOR UPDATE",
		orderID, companyID,
	).Scan(&status, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("purchase order", orderID)
		}
		return nil, fmt.Errorf("lock purchase order %d: %w", orderID, err)
	}
	if status != PODraft {
		return nil, newValidationError("status", "only draft purchase orders can be edited")
	}

	client, err := resolveClient(ctx, tx, companyID, input.Client)
	if err != nil {
		return nil, err
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

	var vendorID *int
	if input.VendorID != 0 {
		err = tx.QueryRow(ctx,
			"SELECT id FROM vendors WHERE id = $1 AND company_id = $2 AND is_active = true",
			input.VendorID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("vendor", input.VendorID)
			}
			return nil, fmt.Errorf("load vendor %d: %w", input.VendorID, err)
		}
		vendorID = &input.VendorID
	}

	_, err = tx.Exec(ctx, `
		UPDATE purchase_orders SET
			vendor_id          = COALESCE($3, vendor_id),
			client_type        = $4,
			client_customer_id = $5,
			subtotal           = $6, discount = $7, discount_type = $8,
			tax_rate           = $9, tax_amount = $10, total = $11,
			notes              = COALESCE($12, notes),
			expected_delivery_date = COALESCE($13, expected_delivery_date),
			updated_at         = NOW()
		WHERE id = $1 AND company_id = $2`,
		orderID, companyID, vendorID, client.Kind, client.CustomerID,
		totals.Subtotal, input.Discount, discountType, taxRate, totals.TaxAmount, totals.Total,
		input.Notes, input.ExpectedDeliveryDate,
	)
	if err != nil {
		return nil, fmt.Errorf("update purchase order %d: %w", orderID, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM purchase_order_items WHERE order_id = $1", orderID); err != nil {
		return nil, fmt.Errorf("clear purchase order items: %w", err)
	}
	if err := insertPOItems(ctx, tx, orderID, totals.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order update: %w", err)
	}
	return getPurchaseOrder(ctx, s.pool, companyID, orderID)
}

func (s *purchaseOrderService) DeletePurchaseOrder(ctx context.Context, companyID, orderID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM purchase_orders WHERE id = $1 AND company_id = $2 AND status = 'draft'",
		orderID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete purchase order %d: %w", orderID, err)
	}
	if tag.RowsAffected() == 0 {
		po, gerr := getPurchaseOrder(ctx, s.pool, companyID, orderID)
		if gerr != nil {
			return gerr
		}
		return newValidationError("status", fmt.Sprintf("only draft purchase orders can be deleted, order is %s", po.Status))
	}
	return nil
}

// ── Lifecycle ───────────────────────────────────────────────────────────────

// applyPOAction locks the order row, validates the transition, and applies the
// status change together with extraSet (additional SET clauses).
func (s *purchaseOrderService) applyPOAction(ctx context.Context, companyID, orderID int, action Action, extraSet string, extraArgs ...any) (*PurchaseOrder, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := s.applyPOActionTx(ctx, tx, companyID, orderID, action, extraSet, extraArgs...)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order %s: %w", action, err)
	}
	return po, nil
}

func (s *purchaseOrderService) applyPOActionTx(ctx context.Context, tx pgx.Tx, companyID, orderID int, action Action, extraSet string, extraArgs ...any) (*PurchaseOrder, error) {
	var current POStatus
	err := tx.QueryRow(ctx,
		"SELECT status FROM purchase_orders WHERE id = $1 AND company_id = $2 FOR UPDATE",
		orderID, companyID,
	).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("purchase order", orderID)
		}
		return nil, fmt.Errorf("lock purchase order %d: %w", orderID, err)
	}

	next, err := NextPOStatus(current, action)
	if err != nil {
		return nil, err
	}

	query := "UPDATE purchase_orders SET status = $3, updated_at = NOW()" + extraSet + " WHERE id = $1 AND company_id = $2"
	args := append([]any{orderID, companyID, next}, extraArgs...)
	if _, err := tx.Exec(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("%s purchase order %d: %w", action, orderID, err)
	}
	return getPurchaseOrder(ctx, tx, companyID, orderID)
}

func (s *purchaseOrderService) SendPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, string, error) {
	po, err := s.applyPOAction(ctx, companyID, orderID, ActionSend, ", sent_at = NOW()")
	if err != nil {
		return nil, "", err
	}

	warning := ""
	var email *string
	if err := s.pool.QueryRow(ctx, "SELECT email FROM vendors WHERE id = $1", po.VendorID).Scan(&email); err == nil && email != nil {
		msg := notify.Message{
			To:             *email,
			Subject:        fmt.Sprintf("Purchase Order %s", po.Number),
			DocType:        "purchase_order",
			DocID:          po.ID,
			DocumentNumber: po.Number,
		}
		if nerr := s.notifier.Send(ctx, msg); nerr != nil {
			warning = fmt.Sprintf("purchase order sent but notification failed: %v", nerr)
		}
	} else {
		warning = "purchase order sent but vendor has no email on file"
	}
	return po, warning, nil
}

func (s *purchaseOrderService) ConfirmPurchaseOrder(ctx context.Context, companyID, orderID int, approvedBy string) (*PurchaseOrder, error) {
	if approvedBy == "" {
		return nil, newValidationError("approved_by", "is required")
	}
	return s.applyPOAction(ctx, companyID, orderID, ActionConfirm,
		", confirmed_at = NOW(), approved_at = NOW(), approved_by = $4", approvedBy)
}

func (s *purchaseOrderService) StartPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error) {
	return s.applyPOAction(ctx, companyID, orderID, ActionStart, ", started_at = NOW()")
}

func (s *purchaseOrderService) CompletePurchaseOrder(ctx context.Context, companyID, orderID int, actualDeliveryDate *time.Time) (*PurchaseOrder, error) {
	delivered := time.Now()
	if actualDeliveryDate != nil {
		delivered = *actualDeliveryDate
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	po, err := s.applyPOActionTx(ctx, tx, companyID, orderID, ActionComplete,
		", completed_at = NOW(), actual_delivery_date = $4", delivered)
	if err != nil {
		return nil, err
	}

	// Receive product-linked lines into stock in the same transaction, so a
	// failed stock update rolls back the completion.
	for _, it := range po.Items {
		if it.ProductID == nil {
			continue
		}
		if err := adjustStockTx(ctx, tx, companyID, *it.ProductID, it.Quantity); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit purchase order completion: %w", err)
	}
	return getPurchaseOrder(ctx, s.pool, companyID, orderID)
}

func (s *purchaseOrderService) CancelPurchaseOrder(ctx context.Context, companyID, orderID int) (*PurchaseOrder, error) {
	return s.applyPOAction(ctx, companyID, orderID, ActionCancel, ", cancelled_at = NOW()")
}
