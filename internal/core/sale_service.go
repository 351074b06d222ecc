package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SaleInput records a completed point-of-sale transaction. Items linked to a
// product inherit the product's name, prices, and cost where the input leaves
// them unset, and move stock.
type SaleInput struct {
	CustomerID    *int             `json:"customer_id,omitempty"`
	Items         []LineItemInput  `json:"items"`
	Discount      decimal.Decimal  `json:"discount"`
	DiscountType  DiscountType     `json:"discount_type"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	SoldOn        *time.Time       `json:"sold_on,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// SaleReturnInput records a partial or full return of one sale line.
type SaleReturnInput struct {
	SaleItemID int             `json:"sale_item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     *string         `json:"reason,omitempty"`
	ReturnedOn *time.Time      `json:"returned_on,omitempty"`
}

// SaleService records sales and returns. Sale numbers are date-prefixed
// (PREFIX-YYYYMMDD-NNNN) and found by scanning the day's existing numbers;
// a concurrent duplicate is retried once before surfacing a conflict.
type SaleService interface {
	CreateSale(ctx context.Context, companyID int, input SaleInput) (*Sale, error)
	GetSale(ctx context.Context, companyID, saleID int) (*Sale, error)
	GetSales(ctx context.Context, companyID int, from, to *time.Time) ([]Sale, error)
	// DeleteSale voids a sale with no returns, restocking its product lines.
	DeleteSale(ctx context.Context, companyID, saleID int) error
	// RecordReturn returns part of a sale line. The cumulative returned
	// quantity per line can never exceed the quantity sold. Product-linked
	// lines are restocked.
	RecordReturn(ctx context.Context, companyID, saleID int, input SaleReturnInput) (*Sale, error)
}

type saleService struct {
	pool *pgxpool.Pool
}

// NewSaleService constructs a SaleService backed by PostgreSQL.
func NewSaleService(pool *pgxpool.Pool) SaleService {
	return &saleService{pool: pool}
}

const saleColumns = `id, company_id, customer_id, number, status, subtotal, discount, discount_type,
	tax_rate, tax_amount, total, total_cost, total_profit, payment_method, sold_on, notes,
	created_at, updated_at`

func scanSale(row pgx.Row) (*Sale, error) {
	s := &Sale{}
	err := row.Scan(&s.ID, &s.CompanyID, &s.CustomerID, &s.Number, &s.Status,
		&s.Subtotal, &s.Discount, &s.DiscountType, &s.TaxRate, &s.TaxAmount,
		&s.Total, &s.TotalCost, &s.TotalProfit, &s.PaymentMethod, &s.SoldOn, &s.Notes,
		&s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func getSale(ctx context.Context, run pgxRunner, companyID, saleID int) (*Sale, error) {
	sale, err := scanSale(run.QueryRow(ctx,
		"SELECT "+saleColumns+" FROM sales WHERE id = $1 AND company_id = $2",
		saleID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("sale", saleID)
		}
		return nil, fmt.Errorf("get sale %d: %w", saleID, err)
	}
	sale.Items, err = loadSaleItems(ctx, run, saleID)
	if err != nil {
		return nil, err
	}
	sale.Returns, err = loadSaleReturns(ctx, run, saleID)
	if err != nil {
		return nil, err
	}
	return sale, nil
}

func loadSaleItems(ctx context.Context, run pgxRunner, saleID int) ([]LineItem, error) {
	rows, err := run.Query(ctx, `
		SELECT id, position, product_id, name, description, quantity, unit_price, cost_price, total, profit
		FROM sale_items WHERE sale_id = $1 ORDER BY position`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("load sale items: %w", err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.Position, &it.ProductID, &it.Name, &it.Description,
			&it.Quantity, &it.UnitPrice, &it.CostPrice, &it.Total, &it.Profit); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func loadSaleReturns(ctx context.Context, run pgxRunner, saleID int) ([]SaleReturn, error) {
	rows, err := run.Query(ctx, `
		SELECT id, sale_id, sale_item_id, quantity, amount, reason, returned_on, created_at
		FROM sale_returns WHERE sale_id = $1 ORDER BY id`,
		saleID,
	)
	if err != nil {
		return nil, fmt.Errorf("load sale returns: %w", err)
	}
	defer rows.Close()

	var returns []SaleReturn
	for rows.Next() {
		var r SaleReturn
		if err := rows.Scan(&r.ID, &r.SaleID, &r.SaleItemID, &r.Quantity, &r.Amount, &r.Reason, &r.ReturnedOn, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale return: %w", err)
		}
		returns = append(returns, r)
	}
	return returns, rows.Err()
}

// ── Create ──────────────────────────────────────────────────────────────────

func (s *saleService) CreateSale(ctx context.Context, companyID int, input SaleInput) (*Sale, error) {
	if len(input.Items) == 0 {
		return nil, newValidationError("items", "a sale needs at least one item")
	}

	// The number scan and the insert are not atomic, so a concurrent sale can
	// claim the computed number first. The unique index turns that into a
	// retryable conflict; a second collision surfaces as DuplicateNumberError.
	sale, err := s.createSaleOnce(ctx, companyID, input)
	var dup *DuplicateNumberError
	if errors.As(err, &dup) {
		sale, err = s.createSaleOnce(ctx, companyID, input)
	}
	return sale, err
}

func (s *saleService) createSaleOnce(ctx context.Context, companyID int, input SaleInput) (*Sale, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var defaultTaxRate decimal.Decimal
	var salePrefix string
	err = tx.QueryRow(ctx, "SELECT default_tax_rate, sale_prefix FROM companies WHERE id = $1", companyID).
		Scan(&defaultTaxRate, &salePrefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("load company %d: %w", companyID, err)
	}

	if input.CustomerID != nil {
		err = tx.QueryRow(ctx,
			"SELECT id FROM customers WHERE id = $1 AND company_id = $2 AND is_active = true",
			*input.CustomerID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("customer", *input.CustomerID)
			}
			return nil, fmt.Errorf("load customer %d: %w", *input.CustomerID, err)
		}
	}

	items, err := s.resolveSaleItems(ctx, tx, companyID, input.Items)
	if err != nil {
		return nil, err
	}

	taxRate := defaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	totals, err := ComputeTotals(items, taxRate, input.Discount, input.DiscountType)
	if err != nil {
		return nil, err
	}
	discountType := input.DiscountType
	if discountType == "" {
		discountType = DiscountAmount
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	soldOn := time.Now()
	if input.SoldOn != nil {
		soldOn = *input.SoldOn
	}

	number, err := nextScanNumber(ctx, tx, companyID, "sales", salePrefix, soldOn)
	if err != nil {
		return nil, err
	}

	var saleID int
	err = tx.QueryRow(ctx, `
		INSERT INTO sales (company_id, customer_id, number, subtotal, discount, discount_type,
			tax_rate, tax_amount, total, total_cost, total_profit, payment_method, sold_on, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id`,
		companyID, input.CustomerID, number, totals.Subtotal, input.Discount, discountType,
		taxRate, totals.TaxAmount, totals.Total, totals.TotalCost, totals.TotalProfit,
		paymentMethod, soldOn, input.Notes,
	).Scan(&saleID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert sale: %w", &DuplicateNumberError{Number: number})
		}
		return nil, fmt.Errorf("insert sale %s: %w", number, err)
	}

	for _, it := range totals.Items {
		var desc *string
		if it.Description != nil && *it.Description != "" {
			desc = it.Description
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO sale_items (sale_id, position, product_id, name, description, quantity, unit_price, cost_price, total, profit)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			saleID, it.Position, it.ProductID, it.Name, desc, it.Quantity, it.UnitPrice, it.CostPrice, it.Total, it.Profit)
		if err != nil {
			return nil, fmt.Errorf("insert sale item: %w", err)
		}
		if it.ProductID != nil {
			if err := adjustStockTx(ctx, tx, companyID, *it.ProductID, it.Quantity.Neg()); err != nil {
				return nil, err
			}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("commit sale: %w", &DuplicateNumberError{Number: number})
		}
		return nil, fmt.Errorf("commit sale %s: %w", number, err)
	}
	return getSale(ctx, s.pool, companyID, saleID)
}

// resolveSaleItems fills product-linked items from the catalog: name, unit
// price, and cost default to the product's values when the input leaves them
// unset.
func (s *saleService) resolveSaleItems(ctx context.Context, tx pgx.Tx, companyID int, inputs []LineItemInput) ([]LineItemInput, error) {
	out := make([]LineItemInput, len(inputs))
	for i, in := range inputs {
		if in.ProductID == nil {
			out[i] = in
			continue
		}
		var name string
		var unitPrice, costPrice decimal.Decimal
		err := tx.QueryRow(ctx,
			"SELECT name, unit_price, cost_price FROM products WHERE id = $1 AND company_id = $2 AND is_active = true",
			*in.ProductID, companyID,
		).Scan(&name, &unitPrice, &costPrice)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("product", *in.ProductID)
			}
			return nil, fmt.Errorf("load product %d: %w", *in.ProductID, err)
		}
		if in.Name == "" {
			in.Name = name
		}
		if in.UnitPrice.IsZero() {
			in.UnitPrice = unitPrice
		}
		if in.CostPrice == nil {
			in.CostPrice = &costPrice
		}
		out[i] = in
	}
	return out, nil
}

// ── Read / delete ───────────────────────────────────────────────────────────

func (s *saleService) GetSale(ctx context.Context, companyID, saleID int) (*Sale, error) {
	return getSale(ctx, s.pool, companyID, saleID)
}

func (s *saleService) GetSales(ctx context.Context, companyID int, from, to *time.Time) ([]Sale, error) {
	query := "SELECT " + saleColumns + " FROM sales WHERE company_id = $1"
	args := []any{companyID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND sold_on >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND sold_on <= $%d", len(args))
	}
	query += " ORDER BY number DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()

	var sales []Sale
	for rows.Next() {
		sale, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sales = append(sales, *sale)
	}
	return sales, rows.Err()
}

func (s *saleService) DeleteSale(ctx context.Context, companyID, saleID int) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var status SaleStatus
	err = tx.QueryRow(ctx,
		"SELECT status FROM sales WHERE id = $1 AND company_id = $2 FOR UPDATE",
		saleID, companyID,
	).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("sale", saleID)
		}
		return fmt.Errorf("lock sale %d: %w", saleID, err)
	}
	if status != SaleCompleted {
		return newValidationError("status", "a sale with returns cannot be deleted")
	}

	items, err := loadSaleItems(ctx, tx, saleID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if it.ProductID != nil {
			if err := adjustStockTx(ctx, tx, companyID, *it.ProductID, it.Quantity); err != nil {
				return err
			}
		}
	}

	if _, err := tx.Exec(ctx, "DELETE FROM sales WHERE id = $1 AND company_id = $2", saleID, companyID); err != nil {
		return fmt.Errorf("delete sale %d: %w", saleID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit sale deletion: %w", err)
	}
	return nil
}

// ── Returns ─────────────────────────────────────────────────────────────────

func (s *saleService) RecordReturn(ctx context.Context, companyID, saleID int, input SaleReturnInput) (*Sale, error) {
	if !input.Quantity.IsPositive() {
		return nil, newValidationError("quantity", "must be positive")
	}
	returnedOn := time.Now()
	if input.ReturnedOn != nil {
		returnedOn = *input.ReturnedOn
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx,
		"SELECT id FROM sales WHERE id = $1 AND company_id = $2 FOR UPDATE",
		saleID, companyID,
	).Scan(new(int))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("sale", saleID)
		}
		return nil, fmt.Errorf("lock sale %d: %w", saleID, err)
	}

	var productID *int
	var soldQty, unitPrice decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT product_id, quantity, unit_price FROM sale_items WHERE id = $1 AND sale_id = $2",
		input.SaleItemID, saleID,
	).Scan(&productID, &soldQty, &unitPrice)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("sale item", input.SaleItemID)
		}
		return nil, fmt.Errorf("load sale item %d: %w", input.SaleItemID, err)
	}

	var alreadyReturned decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity), 0) FROM sale_returns WHERE sale_item_id = $1",
		input.SaleItemID,
	).Scan(&alreadyReturned)
	if err != nil {
		return nil, fmt.Errorf("sum prior returns for item %d: %w", input.SaleItemID, err)
	}
	if alreadyReturned.Add(input.Quantity).GreaterThan(soldQty) {
		return nil, newValidationError("quantity", fmt.Sprintf(
			"cannot return %s: only %s of %s remain returnable",
			input.Quantity, soldQty.Sub(alreadyReturned), soldQty))
	}

	amount := input.Quantity.Mul(unitPrice)
	_, err = tx.Exec(ctx, `
		INSERT INTO sale_returns (sale_id, sale_item_id, quantity, amount, reason, returned_on)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		saleID, input.SaleItemID, input.Quantity, amount, input.Reason, returnedOn,
	)
	if err != nil {
		return nil, fmt.Errorf("insert sale return: %w", err)
	}

	if productID != nil {
		if err := adjustStockTx(ctx, tx, companyID, *productID, input.Quantity); err != nil {
			return nil, err
		}
	}

	// Derive the sale's status from the cumulative returned quantity across
	// all lines.
	var soldTotal, returnedTotal decimal.Decimal
	err = tx.QueryRow(ctx, `
		SELECT COALESCE(SUM(si.quantity), 0),
		       COALESCE((SELECT SUM(sr.quantity) FROM sale_returns sr WHERE sr.sale_id = $1), 0)
		FROM sale_items si WHERE si.sale_id = $1`,
		saleID,
	).Scan(&soldTotal, &returnedTotal)
	if err != nil {
		return nil, fmt.Errorf("sum sale quantities: %w", err)
	}
	status := SalePartiallyReturned
	if returnedTotal.GreaterThanOrEqual(soldTotal) {
		status = SaleReturned
	}
	_, err = tx.Exec(ctx,
		"UPDATE sales SET status = $3, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		saleID, companyID, status,
	)
	if err != nil {
		return nil, fmt.Errorf("update sale status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit sale return: %w", err)
	}
	return getSale(ctx, s.pool, companyID, saleID)
}
