package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ProductInput holds the writable product fields.
type ProductInput struct {
	SKU         string           `json:"sku"`
	Name        string           `json:"name"`
	Description *string          `json:"description,omitempty"`
	CategoryID  *int             `json:"category_id,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	CostPrice   *decimal.Decimal `json:"cost_price,omitempty"`
	Unit        *string          `json:"unit,omitempty"`
}

// ProductService manages the product catalog and stock levels. Stock moves as
// a side effect of sales (decrement), sale returns (increment), and completed
// purchase orders (increment); direct adjustments go through AdjustStock.
type ProductService interface {
	CreateProduct(ctx context.Context, companyID int, input ProductInput) (*Product, error)
	GetProduct(ctx context.Context, companyID, productID int) (*Product, error)
	GetProducts(ctx context.Context, companyID int, categoryID *int) ([]Product, error)
	UpdateProduct(ctx context.Context, companyID, productID int, input ProductInput) (*Product, error)
	DeleteProduct(ctx context.Context, companyID, productID int) error
	// AdjustStock applies a signed delta to the product's stock quantity.
	// Fails with a validation error if the result would be negative.
	AdjustStock(ctx context.Context, companyID, productID int, delta decimal.Decimal) (*Product, error)
}

type productService struct {
	pool *pgxpool.Pool
}

// NewProductService constructs a ProductService backed by PostgreSQL.
func NewProductService(pool *pgxpool.Pool) ProductService {
	return &productService{pool: pool}
}

const productColumns = "id, company_id, sku, name, description, category_id, unit_price, cost_price, stock_quantity, unit, is_active, created_at, updated_at"

func scanProduct(row pgx.Row) (*Product, error) {
	p := &Product{}
	err := row.Scan(&p.ID, &p.CompanyID, &p.SKU, &p.Name, &p.Description, &p.CategoryID,
		&p.UnitPrice, &p.CostPrice, &p.StockQuantity, &p.Unit, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *productService) CreateProduct(ctx context.Context, companyID int, input ProductInput) (*Product, error) {
	if input.SKU == "" {
		return nil, newValidationError("sku", "is required")
	}
	if input.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	unitPrice := decimal.Zero
	if input.UnitPrice != nil {
		unitPrice = *input.UnitPrice
	}
	costPrice := decimal.Zero
	if input.CostPrice != nil {
		costPrice = *input.CostPrice
	}
	if unitPrice.IsNegative() || costPrice.IsNegative() {
		return nil, newValidationError("unit_price", "prices must not be negative")
	}
	unit := "EA"
	if input.Unit != nil && *input.Unit != "" {
		unit = *input.Unit
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		INSERT INTO products (company_id, sku, name, description, category_id, unit_price, cost_price, unit)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+productColumns,
		companyID, input.SKU, input.Name, input.Description, input.CategoryID, unitPrice, costPrice, unit,
	))
	if err != nil {
		return nil, fmt.Errorf("create product %q: %w", input.SKU, err)
	}
	return p, nil
}

func (s *productService) GetProduct(ctx context.Context, companyID, productID int) (*Product, error) {
	p, err := scanProduct(s.pool.QueryRow(ctx,
		"SELECT "+productColumns+" FROM products WHERE id = $1 AND company_id = $2",
		productID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("product", productID)
		}
		return nil, fmt.Errorf("get product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) GetProducts(ctx context.Context, companyID int, categoryID *int) ([]Product, error) {
	query := "SELECT " + productColumns + " FROM products WHERE company_id = $1 AND is_active = true"
	args := []any{companyID}
	if categoryID != nil {
		query += " AND category_id = $2"
		args = append(args, *categoryID)
	}
	query += " ORDER BY sku"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (s *productService) UpdateProduct(ctx context.Context, companyID, productID int, input ProductInput) (*Product, error) {
	if input.UnitPrice != nil && input.UnitPrice.IsNegative() {
		return nil, newValidationError("unit_price", "must not be negative")
	}
	if input.CostPrice != nil && input.CostPrice.IsNegative() {
		return nil, newValidationError("cost_price", "must not be negative")
	}

	var sku, name *string
	if input.SKU != "" {
		sku = &input.SKU
	}
	if input.Name != "" {
		name = &input.Name
	}

	p, err := scanProduct(s.pool.QueryRow(ctx, `
		UPDATE products SET
			sku         = COALESCE($3, sku),
			name        = COALESCE($4, name),
			description = COALESCE($5, description),
			category_id = COALESCE($6, category_id),
			unit_price  = COALESCE($7, unit_price),
			cost_price  = COALESCE($8, cost_price),
			unit        = COALESCE($9, unit),
			updated_at  = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING `+productColumns,
		productID, companyID, sku, name, input.Description, input.CategoryID,
		input.UnitPrice, input.CostPrice, input.Unit,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("product", productID)
		}
		return nil, fmt.Errorf("update product %d: %w", productID, err)
	}
	return p, nil
}

func (s *productService) DeleteProduct(ctx context.Context, companyID, productID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE products SET is_active = false, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		productID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", productID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("product", productID)
	}
	return nil
}

func (s *productService) AdjustStock(ctx context.Context, companyID, productID int, delta decimal.Decimal) (*Product, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := adjustStockTx(ctx, tx, companyID, productID, delta); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit stock adjustment: %w", err)
	}
	return s.GetProduct(ctx, companyID, productID)
}

// adjustStockTx applies a signed stock delta inside the caller's transaction.
// The update and the negativity check are one statement, so concurrent
// adjustments serialize on the row and cannot oversell.
func adjustStockTx(ctx context.Context, tx pgx.Tx, companyID, productID int, delta decimal.Decimal) error {
	var newQty decimal.Decimal
	err := tx.QueryRow(ctx, `
		UPDATE products
		SET stock_quantity = stock_quantity + $3, updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING stock_quantity`,
		productID, companyID, delta,
	).Scan(&newQty)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return notFound("product", productID)
		}
		return fmt.Errorf("adjust stock for product %d: %w", productID, err)
	}
	if newQty.IsNegative() {
		return newValidationError("quantity", fmt.Sprintf("insufficient stock for product %d", productID))
	}
	return nil
}
