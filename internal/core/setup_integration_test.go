package core_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/thejaskrizzz/business-managerpro/internal/notify"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	_ = godotenv.Load("../../.env")

	// Use a dedicated TEST database to avoid wiping the live app database.
	// Set TEST_DATABASE_URL in your .env or environment to run integration tests.
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// Clean and seed test DB
	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE sale_returns, sale_items, sales, expenses,
			purchase_order_items, purchase_orders,
			invoice_payments, invoice_items, invoices,
			quote_items, quotes,
			products, tax_rates, categories, vendors, customers, users, companies
			RESTART IDENTITY CASCADE;

		INSERT INTO companies (id, name, currency, default_tax_rate, quote_validity_days)
		VALUES (1, 'Test Company', 'USD', 10, 30);

		INSERT INTO customers (id, company_id, name, email) VALUES
		(1, 1, 'Acme Ltd', 'billing@acme.test'),
		(2, 1, 'No Mail Inc', NULL);

		INSERT INTO vendors (id, company_id, name, email) VALUES
		(1, 1, 'Parts Supply Co', 'orders@partssupply.test');

		INSERT INTO categories (id, company_id, name, kind) VALUES
		(1, 1, 'Hardware', 'product'),
		(2, 1, 'Office', 'expense');

		INSERT INTO products (id, company_id, sku, name, category_id, unit_price, cost_price, stock_quantity)
		VALUES (1, 1, 'WID-1', 'Widget', 1, 50, 30, 100);

		SELECT setval('customers_id_seq', 10);
		SELECT setval('vendors_id_seq', 10);
		SELECT setval('categories_id_seq', 10);
		SELECT setval('products_id_seq', 10);
	`)
	if err != nil {
		t.Fatalf("Failed to seed test database: %v", err)
	}

	return pool
}

func testNotifier() notify.Notifier {
	return notify.NewLogNotifier(zerolog.Nop())
}
