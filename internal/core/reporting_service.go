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

// ── Report types ──────────────────────────────────────────────────────────────

// CustomerStats aggregates a customer's quote and invoice history. Stats are
// always derived from the document tables at query time, never stored.
type CustomerStats struct {
	CustomerID      int             `json:"customer_id"`
	CustomerName    string          `json:"customer_name"`
	QuoteCount      int64           `json:"quote_count"`
	AcceptedQuotes  int64           `json:"accepted_quotes"`
	InvoiceCount    int64           `json:"invoice_count"`
	InvoicedTotal   decimal.Decimal `json:"invoiced_total"`
	PaidTotal       decimal.Decimal `json:"paid_total"`
	OutstandingDue  decimal.Decimal `json:"outstanding_due"`
	LastInvoiceDate *time.Time      `json:"last_invoice_date,omitempty"`
}

// VendorStats aggregates a vendor's purchase order history by status.
type VendorStats struct {
	VendorID       int                `json:"vendor_id"`
	VendorName     string             `json:"vendor_name"`
	OrderCounts    map[POStatus]int64 `json:"order_counts"`
	OpenOrderTotal decimal.Decimal    `json:"open_order_total"`
	SpentTotal     decimal.Decimal    `json:"spent_total"`
}

// DashboardSummary is the company-wide financial snapshot for a period.
type DashboardSummary struct {
	From            time.Time       `json:"from"`
	To              time.Time       `json:"to"`
	SalesTotal      decimal.Decimal `json:"sales_total"`
	SalesCost       decimal.Decimal `json:"sales_cost"`
	SalesProfit     decimal.Decimal `json:"sales_profit"`
	SaleCount       int64           `json:"sale_count"`
	InvoicedTotal   decimal.Decimal `json:"invoiced_total"`
	CollectedTotal  decimal.Decimal `json:"collected_total"`
	OutstandingDue  decimal.Decimal `json:"outstanding_due"`
	OverdueCount    int64           `json:"overdue_count"`
	ExpenseTotal    decimal.Decimal `json:"expense_total"`
	PurchaseTotal   decimal.Decimal `json:"purchase_total"`
	OpenQuoteCount  int64           `json:"open_quote_count"`
	NetCashFlow     decimal.Decimal `json:"net_cash_flow"`
}

// SalesByDay is one row of the daily sales breakdown.
type SalesByDay struct {
	Day    string          `json:"day"`
	Count  int64           `json:"count"`
	Total  decimal.Decimal `json:"total"`
	Profit decimal.Decimal `json:"profit"`
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportingService provides read-only aggregate queries over the document
// tables.
type ReportingService interface {
	// GetCustomerStats derives one customer's quote and invoice aggregates.
	GetCustomerStats(ctx context.Context, companyID, customerID int) (*CustomerStats, error)

	// GetVendorStats derives one vendor's purchase order counts by status.
	// Cancelled orders are excluded from the money totals.
	GetVendorStats(ctx context.Context, companyID, vendorID int) (*VendorStats, error)

	// GetDashboardSummary computes the company-wide snapshot for [from, to].
	GetDashboardSummary(ctx context.Context, companyID int, from, to time.Time) (*DashboardSummary, error)

	// GetSalesByDay breaks sales down per calendar day within [from, to].
	GetSalesByDay(ctx context.Context, companyID int, from, to time.Time) ([]SalesByDay, error)
}

// ── Implementation ────────────────────────────────────────────────────────────

type reportingService struct {
	pool *pgxpool.Pool
}

// NewReportingService constructs a ReportingService backed by the given pool.
func NewReportingService(pool *pgxpool.Pool) ReportingService {
	return &reportingService{pool: pool}
}

func (s *reportingService) GetCustomerStats(ctx context.Context, companyID, customerID int) (*CustomerStats, error) {
	stats := &CustomerStats{CustomerID: customerID}
	err := s.pool.QueryRow(ctx,
		"SELECT name FROM customers WHERE id = $1 AND company_id = $2",
		customerID, companyID,
	).Scan(&stats.CustomerName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", customerID)
		}
		return nil, fmt.Errorf("resolve customer %d: %w", customerID, err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'accepted')
		FROM quotes
		WHERE company_id = $1 AND customer_id = $2`,
		companyID, customerID,
	).Scan(&stats.QuoteCount, &stats.AcceptedQuotes)
	if err != nil {
		return nil, fmt.Errorf("aggregate quotes for customer %d: %w", customerID, err)
	}

	// Cancelled invoices count toward history but not toward money owed.
	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(total)       FILTER (WHERE status <> 'cancelled'), 0),
		       COALESCE(SUM(paid_amount) FILTER (WHERE status <> 'cancelled'), 0),
		       MAX(created_at)
		FROM invoices
		WHERE company_id = $1 AND customer_id = $2`,
		companyID, customerID,
	).Scan(&stats.InvoiceCount, &stats.InvoicedTotal, &stats.PaidTotal, &stats.LastInvoiceDate)
	if err != nil {
		return nil, fmt.Errorf("aggregate invoices for customer %d: %w", customerID, err)
	}

	stats.OutstandingDue = stats.InvoicedTotal.Sub(stats.PaidTotal)
	return stats, nil
}

func (s *reportingService) GetVendorStats(ctx context.Context, companyID, vendorID int) (*VendorStats, error) {
	stats := &VendorStats{VendorID: vendorID, OrderCounts: map[POStatus]int64{}}
	err := s.pool.QueryRow(ctx,
		"SELECT name FROM vendors WHERE id = $1 AND company_id = $2",
		vendorID, companyID,
	).Scan(&stats.VendorName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("vendor", vendorID)
		}
		return nil, fmt.Errorf("resolve vendor %d: %w", vendorID, err)
	}

	rows, err := s.pool.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM purchase_orders
		WHERE company_id = $1 AND vendor_id = $2
		GROUP BY status`,
		companyID, vendorID,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate purchase orders for vendor %d: %w", vendorID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var status POStatus
		var count int64
		var total decimal.Decimal
		if err := rows.Scan(&status, &count, &total); err != nil {
			return nil, fmt.Errorf("scan vendor stats row: %w", err)
		}
		stats.OrderCounts[status] = count
		switch status {
		case POSent, POConfirmed, POInProgress:
			stats.OpenOrderTotal = stats.OpenOrderTotal.Add(total)
		case POCompleted:
			stats.SpentTotal = stats.SpentTotal.Add(total)
		}
	}
	return stats, rows.Err()
}

func (s *reportingService) GetDashboardSummary(ctx context.Context, companyID int, from, to time.Time) (*DashboardSummary, error) {
	sum := &DashboardSummary{From: from, To: to}

	err := s.pool.QueryRow(ctx, `
		SELECT COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(total_cost), 0), COALESCE(SUM(total_profit), 0)
		FROM sales
		WHERE company_id = $1 AND status <> 'returned' AND sold_on BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&sum.SaleCount, &sum.SalesTotal, &sum.SalesCost, &sum.SalesProfit)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total)       FILTER (WHERE status <> 'cancelled'), 0),
		       COALESCE(SUM(paid_amount) FILTER (WHERE status <> 'cancelled'), 0),
		       COUNT(*) FILTER (WHERE status = 'overdue')
		FROM invoices
		WHERE company_id = $1 AND created_at BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&sum.InvoicedTotal, &sum.CollectedTotal, &sum.OverdueCount)
	if err != nil {
		return nil, fmt.Errorf("aggregate invoices: %w", err)
	}
	sum.OutstandingDue = sum.InvoicedTotal.Sub(sum.CollectedTotal)

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM expenses
		WHERE company_id = $1 AND spent_on BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&sum.ExpenseTotal)
	if err != nil {
		return nil, fmt.Errorf("aggregate expenses: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(total), 0)
		FROM purchase_orders
		WHERE company_id = $1 AND status = 'completed' AND completed_at BETWEEN $2 AND $3`,
		companyID, from, to,
	).Scan(&sum.PurchaseTotal)
	if err != nil {
		return nil, fmt.Errorf("aggregate purchases: %w", err)
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COUNT(*)
		FROM quotes
		WHERE company_id = $1 AND status IN ('draft', 'sent', 'viewed')`,
		companyID,
	).Scan(&sum.OpenQuoteCount)
	if err != nil {
		return nil, fmt.Errorf("count open quotes: %w", err)
	}

	sum.NetCashFlow = sum.SalesTotal.Add(sum.CollectedTotal).Sub(sum.ExpenseTotal).Sub(sum.PurchaseTotal)
	return sum, nil
}

func (s *reportingService) GetSalesByDay(ctx context.Context, companyID int, from, to time.Time) ([]SalesByDay, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT sold_on::text, COUNT(*), COALESCE(SUM(total), 0), COALESCE(SUM(total_profit), 0)
		FROM sales
		WHERE company_id = $1 AND status <> 'returned' AND sold_on BETWEEN $2 AND $3
		GROUP BY sold_on
		ORDER BY sold_on`,
		companyID, from, to,
	)
	if err != nil {
		return nil, fmt.Errorf("aggregate sales by day: %w", err)
	}
	defer rows.Close()

	var days []SalesByDay
	for rows.Next() {
		var d SalesByDay
		if err := rows.Scan(&d.Day, &d.Count, &d.Total, &d.Profit); err != nil {
			return nil, fmt.Errorf("scan daily sales row: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}
