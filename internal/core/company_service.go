package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// CompanyService exposes tenant settings, including the numbering prefixes the
// document services read. Counters are never read-modify-written through this
// service; they move only via the atomic increment in the numbering layer.
type CompanyService interface {
	GetCompany(ctx context.Context, companyID int) (*Company, error)
	GetSettings(ctx context.Context, companyID int) (*CompanySettings, error)
	UpdateSettings(ctx context.Context, companyID int, input SettingsInput) (*Company, error)
}

// SettingsInput holds the mutable company settings. Nil fields are left
// unchanged. Numbering counters are deliberately absent: they only increase,
// through document creation.
type SettingsInput struct {
	Name              *string          `json:"name,omitempty"`
	Email             *string          `json:"email,omitempty"`
	Currency          *string          `json:"currency,omitempty"`
	DefaultTaxRate    *decimal.Decimal `json:"default_tax_rate,omitempty"`
	QuoteValidityDays *int             `json:"quote_validity_days,omitempty"`
	QuotePrefix       *string          `json:"quote_prefix,omitempty"`
	InvoicePrefix     *string          `json:"invoice_prefix,omitempty"`
	POPrefix          *string          `json:"po_prefix,omitempty"`
	SalePrefix        *string          `json:"sale_prefix,omitempty"`
	ExpensePrefix     *string          `json:"expense_prefix,omitempty"`
}

type companyService struct {
	pool *pgxpool.Pool
}

// NewCompanyService constructs a CompanyService backed by PostgreSQL.
func NewCompanyService(pool *pgxpool.Pool) CompanyService {
	return &companyService{pool: pool}
}

const companyColumns = `id, name, COALESCE(email, ''), currency, default_tax_rate, quote_validity_days,
	quote_prefix, next_quote_number, invoice_prefix, next_invoice_number,
	po_prefix, next_po_number, sale_prefix, expense_prefix, created_at`

func scanCompany(row pgx.Row) (*Company, error) {
	c := &Company{}
	err := row.Scan(
		&c.ID, &c.Name, &c.Email, &c.Currency, &c.DefaultTaxRate, &c.QuoteValidityDays,
		&c.QuotePrefix, &c.NextQuoteNumber, &c.InvoicePrefix, &c.NextInvoiceNumber,
		&c.POPrefix, &c.NextPONumber, &c.SalePrefix, &c.ExpensePrefix, &c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *companyService) GetCompany(ctx context.Context, companyID int) (*Company, error) {
	c, err := scanCompany(s.pool.QueryRow(ctx,
		"SELECT "+companyColumns+" FROM companies WHERE id = $1", companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("get company %d: %w", companyID, err)
	}
	return c, nil
}

func (s *companyService) GetSettings(ctx context.Context, companyID int) (*CompanySettings, error) {
	settings := &CompanySettings{}
	err := s.pool.QueryRow(ctx, `
		SELECT currency, default_tax_rate, quote_validity_days,
		       quote_prefix, invoice_prefix, po_prefix, sale_prefix, expense_prefix
		FROM companies
		WHERE id = $1`,
		companyID,
	).Scan(
		&settings.Currency, &settings.DefaultTaxRate, &settings.QuoteValidityDays,
		&settings.QuotePrefix, &settings.InvoicePrefix, &settings.POPrefix,
		&settings.SalePrefix, &settings.ExpensePrefix,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("get settings for company %d: %w", companyID, err)
	}
	return settings, nil
}

func (s *companyService) UpdateSettings(ctx context.Context, companyID int, input SettingsInput) (*Company, error) {
	if input.DefaultTaxRate != nil &&
		(input.DefaultTaxRate.IsNegative() || input.DefaultTaxRate.GreaterThan(oneHundred)) {
		return nil, newValidationError("default_tax_rate", "must be between 0 and 100")
	}
	if input.QuoteValidityDays != nil && *input.QuoteValidityDays <= 0 {
		return nil, newValidationError("quote_validity_days", "must be greater than zero")
	}

	c, err := scanCompany(s.pool.QueryRow(ctx, `
		UPDATE companies SET
			name                = COALESCE($2, name),
			email               = COALESCE($3, email),
			currency            = COALESCE($4, currency),
			default_tax_rate    = COALESCE($5, default_tax_rate),
			quote_validity_days = COALESCE($6, quote_validity_days),
			quote_prefix        = COALESCE($7, quote_prefix),
			invoice_prefix      = COALESCE($8, invoice_prefix),
			po_prefix           = COALESCE($9, po_prefix),
			sale_prefix         = COALESCE($10, sale_prefix),
			expense_prefix      = COALESCE($11, expense_prefix)
		WHERE id = $1
		RETURNING `+companyColumns,
		companyID, input.Name, input.Email, input.Currency, input.DefaultTaxRate,
		input.QuoteValidityDays, input.QuotePrefix, input.InvoicePrefix,
		input.POPrefix, input.SalePrefix, input.ExpensePrefix,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("update settings for company %d: %w", companyID, err)
	}
	return c, nil
}
