package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// TaxService manages named tax rates. At most one rate per company is the
// default applied to new documents when the client supplies none.
type TaxService interface {
	CreateTaxRate(ctx context.Context, companyID int, name string, rate decimal.Decimal, isDefault bool) (*TaxRate, error)
	GetTaxRates(ctx context.Context, companyID int) ([]TaxRate, error)
	UpdateTaxRate(ctx context.Context, companyID, taxRateID int, name string, rate decimal.Decimal, isDefault bool) (*TaxRate, error)
	DeleteTaxRate(ctx context.Context, companyID, taxRateID int) error
}

type taxService struct {
	pool *pgxpool.Pool
}

// NewTaxService constructs a TaxService backed by PostgreSQL.
func NewTaxService(pool *pgxpool.Pool) TaxService {
	return &taxService{pool: pool}
}

func validateTaxRate(name string, rate decimal.Decimal) error {
	if name == "" {
		return newValidationError("name", "is required")
	}
	if rate.IsNegative() || rate.GreaterThan(oneHundred) {
		return newValidationError("rate", "must be between 0 and 100")
	}
	return nil
}

func (s *taxService) CreateTaxRate(ctx context.Context, companyID int, name string, rate decimal.Decimal, isDefault bool) (*TaxRate, error) {
	if err := validateTaxRate(name, rate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if isDefault {
		if _, err := tx.Exec(ctx,
			"UPDATE tax_rates SET is_default = false WHERE company_id = $1", companyID); err != nil {
			return nil, fmt.Errorf("clear default tax rate: %w", err)
		}
	}

	t := &TaxRate{}
	err = tx.QueryRow(ctx, `
		INSERT INTO tax_rates (company_id, name, rate, is_default)
		VALUES ($1, $2, $3, $4)
		RETURNING id, company_id, name, rate, is_default, created_at`,
		companyID, name, rate, isDefault,
	).Scan(&t.ID, &t.CompanyID, &t.Name, &t.Rate, &t.IsDefault, &t.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create tax rate %q: %w", name, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tax rate: %w", err)
	}
	return t, nil
}

func (s *taxService) GetTaxRates(ctx context.Context, companyID int) ([]TaxRate, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, company_id, name, rate, is_default, created_at FROM tax_rates WHERE company_id = $1 ORDER BY name",
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list tax rates: %w", err)
	}
	defer rows.Close()

	var rates []TaxRate
	for rows.Next() {
		var t TaxRate
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.Name, &t.Rate, &t.IsDefault, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tax rate: %w", err)
		}
		rates = append(rates, t)
	}
	return rates, rows.Err()
}

func (s *taxService) UpdateTaxRate(ctx context.Context, companyID, taxRateID int, name string, rate decimal.Decimal, isDefault bool) (*TaxRate, error) {
	if err := validateTaxRate(name, rate); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if isDefault {
		if _, err := tx.Exec(ctx,
			"UPDATE tax_rates SET is_default = false WHERE company_id = $1 AND id <> $2",
			companyID, taxRateID); err != nil {
			return nil, fmt.Errorf("clear default tax rate: %w", err)
		}
	}

	t := &TaxRate{}
	err = tx.QueryRow(ctx, `
		UPDATE tax_rates SET name = $3, rate = $4, is_default = $5
		WHERE id = $1 AND company_id = $2
		RETURNING id, company_id, name, rate, is_default, created_at`,
		taxRateID, companyID, name, rate, isDefault,
	).Scan(&t.ID, &t.CompanyID, &t.Name, &t.Rate, &t.IsDefault, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("tax rate", taxRateID)
		}
		return nil, fmt.Errorf("update tax rate %d: %w", taxRateID, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tax rate: %w", err)
	}
	return t, nil
}

func (s *taxService) DeleteTaxRate(ctx context.Context, companyID, taxRateID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM tax_rates WHERE id = $1 AND company_id = $2",
		taxRateID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete tax rate %d: %w", taxRateID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("tax rate", taxRateID)
	}
	return nil
}
