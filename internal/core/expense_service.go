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

// ExpenseInput holds the writable expense fields.
type ExpenseInput struct {
	VendorID      *int             `json:"vendor_id,omitempty"`
	CategoryID    *int             `json:"category_id,omitempty"`
	Description   string           `json:"description"`
	Amount        decimal.Decimal  `json:"amount"`
	TaxRate       *decimal.Decimal `json:"tax_rate,omitempty"`
	PaymentMethod string           `json:"payment_method"`
	SpentOn       *time.Time       `json:"spent_on,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// ExpenseService records company expenses. Expense numbers use the same
// date-prefixed scan scheme as sales.
type ExpenseService interface {
	CreateExpense(ctx context.Context, companyID int, input ExpenseInput) (*Expense, error)
	GetExpense(ctx context.Context, companyID, expenseID int) (*Expense, error)
	GetExpenses(ctx context.Context, companyID int, categoryID *int, from, to *time.Time) ([]Expense, error)
	UpdateExpense(ctx context.Context, companyID, expenseID int, input ExpenseInput) (*Expense, error)
	DeleteExpense(ctx context.Context, companyID, expenseID int) error
}

type expenseService struct {
	pool *pgxpool.Pool
}

// NewExpenseService constructs an ExpenseService backed by PostgreSQL.
func NewExpenseService(pool *pgxpool.Pool) ExpenseService {
	return &expenseService{pool: pool}
}

const expenseColumns = `id, company_id, vendor_id, category_id, number, description, amount,
	tax_rate, tax_amount, total, payment_method, spent_on, notes, created_at, updated_at`

func scanExpense(row pgx.Row) (*Expense, error) {
	e := &Expense{}
	err := row.Scan(&e.ID, &e.CompanyID, &e.VendorID, &e.CategoryID, &e.Number, &e.Description,
		&e.Amount, &e.TaxRate, &e.TaxAmount, &e.Total, &e.PaymentMethod, &e.SpentOn, &e.Notes,
		&e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// expenseTax derives tax and total from the net amount.
func expenseTax(amount, taxRate decimal.Decimal) (taxAmount, total decimal.Decimal, err error) {
	if amount.IsNegative() {
		return decimal.Zero, decimal.Zero, newValidationError("amount", "must not be negative")
	}
	if taxRate.IsNegative() || taxRate.GreaterThan(oneHundred) {
		return decimal.Zero, decimal.Zero, newValidationError("tax_rate", fmt.Sprintf("must be between 0 and 100, got %s", taxRate))
	}
	taxAmount = amount.Mul(taxRate).Div(oneHundred)
	return taxAmount, amount.Add(taxAmount), nil
}

func (s *expenseService) CreateExpense(ctx context.Context, companyID int, input ExpenseInput) (*Expense, error) {
	if input.Description == "" {
		return nil, newValidationError("description", "is required")
	}

	exp, err := s.createExpenseOnce(ctx, companyID, input)
	var dup *DuplicateNumberError
	if errors.As(err, &dup) {
		exp, err = s.createExpenseOnce(ctx, companyID, input)
	}
	return exp, err
}

func (s *expenseService) createExpenseOnce(ctx context.Context, companyID int, input ExpenseInput) (*Expense, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var defaultTaxRate decimal.Decimal
	var expensePrefix string
	err = tx.QueryRow(ctx, "SELECT default_tax_rate, expense_prefix FROM companies WHERE id = $1", companyID).
		Scan(&defaultTaxRate, &expensePrefix)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("company", companyID)
		}
		return nil, fmt.Errorf("load company %d: %w", companyID, err)
	}

	if input.VendorID != nil {
		err = tx.QueryRow(ctx,
			"SELECT id FROM vendors WHERE id = $1 AND company_id = $2 AND is_active = true",
			*input.VendorID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("vendor", *input.VendorID)
			}
			return nil, fmt.Errorf("load vendor %d: %w", *input.VendorID, err)
		}
	}
	if input.CategoryID != nil {
		err = tx.QueryRow(ctx,
			"SELECT id FROM categories WHERE id = $1 AND company_id = $2 AND kind = 'expense'",
			*input.CategoryID, companyID,
		).Scan(new(int))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, notFound("expense category", *input.CategoryID)
			}
			return nil, fmt.Errorf("load category %d: %w", *input.CategoryID, err)
		}
	}

	taxRate := defaultTaxRate
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	taxAmount, total, err := expenseTax(input.Amount, taxRate)
	if err != nil {
		return nil, err
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}
	spentOn := time.Now()
	if input.SpentOn != nil {
		spentOn = *input.SpentOn
	}

	number, err := nextScanNumber(ctx, tx, companyID, "expenses", expensePrefix, spentOn)
	if err != nil {
		return nil, err
	}

	var expenseID int
	err = tx.QueryRow(ctx, `
		INSERT INTO expenses (company_id, vendor_id, category_id, number, description, amount,
			tax_rate, tax_amount, total, payment_method, spent_on, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`,
		companyID, input.VendorID, input.CategoryID, number, input.Description, input.Amount,
		taxRate, taxAmount, total, paymentMethod, spentOn, input.Notes,
	).Scan(&expenseID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert expense: %w", &DuplicateNumberError{Number: number})
		}
		return nil, fmt.Errorf("insert expense %s: %w", number, err)
	}
	if err := tx.Commit(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("commit expense: %w", &DuplicateNumberError{Number: number})
		}
		return nil, fmt.Errorf("commit expense %s: %w", number, err)
	}
	return s.GetExpense(ctx, companyID, expenseID)
}

func (s *expenseService) GetExpense(ctx context.Context, companyID, expenseID int) (*Expense, error) {
	e, err := scanExpense(s.pool.QueryRow(ctx,
		"SELECT "+expenseColumns+" FROM expenses WHERE id = $1 AND company_id = $2",
		expenseID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("expense", expenseID)
		}
		return nil, fmt.Errorf("get expense %d: %w", expenseID, err)
	}
	return e, nil
}

func (s *expenseService) GetExpenses(ctx context.Context, companyID int, categoryID *int, from, to *time.Time) ([]Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE company_id = $1"
	args := []any{companyID}
	if categoryID != nil {
		args = append(args, *categoryID)
		query += fmt.Sprintf(" AND category_id = $%d", len(args))
	}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND spent_on >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND spent_on <= $%d", len(args))
	}
	query += " ORDER BY number DESC"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, *e)
	}
	return expenses, rows.Err()
}

func (s *expenseService) UpdateExpense(ctx context.Context, companyID, expenseID int, input ExpenseInput) (*Expense, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var amount, taxRate decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT amount, tax_rate FROM expenses WHERE id = $1 AND company_id = $2 FOR UPDATE",
		expenseID, companyID,
	).Scan(&amount, &taxRate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("expense", expenseID)
		}
		return nil, fmt.Errorf("lock expense %d: %w", expenseID, err)
	}

	if !input.Amount.IsZero() {
		amount = input.Amount
	}
	if input.TaxRate != nil {
		taxRate = *input.TaxRate
	}
	taxAmount, total, err := expenseTax(amount, taxRate)
	if err != nil {
		return nil, err
	}

	var description *string
	if input.Description != "" {
		description = &input.Description
	}
	var paymentMethod *string
	if input.PaymentMethod != "" {
		paymentMethod = &input.PaymentMethod
	}

	_, err = tx.Exec(ctx, `
		UPDATE expenses SET
			vendor_id      = COALESCE($3, vendor_id),
			category_id    = COALESCE($4, category_id),
			description    = COALESCE($5, description),
			amount         = $6, tax_rate = $7, tax_amount = $8, total = $9,
			payment_method = COALESCE($10, payment_method),
			spent_on       = COALESCE($11, spent_on),
			notes          = COALESCE($12, notes),
			updated_at     = NOW()
		WHERE id = $1 AND company_id = $2`,
		expenseID, companyID, input.VendorID, input.CategoryID, description,
		amount, taxRate, taxAmount, total, paymentMethod, input.SpentOn, input.Notes,
	)
	if err != nil {
		return nil, fmt.Errorf("update expense %d: %w", expenseID, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit expense update: %w", err)
	}
	return s.GetExpense(ctx, companyID, expenseID)
}

func (s *expenseService) DeleteExpense(ctx context.Context, companyID, expenseID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM expenses WHERE id = $1 AND company_id = $2",
		expenseID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete expense %d: %w", expenseID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("expense", expenseID)
	}
	return nil
}
