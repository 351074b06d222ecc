package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CustomerInput holds the writable customer fields. On update, nil pointers
// leave the stored value unchanged.
type CustomerInput struct {
	Name    string  `json:"name"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
}

// CustomerService provides customer master data operations, scoped per company.
type CustomerService interface {
	CreateCustomer(ctx context.Context, companyID int, input CustomerInput) (*Customer, error)
	GetCustomer(ctx context.Context, companyID, customerID int) (*Customer, error)
	GetCustomers(ctx context.Context, companyID int) ([]Customer, error)
	UpdateCustomer(ctx context.Context, companyID, customerID int, input CustomerInput) (*Customer, error)
	// DeleteCustomer deactivates the customer; existing documents keep their reference.
	DeleteCustomer(ctx context.Context, companyID, customerID int) error
}

type customerService struct {
	pool *pgxpool.Pool
}

// NewCustomerService constructs a CustomerService backed by PostgreSQL.
func NewCustomerService(pool *pgxpool.Pool) CustomerService {
	return &customerService{pool: pool}
}

const customerColumns = "id, company_id, name, email, phone, address, is_active, created_at, updated_at"

func scanCustomer(row pgx.Row) (*Customer, error) {
	c := &Customer{}
	err := row.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Email, &c.Phone, &c.Address,
		&c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *customerService) CreateCustomer(ctx context.Context, companyID int, input CustomerInput) (*Customer, error) {
	if input.Name == "" {
		return nil, newValidationError("name", "is required")
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		INSERT INTO customers (company_id, name, email, phone, address)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+customerColumns,
		companyID, input.Name, input.Email, input.Phone, input.Address,
	))
	if err != nil {
		return nil, fmt.Errorf("create customer %q: %w", input.Name, err)
	}
	return c, nil
}

func (s *customerService) GetCustomer(ctx context.Context, companyID, customerID int) (*Customer, error) {
	c, err := scanCustomer(s.pool.QueryRow(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE id = $1 AND company_id = $2",
		customerID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", customerID)
		}
		return nil, fmt.Errorf("get customer %d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) GetCustomers(ctx context.Context, companyID int) ([]Customer, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+customerColumns+" FROM customers WHERE company_id = $1 AND is_active = true ORDER BY name",
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()

	var customers []Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		customers = append(customers, *c)
	}
	return customers, rows.Err()
}

func (s *customerService) UpdateCustomer(ctx context.Context, companyID, customerID int, input CustomerInput) (*Customer, error) {
	var name *string
	if input.Name != "" {
		name = &input.Name
	}

	c, err := scanCustomer(s.pool.QueryRow(ctx, `
		UPDATE customers SET
			name       = COALESCE($3, name),
			email      = COALESCE($4, email),
			phone      = COALESCE($5, phone),
			address    = COALESCE($6, address),
			updated_at = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING `+customerColumns,
		customerID, companyID, name, input.Email, input.Phone, input.Address,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("customer", customerID)
		}
		return nil, fmt.Errorf("update customer %d: %w", customerID, err)
	}
	return c, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, companyID, customerID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE customers SET is_active = false, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		customerID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete customer %d: %w", customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("customer", customerID)
	}
	return nil
}
