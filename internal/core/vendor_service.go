package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// VendorInput holds the writable vendor fields.
type VendorInput struct {
	Name             string  `json:"name"`
	ContactPerson    *string `json:"contact_person,omitempty"`
	Email            *string `json:"email,omitempty"`
	Phone            *string `json:"phone,omitempty"`
	Address          *string `json:"address,omitempty"`
	PaymentTermsDays *int    `json:"payment_terms_days,omitempty"`
}

// VendorService provides vendor master data operations, scoped per company.
type VendorService interface {
	CreateVendor(ctx context.Context, companyID int, input VendorInput) (*Vendor, error)
	GetVendor(ctx context.Context, companyID, vendorID int) (*Vendor, error)
	GetVendors(ctx context.Context, companyID int) ([]Vendor, error)
	UpdateVendor(ctx context.Context, companyID, vendorID int, input VendorInput) (*Vendor, error)
	DeleteVendor(ctx context.Context, companyID, vendorID int) error
}

type vendorService struct {
	pool *pgxpool.Pool
}

// NewVendorService constructs a VendorService backed by PostgreSQL.
func NewVendorService(pool *pgxpool.Pool) VendorService {
	return &vendorService{pool: pool}
}

const vendorColumns = "id, company_id, name, contact_person, email, phone, address, payment_terms_days, is_active, created_at, updated_at"

func scanVendor(row pgx.Row) (*Vendor, error) {
	v := &Vendor{}
	err := row.Scan(&v.ID, &v.CompanyID, &v.Name, &v.ContactPerson, &v.Email, &v.Phone,
		&v.Address, &v.PaymentTermsDays, &v.IsActive, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (s *vendorService) CreateVendor(ctx context.Context, companyID int, input VendorInput) (*Vendor, error) {
	if input.Name == "" {
		return nil, newValidationError("name", "is required")
	}
	paymentTerms := 30
	if input.PaymentTermsDays != nil {
		if *input.PaymentTermsDays < 0 {
			return nil, newValidationError("payment_terms_days", "must not be negative")
		}
		paymentTerms = *input.PaymentTermsDays
	}

	v, err := scanVendor(s.pool.QueryRow(ctx, `
		INSERT INTO vendors (company_id, name, contact_person, email, phone, address, payment_terms_days)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+vendorColumns,
		companyID, input.Name, input.ContactPerson, input.Email, input.Phone, input.Address, paymentTerms,
	))
	if err != nil {
		return nil, fmt.Errorf("create vendor %q: %w", input.Name, err)
	}
	return v, nil
}

func (s *vendorService) GetVendor(ctx context.Context, companyID, vendorID int) (*Vendor, error) {
	v, err := scanVendor(s.pool.QueryRow(ctx,
		"SELECT "+vendorColumns+" FROM vendors WHERE id = $1 AND company_id = $2",
		vendorID, companyID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("vendor", vendorID)
		}
		return nil, fmt.Errorf("get vendor %d: %w", vendorID, err)
	}
	return v, nil
}

func (s *vendorService) GetVendors(ctx context.Context, companyID int) ([]Vendor, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+vendorColumns+" FROM vendors WHERE company_id = $1 AND is_active = true ORDER BY name",
		companyID,
	)
	if err != nil {
		return nil, fmt.Errorf("list vendors: %w", err)
	}
	defer rows.Close()

	var vendors []Vendor
	for rows.Next() {
		v, err := scanVendor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan vendor: %w", err)
		}
		vendors = append(vendors, *v)
	}
	return vendors, rows.Err()
}

func (s *vendorService) UpdateVendor(ctx context.Context, companyID, vendorID int, input VendorInput) (*Vendor, error) {
	var name *string
	if input.Name != "" {
		name = &input.Name
	}
	if input.PaymentTermsDays != nil && *input.PaymentTermsDays < 0 {
		return nil, newValidationError("payment_terms_days", "must not be negative")
	}

	v, err := scanVendor(s.pool.QueryRow(ctx, `
		UPDATE vendors SET
			name               = COALESCE($3, name),
			contact_person     = COALESCE($4, contact_person),
			email              = COALESCE($5, email),
			phone              = COALESCE($6, phone),
			address            = COALESCE($7, address),
			payment_terms_days = COALESCE($8, payment_terms_days),
			updated_at         = NOW()
		WHERE id = $1 AND company_id = $2
		RETURNING `+vendorColumns,
		vendorID, companyID, name, input.ContactPerson, input.Email, input.Phone,
		input.Address, input.PaymentTermsDays,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("vendor", vendorID)
		}
		return nil, fmt.Errorf("update vendor %d: %w", vendorID, err)
	}
	return v, nil
}

func (s *vendorService) DeleteVendor(ctx context.Context, companyID, vendorID int) error {
	tag, err := s.pool.Exec(ctx,
		"UPDATE vendors SET is_active = false, updated_at = NOW() WHERE id = $1 AND company_id = $2",
		vendorID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete vendor %d: %w", vendorID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("vendor", vendorID)
	}
	return nil
}
