package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryService manages product and expense categories.
type CategoryService interface {
	CreateCategory(ctx context.Context, companyID int, name string, kind CategoryKind) (*Category, error)
	GetCategories(ctx context.Context, companyID int, kind CategoryKind) ([]Category, error)
	UpdateCategory(ctx context.Context, companyID, categoryID int, name string) (*Category, error)
	DeleteCategory(ctx context.Context, companyID, categoryID int) error
}

type categoryService struct {
	pool *pgxpool.Pool
}

// NewCategoryService constructs a CategoryService backed by PostgreSQL.
func NewCategoryService(pool *pgxpool.Pool) CategoryService {
	return &categoryService{pool: pool}
}

func (s *categoryService) CreateCategory(ctx context.Context, companyID int, name string, kind CategoryKind) (*Category, error) {
	if name == "" {
		return nil, newValidationError("name", "is required")
	}
	if kind != CategoryProduct && kind != CategoryExpense {
		return nil, newValidationError("kind", fmt.Sprintf("unknown category kind %q", kind))
	}

	c := &Category{}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO categories (company_id, name, kind)
		VALUES ($1, $2, $3)
		RETURNING id, company_id, name, kind, created_at`,
		companyID, name, kind,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create category %q: %w", name, err)
	}
	return c, nil
}

// GetCategories lists categories for a company. An empty kind returns both
// product and expense categories.
func (s *categoryService) GetCategories(ctx context.Context, companyID int, kind CategoryKind) ([]Category, error) {
	query := "SELECT id, company_id, name, kind, created_at FROM categories WHERE company_id = $1"
	args := []any{companyID}
	if kind != "" {
		query += " AND kind = $2"
		args = append(args, kind)
	}
	query += " ORDER BY name"

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []Category
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (s *categoryService) UpdateCategory(ctx context.Context, companyID, categoryID int, name string) (*Category, error) {
	if name == "" {
		return nil, newValidationError("name", "is required")
	}

	c := &Category{}
	err := s.pool.QueryRow(ctx, `
		UPDATE categories SET name = $3
		WHERE id = $1 AND company_id = $2
		RETURNING id, company_id, name, kind, created_at`,
		categoryID, companyID, name,
	).Scan(&c.ID, &c.CompanyID, &c.Name, &c.Kind, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, notFound("category", categoryID)
		}
		return nil, fmt.Errorf("update category %d: %w", categoryID, err)
	}
	return c, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, companyID, categoryID int) error {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM categories WHERE id = $1 AND company_id = $2",
		categoryID, companyID,
	)
	if err != nil {
		return fmt.Errorf("delete category %d: %w", categoryID, err)
	}
	if tag.RowsAffected() == 0 {
		return notFound("category", categoryID)
	}
	return nil
}
