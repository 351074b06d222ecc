package core

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// pgxRunner extends pgxQuerier with multi-row queries and mutations; satisfied
// by both *pgxpool.Pool and pgx.Tx.
type pgxRunner interface {
	pgxQuerier
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// insertDocItems writes computed line items for a quote or invoice. The two
// item tables share a shape: position, name, description, quantity,
// unit_price, total.
func insertDocItems(ctx context.Context, q pgxRunner, table, fkCol string, parentID int, items []LineItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, position, name, description, quantity, unit_price, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, table, fkCol)
	for _, it := range items {
		var desc *string
		if it.Description != nil && *it.Description != "" {
			desc = it.Description
		}
		if _, err := q.Exec(ctx, query, parentID, it.Position, it.Name, desc, it.Quantity, it.UnitPrice, it.Total); err != nil {
			return fmt.Errorf("insert %s row: %w", table, err)
		}
	}
	return nil
}

// loadDocItems reads a quote's or invoice's line items in position order.
func loadDocItems(ctx context.Context, q pgxRunner, table, fkCol string, parentID int) ([]LineItem, error) {
	query := fmt.Sprintf(`
		SELECT id, position, name, description, quantity, unit_price, total
		FROM %s WHERE %s = $1 ORDER BY position`, table, fkCol)
	rows, err := q.Query(ctx, query, parentID)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", table, err)
	}
	defer rows.Close()

	var items []LineItem
	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ID, &it.Position, &it.Name, &it.Description, &it.Quantity, &it.UnitPrice, &it.Total); err != nil {
			return nil, fmt.Errorf("scan %s row: %w", table, err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
