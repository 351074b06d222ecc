package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// pgxQuerier is satisfied by both *pgxpool.Pool and pgx.Tx, enabling shared
// query helpers to run inside or outside an explicit transaction.
type pgxQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Counter-based numbering (quotes, invoices, purchase orders).
//
// The company row stores the LAST assigned value per document type. Assignment
// is a single UPDATE ... RETURNING, so two concurrent creations for the same
// company can never observe the same pre-increment value: the row lock
// serializes them and each caller gets a distinct post-increment result.
// Counters only increase and numbers are never reused, even when a document is
// later deleted.

type counterDocType struct {
	prefixCol  string
	counterCol string
	pad        int
}

var counterDocTypes = map[string]counterDocType{
	"quote":          {prefixCol: "quote_prefix", counterCol: "next_quote_number", pad: 4},
	"invoice":        {prefixCol: "invoice_prefix", counterCol: "next_invoice_number", pad: 5},
	"purchase_order": {prefixCol: "po_prefix", counterCol: "next_po_number", pad: 4},
}

// nextCounterNumber atomically increments the company's counter for docType and
// returns the formatted number (PREFIX-NNNN). Returns NotFoundError when the
// company row does not exist; the caller must abort the document creation.
func nextCounterNumber(ctx context.Context, q pgxQuerier, companyID int, docType string) (string, error) {
	dt, ok := counterDocTypes[docType]
	if !ok {
		return "", fmt.Errorf("no counter-based numbering for document type %q", docType)
	}

	// Column names come from the fixed table above, never from input.
	query := fmt.Sprintf(`
		UPDATE companies
		SET %s = %s + 1
		WHERE id = $1
		RETURNING %s, %s`,
		dt.counterCol, dt.counterCol, dt.prefixCol, dt.counterCol)

	var prefix string
	var assigned int64
	if err := q.QueryRow(ctx, query, companyID).Scan(&prefix, &assigned); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", notFound("company", companyID)
		}
		return "", fmt.Errorf("increment %s counter for company %d: %w", docType, companyID, err)
	}

	return FormatCounterNumber(prefix, assigned, dt.pad), nil
}

// FormatCounterNumber renders a counter-based document number, e.g.
// FormatCounterNumber("INV", 6, 5) == "INV-00006".
func FormatCounterNumber(prefix string, n int64, pad int) string {
	return fmt.Sprintf("%s-%0*d", prefix, pad, n)
}

// Scan-based numbering (sales, expenses).
//
// Numbers have the shape PREFIX-YYYYMMDD-NNNN, unique per company per day.
// The next sequence is found by scanning for the highest existing number with
// a matching day prefix; unlike the counter scheme this read-then-insert is
// not atomic, so two concurrent creations can compute the same number. The
// unique (company_id, number) index turns that race into a
// DuplicateNumberError, which the create path retries once with a regenerated
// number before surfacing a conflict.

const dailySuffixPad = 4

// nextScanNumber computes the next date-prefixed number for a company and day
// by scanning table for the highest matching number. table must be one of the
// fixed document table names.
func nextScanNumber(ctx context.Context, q pgxQuerier, companyID int, table, prefix string, day time.Time) (string, error) {
	dayPrefix := fmt.Sprintf("%s-%s-", prefix, day.Format("20060102"))

	query := fmt.Sprintf(`
		SELECT number FROM %s
		WHERE company_id = $1 AND number LIKE $2
		ORDER BY number DESC
		LIMIT 1`, table)

	var last string
	err := q.QueryRow(ctx, query, companyID, dayPrefix+"%").Scan(&last)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return dayPrefix + fmt.Sprintf("%0*d", dailySuffixPad, 1), nil
	case err != nil:
		return "", fmt.Errorf("scan last %s number for company %d: %w", table, companyID, err)
	}

	seq, err := ParseDailySuffix(last)
	if err != nil {
		return "", fmt.Errorf("malformed existing number %q: %w", last, err)
	}
	return dayPrefix + fmt.Sprintf("%0*d", dailySuffixPad, seq+1), nil
}

// ParseDailySuffix extracts the trailing numeric sequence from a date-prefixed
// number such as "SAL-20240115-0007".
func ParseDailySuffix(number string) (int64, error) {
	idx := strings.LastIndex(number, "-")
	if idx < 0 || idx == len(number)-1 {
		return 0, fmt.Errorf("number %q has no sequence suffix", number)
	}
	seq, err := strconv.ParseInt(number[idx+1:], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("number %q has a non-numeric suffix", number)
	}
	return seq, nil
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation (SQLSTATE 23505), the signature of a scan-based numbering race.
func isUniqueViolation(err error) bool {
	var pgErr interface{ SQLState() string }
	if errors.As(err, &pgErr) {
		return pgErr.SQLState() == "23505"
	}
	return false
}
