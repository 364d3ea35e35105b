package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Joenll/AND-I-QUOTE/platform/apperr"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const quotationNotFoundMsg = "quotation not found"

// ── Domain Models ─────────────────────────────────────────────────────────────

// Quotation is the database model for a quotation header.
// GrandTotal is denormalized and kept consistent with the items by the
// transactional write paths below.
type Quotation struct {
	ID            uuid.UUID
	CustomerID    uuid.UUID
	QuotationDate time.Time
	GrandTotal    decimal.Decimal
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// QuotationItem is the database model for a quotation line item.
type QuotationItem struct {
	ID              uuid.UUID
	QuotationID     uuid.UUID
	ProductName     string
	ItemDescription *string
	Quantity        int
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	SortOrder       int
	CreatedAt       time.Time
}

// ListParams contains parameters for listing quotations.
type ListParams struct {
	CustomerID *uuid.UUID
	Page       int
	PageSize   int
}

// ListResult contains the paginated result of listing quotations.
type ListResult struct {
	Items      []Quotation
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// ── Repository ────────────────────────────────────────────────────────────────

// Repository provides database operations for quotations.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new quotations repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateWithItems inserts a quotation and its line items in a single
// transaction. The header row is written with a zero grand total, the items
// follow, and the grand total is set last; all of it commits together or
// rolls back together.
func (r *Repository) CreateWithItems(ctx context.Context, quotation *Quotation, items []QuotationItem) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	insertQuery := `
		INSERT INTO quotations (id, customer_id, quotation_date, grand_total, created_at, updated_at)
		VALUES ($1, $2, $3, 0, $4, $5)`

	if _, err := tx.Exec(ctx, insertQuery,
		quotation.ID, quotation.CustomerID, quotation.QuotationDate,
		quotation.CreatedAt, quotation.UpdatedAt,
	); err != nil {
		return fmt.Errorf("failed to insert quotation: %w", err)
	}

	if err := r.insertItems(ctx, tx, items); err != nil {
		return err
	}

	totalQuery := `UPDATE quotations SET grand_total = $2 WHERE id = $1`
	if _, err := tx.Exec(ctx, totalQuery, quotation.ID, quotation.GrandTotal); err != nil {
		return fmt.Errorf("failed to store grand total: %w", err)
	}

	return tx.Commit(ctx)
}

// UpdateWithItems updates a quotation header and, when replaceItems is set,
// wholesale-replaces its line items (delete all, insert all) in the same
// transaction. Any failure leaves the prior state untouched.
// The grand total is only written together with the item set that produced
// it; a date-only update must not touch it, since the caller's copy may be
// stale relative to a concurrent item replacement.
func (r *Repository) UpdateWithItems(ctx context.Context, quotation *Quotation, items []QuotationItem, replaceItems bool) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var result pgconn.CommandTag
	if replaceItems {
		result, err = tx.Exec(ctx, `
			UPDATE quotations SET quotation_date = $2, grand_total = $3, updated_at = $4
			WHERE id = $1`,
			quotation.ID, quotation.QuotationDate, quotation.GrandTotal, quotation.UpdatedAt,
		)
	} else {
		result, err = tx.Exec(ctx, `
			UPDATE quotations SET quotation_date = $2, updated_at = $3
			WHERE id = $1`,
			quotation.ID, quotation.QuotationDate, quotation.UpdatedAt,
		)
	}
	if err != nil {
		return fmt.Errorf("failed to update quotation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM quotation_items WHERE quotation_id = $1`, quotation.ID); err != nil {
			return fmt.Errorf("failed to delete old quotation items: %w", err)
		}
		if err := r.insertItems(ctx, tx, items); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repository) insertItems(ctx context.Context, tx pgx.Tx, items []QuotationItem) error {
	itemQuery := `
		INSERT INTO quotation_items (
			id, quotation_id, product_name, item_description,
			quantity, unit_price, total_price, sort_order, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	for _, item := range items {
		if _, err := tx.Exec(ctx, itemQuery,
			item.ID, item.QuotationID, item.ProductName, item.ItemDescription,
			item.Quantity, item.UnitPrice, item.TotalPrice, item.SortOrder, item.CreatedAt,
		); err != nil {
			return fmt.Errorf("failed to insert quotation item: %w", err)
		}
	}
	return nil
}

// GetByID retrieves a quotation header by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	var q Quotation
	query := `
		SELECT id, customer_id, quotation_date, grand_total, created_at, updated_at
		FROM quotations WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&q.ID, &q.CustomerID, &q.QuotationDate, &q.GrandTotal, &q.CreatedAt, &q.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(quotationNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return &q, nil
}

// GetItemsByQuotationID retrieves the items of a quotation in insertion order.
func (r *Repository) GetItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]QuotationItem, error) {
	query := `
		SELECT id, quotation_id, product_name, item_description,
			quantity, unit_price, total_price, sort_order, created_at
		FROM quotation_items WHERE quotation_id = $1
		ORDER BY sort_order ASC`

	rows, err := r.pool.Query(ctx, query, quotationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation items: %w", err)
	}
	defer rows.Close()

	var items []QuotationItem
	for rows.Next() {
		var it QuotationItem
		if err := rows.Scan(
			&it.ID, &it.QuotationID, &it.ProductName, &it.ItemDescription,
			&it.Quantity, &it.UnitPrice, &it.TotalPrice, &it.SortOrder, &it.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quotation item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotation items: %w", err)
	}
	return items, nil
}

// Delete removes a quotation; its items cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM quotations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(quotationNotFoundMsg)
	}
	return nil
}

// List retrieves quotations with optional customer filtering and pagination,
// newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var customerParam interface{}
	if params.CustomerID != nil {
		customerParam = *params.CustomerID
	}

	baseQuery := `FROM quotations WHERE ($1::uuid IS NULL OR customer_id = $1)`

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) "+baseQuery, customerParam).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count quotations: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	selectQuery := `
		SELECT id, customer_id, quotation_date, grand_total, created_at, updated_at
		` + baseQuery + `
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, selectQuery, customerParam, params.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	defer rows.Close()

	var items []Quotation
	for rows.Next() {
		var q Quotation
		if err := rows.Scan(
			&q.ID, &q.CustomerID, &q.QuotationDate, &q.GrandTotal, &q.CreatedAt, &q.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan quotation: %w", err)
		}
		items = append(items, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotations: %w", err)
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}
