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

const customerNotFoundMsg = "customer not found"
const duplicateEmailMsg = "a customer with this email already exists"

// pgUniqueViolation is the Postgres error code for unique constraint violations.
const pgUniqueViolation = "23505"

// Customer is the database model for a customer record.
type Customer struct {
	ID          uuid.UUID
	Name        string
	DateOfBirth time.Time
	Address     *string
	Email       string
	Contact     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CustomerUpdate carries the optional fields of a customer update.
// Nil fields are left unchanged.
type CustomerUpdate struct {
	ID          uuid.UUID
	Name        *string
	DateOfBirth *time.Time
	Address     *string
	Email       *string
	Contact     *string
}

// QuotationSummary is a per-quotation aggregate row for the customer detail view.
type QuotationSummary struct {
	ID            uuid.UUID
	QuotationDate time.Time
	GrandTotal    decimal.Decimal
	TotalItems    int
	CreatedAt     time.Time
}

// ListParams contains parameters for listing customers.
type ListParams struct {
	Page     int
	PageSize int
}

// ListResult contains the paginated result of listing customers.
type ListResult struct {
	Items      []Customer
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}

// Repository provides database operations for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// New creates a new customers repository.
func New(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create inserts a new customer. A duplicate email surfaces as apperr.Conflict.
func (r *Repository) Create(ctx context.Context, c *Customer) error {
	query := `
		INSERT INTO customers (id, name, date_of_birth, address, email, contact, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	if _, err := r.pool.Exec(ctx, query,
		c.ID, c.Name, c.DateOfBirth, c.Address, c.Email, c.Contact, c.CreatedAt, c.UpdatedAt,
	); err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict(duplicateEmailMsg)
		}
		return fmt.Errorf("failed to insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves a customer by its ID.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*Customer, error) {
	var c Customer
	query := `
		SELECT id, name, date_of_birth, address, email, contact, created_at, updated_at
		FROM customers WHERE id = $1`

	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.DateOfBirth, &c.Address, &c.Email, &c.Contact, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(customerNotFoundMsg)
		}
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

// Update applies the non-nil fields of the update to the customer row.
func (r *Repository) Update(ctx context.Context, upd CustomerUpdate) error {
	query := `
		UPDATE customers SET
			name = COALESCE($2, name),
			date_of_birth = COALESCE($3, date_of_birth),
			address = COALESCE($4, address),
			email = COALESCE($5, email),
			contact = COALESCE($6, contact),
			updated_at = $7
		WHERE id = $1`

	result, err := r.pool.Exec(ctx, query,
		upd.ID, upd.Name, upd.DateOfBirth, upd.Address, upd.Email, upd.Contact, time.Now(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperr.Conflict(duplicateEmailMsg)
		}
		return fmt.Errorf("failed to update customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// Delete removes a customer. Quotations and their items cascade.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(customerNotFoundMsg)
	}
	return nil
}

// List retrieves customers with pagination, newest first.
func (r *Repository) List(ctx context.Context, params ListParams) (*ListResult, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	totalPages := (total + params.PageSize - 1) / params.PageSize
	offset := (params.Page - 1) * params.PageSize

	query := `
		SELECT id, name, date_of_birth, address, email, contact, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, params.PageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer rows.Close()

	items, err := scanCustomers(rows)
	if err != nil {
		return nil, err
	}

	return &ListResult{
		Items:      items,
		Total:      total,
		Page:       params.Page,
		PageSize:   params.PageSize,
		TotalPages: totalPages,
	}, nil
}

// Search finds customers whose name, email, or contact contains the term.
func (r *Repository) Search(ctx context.Context, term string) ([]Customer, error) {
	pattern := "%" + term + "%"
	query := `
		SELECT id, name, date_of_birth, address, email, contact, created_at, updated_at
		FROM customers
		WHERE name ILIKE $1 OR email ILIKE $1 OR contact ILIKE $1
		ORDER BY name ASC`

	rows, err := r.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}
	defer rows.Close()

	return scanCustomers(rows)
}

// ListQuotationSummaries returns the customer's quotations with item counts,
// newest first.
func (r *Repository) ListQuotationSummaries(ctx context.Context, customerID uuid.UUID) ([]QuotationSummary, error) {
	query := `
		SELECT q.id, q.quotation_date, q.grand_total,
			COALESCE(SUM(qi.quantity), 0) AS total_items,
			q.created_at
		FROM quotations q
		LEFT JOIN quotation_items qi ON qi.quotation_id = q.id
		WHERE q.customer_id = $1
		GROUP BY q.id
		ORDER BY q.created_at DESC`

	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query quotation summaries: %w", err)
	}
	defer rows.Close()

	var summaries []QuotationSummary
	for rows.Next() {
		var s QuotationSummary
		if err := rows.Scan(&s.ID, &s.QuotationDate, &s.GrandTotal, &s.TotalItems, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan quotation summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate quotation summaries: %w", err)
	}
	return summaries, nil
}

func scanCustomers(rows pgx.Rows) ([]Customer, error) {
	var items []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.DateOfBirth, &c.Address, &c.Email, &c.Contact, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		items = append(items, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate customers: %w", err)
	}
	return items, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
