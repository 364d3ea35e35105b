package transport

import (
	"time"

	"github.com/google/uuid"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// CreateCustomerRequest is the request body for registering a customer.
type CreateCustomerRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	DateOfBirth string  `json:"dateOfBirth" validate:"required,datetime=2006-01-02"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Email       string  `json:"email" validate:"required,email,max=255"`
	Contact     string  `json:"contact" validate:"required,min=7,max=50"`
}

// UpdateCustomerRequest is the request body for updating a customer.
// Omitted fields are left unchanged.
type UpdateCustomerRequest struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,min=1,max=255"`
	DateOfBirth *string `json:"dateOfBirth,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Address     *string `json:"address,omitempty" validate:"omitempty,max=1000"`
	Email       *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Contact     *string `json:"contact,omitempty" validate:"omitempty,min=7,max=50"`
}

// ListCustomersRequest defines the query parameters for listing customers.
type ListCustomersRequest struct {
	Page     int `form:"page" validate:"omitempty,min=1"`
	PageSize int `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// SearchCustomersRequest defines the query parameters for substring search.
type SearchCustomersRequest struct {
	Term string `form:"term" validate:"required,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// CustomerResponse is the response for a single customer.
type CustomerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	DateOfBirth string    `json:"dateOfBirth"`
	Address     *string   `json:"address,omitempty"`
	Email       string    `json:"email"`
	Contact     string    `json:"contact"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CustomerQuotationSummary is one quotation row in the customer detail view.
type CustomerQuotationSummary struct {
	ID            uuid.UUID `json:"id"`
	QuotationDate string    `json:"quotationDate"`
	GrandTotal    string    `json:"grandTotal"`
	TotalItems    int       `json:"totalItems"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CustomerDetailResponse is the response for the customer detail endpoint,
// including a summary of the customer's quotations.
type CustomerDetailResponse struct {
	Customer   CustomerResponse           `json:"customer"`
	Quotations []CustomerQuotationSummary `json:"quotations"`
}

// CustomerListResponse is the paginated list response.
type CustomerListResponse struct {
	Items      []CustomerResponse `json:"items"`
	Total      int                `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// SearchCustomersResponse is the (unpaginated) search result. Each hit
// carries the customer's quotation summaries like the detail view, so the
// caller can show totals without a second round trip.
type SearchCustomersResponse struct {
	Items []CustomerDetailResponse `json:"items"`
}
