package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ── Requests ──────────────────────────────────────────────────────────────────

// QuotationItemRequest is the input for a single line item.
// UnitPrice accepts a JSON number or a numeric string. It is a pointer so an
// omitted price fails validation instead of defaulting to zero; an explicit
// zero is still allowed. Range checks are enforced by the calculator before
// anything is written.
type QuotationItemRequest struct {
	ProductName     string           `json:"productName" validate:"required,min=1,max=255"`
	ItemDescription *string          `json:"itemDescription,omitempty" validate:"omitempty,max=1000"`
	Quantity        int              `json:"quantity" validate:"required,min=1"`
	UnitPrice       *decimal.Decimal `json:"unitPrice" validate:"required"`
}

// CreateQuotationRequest is the request body for creating a quotation.
type CreateQuotationRequest struct {
	CustomerID    uuid.UUID              `json:"customerId" validate:"required"`
	QuotationDate string                 `json:"quotationDate" validate:"required,datetime=2006-01-02"`
	Items         []QuotationItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateQuotationRequest is the request body for updating a quotation.
// A provided items list replaces the entire existing set; an omitted list
// leaves the items and the grand total untouched.
type UpdateQuotationRequest struct {
	QuotationDate *string                 `json:"quotationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Items         *[]QuotationItemRequest `json:"items,omitempty" validate:"omitempty,min=1,dive"`
}

// ListQuotationsRequest defines the query parameters for listing quotations.
type ListQuotationsRequest struct {
	CustomerID string `form:"customerId"`
	Page       int    `form:"page" validate:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" validate:"omitempty,min=1,max=100"`
}

// ── Responses ─────────────────────────────────────────────────────────────────

// QuotationItemResponse is the response for a single line item.
// Money fields are decimal strings with exactly 2 fractional digits.
type QuotationItemResponse struct {
	ID              uuid.UUID `json:"id"`
	ProductName     string    `json:"productName"`
	ItemDescription *string   `json:"itemDescription,omitempty"`
	Quantity        int       `json:"quantity"`
	UnitPrice       string    `json:"unitPrice"`
	TotalPrice      string    `json:"totalPrice"`
	SortOrder       int       `json:"sortOrder"`
}

// QuotationCustomerResponse is the customer attached to a quotation.
type QuotationCustomerResponse struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Contact string    `json:"contact"`
	Address *string   `json:"address,omitempty"`
}

// QuotationResponse is the response for a quotation with customer and items.
type QuotationResponse struct {
	ID            uuid.UUID                 `json:"id"`
	Customer      QuotationCustomerResponse `json:"customer"`
	QuotationDate string                    `json:"quotationDate"`
	GrandTotal    string                    `json:"grandTotal"`
	TotalItems    int                       `json:"totalItems"`
	Items         []QuotationItemResponse   `json:"items"`
	CreatedAt     time.Time                 `json:"createdAt"`
	UpdatedAt     time.Time                 `json:"updatedAt"`
}

// QuotationListResponse is the paginated list response.
type QuotationListResponse struct {
	Items      []QuotationResponse `json:"items"`
	Total      int                 `json:"total"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"pageSize"`
	TotalPages int                 `json:"totalPages"`
}

// SendEmailResponse confirms the quotation email was handed to the mail server.
type SendEmailResponse struct {
	Message string `json:"message"`
}
