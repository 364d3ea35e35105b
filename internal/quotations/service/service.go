package service

import (
	"context"
	"time"

	"github.com/Joenll/AND-I-QUOTE/internal/email"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/repository"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/transport"
	"github.com/Joenll/AND-I-QUOTE/platform/apperr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

// Store is the persistence interface the quotations service depends on.
// Implemented by the quotations repository; tests supply an in-memory fake.
// CreateWithItems and UpdateWithItems are all-or-nothing: a failure must leave
// no trace of the attempted write.
type Store interface {
	CreateWithItems(ctx context.Context, quotation *repository.Quotation, items []repository.QuotationItem) error
	UpdateWithItems(ctx context.Context, quotation *repository.Quotation, items []repository.QuotationItem, replaceItems bool) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Quotation, error)
	GetItemsByQuotationID(ctx context.Context, quotationID uuid.UUID) ([]repository.QuotationItem, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
}

// Customer is the quotations service's view of a customer record.
type Customer struct {
	ID      uuid.UUID
	Name    string
	Email   string
	Contact string
	Address *string
}

// CustomerReader is the narrow interface the quotations service needs to
// resolve the customer a quotation belongs to. Implemented by an adapter in
// internal/adapters that wraps the customers repository.
type CustomerReader interface {
	GetCustomer(ctx context.Context, id uuid.UUID) (*Customer, error)
}

// Service provides business logic for quotations.
type Service struct {
	store     Store
	customers CustomerReader
	mailer    email.Sender // optional; nil means email delivery is disabled
}

// New creates a new quotations service.
func New(store Store, customers CustomerReader) *Service {
	return &Service{store: store, customers: customers}
}

// SetMailer injects the email sender (set after construction; nil disables
// the send-email endpoint).
func (s *Service) SetMailer(mailer email.Sender) {
	s.mailer = mailer
}

// Create persists a new quotation with its line items, computing every total
// server-side. Validation happens before any write; the storage write is a
// single transaction, so a failure leaves no quotation and no items behind.
func (s *Service) Create(ctx context.Context, req transport.CreateQuotationRequest) (*transport.QuotationResponse, error) {
	quotationDate, err := parseQuotationDate(req.QuotationDate)
	if err != nil {
		return nil, err
	}

	lineTotals, grandTotal, err := computeTotals(req.Items)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	quotation := repository.Quotation{
		ID:            uuid.New(),
		CustomerID:    customer.ID,
		QuotationDate: quotationDate,
		GrandTotal:    grandTotal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	items := buildItems(quotation.ID, req.Items, lineTotals, now)

	if err := s.store.CreateWithItems(ctx, &quotation, items); err != nil {
		return nil, asPersistenceFailure("could not create quotation", err)
	}

	return buildResponse(&quotation, items, customer), nil
}

// Update modifies a quotation's date and/or wholesale-replaces its item set.
// When items are provided, the existing set is deleted and the new set
// inserted with a recomputed grand total, all in one transaction. When items
// are omitted, the item set and grand total are untouched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateQuotationRequest) (*transport.QuotationResponse, error) {
	quotation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.QuotationDate != nil {
		quotationDate, err := parseQuotationDate(*req.QuotationDate)
		if err != nil {
			return nil, err
		}
		quotation.QuotationDate = quotationDate
	}

	var items []repository.QuotationItem
	replaceItems := req.Items != nil
	if replaceItems {
		lineTotals, grandTotal, err := computeTotals(*req.Items)
		if err != nil {
			return nil, err
		}
		quotation.GrandTotal = grandTotal
		items = buildItems(quotation.ID, *req.Items, lineTotals, time.Now())
	} else {
		existing, err := s.store.GetItemsByQuotationID(ctx, id)
		if err != nil {
			return nil, err
		}
		items = existing
	}

	quotation.UpdatedAt = time.Now()

	if err := s.store.UpdateWithItems(ctx, quotation, items, replaceItems); err != nil {
		return nil, asPersistenceFailure("could not update quotation", err)
	}

	customer, err := s.customers.GetCustomer(ctx, quotation.CustomerID)
	if err != nil {
		return nil, err
	}

	return buildResponse(quotation, items, customer), nil
}

// GetByID retrieves a quotation with its customer and line items.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.QuotationResponse, error) {
	quotation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetItemsByQuotationID(ctx, id)
	if err != nil {
		return nil, err
	}

	customer, err := s.customers.GetCustomer(ctx, quotation.CustomerID)
	if err != nil {
		return nil, err
	}

	return buildResponse(quotation, items, customer), nil
}

// List retrieves quotations with customer and items attached.
func (s *Service) List(ctx context.Context, req transport.ListQuotationsRequest) (*transport.QuotationListResponse, error) {
	params := repository.ListParams{
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	}

	if req.CustomerID != "" {
		parsed, err := uuid.Parse(req.CustomerID)
		if err != nil {
			return nil, apperr.BadRequest("invalid customerId format")
		}
		params.CustomerID = &parsed
	}

	result, err := s.store.List(ctx, params)
	if err != nil {
		return nil, err
	}

	customerCache := make(map[uuid.UUID]*Customer)
	items := make([]transport.QuotationResponse, len(result.Items))
	for i, q := range result.Items {
		qItems, err := s.store.GetItemsByQuotationID(ctx, q.ID)
		if err != nil {
			return nil, err
		}

		customer, ok := customerCache[q.CustomerID]
		if !ok {
			customer, err = s.customers.GetCustomer(ctx, q.CustomerID)
			if err != nil {
				return nil, err
			}
			customerCache[q.CustomerID] = customer
		}

		items[i] = *buildResponse(&q, qItems, customer)
	}

	return &transport.QuotationListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Delete removes a quotation and, by cascade, its line items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

// SendEmail delivers the quotation to its customer's email address. The
// quotation data is already committed; a delivery failure is reported as its
// own error and never affects persisted state.
func (s *Service) SendEmail(ctx context.Context, id uuid.UUID) error {
	quotation, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	items, err := s.store.GetItemsByQuotationID(ctx, id)
	if err != nil {
		return err
	}

	customer, err := s.customers.GetCustomer(ctx, quotation.CustomerID)
	if err != nil {
		return err
	}
	if customer.Email == "" {
		return apperr.Validation("customer email not found")
	}

	if s.mailer == nil {
		return apperr.Unavailable("email delivery is not configured")
	}

	lines := make([]email.QuotationLine, len(items))
	for i, it := range items {
		description := ""
		if it.ItemDescription != nil {
			description = *it.ItemDescription
		}
		lines[i] = email.QuotationLine{
			ProductName:     it.ProductName,
			ItemDescription: description,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice.StringFixed(2),
			TotalPrice:      it.TotalPrice.StringFixed(2),
		}
	}

	data := email.QuotationEmailData{
		QuotationNumber: quotation.ID.String(),
		CustomerName:    customer.Name,
		QuotationDate:   quotation.QuotationDate.Format(dateLayout),
		Lines:           lines,
		GrandTotal:      quotation.GrandTotal.StringFixed(2),
	}

	if err := s.mailer.SendQuotationEmail(ctx, customer.Email, data); err != nil {
		return apperr.Wrap(apperr.KindUnavailable, "failed to send quotation email", err)
	}

	return nil
}

// computeTotals runs every line through the calculator and returns the
// per-line totals plus the grand total. No writes happen before this passes.
func computeTotals(reqItems []transport.QuotationItemRequest) ([]decimal.Decimal, decimal.Decimal, error) {
	lineTotals := make([]decimal.Decimal, len(reqItems))
	lineInputs := make([]LineInput, len(reqItems))
	for i, it := range reqItems {
		if it.UnitPrice == nil {
			return nil, decimal.Zero, apperr.Validation("unit price is required")
		}
		lineTotal, err := LineTotal(it.Quantity, *it.UnitPrice)
		if err != nil {
			return nil, decimal.Zero, err
		}
		lineTotals[i] = lineTotal
		lineInputs[i] = LineInput{Quantity: it.Quantity, UnitPrice: *it.UnitPrice}
	}

	grandTotal, err := GrandTotal(lineInputs)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return lineTotals, grandTotal, nil
}

func buildItems(quotationID uuid.UUID, reqItems []transport.QuotationItemRequest, lineTotals []decimal.Decimal, now time.Time) []repository.QuotationItem {
	items := make([]repository.QuotationItem, len(reqItems))
	for i, it := range reqItems {
		items[i] = repository.QuotationItem{
			ID:              uuid.New(),
			QuotationID:     quotationID,
			ProductName:     it.ProductName,
			ItemDescription: it.ItemDescription,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice.Round(2),
			TotalPrice:      lineTotals[i],
			SortOrder:       i,
			CreatedAt:       now,
		}
	}
	return items
}

func buildResponse(q *repository.Quotation, items []repository.QuotationItem, customer *Customer) *transport.QuotationResponse {
	respItems := make([]transport.QuotationItemResponse, len(items))
	totalItems := 0
	for i, it := range items {
		respItems[i] = transport.QuotationItemResponse{
			ID:              it.ID,
			ProductName:     it.ProductName,
			ItemDescription: it.ItemDescription,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice.StringFixed(2),
			TotalPrice:      it.TotalPrice.StringFixed(2),
			SortOrder:       it.SortOrder,
		}
		totalItems += it.Quantity
	}

	return &transport.QuotationResponse{
		ID: q.ID,
		Customer: transport.QuotationCustomerResponse{
			ID:      customer.ID,
			Name:    customer.Name,
			Email:   customer.Email,
			Contact: customer.Contact,
			Address: customer.Address,
		},
		QuotationDate: q.QuotationDate.Format(dateLayout),
		GrandTotal:    q.GrandTotal.StringFixed(2),
		TotalItems:    totalItems,
		Items:         respItems,
		CreatedAt:     q.CreatedAt,
		UpdatedAt:     q.UpdatedAt,
	}
}

// asPersistenceFailure wraps storage errors as internal failures while
// letting typed domain errors (e.g. not found) pass through unchanged.
func asPersistenceFailure(message string, err error) error {
	if _, ok := err.(*apperr.Error); ok {
		return err
	}
	return apperr.Wrap(apperr.KindInternal, message, err)
}

func parseQuotationDate(value string) (time.Time, error) {
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid quotation date")
	}
	if date.After(endOfToday()) {
		return time.Time{}, apperr.Validation("quotation date cannot be in the future")
	}
	return date, nil
}

// endOfToday is computed from the UTC clock because parsed dates are UTC
// midnights; mixing in local-clock components would shift the comparison by
// the server's UTC offset.
func endOfToday() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, time.UTC)
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 25
	}
	return size
}
