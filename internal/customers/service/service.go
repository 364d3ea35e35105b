package service

import (
	"context"
	"time"

	"github.com/Joenll/AND-I-QUOTE/internal/customers/repository"
	"github.com/Joenll/AND-I-QUOTE/internal/customers/transport"
	"github.com/Joenll/AND-I-QUOTE/platform/apperr"
	"github.com/Joenll/AND-I-QUOTE/platform/phone"

	"github.com/google/uuid"
)

const dateLayout = "2006-01-02"

// Store is the persistence interface the customers service depends on.
// Implemented by the customers repository; tests supply an in-memory fake.
type Store interface {
	Create(ctx context.Context, c *repository.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*repository.Customer, error)
	Update(ctx context.Context, upd repository.CustomerUpdate) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, params repository.ListParams) (*repository.ListResult, error)
	Search(ctx context.Context, term string) ([]repository.Customer, error)
	ListQuotationSummaries(ctx context.Context, customerID uuid.UUID) ([]repository.QuotationSummary, error)
}

// Service provides business logic for customer management.
type Service struct {
	store Store
}

// New creates a new customers service.
func New(store Store) *Service {
	return &Service{store: store}
}

// Create registers a new customer.
func (s *Service) Create(ctx context.Context, req transport.CreateCustomerRequest) (*transport.CustomerResponse, error) {
	dob, err := parseDateOfBirth(req.DateOfBirth)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	customer := repository.Customer{
		ID:          uuid.New(),
		Name:        req.Name,
		DateOfBirth: dob,
		Address:     req.Address,
		Email:       req.Email,
		Contact:     phone.NormalizeE164(req.Contact),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.Create(ctx, &customer); err != nil {
		return nil, err
	}

	resp := buildResponse(&customer)
	return &resp, nil
}

// Update modifies the provided fields of an existing customer.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req transport.UpdateCustomerRequest) (*transport.CustomerResponse, error) {
	upd := repository.CustomerUpdate{
		ID:      id,
		Name:    req.Name,
		Address: req.Address,
		Email:   req.Email,
	}

	if req.DateOfBirth != nil {
		dob, err := parseDateOfBirth(*req.DateOfBirth)
		if err != nil {
			return nil, err
		}
		upd.DateOfBirth = &dob
	}
	if req.Contact != nil {
		normalized := phone.NormalizeE164(*req.Contact)
		upd.Contact = &normalized
	}

	if err := s.store.Update(ctx, upd); err != nil {
		return nil, err
	}

	customer, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resp := buildResponse(customer)
	return &resp, nil
}

// GetByID retrieves a customer with a summary of their quotations.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*transport.CustomerDetailResponse, error) {
	customer, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries, err := s.store.ListQuotationSummaries(ctx, id)
	if err != nil {
		return nil, err
	}

	return &transport.CustomerDetailResponse{
		Customer:   buildResponse(customer),
		Quotations: buildSummaries(summaries),
	}, nil
}

// List retrieves customers with pagination.
func (s *Service) List(ctx context.Context, req transport.ListCustomersRequest) (*transport.CustomerListResponse, error) {
	result, err := s.store.List(ctx, repository.ListParams{
		Page:     max(req.Page, 1),
		PageSize: clampPageSize(req.PageSize),
	})
	if err != nil {
		return nil, err
	}

	items := make([]transport.CustomerResponse, len(result.Items))
	for i := range result.Items {
		items[i] = buildResponse(&result.Items[i])
	}

	return &transport.CustomerListResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	}, nil
}

// Search finds customers by name, email, or contact substring. Each hit is
// returned with its quotation summaries attached.
func (s *Service) Search(ctx context.Context, term string) (*transport.SearchCustomersResponse, error) {
	found, err := s.store.Search(ctx, term)
	if err != nil {
		return nil, err
	}

	items := make([]transport.CustomerDetailResponse, len(found))
	for i := range found {
		summaries, err := s.store.ListQuotationSummaries(ctx, found[i].ID)
		if err != nil {
			return nil, err
		}
		items[i] = transport.CustomerDetailResponse{
			Customer:   buildResponse(&found[i]),
			Quotations: buildSummaries(summaries),
		}
	}

	return &transport.SearchCustomersResponse{Items: items}, nil
}

// Delete removes a customer and, by cascade, their quotations and items.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}

func parseDateOfBirth(value string) (time.Time, error) {
	dob, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, apperr.Validation("invalid date of birth")
	}
	if !dob.Before(truncateToDay(time.Now())) {
		return time.Time{}, apperr.Validation("date of birth must be in the past")
	}
	return dob, nil
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func buildSummaries(summaries []repository.QuotationSummary) []transport.CustomerQuotationSummary {
	quotations := make([]transport.CustomerQuotationSummary, len(summaries))
	for i, sum := range summaries {
		quotations[i] = transport.CustomerQuotationSummary{
			ID:            sum.ID,
			QuotationDate: sum.QuotationDate.Format(dateLayout),
			GrandTotal:    sum.GrandTotal.StringFixed(2),
			TotalItems:    sum.TotalItems,
			CreatedAt:     sum.CreatedAt,
		}
	}
	return quotations
}

func buildResponse(c *repository.Customer) transport.CustomerResponse {
	return transport.CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		DateOfBirth: c.DateOfBirth.Format(dateLayout),
		Address:     c.Address,
		Email:       c.Email,
		Contact:     c.Contact,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func clampPageSize(size int) int {
	if size < 1 || size > 100 {
		return 25
	}
	return size
}
