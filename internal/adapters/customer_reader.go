// Package adapters bridges domain modules through the narrow interfaces they
// expose, keeping cross-module dependencies one-directional.
package adapters

import (
	"context"

	customerrepo "github.com/Joenll/AND-I-QUOTE/internal/customers/repository"
	quotationsvc "github.com/Joenll/AND-I-QUOTE/internal/quotations/service"

	"github.com/google/uuid"
)

// CustomerReader adapts the customers repository to the quotations module's
// CustomerReader interface.
type CustomerReader struct {
	repo *customerrepo.Repository
}

// NewCustomerReader creates the adapter.
func NewCustomerReader(repo *customerrepo.Repository) *CustomerReader {
	return &CustomerReader{repo: repo}
}

// GetCustomer resolves a customer by ID. Not-found errors pass through from
// the repository unchanged so the caller can map them to a 404.
func (a *CustomerReader) GetCustomer(ctx context.Context, id uuid.UUID) (*quotationsvc.Customer, error) {
	customer, err := a.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return &quotationsvc.Customer{
		ID:      customer.ID,
		Name:    customer.Name,
		Email:   customer.Email,
		Contact: customer.Contact,
		Address: customer.Address,
	}, nil
}

// Compile-time check.
var _ quotationsvc.CustomerReader = (*CustomerReader)(nil)
