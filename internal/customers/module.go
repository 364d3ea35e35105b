// Package customers provides the customer management domain module.
package customers

import (
	apphttp "github.com/Joenll/AND-I-QUOTE/internal/http"
	"github.com/Joenll/AND-I-QUOTE/internal/customers/handler"
	"github.com/Joenll/AND-I-QUOTE/internal/customers/repository"
	"github.com/Joenll/AND-I-QUOTE/internal/customers/service"
	"github.com/Joenll/AND-I-QUOTE/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the customers domain module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates a new customers module with all dependencies wired.
func NewModule(pool *pgxpool.Pool, val *validator.Validator) *Module {
	repo := repository.New(pool)
	svc := service.New(repo)
	h := handler.New(svc, val)

	return &Module{
		handler:    h,
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "customers"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for cross-module adapters.
func (m *Module) Repository() *repository.Repository {
	return m.repository
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/customers"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
