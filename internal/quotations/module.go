// Package quotations provides the quotation management domain module.
package quotations

import (
	"github.com/Joenll/AND-I-QUOTE/internal/email"
	apphttp "github.com/Joenll/AND-I-QUOTE/internal/http"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/handler"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/repository"
	"github.com/Joenll/AND-I-QUOTE/internal/quotations/service"
	"github.com/Joenll/AND-I-QUOTE/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module represents the quotations domain module.
type Module struct {
	handler    *handler.Handler
	service    *service.Service
	repository *repository.Repository
}

// NewModule creates a new quotations module with all dependencies wired.
// Customer lookups go through the narrow CustomerReader so the module never
// reaches into another module's tables directly.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, customers service.CustomerReader) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, customers)
	h := handler.New(svc, val)

	return &Module{
		handler:    h,
		service:    svc,
		repository: repo,
	}
}

// Name returns the module name for logging.
func (m *Module) Name() string {
	return "quotations"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// SetMailer wires the email sender once the SMTP configuration is known.
// Leaving it unset disables the send-email endpoint.
func (m *Module) SetMailer(mailer email.Sender) {
	m.service.SetMailer(mailer)
}

// RegisterRoutes registers the module's routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.V1.Group("/quotations"))
}

// Compile-time check that Module implements http.Module.
var _ apphttp.Module = (*Module)(nil)
