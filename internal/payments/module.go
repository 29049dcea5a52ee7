// Package payments provides the payment bounded context: Stripe checkout
// session creation and webhook reconciliation.
package payments

import (
	apphttp "donezo_backend/internal/http"
	"donezo_backend/internal/payments/handler"
	"donezo_backend/internal/payments/service"
	"donezo_backend/platform/config"
	"donezo_backend/platform/logger"
	"donezo_backend/platform/validator"
)

// Module is the payments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the payments context against the jobs persistence layer.
func NewModule(cfg config.StripeConfig, store service.JobStore, log *logger.Logger) *Module {
	svc := service.New(cfg, store, log)
	h := handler.New(svc, validator.New())

	return &Module{handler: h}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "payments"
}

// RegisterRoutes mounts the payments routes. The webhook lives on the
// dedicated group so no body-consuming middleware runs before it.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/payments/checkout", m.handler.CreateCheckout)
	ctx.Webhook.POST("/webhook", m.handler.Webhook)
}
