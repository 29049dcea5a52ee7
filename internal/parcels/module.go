// Package parcels provides the parcel-lookup bounded context module.
// It wraps the LINZ primary-parcel registry for best-effort enrichment.
package parcels

import (
	apphttp "donezo_backend/internal/http"
	"donezo_backend/internal/parcels/client"
	"donezo_backend/internal/parcels/handler"
	"donezo_backend/internal/parcels/service"
	"donezo_backend/platform/config"
	"donezo_backend/platform/logger"
)

// Module is the parcels bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the parcels module. Returns nil when no
// LINZ API key is configured; callers treat a nil module as enrichment
// disabled.
func NewModule(cfg config.LinzConfig, log *logger.Logger) *Module {
	if !cfg.IsLinzEnabled() {
		log.Warn("LINZ_API_KEY not configured; parcel enrichment disabled")
		return nil
	}

	linzClient := client.New(cfg.GetLinzAPIKey(), log)
	svc := service.New(linzClient, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "parcels"
}

// Service returns the lookup service for other modules (jobs pipeline,
// backfill worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts parcel routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.GET("/parcels", m.handler.Lookup)
}
