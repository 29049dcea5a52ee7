// Package jobs provides the job-lifecycle bounded context: public booking
// intake, the professional job board, and the admin override surface.
package jobs

import (
	apphttp "donezo_backend/internal/http"
	"donezo_backend/internal/jobs/handler"
	"donezo_backend/internal/jobs/repository"
	"donezo_backend/internal/jobs/service"
	"donezo_backend/platform/logger"
	"donezo_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the jobs bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the jobs context. parcels and backfill may be nil, which
// disables enrichment and queued retries respectively.
func NewModule(pool *pgxpool.Pool, parcels service.ParcelLookup, backfill service.BackfillScheduler, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, parcels, backfill, log)
	h := handler.New(svc, validator.New())

	return &Module{handler: h, service: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "jobs"
}

// Service exposes the job service to sibling modules (payments reconciler,
// backfill worker).
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts the jobs routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/bookings", m.handler.CreateBooking)

	ctx.Pro.GET("/jobs/available", m.handler.AvailableJobs)
	ctx.Pro.GET("/jobs", m.handler.MyJobs)
	ctx.Pro.POST("/jobs/:id/claim", m.handler.ClaimJob)
	ctx.Pro.POST("/jobs/:id/status", m.handler.UpdateStatus)

	ctx.Admin.GET("/jobs", m.handler.AdminListJobs)
	ctx.Admin.GET("/jobs/:id", m.handler.AdminGetJob)
	ctx.Admin.PATCH("/jobs/:id/status", m.handler.AdminSetStatus)
}
