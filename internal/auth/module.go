// Package auth provides the authentication bounded context: credential
// verification and token issuance for professionals and admins.
package auth

import (
	"donezo_backend/internal/auth/handler"
	"donezo_backend/internal/auth/repository"
	"donezo_backend/internal/auth/service"
	apphttp "donezo_backend/internal/http"
	"donezo_backend/platform/config"
	"donezo_backend/platform/httpkit"
	"donezo_backend/platform/logger"
	"donezo_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	svc     *service.Service
}

// NewModule wires the auth context.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)
	h := handler.New(svc, validator.New())

	return &Module{handler: h, svc: svc}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "auth"
}

// RegisterRoutes mounts the auth routes. Login goes through the stricter
// rate limiter to slow credential stuffing.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/auth")
	group.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.SignIn)
	group.POST("/refresh", m.handler.Refresh)
	group.POST("/logout", m.handler.SignOut)
	group.GET("/me", httpkit.AuthRequired(ctx.Config), m.handler.Me)
}

// Service exposes the auth service for composition roots.
func (m *Module) Service() *service.Service {
	return m.svc
}
