package quotes

import (
	apphttp "donezo_backend/internal/http"
	"donezo_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module wires the custom quote request routes.
type Module struct {
	handler *Handler
}

func NewModule(pool *pgxpool.Pool) *Module {
	repo := NewRepository(pool)
	h := NewHandler(repo, validator.New())
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "quotes"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/quotes", m.handler.Create)
	ctx.Admin.GET("/quotes", m.handler.List)
}

var _ apphttp.Module = (*Module)(nil)
