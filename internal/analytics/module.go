// Package analytics provides the lead aggregation bounded context.
package analytics

import (
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/handler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/service"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the analytics bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
}

// NewModule wires the analytics module.
func NewModule(pool *pgxpool.Pool) *Module {
	return &Module{
		handler: handler.New(service.New(repository.New(pool))),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "analytics" }

// RegisterRoutes mounts the dashboard snapshot under /admin/analytics.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/analytics"))
}
