// Package leads provides the lead capture and management bounded context.
package leads

import (
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/handler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/leads/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the leads module.
func NewModule(pool *pgxpool.Pool, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, eventBus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "leads" }

// RegisterRoutes mounts lead management under /admin/leads. Lead capture has
// no public route; leads enter through the player completion handoff.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Admin.Group("/leads"))
}

// Service exposes lead capture for the player module.
func (m *Module) Service() *service.Service { return m.service }
