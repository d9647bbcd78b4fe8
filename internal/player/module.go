// Package player provides the respondent-facing assessment player bounded
// context: session lifecycle, answer flow, narration directives, and the
// completion handoff.
package player

import (
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/events"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/handler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/session"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/voice"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"
)

// Module is the player bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule wires the player module. The assessment source, lead sink, and
// clip resolver come from their owning modules via the composition root.
func NewModule(source service.AssessmentSource, store session.Store, leads service.LeadSink, resolver voice.ClipResolver, eventBus events.Bus, fallbackEnabled bool, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(source, store, leads, resolver, eventBus, fallbackEnabled, log)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "player" }

// RegisterRoutes mounts the public session routes.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Public.Group("/sessions"))
}
