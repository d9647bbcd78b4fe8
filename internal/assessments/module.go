// Package assessments provides the assessment management bounded context
// module: admin CRUD, narration clip management, and the public intro view.
package assessments

import (
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/adapters/storage"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/handler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/service"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the assessments bounded context implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	resolver *service.VoiceResolver
	clips    *storage.MinIOService
}

// NewModule wires the assessments module. MinIO is optional: without it,
// voice asset uploads are rejected and narration falls back to synthesized
// speech.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, cfg *config.Config, log *logger.Logger) (*Module, error) {
	repo := repository.New(pool)

	var clips *storage.MinIOService
	if cfg.IsMinIOEnabled() {
		var err error
		clips, err = storage.New(cfg, cfg.GetVoiceURLTTL())
		if err != nil {
			return nil, err
		}
	} else {
		log.Info("voice asset storage disabled: MinIO is not configured")
	}

	svc := newService(repo, clips, cfg, log)
	resolver := newResolver(repo, clips, log)

	return &Module{
		handler:  handler.New(svc, val),
		service:  svc,
		resolver: resolver,
		clips:    clips,
	}, nil
}

// nil *MinIOService must become a nil interface, not a typed nil.
func newService(repo *repository.Repository, clips *storage.MinIOService, cfg *config.Config, log *logger.Logger) *service.Service {
	if clips == nil {
		return service.New(repo, nil, cfg.GetPublicBaseURL(), log)
	}
	return service.New(repo, clips, cfg.GetPublicBaseURL(), log)
}

func newResolver(repo *repository.Repository, clips *storage.MinIOService, log *logger.Logger) *service.VoiceResolver {
	if clips == nil {
		return service.NewVoiceResolver(repo, nil, log)
	}
	return service.NewVoiceResolver(repo, clips, log)
}

// Name returns the module identifier.
func (m *Module) Name() string { return "assessments" }

// RegisterRoutes mounts admin CRUD under /admin/assessments and the public
// intro view under /assessments.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterAdminRoutes(ctx.Admin.Group("/assessments"))
	m.handler.RegisterPublicRoutes(ctx.Public.Group("/assessments"))
}

// Service exposes the assessment service for cross-module wiring in the
// composition root.
func (m *Module) Service() *service.Service { return m.service }

// Resolver exposes the narration clip resolver for the player module.
func (m *Module) Resolver() *service.VoiceResolver { return m.resolver }

// Clips exposes the storage client so main can ensure the bucket exists.
// Nil when MinIO is not configured.
func (m *Module) Clips() *storage.MinIOService { return m.clips }
