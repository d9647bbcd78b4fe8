// Package auth provides admin authentication.
package auth

import (
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/handler"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/repository"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/service"
	apphttp "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/http"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/config"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/httpkit"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/logger"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the auth bounded context implementing http.Module.
type Module struct {
	handler *handler.Handler
	limiter *httpkit.AuthRateLimiter
}

// NewModule wires the auth module.
func NewModule(pool *pgxpool.Pool, cfg *config.Config, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		limiter: httpkit.NewAuthRateLimiter(log),
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "auth" }

// RegisterRoutes mounts login (rate limited) and the account route.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	public := ctx.Public.Group("/auth")
	public.Use(m.limiter.RateLimit())
	m.handler.RegisterPublicRoutes(public)

	protected := ctx.Public.Group("/auth")
	protected.Use(ctx.AuthMiddleware)
	m.handler.RegisterProtectedRoutes(protected)
}
