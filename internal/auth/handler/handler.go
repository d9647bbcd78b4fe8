// Package handler exposes the auth HTTP API.
package handler

import (
	"net/http"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/auth/transport"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/httpkit"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterPublicRoutes mounts login under the stricter auth rate limiter.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/login", h.Login)
}

// RegisterProtectedRoutes mounts the authenticated account routes.
func (h *Handler) RegisterProtectedRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.Me)
}

func (h *Handler) Login(c *gin.Context) {
	var req transport.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	session, err := h.svc.Login(c.Request.Context(), req.Email, req.Password)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.TokenResponse{
		AccessToken: session.AccessToken,
		ExpiresAt:   session.ExpiresAt,
		User: transport.UserInfo{
			ID:    session.User.ID,
			Email: session.User.Email,
			Name:  session.User.Name,
			Roles: session.User.Roles,
		},
	})
}

func (h *Handler) Me(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	user, err := h.svc.Me(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.UserInfo{
		ID:    user.ID,
		Email: user.Email,
		Name:  user.Name,
		Roles: user.Roles,
	})
}
