// Package handler exposes the analytics HTTP API.
package handler

import (
	"net/http"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/analytics/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *service.Service
}

func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.Snapshot)
}

func (h *Handler) Snapshot(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	snapshot, err := h.svc.Snapshot(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, snapshot)
}
