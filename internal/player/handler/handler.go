// Package handler exposes the public respondent player API.
package handler

import (
	"net/http"

	assessments "github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/player/transport"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/httpkit"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("", h.Start)
	rg.POST("/:id/contact", h.SubmitContact)
	rg.GET("/:id/question", h.CurrentQuestion)
	rg.POST("/:id/answers", h.RecordAnswer)
	rg.POST("/:id/advance", h.Advance)
	rg.POST("/:id/retreat", h.Retreat)
	rg.GET("/:id/results", h.Results)
	rg.POST("/:id/narration", h.ReplayNarration)
	rg.POST("/:id/narration/pause", h.PauseNarration)
	rg.POST("/:id/narration/resume", h.ResumeNarration)
	rg.POST("/:id/narration/autoplay-denied", h.AutoplayDenied)
	rg.DELETE("/:id", h.Abandon)
}

func (h *Handler) Start(c *gin.Context) {
	var req transport.StartSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.Start(c.Request.Context(), req.AssessmentID, req.Source)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, view)
}

func (h *Handler) SubmitContact(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.ContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	view, err := h.svc.SubmitContact(c.Request.Context(), sessionID, domain.Contact{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		AgeRange: req.AgeRange,
		Gender:   req.Gender,
	})
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) CurrentQuestion(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	view, err := h.svc.CurrentQuestion(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) RecordAnswer(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	progress, err := h.svc.RecordAnswer(c.Request.Context(), sessionID, req.QuestionID, req.Value)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.ProgressResponse{Progress: progress})
}

func (h *Handler) Advance(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	view, err := h.svc.Advance(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) Retreat(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	view, err := h.svc.Retreat(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, view)
}

func (h *Handler) Results(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	results, err := h.svc.Results(c.Request.Context(), sessionID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, results)
}

func (h *Handler) ReplayNarration(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}

	var req transport.NarrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	narration, err := h.svc.ReplayNarration(c.Request.Context(), sessionID, assessments.NarrationKind(req.Kind))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, narration)
}

func (h *Handler) PauseNarration(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.svc.PauseNarration(sessionID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ResumeNarration(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.svc.ResumeNarration(c.Request.Context(), sessionID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) AutoplayDenied(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	h.svc.AutoplayDenied(sessionID)
	httpkit.NoContent(c)
}

func (h *Handler) Abandon(c *gin.Context) {
	sessionID, ok := h.sessionID(c)
	if !ok {
		return
	}
	if err := h.svc.Abandon(c.Request.Context(), sessionID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) sessionID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return uuid.Nil, false
	}
	return id, true
}
