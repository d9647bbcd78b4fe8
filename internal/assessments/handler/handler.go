// Package handler exposes the assessments HTTP API.
package handler

import (
	"net/http"
	"strconv"

	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/domain"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/service"
	"github.com/tonya-newer/Prompt-2-Pathway-sub000/internal/assessments/transport"
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

// RegisterAdminRoutes mounts the owner-facing CRUD and voice asset routes.
func (h *Handler) RegisterAdminRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/:id", h.GetByID)
	rg.PUT("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
	rg.GET("/:id/qr", h.ShareQR)
	rg.GET("/:id/voice-assets", h.ListVoiceAssets)
	rg.POST("/:id/voice-assets", h.UploadVoiceAsset)
	rg.DELETE("/:id/voice-assets/:assetId", h.DeleteVoiceAsset)
}

// RegisterPublicRoutes mounts the respondent-facing intro route.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.GET("/:id", h.GetPublic)
}

func (h *Handler) Create(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req transport.CreateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	assessment := transport.ToDomain(req.Title, req.Description, req.Audience, req.Tags, req.Questions)
	assessment.OwnerID = userID

	created, err := h.svc.Create(c.Request.Context(), assessment)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.FromDomain(created, h.svc.ShareURL(created.ID)))
}

func (h *Handler) List(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	items, err := h.svc.ListByOwner(c.Request.Context(), userID)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.AssessmentResponse, 0, len(items))
	for _, a := range items {
		resp = append(resp, transport.FromDomain(a, h.svc.ShareURL(a.ID)))
	}
	httpkit.OK(c, resp)
}

func (h *Handler) GetByID(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	assessment, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomain(assessment, h.svc.ShareURL(assessment.ID)))
}

func (h *Handler) GetPublic(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	assessment, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomainPublic(assessment))
}

func (h *Handler) Update(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	var req transport.UpdateAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	assessment := transport.ToDomain(req.Title, req.Description, req.Audience, req.Tags, req.Questions)
	assessment.ID = id

	updated, err := h.svc.Update(c.Request.Context(), userID, assessment)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.FromDomain(updated, h.svc.ShareURL(updated.ID)))
}

func (h *Handler) Delete(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, id); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}

func (h *Handler) ShareQR(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	png, err := h.svc.ShareQR(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (h *Handler) UploadVoiceAsset(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	kind := domain.NarrationKind(c.PostForm("kind"))
	questionID := 0
	if raw := c.PostForm("questionId"); raw != "" {
		questionID, err = strconv.Atoi(raw)
		if err != nil {
			httpkit.Error(c, http.StatusBadRequest, "invalid questionId", nil)
			return
		}
	}

	file, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "audio file is required", nil)
		return
	}
	src, err := file.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	defer src.Close()

	asset, err := h.svc.UploadVoiceAsset(c.Request.Context(), userID, id, kind, questionID,
		file.Filename, file.Header.Get("Content-Type"), src, file.Size)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, transport.VoiceAssetResponse{
		ID:          asset.ID,
		Kind:        string(asset.Kind),
		QuestionID:  asset.QuestionID,
		ContentType: asset.ContentType,
		SizeBytes:   asset.SizeBytes,
		CreatedAt:   asset.CreatedAt,
	})
}

func (h *Handler) ListVoiceAssets(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	assets, err := h.svc.ListVoiceAssets(c.Request.Context(), userID, id)
	if httpkit.HandleError(c, err) {
		return
	}

	resp := make([]transport.VoiceAssetResponse, 0, len(assets))
	for _, asset := range assets {
		resp = append(resp, transport.VoiceAssetResponse{
			ID:          asset.ID,
			Kind:        string(asset.Kind),
			QuestionID:  asset.QuestionID,
			ContentType: asset.ContentType,
			SizeBytes:   asset.SizeBytes,
			CreatedAt:   asset.CreatedAt,
		})
	}
	httpkit.OK(c, resp)
}

func (h *Handler) DeleteVoiceAsset(c *gin.Context) {
	userID, ok := httpkit.UserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	assetID, err := uuid.Parse(c.Param("assetId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	if err := h.svc.DeleteVoiceAsset(c.Request.Context(), userID, id, assetID); httpkit.HandleError(c, err) {
		return
	}
	httpkit.NoContent(c)
}
