package handlers

import (
	"github.com/gin-gonic/gin"

	appsetting "github.com/meetscribe/meetscribe/internal/application/setting"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type EmailSettingHandler struct {
	settings *appsetting.Service
	logger   logger.Interface
}

func NewEmailSettingHandler(settings *appsetting.Service, logger logger.Interface) *EmailSettingHandler {
	return &EmailSettingHandler{
		settings: settings,
		logger:   logger,
	}
}

type CreateEmailSettingRequest struct {
	Key     string `json:"key" binding:"required"`
	Subject string `json:"subject" binding:"required"`
	Body    string `json:"body"`
}

type UpdateEmailSettingRequest struct {
	Subject  string `json:"subject" binding:"required"`
	Body     string `json:"body"`
	IsActive *bool  `json:"is_active"`
}

func (h *EmailSettingHandler) Create(c *gin.Context) {
	var req CreateEmailSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	row, err := h.settings.Create(c.Request.Context(), appsetting.CreateParams{
		Key:     req.Key,
		Subject: req.Subject,
		Body:    req.Body,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toEmailSettingDTO(row))
}

func (h *EmailSettingHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	row, err := h.settings.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toEmailSettingDTO(row))
}

func (h *EmailSettingHandler) List(c *gin.Context) {
	items, err := h.settings.List(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toEmailSettingDTOs(items))
}

func (h *EmailSettingHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateEmailSettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	row, err := h.settings.Update(c.Request.Context(), id, appsetting.UpdateParams{
		Subject:  req.Subject,
		Body:     req.Body,
		IsActive: req.IsActive,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toEmailSettingDTO(row))
}

func (h *EmailSettingHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.settings.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
