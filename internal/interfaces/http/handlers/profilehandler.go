package handlers

import (
	"github.com/gin-gonic/gin"

	appprofile "github.com/meetscribe/meetscribe/internal/application/profile"
	"github.com/meetscribe/meetscribe/internal/domain/profile"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type ProfileHandler struct {
	profiles *appprofile.Service
	logger   logger.Interface
}

func NewProfileHandler(profiles *appprofile.Service, logger logger.Interface) *ProfileHandler {
	return &ProfileHandler{
		profiles: profiles,
		logger:   logger,
	}
}

type CreateProfileRequest struct {
	Email     string `json:"email" binding:"required,email"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

type UpdateProfileRequest struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url" binding:"omitempty,url"`
}

type listQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	Search  string `form:"search"`
	Email   string `form:"email"`
	Status  string `form:"status"`
	UserID  string `form:"user_id"`
}

func (h *ProfileHandler) Create(c *gin.Context) {
	var req CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	p, err := h.profiles.Create(c.Request.Context(), appprofile.CreateParams{
		Email:     req.Email,
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toProfileDTO(p))
}

func (h *ProfileHandler) Get(c *gin.Context) {
	p, err := h.profiles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toProfileDTO(p))
}

func (h *ProfileHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid query parameters", err.Error()))
		return
	}

	page := utils.ValidatePagination(q.Page, q.PerPage)
	items, total, err := h.profiles.List(c.Request.Context(), profile.Filter{
		Email:   q.Email,
		Search:  q.Search,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, toProfileDTOs(items), total, page.Page, page.PerPage)
}

func (h *ProfileHandler) Update(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	p, err := h.profiles.Update(c.Request.Context(), c.Param("id"), appprofile.UpdateParams{
		FullName:  req.FullName,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, toProfileDTO(p))
}

func (h *ProfileHandler) Delete(c *gin.Context) {
	if err := h.profiles.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
