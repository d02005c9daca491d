package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	appuser "github.com/meetscribe/meetscribe/internal/application/user"
	"github.com/meetscribe/meetscribe/internal/domain/user"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type UserHandler struct {
	users  *appuser.Service
	logger logger.Interface
}

func NewUserHandler(users *appuser.Service, logger logger.Interface) *UserHandler {
	return &UserHandler{
		users:  users,
		logger: logger,
	}
}

type UpdateUserRequest struct {
	Name string `json:"name" binding:"required"`
	Role string `json:"role" binding:"required,oneof=admin user"`
}

func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	u, err := h.users.Get(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toUserDTO(u))
}

func (h *UserHandler) List(c *gin.Context) {
	page := utils.ParsePagination(c)
	items, total, err := h.users.List(c.Request.Context(), user.Filter{
		Role:    c.Query("role"),
		Search:  c.Query("search"),
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, toUserDTOs(items), total, page.Page, page.PerPage)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	u, err := h.users.Update(c.Request.Context(), id, appuser.UpdateParams{
		Name: req.Name,
		Role: req.Role,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, toUserDTO(u))
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.users.Delete(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func parseUintParam(c *gin.Context, name string) (uint, error) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.NewBadRequestError("invalid " + name + " parameter")
	}
	return uint(id), nil
}
