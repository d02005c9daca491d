package handlers

import (
	"github.com/gin-gonic/gin"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type PlanHandler struct {
	billing *appbilling.Service
	logger  logger.Interface
}

func NewPlanHandler(billing *appbilling.Service, logger logger.Interface) *PlanHandler {
	return &PlanHandler{
		billing: billing,
		logger:  logger,
	}
}

type PlanRequest struct {
	Name            string `json:"name" binding:"required"`
	StripeProductID string `json:"stripe_product_id"`
	StripePriceID   string `json:"stripe_price_id"`
	Interval        string `json:"interval" binding:"required,oneof=month year"`
	Amount          int64  `json:"amount" binding:"min=0"`
	Currency        string `json:"currency" binding:"required,len=3"`
	TrialDays       int    `json:"trial_days" binding:"min=0"`
	Quota           *int   `json:"quota"`
	Minutes         *int   `json:"minutes"`
}

func (r PlanRequest) toParams() appbilling.PlanParams {
	return appbilling.PlanParams{
		Name:            r.Name,
		StripeProductID: r.StripeProductID,
		StripePriceID:   r.StripePriceID,
		Interval:        r.Interval,
		Amount:          r.Amount,
		Currency:        r.Currency,
		TrialDays:       r.TrialDays,
		Quota:           r.Quota,
		Minutes:         r.Minutes,
	}
}

func (h *PlanHandler) Create(c *gin.Context) {
	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	p, err := h.billing.CreatePlan(c.Request.Context(), req.toParams())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toPlanDTO(p))
}

func (h *PlanHandler) Get(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	p, err := h.billing.GetPlan(c.Request.Context(), id)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toPlanDTO(p))
}

func (h *PlanHandler) List(c *gin.Context) {
	page := utils.ParsePagination(c)
	items, total, err := h.billing.ListPlans(c.Request.Context(), page.Page, page.PerPage)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.ListSuccessResponse(c, toPlanDTOs(items), total, page.Page, page.PerPage)
}

// ListActive returns the purchasable catalog, ordered by price.
func (h *PlanHandler) ListActive(c *gin.Context) {
	items, err := h.billing.ListActivePlans(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toPlanDTOs(items))
}

func (h *PlanHandler) Update(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var req PlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	p, err := h.billing.UpdatePlan(c.Request.Context(), id, req.toParams())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toPlanDTO(p))
}

func (h *PlanHandler) Delete(c *gin.Context) {
	id, err := parseUintParam(c, "id")
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	if err := h.billing.DeletePlan(c.Request.Context(), id); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}
