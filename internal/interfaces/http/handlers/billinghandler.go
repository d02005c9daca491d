package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	appbilling "github.com/meetscribe/meetscribe/internal/application/billing"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

// maxWebhookBody caps the webhook payload read into memory.
const maxWebhookBody = 1 << 20

type BillingHandler struct {
	billing *appbilling.Service
	logger  logger.Interface
}

func NewBillingHandler(billing *appbilling.Service, logger logger.Interface) *BillingHandler {
	return &BillingHandler{
		billing: billing,
		logger:  logger,
	}
}

type CheckoutRequest struct {
	UserID string `json:"user_id" binding:"required,uuid"`
	PlanID uint   `json:"plan_id" binding:"required"`
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	session, err := h.billing.CreateCheckout(c.Request.Context(), appbilling.CheckoutRequest{
		UserID: req.UserID,
		PlanID: req.PlanID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, session)
}

// Webhook verifies and applies a provider event. The raw body is needed for
// signature verification, so this route must not use body-parsing
// middleware.
func (h *BillingHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.logger.Warnw("failed to read webhook body", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := h.billing.HandleWebhook(c.Request.Context(), payload, signature); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// GetSubscription returns the user's active subscription, creating the
// starter grant when none exists.
func (h *BillingHandler) GetSubscription(c *gin.Context) {
	sub, err := h.billing.GetSubscriptionForUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toSubscriptionDTO(sub))
}
