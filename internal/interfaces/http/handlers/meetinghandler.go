package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	appmeeting "github.com/meetscribe/meetscribe/internal/application/meeting"
	"github.com/meetscribe/meetscribe/internal/domain/meeting"
	"github.com/meetscribe/meetscribe/internal/shared/errors"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type MeetingHandler struct {
	meetings *appmeeting.Service
	logger   logger.Interface
}

func NewMeetingHandler(meetings *appmeeting.Service, logger logger.Interface) *MeetingHandler {
	return &MeetingHandler{
		meetings: meetings,
		logger:   logger,
	}
}

type CreateMeetingRequest struct {
	UserID    string     `json:"user_id" binding:"required,uuid"`
	Title     string     `json:"title"`
	Status    string     `json:"status" binding:"omitempty,oneof=live ended scheduled"`
	StartedAt *time.Time `json:"started_at"`
}

type UpdateMeetingRequest struct {
	Title *string    `json:"title"`
	EndAt *time.Time `json:"end_at"`
}

type UpdateSummaryNotesRequest struct {
	UserNotes string `json:"user_notes"`
}

func (h *MeetingHandler) Create(c *gin.Context) {
	var req CreateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	m, err := h.meetings.Create(c.Request.Context(), appmeeting.CreateParams{
		UserID:    req.UserID,
		Title:     req.Title,
		Status:    req.Status,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, toMeetingDTO(m))
}

func (h *MeetingHandler) Get(c *gin.Context) {
	m, err := h.meetings.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toMeetingDTO(m))
}

func (h *MeetingHandler) List(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid query parameters", err.Error()))
		return
	}

	page := utils.ValidatePagination(q.Page, q.PerPage)
	items, total, err := h.meetings.List(c.Request.Context(), meeting.Filter{
		UserID:  q.UserID,
		Status:  q.Status,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.ListSuccessResponse(c, toMeetingDTOs(items), total, page.Page, page.PerPage)
}

func (h *MeetingHandler) Update(c *gin.Context) {
	var req UpdateMeetingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	m, err := h.meetings.Update(c.Request.Context(), c.Param("id"), appmeeting.UpdateParams{
		Title: req.Title,
		EndAt: req.EndAt,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, toMeetingDTO(m))
}

func (h *MeetingHandler) Delete(c *gin.Context) {
	if err := h.meetings.Delete(c.Request.Context(), c.Param("id")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

// ListTranscripts returns the meeting's transcript segments in playback
// order.
func (h *MeetingHandler) ListTranscripts(c *gin.Context) {
	items, err := h.meetings.ListTranscripts(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toTranscriptDTOs(items))
}

func (h *MeetingHandler) DeleteTranscript(c *gin.Context) {
	if err := h.meetings.DeleteTranscript(c.Request.Context(), c.Param("transcriptId")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *MeetingHandler) ListChatMessages(c *gin.Context) {
	items, err := h.meetings.ListChatMessages(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toChatMessageDTOs(items))
}

func (h *MeetingHandler) DeleteChatMessage(c *gin.Context) {
	if err := h.meetings.DeleteChatMessage(c.Request.Context(), c.Param("messageId")); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.NoContentResponse(c)
}

func (h *MeetingHandler) GetSummary(c *gin.Context) {
	sum, err := h.meetings.GetSummary(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, toSummaryDTO(sum))
}

// UpdateSummaryNotes replaces the operator notes on the meeting's summary.
func (h *MeetingHandler) UpdateSummaryNotes(c *gin.Context) {
	var req UpdateSummaryNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError("invalid request body", err.Error()))
		return
	}

	sum, err := h.meetings.UpdateSummaryNotes(c.Request.Context(), c.Param("id"), req.UserNotes)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.OKResponse(c, toSummaryDTO(sum))
}

// GetStats returns the dashboard record counts.
func (h *MeetingHandler) GetStats(c *gin.Context) {
	stats, err := h.meetings.GetStats(c.Request.Context())
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.OKResponse(c, stats)
}
