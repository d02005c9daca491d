package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appsync "github.com/meetscribe/meetscribe/internal/application/sync"
	"github.com/meetscribe/meetscribe/internal/shared/logger"
	"github.com/meetscribe/meetscribe/internal/shared/utils"
)

type SyncHandler struct {
	engine *appsync.Engine
	logger logger.Interface
}

func NewSyncHandler(engine *appsync.Engine, logger logger.Interface) *SyncHandler {
	return &SyncHandler{
		engine: engine,
		logger: logger,
	}
}

// GetStatus returns the report of the current or most recent pass.
func (h *SyncHandler) GetStatus(c *gin.Context) {
	report := h.engine.Report()
	utils.OKResponse(c, gin.H{
		"running": h.engine.Running(),
		"report":  report,
	})
}

// Run triggers a pass immediately. A pass already in flight yields a 409;
// the scheduler and this endpoint share the same gate.
func (h *SyncHandler) Run(c *gin.Context) {
	report, err := h.engine.TryRun(c.Request.Context())
	if err != nil {
		if err == appsync.ErrPassInProgress {
			utils.ErrorResponse(c, http.StatusConflict, "a sync pass is already running")
			return
		}
		h.logger.Errorw("manual sync pass failed", "error", err)
		utils.OKResponse(c, report)
		return
	}

	utils.OKResponse(c, report)
}
