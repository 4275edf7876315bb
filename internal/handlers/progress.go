package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/services"
)

type ProgressHandler struct {
  log               *logger.Logger
  progressService   services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
  return &ProgressHandler{
    log:             log.With("handler", "ProgressHandler"),
    progressService: progressService,
  }
}

func (h *ProgressHandler) GetByUser(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  rows, err := h.progressService.GetUserProgress(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("Get progress failed", "error", err, "user_id", userID)
    RespondServiceError(c, "get_progress_failed", err)
    return
  }
  stats, err := h.progressService.GetUserStats(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("Get stats failed", "error", err, "user_id", userID)
    RespondServiceError(c, "get_stats_failed", err)
    return
  }
  RespondOK(c, gin.H{"progress": rows, "stats": stats})
}
