package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/services"
)

type InterestHandler struct {
  log               *logger.Logger
  interestService   services.InterestService
}

func NewInterestHandler(log *logger.Logger, interestService services.InterestService) *InterestHandler {
  return &InterestHandler{
    log:             log.With("handler", "InterestHandler"),
    interestService: interestService,
  }
}

func (h *InterestHandler) ListByUser(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  rows, err := h.interestService.ListByUser(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("List interests failed", "error", err, "user_id", userID)
    RespondServiceError(c, "list_interests_failed", err)
    return
  }
  RespondOK(c, gin.H{"interests": rows})
}

func (h *InterestHandler) Create(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  var req struct {
    Interest   string   `json:"interest"`
    Progress   int      `json:"progress"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  row, err := h.interestService.Create(c.Request.Context(), userID, req.Interest, req.Progress)
  if err != nil {
    h.log.Error("Create interest failed", "error", err, "user_id", userID)
    RespondServiceError(c, "create_interest_failed", err)
    return
  }
  RespondOK(c, gin.H{"interest": row})
}

func (h *InterestHandler) Delete(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_interest_id", err)
    return
  }
  if err := h.interestService.Delete(c.Request.Context(), userID, id); err != nil {
    h.log.Error("Delete interest failed", "error", err, "user_id", userID, "interest_id", id)
    RespondServiceError(c, "delete_interest_failed", err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
