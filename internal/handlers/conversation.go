package handlers

import (
  "fmt"
  "net/http"
  "strings"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/services"
)

type ConversationHandler struct {
  log                   *logger.Logger
  conversationService   services.ConversationService
}

func NewConversationHandler(log *logger.Logger, conversationService services.ConversationService) *ConversationHandler {
  return &ConversationHandler{
    log:                 log.With("handler", "ConversationHandler"),
    conversationService: conversationService,
  }
}

// ListByUser serves GET /conversations/:id where the path segment is the
// user's id (the param name is shared with the message routes because gin
// requires one name per position).
func (h *ConversationHandler) ListByUser(c *gin.Context) {
  userID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  convs, err := h.conversationService.ListByUser(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("ListByUser failed", "error", err, "user_id", userID)
    RespondServiceError(c, "list_conversations_failed", err)
    return
  }
  RespondOK(c, gin.H{"conversations": convs})
}

func (h *ConversationHandler) Create(c *gin.Context) {
  var req struct {
    UserID   string   `json:"user_id"`
    Title    string   `json:"title"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  userID, err := uuid.Parse(req.UserID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  conv, err := h.conversationService.Create(c.Request.Context(), userID, req.Title)
  if err != nil {
    h.log.Error("Create conversation failed", "error", err, "user_id", userID)
    RespondServiceError(c, "create_conversation_failed", err)
    return
  }
  RespondOK(c, gin.H{"conversation": conv})
}

func (h *ConversationHandler) RenameTitle(c *gin.Context) {
  id, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
    return
  }
  var req struct {
    Content string `json:"content"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  conv, err := h.conversationService.RenameFromContent(c.Request.Context(), id, req.Content)
  if err != nil {
    h.log.Error("RenameTitle failed", "error", err, "conversation_id", id)
    RespondServiceError(c, "rename_conversation_failed", err)
    return
  }
  RespondOK(c, gin.H{"conversation": conv})
}

// DeleteDispatch serves DELETE /conversations/*rest. Gin's route tree cannot
// hold both /conversations/:id and /conversations/user/:userId/clear, so the
// two delete shapes share a wildcard and are told apart here.
func (h *ConversationHandler) DeleteDispatch(c *gin.Context) {
  rest := strings.Trim(c.Param("rest"), "/")
  parts := strings.Split(rest, "/")

  switch {
  case len(parts) == 1 && parts[0] != "":
    h.deleteOne(c, parts[0])
  case len(parts) == 3 && parts[0] == "user" && parts[2] == "clear":
    h.clearAll(c, parts[1])
  default:
    RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("unknown path"))
  }
}

func (h *ConversationHandler) deleteOne(c *gin.Context, rawID string) {
  id, err := uuid.Parse(rawID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
    return
  }
  if err := h.conversationService.Delete(c.Request.Context(), id); err != nil {
    h.log.Error("Delete conversation failed", "error", err, "conversation_id", id)
    RespondServiceError(c, "delete_conversation_failed", err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}

func (h *ConversationHandler) clearAll(c *gin.Context, rawUserID string) {
  userID, err := uuid.Parse(rawUserID)
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }
  if err := h.conversationService.ClearAll(c.Request.Context(), userID); err != nil {
    h.log.Error("ClearAll failed", "error", err, "user_id", userID)
    RespondServiceError(c, "clear_conversations_failed", err)
    return
  }
  RespondOK(c, gin.H{"success": true})
}
