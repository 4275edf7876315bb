package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/services"
)

type MessageHandler struct {
  log           *logger.Logger
  chatService   services.ChatService
}

func NewMessageHandler(log *logger.Logger, chatService services.ChatService) *MessageHandler {
  return &MessageHandler{
    log:         log.With("handler", "MessageHandler"),
    chatService: chatService,
  }
}

func (h *MessageHandler) List(c *gin.Context) {
  conversationID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
    return
  }
  msgs, err := h.chatService.ListMessages(c.Request.Context(), conversationID)
  if err != nil {
    h.log.Error("List messages failed", "error", err, "conversation_id", conversationID)
    RespondServiceError(c, "list_messages_failed", err)
    return
  }
  RespondOK(c, gin.H{"messages": msgs})
}

func (h *MessageHandler) Send(c *gin.Context) {
  conversationID, err := uuid.Parse(c.Param("id"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_conversation_id", err)
    return
  }
  var req struct {
    Content           string   `json:"content"`
    GenerateImage     bool     `json:"generateImage"`
    GenerateMindMap   bool     `json:"generateMindMap"`
    AddEmojis         bool     `json:"addEmojis"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }

  userMsg, assistantMsg, err := h.chatService.SendMessage(c.Request.Context(), conversationID, req.Content, services.SendMessageOptions{
    GenerateImage:   req.GenerateImage,
    GenerateMindMap: req.GenerateMindMap,
    AddEmojis:       req.AddEmojis,
  })
  if err != nil {
    h.log.Error("Send message failed", "error", err, "conversation_id", conversationID)
    RespondServiceError(c, "send_message_failed", err)
    return
  }
  RespondOK(c, gin.H{"userMessage": userMsg, "assistantMessage": assistantMsg})
}
