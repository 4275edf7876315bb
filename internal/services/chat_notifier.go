package services

import (
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/sse"
  "github.com/yungbote/mentora-backend/internal/types"
)

// ChatNotifier fans chat lifecycle events out to connected SSE clients.
// Every call is best-effort; a missing hub means events are dropped silently.
type ChatNotifier interface {
  MessageCreated(userID uuid.UUID, msg *types.Message)
  ConversationUpdated(userID uuid.UUID, conv *types.Conversation)
}

type chatNotifier struct {
  log *logger.Logger
  hub *sse.SSEHub
}

func NewChatNotifier(baseLog *logger.Logger, hub *sse.SSEHub) ChatNotifier {
  return &chatNotifier{
    log: baseLog.With("service", "ChatNotifier"),
    hub: hub,
  }
}

func userChannel(userID uuid.UUID) string {
  return "user:" + userID.String()
}

func (n *chatNotifier) MessageCreated(userID uuid.UUID, msg *types.Message) {
  if n.hub == nil || msg == nil {
    return
  }
  n.hub.Broadcast(sse.SSEMessage{
    Channel: userChannel(userID),
    Event:   sse.SSEEventMessageCreated,
    Data:    msg,
  })
}

func (n *chatNotifier) ConversationUpdated(userID uuid.UUID, conv *types.Conversation) {
  if n.hub == nil || conv == nil {
    return
  }
  n.hub.Broadcast(sse.SSEMessage{
    Channel: userChannel(userID),
    Event:   sse.SSEEventConversationUpdated,
    Data:    conv,
  })
}
