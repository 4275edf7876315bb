package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/sse"
)

type SSEHandler struct {
  log   *logger.Logger
  hub   *sse.SSEHub
}

func NewSSEHandler(log *logger.Logger, hub *sse.SSEHub) *SSEHandler {
  return &SSEHandler{
    log: log.With("handler", "SSEHandler"),
    hub: hub,
  }
}

// Stream serves GET /sse/stream?userId= and holds the connection open until
// the client goes away.
func (h *SSEHandler) Stream(c *gin.Context) {
  userID, err := uuid.Parse(c.Query("userId"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_user_id", err)
    return
  }

  client := h.hub.NewSSEClient(userID)
  h.hub.AddChannel(client, "user:"+userID.String())
  defer h.hub.RemoveClient(client)

  h.hub.ServeHTTP(c.Writer, c.Request, client)
}
