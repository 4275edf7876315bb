package handlers

import (
  "encoding/json"
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/services"
  "github.com/yungbote/mentora-backend/internal/types"
)

// GenerateHandler exposes the capability pass-throughs: direct image and
// mind-map synthesis, the PNG renderer, knowledge tests and speech. These do
// not carry pipeline fallbacks, so capability failures surface as 502.
type GenerateHandler struct {
  log                 *logger.Logger
  visualService       services.VisualService
  renderService       services.MindMapRenderService
  assessmentService   services.AssessmentService
  speechService       services.SpeechService
}

func NewGenerateHandler(
  log *logger.Logger,
  visualService services.VisualService,
  renderService services.MindMapRenderService,
  assessmentService services.AssessmentService,
  speechService services.SpeechService,
) *GenerateHandler {
  return &GenerateHandler{
    log:               log.With("handler", "GenerateHandler"),
    visualService:     visualService,
    renderService:     renderService,
    assessmentService: assessmentService,
    speechService:     speechService,
  }
}

func (h *GenerateHandler) GenerateImage(c *gin.Context) {
  var req struct {
    Prompt string `json:"prompt"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  url, err := h.visualService.GenerateImage(c.Request.Context(), req.Prompt)
  if err != nil {
    h.log.Warn("Direct image generation failed", "error", err)
    RespondError(c, http.StatusBadGateway, "image_generation_failed", err)
    return
  }
  RespondOK(c, gin.H{"url": url})
}

func (h *GenerateHandler) GenerateMindMap(c *gin.Context) {
  var req struct {
    Topic string `json:"topic"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Topic == "" {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  mm, err := h.visualService.GenerateMindMap(c.Request.Context(), services.MindMapPrompt(req.Topic))
  if err != nil {
    h.log.Warn("Direct mind map generation failed", "error", err)
    RespondError(c, http.StatusBadGateway, "mindmap_generation_failed", err)
    return
  }
  RespondOK(c, mm)
}

// GenerateMindMapImage accepts either a ready mind-map structure or a topic
// to synthesize one from, and returns the rendered PNG.
func (h *GenerateHandler) GenerateMindMapImage(c *gin.Context) {
  var req struct {
    Topic     string            `json:"topic"`
    MindMap   json.RawMessage   `json:"mindMap"`
  }
  if err := c.ShouldBindJSON(&req); err != nil {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }

  var mm *types.MindMap
  if len(req.MindMap) > 0 {
    mm = &types.MindMap{}
    if err := json.Unmarshal(req.MindMap, mm); err != nil {
      RespondError(c, http.StatusBadRequest, "invalid_mindmap", err)
      return
    }
  } else if req.Topic != "" {
    generated, err := h.visualService.GenerateMindMap(c.Request.Context(), services.MindMapPrompt(req.Topic))
    if err != nil {
      h.log.Warn("Mind map synthesis for render failed", "error", err)
      RespondError(c, http.StatusBadGateway, "mindmap_generation_failed", err)
      return
    }
    mm = generated
  } else {
    RespondError(c, http.StatusBadRequest, "invalid_body", nil)
    return
  }

  png, err := h.renderService.Render(mm)
  if err != nil {
    RespondServiceError(c, "mindmap_render_failed", err)
    return
  }
  c.Data(http.StatusOK, "image/png", png)
}

func (h *GenerateHandler) GenerateKnowledgeTest(c *gin.Context) {
  var req struct {
    UserID string `json:"userId"`
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
  test, err := h.assessmentService.GenerateKnowledgeTest(c.Request.Context(), userID)
  if err != nil {
    h.log.Error("Knowledge test generation failed", "error", err, "user_id", userID)
    RespondServiceError(c, "knowledge_test_failed", err)
    return
  }
  RespondOK(c, test)
}

func (h *GenerateHandler) TextToSpeech(c *gin.Context) {
  var req struct {
    Text string `json:"text"`
  }
  if err := c.ShouldBindJSON(&req); err != nil || req.Text == "" {
    RespondError(c, http.StatusBadRequest, "invalid_body", err)
    return
  }
  audio, err := h.speechService.Synthesize(c.Request.Context(), req.Text)
  if err != nil {
    RespondServiceError(c, "speech_synthesis_failed", err)
    return
  }
  c.Data(http.StatusOK, "audio/mpeg", audio)
}
