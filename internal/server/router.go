package server

import (
  "github.com/gin-contrib/cors"
  "github.com/gin-gonic/gin"
  "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

  "github.com/yungbote/mentora-backend/internal/handlers"
  "github.com/yungbote/mentora-backend/internal/middleware"
)

type RouterConfig struct {
  AuthHandler           *handlers.AuthHandler
  AuthMiddleware        *middleware.AuthMiddleware
  ConversationHandler   *handlers.ConversationHandler
  MessageHandler        *handlers.MessageHandler
  InterestHandler       *handlers.InterestHandler
  ProgressHandler       *handlers.ProgressHandler
  GenerateHandler       *handlers.GenerateHandler
  SSEHandler            *handlers.SSEHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
  router := gin.Default()
  router.Use(otelgin.Middleware("mentora-backend"))

  // Cors
  router.Use(cors.New(cors.Config{
    AllowOrigins: []string{
      "http://localhost:80",
      "http://localhost:3000",
      "http://localhost:5174",
    },
    AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
    AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
    AllowCredentials: true,
  }))

// ===============
// || Public    ||
// ===============
  router.GET("/healthcheck", handlers.HealthCheck)
  router.POST("/register", cfg.AuthHandler.Register)
  router.POST("/login", cfg.AuthHandler.Login)
  router.POST("/refresh", cfg.AuthHandler.Refresh)
  router.POST("/logout", cfg.AuthMiddleware.RequireAuth(), cfg.AuthHandler.Logout)

  // SSE
  router.GET("/sse/stream", cfg.SSEHandler.Stream)

  // Conversations. GET /conversations/:id lists a user's conversations (the
  // param is the user id); the message routes reuse the :id slot for the
  // conversation id. Both DELETE shapes share one wildcard route because
  // gin's tree cannot mix /:id with /user/:userId/clear.
  router.GET("/conversations/:id", cfg.ConversationHandler.ListByUser)
  router.POST("/conversations", cfg.ConversationHandler.Create)
  router.PATCH("/conversations/:id/title", cfg.ConversationHandler.RenameTitle)
  router.DELETE("/conversations/*rest", cfg.ConversationHandler.DeleteDispatch)
  router.GET("/conversations/:id/messages", cfg.MessageHandler.List)
  router.POST("/conversations/:id/messages", cfg.MessageHandler.Send)

  // Interests + progress
  router.GET("/users/:userId/interests", cfg.InterestHandler.ListByUser)
  router.POST("/users/:userId/interests", cfg.InterestHandler.Create)
  router.DELETE("/users/:userId/interests/:id", cfg.InterestHandler.Delete)
  router.GET("/users/:userId/progress", cfg.ProgressHandler.GetByUser)

  // Capability pass-throughs
  router.POST("/generate-image", cfg.GenerateHandler.GenerateImage)
  router.POST("/generate-mindmap", cfg.GenerateHandler.GenerateMindMap)
  router.POST("/generate-mindmap-image", cfg.GenerateHandler.GenerateMindMapImage)
  router.POST("/generate-knowledge-test", cfg.GenerateHandler.GenerateKnowledgeTest)
  router.POST("/text-to-speech", cfg.GenerateHandler.TextToSpeech)

  return router
}
