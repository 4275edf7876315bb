package main

import (
  "context"
  "fmt"
  "os"
  "time"

  "github.com/yungbote/mentora-backend/internal/db"
  "github.com/yungbote/mentora-backend/internal/handlers"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/middleware"
  "github.com/yungbote/mentora-backend/internal/observability"
  "github.com/yungbote/mentora-backend/internal/repos"
  "github.com/yungbote/mentora-backend/internal/server"
  "github.com/yungbote/mentora-backend/internal/services"
  "github.com/yungbote/mentora-backend/internal/sse"
  "github.com/yungbote/mentora-backend/internal/utils"
)

func main() {
  // Logger
  logMode := os.Getenv("LOG_MODE")
  if logMode == "" {
    logMode = "development"
  }
  log, err := logger.New(logMode)
  if err != nil {
    fmt.Printf("Failed to init logger: %v\n", err)
    os.Exit(1)
  }
  defer log.Sync()

  // Env
  log.Info("Loading environment variables from main...")
  jwtSecretKey := utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log)
  accessTokenTTL := utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)
  refreshTokenTTL := utils.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)
  speechVoice := utils.GetEnv("OPENAI_TTS_VOICE", "alloy", log)

  // Tracing
  otelShutdown := observability.InitOTel(context.Background(), log, observability.OtelConfig{
    ServiceName: "mentora-backend",
    Environment: utils.GetEnv("APP_ENV", "development", log),
  })
  if otelShutdown != nil {
    defer func() {
      shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
      defer cancel()
      _ = otelShutdown(shutdownCtx)
    }()
  }

  // Database
  dbService, err := db.New(log)
  if err != nil {
    log.Fatal("Database init failed", "error", err)
  }
  if err = dbService.AutoMigrateAll(); err != nil {
    log.Warn("Auto migration failed", "error", err)
  }
  gdb := dbService.DB()

  // Repos
  log.Info("Setting up Repos from main...")
  userRepo := repos.NewUserRepo(gdb, log)
  userTokenRepo := repos.NewUserTokenRepo(gdb, log)
  conversationRepo := repos.NewConversationRepo(gdb, log)
  messageRepo := repos.NewMessageRepo(gdb, log)
  interestRepo := repos.NewUserInterestRepo(gdb, log)
  progressRepo := repos.NewLearningProgressRepo(gdb, log)

  // SSE
  log.Info("Setting up SSE hub now...")
  sseHub := sse.NewSSEHub(log)

  // Services. A missing provider credential degrades every AI-backed step
  // to its fallback path instead of stopping the process.
  log.Info("Setting up Services from main...")
  var openaiClient services.OpenAIClient
  if client, cErr := services.NewOpenAIClient(log); cErr != nil {
    log.Warn("OpenAI client unavailable; AI capabilities will use fallbacks", "error", cErr)
  } else {
    openaiClient = client
  }

  classifierService := services.NewClassifierService(log, openaiClient)
  titleService := services.NewTitleService(log, openaiClient)
  tutorService := services.NewTutorService(log, openaiClient)
  visualService := services.NewVisualService(log, openaiClient)
  renderService := services.NewMindMapRenderService(log)
  speechService := services.NewSpeechService(log, openaiClient, speechVoice)
  notifier := services.NewChatNotifier(log, sseHub)

  authService := services.NewAuthService(gdb, log, userRepo, userTokenRepo, jwtSecretKey, time.Duration(accessTokenTTL)*time.Second, time.Duration(refreshTokenTTL)*time.Second)
  chatService := services.NewChatService(gdb, log, conversationRepo, messageRepo, interestRepo, progressRepo, classifierService, titleService, tutorService, visualService, notifier)
  conversationService := services.NewConversationService(gdb, log, conversationRepo, messageRepo, titleService)
  interestService := services.NewInterestService(log, interestRepo)
  progressService := services.NewProgressService(log, progressRepo)
  assessmentService := services.NewAssessmentService(log, openaiClient, conversationRepo, interestRepo)

  // Handlers
  log.Info("Setting up handlers from main...")
  authHandler := handlers.NewAuthHandler(authService)
  conversationHandler := handlers.NewConversationHandler(log, conversationService)
  messageHandler := handlers.NewMessageHandler(log, chatService)
  interestHandler := handlers.NewInterestHandler(log, interestService)
  progressHandler := handlers.NewProgressHandler(log, progressService)
  generateHandler := handlers.NewGenerateHandler(log, visualService, renderService, assessmentService, speechService)
  sseHandler := handlers.NewSSEHandler(log, sseHub)

  // Middleware
  authMiddleware := middleware.NewAuthMiddleware(log, authService)

  // Router
  log.Info("Setting up router from main...")
  router := server.NewRouter(server.RouterConfig{
    AuthHandler:         authHandler,
    AuthMiddleware:      authMiddleware,
    ConversationHandler: conversationHandler,
    MessageHandler:      messageHandler,
    InterestHandler:     interestHandler,
    ProgressHandler:     progressHandler,
    GenerateHandler:     generateHandler,
    SSEHandler:          sseHandler,
  })

  port := utils.GetEnv("PORT", "8080", log)
  fmt.Printf("Server listening on :%s\n", port)
  if err := router.Run(":" + port); err != nil {
    log.Warn("Server failed", "error", err)
  }
}
