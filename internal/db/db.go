package db

import (
  "fmt"
  "strings"

  "gorm.io/driver/postgres"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
  "github.com/yungbote/mentora-backend/internal/utils"
)

type Service struct {
  db  *gorm.DB
  log *logger.Logger
}

// New opens the store selected by DB_DRIVER. Postgres is the production
// driver; sqlite exists for local development.
func New(log *logger.Logger) (*Service, error) {
  serviceLog := log.With("service", "DBService")

  driver := strings.ToLower(utils.GetEnv("DB_DRIVER", "postgres", log))
  switch driver {
  case "sqlite":
    return newSQLite(serviceLog, log)
  default:
    return newPostgres(serviceLog, log)
  }
}

func newPostgres(serviceLog, log *logger.Logger) (*Service, error) {
  log.Info("Loading environment variables...")
  postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
  postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
  postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
  postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
  postgresName := utils.GetEnv("POSTGRES_NAME", "mentora", log)

  dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

  log.Info("Connecting to Postgres...")
  gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to connect to Postgres", "error", err)
    return nil, fmt.Errorf("Failed to connect to Postgres: %w", err)
  }

  if err := gdb.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp";`).Error; err != nil {
    log.Error("Failed to enable uuid-ossp extension", "error", err)
    return nil, fmt.Errorf("Failed to enable uuid-ossp extension: %w", err)
  }

  return &Service{db: gdb, log: serviceLog}, nil
}

func newSQLite(serviceLog, log *logger.Logger) (*Service, error) {
  path := utils.GetEnv("SQLITE_PATH", "mentora.db", log)
  log.Info("Opening sqlite database...", "path", path)
  gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
    DisableForeignKeyConstraintWhenMigrating: true,
  })
  if err != nil {
    log.Error("Failed to open sqlite database", "error", err)
    return nil, fmt.Errorf("Failed to open sqlite database: %w", err)
  }
  return &Service{db: gdb, log: serviceLog}, nil
}

func (s *Service) AutoMigrateAll() error {
  s.log.Info("Auto migrating tables...")
  err := s.db.AutoMigrate(
    &types.User{},
    &types.UserToken{},
    &types.Conversation{},
    &types.Message{},
    &types.UserInterest{},
    &types.LearningProgress{},
  )
  if err != nil {
    s.log.Error("Auto migration failed", "error", err)
    return err
  }

  if s.db.Dialector.Name() != "postgres" {
    return nil
  }

  s.log.Info("Configuring foreign key relationships...")
  constraints := []string{
    `ALTER TABLE "user_token"
     ADD CONSTRAINT "fk_user_token_user_id"
     FOREIGN KEY ("user_id") REFERENCES "user"("id")
     ON DELETE CASCADE`,
    `ALTER TABLE "message"
     ADD CONSTRAINT "fk_message_conversation_id"
     FOREIGN KEY ("conversation_id") REFERENCES "conversation"("id")
     ON DELETE CASCADE`,
  }
  for _, stmt := range constraints {
    if err := s.db.Exec(stmt).Error; err != nil {
      // Re-running migrations hits "already exists"; not fatal.
      s.log.Warn("Constraint statement failed", "error", err)
    }
  }
  return nil
}

func (s *Service) DB() *gorm.DB {
  return s.db
}
