package services

import (
  "context"
  "fmt"
  "time"

  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/repos"
  "github.com/yungbote/mentora-backend/internal/types"
)

type UserStats struct {
  OverallProgress    int   `json:"overall_progress"`
  LearningStreak     int   `json:"learning_streak"`
  VisualsGenerated   int   `json:"visuals_generated"`
  TopicsExplored     int   `json:"topics_explored"`
}

type ProgressService interface {
  GetUserProgress(ctx context.Context, userID uuid.UUID) ([]*types.LearningProgress, error)
  GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error)
}

type progressService struct {
  log      *logger.Logger
  progress repos.LearningProgressRepo
}

func NewProgressService(baseLog *logger.Logger, progressRepo repos.LearningProgressRepo) ProgressService {
  return &progressService{
    log:      baseLog.With("service", "ProgressService"),
    progress: progressRepo,
  }
}

func (s *progressService) GetUserProgress(ctx context.Context, userID uuid.UUID) ([]*types.LearningProgress, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  rows, err := s.progress.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, err
  }
  if rows == nil {
    rows = []*types.LearningProgress{}
  }
  return rows, nil
}

func (s *progressService) GetUserStats(ctx context.Context, userID uuid.UUID) (*UserStats, error) {
  rows, err := s.GetUserProgress(ctx, userID)
  if err != nil {
    return nil, err
  }
  return ComputeUserStats(rows, time.Now().UTC()), nil
}

// ComputeUserStats derives dashboard numbers from the raw progress rows.
// LearningStreak is a placeholder: distinct UTC activity days across the
// rows, capped at 30, pending a real consecutive-day definition.
func ComputeUserStats(rows []*types.LearningProgress, now time.Time) *UserStats {
  stats := &UserStats{}
  if len(rows) == 0 {
    return stats
  }

  totalProgress := 0
  days := make(map[string]bool)
  for _, row := range rows {
    if row == nil {
      continue
    }
    stats.TopicsExplored++
    totalProgress += row.Progress
    stats.VisualsGenerated += row.VisualsGenerated
    days[row.LastActivity.UTC().Format("2006-01-02")] = true
  }
  if stats.TopicsExplored > 0 {
    stats.OverallProgress = totalProgress / stats.TopicsExplored
  }
  stats.LearningStreak = len(days)
  if stats.LearningStreak > 30 {
    stats.LearningStreak = 30
  }
  return stats
}
