package repos

import (
  "context"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

type LearningProgressRepo interface {
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningProgress, error)
  Upsert(ctx context.Context, tx *gorm.DB, row *types.LearningProgress) error
}

type learningProgressRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLearningProgressRepo(db *gorm.DB, baseLog *logger.Logger) LearningProgressRepo {
  repoLog := baseLog.With("repo", "LearningProgressRepo")
  return &learningProgressRepo{db: db, log: repoLog}
}

func (r *learningProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningProgress, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.LearningProgress
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("last_activity DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *learningProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LearningProgress) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if row == nil {
    return nil
  }
  if row.LastActivity.IsZero() {
    row.LastActivity = time.Now().UTC()
  }

  // Upsert by unique user_id + topic (exact match)
  if err := transaction.WithContext(ctx).
    Where("user_id = ? AND topic = ?", row.UserID, row.Topic).
    Assign(map[string]any{
      "progress":          row.Progress,
      "visuals_generated": row.VisualsGenerated,
      "last_activity":     row.LastActivity,
    }).
    FirstOrCreate(row).Error; err != nil {
    return err
  }
  return nil
}
