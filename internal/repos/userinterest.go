package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

type UserInterestRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.UserInterest) ([]*types.UserInterest, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserInterest, error)
  ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserInterest, error)
  DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type userInterestRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserInterestRepo(db *gorm.DB, baseLog *logger.Logger) UserInterestRepo {
  repoLog := baseLog.With("repo", "UserInterestRepo")
  return &userInterestRepo{db: db, log: repoLog}
}

func (r *userInterestRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserInterest) ([]*types.UserInterest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.UserInterest{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *userInterestRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserInterest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserInterest
  if len(ids) == 0 {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userInterestRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserInterest, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.UserInterest
  if userID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("user_id = ?", userID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *userInterestRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(ids) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Delete(&types.UserInterest{}).Error; err != nil {
    return err
  }
  return nil
}
