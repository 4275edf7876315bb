package repos

import (
  "context"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

type MessageRepo interface {
  Create(ctx context.Context, tx *gorm.DB, rows []*types.Message) ([]*types.Message, error)
  ListByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.Message, error)
  CountByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error)
  DeleteByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) error
}

type messageRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMessageRepo(db *gorm.DB, baseLog *logger.Logger) MessageRepo {
  repoLog := baseLog.With("repo", "MessageRepo")
  return &messageRepo{db: db, log: repoLog}
}

func (r *messageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Message) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(rows) == 0 {
    return []*types.Message{}, nil
  }

  if err := transaction.WithContext(ctx).Create(&rows).Error; err != nil {
    return nil, err
  }
  return rows, nil
}

func (r *messageRepo) ListByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.Message, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var results []*types.Message
  if conversationID == uuid.Nil {
    return results, nil
  }

  if err := transaction.WithContext(ctx).
    Where("conversation_id = ?", conversationID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *messageRepo) CountByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  var count int64
  if conversationID == uuid.Nil {
    return 0, nil
  }

  if err := transaction.WithContext(ctx).
    Model(&types.Message{}).
    Where("conversation_id = ?", conversationID).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *messageRepo) DeleteByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }

  if len(conversationIDs) == 0 {
    return nil
  }

  if err := transaction.WithContext(ctx).
    Where("conversation_id IN ?", conversationIDs).
    Delete(&types.Message{}).Error; err != nil {
    return err
  }
  return nil
}
