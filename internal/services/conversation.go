package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/repos"
  "github.com/yungbote/mentora-backend/internal/types"
)

type ConversationService interface {
  Create(ctx context.Context, userID uuid.UUID, title string) (*types.Conversation, error)
  ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Conversation, error)
  RenameFromContent(ctx context.Context, id uuid.UUID, content string) (*types.Conversation, error)
  Delete(ctx context.Context, id uuid.UUID) error
  ClearAll(ctx context.Context, userID uuid.UUID) error
}

type conversationService struct {
  db  *gorm.DB
  log *logger.Logger

  conversations repos.ConversationRepo
  messages      repos.MessageRepo
  titles        TitleService
}

func NewConversationService(
  db *gorm.DB,
  baseLog *logger.Logger,
  conversationRepo repos.ConversationRepo,
  messageRepo repos.MessageRepo,
  titles TitleService,
) ConversationService {
  return &conversationService{
    db:            db,
    log:           baseLog.With("service", "ConversationService"),
    conversations: conversationRepo,
    messages:      messageRepo,
    titles:        titles,
  }
}

func (s *conversationService) Create(ctx context.Context, userID uuid.UUID, title string) (*types.Conversation, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  title = strings.TrimSpace(title)
  if title == "" {
    title = types.DefaultConversationTitle
  }

  now := time.Now().UTC()
  conv := &types.Conversation{
    ID:        uuid.New(),
    UserID:    userID,
    Title:     title,
    CreatedAt: now,
    UpdatedAt: now,
  }
  created, err := s.conversations.Create(ctx, nil, []*types.Conversation{conv})
  if err != nil {
    return nil, err
  }
  if len(created) == 0 || created[0] == nil {
    return nil, fmt.Errorf("failed to create conversation")
  }
  return created[0], nil
}

func (s *conversationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Conversation, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  rows, err := s.conversations.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, err
  }
  if rows == nil {
    rows = []*types.Conversation{}
  }
  return rows, nil
}

// RenameFromContent retitles a conversation from a piece of its content. The
// title capability is best-effort; a trimmed content prefix stands in when it
// fails.
func (s *conversationService) RenameFromContent(ctx context.Context, id uuid.UUID, content string) (*types.Conversation, error) {
  content = strings.TrimSpace(content)
  if id == uuid.Nil {
    return nil, fmt.Errorf("missing conversation id: %w", apperr.ErrValidation)
  }
  if content == "" {
    return nil, fmt.Errorf("empty content: %w", apperr.ErrValidation)
  }

  rows, err := s.conversations.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return nil, err
  }
  if len(rows) == 0 || rows[0] == nil {
    return nil, fmt.Errorf("conversation %s: %w", id, apperr.ErrNotFound)
  }
  conv := rows[0]

  title, tErr := s.titles.TitleFor(ctx, content)
  if tErr != nil || strings.TrimSpace(title) == "" {
    s.log.Warn("Title generation failed, falling back to content prefix", "error", tErr, "conversation_id", id)
    title = runePrefix(content, 40)
  }

  if err := s.conversations.UpdateTitle(ctx, nil, id, title); err != nil {
    return nil, err
  }
  conv.Title = title
  conv.UpdatedAt = time.Now().UTC()
  return conv, nil
}

// Delete removes the conversation's messages before the conversation row so a
// mid-flight failure can never orphan messages.
func (s *conversationService) Delete(ctx context.Context, id uuid.UUID) error {
  if id == uuid.Nil {
    return fmt.Errorf("missing conversation id: %w", apperr.ErrValidation)
  }
  rows, err := s.conversations.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return err
  }
  if len(rows) == 0 || rows[0] == nil {
    return fmt.Errorf("conversation %s: %w", id, apperr.ErrNotFound)
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.messages.DeleteByConversationIDs(ctx, tx, []uuid.UUID{id}); err != nil {
      return fmt.Errorf("failed to delete conversation messages: %w", err)
    }
    if err := s.conversations.DeleteByIDs(ctx, tx, []uuid.UUID{id}); err != nil {
      return fmt.Errorf("failed to delete conversation: %w", err)
    }
    return nil
  })
}

func (s *conversationService) ClearAll(ctx context.Context, userID uuid.UUID) error {
  if userID == uuid.Nil {
    return fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  ids, err := s.conversations.ListIDsByUser(ctx, nil, userID)
  if err != nil {
    return err
  }
  if len(ids) == 0 {
    return nil
  }

  return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if err := s.messages.DeleteByConversationIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("failed to delete user messages: %w", err)
    }
    if err := s.conversations.DeleteByIDs(ctx, tx, ids); err != nil {
      return fmt.Errorf("failed to delete user conversations: %w", err)
    }
    return nil
  })
}
