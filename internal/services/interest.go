package services

import (
  "context"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/repos"
  "github.com/yungbote/mentora-backend/internal/types"
)

type InterestService interface {
  ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserInterest, error)
  Create(ctx context.Context, userID uuid.UUID, interest string, progress int) (*types.UserInterest, error)
  Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
}

type interestService struct {
  log       *logger.Logger
  interests repos.UserInterestRepo
}

func NewInterestService(baseLog *logger.Logger, interestRepo repos.UserInterestRepo) InterestService {
  return &interestService{
    log:       baseLog.With("service", "InterestService"),
    interests: interestRepo,
  }
}

func (s *interestService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.UserInterest, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  rows, err := s.interests.ListByUser(ctx, nil, userID)
  if err != nil {
    return nil, err
  }
  if rows == nil {
    rows = []*types.UserInterest{}
  }
  return rows, nil
}

func (s *interestService) Create(ctx context.Context, userID uuid.UUID, interest string, progress int) (*types.UserInterest, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  interest = strings.TrimSpace(interest)
  if interest == "" {
    return nil, fmt.Errorf("empty interest: %w", apperr.ErrValidation)
  }
  if progress < 0 {
    progress = 0
  }
  if progress > 100 {
    progress = 100
  }

  row := &types.UserInterest{
    ID:        uuid.New(),
    UserID:    userID,
    Interest:  interest,
    Progress:  progress,
    CreatedAt: time.Now().UTC(),
  }
  created, err := s.interests.Create(ctx, nil, []*types.UserInterest{row})
  if err != nil {
    return nil, err
  }
  if len(created) == 0 || created[0] == nil {
    return nil, fmt.Errorf("failed to create interest")
  }
  return created[0], nil
}

func (s *interestService) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
  if userID == uuid.Nil || id == uuid.Nil {
    return fmt.Errorf("missing id: %w", apperr.ErrValidation)
  }
  rows, err := s.interests.GetByIDs(ctx, nil, []uuid.UUID{id})
  if err != nil {
    return err
  }
  if len(rows) == 0 || rows[0] == nil || rows[0].UserID != userID {
    return fmt.Errorf("interest %s: %w", id, apperr.ErrNotFound)
  }
  return s.interests.DeleteByIDs(ctx, nil, []uuid.UUID{id})
}
