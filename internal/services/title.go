package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/yungbote/mentora-backend/internal/logger"
)

type TitleService interface {
  TitleFor(ctx context.Context, text string) (string, error)
}

type titleService struct {
  log    *logger.Logger
  client OpenAIClient
}

func NewTitleService(baseLog *logger.Logger, client OpenAIClient) TitleService {
  return &titleService{
    log:    baseLog.With("service", "TitleService"),
    client: client,
  }
}

const titleSystemPrompt = `You label learning conversations. Produce a short
title (5 words maximum, no quotes, no trailing punctuation) for a conversation
that opens with the user's message.`

func (s *titleService) TitleFor(ctx context.Context, text string) (string, error) {
  if s.client == nil {
    return "", fmt.Errorf("openai client not configured")
  }
  raw, err := s.client.GenerateText(ctx, titleSystemPrompt, text)
  if err != nil {
    return "", err
  }
  title := clampTitle(raw)
  if title == "" {
    return "", fmt.Errorf("empty title from model")
  }
  return title, nil
}

// clampTitle enforces the 5-word cap even when the model ignores it.
func clampTitle(raw string) string {
  title := strings.TrimSpace(raw)
  title = strings.Trim(title, `"'`)
  title = strings.TrimRight(title, ".!?")
  words := strings.Fields(title)
  if len(words) > 5 {
    words = words[:5]
  }
  return strings.Join(words, " ")
}
