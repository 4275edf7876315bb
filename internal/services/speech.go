package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
)

type SpeechService interface {
  Synthesize(ctx context.Context, text string) ([]byte, error)
}

type speechService struct {
  log    *logger.Logger
  client OpenAIClient
  voice  string
}

func NewSpeechService(baseLog *logger.Logger, client OpenAIClient, voice string) SpeechService {
  if voice == "" {
    voice = "alloy"
  }
  return &speechService{
    log:    baseLog.With("service", "SpeechService"),
    client: client,
    voice:  voice,
  }
}

func (s *speechService) Synthesize(ctx context.Context, text string) ([]byte, error) {
  text = strings.TrimSpace(text)
  if text == "" {
    return nil, fmt.Errorf("empty text: %w", apperr.ErrValidation)
  }
  if s.client == nil {
    return nil, fmt.Errorf("speech provider not configured: %w", apperr.ErrCapability)
  }
  audio, err := s.client.Speech(ctx, text, s.voice)
  if err != nil {
    s.log.Warn("Speech synthesis failed", "error", err)
    return nil, fmt.Errorf("speech synthesis failed: %w", apperr.ErrCapability)
  }
  return audio, nil
}
