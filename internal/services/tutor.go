package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

// FallbackAssistantReply is persisted when the tutor capability fails; the
// conversation never hard-fails once the user's message is accepted.
const FallbackAssistantReply = "I'm sorry, I'm having trouble generating a response right now. Please try again in a moment."

type TutorService interface {
  Respond(ctx context.Context, systemPrompt string, userText string) (string, error)
}

type tutorService struct {
  log    *logger.Logger
  client OpenAIClient
}

func NewTutorService(baseLog *logger.Logger, client OpenAIClient) TutorService {
  return &tutorService{
    log:    baseLog.With("service", "TutorService"),
    client: client,
  }
}

func (s *tutorService) Respond(ctx context.Context, systemPrompt string, userText string) (string, error) {
  if s.client == nil {
    return "", fmt.Errorf("openai client not configured")
  }
  reply, err := s.client.GenerateText(ctx, systemPrompt, userText)
  if err != nil {
    return "", err
  }
  reply = strings.TrimSpace(reply)
  if reply == "" {
    return "", fmt.Errorf("empty reply from model")
  }
  return reply, nil
}

// BuildTutorSystemPrompt scopes the tutor persona to the detected subject and
// optionally weaves in the user's interests so examples can relate to them.
func BuildTutorSystemPrompt(subject string, addEmojis bool, interests []*types.UserInterest) string {
  var b strings.Builder
  fmt.Fprintf(&b, "You are an encouraging personal tutor specializing in %s. ", subject)
  b.WriteString("Explain concepts clearly and check the student's understanding with short follow-up questions. ")
  if addEmojis {
    b.WriteString("Use emojis to keep the tone friendly. ")
  } else {
    b.WriteString("Do not use emojis. ")
  }
  if len(interests) > 0 {
    labels := make([]string, 0, len(interests))
    for _, it := range interests {
      if it != nil && strings.TrimSpace(it.Interest) != "" {
        labels = append(labels, it.Interest)
      }
    }
    if len(labels) > 0 {
      fmt.Fprintf(&b, "The student is interested in: %s. Relate examples to these interests when natural.", strings.Join(labels, ", "))
    }
  }
  return b.String()
}
