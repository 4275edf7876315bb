package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/repos"
)

type KnowledgeTestQuestion struct {
  Question   string     `json:"question"`
  Options    []string   `json:"options"`
  Answer     string     `json:"answer"`
  Topic      string     `json:"topic"`
}

type KnowledgeTest struct {
  Title       string                    `json:"title"`
  Questions   []KnowledgeTestQuestion   `json:"questions"`
}

// AssessmentService builds a best-effort knowledge test from what the user
// has been studying (conversation titles + interests). Capability failure
// yields an empty test, never an error to the caller.
type AssessmentService interface {
  GenerateKnowledgeTest(ctx context.Context, userID uuid.UUID) (*KnowledgeTest, error)
}

type assessmentService struct {
  log           *logger.Logger
  client        OpenAIClient
  conversations repos.ConversationRepo
  interests     repos.UserInterestRepo
}

func NewAssessmentService(
  baseLog *logger.Logger,
  client OpenAIClient,
  conversationRepo repos.ConversationRepo,
  interestRepo repos.UserInterestRepo,
) AssessmentService {
  return &assessmentService{
    log:           baseLog.With("service", "AssessmentService"),
    client:        client,
    conversations: conversationRepo,
    interests:     interestRepo,
  }
}

var knowledgeTestSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "title": map[string]any{"type": "string"},
    "questions": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "question": map[string]any{"type": "string"},
          "options": map[string]any{
            "type":  "array",
            "items": map[string]any{"type": "string"},
          },
          "answer": map[string]any{"type": "string"},
          "topic":  map[string]any{"type": "string"},
        },
        "required":             []string{"question", "options", "answer", "topic"},
        "additionalProperties": false,
      },
    },
  },
  "required":             []string{"title", "questions"},
  "additionalProperties": false,
}

const knowledgeTestSystemPrompt = `You write short knowledge checks for a
student. Given the topics they have been studying, produce 5 multiple-choice
questions, each with 4 options, the correct answer, and the topic it tests.`

func (s *assessmentService) GenerateKnowledgeTest(ctx context.Context, userID uuid.UUID) (*KnowledgeTest, error) {
  if userID == uuid.Nil {
    return nil, fmt.Errorf("missing user id: %w", apperr.ErrValidation)
  }
  log := s.log.With("user_id", userID)

  var topics []string
  convs, cErr := s.conversations.ListByUser(ctx, nil, userID)
  if cErr != nil {
    log.Warn("Failed to load conversations for knowledge test", "error", cErr)
  } else {
    for _, c := range convs {
      if c != nil && strings.TrimSpace(c.Title) != "" {
        topics = append(topics, c.Title)
      }
    }
  }
  ints, iErr := s.interests.ListByUser(ctx, nil, userID)
  if iErr != nil {
    log.Warn("Failed to load interests for knowledge test", "error", iErr)
  } else {
    for _, it := range ints {
      if it != nil && strings.TrimSpace(it.Interest) != "" {
        topics = append(topics, it.Interest)
      }
    }
  }

  empty := &KnowledgeTest{Title: "Knowledge Check", Questions: []KnowledgeTestQuestion{}}
  if len(topics) == 0 {
    return empty, nil
  }
  if s.client == nil {
    log.Warn("OpenAI client not configured, returning empty knowledge test")
    return empty, nil
  }

  user := "Topics studied:\n- " + strings.Join(topics, "\n- ")
  obj, err := s.client.GenerateJSON(ctx, knowledgeTestSystemPrompt, user, "knowledge_test", knowledgeTestSchema)
  if err != nil {
    log.Warn("Knowledge test generation failed, returning empty test", "error", err)
    return empty, nil
  }

  test := parseKnowledgeTest(obj)
  if test == nil {
    log.Warn("Knowledge test response malformed, returning empty test")
    return empty, nil
  }
  return test, nil
}

func parseKnowledgeTest(obj map[string]any) *KnowledgeTest {
  if obj == nil {
    return nil
  }
  title, _ := obj["title"].(string)
  if strings.TrimSpace(title) == "" {
    title = "Knowledge Check"
  }
  rawQuestions, ok := obj["questions"].([]any)
  if !ok {
    return nil
  }
  test := &KnowledgeTest{Title: title, Questions: []KnowledgeTestQuestion{}}
  for _, rq := range rawQuestions {
    qm, ok := rq.(map[string]any)
    if !ok {
      return nil
    }
    question, _ := qm["question"].(string)
    answer, _ := qm["answer"].(string)
    topic, _ := qm["topic"].(string)
    if strings.TrimSpace(question) == "" || strings.TrimSpace(answer) == "" {
      return nil
    }
    var options []string
    if rawOptions, ok := qm["options"].([]any); ok {
      for _, ro := range rawOptions {
        if opt, ok := ro.(string); ok && strings.TrimSpace(opt) != "" {
          options = append(options, opt)
        }
      }
    }
    if len(options) < 2 {
      return nil
    }
    test.Questions = append(test.Questions, KnowledgeTestQuestion{
      Question: question,
      Options:  options,
      Answer:   answer,
      Topic:    topic,
    })
  }
  return test
}
