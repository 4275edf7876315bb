package services

import (
  "context"
  "fmt"
  "strings"

  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

// VisualService wraps the two independent visual capabilities. Image and
// mind-map synthesis share no state and fail independently.
type VisualService interface {
  GenerateImage(ctx context.Context, prompt string) (string, error)
  GenerateMindMap(ctx context.Context, prompt string) (*types.MindMap, error)
}

type visualService struct {
  log    *logger.Logger
  client OpenAIClient
}

func NewVisualService(baseLog *logger.Logger, client OpenAIClient) VisualService {
  return &visualService{
    log:    baseLog.With("service", "VisualService"),
    client: client,
  }
}

func (s *visualService) GenerateImage(ctx context.Context, prompt string) (string, error) {
  if s.client == nil {
    return "", fmt.Errorf("openai client not configured")
  }
  return s.client.GenerateImage(ctx, prompt)
}

var mindMapSchema = map[string]any{
  "type": "object",
  "properties": map[string]any{
    "central_topic": map[string]any{"type": "string"},
    "branches": map[string]any{
      "type": "array",
      "items": map[string]any{
        "type": "object",
        "properties": map[string]any{
          "label": map[string]any{"type": "string"},
          "children": map[string]any{
            "type":  "array",
            "items": map[string]any{"type": "string"},
          },
        },
        "required":             []string{"label", "children"},
        "additionalProperties": false,
      },
    },
  },
  "required":             []string{"central_topic", "branches"},
  "additionalProperties": false,
}

const mindMapSystemPrompt = `You build educational mind maps. Given a topic or
question, produce a central topic, 3-6 branches covering its key aspects, and
2-4 short child points per branch.`

func (s *visualService) GenerateMindMap(ctx context.Context, prompt string) (*types.MindMap, error) {
  if s.client == nil {
    return nil, fmt.Errorf("openai client not configured")
  }
  obj, err := s.client.GenerateJSON(ctx, mindMapSystemPrompt, prompt, "mind_map", mindMapSchema)
  if err != nil {
    return nil, err
  }
  mm, vErr := parseMindMap(obj)
  if vErr != nil {
    return nil, vErr
  }
  return mm, nil
}

// parseMindMap validates shape explicitly; a malformed mind map is a total
// failure rather than a partially filled structure.
func parseMindMap(obj map[string]any) (*types.MindMap, error) {
  if obj == nil {
    return nil, fmt.Errorf("empty mind map response")
  }
  central, ok := obj["central_topic"].(string)
  if !ok || strings.TrimSpace(central) == "" {
    return nil, fmt.Errorf("mind map missing central topic")
  }
  rawBranches, ok := obj["branches"].([]any)
  if !ok || len(rawBranches) == 0 {
    return nil, fmt.Errorf("mind map has no branches")
  }
  mm := &types.MindMap{CentralTopic: strings.TrimSpace(central)}
  for _, rb := range rawBranches {
    bm, ok := rb.(map[string]any)
    if !ok {
      return nil, fmt.Errorf("mind map branch is not an object")
    }
    label, ok := bm["label"].(string)
    if !ok || strings.TrimSpace(label) == "" {
      return nil, fmt.Errorf("mind map branch missing label")
    }
    branch := types.MindMapBranch{Label: strings.TrimSpace(label), Children: []string{}}
    if rawChildren, ok := bm["children"].([]any); ok {
      for _, rc := range rawChildren {
        child, ok := rc.(string)
        if !ok {
          return nil, fmt.Errorf("mind map child is not a string")
        }
        if strings.TrimSpace(child) != "" {
          branch.Children = append(branch.Children, strings.TrimSpace(child))
        }
      }
    }
    mm.Branches = append(mm.Branches, branch)
  }
  return mm, nil
}

// EducationalImagePrompt derives the "educational diagram" prompt the chat
// pipeline feeds to image synthesis.
func EducationalImagePrompt(content string) string {
  return fmt.Sprintf("A clear, labeled educational diagram illustrating: %s. Clean vector style, white background, suitable for a study guide.", content)
}

// MindMapPrompt derives the structured mind-map prompt from the user message.
func MindMapPrompt(content string) string {
  return fmt.Sprintf("Create a study mind map for: %s", content)
}
