package services

import (
  "context"
  "encoding/json"
  "fmt"
  "strings"
  "time"

  "github.com/google/uuid"
  "golang.org/x/sync/errgroup"
  "gorm.io/datatypes"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/repos"
  "github.com/yungbote/mentora-backend/internal/types"
)

type SendMessageOptions struct {
  GenerateImage    bool
  GenerateMindMap  bool
  AddEmojis        bool
}

// ChatService runs the message pipeline: persist the user turn, classify,
// title (first turn only), bookkeep interests/progress, generate the tutor
// reply and visuals, persist the assistant turn. Only message persistence and
// conversation existence are fatal; every capability step degrades to a
// fallback value.
type ChatService interface {
  SendMessage(ctx context.Context, conversationID uuid.UUID, content string, opts SendMessageOptions) (*types.Message, *types.Message, error)
  ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*types.Message, error)
}

type chatService struct {
  db  *gorm.DB
  log *logger.Logger

  conversations repos.ConversationRepo
  messages      repos.MessageRepo
  interests     repos.UserInterestRepo
  progress      repos.LearningProgressRepo

  classifier ClassifierService
  titles     TitleService
  tutor      TutorService
  visuals    VisualService
  notify     ChatNotifier
}

func NewChatService(
  db *gorm.DB,
  baseLog *logger.Logger,
  conversationRepo repos.ConversationRepo,
  messageRepo repos.MessageRepo,
  interestRepo repos.UserInterestRepo,
  progressRepo repos.LearningProgressRepo,
  classifier ClassifierService,
  titles TitleService,
  tutor TutorService,
  visuals VisualService,
  notify ChatNotifier,
) ChatService {
  return &chatService{
    db:            db,
    log:           baseLog.With("service", "ChatService"),
    conversations: conversationRepo,
    messages:      messageRepo,
    interests:     interestRepo,
    progress:      progressRepo,
    classifier:    classifier,
    titles:        titles,
    tutor:         tutor,
    visuals:       visuals,
    notify:        notify,
  }
}

// Visuals are generated for any substantial answer; the caller's flags feed
// the persona instructions and progress bookkeeping, not this gate.
const visualTriggerLength = 50

func (s *chatService) SendMessage(ctx context.Context, conversationID uuid.UUID, content string, opts SendMessageOptions) (*types.Message, *types.Message, error) {
  content = strings.TrimSpace(content)
  if conversationID == uuid.Nil {
    return nil, nil, fmt.Errorf("missing conversation id: %w", apperr.ErrValidation)
  }
  if content == "" {
    return nil, nil, fmt.Errorf("empty message content: %w", apperr.ErrValidation)
  }
  log := s.log.With("conversation_id", conversationID)

  // The first-turn check needs the count as it was before this message; if
  // the count cannot be read the title step is skipped, never re-run later.
  priorCount, countErr := s.messages.CountByConversation(ctx, nil, conversationID)
  if countErr != nil {
    log.Warn("Failed to count prior messages; skipping title step", "error", countErr)
  }

  now := time.Now().UTC()
  userMsg := &types.Message{
    ID:             uuid.New(),
    ConversationID: conversationID,
    Role:           types.MessageRoleUser,
    Content:        content,
    CreatedAt:      now,
  }
  if _, err := s.messages.Create(ctx, nil, []*types.Message{userMsg}); err != nil {
    return nil, nil, fmt.Errorf("failed to persist user message: %w", err)
  }

  convs, err := s.conversations.GetByIDs(ctx, nil, []uuid.UUID{conversationID})
  if err != nil {
    return nil, nil, fmt.Errorf("failed to load conversation: %w", err)
  }
  if len(convs) == 0 || convs[0] == nil {
    // The user message stays persisted; there is no rollback here.
    return nil, nil, fmt.Errorf("conversation %s: %w", conversationID, apperr.ErrNotFound)
  }
  conv := convs[0]

  interests, iErr := s.interests.ListByUser(ctx, nil, conv.UserID)
  if iErr != nil {
    log.Warn("Failed to load user interests", "error", iErr, "user_id", conv.UserID)
    interests = nil
  }

  subject := FallbackSubject
  icon := FallbackIcon
  cls, clErr := s.classifier.Classify(ctx, content)
  if clErr != nil {
    log.Warn("Classification failed, using fallback subject", "error", clErr)
  } else if cls.Confidence <= ClassifierConfidenceThreshold {
    log.Debug("Classification below confidence threshold, using fallback subject", "subject", cls.Subject, "confidence", cls.Confidence)
  } else {
    subject = cls.Subject
    icon = cls.Icon
  }

  if countErr == nil && priorCount == 0 {
    s.applyFirstMessageTitle(ctx, log, conv, content, subject, icon)
  }

  if subject != FallbackSubject && !hasMatchingInterest(interests, subject) {
    newInterest := &types.UserInterest{
      ID:        uuid.New(),
      UserID:    conv.UserID,
      Interest:  subject,
      Progress:  10,
      CreatedAt: time.Now().UTC(),
    }
    if _, ciErr := s.interests.Create(ctx, nil, []*types.UserInterest{newInterest}); ciErr != nil {
      log.Warn("Failed to create interest", "error", ciErr, "interest", subject)
    }
  }

  flagVisuals := 0
  if opts.GenerateImage {
    flagVisuals++
  }
  if opts.GenerateMindMap {
    flagVisuals++
  }
  if upErr := s.progress.Upsert(ctx, nil, &types.LearningProgress{
    UserID:           conv.UserID,
    Topic:            subject,
    Progress:         min(100, int(priorCount+1)*5),
    VisualsGenerated: flagVisuals,
    LastActivity:     time.Now().UTC(),
  }); upErr != nil {
    log.Warn("Failed to upsert subject progress", "error", upErr, "topic", subject)
  }

  systemPrompt := BuildTutorSystemPrompt(subject, opts.AddEmojis, interests)
  reply, rErr := s.tutor.Respond(ctx, systemPrompt, content)
  if rErr != nil {
    log.Warn("Tutor response failed, using fallback reply", "error", rErr)
    reply = FallbackAssistantReply
  }

  var imageURL *string
  var mindMapJSON datatypes.JSON
  shouldGenerateVisuals := len(reply) > visualTriggerLength
  if shouldGenerateVisuals {
    imageURL, mindMapJSON = s.generateVisuals(ctx, log, content)
  }

  assistantMsg := &types.Message{
    ID:             uuid.New(),
    ConversationID: conversationID,
    Role:           types.MessageRoleAssistant,
    Content:        reply,
    ImageURL:       imageURL,
    MindMapData:    mindMapJSON,
    CreatedAt:      time.Now().UTC(),
  }
  if _, err := s.messages.Create(ctx, nil, []*types.Message{assistantMsg}); err != nil {
    return nil, nil, fmt.Errorf("failed to persist assistant message: %w", err)
  }

  // Second progress row keyed by the raw message prefix. This deliberately
  // differs from the subject-keyed row above and fragments topics; changing
  // the key changes dashboard numbers, so it stays.
  prefixVisuals := 0
  if shouldGenerateVisuals {
    prefixVisuals = 2
  }
  if upErr := s.progress.Upsert(ctx, nil, &types.LearningProgress{
    UserID:           conv.UserID,
    Topic:            runePrefix(content, 100),
    Progress:         10,
    VisualsGenerated: prefixVisuals,
    LastActivity:     time.Now().UTC(),
  }); upErr != nil {
    log.Warn("Failed to upsert message-prefix progress", "error", upErr)
  }

  if err := s.conversations.Touch(ctx, nil, conversationID); err != nil {
    return nil, nil, fmt.Errorf("failed to touch conversation: %w", err)
  }

  if s.notify != nil {
    s.notify.MessageCreated(conv.UserID, userMsg)
    s.notify.MessageCreated(conv.UserID, assistantMsg)
    s.notify.ConversationUpdated(conv.UserID, conv)
  }

  return userMsg, assistantMsg, nil
}

func (s *chatService) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]*types.Message, error) {
  if conversationID == uuid.Nil {
    return nil, fmt.Errorf("missing conversation id: %w", apperr.ErrValidation)
  }
  msgs, err := s.messages.ListByConversation(ctx, nil, conversationID)
  if err != nil {
    return nil, err
  }
  if msgs == nil {
    msgs = []*types.Message{}
  }
  return msgs, nil
}

// applyFirstMessageTitle runs only on a conversation's opening turn; every
// failure inside is swallowed because the title is best-effort.
func (s *chatService) applyFirstMessageTitle(ctx context.Context, log *logger.Logger, conv *types.Conversation, content, subject, icon string) {
  title, tErr := s.titles.TitleFor(ctx, content)
  if tErr != nil || strings.TrimSpace(title) == "" {
    log.Warn("Title generation failed, falling back to subject", "error", tErr)
    title = subject
  }
  full := icon + " " + title
  if uErr := s.conversations.UpdateTitle(ctx, nil, conv.ID, full); uErr != nil {
    log.Warn("Failed to update conversation title", "error", uErr)
    return
  }
  conv.Title = full
}

// generateVisuals issues the image and mind-map calls concurrently; either
// may fail on its own and simply leaves its field nil.
func (s *chatService) generateVisuals(ctx context.Context, log *logger.Logger, content string) (*string, datatypes.JSON) {
  var imageURL *string
  var mindMapJSON datatypes.JSON

  var g errgroup.Group
  g.Go(func() error {
    url, err := s.visuals.GenerateImage(ctx, EducationalImagePrompt(content))
    if err != nil {
      log.Warn("Image generation failed", "error", err)
      return nil
    }
    imageURL = &url
    return nil
  })
  g.Go(func() error {
    mm, err := s.visuals.GenerateMindMap(ctx, MindMapPrompt(content))
    if err != nil {
      log.Warn("Mind map generation failed", "error", err)
      return nil
    }
    raw, mErr := json.Marshal(mm)
    if mErr != nil {
      log.Warn("Mind map marshal failed", "error", mErr)
      return nil
    }
    mindMapJSON = datatypes.JSON(raw)
    return nil
  })
  _ = g.Wait()

  return imageURL, mindMapJSON
}

func hasMatchingInterest(interests []*types.UserInterest, subject string) bool {
  needle := strings.ToLower(subject)
  for _, it := range interests {
    if it == nil {
      continue
    }
    if strings.Contains(strings.ToLower(it.Interest), needle) {
      return true
    }
  }
  return false
}

func runePrefix(s string, n int) string {
  runes := []rune(s)
  if len(runes) <= n {
    return s
  }
  return string(runes[:n])
}
