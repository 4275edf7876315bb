package services

import (
  "context"
  "errors"
  "fmt"
  "strings"
  "testing"

  "github.com/google/uuid"
  "go.uber.org/zap"
  "gorm.io/gorm"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/logger"
  "github.com/yungbote/mentora-backend/internal/types"
)

func testLogger() *logger.Logger {
  return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// ---- fake repos ----

type fakeConversationRepo struct {
  rows       map[uuid.UUID]*types.Conversation
  titles     []string
  touched    int
  deleted    []uuid.UUID
}

func newFakeConversationRepo(rows ...*types.Conversation) *fakeConversationRepo {
  r := &fakeConversationRepo{rows: map[uuid.UUID]*types.Conversation{}}
  for _, row := range rows {
    r.rows[row.ID] = row
  }
  return r
}

func (r *fakeConversationRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Conversation) ([]*types.Conversation, error) {
  for _, row := range rows {
    r.rows[row.ID] = row
  }
  return rows, nil
}

func (r *fakeConversationRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Conversation, error) {
  var out []*types.Conversation
  for _, id := range ids {
    if row, ok := r.rows[id]; ok {
      out = append(out, row)
    }
  }
  return out, nil
}

func (r *fakeConversationRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Conversation, error) {
  var out []*types.Conversation
  for _, row := range r.rows {
    if row.UserID == userID {
      out = append(out, row)
    }
  }
  return out, nil
}

func (r *fakeConversationRepo) ListIDsByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
  var out []uuid.UUID
  for id, row := range r.rows {
    if row.UserID == userID {
      out = append(out, id)
    }
  }
  return out, nil
}

func (r *fakeConversationRepo) UpdateTitle(ctx context.Context, tx *gorm.DB, id uuid.UUID, title string) error {
  row, ok := r.rows[id]
  if !ok {
    return gorm.ErrRecordNotFound
  }
  row.Title = title
  r.titles = append(r.titles, title)
  return nil
}

func (r *fakeConversationRepo) Touch(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  r.touched++
  return nil
}

func (r *fakeConversationRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  for _, id := range ids {
    delete(r.rows, id)
    r.deleted = append(r.deleted, id)
  }
  return nil
}

type fakeMessageRepo struct {
  msgs       []*types.Message
  createErr  error
  countErr   error
}

func (r *fakeMessageRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Message) ([]*types.Message, error) {
  if r.createErr != nil {
    return nil, r.createErr
  }
  r.msgs = append(r.msgs, rows...)
  return rows, nil
}

func (r *fakeMessageRepo) ListByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) ([]*types.Message, error) {
  var out []*types.Message
  for _, m := range r.msgs {
    if m.ConversationID == conversationID {
      out = append(out, m)
    }
  }
  return out, nil
}

func (r *fakeMessageRepo) CountByConversation(ctx context.Context, tx *gorm.DB, conversationID uuid.UUID) (int64, error) {
  if r.countErr != nil {
    return 0, r.countErr
  }
  var n int64
  for _, m := range r.msgs {
    if m.ConversationID == conversationID {
      n++
    }
  }
  return n, nil
}

func (r *fakeMessageRepo) DeleteByConversationIDs(ctx context.Context, tx *gorm.DB, conversationIDs []uuid.UUID) error {
  var kept []*types.Message
  for _, m := range r.msgs {
    drop := false
    for _, id := range conversationIDs {
      if m.ConversationID == id {
        drop = true
        break
      }
    }
    if !drop {
      kept = append(kept, m)
    }
  }
  r.msgs = kept
  return nil
}

type fakeInterestRepo struct {
  rows []*types.UserInterest
}

func (r *fakeInterestRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.UserInterest) ([]*types.UserInterest, error) {
  r.rows = append(r.rows, rows...)
  return rows, nil
}

func (r *fakeInterestRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.UserInterest, error) {
  var out []*types.UserInterest
  for _, id := range ids {
    for _, row := range r.rows {
      if row.ID == id {
        out = append(out, row)
      }
    }
  }
  return out, nil
}

func (r *fakeInterestRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserInterest, error) {
  var out []*types.UserInterest
  for _, row := range r.rows {
    if row.UserID == userID {
      out = append(out, row)
    }
  }
  return out, nil
}

func (r *fakeInterestRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
  var kept []*types.UserInterest
  for _, row := range r.rows {
    drop := false
    for _, id := range ids {
      if row.ID == id {
        drop = true
        break
      }
    }
    if !drop {
      kept = append(kept, row)
    }
  }
  r.rows = kept
  return nil
}

type fakeProgressRepo struct {
  upserts []*types.LearningProgress
}

func (r *fakeProgressRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.LearningProgress, error) {
  var out []*types.LearningProgress
  for _, row := range r.upserts {
    if row.UserID == userID {
      out = append(out, row)
    }
  }
  return out, nil
}

func (r *fakeProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LearningProgress) error {
  r.upserts = append(r.upserts, row)
  return nil
}

// ---- fake capabilities ----

type fakeClassifier struct {
  cls     *Classification
  err     error
  calls   int
}

func (f *fakeClassifier) Classify(ctx context.Context, text string) (*Classification, error) {
  f.calls++
  if f.err != nil {
    return nil, f.err
  }
  return f.cls, nil
}

type fakeTitler struct {
  title   string
  err     error
  calls   int
}

func (f *fakeTitler) TitleFor(ctx context.Context, text string) (string, error) {
  f.calls++
  if f.err != nil {
    return "", f.err
  }
  return f.title, nil
}

type fakeTutor struct {
  reply string
  err   error
}

func (f *fakeTutor) Respond(ctx context.Context, systemPrompt, userText string) (string, error) {
  if f.err != nil {
    return "", f.err
  }
  return f.reply, nil
}

type fakeVisuals struct {
  url        string
  imgErr     error
  mm         *types.MindMap
  mmErr      error
  imgCalls   int
  mmCalls    int
}

func (f *fakeVisuals) GenerateImage(ctx context.Context, prompt string) (string, error) {
  f.imgCalls++
  if f.imgErr != nil {
    return "", f.imgErr
  }
  return f.url, nil
}

func (f *fakeVisuals) GenerateMindMap(ctx context.Context, prompt string) (*types.MindMap, error) {
  f.mmCalls++
  if f.mmErr != nil {
    return nil, f.mmErr
  }
  return f.mm, nil
}

// ---- fixture ----

type chatFixture struct {
  svc          ChatService
  convID       uuid.UUID
  userID       uuid.UUID
  convRepo     *fakeConversationRepo
  msgRepo      *fakeMessageRepo
  interests    *fakeInterestRepo
  progress     *fakeProgressRepo
  classifier   *fakeClassifier
  titler       *fakeTitler
  tutor        *fakeTutor
  visuals      *fakeVisuals
}

const longReply = "Photosynthesis converts light energy into chemical energy stored in glucose molecules."

func newChatFixture() *chatFixture {
  userID := uuid.New()
  conv := &types.Conversation{ID: uuid.New(), UserID: userID, Title: types.DefaultConversationTitle}

  f := &chatFixture{
    convID:    conv.ID,
    userID:    userID,
    convRepo:  newFakeConversationRepo(conv),
    msgRepo:   &fakeMessageRepo{},
    interests: &fakeInterestRepo{},
    progress:  &fakeProgressRepo{},
    classifier: &fakeClassifier{cls: &Classification{
      Subject: "Biology", Category: "Science", Icon: "🧬", Confidence: 0.95,
    }},
    titler:  &fakeTitler{title: "Photosynthesis Basics"},
    tutor:   &fakeTutor{reply: longReply},
    visuals: &fakeVisuals{
      url: "https://img.example/diagram.png",
      mm: &types.MindMap{
        CentralTopic: "Photosynthesis",
        Branches:     []types.MindMapBranch{{Label: "Inputs", Children: []string{"Light", "Water"}}},
      },
    },
  }
  f.svc = NewChatService(nil, testLogger(), f.convRepo, f.msgRepo, f.interests, f.progress, f.classifier, f.titler, f.tutor, f.visuals, nil)
  return f
}

func (f *chatFixture) send(t *testing.T, content string, opts SendMessageOptions) (*types.Message, *types.Message) {
  t.Helper()
  userMsg, assistantMsg, err := f.svc.SendMessage(context.Background(), f.convID, content, opts)
  if err != nil {
    t.Fatalf("SendMessage: %v", err)
  }
  return userMsg, assistantMsg
}

// ---- tests ----

func TestSendMessageOrderingAndPersistence(t *testing.T) {
  f := newChatFixture()
  userMsg, assistantMsg := f.send(t, "Explain photosynthesis", SendMessageOptions{})

  if len(f.msgRepo.msgs) != 2 {
    t.Fatalf("expected 2 persisted messages, got %d", len(f.msgRepo.msgs))
  }
  if f.msgRepo.msgs[0].Role != types.MessageRoleUser || f.msgRepo.msgs[1].Role != types.MessageRoleAssistant {
    t.Fatalf("messages persisted out of order: %s, %s", f.msgRepo.msgs[0].Role, f.msgRepo.msgs[1].Role)
  }
  if f.msgRepo.msgs[1].CreatedAt.Before(f.msgRepo.msgs[0].CreatedAt) {
    t.Fatal("assistant message created before user message")
  }
  if userMsg.Content != "Explain photosynthesis" {
    t.Fatalf("user content not stored verbatim: %q", userMsg.Content)
  }
  if assistantMsg.Content != longReply {
    t.Fatalf("unexpected assistant content: %q", assistantMsg.Content)
  }
  if f.convRepo.touched != 1 {
    t.Fatalf("expected 1 conversation touch, got %d", f.convRepo.touched)
  }
}

func TestSendMessageTitleOnlyOnFirstMessage(t *testing.T) {
  f := newChatFixture()
  f.send(t, "Explain photosynthesis", SendMessageOptions{})

  if f.titler.calls != 1 {
    t.Fatalf("expected 1 title call after first message, got %d", f.titler.calls)
  }
  conv := f.convRepo.rows[f.convID]
  if conv.Title != "🧬 Photosynthesis Basics" {
    t.Fatalf("unexpected title: %q", conv.Title)
  }

  f.send(t, "What about cellular respiration?", SendMessageOptions{})
  if f.titler.calls != 1 {
    t.Fatalf("second message re-triggered title generation, calls=%d", f.titler.calls)
  }
}

func TestSendMessageTitleSkippedWhenCountFails(t *testing.T) {
  f := newChatFixture()
  f.msgRepo.countErr = errors.New("count unavailable")

  f.send(t, "Explain photosynthesis", SendMessageOptions{})
  if f.titler.calls != 0 {
    t.Fatalf("title step ran despite count failure, calls=%d", f.titler.calls)
  }
  if f.convRepo.rows[f.convID].Title != types.DefaultConversationTitle {
    t.Fatalf("title changed despite count failure: %q", f.convRepo.rows[f.convID].Title)
  }
}

func TestSendMessageClassifierFallback(t *testing.T) {
  cases := []struct {
    name         string
    cls          *Classification
    err          error
  }{
    {name: "classifier error", err: errors.New("provider down")},
    {name: "low confidence", cls: &Classification{Subject: "Biology", Icon: "🧬", Confidence: 0.7}},
  }
  for _, tc := range cases {
    t.Run(tc.name, func(t *testing.T) {
      f := newChatFixture()
      f.classifier.cls = tc.cls
      f.classifier.err = tc.err

      f.send(t, "Explain photosynthesis", SendMessageOptions{})

      if len(f.interests.rows) != 0 {
        t.Fatalf("fallback subject must not create an interest, got %d rows", len(f.interests.rows))
      }
      if got := f.progress.upserts[0].Topic; got != FallbackSubject {
        t.Fatalf("expected fallback subject in progress, got %q", got)
      }
      if !strings.HasPrefix(f.convRepo.rows[f.convID].Title, FallbackIcon) {
        t.Fatalf("expected fallback icon in title, got %q", f.convRepo.rows[f.convID].Title)
      }
    })
  }
}

func TestSendMessageVisualIndependence(t *testing.T) {
  t.Run("image fails", func(t *testing.T) {
    f := newChatFixture()
    f.visuals.imgErr = errors.New("image provider down")

    _, assistantMsg := f.send(t, "Explain photosynthesis", SendMessageOptions{})
    if assistantMsg.ImageURL != nil {
      t.Fatal("image url should be nil when image synthesis fails")
    }
    if len(assistantMsg.MindMapData) == 0 {
      t.Fatal("mind map should survive an image failure")
    }
  })
  t.Run("mind map fails", func(t *testing.T) {
    f := newChatFixture()
    f.visuals.mmErr = errors.New("mindmap provider down")

    _, assistantMsg := f.send(t, "Explain photosynthesis", SendMessageOptions{})
    if assistantMsg.ImageURL == nil || *assistantMsg.ImageURL != "https://img.example/diagram.png" {
      t.Fatal("image url should survive a mind map failure")
    }
    if len(assistantMsg.MindMapData) != 0 {
      t.Fatal("mind map data should be empty when synthesis fails")
    }
  })
}

func TestSendMessageInterestDedup(t *testing.T) {
  f := newChatFixture()
  f.interests.rows = append(f.interests.rows, &types.UserInterest{
    ID: uuid.New(), UserID: f.userID, Interest: "Advanced Biology", Progress: 40,
  })

  f.send(t, "Explain photosynthesis", SendMessageOptions{})
  f.send(t, "Explain mitosis", SendMessageOptions{})

  count := 0
  for _, row := range f.interests.rows {
    if strings.Contains(strings.ToLower(row.Interest), "biology") {
      count++
    }
  }
  if count != 1 {
    t.Fatalf("expected a single biology interest row, got %d", count)
  }
}

func TestSendMessageInterestCreatedForNewSubject(t *testing.T) {
  f := newChatFixture()
  f.send(t, "Explain photosynthesis", SendMessageOptions{})

  if len(f.interests.rows) != 1 {
    t.Fatalf("expected 1 interest row, got %d", len(f.interests.rows))
  }
  row := f.interests.rows[0]
  if row.Interest != "Biology" || row.Progress != 10 || row.UserID != f.userID {
    t.Fatalf("unexpected interest row: %+v", row)
  }
}

func TestSendMessageAllCapabilitiesDown(t *testing.T) {
  f := newChatFixture()
  f.classifier.err = errors.New("down")
  f.titler.err = errors.New("down")
  f.tutor.err = errors.New("down")
  f.visuals.imgErr = errors.New("down")
  f.visuals.mmErr = errors.New("down")

  userMsg, assistantMsg := f.send(t, "Explain photosynthesis", SendMessageOptions{})

  if userMsg == nil || assistantMsg == nil {
    t.Fatal("pipeline must return both messages when only capabilities fail")
  }
  if assistantMsg.Content != FallbackAssistantReply {
    t.Fatalf("expected fallback reply, got %q", assistantMsg.Content)
  }
  if assistantMsg.ImageURL != nil || len(assistantMsg.MindMapData) != 0 {
    t.Fatal("visual fields must be empty when both capabilities fail")
  }
  // Title falls back to the fallback subject, icon-prefixed.
  if f.convRepo.rows[f.convID].Title != FallbackIcon+" "+FallbackSubject {
    t.Fatalf("unexpected fallback title: %q", f.convRepo.rows[f.convID].Title)
  }
}

func TestSendMessageConversationNotFound(t *testing.T) {
  f := newChatFixture()
  unknown := uuid.New()

  _, _, err := f.svc.SendMessage(context.Background(), unknown, "hello there friend", SendMessageOptions{})
  if !errors.Is(err, apperr.ErrNotFound) {
    t.Fatalf("expected not-found error, got %v", err)
  }
  // No rollback: the user message stays.
  if len(f.msgRepo.msgs) != 1 || f.msgRepo.msgs[0].Role != types.MessageRoleUser {
    t.Fatalf("user message should remain persisted, msgs=%d", len(f.msgRepo.msgs))
  }
}

func TestSendMessageValidation(t *testing.T) {
  f := newChatFixture()
  if _, _, err := f.svc.SendMessage(context.Background(), uuid.Nil, "hi", SendMessageOptions{}); !errors.Is(err, apperr.ErrValidation) {
    t.Fatalf("expected validation error for nil id, got %v", err)
  }
  if _, _, err := f.svc.SendMessage(context.Background(), f.convID, "   ", SendMessageOptions{}); !errors.Is(err, apperr.ErrValidation) {
    t.Fatalf("expected validation error for blank content, got %v", err)
  }
}

func TestSendMessageVisualGateIgnoresFlags(t *testing.T) {
  t.Run("long reply triggers visuals without flags", func(t *testing.T) {
    f := newChatFixture()
    f.send(t, "Explain photosynthesis", SendMessageOptions{})
    if f.visuals.imgCalls != 1 || f.visuals.mmCalls != 1 {
      t.Fatalf("expected visual calls for long reply, img=%d mm=%d", f.visuals.imgCalls, f.visuals.mmCalls)
    }
  })
  t.Run("short reply suppresses visuals despite flags", func(t *testing.T) {
    f := newChatFixture()
    f.tutor.reply = "Sure."
    f.send(t, "Explain photosynthesis", SendMessageOptions{GenerateImage: true, GenerateMindMap: true})
    if f.visuals.imgCalls != 0 || f.visuals.mmCalls != 0 {
      t.Fatalf("expected no visual calls for short reply, img=%d mm=%d", f.visuals.imgCalls, f.visuals.mmCalls)
    }
  })
}

func TestSendMessageProgressUpserts(t *testing.T) {
  f := newChatFixture()
  content := strings.Repeat("photosynthesis ", 10) // > 100 chars
  f.send(t, content, SendMessageOptions{GenerateImage: true})

  if len(f.progress.upserts) != 2 {
    t.Fatalf("expected 2 progress upserts, got %d", len(f.progress.upserts))
  }
  first := f.progress.upserts[0]
  if first.Topic != "Biology" || first.Progress != 5 || first.VisualsGenerated != 1 {
    t.Fatalf("unexpected subject upsert: %+v", first)
  }
  second := f.progress.upserts[1]
  wantPrefix := string([]rune(strings.TrimSpace(content))[:100])
  if second.Topic != wantPrefix {
    t.Fatalf("unexpected prefix topic: %q", second.Topic)
  }
  if second.Progress != 10 || second.VisualsGenerated != 2 {
    t.Fatalf("unexpected prefix upsert: %+v", second)
  }
}

func TestSendMessageProgressCapsAtHundred(t *testing.T) {
  f := newChatFixture()
  for i := 0; i < 25; i++ {
    f.msgRepo.msgs = append(f.msgRepo.msgs, &types.Message{
      ID: uuid.New(), ConversationID: f.convID, Role: types.MessageRoleUser,
      Content: fmt.Sprintf("message %d", i),
    })
  }
  f.send(t, "one more question", SendMessageOptions{})

  if got := f.progress.upserts[0].Progress; got != 100 {
    t.Fatalf("expected progress capped at 100, got %d", got)
  }
}

func TestListMessages(t *testing.T) {
  f := newChatFixture()
  f.send(t, "Explain photosynthesis", SendMessageOptions{})

  msgs, err := f.svc.ListMessages(context.Background(), f.convID)
  if err != nil {
    t.Fatalf("ListMessages: %v", err)
  }
  if len(msgs) != 2 {
    t.Fatalf("expected 2 messages, got %d", len(msgs))
  }

  other, err := f.svc.ListMessages(context.Background(), uuid.New())
  if err != nil {
    t.Fatalf("ListMessages unknown conversation: %v", err)
  }
  if len(other) != 0 {
    t.Fatalf("expected empty list, got %d", len(other))
  }
}
