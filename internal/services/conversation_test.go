package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"
  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/types"
)

// The fakes ignore the tx parameter; the db here only supplies transaction
// mechanics for the delete paths.
func openTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Default.LogMode(gormlogger.Silent)})
  if err != nil {
    t.Fatalf("open test db: %v", err)
  }
  return db
}

func seedConversation(msgRepo *fakeMessageRepo, convID uuid.UUID, n int) {
  for i := 0; i < n; i++ {
    msgRepo.msgs = append(msgRepo.msgs, &types.Message{
      ID: uuid.New(), ConversationID: convID, Role: types.MessageRoleUser, Content: "m",
    })
  }
}

func TestConversationCreateDefaultTitle(t *testing.T) {
  convRepo := newFakeConversationRepo()
  svc := NewConversationService(nil, testLogger(), convRepo, &fakeMessageRepo{}, &fakeTitler{})

  conv, err := svc.Create(context.Background(), uuid.New(), "   ")
  if err != nil {
    t.Fatalf("Create: %v", err)
  }
  if conv.Title != types.DefaultConversationTitle {
    t.Fatalf("title = %q, want default", conv.Title)
  }

  named, err := svc.Create(context.Background(), uuid.New(), "Physics Help")
  if err != nil {
    t.Fatalf("Create: %v", err)
  }
  if named.Title != "Physics Help" {
    t.Fatalf("title = %q", named.Title)
  }
}

func TestConversationDeleteCascades(t *testing.T) {
  userID := uuid.New()
  conv := &types.Conversation{ID: uuid.New(), UserID: userID, Title: "T"}
  convRepo := newFakeConversationRepo(conv)
  msgRepo := &fakeMessageRepo{}
  seedConversation(msgRepo, conv.ID, 5)

  svc := NewConversationService(openTestDB(t), testLogger(), convRepo, msgRepo, &fakeTitler{})

  if err := svc.Delete(context.Background(), conv.ID); err != nil {
    t.Fatalf("Delete: %v", err)
  }
  if len(msgRepo.msgs) != 0 {
    t.Fatalf("expected 0 messages after delete, got %d", len(msgRepo.msgs))
  }
  convs, _ := svc.ListByUser(context.Background(), userID)
  if len(convs) != 0 {
    t.Fatalf("conversation still listed after delete")
  }
}

func TestConversationDeleteUnknown(t *testing.T) {
  svc := NewConversationService(openTestDB(t), testLogger(), newFakeConversationRepo(), &fakeMessageRepo{}, &fakeTitler{})
  if err := svc.Delete(context.Background(), uuid.New()); !errors.Is(err, apperr.ErrNotFound) {
    t.Fatalf("expected not-found, got %v", err)
  }
}

func TestConversationClearAll(t *testing.T) {
  userID := uuid.New()
  conv1 := &types.Conversation{ID: uuid.New(), UserID: userID}
  conv2 := &types.Conversation{ID: uuid.New(), UserID: userID}
  other := &types.Conversation{ID: uuid.New(), UserID: uuid.New()}
  convRepo := newFakeConversationRepo(conv1, conv2, other)
  msgRepo := &fakeMessageRepo{}
  seedConversation(msgRepo, conv1.ID, 3)
  seedConversation(msgRepo, conv2.ID, 2)
  seedConversation(msgRepo, other.ID, 4)

  svc := NewConversationService(openTestDB(t), testLogger(), convRepo, msgRepo, &fakeTitler{})

  if err := svc.ClearAll(context.Background(), userID); err != nil {
    t.Fatalf("ClearAll: %v", err)
  }
  if len(msgRepo.msgs) != 4 {
    t.Fatalf("expected only the other user's 4 messages, got %d", len(msgRepo.msgs))
  }
  if _, ok := convRepo.rows[other.ID]; !ok {
    t.Fatal("other user's conversation must survive")
  }
  if len(convRepo.rows) != 1 {
    t.Fatalf("expected 1 remaining conversation, got %d", len(convRepo.rows))
  }
}

func TestConversationRenameFromContent(t *testing.T) {
  conv := &types.Conversation{ID: uuid.New(), UserID: uuid.New(), Title: "Old"}

  t.Run("generated title", func(t *testing.T) {
    convRepo := newFakeConversationRepo(&types.Conversation{ID: conv.ID, UserID: conv.UserID, Title: "Old"})
    svc := NewConversationService(nil, testLogger(), convRepo, &fakeMessageRepo{}, &fakeTitler{title: "Wave Mechanics"})

    got, err := svc.RenameFromContent(context.Background(), conv.ID, "explain wave mechanics to me")
    if err != nil {
      t.Fatalf("RenameFromContent: %v", err)
    }
    if got.Title != "Wave Mechanics" {
      t.Fatalf("title = %q", got.Title)
    }
  })

  t.Run("capability failure falls back to content prefix", func(t *testing.T) {
    convRepo := newFakeConversationRepo(&types.Conversation{ID: conv.ID, UserID: conv.UserID, Title: "Old"})
    svc := NewConversationService(nil, testLogger(), convRepo, &fakeMessageRepo{}, &fakeTitler{err: errors.New("down")})

    got, err := svc.RenameFromContent(context.Background(), conv.ID, "explain wave mechanics to me")
    if err != nil {
      t.Fatalf("RenameFromContent: %v", err)
    }
    if got.Title != "explain wave mechanics to me" {
      t.Fatalf("title = %q", got.Title)
    }
  })

  t.Run("unknown conversation", func(t *testing.T) {
    svc := NewConversationService(nil, testLogger(), newFakeConversationRepo(), &fakeMessageRepo{}, &fakeTitler{})
    if _, err := svc.RenameFromContent(context.Background(), uuid.New(), "content"); !errors.Is(err, apperr.ErrNotFound) {
      t.Fatalf("expected not-found, got %v", err)
    }
  })
}
