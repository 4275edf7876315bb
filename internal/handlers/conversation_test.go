package handlers

import (
  "context"
  "fmt"
  "net/http"
  "net/http/httptest"
  "testing"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/yungbote/mentora-backend/internal/apperr"
  "github.com/yungbote/mentora-backend/internal/types"
)

type fakeConversationService struct {
  deleted     []uuid.UUID
  cleared     []uuid.UUID
  deleteErr   error
}

func (f *fakeConversationService) Create(ctx context.Context, userID uuid.UUID, title string) (*types.Conversation, error) {
  return &types.Conversation{ID: uuid.New(), UserID: userID, Title: title}, nil
}

func (f *fakeConversationService) ListByUser(ctx context.Context, userID uuid.UUID) ([]*types.Conversation, error) {
  return []*types.Conversation{}, nil
}

func (f *fakeConversationService) RenameFromContent(ctx context.Context, id uuid.UUID, content string) (*types.Conversation, error) {
  return &types.Conversation{ID: id, Title: content}, nil
}

func (f *fakeConversationService) Delete(ctx context.Context, id uuid.UUID) error {
  if f.deleteErr != nil {
    return f.deleteErr
  }
  f.deleted = append(f.deleted, id)
  return nil
}

func (f *fakeConversationService) ClearAll(ctx context.Context, userID uuid.UUID) error {
  f.cleared = append(f.cleared, userID)
  return nil
}

func newConversationRouter(svc *fakeConversationService) *gin.Engine {
  gin.SetMode(gin.TestMode)
  r := gin.New()
  h := NewConversationHandler(testLogger(), svc)
  r.DELETE("/conversations/*rest", h.DeleteDispatch)
  return r
}

func TestConversationDeleteDispatch(t *testing.T) {
  t.Run("single delete", func(t *testing.T) {
    svc := &fakeConversationService{}
    router := newConversationRouter(svc)
    id := uuid.New()

    req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/conversations/%s", id), nil)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    if w.Code != http.StatusOK {
      t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    if len(svc.deleted) != 1 || svc.deleted[0] != id {
      t.Fatalf("deleted = %v", svc.deleted)
    }
  })

  t.Run("clear all", func(t *testing.T) {
    svc := &fakeConversationService{}
    router := newConversationRouter(svc)
    userID := uuid.New()

    req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/conversations/user/%s/clear", userID), nil)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    if w.Code != http.StatusOK {
      t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
    }
    if len(svc.cleared) != 1 || svc.cleared[0] != userID {
      t.Fatalf("cleared = %v", svc.cleared)
    }
    if len(svc.deleted) != 0 {
      t.Fatalf("clear path must not hit single delete, deleted = %v", svc.deleted)
    }
  })

  t.Run("unknown shape", func(t *testing.T) {
    router := newConversationRouter(&fakeConversationService{})
    req := httptest.NewRequest(http.MethodDelete, "/conversations/user/oops", nil)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    if w.Code != http.StatusNotFound {
      t.Fatalf("status = %d, want 404", w.Code)
    }
  })

  t.Run("bad id", func(t *testing.T) {
    router := newConversationRouter(&fakeConversationService{})
    req := httptest.NewRequest(http.MethodDelete, "/conversations/not-a-uuid", nil)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    if w.Code != http.StatusBadRequest {
      t.Fatalf("status = %d, want 400", w.Code)
    }
  })

  t.Run("missing conversation", func(t *testing.T) {
    svc := &fakeConversationService{deleteErr: fmt.Errorf("conversation: %w", apperr.ErrNotFound)}
    router := newConversationRouter(svc)
    req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/conversations/%s", uuid.New()), nil)
    w := httptest.NewRecorder()
    router.ServeHTTP(w, req)

    if w.Code != http.StatusNotFound {
      t.Fatalf("status = %d, want 404", w.Code)
    }
  })
}
