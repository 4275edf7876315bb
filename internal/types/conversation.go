package types

import (
  "time"
  "github.com/google/uuid"
)

const DefaultConversationTitle = "New Learning Session"

type Conversation struct {
  ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  Title       string      `gorm:"not null;column:title" json:"title"`
  CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
  UpdatedAt   time.Time   `gorm:"not null;default:now()" json:"updated_at"`
}

func (Conversation) TableName() string {
  return "conversation"
}
