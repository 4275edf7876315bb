package types

import (
  "time"
  "github.com/google/uuid"
  "gorm.io/datatypes"
)

const (
  MessageRoleUser        = "user"
  MessageRoleAssistant   = "assistant"
)

// Message rows are immutable once created; there is no update path.
type Message struct {
  ID               uuid.UUID        `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  ConversationID   uuid.UUID        `gorm:"type:uuid;not null;index;column:conversation_id" json:"conversation_id"`
  Role             string           `gorm:"not null;column:role" json:"role"`
  Content          string           `gorm:"not null;column:content" json:"content"`
  ImageURL         *string          `gorm:"column:image_url" json:"image_url"`
  MindMapData      datatypes.JSON   `gorm:"type:jsonb;column:mind_map_data" json:"mind_map_data"`
  CreatedAt        time.Time        `gorm:"not null;default:now();index" json:"created_at"`
}

func (Message) TableName() string {
  return "message"
}
