package types

import (
  "time"
  "github.com/google/uuid"
)

type UserInterest struct {
  ID          uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID      uuid.UUID   `gorm:"type:uuid;not null;index;column:user_id" json:"user_id"`
  Interest    string      `gorm:"not null;column:interest" json:"interest"`
  Progress    int         `gorm:"not null;default:0;column:progress" json:"progress"`
  CreatedAt   time.Time   `gorm:"not null;default:now()" json:"created_at"`
}

func (UserInterest) TableName() string {
  return "user_interest"
}
