package types

import (
  "time"
  "github.com/google/uuid"
)

// LearningProgress is keyed by (user_id, topic); the composite unique index
// makes concurrent upserts conflict at the database instead of duplicating
// rows. Topic strings come from two sources (detected subject and raw message
// prefix), so a user's topics are not a clean taxonomy.
type LearningProgress struct {
  ID                 uuid.UUID   `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
  UserID             uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_learning_progress_user_topic;column:user_id" json:"user_id"`
  Topic              string      `gorm:"not null;uniqueIndex:idx_learning_progress_user_topic;column:topic" json:"topic"`
  Progress           int         `gorm:"not null;default:0;column:progress" json:"progress"`
  VisualsGenerated   int         `gorm:"not null;default:0;column:visuals_generated" json:"visuals_generated"`
  LastActivity       time.Time   `gorm:"not null;default:now();column:last_activity" json:"last_activity"`
}

func (LearningProgress) TableName() string {
  return "learning_progress"
}
