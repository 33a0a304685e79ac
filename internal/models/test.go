package models

import (
	"time"

	"gorm.io/datatypes"
)

// Test is the stored outcome of one essay evaluation. Records are write-once:
// the repository exposes no update path for them.
type Test struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"index;not null" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	Question  string         `gorm:"type:text;not null" json:"question"`
	Essay     string         `gorm:"type:text;not null" json:"essay"`
	Results   datatypes.JSON `gorm:"type:jsonb" json:"results"`
}
